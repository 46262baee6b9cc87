package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/pep263/internal/cli"
	"github.com/vvka-141/pep263/pkg/pep263"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(pep263.ExitPanic)
		}
	}()

	if os.Getenv("PEP263_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(pep263.ExitCodeForError(err))
	}
}
