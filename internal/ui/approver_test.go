package ui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestForcedApprover_ApprovesAfterCountdown(t *testing.T) {
	var output bytes.Buffer
	sleepCalls := 0

	approver := &ForcedApprover{
		output:    &output,
		countdown: 3 * time.Second,
		sleepFn: func(d time.Duration) {
			sleepCalls++
		},
	}

	approved, err := approver.RequestApproval(context.Background(), "src", "utf-8")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !approved {
		t.Fatal("Expected approval after countdown")
	}
	if sleepCalls != 3 {
		t.Errorf("Expected 3 sleep calls (one per second), got %d", sleepCalls)
	}
	if !strings.Contains(output.String(), "Replacing in: 1 seconds") {
		t.Errorf("Expected countdown in output, got:\n%s", output.String())
	}
}

func TestForcedApprover_NoCountdown(t *testing.T) {
	var output bytes.Buffer
	approver := NewForcedApprover(&output, 0).(*ForcedApprover)
	approver.sleepFn = func(time.Duration) { t.Fatal("sleep must not be called") }

	approved, err := approver.RequestApproval(context.Background(), "src", "utf-8")
	if err != nil || !approved {
		t.Fatalf("Expected immediate approval, got %v, %v", approved, err)
	}
	if strings.Contains(output.String(), "Replacing in") {
		t.Errorf("Expected no countdown, got:\n%s", output.String())
	}
}

func TestForcedApprover_OutputContainsDetails(t *testing.T) {
	var output bytes.Buffer

	approver := &ForcedApprover{
		output:    &output,
		countdown: time.Second,
		sleepFn:   func(time.Duration) {},
	}

	_, _ = approver.RequestApproval(context.Background(), "legacy/src", "latin-1")

	out := output.String()
	if !strings.Contains(out, "legacy/src") {
		t.Errorf("Expected output to contain root, got:\n%s", out)
	}
	if !strings.Contains(out, "latin-1") {
		t.Errorf("Expected output to contain encoding, got:\n%s", out)
	}
	if !strings.Contains(out, "Proceeding with replacement") {
		t.Errorf("Expected output to contain proceeding message, got:\n%s", out)
	}
}

func TestForcedApprover_ContextCancellation(t *testing.T) {
	var output bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())

	sleepCalls := 0
	approver := &ForcedApprover{
		output:    &output,
		countdown: 5 * time.Second,
		sleepFn: func(d time.Duration) {
			sleepCalls++
			if sleepCalls >= 2 {
				cancel()
			}
		},
	}

	approved, err := approver.RequestApproval(ctx, "src", "utf-8")
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}
	if approved {
		t.Fatal("Expected approval to be false on cancellation")
	}
	if !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("Expected context canceled error, got: %v", err)
	}
}

func TestForcedApprover_CancelledWithoutCountdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approved, err := NewForcedApprover(io.Discard, 0).RequestApproval(ctx, "src", "utf-8")
	if err == nil || approved {
		t.Fatalf("Expected cancellation, got %v, %v", approved, err)
	}
}

func TestNewForcedApprover(t *testing.T) {
	approver := NewForcedApprover(io.Discard, 3*time.Second)

	fa, ok := approver.(*ForcedApprover)
	if !ok {
		t.Fatal("Expected *ForcedApprover type")
	}
	if fa.countdown != 3*time.Second {
		t.Errorf("Expected 3s countdown, got %v", fa.countdown)
	}
	if fa.output == nil {
		t.Error("Expected non-nil output writer")
	}
	if fa.sleepFn == nil {
		t.Error("Expected non-nil sleep function")
	}
}

func TestInteractiveApprover(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		approved bool
		contains string
	}{
		{"matching input", "utf-8\n", true, "Confirmed"},
		{"surrounding whitespace", "  utf-8  \n", true, "Confirmed"},
		{"input without newline", "utf-8", true, "Confirmed"},
		{"non-matching input", "latin-1\n", false, "'latin-1' does not match"},
		{"empty input", "\n", false, "does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			approver := &InteractiveApprover{
				input:  strings.NewReader(tt.input),
				output: &output,
			}

			approved, err := approver.RequestApproval(context.Background(), "src", "utf-8")
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if approved != tt.approved {
				t.Fatalf("approved = %v, want %v", approved, tt.approved)
			}
			if !strings.Contains(output.String(), tt.contains) {
				t.Errorf("Expected %q in output, got:\n%s", tt.contains, output.String())
			}
		})
	}
}

func TestInteractiveApprover_ReadError(t *testing.T) {
	var output bytes.Buffer
	approver := &InteractiveApprover{
		input:  &errorReader{err: io.ErrUnexpectedEOF},
		output: &output,
	}

	approved, err := approver.RequestApproval(context.Background(), "src", "utf-8")
	if err == nil {
		t.Fatal("Expected error for read failure")
	}
	if approved {
		t.Fatal("Expected denial on read error")
	}
	if !strings.Contains(err.Error(), "failed to read input") {
		t.Errorf("Expected read error wrapper, got: %v", err)
	}
}

func TestInteractiveApprover_ClosedInput(t *testing.T) {
	approver := NewInteractiveApprover(strings.NewReader(""), io.Discard)

	_, err := approver.RequestApproval(context.Background(), "src", "utf-8")
	if err == nil {
		t.Fatal("Expected error when stdin is closed")
	}
}

func TestInteractiveApprover_ContextCancellation(t *testing.T) {
	var output bytes.Buffer
	input := newBlockingReader()
	t.Cleanup(func() { input.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	approver := &InteractiveApprover{
		input:  input,
		output: &output,
	}

	approved, err := approver.RequestApproval(ctx, "src", "utf-8")
	if err == nil {
		t.Fatal("Expected context cancellation error")
	}
	if approved {
		t.Fatal("Expected denial on context cancellation")
	}
}

func TestInteractiveApprover_OutputContainsWarning(t *testing.T) {
	var output bytes.Buffer
	approver := NewInteractiveApprover(strings.NewReader("cp1252\n"), &output)

	_, _ = approver.RequestApproval(context.Background(), "legacy", "cp1252")

	out := output.String()
	if !strings.Contains(out, "WARNING") {
		t.Errorf("Expected WARNING in output, got:\n%s", out)
	}
	if !strings.Contains(out, "'legacy'") {
		t.Errorf("Expected root in output, got:\n%s", out)
	}
	if !strings.Contains(out, "type the encoding name 'cp1252'") {
		t.Errorf("Expected prompt, got:\n%s", out)
	}
}

type errorReader struct {
	err error
}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, r.err
}

type blockingReader struct {
	done chan struct{}
}

func newBlockingReader() *blockingReader {
	return &blockingReader{done: make(chan struct{})}
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}

func (r *blockingReader) Close() error {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	return nil
}
