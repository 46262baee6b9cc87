package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/vvka-141/pep263/internal/tui"
	"github.com/vvka-141/pep263/pkg/pep263"
)

// summaryOrder fixes the order categories appear in the summary line.
var summaryOrder = []pep263.Category{
	pep263.CategoryOK,
	pep263.CategoryDeclarationNotFound,
	pep263.CategoryInvalidName,
	pep263.CategoryPermissionDenied,
	pep263.CategoryFileMissing,
	pep263.CategoryIsADirectory,
}

func progressMessage(done, total int) string {
	return fmt.Sprintf("Inspected %s of %s", humanize.Comma(int64(done)), english.Plural(total, "file", ""))
}

// printSummary writes the totals of a run to out.
func printSummary(out io.Writer, styles tui.Styles, result pep263.RunResult, wrote bool) {
	counts := result.Counts()
	total := len(result.Reports)

	if total == 0 {
		fmt.Fprintln(out, styles.Muted.Render("No matching files under "+result.Root))
	} else {
		var parts []string
		for _, c := range summaryOrder {
			if n := counts[c]; n > 0 {
				parts = append(parts, styles.ForCategory(c).Render(fmt.Sprintf("%s %s", humanize.Comma(int64(n)), c)))
			}
		}
		fmt.Fprintf(out, "%s: %s\n", english.Plural(total, "file", ""), strings.Join(parts, ", "))
	}

	if wrote {
		var inserted, replaced, failed int
		for _, r := range result.Reports {
			switch r.Write.Status {
			case pep263.WriteInserted:
				inserted++
			case pep263.WriteReplaced:
				replaced++
			case pep263.WriteFailed:
				failed++
			}
		}
		line := fmt.Sprintf("Declared in %s, replaced in %s",
			english.Plural(inserted, "file", ""), english.Plural(replaced, "file", ""))
		if failed > 0 {
			line += ", " + styles.Error.Render(fmt.Sprintf("%s not writable", english.Plural(failed, "file", "")))
		}
		fmt.Fprintln(out, line)
	}

	for _, s := range result.Skipped {
		fmt.Fprintln(out, styles.Warning.Render(fmt.Sprintf("Skipped %s: %v", s.Path, s.Err)))
	}
}
