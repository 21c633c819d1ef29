package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/guelfoweb/diga/internal/checker"
)

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, outcomes []checker.Outcome) {
	var tally scanTally
	for _, o := range outcomes {
		tally.add(o)
	}

	fmt.Fprintf(w, "%s %d domain(s): %s, %s, %s\n",
		colorInfo("Scanned"),
		len(outcomes),
		colorSuccess(fmt.Sprintf("%d resolved", tally.resolved)),
		colorError(fmt.Sprintf("%d unresolved", tally.unresolved)),
		colorWarn(fmt.Sprintf("%d not scanned", tally.notScanned)),
	)
}
