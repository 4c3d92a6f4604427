package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
)

// Write renders the bag's diagnostics to w, one per line, optionally
// colorized.
func (b *Bag) Write(w io.Writer, colorize bool) {
	if b == nil {
		return
	}
	for _, d := range b.items {
		sev := d.Severity.String()
		if colorize {
			switch d.Severity {
			case SevError:
				sev = errColor.Sprint(sev)
			case SevWarning:
				sev = warnColor.Sprint(sev)
			default:
				sev = infoColor.Sprint(sev)
			}
		}
		fmt.Fprintf(w, "%s [%s] %s", sev, d.Code, d.Message)
		if d.Subject != "" {
			fmt.Fprintf(w, ": %s", d.Subject)
		}
		if d.Detail != "" {
			fmt.Fprintf(w, " (%s)", d.Detail)
		}
		fmt.Fprintln(w)
	}
}
