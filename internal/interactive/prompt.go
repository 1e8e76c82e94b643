// Package interactive provides the terminal happiness-gate prompt.
package interactive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/minhnc/appupdater/internal/types"
)

// Prompter asks the happiness-gate question on a terminal.
type Prompter struct {
	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner
}

// NewPrompter creates a prompter with stdin/stdout.
func NewPrompter() *Prompter {
	return NewPrompterWithIO(os.Stdin, os.Stdout)
}

// NewPrompterWithIO creates a prompter with custom input/output (for testing).
func NewPrompterWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:      in,
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

// IsTerminal checks if stdin is a terminal (TTY).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// AskGate shows the happiness gate and reads the answer. EOF and
// unrecognized input count as a dismissal, never an error.
func (p *Prompter) AskGate(appName string) types.GateOutcome {
	if appName == "" {
		appName = "the app"
	}
	_, _ = fmt.Fprintf(p.out, "Are you enjoying %s? [p]ositive / [n]egative / [d]ismiss: ", appName)

	if !p.scanner.Scan() {
		return types.GateOutcomeDismiss
	}

	switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
	case "p", "positive", "y", "yes":
		return types.GateOutcomePositive
	case "n", "negative", "no":
		return types.GateOutcomeNegative
	case "d", "dismiss", "":
		return types.GateOutcomeDismiss
	default:
		_, _ = fmt.Fprintln(p.out, "Unrecognized answer, dismissing.")
		return types.GateOutcomeDismiss
	}
}

// Confirm asks a yes/no question, defaulting to no.
func (p *Prompter) Confirm(format string, args ...any) bool {
	_, _ = fmt.Fprintf(p.out, format, args...)
	_, _ = fmt.Fprint(p.out, " [y/n] ")

	if !p.scanner.Scan() {
		return false
	}
	input := strings.ToLower(strings.TrimSpace(p.scanner.Text()))
	return input == "y" || input == "yes"
}
