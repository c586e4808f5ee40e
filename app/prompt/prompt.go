// Package prompt provides the confirmation and alert collaborators the task
// service talks to.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks a yes/no question and blocks until it is answered.
type Confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

// Alerter shows a notice to the user.
type Alerter interface {
	Alert(msg string)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, question string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, question string) bool { return f(ctx, question) }

// AlertFunc adapts a function to Alerter.
type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }

// Always answers every question with answer.
func Always(answer bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) bool { return answer })
}

// Discard drops alerts.
var Discard Alerter = AlertFunc(func(string) {})

// Terminal asks questions on a line-oriented terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal reads answers from in and writes questions and alerts to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm accepts "y" or "yes" in any case. Anything else, a read error or a
// cancelled context declines.
func (t *Terminal) Confirm(ctx context.Context, question string) bool {
	if ctx.Err() != nil {
		return false
	}
	fmt.Fprintf(t.out, "%s [y/N] ", question)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (t *Terminal) Alert(msg string) {
	fmt.Fprintf(t.out, "! %s\n", msg)
}
