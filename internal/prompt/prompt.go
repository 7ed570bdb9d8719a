// Package prompt reads single-line answers from the operator.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrClosed is returned when input ends before an answer was given.
var ErrClosed = errors.New("input closed")

// Prompter writes questions to out and reads answers from in, one line each.
//
// Input is read one byte at a time and never past the end of the answer, so
// whatever follows the last answer is left in in for attached child processes.
type Prompter struct {
	in  io.Reader
	out io.Writer
	// fd is the terminal behind in, or -1 when in is not a terminal.
	fd int
	// pending carries the result of a read that outlived a cancelled prompt.
	pending chan line
}

type line struct {
	text string
	err  error
}

// New returns a Prompter reading from in. When in is a terminal, secret answers
// are read without echo.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: in, out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

// Confirm asks a yes/no question until it gets "y" or "n" (or "yes"/"no", any case).
// It returns ctx.Err() as soon as ctx is cancelled.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		_, _ = fmt.Fprintf(p.out, "%s (y/n) ", question)
		answer, err := p.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		_, _ = fmt.Fprintln(p.out, "Invalid input. Please enter 'y' or 'n'.")
	}
}

// Ask prints label and returns the trimmed line typed in reply, which may be empty.
func (p *Prompter) Ask(ctx context.Context, label string, secret bool) (string, error) {
	_, _ = fmt.Fprint(p.out, label)
	if secret && p.fd >= 0 {
		return p.readSecret(ctx)
	}
	return p.readLine(ctx)
}

func (p *Prompter) readSecret(ctx context.Context) (string, error) {
	state, err := term.GetState(p.fd)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	done := make(chan line, 1)
	go func() {
		b, err := term.ReadPassword(p.fd)
		done <- line{text: string(b), err: err}
	}()

	select {
	case <-ctx.Done():
		// ReadPassword turned echo off; give the terminal back before leaving.
		_ = term.Restore(p.fd, state)
		_, _ = fmt.Fprintln(p.out)
		return "", ctx.Err()
	case r := <-done:
		_, _ = fmt.Fprintln(p.out)
		if r.err != nil {
			return "", fmt.Errorf("read secret: %w", r.err)
		}
		return strings.TrimSpace(r.text), nil
	}
}

// readLine waits for the next line or for ctx. A read abandoned by a cancelled
// prompt is picked up by the next call instead of starting a second reader.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.pending == nil {
		ch := make(chan line, 1)
		p.pending = ch
		go func() {
			text, err := p.scanLine()
			ch <- line{text: text, err: err}
		}()
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-p.pending:
		p.pending = nil
		return r.text, r.err
	}
}

// scanLine reads up to and including the next newline.
func (p *Prompter) scanLine() (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := p.in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimSpace(sb.String()), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if sb.Len() > 0 {
					return strings.TrimSpace(sb.String()), nil
				}
				return "", ErrClosed
			}
			return "", fmt.Errorf("read answer: %w", err)
		}
	}
}
