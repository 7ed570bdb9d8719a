// Package testutil holds test doubles shared across packages.
package testutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"

	"setup-automate/internal/prompt"
	"setup-automate/internal/runner"
)

// FakeRunner is a test double for runner.Runner that records every command.
type FakeRunner struct {
	RunFunc func(cmd runner.Command) (runner.Result, error)
	Calls   []runner.Command
}

// Run records cmd and delegates to RunFunc. A nil RunFunc succeeds with empty output.
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	f.Calls = append(f.Calls, cmd)
	if f.RunFunc == nil {
		return runner.Result{}, nil
	}
	return f.RunFunc(cmd)
}

// Ran reports whether a command with exactly this name and args was run.
func (f *FakeRunner) Ran(name string, args ...string) bool {
	for _, c := range f.Calls {
		if c.Name == name && slices.Equal(c.Args, args) {
			return true
		}
	}
	return false
}

// CommandLines returns every recorded command rendered as a string.
func (f *FakeRunner) CommandLines() []string {
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, c.String())
	}
	return lines
}

// ErrNotInstalled mimics a binary that is missing from PATH.
var ErrNotInstalled = errors.New("executable file not found in $PATH")

// Tools returns a RunFunc for which only the named binaries exist. Their commands
// exit 0 with stdout from outputs (keyed by the full command line) when present.
func Tools(installed []string, outputs map[string]string) func(runner.Command) (runner.Result, error) {
	return func(cmd runner.Command) (runner.Result, error) {
		if !slices.Contains(installed, cmd.Name) {
			return runner.Result{ExitCode: -1}, ErrNotInstalled
		}
		return runner.Result{Stdout: outputs[cmd.String()]}, nil
	}
}

// ScriptedPrompter answers prompts from a fixed list and records what was asked.
type ScriptedPrompter struct {
	Answers   []string
	Questions []string
}

// Confirm consumes the next answer; "y" or "yes" means true.
func (s *ScriptedPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	s.Questions = append(s.Questions, question)
	answer, err := s.next(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Ask consumes the next answer.
func (s *ScriptedPrompter) Ask(ctx context.Context, label string, _ bool) (string, error) {
	s.Questions = append(s.Questions, label)
	return s.next(ctx)
}

func (s *ScriptedPrompter) next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.Answers) == 0 {
		return "", prompt.ErrClosed
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a, nil
}

// MockHTTPClient is a test double for HTTP clients.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.DoFunc(req)
}

// MockResponse creates an http.Response with given status and body.
func MockResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}
