package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Environment is the run's view of environment variables.
// It starts as a snapshot of the process environment and only ever changes in
// memory; nothing written here outlives the run.
type Environment struct {
	vars map[string]string
}

// NewEnvironment builds an Environment from KEY=VALUE pairs as returned by os.Environ.
func NewEnvironment(pairs []string) *Environment {
	e := &Environment{vars: make(map[string]string, len(pairs))}
	for _, kv := range pairs {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			e.vars[k] = v
		}
	}
	return e
}

// LoadEnvironment snapshots the process environment and fills in variables that are
// still unset from the dotenv file at envFile. A missing env file is an error only
// when required is true.
func LoadEnvironment(envFile string, required bool) (*Environment, error) {
	e := NewEnvironment(os.Environ())
	if envFile == "" {
		return e, nil
	}
	values, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return e, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}
	e.Merge(values)
	return e, nil
}

// Lookup returns the value of key and whether it is set.
func (e *Environment) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Set records a value for the rest of the run.
func (e *Environment) Set(key, value string) {
	e.vars[key] = value
}

// Merge sets every key in values that is not already set.
func (e *Environment) Merge(values map[string]string) {
	for k, v := range values {
		if _, ok := e.vars[k]; !ok {
			e.vars[k] = v
		}
	}
}

// PrependPath puts dir at the front of PATH unless it is already listed.
func (e *Environment) PrependPath(dir string) {
	current := e.vars["PATH"]
	for _, p := range filepath.SplitList(current) {
		if p == dir {
			return
		}
	}
	if current == "" {
		e.vars["PATH"] = dir
		return
	}
	e.vars["PATH"] = dir + string(os.PathListSeparator) + current
}

// Environ returns KEY=VALUE pairs for a child process, sorted by key.
func (e *Environment) Environ() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+e.vars[k])
	}
	return out
}
