// Package testing provides test doubles for the provision package's
// collaborators.
package testing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rileyhilliard/keybatch/internal/keygen"
)

// FakeGenerator records Generate calls and, unless told to fail, writes
// placeholder key files so later existence checks see them.
type FakeGenerator struct {
	mu sync.Mutex

	// Fail maps a key name (base of the path) to the error Generate returns.
	Fail map[string]error
	// SkipWrite leaves the filesystem untouched on success.
	SkipWrite bool

	Calls []keygen.Options
}

// NewFakeGenerator creates a generator that succeeds for every name.
func NewFakeGenerator() *FakeGenerator {
	return &FakeGenerator{Fail: make(map[string]error)}
}

// FailOn makes Generate return err for name.
func (g *FakeGenerator) FailOn(name string, err error) *FakeGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Fail[name] = err
	return g
}

// Generate implements provision.Generator.
func (g *FakeGenerator) Generate(opts keygen.Options) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Calls = append(g.Calls, opts)
	if err, ok := g.Fail[filepath.Base(opts.Path)]; ok {
		return err
	}
	if g.SkipWrite {
		return nil
	}
	if err := os.WriteFile(opts.Path, []byte("private "+opts.Passphrase+"\n"), 0600); err != nil {
		return err
	}
	return os.WriteFile(opts.PublicPath(), []byte("public "+opts.Comment+"\n"), 0644)
}

// RegisterCall is one recorded Register invocation.
type RegisterCall struct {
	Path       string
	Passphrase string
}

// FakeRegistrar records Register calls.
type FakeRegistrar struct {
	mu sync.Mutex

	Fail  map[string]error
	Calls []RegisterCall
}

// NewFakeRegistrar creates a registrar that accepts every key.
func NewFakeRegistrar() *FakeRegistrar {
	return &FakeRegistrar{Fail: make(map[string]error)}
}

// FailOn makes Register return err for name.
func (r *FakeRegistrar) FailOn(name string, err error) *FakeRegistrar {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Fail[name] = err
	return r
}

// Register implements provision.Registrar.
func (r *FakeRegistrar) Register(keyPath, passphrase string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, RegisterCall{Path: keyPath, Passphrase: passphrase})
	if err, ok := r.Fail[filepath.Base(keyPath)]; ok {
		return err
	}
	return nil
}

// FakeAppender keeps the set of Host aliases in memory.
type FakeAppender struct {
	mu sync.Mutex

	Hosts map[string]bool
	Fail  map[string]error
	Calls []string
}

// NewFakeAppender creates an appender that already knows the given aliases.
func NewFakeAppender(existing ...string) *FakeAppender {
	a := &FakeAppender{
		Hosts: make(map[string]bool),
		Fail:  make(map[string]error),
	}
	for _, alias := range existing {
		a.Hosts[alias] = true
	}
	return a
}

// EnsureHost implements provision.Appender.
func (a *FakeAppender) EnsureHost(alias string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.Calls = append(a.Calls, alias)
	if err, ok := a.Fail[alias]; ok {
		return false, err
	}
	if alias == "" {
		return false, errors.New("empty alias")
	}
	if a.Hosts[alias] {
		return false, nil
	}
	a.Hosts[alias] = true
	return true, nil
}

// Line is one reported event.
type Line struct {
	Kind string // success, warn, skip or info
	Msg  string
}

// RecordingReporter captures reported lines for assertions.
type RecordingReporter struct {
	mu    sync.Mutex
	Lines []Line
}

func (r *RecordingReporter) Success(msg string) { r.add("success", msg) }
func (r *RecordingReporter) Warn(msg string)    { r.add("warn", msg) }
func (r *RecordingReporter) Skip(msg string)    { r.add("skip", msg) }
func (r *RecordingReporter) Info(msg string)    { r.add("info", msg) }

func (r *RecordingReporter) add(kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, Line{Kind: kind, Msg: msg})
}

// Count returns how many lines of kind were reported.
func (r *RecordingReporter) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.Lines {
		if l.Kind == kind {
			n++
		}
	}
	return n
}

// Contains reports whether a line of kind contains substr.
func (r *RecordingReporter) Contains(kind, substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.Lines {
		if l.Kind == kind && strings.Contains(l.Msg, substr) {
			return true
		}
	}
	return false
}
