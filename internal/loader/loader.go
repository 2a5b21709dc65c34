// Package loader tracks the fetch lifecycle of one screen's collection.
//
// A Loader moves Idle -> Loading -> Loaded | Failed. Every Begin issues a
// new generation; a result is committed only if it carries the newest
// generation, so a slow superseded request can never overwrite a newer one.
package loader

import (
	"context"
	"log"
	"sync"

	"github.com/jask/fundadmin/internal/gateway"
)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Fetch retrieves the whole collection.
type Fetch[T any] func(ctx context.Context) ([]T, error)

// Ticket identifies one load attempt.
type Ticket struct {
	Gen uint64
}

// Result is the outcome of Run, to be handed to Apply.
type Result[T any] struct {
	Ticket Ticket
	Data   []T
	Err    error
}

// Snapshot is a copy of the loader state at one point in time.
type Snapshot[T any] struct {
	State   State
	Data    []T
	Err     error
	Version uint64
}

func (s Snapshot[T]) Loading() bool { return s.State == Loading }
func (s Snapshot[T]) Empty() bool   { return len(s.Data) == 0 }

type Loader[T any] struct {
	name  string
	fetch Fetch[T]
	log   *log.Logger

	mu      sync.Mutex
	gen     uint64
	state   State
	data    []T
	err     error
	version uint64
}

func New[T any](name string, fetch Fetch[T]) *Loader[T] {
	return &Loader[T]{name: name, fetch: fetch, log: log.Default(), data: []T{}}
}

// SetLogger overrides where failure diagnostics go.
func (l *Loader[T]) SetLogger(lg *log.Logger) { l.log = lg }

func (l *Loader[T]) Name() string { return l.name }

// Begin moves to Loading and supersedes any pending attempt.
func (l *Loader[T]) Begin() Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.state = Loading
	return Ticket{Gen: l.gen}
}

// Run performs the fetch for t without touching loader state.
func (l *Loader[T]) Run(ctx context.Context, t Ticket) Result[T] {
	data, err := l.fetch(ctx)
	if err == nil && data == nil {
		data = []T{}
	}
	return Result[T]{Ticket: t, Data: data, Err: err}
}

// Apply commits r unless a newer Begin has been issued since r's ticket.
// It reports whether r was committed.
func (l *Loader[T]) Apply(r Result[T]) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r.Ticket.Gen != l.gen {
		return false
	}
	if r.Err != nil {
		l.state = Failed
		l.err = r.Err
		l.diagnose(r.Err)
		return true
	}
	l.state = Loaded
	l.err = nil
	l.data = r.Data
	l.version++
	return true
}

// Load runs a full attempt synchronously.
func (l *Loader[T]) Load(ctx context.Context) Snapshot[T] {
	t := l.Begin()
	l.Apply(l.Run(ctx, t))
	return l.Snapshot()
}

func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot[T]{State: l.state, Data: l.data, Err: l.err, Version: l.version}
}

func (l *Loader[T]) diagnose(err error) {
	if l.log == nil {
		return
	}
	if gwErr, ok := gateway.AsError(err); ok && gwErr.Raw != "" {
		l.log.Printf("warn: load %s failed: %v; raw response: %q", l.name, err, truncate(gwErr.Raw, 512))
		return
	}
	l.log.Printf("warn: load %s failed: %v", l.name, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
