package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fundadmin/internal/loader"
)

// loadedMsg carries a finished fetch back to the list that started it.
type loadedMsg[T any] struct {
	res loader.Result[T]
}

// listView is the shared state of the list screens: a loader, a cursor and
// an optional filter.
type listView[T any] struct {
	title  string
	empty  string
	loader *loader.Loader[T]
	text   func(T) string

	cursor    int
	filter    textinput.Model
	filtering bool
}

func newListView[T any](title, empty string, l *loader.Loader[T], text func(T) string) *listView[T] {
	f := textinput.New()
	f.Prompt = "/"
	f.Placeholder = "filter"
	return &listView[T]{title: title, empty: empty, loader: l, text: text, filter: f}
}

// load begins a fetch. The returned command runs it off the UI goroutine.
func (l *listView[T]) load(ctx context.Context) tea.Cmd {
	t := l.loader.Begin()
	return func() tea.Msg {
		return loadedMsg[T]{res: l.loader.Run(ctx, t)}
	}
}

// apply folds a result in. It reports false for superseded results.
func (l *listView[T]) apply(res loader.Result[T]) bool {
	if !l.loader.Apply(res) {
		return false
	}
	l.clamp()
	return true
}

func (l *listView[T]) snapshot() loader.Snapshot[T] { return l.loader.Snapshot() }

func (l *listView[T]) rows() []T {
	return rankRows(l.loader.Snapshot().Data, l.filter.Value(), l.text)
}

func (l *listView[T]) selected() (T, bool) {
	rows := l.rows()
	if l.cursor < 0 || l.cursor >= len(rows) {
		var zero T
		return zero, false
	}
	return rows[l.cursor], true
}

func (l *listView[T]) move(delta int) {
	l.cursor += delta
	l.clamp()
}

func (l *listView[T]) clamp() {
	n := len(l.rows())
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *listView[T]) openFilter() {
	l.filtering = true
	l.filter.Focus()
}

// updateFilter feeds a key to the filter input. enter keeps the query,
// esc clears it.
func (l *listView[T]) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		l.filtering = false
		l.filter.Blur()
		return nil
	case "esc":
		l.filtering = false
		l.filter.Blur()
		l.filter.SetValue("")
		l.clamp()
		return nil
	}
	var cmd tea.Cmd
	l.filter, cmd = l.filter.Update(msg)
	l.cursor = 0
	return cmd
}
