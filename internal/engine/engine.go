// Package engine keeps the entity store consistent with the outline. Every
// structural command edits the tree first and then calls Rebuild, which
// re-derives orderings, repairs arc references and renumbers chapters.
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rogersnm/plotline/internal/id"
	"github.com/rogersnm/plotline/internal/outline"
	"github.com/rogersnm/plotline/internal/store"
)

// ArcMode selects how CheckArcs treats arc names that no chapter defines.
type ArcMode int

const (
	// Strict removes orphaned arc names from the scenes that use them.
	Strict ArcMode = iota
	// AutoMaterialize creates a defining chapter for each orphaned name.
	AutoMaterialize
)

func (m ArcMode) String() string {
	if m == AutoMaterialize {
		return "materialize"
	}
	return "strict"
}

func ParseArcMode(s string) (ArcMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "materialize", "auto", "automaterialize":
		return AutoMaterialize, nil
	}
	return Strict, fmt.Errorf("invalid arc mode %q: must be strict or materialize", s)
}

type Engine struct {
	st    *store.Store
	tree  *outline.Tree
	log   *slog.Logger
	mode  ArcMode
	dirty bool
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithArcMode sets the orphan policy used by Rebuild.
func WithArcMode(m ArcMode) Option {
	return func(e *Engine) { e.mode = m }
}

func New(st *store.Store, tree *outline.Tree, opts ...Option) *Engine {
	e := &Engine{
		st:   st,
		tree: tree,
		log:  slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Store() *store.Store { return e.st }
func (e *Engine) Tree() *outline.Tree { return e.tree }
func (e *Engine) Mode() ArcMode { return e.mode }
func (e *Engine) SetMode(m ArcMode) { e.mode = m }
func (e *Engine) Dirty() bool { return e.dirty }
func (e *Engine) MarkSaved() { e.dirty = false }
func (e *Engine) MarkDirty() { e.dirty = true }
func (e *Engine) Logger() *slog.Logger { return e.log }

// Rebuild reconciles the store with the current outline. It returns the ids
// of chapters created by AutoMaterialize, if any.
func (e *Engine) Rebuild() []id.ID {
	e.pruneStale()
	e.ensureTrashLast()
	Synchronize(e.st, e.tree)
	created := e.CheckArcs(e.mode)
	if len(created) > 0 {
		Synchronize(e.st, e.tree)
	}
	e.Renumber()
	e.dirty = true
	return created
}

// Reconcile rebuilds a project that was just read. Arc names that no
// chapter defines are materialized whatever the engine's mode, so reading
// never drops arc tags; later edits use the engine's own mode.
func (e *Engine) Reconcile() []id.ID {
	mode := e.mode
	e.mode = AutoMaterialize
	defer func() { e.mode = mode }()
	return e.Rebuild()
}

// pruneStale removes outline nodes that have no entity behind them, together
// with their subtrees.
func (e *Engine) pruneStale() {
	var stale []id.ID
	for _, r := range e.tree.Roots() {
		e.tree.Walk(r, func(x id.ID, _ int) bool {
			if e.st.Has(x) {
				return true
			}
			stale = append(stale, x)
			return false
		})
	}
	for _, x := range stale {
		removed, err := e.tree.Delete(x)
		if err != nil {
			continue
		}
		e.log.Info("dropped outline node without entity", "node", x, "subtree", len(removed))
	}
}
