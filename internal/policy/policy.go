// Package policy holds the per-category blocking state consulted by the hook.
package policy

import (
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/frudas24/inputtap/internal/input"
	"github.com/frudas24/inputtap/internal/logging"
)

// CursorSink receives the cursor visibility implied by the block set.
type CursorSink interface {
	Set(hidden bool)
}

// AllName selects every category in a name list.
const AllName = "all"

// Policy is the block set. Reads are lock-free so the hook can call
// IsBlocking on every event; writers are serialized.
type Policy struct {
	blocked atomic.Uint32
	mu      sync.Mutex
	cursor  CursorSink
	log     *zap.Logger
}

// New returns an empty policy driving cursor.
func New(cursor CursorSink, log *zap.Logger) *Policy {
	return &Policy{cursor: cursor, log: logging.OrNop(log)}
}

// SetBlocked applies blocked to the named categories. A nil list or the
// single name "all" selects every category; a non-nil empty list selects
// none and only resyncs the cursor. Any unknown name fails the whole call
// with input.ErrInvalidCategory and leaves the set unchanged.
func (p *Policy) SetBlocked(names []string, blocked bool) error {
	cats, err := resolve(names)
	if err != nil {
		return err
	}
	p.SetCategories(cats, blocked)
	return nil
}

// SetCategories applies blocked to already-validated categories and then
// syncs the cursor: hidden iff pointer input is blocked.
func (p *Policy) SetCategories(cats []input.Category, blocked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	set := input.CategorySet(p.blocked.Load())
	for _, c := range cats {
		if blocked {
			set = set.With(c)
		} else {
			set = set.Without(c)
		}
	}
	p.blocked.Store(uint32(set))
	p.log.Info("block set changed", zap.Strings("blocked", set.Names()))
	if p.cursor != nil {
		p.cursor.Set(set.Has(input.CategoryPointer))
	}
}

// Blocked returns the current block set.
func (p *Policy) Blocked() input.CategorySet {
	return input.CategorySet(p.blocked.Load())
}

// IsBlocking reports whether c is blocked. Safe on the hook thread.
func (p *Policy) IsBlocking(c input.Category) bool {
	return input.CategorySet(p.blocked.Load()).Has(c)
}

// resolve maps names to categories; nil or "all" means every category.
func resolve(names []string) ([]input.Category, error) {
	if names == nil {
		return input.Categories, nil
	}
	if len(names) == 0 {
		return nil, nil
	}
	if len(names) == 1 && strings.EqualFold(strings.TrimSpace(names[0]), AllName) {
		return input.Categories, nil
	}
	return input.ParseCategories(names)
}
