package objarena

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/pavanmanishd/objarena/host"
)

// RootClassName is the name of every registry's root class.
const RootClassName = "ArenaAllocatable"

// stackEntry is one arena pushed onto one class's stack by a context.
type stackEntry struct {
	arena *Arena
	seq   uint64
}

// Registry owns the arena stacks of a family of classes: a mapping from
// class to the ordered list of arenas currently active for it.
//
// A Registry is not safe for concurrent use. All allocation, attribute
// access and context operations on its classes must happen on one
// goroutine. Only the metrics it exports may be read concurrently.
type Registry struct {
	cfg     Config
	logger  log.Logger
	metrics *Metrics

	root   *Class
	stacks map[*Class][]*stackEntry
	seq    uint64

	liveArenas    atomic.Int64
	liveSlabBytes atomic.Int64
}

var defaultRegistry = NewRegistry(DefaultConfig(), log.NewNopLogger(), nil)

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry returns a registry with its own root class. Metrics are
// registered with reg when it is not nil.
func NewRegistry(cfg Config, logger log.Logger, reg prometheus.Registerer) *Registry {
	if cfg.SlabSize <= 0 {
		cfg.SlabSize = DefaultSlabSize
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	r := &Registry{
		cfg:    cfg,
		logger: logger,
		stacks: make(map[*Class][]*stackEntry),
	}
	r.metrics = newMetrics(reg, r)
	r.root = &Class{name: RootClassName, reg: r}
	r.root.IncRef()
	return r
}

// Base returns the root arena-allocatable class.
func (r *Registry) Base() *Class {
	return r.root
}

// NewClass defines a class deriving from base, or from the root class when
// base is nil.
func (r *Registry) NewClass(name string, base *Class, opts ...ClassOption) (*Class, error) {
	var o classOptions
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.slots) > 0 {
		return nil, ErrSlotsNotSupported
	}
	if base == nil {
		base = r.root
	}
	if base.reg != r {
		return nil, &NotAllocatableError{Type: base.Name()}
	}
	c := &Class{name: name, base: base, reg: r, descr: o.descr}
	c.IncRef()
	return c, nil
}

// classes validates that every type is a class of this registry.
func (r *Registry) classes(types []host.Type) ([]*Class, error) {
	out := make([]*Class, 0, len(types))
	var errs []error
	for _, t := range types {
		c, ok := t.(*Class)
		if !ok || c == nil || c.reg != r {
			errs = append(errs, &NotAllocatableError{Type: typeName(t)})
			continue
		}
		out = append(out, c)
	}
	if len(errs) > 0 {
		return nil, multierr.Combine(errs...)
	}
	return out, nil
}

func typeName(t host.Type) string {
	if t == nil {
		return "<nil>"
	}
	if c, ok := t.(*Class); ok && c == nil {
		return "<nil>"
	}
	return t.Name()
}

// push places a on top of c's stack.
func (r *Registry) push(c *Class, a *Arena) *stackEntry {
	r.seq++
	e := &stackEntry{arena: a, seq: r.seq}
	a.Retain()
	r.stacks[c] = append(r.stacks[c], e)
	return e
}

// remove takes e off c's stack wherever it is and drops its share.
func (r *Registry) remove(c *Class, e *stackEntry) {
	entries := r.stacks[c]
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i] != e {
			continue
		}
		copy(entries[i:], entries[i+1:])
		entries[len(entries)-1] = nil
		entries = entries[:len(entries)-1]
		if len(entries) == 0 {
			delete(r.stacks, c)
		} else {
			r.stacks[c] = entries
		}
		e.arena.Release()
		return
	}
	panic("objarena: context entry missing from arena stack")
}

// top returns the arena new instances of c are allocated from: the most
// recently pushed entry among c and its ancestors.
func (r *Registry) top(c *Class) *Arena {
	var best *stackEntry
	for k := c; k != nil; k = k.base {
		entries := r.stacks[k]
		if len(entries) == 0 {
			continue
		}
		if e := entries[len(entries)-1]; best == nil || e.seq > best.seq {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	return best.arena
}

func (r *Registry) newArena(slabSize int) *Arena {
	a := NewArena(slabSize)
	a.observer = r
	r.liveArenas.Inc()
	r.metrics.arenasCreated.Inc()
	return a
}

func (r *Registry) slabAdded(_ *Arena, bytes int) {
	r.liveSlabBytes.Add(int64(bytes))
}

func (r *Registry) arenaDestroyed(_ *Arena, bytes, externals int) {
	r.liveArenas.Dec()
	r.liveSlabBytes.Sub(int64(bytes))
	r.metrics.arenasDestroyed.Inc()
	level.Debug(r.logger).Log("msg", "arena destroyed", "slab_bytes", bytes, "external_references", externals)
}

// unraisable reports an error that cannot be returned to a caller.
func (r *Registry) unraisable(err error, where string) {
	r.metrics.unraisable.Inc()
	level.Error(r.logger).Log("msg", "ignored error", "where", where, "err", err)
}
