package objarena

import (
	"strings"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/pavanmanishd/objarena/host"
)

// Option configures an arena context.
type Option func(*contextOptions)

type contextOptions struct {
	slabSize int
	strict   bool
}

// WithSlabSize sets the slab size of the context's arena.
func WithSlabSize(n int) Option {
	return func(o *contextOptions) {
		o.slabSize = n
	}
}

// WithStrictEscapes makes Close return an *EscapeWarning when objects are
// still alive.
func WithStrictEscapes(strict bool) Option {
	return func(o *contextOptions) {
		o.strict = strict
	}
}

// Context scopes a fresh arena to a set of classes. While it is open, new
// instances of those classes and their subclasses are allocated from its
// arena.
type Context struct {
	reg     *Registry
	arena   *Arena
	entries []contextEntry
	strict  bool
	closed  bool
	escaped int
}

type contextEntry struct {
	class *Class
	entry *stackEntry
}

// Open creates an arena and pushes it onto the arena stack of every class in
// types. Types that are not arena-allocatable classes of r are rejected with
// *NotAllocatableError.
//
// Callers must Close the context, typically with a deferred call: nothing
// closes it implicitly, and an unclosed context keeps its arena alive on the
// class stacks. Scope closes the context for the caller.
func (r *Registry) Open(types []host.Type, opts ...Option) (*Context, error) {
	o := contextOptions{slabSize: r.cfg.SlabSize, strict: r.cfg.StrictEscapes}
	for _, opt := range opts {
		opt(&o)
	}
	if o.slabSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidSlabSize, "invalid arena slab size %d", o.slabSize)
	}
	classes, err := r.classes(types)
	if err != nil {
		return nil, err
	}

	a := r.newArena(o.slabSize)
	ctx := &Context{
		reg:     r,
		arena:   a,
		entries: make([]contextEntry, 0, len(classes)),
		strict:  o.strict,
	}
	for _, c := range classes {
		ctx.entries = append(ctx.entries, contextEntry{class: c, entry: r.push(c, a)})
	}
	// The stack entries own the arena from here on.
	a.Release()
	return ctx, nil
}

// OpenClass is Open for a single type.
func (r *Registry) OpenClass(t host.Type, opts ...Option) (*Context, error) {
	return r.Open([]host.Type{t}, opts...)
}

// Scope opens a context, runs fn and closes the context when fn returns or
// panics. Errors from that implicit close are logged, never returned.
func (r *Registry) Scope(types []host.Type, fn func(*Context) error, opts ...Option) error {
	ctx, err := r.Open(types, opts...)
	if err != nil {
		return err
	}
	defer ctx.finalize()
	return fn(ctx)
}

// Close pops the context's arena from its classes' stacks. If objects
// allocated in the arena are still reachable a warning is logged and the
// arena stays alive until the last of them is released; otherwise the arena
// is destroyed immediately. Closing twice returns ErrContextClosed.
func (c *Context) Close() error {
	if c.closed {
		return ErrContextClosed
	}
	return c.close()
}

func (c *Context) close() error {
	c.closed = true
	alive := c.arena.Holders() - len(c.entries)
	c.escaped = alive

	var warning *EscapeWarning
	if alive > 0 {
		warning = &EscapeWarning{Alive: alive}
		level.Warn(c.reg.logger).Log("msg", warning.Error(), "alive", alive, "classes", strings.Join(c.classNames(), ","))
	}
	for _, e := range c.entries {
		c.reg.remove(e.class, e.entry)
	}
	c.reg.metrics.contextClosed(alive)

	if warning != nil && c.strict {
		return warning
	}
	return nil
}

// finalize closes the context if nobody did.
func (c *Context) finalize() {
	if c.closed {
		return
	}
	if err := c.close(); err != nil {
		c.reg.unraisable(err, "arena context finalizer")
	}
}

// Arena returns the context's arena.
func (c *Context) Arena() *Arena {
	return c.arena
}

// Closed reports whether the context has been closed.
func (c *Context) Closed() bool {
	return c.closed
}

// Escaped returns the number of objects that were still alive when the
// context closed.
func (c *Context) Escaped() int {
	return c.escaped
}

// Classes returns the classes the context governs.
func (c *Context) Classes() []*Class {
	out := make([]*Class, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.class
	}
	return out
}

func (c *Context) classNames() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.class.Name()
	}
	return names
}
