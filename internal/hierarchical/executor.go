// Package hierarchical executes a discovered descriptor tree.
//
// The executor walks the tree depth first in child order and reports every
// descriptor to the request's listener. Descriptors implementing Node take
// part in execution:
//
//   - Prepare runs before the descriptor's own Execute and before its
//     children. The returned Context is the one seen by the children. A
//     Prepare failure finishes the descriptor as failed and reports every
//     child as skipped.
//   - Execute runs the descriptor's own behavior. A failure finishes the
//     descriptor as failed; children of a failed descriptor still run.
//
// A panic in Prepare or Execute is recovered and reported as aborted.
// Descriptors that do not implement Node are plain containers.
package hierarchical

import (
	"fmt"
	"log/slog"

	"github.com/granito-source/concordion/internal/classpath"
	"github.com/granito-source/concordion/internal/platform"
)

// Context is the execution state handed from a descriptor to its
// children. It is immutable; With* methods return copies.
type Context struct {
	// Properties are the execution request's configuration.
	Properties *classpath.Properties

	// Fixture is the fixture object of the enclosing specification, if any.
	Fixture any
}

// WithFixture returns a copy of c carrying obj.
func (c *Context) WithFixture(obj any) *Context {
	cp := *c
	cp.Fixture = obj
	return &cp
}

// Node is implemented by descriptors with behavior.
type Node interface {
	Prepare(ctx *Context) (*Context, error)
	Execute(ctx *Context) error
}

// Executor runs descriptor trees.
type Executor struct {
	logger *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the request's tree. Test failures are reported to the
// listener, not returned; a nil root is a no-op.
func (e *Executor) Execute(req *platform.ExecutionRequest) error {
	if req == nil || req.Root == nil {
		return nil
	}
	listener := req.Listener
	if listener == nil {
		listener = platform.NopListener{}
	}
	props := req.Properties
	if props == nil {
		props = classpath.NewProperties()
	}

	e.execute(req.Root, &Context{Properties: props}, listener)
	return nil
}

func (e *Executor) execute(d platform.Descriptor, ctx *Context, listener platform.ExecutionListener) {
	listener.ExecutionStarted(d)

	childCtx, result := e.prepare(d, ctx)
	if result.Status != platform.StatusSuccessful {
		reason := fmt.Sprintf("%s %s", d.UniqueID(), result.Status)
		for _, c := range d.Children() {
			e.skip(c, reason, listener)
		}
		e.finish(d, result, listener)
		return
	}

	result = e.run(d, childCtx)
	for _, c := range d.Children() {
		e.execute(c, childCtx, listener)
	}
	e.finish(d, result, listener)
}

func (e *Executor) prepare(d platform.Descriptor, ctx *Context) (next *Context, result platform.Result) {
	node, ok := d.(Node)
	if !ok {
		return ctx, platform.Successful()
	}
	defer func() {
		if r := recover(); r != nil {
			next, result = nil, platform.Aborted(fmt.Errorf("panic in prepare: %v", r))
		}
	}()

	next, err := node.Prepare(ctx)
	if err != nil {
		return nil, platform.Failed(err)
	}
	if next == nil {
		next = ctx
	}
	return next, platform.Successful()
}

func (e *Executor) run(d platform.Descriptor, ctx *Context) (result platform.Result) {
	node, ok := d.(Node)
	if !ok {
		return platform.Successful()
	}
	defer func() {
		if r := recover(); r != nil {
			result = platform.Aborted(fmt.Errorf("panic in execute: %v", r))
		}
	}()

	if err := node.Execute(ctx); err != nil {
		return platform.Failed(err)
	}
	return platform.Successful()
}

func (e *Executor) skip(d platform.Descriptor, reason string, listener platform.ExecutionListener) {
	e.logger.Debug("descriptor skipped", "id", d.UniqueID().String(), "reason", reason)
	listener.ExecutionSkipped(d, reason)
}

func (e *Executor) finish(d platform.Descriptor, result platform.Result, listener platform.ExecutionListener) {
	if result.Status == platform.StatusSuccessful {
		e.logger.Debug("descriptor finished", "id", d.UniqueID().String())
	} else {
		e.logger.Warn("descriptor finished",
			"id", d.UniqueID().String(),
			"status", result.Status.String(),
			"error", result.Err,
		)
	}
	listener.ExecutionFinished(d, result)
}
