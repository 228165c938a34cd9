package log

import (
	"sync"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Builder accumulates the fields of a single log event. It is obtained from
// Logger.Debug/Info/Warn/Error and terminated by Log, which writes the
// encoded line and returns the Builder to its pool. A Builder must not be
// retained past Log. Every method is safe to call on a nil receiver, so a
// disabled chain (see Logger.build) degrades to a no-op without callers
// needing to check Enabled themselves.
type Builder struct {
	b          *logiface.Builder[*stumpy.Event]
	logger     *Logger
	suppressed bool
}

var builderPool = sync.Pool{New: func() any { return new(Builder) }}

func newBuilder(b *logiface.Builder[*stumpy.Event], l *Logger) *Builder {
	wrapped := builderPool.Get().(*Builder)
	wrapped.b = b
	wrapped.logger = l
	wrapped.suppressed = false
	return wrapped
}

func (b *Builder) live() bool {
	return b != nil && !b.suppressed
}

// Str appends a string field.
func (b *Builder) Str(key, val string) *Builder {
	if b.live() {
		b.b = b.b.Str(key, val)
	}
	return b
}

// Int appends an integer field.
func (b *Builder) Int(key string, val int) *Builder {
	if b.live() {
		b.b = b.b.Int(key, val)
	}
	return b
}

// Uint64 appends an unsigned 64-bit integer field.
func (b *Builder) Uint64(key string, val uint64) *Builder {
	if b.live() {
		b.b = b.b.Uint64(key, val)
	}
	return b
}

// Bool appends a boolean field.
func (b *Builder) Bool(key string, val bool) *Builder {
	if b.live() {
		b.b = b.b.Bool(key, val)
	}
	return b
}

// Dur appends a duration field.
func (b *Builder) Dur(key string, val time.Duration) *Builder {
	if b.live() {
		b.b = b.b.Dur(key, val)
	}
	return b
}

// Err appends the error field, using stumpy's error encoding. A nil err is a
// no-op (stumpy.Event.AddError only writes a field for a non-nil error),
// matching logiface's own convention.
func (b *Builder) Err(err error) *Builder {
	if b.live() {
		b.b = b.b.Err(err)
	}
	return b
}

// Limit drops this event, for the remainder of the chain, if category has
// exceeded the Logger's configured rate. It is a no-op if the Logger has no
// rate limiter installed. Typical categories are caller-derived constants,
// e.g. a string naming the call site, so unrelated call sites don't starve
// each other's budget.
func (b *Builder) Limit(category any) *Builder {
	if b.live() && b.logger.limiter != nil {
		if _, ok := b.logger.limiter.Allow(category); !ok {
			b.suppressed = true
		}
	}
	return b
}

// Log finalizes the chain, writing the event with the given message unless
// it was suppressed by level or Limit, then releases the Builder.
func (b *Builder) Log(msg string) {
	if b == nil {
		return
	}
	if b.suppressed {
		b.b.Release()
	} else {
		b.b.Log(msg)
	}
	b.b = nil
	b.logger = nil
	builderPool.Put(b)
}
