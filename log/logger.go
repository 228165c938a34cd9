// Package log provides the structured, leveled logger used by this module
// in place of the standard library log package: commadapter and cmd/party
// log through a Logger, and the engine and schedulers accept one.
//
// It is built directly on logiface's generic Logger[E Event] frontend
// (github.com/joeycumines/logiface), with stumpy
// (github.com/joeycumines/stumpy) as the concrete, zero-allocation JSON
// event backend: each Builder chain appends directly to a pooled byte
// buffer rather than building an intermediate map. A Logger may additionally
// rate limit by an explicit category, via internal/ratewindow, so a tight
// retry loop or a malicious peer cannot flood the log; this is kept as a
// thin layer on top of logiface rather than logiface's own caller-keyed
// rate limiting (see Builder.Limit), since category here is an explicit
// value chosen by the caller, not the call site itself.
package log

import (
	"io"
	"os"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/circuitmesh/mpcore/internal/ratewindow"
)

// Logger is a leveled, structured logger bound to a single component name.
// The zero value is not usable; construct one with New.
type Logger struct {
	name    string
	level   Level
	inner   *logiface.Logger[*stumpy.Event]
	limiter *ratewindow.Limiter
}

// Option configures a Logger constructed by New.
type Option func(*config)

type config struct {
	writer  io.Writer
	level   Level
	limiter *ratewindow.Limiter
}

// WithWriter sets the destination for encoded log lines. Defaults to
// os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.writer = w }
}

// WithLevel sets the minimum level that will be written. Events below this
// level are dropped before any fields are encoded.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithRateLimit installs a per-category rate limiter shared by every
// Builder chain that calls Builder.Limit on this Logger (and any Logger
// derived from it via Named). rates follows the same multi-window contract
// as ratewindow.NewLimiter.
func WithRateLimit(rates map[time.Duration]int) Option {
	return func(c *config) { c.limiter = ratewindow.NewLimiter(rates) }
}

// New constructs a Logger for the named component.
func New(name string, opts ...Option) *Logger {
	c := config{
		writer: os.Stderr,
		level:  LevelInfo,
	}
	for _, opt := range opts {
		opt(&c)
	}

	inner := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(c.writer)),
		stumpy.L.WithLevel(c.level),
	)

	return &Logger{
		name:    name,
		level:   c.level,
		inner:   inner,
		limiter: c.limiter,
	}
}

// Named derives a child Logger that shares this Logger's writer, level, and
// rate limiter, under a qualified name ("parent.child").
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		name:    l.name + "." + name,
		level:   l.level,
		inner:   l.inner,
		limiter: l.limiter,
	}
}

// Enabled reports whether level would be written by this Logger.
func (l *Logger) Enabled(level Level) bool {
	return l.level.Enabled() && level <= l.level
}

// Debug starts a chain for a LevelDebug event.
func (l *Logger) Debug() *Builder { return l.build(LevelDebug) }

// Info starts a chain for a LevelInfo event.
func (l *Logger) Info() *Builder { return l.build(LevelInfo) }

// Warn starts a chain for a LevelWarning event.
func (l *Logger) Warn() *Builder { return l.build(LevelWarning) }

// Error starts a chain for a LevelError event.
func (l *Logger) Error() *Builder { return l.build(LevelError) }

func (l *Logger) build(level Level) *Builder {
	b := l.inner.Build(level)
	if b == nil {
		// below the configured level; logiface.Builder is nil-receiver-safe,
		// and so is ours, so the chain degrades to a no-op from here.
		return nil
	}
	return newBuilder(b.Str("component", l.name), l)
}
