package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New("engine", WithWriter(&buf), WithLevel(LevelWarning))

	l.Debug().Str("wire", "w1").Log("scheduled gate")
	l.Info().Int("count", 3).Log("executed level")
	assert.Empty(t, buf.String(), "events below the configured level must not be written")

	l.Warn().Log("retrying")
	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), `"lvl":"warning"`)
	assert.Contains(t, buf.String(), `"msg":"retrying"`)
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := New("transport", WithWriter(&buf), WithLevel(LevelDebug))

	l.Info().
		Str("peer", "party-1").
		Int("frame", 7).
		Uint64("bytes", 128).
		Bool("ordered", true).
		Dur("elapsed", 250*time.Millisecond).
		Err(errors.New("boom")).
		Log("frame sent")

	line := buf.String()
	for _, want := range []string{
		`"component":"transport"`,
		`"peer":"party-1"`,
		`"frame":7`,
		`"bytes":"128"`,
		`"ordered":true`,
		`"err":"boom"`,
		`"msg":"frame sent"`,
	} {
		assert.Contains(t, line, want)
	}
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestLogger_Err_Nil(t *testing.T) {
	var buf bytes.Buffer
	l := New("engine", WithWriter(&buf))
	l.Info().Err(nil).Log("checked, no error")
	// stumpy only writes the "err" field for a non-nil error; a nil Err is a
	// no-op rather than an explicit null, per logiface's own convention.
	assert.NotContains(t, buf.String(), `"err"`)
	assert.Contains(t, buf.String(), `"msg":"checked, no error"`)
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	l := New("party", WithWriter(&buf))
	child := l.Named("scheduler")
	child.Info().Log("installed")
	assert.Contains(t, buf.String(), `"component":"party.scheduler"`)
}

func TestLogger_RateLimit(t *testing.T) {
	var buf bytes.Buffer
	l := New("gate", WithWriter(&buf), WithRateLimit(map[time.Duration]int{time.Minute: 1}))

	l.Warn().Limit("overflow").Log("first")
	l.Warn().Limit("overflow").Log("second")

	count := strings.Count(buf.String(), "\n")
	assert.Equal(t, 1, count, "the second event for the same category within the window must be suppressed")
}

func TestLogger_RateLimit_DistinctCategories(t *testing.T) {
	var buf bytes.Buffer
	l := New("gate", WithWriter(&buf), WithRateLimit(map[time.Duration]int{time.Minute: 1}))

	l.Warn().Limit("a").Log("first")
	l.Warn().Limit("b").Log("second")

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestDisabledBuilder_NeverPanics(t *testing.T) {
	var buf bytes.Buffer
	l := New("noop", WithWriter(&buf), WithLevel(LevelDisabled))
	assert.NotPanics(t, func() {
		l.Error().Str("k", "v").Int("n", 1).Err(errors.New("x")).Log("dropped")
	})
	assert.Empty(t, buf.String())
}
