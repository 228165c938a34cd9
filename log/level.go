package log

import "github.com/joeycumines/logiface"

// Level is logiface's syslog-style severity, re-exported so call sites never
// need to import logiface directly. Lower values are more severe;
// LevelDisabled suppresses all output.
type Level = logiface.Level

const (
	// LevelDisabled suppresses all events, including Error.
	LevelDisabled = logiface.LevelDisabled

	// LevelError indicates a condition that aborts the operation in
	// progress: a transport write failed, a party sent a malformed message.
	LevelError = logiface.LevelError

	// LevelWarning indicates a condition worth operator attention that the
	// caller otherwise recovered from: a rate limit engaged, a retry fired.
	LevelWarning = logiface.LevelWarning

	// LevelInfo indicates routine, expected lifecycle events: a scheduler
	// installed, a level's gates executed, a party connected.
	LevelInfo = logiface.LevelInformational

	// LevelDebug indicates detail useful only when actively investigating a
	// problem: per-gate scheduling decisions, per-frame transport I/O.
	LevelDebug = logiface.LevelDebug
)
