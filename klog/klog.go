// Package klog is munix's leveled logging façade, grounded in
// original_source/src/lib/drivers/log.h. Rather than a
// per-translation-unit LOG_LEVEL macro, each KLog carries a runtime
// level; the Logger interface mirrors fuse/log.go so *log.Logger
// satisfies it without adaptation.
package klog

import (
	"fmt"
	"log"
	"os"

	"github.com/UIT-INF-2203/munix-2026/kerrno"
)

// Logger is the sink a KLog writes formatted lines to. The standard
// library's *log.Logger implements this directly.
type Logger interface {
	Printf(format string, args ...any)
}

// Level selects which calls are gated through.
type Level int

const (
	Error Level = iota
	Warn
	Info
	Debug
)

// KLog is a leveled logger bound to a Logger sink.
type KLog struct {
	out   Logger
	level Level
}

// New creates a KLog writing to out, gated at level.
func New(out Logger, level Level) *KLog {
	if out == nil {
		out = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &KLog{out: out, level: level}
}

// SetLevel changes the gating level.
func (k *KLog) SetLevel(level Level) { k.level = level }

func (k *KLog) logf(level Level, format string, args ...any) {
	if level > k.level {
		return
	}
	prefix := [...]string{"error", "warn", "info", "debug"}[level]
	k.out.Printf("["+prefix+"] "+format, args...)
}

func (k *KLog) Errorf(format string, args ...any) { k.logf(Error, format, args...) }
func (k *KLog) Warnf(format string, args ...any)  { k.logf(Warn, format, args...) }
func (k *KLog) Infof(format string, args ...any)  { k.logf(Info, format, args...) }
func (k *KLog) Debugf(format string, args ...any) { k.logf(Debug, format, args...) }

// Result logs at Info on success and Error on failure, appending the
// status to the message on failure, mirroring original_source's
// log_result macro.
func (k *KLog) Result(res kerrno.Status, format string, args ...any) kerrno.Status {
	msg := fmt.Sprintf(format, args...)
	if res.Ok() {
		k.logf(Info, "%s", msg)
	} else {
		k.logf(Error, "%s: %v", msg, res)
	}
	return res
}

// DebugResult is Result gated at Debug instead of Info on success,
// mirroring original_source's debug_result macro.
func (k *KLog) DebugResult(res kerrno.Status, format string, args ...any) kerrno.Status {
	msg := fmt.Sprintf(format, args...)
	if res.Ok() {
		k.logf(Debug, "%s", msg)
	} else {
		k.logf(Error, "%s: %v", msg, res)
	}
	return res
}
