package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives every record the logger emits, after the primary core
// has written it. The fan-out target decides its own level filtering.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirrorFn atomic.Pointer[MirrorFunc]

// SetMirror installs the mirror target. Passing nil removes it.
func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirrorFn.Store(nil)
		return
	}
	mirrorFn.Store(&fn)
}

func mirrorRecord(ctx context.Context, level Level, msg string, args []any) {
	ptr := mirrorFn.Load()
	if ptr == nil {
		return
	}
	(*ptr)(ctx, level, msg, args...)
}
