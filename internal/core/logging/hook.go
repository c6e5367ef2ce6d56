package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies request_id and username from the event context.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (h ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := GetRequestID(ctx); id != "" {
		e.Str("request_id", id)
	}
	if name := GetUsername(ctx); name != "" {
		e.Str("username", name)
	}
}
