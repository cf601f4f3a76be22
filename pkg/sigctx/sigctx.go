package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// NotifyContext returns a context canceled on SIGINT, SIGTERM, SIGQUIT
// and any extra signals.
func NotifyContext(
	parent context.Context, extra ...os.Signal,
) (context.Context, context.CancelFunc) {
	signals := append([]os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}, extra...)
	return signal.NotifyContext(parent, signals...)
}
