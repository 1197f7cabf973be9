package osutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext returns a context that is cancelled on the first
// interrupt or terminate signal, giving a walk in flight the chance to
// wind down. A second signal exits on the spot for when a hung fetch
// refuses to.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		slog.Info("shutting down", "signal", sig.String())
		cancel()

		<-sigs
		os.Exit(1)
	}()

	return ctx
}
