package lib

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// shutdownGrace is how long in-flight requests get to finish after a signal.
const shutdownGrace = 10 * time.Second

// HandleInterrupt blocks until SIGINT or SIGTERM arrives. With a shutdown
// callback it drains in-flight work within the grace period and returns;
// without one it terminates the process immediately.
func HandleInterrupt(shutdown func(context.Context) error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c

	if shutdown == nil {
		log.Fatal().Str("signal", sig.String()).Msg("process interrupted")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	log.Info().Str("signal", sig.String()).Msg("draining in-flight requests")
	if err := shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
