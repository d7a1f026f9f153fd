package docker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docker/docker/client"
)

// WaitReady pings the daemon once a second until it answers, ctx is done,
// or the daemon reports something other than a connection failure.
func WaitReady(ctx context.Context, cli *client.Client) error {
	log := slog.With("component", "docker")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	waiting := false
	for {
		_, err := cli.Ping(ctx)
		if err == nil {
			if waiting {
				log.Info("daemon reachable")
			}
			return nil
		}
		if !client.IsErrConnectionFailed(err) {
			return fmt.Errorf("connect to docker daemon: %w", err)
		}
		if !waiting {
			waiting = true
			log.Info("waiting for docker daemon", "host", cli.DaemonHost())
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for docker daemon: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
