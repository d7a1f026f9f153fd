package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"dockhosts/cmd/dockhosts/ui"
	"dockhosts/config"
	"dockhosts/internal/adapter/docker"
	"dockhosts/internal/adapter/sqlite"
	"dockhosts/internal/hostsfile"
	"dockhosts/internal/privilege"
	"dockhosts/internal/syncer"
	"dockhosts/internal/telemetry"
)

const telemetryShutdownTimeout = 5 * time.Second

// runSync selects the network, then keeps the hosts file in sync until ctx
// is cancelled or the event stream ends. Status lines go to out.
func runSync(ctx context.Context, out io.Writer, cfg *config.Config, requested string) error {
	rt, err := openRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	network, err := syncer.SelectNetwork(ctx, rt, requested)
	if err != nil {
		return err
	}

	provider, err := telemetry.NewProvider(ctx, telemetry.Options{OTLPEndpoint: cfg.Telemetry.OTLPEndpoint})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Warn("flush traces failed", "err", err)
		}
	}()

	var journal syncer.Journal
	if cfg.Journal != "" {
		j, err := sqlite.Open(cfg.Journal)
		if err != nil {
			return err
		}
		defer j.Close()
		journal = j
	}

	escalator, err := privilege.New(cfg.Privilege)
	if err != nil {
		return err
	}

	s := syncer.New(rt, syncer.Config{
		Network:   network,
		HostsFile: &hostsfile.File{Path: cfg.HostsFile, Mode: cfg.WriteMode},
		Markers:   cfg.HostsMarkers(),
		Escalator: escalator,
		Journal:   journal,
		Tracer:    provider.Tracer(),
	})

	fmt.Fprint(out, syncSummary(network, cfg))
	if err := s.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, ui.SuccessMsg("stopped watching %s", network))
	return nil
}

func syncSummary(network string, cfg *config.Config) string {
	journal := ui.Muted("disabled")
	if cfg.Journal != "" {
		journal = cfg.Journal
	}
	return ui.InfoMsg("syncing hosts for network %s", ui.Bold(network)) + "\n" + ui.KeyValues("  ",
		ui.KV("hosts file", cfg.HostsFile),
		ui.KV("write mode", cfg.WriteMode),
		ui.KV("privilege", cfg.Privilege),
		ui.KV("journal", journal),
	)
}

// openRuntime connects to the docker daemon, waiting for it when configured.
func openRuntime(ctx context.Context, cfg *config.Config) (*docker.Runtime, error) {
	rt, err := docker.NewRuntime(docker.Options{
		Host:    cfg.Docker.Host,
		TLSCA:   cfg.Docker.TLSCA,
		TLSCert: cfg.Docker.TLSCert,
		TLSKey:  cfg.Docker.TLSKey,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Docker.Wait <= 0 {
		return rt, nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Docker.Wait)
	defer cancel()
	if err := rt.WaitReady(waitCtx); err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("docker not ready after %s: %w", cfg.Docker.Wait, err)
	}
	return rt, nil
}
