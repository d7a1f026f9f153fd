package main

import (
	"time"

	"dockhosts/cmd/dockhosts/ui"
	"dockhosts/config"
	"dockhosts/internal/logging"

	"github.com/spf13/cobra"
)

// options hold the persistent flags. Flags the user set override the
// config file.
type options struct {
	configPath    string
	debug         bool
	noInteraction bool
	hostsFile     string
	writeMode     string
	privilege     string
	journal       string
	dockerHost    string
	waitDocker    time.Duration
	otlpEndpoint  string
}

func rootCmd() *cobra.Command {
	var (
		opts options
		cfg  *config.Config
	)

	root := &cobra.Command{
		Use:   "dockhosts [network]",
		Short: "Keep the hosts file in sync with containers on a docker network",
		Long: "dockhosts writes one hosts entry per running container attached to the\n" +
			"selected network into a marked block of the hosts file, and rewrites the\n" +
			"block whenever a container starts or stops.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			cfg = loaded

			level := cfg.LogLevel
			if opts.debug {
				level = logging.LevelDebug
			}
			if err := logging.Configure(logging.Options{Level: level, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()}); err != nil {
				return err
			}
			ui.ConfigureInteraction(opts.noInteraction)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), cmd.ErrOrStderr(), cfg, networkArg(cfg, args))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default "+config.Path()+")")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&opts.noInteraction, "no-interaction", false, "Disable colors and terminal styling")
	pf.StringVar(&opts.hostsFile, "hosts-file", "", "Hosts file to manage (default "+config.DefaultHostsFile()+")")
	pf.StringVar(&opts.writeMode, "write-mode", "", "How to replace the hosts file: atomic or inplace")
	pf.StringVar(&opts.privilege, "privilege", "", "How to gain write access: sudo or none")
	pf.StringVar(&opts.journal, "journal", "", "SQLite file recording every pass")
	pf.StringVar(&opts.dockerHost, "docker-host", "", "Docker daemon address (default from DOCKER_HOST)")
	pf.DurationVar(&opts.waitDocker, "wait-docker", 0, "Wait up to this long for the docker daemon to answer")
	pf.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP endpoint receiving pass traces")

	root.AddCommand(networksCmd(&cfg))
	root.AddCommand(previewCmd(&cfg))
	root.AddCommand(historyCmd(&cfg))
	return root
}

// resolve loads the config file and applies every flag the user set.
func (o *options) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("hosts-file") {
		cfg.HostsFile = o.hostsFile
	}
	if flags.Changed("write-mode") {
		cfg.WriteMode = o.writeMode
	}
	if flags.Changed("privilege") {
		cfg.Privilege = o.privilege
	}
	if flags.Changed("journal") {
		cfg.Journal = o.journal
	}
	if flags.Changed("docker-host") {
		cfg.Docker.Host = o.dockerHost
	}
	if flags.Changed("wait-docker") {
		cfg.Docker.Wait = o.waitDocker
	}
	if flags.Changed("otlp-endpoint") {
		cfg.Telemetry.OTLPEndpoint = o.otlpEndpoint
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// networkArg returns the positional network, else the configured one.
func networkArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Network
}
