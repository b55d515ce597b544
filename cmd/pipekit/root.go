package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/pipekit/bootstrap"
	"github.com/kbukum/pipekit/cmd/pipekit/textpipes"
	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/pipes"
)

// cli holds the state shared by subcommands once the config is loaded.
type cli struct {
	configFile string
	envFile    string
	// logOutput overrides the configured log destination.
	logOutput io.Writer

	app      *bootstrap.App[*RunnerConfig]
	registry *pipes.Registry
	loader   *pipes.FileLoader
}

func newRootCmd() *cobra.Command {
	return (&cli{}).command()
}

func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:               serviceName,
		Short:             "Compose and run text pipelines",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return c.setup() },
	}
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default: search ./cmd/pipekit, ./config, ./)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", ".env file to load")

	root.AddCommand(c.listCmd(), c.checkCmd(), c.runCmd(), versionCmd())
	return root
}

func (c *cli) setup() error {
	var opts []config.LoaderOption
	opts = append(opts, config.WithDefaults(loaderDefaults))
	if c.configFile != "" {
		opts = append(opts, config.WithConfigFile(c.configFile))
	}
	if c.envFile != "" {
		opts = append(opts, config.WithEnvFile(c.envFile))
	}

	cfg, err := config.Load[RunnerConfig](serviceName, opts...)
	if err != nil {
		return err
	}

	var appOpts []bootstrap.Option
	if c.logOutput != nil {
		appOpts = append(appOpts, bootstrap.WithLogger(logger.NewWriter(c.logOutput, cfg.Logging.Level, cfg.Name)))
	}
	app, err := bootstrap.NewApp(cfg, appOpts...)
	if err != nil {
		return err
	}
	registerTelemetry(app)
	logger.RegisterDefaults("pipes")

	registry := pipes.NewRegistry()
	if err := textpipes.Register(registry, cfg.Pipelines.TopN); err != nil {
		return err
	}

	c.app = app
	c.registry = registry
	c.loader = pipes.NewFileLoader(cfg.Pipelines.Dirs...)
	return nil
}

// resolve loads a definition by name and expands it against the
// registry.
func (c *cli) resolve(name string) (*pipes.Definition, *pipes.Pipeline, error) {
	def, err := c.loader.Load(name)
	if err != nil {
		return nil, nil, err
	}
	p, err := pipes.Resolve(def, c.registry, c.loader)
	if err != nil {
		return nil, nil, err
	}
	return def, p, nil
}
