package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/karloscodes/p13"
	"github.com/karloscodes/p13/config"
	"github.com/karloscodes/p13/resolver"
)

const (
	FlagApp             = "app"
	FlagPort            = "port"
	FlagShutdownTimeout = "shutdown-timeout"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document root through the front controller",
		Long: `Serve loads configuration from environment variables prefixed with the
upper-cased app name (for example SHOP_DOCUMENT_ROOT) and answers every
request with the controller action it resolves to.`,
		Args:              cobra.NoArgs,
		RunE:              runServe,
		DisableAutoGenTag: true,
	}

	cmd.Flags().String(FlagApp, "p13", "application name, used as the environment variable prefix")
	cmd.Flags().String(FlagPort, "", "override the configured port")
	cmd.Flags().Duration(FlagShutdownTimeout, 10*time.Second, "graceful shutdown timeout")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	appName, err := cmd.Flags().GetString(FlagApp)
	if err != nil {
		return err
	}
	port, err := cmd.Flags().GetString(FlagPort)
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration(FlagShutdownTimeout)
	if err != nil {
		return err
	}

	cfg, err := config.Load(appName)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	logger := p13.NewSlogAdapter(p13.NewLogger(cfg, nil))

	serverCfg := p13.DefaultServerConfig()
	serverCfg.Fallback = describeTarget
	serverCfg.EnableRateLimiter = cfg.IsProduction()

	app, err := p13.NewApplication(p13.ApplicationOptions{
		Config:       cfg,
		Logger:       logger,
		ServerConfig: serverCfg,
	})
	if err != nil {
		return err
	}

	return app.RunContext(cmd.Context(), timeout)
}

// describeTarget answers with what the request resolved to.
func describeTarget(ctx *p13.Context) error {
	return ctx.JSON(struct {
		Target     p13.Target          `json:"target"`
		Resolution resolver.Resolution `json:"resolution"`
	}{ctx.Target, ctx.Resolution})
}
