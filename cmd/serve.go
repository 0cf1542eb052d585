package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/greenline365/pregreet/internal/monitoring"
	"github.com/greenline365/pregreet/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pre-greeting HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		if interval := cfg.Monitoring.CheckInterval(); interval > 0 {
			checker := monitoring.NewChecker(
				monitoring.NewCollector(env.Store, env.Breakers),
				monitoring.NewAlerter(),
				interval,
			)
			go checker.Run(ctx)
		}

		router := server.NewRouter(server.Deps{
			Briefings:      env.Briefings,
			Store:          env.Store,
			Breakers:       env.Breakers,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		})
		return server.Start(ctx, router, resolvePort(servePort, cfg.Server.Port))
	},
}

// resolvePort prefers the flag over the configured port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
