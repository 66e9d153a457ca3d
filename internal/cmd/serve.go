package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/benbeisheim/gridchess-backend/internal/config"
	"github.com/benbeisheim/gridchess-backend/internal/server"
	"github.com/benbeisheim/gridchess-backend/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// gridchess serve
func Serve() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`serve runs the HTTP and WebSocket game server.

			Configuration is read from --config, or from
			$XDG_CONFIG_HOME/gridchess/config.yaml when present.
			--listen overrides server.listen from the file.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
				cfg.Server.Listen = listen
			}
			if !cmd.Flag("trace").Changed {
				logrus.SetLevel(cfg.LogLevel())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringP("config", "c", "", "Path to the configuration file")
	cmd.Flags().StringP("listen", "l", "", "Address to listen on")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager)
	app := server.New(cfg.Server, gameService)

	go gameManager.RunMatchmaking(ctx, cfg.Matchmaking.Interval)

	errc := make(chan error, 1)
	go func() {
		logrus.Infof("listening on %s", cfg.Server.Listen)
		errc <- app.Listen(cfg.Server.Listen)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		logrus.Info("shutting down")
		return app.Shutdown()
	}
}
