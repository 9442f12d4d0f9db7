package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/notoli/backend/fakebackend"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newDevBackendCmd() *cobra.Command {
	var origins []string
	var seedEmail, seedPassword string
	cmd := &cobra.Command{
		Use:   "dev-backend",
		Short: "Serve an in-memory notoli backend for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFor(cmd)
			if err != nil {
				return err
			}
			addr := cfg.GetDevBackendAddr()

			allowed := fakebackend.AllowedOrigins{}
			for _, origin := range origins {
				allowed[origin] = struct{}{}
			}
			backend := fakebackend.New(fakebackend.Options{
				Secret:           []byte(cfg.GetDevBackendSecret()),
				AllowedOrigins:   allowed,
				LogRequests:      true,
				DefaultWorkspace: fakebackend.DefaultWorkspaceName,
			})
			backend.LogRoutes()
			if seedEmail != "" {
				if _, err := backend.CreateUser(seedEmail, "", seedPassword); err != nil {
					return err
				}
				log.Info().Str("email", seedEmail).Msg("Seeded user")
			}

			displayAppname(cmd.OutOrStdout(), cfg.GetAppName())
			server := &http.Server{Addr: addr, Handler: backend, ReadHeaderTimeout: 10 * time.Second}
			return serveUntilDone(cmd.Context(), server)
		},
	}
	cmd.Flags().String("dev-backend-addr", "", "listen address")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", []string{"*"}, "CORS origins to allow")
	cmd.Flags().StringVar(&seedEmail, "seed-email", "", "create this user at startup")
	cmd.Flags().StringVar(&seedPassword, "seed-password", "notoli", "password for --seed-email")
	return cmd
}

func serveUntilDone(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("Dev backend listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server.ListenAndServe %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return shutdown(server)
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("Dev backend stopped")
	return nil
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
