package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BatuhanK/huawei-inapp/internal/api"
	"github.com/BatuhanK/huawei-inapp/internal/resources"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the verification gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", c.cfg.ListenAddr)
			if err != nil {
				return err
			}
			return c.serve(ctx, listener)
		},
	}

	cmd.Flags().String("listen-addr", ":8080", "address the gateway listens on")
	cmd.Flags().String("apps-dir", "", "directory of app definitions to sync into the database")
	return cmd
}

// serve runs the gateway on listener until ctx is done, then shuts down
// gracefully.
func (c *cli) serve(
	ctx context.Context,
	listener net.Listener,
) error {
	svc, closeService, err := c.newService(ctx)
	if err != nil {
		_ = listener.Close()
		return err
	}
	defer closeService()

	if c.cfg.AppsDir != "" {
		if err := resources.WatchApps(ctx, c.cfg.AppsDir, svc, c.log); err != nil {
			_ = listener.Close()
			return err
		}
	}

	srv := &http.Server{
		Handler:           api.New(svc, c.log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(listener)
	}()
	c.log.WithField("addr", listener.Addr().String()).Info("gateway listening")

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	c.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.ShutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
