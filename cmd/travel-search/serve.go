package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/travel-search/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search endpoints over HTTP",
	Long: `Serve exposes the searches as plain-text GET endpoints:

  /v1/products/destination    ?country=&province=&city=&page=
  /v1/products/pass-through   ?country=&province=&city=&page=
  /v1/products/abstract       ?country=&province=&city=&page=
  /v1/products/detail         ?country=&province=&city=&page=
  /v1/products/:num/features
  /v1/products/features       ?num=P1&num=P2
  /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.facade, a.log)

	errc := make(chan error, 1)
	go func() {
		a.log.Info("listening", zap.String("addr", a.cfg.Server.Addr))
		fmt.Fprintf(os.Stderr, "Listening on %s\n", a.cfg.Server.Addr)
		errc <- srv.Listen(a.cfg.Server.Addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-cmd.Context().Done():
	}

	a.log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.ShutdownWithContext(ctx)
}
