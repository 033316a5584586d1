package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jbrewer4/options-pnl/src/api"
	"github.com/jbrewer4/options-pnl/src/marketdata"
	"github.com/jbrewer4/options-pnl/src/utils"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve option chains, scenario P&L reports, and workbook exports over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		cacheTTL, err := cmd.Flags().GetDuration("cache-ttl")
		if err != nil {
			log.Fatalf("error getting cache-ttl: %v", err)
		}

		if err := run(cacheTTL); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func run(cacheTTL time.Duration) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		return fmt.Errorf("run: failed to load environment variables: %w", err)
	}

	provider, err := marketdata.NewProviderFromEnv()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	service := marketdata.NewChainService(provider, marketdata.NewChainCache(cacheTTL))

	router := mux.NewRouter()
	api.SetupHandler(router.PathPrefix("/options").Subrouter(), service)

	port := os.Getenv("PORT")
	if len(port) == 0 {
		port = "3000"
	}

	srv := &http.Server{
		Handler: router,
		Addr:    fmt.Sprintf(":%s", port),
	}

	go func() {
		log.Infof("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil {
			if err.Error() != "http: Server closed" {
				log.Fatalf("http: failed to listen and serve: %v", err)
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	<-stop
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("run: error shutting down server: %w", err)
	}

	log.Info("Server gracefully stopped")

	return nil
}

func main() {
	rootCmd.PersistentFlags().Duration("cache-ttl", marketdata.DefaultCacheTTL, "How long a fetched option chain is served from cache.")

	rootCmd.Execute()
}
