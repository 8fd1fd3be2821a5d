package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "browser",
		Short: "Campsite list browsing service",
		Long: `Serves the campsite list state over HTTP and websockets.

The list state (filters, sort order and page) lives in the address bar
query, page=<n>&filters=<json>, and every state is fetched from the
campsite search api.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		canonicalCmd(),
		tailCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("browser: %v", err)
	}
}
