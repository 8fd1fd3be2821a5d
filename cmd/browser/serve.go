package main

import (
	"context"
	"log"

	"github.com/matst80/campsite-finder/pkg/client"
	"github.com/matst80/campsite-finder/pkg/common"
	"github.com/matst80/campsite-finder/pkg/common/jsoncompat"
	"github.com/matst80/campsite-finder/pkg/session"
	"github.com/matst80/campsite-finder/pkg/tracking"
	"github.com/matst80/campsite-finder/pkg/types"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		listenAddress string
		apiUrl        string
		rabbitUrl     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the browsing service",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Printf("json backend: %s", jsoncompat.Backend)
			log.Printf("search api: %s", apiUrl)

			searchClient := client.New(client.DefaultConfig(apiUrl))
			a := &app{
				fetcher:  searchClient,
				places:   searchClient,
				wsConfig: session.DefaultConfig(),
			}

			var hooks []common.ShutdownHook
			if rabbitUrl != "" {
				trk, err := tracking.NewRabbitTracking(rabbitUrl)
				if err != nil {
					log.Printf("Failed to connect to rabbitmq for tracking: %v", err)
				} else {
					a.tracker = trk
					hooks = append(hooks, closeTracker(trk))
				}
			}

			timeouts := common.LoadTimeoutConfig(common.DefaultTimeoutConfig())
			server := common.NewServerWithTimeouts(listenAddress, a.routes(), timeouts)
			return common.RunServerWithShutdown(cmd.Context(), server, "campsite browser", timeouts, hooks...)
		},
	}

	cmd.Flags().StringVar(&listenAddress, "listen", envOr("LISTEN_ADDRESS", ":8080"), "address to listen on")
	cmd.Flags().StringVar(&apiUrl, "api-url", envOr("API_URL", "http://localhost:8000"), "campsite search api base url")
	cmd.Flags().StringVar(&rabbitUrl, "rabbit-url", envOr("RABBIT_URL", ""), "amqp url for search tracking, empty disables tracking")
	return cmd
}

func closeTracker(trk types.Tracking) common.ShutdownHook {
	return func(ctx context.Context) error {
		return trk.Close()
	}
}
