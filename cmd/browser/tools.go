package main

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/matst80/campsite-finder/pkg/messaging"
	"github.com/matst80/campsite-finder/pkg/query"
	"github.com/matst80/campsite-finder/pkg/tracking"
	"github.com/matst80/campsite-finder/pkg/urlstate"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
)

// canonicalCmd prints how a list URL is rewritten and the key its search
// is deduplicated under.
func canonicalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canonical <query>",
		Short: "Print the canonical form and search key of a list query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := urlstate.Decode(args[0])
			id := query.Build(state.Page, state.Filters)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "query: %s\n", state.Encode())
			fmt.Fprintf(out, "key:   %s\n", id.Key())
			fmt.Fprintf(out, "hash:  %016x\n", id.Hash())
			return nil
		},
	}
}

func tailCmd() *cobra.Command {
	var rabbitUrl string

	cmd := &cobra.Command{
		Use:   "tail-searches",
		Short: "Print search events as they are published",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn, err := amqp.Dial(rabbitUrl)
			if err != nil {
				return fmt.Errorf("connect to rabbitmq: %w", err)
			}
			defer conn.Close()
			ch, err := conn.Channel()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = messaging.ListenToTopic(ctx, ch, messaging.GlobalPrefix, messaging.SearchPerformed, func(ev tracking.SearchEvent) error {
				_, err := fmt.Fprintf(out, "%d session=%d results=%d %s\n", ev.Timestamp, ev.SessionId, ev.NumberOfResults, ev.Query)
				return err
			})
			if err != nil {
				return err
			}
			log.Printf("listening for search events")
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&rabbitUrl, "rabbit-url", envOr("RABBIT_URL", "amqp://localhost:5672/"), "amqp url")
	return cmd
}
