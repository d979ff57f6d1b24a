package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peerlearn-be/pkg/events"
	pktNats "peerlearn-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Tails the audit event stream off NATS. Ops tool for watching session
// lifecycle, auth and moderation activity live on a running deployment.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = "nats://localhost:4222"
	}

	sub, err := pktNats.NewSubscriber(url)
	if err != nil {
		log.Fatalf("Error: Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe("events.>", "audit-tail", func(ctx context.Context, event events.Event) error {
		payload := event.Payload()
		ts := event.Timestamp().Format(time.RFC3339)

		switch category := payload["category"]; category {
		case "session":
			color.Cyan("[%s] %s %v", ts, event.EventType(), payload["description"])
		case "admin":
			color.Yellow("[%s] %s %v", ts, event.EventType(), payload["description"])
		case "auth":
			color.Green("[%s] %s %v", ts, event.EventType(), payload["description"])
		default:
			color.White("[%s] %s %v", ts, event.EventType(), payload["description"])
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error: Failed to subscribe: %v", err)
	}

	color.Cyan("👂 Tailing audit events on %s (Ctrl+C to stop)", url)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
