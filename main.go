package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"github.com/johealth/chat-backend/src/chat"
	"github.com/johealth/chat-backend/src/lib"
	"github.com/johealth/chat-backend/src/routes"
	"github.com/johealth/chat-backend/src/store"
)

func main() {
	setupLogger()

	app := fiber.New()
	app.Use(cors.New())

	lib.ConnectDB()

	// Durable stores over the shared database.
	requests := store.NewRequestStore(lib.DB)
	edges := store.NewEdgeStore(lib.DB)
	messages := store.NewMessageStore(lib.DB)
	directory := store.NewUserDirectory(lib.DB)
	counters := store.NewCounters(lib.DB)

	if err := messages.EnsureIndexes(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to create message indexes")
	}

	// Core services: the state machine, the ledger, the owned session hub
	// and the coordinator that ties them together.
	relationships := chat.NewRelationships(requests, edges, directory, chat.RoleTableGate)
	ledger := chat.NewLedger(messages)
	hub := chat.NewHub()
	coordinator := chat.NewCoordinator(relationships, ledger, hub)

	hub.Start()
	defer hub.Stop()

	routes.UserRoutes(app, counters)
	routes.FriendRoutes(app, relationships)
	routes.ChatRoutes(app, hub, coordinator)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8001"
	}

	logrus.WithField("port", port).Info("server is running")
	if err := app.Listen(":" + port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}
}
