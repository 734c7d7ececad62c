package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/lox/riposte/cmd/riposte/shared"
	"github.com/lox/riposte/internal/wsserver"
)

// ServeCmd starts the websocket game server.
type ServeCmd struct {
	Addr          string `help:"Listen address" default:":8080"`
	SmallBlind    int    `help:"Small blind" default:"5"`
	BigBlind      int    `help:"Big blind" default:"10"`
	StartingStack int    `help:"Starting stack per player" default:"1000"`
	Bot           string `help:"Bot backend seated opposite the hero: cfr or bladework" default:"bladework"`
	Model         string `help:"Blueprint path for --bot cfr"`
	Debug         bool   `help:"Enable debug logging"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)
	ctx := shared.SetupSignalHandler(logger)

	cfg := wsserver.Config{
		SmallBlind:    c.SmallBlind,
		BigBlind:      c.BigBlind,
		StartingStack: c.StartingStack,
		NewBot: func() wsserver.Decider {
			bot, err := buildBot(c.Bot, c.Model, rand.New(rand.NewSource(time.Now().UnixNano())))
			if err != nil {
				logger.Fatal("failed to build bot", "error", err)
			}
			return bot
		},
	}

	server := wsserver.NewServer(cfg, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(c.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
