package main

import (
	"fmt"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/riposte/cmd/riposte/shared"
	"github.com/lox/riposte/internal/tui"
)

// PlayCmd starts an interactive terminal session against a bot.
type PlayCmd struct {
	Bot           string `help:"Bot backend: cfr or bladework" default:"bladework"`
	Model         string `help:"Blueprint path for --bot cfr"`
	SmallBlind    int    `help:"Small blind" default:"5"`
	BigBlind      int    `help:"Big blind" default:"10"`
	StartingStack int    `help:"Starting stack per player" default:"1000"`
	Debug         bool   `help:"Enable debug logging"`
}

func (c *PlayCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	bot, err := buildBot(c.Bot, c.Model, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return fmt.Errorf("build bot: %w", err)
	}

	model := tui.NewModel(bot, c.SmallBlind, c.BigBlind, c.StartingStack, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
