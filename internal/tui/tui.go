// Package tui is a terminal front end for a single heads-up session: a
// human in the hero seat typing actions, a bot in the other. It drives
// the same internal/wsserver.Session a remote client would use over
// the websocket transport, just locally and synchronously.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/riposte/internal/game"
	"github.com/lox/riposte/internal/wsserver"
	"github.com/lox/riposte/poker"
)

// Model is the Bubble Tea model for one interactive session.
type Model struct {
	session *wsserver.Session
	logger  *log.Logger

	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	width, height int
	handNum       int
	lastPayouts   map[int]int
}

// NewModel starts a fresh session (hero seat 0) against bot.
func NewModel(bot wsserver.Decider, smallBlind, bigBlind, startingStack int, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "fold, check, call, raise <to>, allin"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	session := wsserver.NewSession("local", bot, smallBlind, bigBlind, startingStack)

	m := &Model{
		session:     session,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		focusedPane: 1,
		handNum:     1,
	}
	m.addLog(fmt.Sprintf("Hand #%d dealt. Blinds %d/%d.", m.handNum, smallBlind, bigBlind))
	m.driveToHeroOrEnd()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				m.handleInput(input)
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleInput interprets one line of hero input: an action command while a
// hand is live, or any keypress to deal the next hand once it's over.
func (m *Model) handleInput(input string) {
	hand := m.session.Hand

	if hand.IsComplete() {
		m.dealNextHand()
		return
	}

	if hand.ActivePlayer != m.session.HeroSeat {
		return
	}

	action, amount, err := parseAction(input, hand)
	if err != nil {
		m.addLog(ErrorStyle.Render("! " + err.Error()))
		return
	}

	if err := m.session.ApplyAction(action, amount); err != nil {
		m.addLog(ErrorStyle.Render("! " + err.Error()))
		return
	}
	m.addLog(fmt.Sprintf("You: %s", describeAction(action, amount)))
	m.driveToHeroOrEnd()
}

// driveToHeroOrEnd runs bot turns until it's the hero's turn again or the
// hand is over, logging each bot action and the showdown/settlement result.
func (m *Model) driveToHeroOrEnd() {
	hand := m.session.Hand
	for !hand.IsComplete() && hand.ActivePlayer == m.session.BotSeat {
		action, amount, err := m.session.RunBotTurn()
		if err != nil {
			m.addLog(ErrorStyle.Render("! bot error: " + err.Error()))
			return
		}
		m.addLog(fmt.Sprintf("Bot: %s", describeAction(action, amount)))
	}

	if hand.IsComplete() {
		m.lastPayouts = hand.SettleHand()
		m.logHandResult()
	}
}

func (m *Model) logHandResult() {
	hand := m.session.Hand
	for seat, amount := range m.lastPayouts {
		if amount <= 0 {
			continue
		}
		name := "Bot"
		if seat == m.session.HeroSeat {
			name = "You"
		}
		m.addLog(SuccessStyle.Render(fmt.Sprintf("%s win %d", name, amount)))
	}
	if hand.Players[m.session.HeroSeat].Chips <= 0 || hand.Players[m.session.BotSeat].Chips <= 0 {
		m.addLog(WarningStyle.Render("A player is out of chips. Press enter to end."))
		return
	}
	m.addLog(InfoStyle.Render("Press enter for the next hand."))
}

func (m *Model) dealNextHand() {
	hand := m.session.Hand
	if hand.Players[m.session.HeroSeat].Chips <= 0 || hand.Players[m.session.BotSeat].Chips <= 0 {
		m.quitting = true
		return
	}
	m.session.NewHand()
	m.handNum++
	m.addLog(fmt.Sprintf("Hand #%d dealt.", m.handNum))
	m.driveToHeroOrEnd()
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 {
		m.logViewport.GotoBottom()
	}
}

func describeAction(action game.Action, amount int) string {
	if action == game.Raise {
		return fmt.Sprintf("raise to %d", amount)
	}
	return action.String()
}

// parseAction maps a typed command onto a game.Action and amount.
// "raise <n>" and "bet <n>" both mean "raise the total bet to n"; "allin"
// ignores any trailing amount since ProcessAction computes it itself.
func parseAction(input string, hand *game.HandState) (game.Action, int, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("enter an action")
	}

	switch fields[0] {
	case "fold", "f":
		return game.Fold, 0, nil
	case "check", "x":
		return game.Check, 0, nil
	case "call", "c":
		return game.Call, 0, nil
	case "allin", "a":
		return game.AllIn, 0, nil
	case "raise", "bet", "r":
		if len(fields) < 2 {
			return 0, 0, fmt.Errorf("raise needs an amount, e.g. \"raise 40\"")
		}
		n, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid raise amount %q", fields[len(fields)-1])
		}
		return game.Raise, n, nil
	default:
		_ = hand
		return 0, 0, fmt.Errorf("unknown action %q", fields[0])
	}
}

func (m *Model) View() string {
	if m.quitting {
		return "Thanks for playing.\n"
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(m.width - 2).
		Height(actionHeight)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := 28
	sidebarHeight := m.height - actionHeight - 4

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(sidebarHeight)

	logWidth := m.width - sidebarWidth - 4
	logHeight := sidebarHeight
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		logStyle.Render(m.logViewport.View()),
		sidebarStyle.Render(sidebarContent))

	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionStyle.Render(actionContent))
}

func (m *Model) renderSidebarPane() string {
	var b strings.Builder
	hand := m.session.Hand

	for _, p := range hand.Players {
		name := "Bot"
		if p.Seat == m.session.HeroSeat {
			name = "You"
		}
		var indicators []string
		if hand.Button == p.Seat {
			indicators = append(indicators, "D")
		}
		if p.Folded {
			indicators = append(indicators, "FOLD")
		} else if p.AllInFlag {
			indicators = append(indicators, "ALL-IN")
		}

		prefix := "  "
		if hand.ActivePlayer == p.Seat {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s $%d", prefix, name, p.Chips)
		if len(indicators) > 0 {
			line += " [" + strings.Join(indicators, ",") + "]"
		}
		if p.Bet > 0 {
			line += fmt.Sprintf(" (%d)", p.Bet)
		}

		style := PlayerInfoStyle
		if p.Folded {
			style = InfoStyle
		} else if hand.ActivePlayer == p.Seat {
			style = SuccessStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	total := 0
	for _, pot := range hand.GetPots() {
		total += pot.Amount
	}
	b.WriteString("\n")
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Pot: %d", total)))
	if hand.Board.CountCards() > 0 {
		b.WriteString("\n")
		b.WriteString(formatCards(hand.Board))
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder
	hand := m.session.Hand
	hero := hand.Players[m.session.HeroSeat]

	b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Hand: %s  Street: %s", formatCards(hero.HoleCards), hand.Street)))
	b.WriteString("\n")

	if hand.ActivePlayer == m.session.HeroSeat && !hand.IsComplete() {
		b.WriteString(ActionsStyle.Render("Actions: fold, check/call, raise <to>, allin"))
		b.WriteString("\n")
	}

	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Tab to scroll log • Ctrl+C to quit"))
	return b.String()
}

func formatCards(hand poker.Hand) string {
	if hand.CountCards() == 0 {
		return "[]"
	}
	var parts []string
	for _, c := range hand.Cards() {
		style := BlackCardStyle
		if c.Suit() == poker.Diamonds || c.Suit() == poker.Hearts {
			style = RedCardStyle
		}
		parts = append(parts, style.Render(c.String()))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
