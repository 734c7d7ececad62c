package wsserver

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/lox/riposte/internal/game"
)

// Decider chooses an action for a seat at the current decision point. Both
// internal/cfrbot.Bot and internal/bladework.Bot implement this, so a
// session's configured bot can be either backend interchangeably.
type Decider interface {
	Decide(hand *game.HandState, seat int) (game.Action, int, error)
}

// Session is one heads-up game: the live hand plus the bot seated across
// from the human/hero seat. A session outlives any single hand — new_hand
// deals a fresh HandState into the same session, carrying stacks forward.
type Session struct {
	mu sync.Mutex

	ID            string
	Hand          *game.HandState
	Bot           Decider
	BotSeat       int
	HeroSeat      int
	SmallBlind    int
	BigBlind      int
	StartingStack int
	button        int
	rng           *rand.Rand
}

// NewSession deals the first hand of a new game.
func NewSession(id string, bot Decider, smallBlind, bigBlind, startingStack int) *Session {
	s := &Session{
		ID:            id,
		Bot:           bot,
		BotSeat:       1,
		HeroSeat:      0,
		SmallBlind:    smallBlind,
		BigBlind:      bigBlind,
		StartingStack: startingStack,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.Hand = game.NewHand(s.rng, []string{"Hero", "Bot"}, s.button, smallBlind, bigBlind,
		game.WithChips([]int{startingStack, startingStack}))
	return s
}

// NewHand settles the outgoing hand's pot, then deals the next hand,
// rotating the button and carrying each player's ending stack forward as
// their new starting stack.
func (s *Session) NewHand() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Hand.SettleHand()

	chips := make([]int, len(s.Hand.Players))
	for i, p := range s.Hand.Players {
		chips[i] = p.Chips
	}
	s.button = (s.button + 1) % len(chips)
	s.Hand = game.NewHand(s.rng, []string{"Hero", "Bot"}, s.button, s.SmallBlind, s.BigBlind,
		game.WithChips(chips))
}

// ApplyAction processes an action for whichever seat is currently active.
func (s *Session) ApplyAction(action game.Action, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Hand.ProcessAction(action, amount)
}

// RunBotTurn asks the session's bot to decide and applies its action,
// returning what it played.
func (s *Session) RunBotTurn() (game.Action, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Hand.ActivePlayer != s.BotSeat {
		return game.Fold, 0, fmt.Errorf("wsserver: not the bot's turn")
	}
	act, amount, err := s.Bot.Decide(s.Hand, s.BotSeat)
	if err != nil {
		return act, amount, err
	}
	if err := s.Hand.ProcessAction(act, amount); err != nil {
		return act, amount, err
	}
	return act, amount, nil
}

// Store is the in-memory registry of live sessions, keyed by game ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}
