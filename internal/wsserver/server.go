// Package wsserver exposes the five engine-facing operations over a thin
// gorilla/websocket JSON transport: start_game, player_action, ai_turn,
// new_hand, get_state. It is deliberately peripheral — the engine and bots
// underneath don't know this package exists, and every decision here is a
// dispatch onto internal/game and a Decider, never game logic of its own.
package wsserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/riposte/internal/game"
	"github.com/lox/riposte/internal/gameid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// BotFactory builds a fresh Decider (and its own opponent-model state,
// where applicable) for a newly started game.
type BotFactory func() Decider

// Config configures a Server's table stakes and bot backend.
type Config struct {
	SmallBlind    int
	BigBlind      int
	StartingStack int
	NewBot        BotFactory
}

// Server accepts websocket connections and dispatches each one's messages
// against the shared session store.
type Server struct {
	store  *Store
	cfg    Config
	logger *log.Logger

	upgrader   websocket.Upgrader
	mux        *http.ServeMux
	httpServer *http.Server
	routesOnce sync.Once
}

// NewServer builds a server with the given table configuration and logger.
func NewServer(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:  NewStore(),
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
}

func (s *Server) ensureRoutes() {
	s.routesOnce.Do(func() {
		s.mux.HandleFunc("/ws", s.handleWebSocket)
		s.mux.HandleFunc("/health", s.handleHealth)
	})
}

// Start listens on addr and serves until the listener is closed.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve runs the server on an existing listener.
func (s *Server) Serve(listener net.Listener) error {
	s.ensureRoutes()
	s.httpServer = &http.Server{Handler: s.mux}
	s.logger.Info("server starting", "addr", listener.Addr().String())
	return s.httpServer.Serve(listener)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	c := newConnHandler(conn, s, s.logger.WithPrefix("conn"))
	c.start()
}

// connHandler owns one client connection: a read goroutine that dispatches
// incoming messages, and a write goroutine draining a buffered outbound
// channel, mirroring the teacher's readPump/writePump split so a slow
// client write never blocks the dispatch of the next request.
type connHandler struct {
	conn   *websocket.Conn
	server *Server
	logger *log.Logger

	send      chan *Message
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newConnHandler(conn *websocket.Conn, server *Server, logger *log.Logger) *connHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &connHandler{
		conn:   conn,
		server: server,
		logger: logger,
		send:   make(chan *Message, 32),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *connHandler) start() {
	go c.writePump()
	go c.readPump()
}

func (c *connHandler) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		_ = c.conn.Close()
	})
}

func (c *connHandler) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket read error", "error", err)
			}
			return
		}
		c.dispatch(&msg)
	}
}

func (c *connHandler) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("websocket write error", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *connHandler) reply(requestID string, msgType MessageType, data interface{}) {
	msg, err := NewMessage(msgType, requestID, data)
	if err != nil {
		c.logger.Error("failed to build reply", "error", err)
		return
	}
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	}
}

func (c *connHandler) replyError(requestID string, err error) {
	c.reply(requestID, TypeError, ErrorData{Message: err.Error()})
}

var errUnknownGame = errors.New("wsserver: unknown game id")

func (c *connHandler) dispatch(msg *Message) {
	switch msg.Type {
	case TypeStartGame:
		c.handleStartGame(msg.RequestID)
	case TypePlayerAction:
		c.handlePlayerAction(msg.RequestID, msg.Data)
	case TypeAITurn:
		c.handleAITurn(msg.RequestID, msg.Data)
	case TypeNewHand:
		c.handleNewHand(msg.RequestID, msg.Data)
	case TypeGetState:
		c.handleGetState(msg.RequestID, msg.Data)
	default:
		c.replyError(msg.RequestID, errors.New("wsserver: unknown message type "+string(msg.Type)))
	}
}

func (c *connHandler) handleStartGame(requestID string) {
	cfg := c.server.cfg
	id := gameid.Generate()
	session := NewSession(id, cfg.NewBot(), cfg.SmallBlind, cfg.BigBlind, cfg.StartingStack)
	c.server.store.Put(session)

	c.reply(requestID, TypeStartGame, StartGameResult{
		GameID:          id,
		SerializedState: Serialize(id, session.Hand, session.HeroSeat),
	})
}

func (c *connHandler) lookupSession(requestID, gameID string) (*Session, bool) {
	session, ok := c.server.store.Get(gameID)
	if !ok {
		c.replyError(requestID, errUnknownGame)
		return nil, false
	}
	return session, true
}

func (c *connHandler) handlePlayerAction(requestID string, data json.RawMessage) {
	var req PlayerActionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.replyError(requestID, err)
		return
	}
	session, ok := c.lookupSession(requestID, req.GameID)
	if !ok {
		return
	}

	action, ok := parseBoundaryAction(req.Action)
	if !ok {
		c.replyError(requestID, errors.New("wsserver: unknown action "+req.Action))
		return
	}
	if err := session.ApplyAction(action, req.Amount); err != nil {
		c.reply(requestID, TypePlayerAction, ActionResult{
			UpdatedState: Serialize(session.ID, session.Hand, session.HeroSeat),
			Message:      err.Error(),
		})
		return
	}

	c.reply(requestID, TypePlayerAction, c.actionResult(session))
}

func (c *connHandler) handleAITurn(requestID string, data json.RawMessage) {
	var req GameIDRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.replyError(requestID, err)
		return
	}
	session, ok := c.lookupSession(requestID, req.GameID)
	if !ok {
		return
	}

	if _, _, err := session.RunBotTurn(); err != nil {
		c.replyError(requestID, err)
		return
	}
	c.reply(requestID, TypeAITurn, c.actionResult(session))
}

func (c *connHandler) handleNewHand(requestID string, data json.RawMessage) {
	var req GameIDRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.replyError(requestID, err)
		return
	}
	session, ok := c.lookupSession(requestID, req.GameID)
	if !ok {
		return
	}

	session.NewHand()
	c.reply(requestID, TypeNewHand, Serialize(session.ID, session.Hand, session.HeroSeat))
}

func (c *connHandler) handleGetState(requestID string, data json.RawMessage) {
	var req GameIDRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.replyError(requestID, err)
		return
	}
	session, ok := c.lookupSession(requestID, req.GameID)
	if !ok {
		return
	}
	c.reply(requestID, TypeGetState, Serialize(session.ID, session.Hand, session.HeroSeat))
}

func (c *connHandler) actionResult(session *Session) ActionResult {
	result := ActionResult{
		UpdatedState: Serialize(session.ID, session.Hand, session.HeroSeat),
		HandOver:     session.Hand.IsComplete(),
	}
	if result.HandOver {
		for _, seats := range session.Hand.GetWinners() {
			result.Winners = append(result.Winners, seats...)
		}
	}
	return result
}

// parseBoundaryAction maps the wire action alphabet {fold, check, call,
// raise} onto the engine's Action enum.
func parseBoundaryAction(s string) (game.Action, bool) {
	switch s {
	case "fold":
		return game.Fold, true
	case "check":
		return game.Check, true
	case "call":
		return game.Call, true
	case "raise":
		return game.Raise, true
	default:
		return 0, false
	}
}
