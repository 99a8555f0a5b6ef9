package chat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/haikuchat/internal/config"
	"github.com/vovakirdan/haikuchat/internal/identity"
	"github.com/vovakirdan/haikuchat/internal/log"
	"github.com/vovakirdan/haikuchat/internal/utils"
)

// Options configures a Manager.
type Options struct {
	// SocketURL is a template with {roomID} and {userID}; {username} and {token}
	// are optional.
	SocketURL string
	// History loads room history before the socket opens. Nil skips it.
	History HistoryFetcher
	// HTTPClient is used for the websocket handshake.
	HTTPClient *http.Client

	DialTimeout    time.Duration
	HistoryTimeout time.Duration
	// ReadLimit caps inbound frame size. Zero keeps the websocket default.
	ReadLimit int64
}

// Manager opens chat sessions. It keeps at most one session open: Connect
// disconnects the previous one.
type Manager struct {
	opts Options
	log  *zerolog.Logger
	now  func() time.Time

	connectMu sync.Mutex
	mu        sync.Mutex
	current   *Session
}

// NewManager creates a Manager.
func NewManager(opts Options, logger *zerolog.Logger) *Manager {
	return &Manager{
		opts: opts,
		log:  log.OrNop(logger),
		now:  time.Now,
	}
}

// NewManagerFromConfig builds a Manager with an HTTP history fetcher from cfg.
func NewManagerFromConfig(cfg config.Config, client *http.Client, logger *zerolog.Logger) *Manager {
	var history HistoryFetcher
	if cfg.HistoryURL != "" {
		history = NewHTTPHistory(cfg.HistoryURL, client, logger)
	}
	return NewManager(Options{
		SocketURL:      cfg.SocketURL,
		History:        history,
		HTTPClient:     client,
		DialTimeout:    cfg.DialTimeout,
		HistoryTimeout: cfg.HistoryTimeout,
		ReadLimit:      cfg.MaxMessageBytes,
	}, logger)
}

// Connect opens a session for roomID as id and returns it in StateConnecting.
// History is loaded completely before the socket is dialed. A socket URL that
// cannot be built leaves the session in StateClosed.
func (m *Manager) Connect(ctx context.Context, id identity.Identity, roomID string) *Session {
	m.connectMu.Lock()
	defer m.connectMu.Unlock()

	m.Disconnect()

	s := newSession(ctx, roomID, id, m.log, m.now)
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	socketURL, err := utils.ExpandURL(m.opts.SocketURL, map[string]string{
		"roomID":   roomID,
		"userID":   id.SenderID(),
		"username": id.Username,
		"token":    id.Token,
	}, "roomID", "userID")
	if err == nil {
		err = checkSocketScheme(socketURL)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("cannot build socket url")
		s.mu.Lock()
		s.setStateLocked(State{Kind: StateClosed, Reason: fmt.Sprintf("invalid socket url: %v", err)})
		s.mu.Unlock()
		s.shutdown()
		return s
	}

	s.mu.Lock()
	s.setStateLocked(State{Kind: StateConnecting})
	s.mu.Unlock()

	s.wg.Add(1)
	go m.open(s, socketURL)
	return s
}

// Current returns the session opened last, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Disconnect disconnects the current session, if any.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	s := m.current
	m.current = nil
	m.mu.Unlock()

	if s != nil {
		s.Disconnect()
	}
}

func (m *Manager) open(s *Session, socketURL string) {
	defer s.wg.Done()

	history := m.loadHistory(s)
	if !s.apply(func(st *Store) {
		st.Merge(history)
		s.emit(Event{Kind: EventHistory, Count: len(history)})
	}) {
		return
	}
	if s.ctx.Err() != nil {
		return
	}

	dialCtx, cancel := withTimeout(s.ctx, m.opts.DialTimeout)
	conn, _, err := websocket.Dial(dialCtx, socketURL, &websocket.DialOptions{HTTPClient: m.opts.HTTPClient})
	cancel()
	if err != nil {
		s.fail(fmt.Errorf("dial: %w", err))
		return
	}
	if m.opts.ReadLimit > 0 {
		conn.SetReadLimit(m.opts.ReadLimit)
	}

	s.mu.Lock()
	if s.state.Kind != StateConnecting {
		s.mu.Unlock()
		_ = conn.Close(websocket.StatusGoingAway, "going away")
		return
	}
	s.conn = conn
	s.setStateLocked(State{Kind: StateOpen})
	s.wg.Add(2)
	s.mu.Unlock()

	s.log.Info().Msg("connected")
	go s.readLoop(conn)
	go s.writeLoop(conn)
}

func (m *Manager) loadHistory(s *Session) []Message {
	if m.opts.History == nil {
		return nil
	}
	ctx, cancel := withTimeout(s.ctx, m.opts.HistoryTimeout)
	defer cancel()

	messages, err := m.opts.History.FetchHistory(ctx, s.roomID)
	if err != nil {
		s.log.Warn().Err(err).Msg("history unavailable, starting empty")
		return nil
	}
	return messages
}

func checkSocketScheme(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch strings.ToLower(u.Scheme) {
	case "ws", "wss", "http", "https":
		return nil
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
