package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/haikuchat/internal/identity"
)

const (
	eventBuffer    = 64
	outboundBuffer = 16
)

// EventKind says what changed in a session.
type EventKind int

const (
	// EventState reports a connection state transition.
	EventState EventKind = iota
	// EventHistory reports that history replaced the timeline.
	EventHistory
	// EventMessage reports a message appended to the timeline.
	EventMessage
)

// Event is a session change notification.
type Event struct {
	Kind    EventKind
	State   State   // EventState
	Message Message // EventMessage
	Count   int     // EventHistory: number of messages loaded
}

// Session is one open chat room for one identity. It owns the socket, the receive
// loop and the message Store; none of them outlive Disconnect.
type Session struct {
	roomID   string
	identity identity.Identity
	store    *Store
	log      zerolog.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state State
	conn  *websocket.Conn

	// Store writes run one at a time on the apply loop.
	updates   chan func(*Store)
	stop      chan struct{}
	stopOnce  sync.Once
	applyDone chan struct{}

	outbound chan []byte
	wg       sync.WaitGroup
	done     chan struct{}

	evMu     sync.Mutex
	events   chan Event
	evClosed bool
}

func newSession(parent context.Context, roomID string, id identity.Identity, logger *zerolog.Logger, now func() time.Time) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		roomID:    roomID,
		identity:  id,
		store:     NewStore(),
		log:       logger.With().Str("room_id", roomID).Str("user_id", id.SenderID()).Logger(),
		now:       now,
		ctx:       ctx,
		cancel:    cancel,
		updates:   make(chan func(*Store)),
		stop:      make(chan struct{}),
		applyDone: make(chan struct{}),
		outbound:  make(chan []byte, outboundBuffer),
		done:      make(chan struct{}),
		events:    make(chan Event, eventBuffer),
	}
	go s.applyLoop()
	return s
}

// RoomID returns the room this session is bound to.
func (s *Session) RoomID() string { return s.roomID }

// Identity returns the identity the session sends as.
func (s *Session) Identity() identity.Identity { return s.identity }

// Store returns the session's message timeline.
func (s *Session) Store() *Store { return s.store }

// Events returns the change notifications of the session. The channel is closed
// by Disconnect. Events are dropped when the buffer is full; the Store and State
// stay authoritative.
func (s *Session) Events() <-chan Event { return s.events }

// Done is closed once the session reaches StateClosed.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Send hands text to the socket and appends it to the Store without waiting for
// the server. A failed socket write is logged and the local copy stays.
func (s *Session) Send(text string) error {
	text = strings.TrimSpace(text)
	state := s.State()

	if text == "" {
		return &SendError{State: state, Err: ErrEmptyText}
	}
	if state.Kind != StateOpen {
		return &SendError{State: state, Err: ErrSessionClosed}
	}

	msg := Message{
		Action:    ActionSend,
		RoomID:    s.roomID,
		Text:      text,
		UserID:    s.identity.SenderID(),
		Username:  s.identity.Username,
		Timestamp: NewTimestamp(s.now()),
	}
	data, err := EncodeMessage(msg)
	if err != nil {
		return &SendError{State: state, Err: err}
	}

	select {
	case s.outbound <- data:
	case <-s.ctx.Done():
		return &SendError{State: s.State(), Err: ErrSessionClosed}
	}

	appended := s.apply(func(st *Store) {
		st.Append(msg)
		s.emit(Event{Kind: EventMessage, Message: msg})
	})
	if !appended {
		return &SendError{State: s.State(), Err: ErrSessionClosed}
	}
	return nil
}

// Disconnect closes the socket with "going away" and waits for the receive loop
// to finish. No message reaches the Store after it returns. Calling it again, or on
// a session that never opened, does nothing.
func (s *Session) Disconnect() {
	s.mu.Lock()
	active := s.state.Kind == StateConnecting || s.state.Kind == StateOpen
	if active {
		s.setStateLocked(State{Kind: StateClosing})
	} else if s.state.Kind == StateIdle {
		s.setStateLocked(State{Kind: StateClosed, Reason: ReasonDisconnected})
	}
	conn := s.conn
	s.mu.Unlock()

	if active && conn != nil {
		if err := conn.Close(websocket.StatusGoingAway, "going away"); err != nil {
			s.log.Debug().Err(err).Msg("close socket")
		}
	}
	s.shutdown()
	s.wg.Wait()
	<-s.applyDone

	s.mu.Lock()
	if s.state.Kind == StateClosing {
		s.setStateLocked(State{Kind: StateClosed, Reason: ReasonDisconnected})
	}
	s.mu.Unlock()

	s.closeEvents()
}

func (s *Session) setStateLocked(next State) bool {
	if !canTransition(s.state.Kind, next.Kind) {
		return false
	}
	s.state = next
	s.log.Debug().Stringer("state", next).Msg("session state changed")
	s.emit(Event{Kind: EventState, State: next})
	if next.Kind == StateClosed {
		close(s.done)
	}
	return true
}

func (s *Session) emit(ev Event) {
	s.evMu.Lock()
	defer s.evMu.Unlock()
	if s.evClosed {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.log.Debug().Int("kind", int(ev.Kind)).Msg("event dropped for slow consumer")
	}
}

func (s *Session) closeEvents() {
	s.evMu.Lock()
	defer s.evMu.Unlock()
	if !s.evClosed {
		s.evClosed = true
		close(s.events)
	}
}

// apply runs a Store write on the apply loop. It returns false, without running
// fn, once the session stopped.
func (s *Session) apply(fn func(*Store)) bool {
	select {
	case s.updates <- fn:
		return true
	case <-s.stop:
		return false
	}
}

func (s *Session) applyLoop() {
	defer close(s.applyDone)
	for {
		select {
		case <-s.stop:
			return
		case fn := <-s.updates:
			fn(s.store)
		}
	}
}

func (s *Session) shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.cancel()
}

// fail moves an active session to Closed after a transport error. During
// Disconnect the error is expected and ignored.
func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.state.Kind == StateClosing || s.state.Kind == StateClosed {
		s.mu.Unlock()
		return
	}
	conn := s.conn
	s.setStateLocked(State{Kind: StateClosed, Reason: closeReason(err)})
	s.mu.Unlock()

	s.log.Warn().Err(err).Msg("session transport failed")
	s.shutdown()
	if conn != nil {
		_ = conn.CloseNow()
	}
}

func closeReason(err error) string {
	if status := websocket.CloseStatus(err); status != -1 {
		return fmt.Sprintf("peer closed: %s", status)
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return err.Error()
}

func (s *Session) readLoop(conn *websocket.Conn) {
	defer s.wg.Done()
	for {
		typ, data, err := conn.Read(s.ctx)
		if err != nil {
			s.fail(fmt.Errorf("read: %w", err))
			return
		}

		if typ != websocket.MessageText {
			s.log.Debug().Int("bytes", len(data)).Msg("ignoring binary frame")
			continue
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			s.log.Warn().Err(err).Msg("dropping inbound frame")
			continue
		}
		if !s.apply(func(st *Store) {
			st.Append(msg)
			s.emit(Event{Kind: EventMessage, Message: msg})
		}) {
			return
		}
	}
}

func (s *Session) writeLoop(conn *websocket.Conn) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case data := <-s.outbound:
			if err := conn.Write(s.ctx, websocket.MessageText, data); err != nil {
				s.log.Warn().Err(err).Msg("send failed, keeping local copy")
			}
		}
	}
}
