package assistant

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"

	"github.com/voicecart/voicecart/store"
)

// DefaultTurnTimeout bounds the command-resolution step of one turn.
const DefaultTurnTimeout = 5 * time.Second

const apologyMessage = "I'm sorry, I encountered an error. Please try again."

// SessionState is the observable phase of a session's turn machine.
type SessionState string

const (
	// StateIdle means the session is torn down and accepts no turns.
	StateIdle SessionState = "idle"
	// StateListening means the session is open and waiting for a command.
	StateListening  SessionState = "listening"
	StateProcessing SessionState = "processing"
	StateResponding SessionState = "responding"
)

// Recorder persists turn messages. Record failures degrade the transcript
// but never fail a turn.
type Recorder interface {
	Record(ctx context.Context, msg *store.AssistantMessage) error
}

// Speaker voices assistant replies. Failures are swallowed; speech never
// blocks or fails a turn.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Stop()
}

// Session processes conversation turns for one user session, strictly one
// at a time. Concurrent ProcessTurn calls queue on the session mutex and
// run in arrival order.
type Session struct {
	uid          string
	interpreter  *Interpreter
	dispatcher   *Dispatcher
	conversation *ConversationContext
	recorder     Recorder
	speaker      Speaker
	timeout      time.Duration

	mu     sync.Mutex
	closed atomic.Bool

	stateMu sync.RWMutex
	state   SessionState
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRecorder attaches a transcript recorder.
func WithRecorder(r Recorder) SessionOption {
	return func(s *Session) { s.recorder = r }
}

// WithSpeaker attaches a speech output.
func WithSpeaker(sp Speaker) SessionOption {
	return func(s *Session) { s.speaker = sp }
}

// WithTurnTimeout overrides the per-turn resolution deadline.
func WithTurnTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSession creates a session around an interpreter and a dispatcher.
func NewSession(uid string, interpreter *Interpreter, dispatcher *Dispatcher, opts ...SessionOption) *Session {
	s := &Session{
		uid:          uid,
		interpreter:  interpreter,
		dispatcher:   dispatcher,
		conversation: NewConversationContext(),
		timeout:      DefaultTurnTimeout,
		state:        StateListening,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UID returns the session identifier.
func (s *Session) UID() string {
	return s.uid
}

// Conversation exposes the session's conversation context.
func (s *Session) Conversation() *ConversationContext {
	return s.conversation
}

// State returns the current turn machine phase.
func (s *Session) State() SessionState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Session) setState(state SessionState) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
}

// Close tears the session down. The in-flight turn, if any, discards its
// result without mutating context or dispatching actions.
func (s *Session) Close() {
	s.closed.Store(true)
	s.setState(StateIdle)
	if s.speaker != nil {
		s.speaker.Stop()
	}
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// ProcessTurn runs one conversation turn and returns the assistant's
// message. Domain failures never surface as errors; they produce an
// apologetic message instead. The only error conditions are empty input
// and a closed session.
func (s *Session) ProcessTurn(ctx context.Context, raw string) (*store.AssistantMessage, error) {
	command := Normalize(raw)
	if command == "" {
		return nil, EmptyInput()
	}
	if s.closed.Load() {
		return nil, SessionClosed()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return nil, SessionClosed()
	}

	turnID := uuid.NewString()
	started := time.Now()
	s.setState(StateProcessing)
	defer func() {
		if s.closed.Load() {
			s.setState(StateIdle)
		} else {
			s.setState(StateListening)
		}
	}()

	s.conversation.SetLastQuery(command)
	s.conversation.AppendHistory(store.MessageRoleUser, command)
	s.record(ctx, &store.AssistantMessage{
		UID:        shortuuid.New(),
		SessionUID: s.uid,
		Role:       store.MessageRoleUser,
		Content:    command,
	})

	reply, err := s.resolve(ctx, command)

	// Stale-turn guard: a session torn down while the resolution was in
	// flight discards the result before any context mutation or dispatch.
	if s.closed.Load() {
		return nil, SessionClosed()
	}

	if err != nil {
		slog.Error("turn resolution failed",
			"session", s.uid,
			"turn", turnID,
			"error", err)
		reply = &Reply{Message: apologyMessage}
	}

	s.setState(StateResponding)

	if reply.Remember != nil {
		s.conversation.SetLastFoundProducts(reply.Remember)
	}
	s.dispatcher.Dispatch(reply.Action)
	s.conversation.AppendHistory(store.MessageRoleAssistant, reply.Message)

	msg := &store.AssistantMessage{
		UID:        shortuuid.New(),
		SessionUID: s.uid,
		Role:       store.MessageRoleAssistant,
		Content:    reply.Message,
		ProductIDs: productIDs(reply.Products),
		Action:     reply.Action.Token(),
	}
	s.record(ctx, msg)
	s.speak(reply.Message)

	slog.Debug("turn completed",
		"session", s.uid,
		"turn", turnID,
		"action", reply.Action.Token(),
		"duration", time.Since(started))
	return msg, nil
}

// resolve runs the interpreter under the per-turn deadline. A collaborator
// that ran out the deadline surfaces as a timeout-coded error.
func (s *Session) resolve(ctx context.Context, command string) (*Reply, error) {
	resolveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	reply, err := s.interpreter.Resolve(resolveCtx, command, s.conversation)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return nil, Timeout(err)
	}
	return reply, err
}

func (s *Session) record(ctx context.Context, msg *store.AssistantMessage) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, msg); err != nil {
		slog.Warn("message record failed", "session", s.uid, "error", err)
	}
}

// speak voices the reply without blocking the turn.
func (s *Session) speak(text string) {
	if s.speaker == nil {
		return
	}
	go func() {
		if s.closed.Load() {
			return
		}
		if err := s.speaker.Speak(context.Background(), text); err != nil {
			slog.Warn("speech synthesis failed", "session", s.uid, "error", err)
		}
	}()
}

func productIDs(products []*store.Product) []int32 {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int32, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
