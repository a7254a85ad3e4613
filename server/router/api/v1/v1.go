// Package v1 implements the storefront assistant HTTP API.
package v1

import (
	"context"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/voicecart/voicecart/internal/profile"
	"github.com/voicecart/voicecart/plugin/assistant"
	"github.com/voicecart/voicecart/plugin/markdown"
	"github.com/voicecart/voicecart/plugin/speech"
	"github.com/voicecart/voicecart/store"
)

// Synthesizer is the speech surface the API serves audio from.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type APIV1Service struct {
	Profile         *profile.Profile
	Store           *store.Store
	MarkdownService *markdown.Service

	synthesizer Synthesizer
	speaker     assistant.Speaker

	mu       sync.Mutex
	sessions map[string]*assistant.Session
}

// NewAPIV1Service creates the API service. Speech synthesis is attached
// only when the profile enables it.
func NewAPIV1Service(profile *profile.Profile, st *store.Store) *APIV1Service {
	service := &APIV1Service{
		Profile:         profile,
		Store:           st,
		MarkdownService: markdown.NewService(),
		speaker:         speech.Noop{},
		sessions:        make(map[string]*assistant.Session),
	}
	if profile.IsSpeechEnabled() {
		client := speech.NewClient(profile.OpenAIAPIKey, profile.OpenAIBaseURL, profile.SpeechModel, profile.SpeechVoice)
		service.synthesizer = client
		service.speaker = client
	}
	return service
}

// Register wires all v1 routes onto the Echo group.
func (s *APIV1Service) Register(g *echo.Group) {
	s.registerAssistantRoutes(g)
	s.registerProductRoutes(g)
	s.registerCartRoutes(g)
}

// session returns the live session for the UID, creating one on first use.
func (s *APIV1Service) session(uid string) *assistant.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[uid]; ok && !sess.Closed() {
		return sess
	}

	interpreter := assistant.NewInterpreter(
		&storeCatalog{store: s.Store},
		&storeCart{store: s.Store, sessionUID: uid},
		"",
	)
	sess := assistant.NewSession(uid, interpreter, assistant.NewDispatcher(&sessionUI{service: s, uid: uid}),
		assistant.WithRecorder(&storeRecorder{store: s.Store}),
		assistant.WithSpeaker(s.speaker),
		assistant.WithTurnTimeout(s.Profile.TurnTimeout),
	)
	s.sessions[uid] = sess
	return sess
}

// closeSession tears down and forgets a session.
func (s *APIV1Service) closeSession(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[uid]; ok {
		sess.Close()
		delete(s.sessions, uid)
	}
}

// Shutdown closes every live session.
func (s *APIV1Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uid, sess := range s.sessions {
		sess.Close()
		delete(s.sessions, uid)
	}
}

// storeCatalog adapts the store to the interpreter's catalog surface.
type storeCatalog struct {
	store *store.Store
}

func (c *storeCatalog) All(ctx context.Context) ([]*store.Product, error) {
	return c.store.AllProducts(ctx)
}

func (c *storeCatalog) Search(ctx context.Context, term string) ([]*store.Product, error) {
	return c.store.ListProducts(ctx, &store.FindProduct{Term: &term})
}

// storeCart adapts the store to the interpreter's cart surface for one
// session.
type storeCart struct {
	store      *store.Store
	sessionUID string
}

func (c *storeCart) Lines(ctx context.Context) ([]*store.CartLine, error) {
	return c.store.CartLines(ctx, c.sessionUID)
}

func (c *storeCart) Add(ctx context.Context, productID int32) error {
	_, err := c.store.UpsertCartItem(ctx, &store.UpsertCartItem{
		SessionUID: c.sessionUID,
		ProductID:  productID,
	})
	return err
}

func (c *storeCart) Remove(ctx context.Context, productID int32) error {
	return c.store.DeleteCartItem(ctx, &store.DeleteCartItem{
		SessionUID: c.sessionUID,
		ProductID:  &productID,
	})
}

func (c *storeCart) Total(ctx context.Context) (float64, error) {
	return c.store.CartTotal(ctx, c.sessionUID)
}

// storeRecorder persists turn messages.
type storeRecorder struct {
	store *store.Store
}

func (r *storeRecorder) Record(ctx context.Context, msg *store.AssistantMessage) error {
	_, err := r.store.CreateAssistantMessage(ctx, msg)
	return err
}

// sessionUI applies dispatched navigation to the session's conversation
// context, so page queries reflect where the assistant sent the user.
// Search and category changes are client-rendered and carried to the
// client in the reply's action token.
type sessionUI struct {
	service *APIV1Service
	uid     string
}

func (u *sessionUI) Navigate(path string) {
	u.service.mu.Lock()
	sess, ok := u.service.sessions[u.uid]
	u.service.mu.Unlock()
	if ok {
		sess.Conversation().SetCurrentPage(path)
	}
}

func (u *sessionUI) Search(string) {}

func (u *sessionUI) SetCategory(string) {}
