// Package session serializes access to one engine: initialize, view and
// choose each run as a single unit under the session's lock.
package session

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gherrick0918/SoloDnDApp/engine"
	"github.com/gherrick0918/SoloDnDApp/loader"
	"github.com/gherrick0918/SoloDnDApp/types"
)

// ErrNotInitialized is returned by View and Choose before Init succeeds.
var ErrNotInitialized = errors.New("session not initialized")

// Session owns at most one engine. It is safe for concurrent use; separate
// sessions share nothing.
type Session struct {
	mu     sync.Mutex
	eng    *engine.Engine
	logger *zap.Logger
}

// New creates an empty session. A nil logger discards output.
func New(logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{logger: logger}
}

// Init parses the campaign and character documents and starts a fresh
// engine, replacing any previous one. On failure the previous engine, if
// any, is kept.
func (s *Session) Init(campaignDoc, characterDoc []byte, seed uint64) error {
	campaign, err := loader.ParseCampaign(campaignDoc, loader.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("load campaign: %w", err)
	}
	character, err := loader.ParseCharacter(characterDoc)
	if err != nil {
		return fmt.Errorf("load character: %w", err)
	}
	s.Start(campaign, character, seed)
	return nil
}

// Start begins a session from an already loaded campaign and character.
func (s *Session) Start(campaign types.Campaign, character types.Character, seed uint64) {
	eng := engine.New(campaign, character, seed, engine.WithLogger(s.logger))

	s.mu.Lock()
	s.eng = eng
	s.mu.Unlock()

	s.logger.Info("session started",
		zap.String("campaign", campaign.ID),
		zap.String("character", character.Name),
		zap.Uint64("seed", seed))
}

// Initialized reports whether the session has an engine.
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng != nil
}

// View projects the current node.
func (s *Session) View() (types.NodeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return types.NodeView{}, ErrNotInitialized
	}
	return s.eng.View()
}

// Choose applies one choice.
func (s *Session) Choose(choiceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return ErrNotInitialized
	}
	return s.eng.Choose(choiceID)
}

// ChooseAndView applies one choice and projects the resulting node without
// releasing the lock in between.
func (s *Session) ChooseAndView(choiceID string) (types.NodeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return types.NodeView{}, ErrNotInitialized
	}
	if err := s.eng.Choose(choiceID); err != nil {
		return types.NodeView{}, err
	}
	return s.eng.View()
}

// Reset drops the engine; the session must be initialized again.
func (s *Session) Reset() {
	s.mu.Lock()
	s.eng = nil
	s.mu.Unlock()
}
