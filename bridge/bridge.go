// Package bridge is the call surface for embedding hosts. Sessions are
// addressed by opaque handles owned by the host, and every view crosses the
// boundary as a JSON Buffer that the host must release exactly once.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gherrick0918/SoloDnDApp/engine/session"
)

var (
	// ErrUnknownHandle is returned for a handle that was never issued or
	// has been closed.
	ErrUnknownHandle = errors.New("unknown session handle")
	// ErrDoubleRelease is returned when a buffer is released twice.
	ErrDoubleRelease = errors.New("buffer already released")
	// ErrUnknownBuffer is returned for a nil buffer or one this bridge did
	// not issue.
	ErrUnknownBuffer = errors.New("unknown buffer")
)

// Handle identifies one session.
type Handle string

// Buffer carries bytes returned to the host. It stays valid until Release.
type Buffer struct {
	id       uint64
	data     []byte
	released bool
}

// Bytes returns the buffer contents, or nil once released.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// String returns the buffer contents as a string.
func (b *Buffer) String() string {
	return string(b.data)
}

// Bridge multiplexes sessions and tracks outstanding buffers. It is safe
// for concurrent use; calls on different handles do not contend beyond the
// handle lookup.
type Bridge struct {
	mu       sync.Mutex
	sessions map[Handle]*session.Session
	buffers  map[uint64]*Buffer
	nextBuf  uint64
	logger   *zap.Logger
}

// New creates a bridge. A nil logger discards output.
func New(logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		sessions: map[Handle]*session.Session{},
		buffers:  map[uint64]*Buffer{},
		logger:   logger.Named("bridge"),
	}
}

// Init starts a session from campaign and character JSON and returns its
// handle.
func (b *Bridge) Init(campaignJSON, characterJSON []byte, seed uint64) (Handle, error) {
	h := Handle(uuid.NewString())
	s := session.New(b.logger.With(zap.String("handle", string(h))))
	if err := s.Init(campaignJSON, characterJSON, seed); err != nil {
		return "", err
	}

	b.mu.Lock()
	b.sessions[h] = s
	b.mu.Unlock()
	return h, nil
}

// CurrentView returns the JSON view of the session's current node.
func (b *Bridge) CurrentView(h Handle) (*Buffer, error) {
	s, err := b.session(h)
	if err != nil {
		return nil, err
	}
	v, err := s.View()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode view: %w", err)
	}
	return b.issue(data), nil
}

// Choose applies one choice to the session.
func (b *Bridge) Choose(h Handle, choiceID string) error {
	s, err := b.session(h)
	if err != nil {
		return err
	}
	return s.Choose(choiceID)
}

// Close ends a session. Its handle becomes unknown and the session drops
// its engine, so a caller still holding it sees ErrNotInitialized.
func (b *Bridge) Close(h Handle) error {
	b.mu.Lock()
	s, ok := b.sessions[h]
	delete(b.sessions, h)
	b.mu.Unlock()
	if !ok {
		return ErrUnknownHandle
	}
	s.Reset()
	return nil
}

// Release returns a buffer to the bridge. Each buffer must be released
// exactly once.
func (b *Bridge) Release(buf *Buffer) error {
	if buf == nil {
		return ErrUnknownBuffer
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if buf.released {
		b.logger.Warn("buffer released twice", zap.Uint64("buffer", buf.id))
		return ErrDoubleRelease
	}
	if b.buffers[buf.id] != buf {
		return ErrUnknownBuffer
	}
	delete(b.buffers, buf.id)
	buf.released = true
	buf.data = nil
	return nil
}

// Outstanding counts issued buffers not yet released.
func (b *Bridge) Outstanding() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffers)
}

// Sessions counts open sessions.
func (b *Bridge) Sessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sessions)
}

func (b *Bridge) session(h Handle) (*session.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return s, nil
}

func (b *Bridge) issue(data []byte) *Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextBuf++
	buf := &Buffer{id: b.nextBuf, data: data}
	b.buffers[buf.id] = buf
	return buf
}
