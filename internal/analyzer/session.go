package analyzer

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrStaleResult is returned to an analysis that was superseded by a newer
// one before it finished. Its result is discarded.
var ErrStaleResult = errors.New("analysis superseded by a newer request")

// Session serializes analyses for one presentation surface. Starting an
// analysis cancels the one in flight, and only the newest request may
// publish a result.
type Session struct {
	analyzer *Analyzer

	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
	latest  *Result
}

func NewSession(a *Analyzer) *Session {
	return &Session{analyzer: a}
}

// Analyze runs req as the session's current analysis.
func (s *Session) Analyze(ctx context.Context, req Request) (*Result, error) {
	req.ID = uuid.NewString()
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.current = req.ID
	s.cancel = cancel
	s.mu.Unlock()

	res, err := s.analyzer.Analyze(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != req.ID {
		// The newer request already cancelled ctx.
		return nil, ErrStaleResult
	}
	cancel()
	s.cancel = nil
	s.current = ""

	if err != nil {
		return nil, err
	}
	s.latest = res
	return res, nil
}

// Latest returns the most recently published result, or nil.
func (s *Session) Latest() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Cancel aborts the analysis in flight, if any; that analysis returns
// ErrStaleResult.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.current = ""
}
