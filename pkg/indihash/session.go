package indihash

import (
	"context"
	"sync"

	"github.com/jlrickert/indihash/pkg/digest"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	Digest digest.Options

	// Request is the initial request. Setting it does not start a
	// computation.
	Request Request

	// OnResult receives every result that is still current when its
	// computation finishes. It runs on the computing goroutine; results are
	// delivered one at a time.
	OnResult func(Result)
}

// Session holds the current Request and recomputes whenever it changes.
// Only the latest input matters: each change cancels the computation still
// running for the previous input, and a superseded result is never
// delivered.
type Session struct {
	opts SessionOptions

	mu     sync.Mutex
	req    Request
	gen    uint64
	cancel context.CancelFunc
	last   *Result

	// deliver serializes OnResult calls
	deliver sync.Mutex
	wg      sync.WaitGroup
}

func NewSession(opts SessionOptions) *Session {
	return &Session{opts: opts, req: opts.Request}
}

// Request returns the current request.
func (s *Session) Request() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.req
}

// SetPath replaces the file path and recomputes.
func (s *Session) SetPath(ctx context.Context, path string) {
	s.mu.Lock()
	s.req.Path = path
	s.mu.Unlock()
	s.trigger(ctx)
}

// Select replaces the selection index (0 = none) and recomputes.
func (s *Session) Select(ctx context.Context, index int) {
	s.mu.Lock()
	s.req.Selection = index
	s.mu.Unlock()
	s.trigger(ctx)
}

// SetRequest replaces the whole request and recomputes once.
func (s *Session) SetRequest(ctx context.Context, req Request) {
	s.mu.Lock()
	s.req = req
	s.mu.Unlock()
	s.trigger(ctx)
}

// Refresh recomputes the current request, e.g. after the file changed on
// disk.
func (s *Session) Refresh(ctx context.Context) {
	s.trigger(ctx)
}

// Last returns the most recent delivered result.
func (s *Session) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Status returns the line to display for the current state: a prompt before
// any result exists, otherwise the last result's message.
func (s *Session) Status() string {
	if res, ok := s.Last(); ok {
		return res.Message()
	}
	return MsgPrompt
}

// Wait blocks until no computation is running.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels any running computation and waits for it to stop.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Session) trigger(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	cctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.gen++
	gen := s.gen
	req := s.req
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()

		res := Calculate(cctx, req, s.opts.Digest)

		s.deliver.Lock()
		defer s.deliver.Unlock()

		s.mu.Lock()
		if gen != s.gen || res.Cancelled() {
			s.mu.Unlock()
			return
		}
		s.last = &res
		s.cancel = nil
		s.mu.Unlock()

		if s.opts.OnResult != nil {
			s.opts.OnResult(res)
		}
	}()
}
