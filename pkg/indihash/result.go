package indihash

import (
	"context"
	"errors"
	"fmt"

	"github.com/jlrickert/cli-toolkit/mylog"
	"github.com/jlrickert/indihash/pkg/digest"
)

// Request is the caller-side state that drives a computation: a file path
// and a selection index where 0 means no algorithm.
type Request struct {
	Path      string
	Selection int
}

// NewRequest builds a Request selecting alg. The zero Algorithm selects
// nothing.
func NewRequest(path string, alg digest.Algorithm) Request {
	return Request{Path: path, Selection: alg.Index()}
}

// Algorithm resolves the selection index. The boolean is false when nothing
// (or an out-of-range index) is selected.
func (r Request) Algorithm() (digest.Algorithm, bool) {
	return digest.FromIndex(r.Selection)
}

// Result is the rendered outcome of one Request.
type Result struct {
	Request Request
	Digest  digest.Digest
	Err     error
}

// OK reports whether the computation produced a digest.
func (r Result) OK() bool { return r.Err == nil }

// Cancelled reports whether the computation was superseded before it
// finished. Cancelled results are never displayed.
func (r Result) Cancelled() bool { return digest.IsCancelled(r.Err) }

// Message returns the text shown in place of the digest: the display form
// "<Name>: <hex>" on success, otherwise a plain error message.
func (r Result) Message() string {
	if r.Err == nil {
		return r.Digest.String()
	}
	return ErrorMessage(r.Err)
}

// ErrorMessage renders err as the user-facing status line.
func ErrorMessage(err error) string {
	var (
		openErr *digest.OpenError
		readErr *digest.ReadError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoAlgorithmSelected):
		return MsgNoAlgorithmSelected
	case errors.As(err, &openErr):
		return fmt.Sprintf("%s: %v", MsgCannotOpen, openErr.Err)
	case errors.As(err, &readErr):
		return fmt.Sprintf("%s: %v", MsgCannotRead, readErr.Err)
	}
	return err.Error()
}

// Calculate runs one request to completion on the calling goroutine. A
// missing selection is reported before the file is touched.
func Calculate(ctx context.Context, req Request, opts digest.Options) Result {
	lg := mylog.LoggerFromContext(ctx)
	alg, ok := req.Algorithm()
	if !ok {
		lg.Debug("calculate skipped", "path", req.Path, "selection", req.Selection)
		return Result{Request: req, Err: ErrNoAlgorithmSelected}
	}

	d, err := digest.ComputeFile(ctx, req.Path, alg, opts)
	if err != nil {
		if !digest.IsCancelled(err) {
			lg.Info("calculate failed", "path", req.Path, "algorithm", alg.Name(), "err", err)
		}
		return Result{Request: req, Err: err}
	}
	return Result{Request: req, Digest: d}
}
