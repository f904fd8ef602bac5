package digest

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jlrickert/cli-toolkit/mylog"
)

// Mode selects how chunks move from the reader to the hasher.
type Mode int

const (
	// Sequential reads and hashes on the calling goroutine.
	Sequential Mode = iota
	// Pipelined reads on one goroutine and hashes on another, connected by
	// a bounded channel.
	Pipelined
)

// DefaultQueueDepth is the channel capacity used by Pipelined when Options
// does not set one.
const DefaultQueueDepth = 4

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Pipelined:
		return "pipelined"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves "sequential" or "pipelined" (case-insensitive). An
// empty string yields Sequential.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return Sequential, nil
	case "pipelined", "pipeline":
		return Pipelined, nil
	}
	return Sequential, fmt.Errorf("unknown mode %q", s)
}

// Options tunes a computation. The zero value is a sequential run with a
// page-sized buffer.
type Options struct {
	Mode Mode

	// BufferSize overrides the read buffer size. Zero uses the host memory
	// page size, queried on every call.
	BufferSize int

	// QueueDepth is the number of chunks the pipelined reader may run ahead
	// of the hasher. Zero uses DefaultQueueDepth.
	QueueDepth int
}

func (o Options) bufferSize() int {
	if o.BufferSize > 0 {
		return o.BufferSize
	}
	return os.Getpagesize()
}

func (o Options) queueDepth() int {
	if o.QueueDepth > 0 {
		return o.QueueDepth
	}
	return DefaultQueueDepth
}

// Digest is the outcome of a successful computation.
type Digest struct {
	Algorithm Algorithm
	// Hex is the lowercase hexadecimal digest without prefix or separators.
	Hex string
	// Bytes is the number of input bytes hashed.
	Bytes int64
}

// String renders the display form "<Name>: <hex>".
func (d Digest) String() string {
	return fmt.Sprintf("%s: %s", d.Algorithm, d.Hex)
}

var errIsDirectory = errors.New("is a directory")

// ComputeFile opens path and computes its digest. Any failure to open the
// path, including the path naming a directory, is reported as an
// *OpenError carrying the underlying cause.
func ComputeFile(ctx context.Context, path string, alg Algorithm, opts Options) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, &OpenError{Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	if info, err := f.Stat(); err != nil {
		return Digest{}, &OpenError{Path: path, Err: err}
	} else if info.IsDir() {
		return Digest{}, &OpenError{
			Path: path,
			Err:  &fs.PathError{Op: "open", Path: path, Err: errIsDirectory},
		}
	}
	return Compute(ctx, f, alg, opts)
}

// Compute streams r through fresh hasher state for alg and returns the hex
// digest. Read failures are reported as *ReadError. If ctx ends before the
// stream is exhausted the returned error matches ErrCancelled and nothing
// is finalized.
//
// Compute never retries. In Pipelined mode it does not return until the
// reading goroutine has stopped using r.
func Compute(ctx context.Context, r io.Reader, alg Algorithm, opts Options) (Digest, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !alg.Valid() {
		return Digest{}, NewUnknownAlgorithmError(alg.String())
	}
	lg := mylog.LoggerFromContext(ctx)

	cr := newChunkReader(r, opts.bufferSize())
	var (
		sum Digest
		err error
	)
	switch opts.Mode {
	case Pipelined:
		sum, err = computePipelined(ctx, cr, alg, opts.queueDepth())
	default:
		sum, err = computeSequential(ctx, cr, alg)
	}
	if err != nil {
		lg.Debug("digest aborted",
			"algorithm", alg.Name(),
			"mode", opts.Mode.String(),
			"err", err)
		return Digest{}, err
	}

	lg.Debug("digest computed",
		"algorithm", alg.Name(),
		"mode", opts.Mode.String(),
		"size", humanize.Bytes(uint64(sum.Bytes)))
	return sum, nil
}

func computeSequential(ctx context.Context, cr *chunkReader, alg Algorithm) (Digest, error) {
	pending := 0
	return digestChunks(ctx, alg, func() ([]byte, error) {
		cr.consume(pending)
		chunk, err := cr.fill()
		pending = len(chunk)
		return chunk, err
	})
}

// digestChunks feeds every chunk returned by next into fresh hasher state
// until next returns io.EOF. Any other error from next aborts without
// finalizing.
func digestChunks(ctx context.Context, alg Algorithm, next func() ([]byte, error)) (Digest, error) {
	h := alg.New()
	var n int64
	for {
		if ctx.Err() != nil {
			return Digest{}, cancelled(context.Cause(ctx))
		}
		chunk, err := next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Digest{}, err
		}
		// hash.Hash.Write never returns an error.
		_, _ = h.Write(chunk)
		n += int64(len(chunk))
	}
	return Digest{
		Algorithm: alg,
		Hex:       hex.EncodeToString(h.Sum(nil)),
		Bytes:     n,
	}, nil
}

// chunkReader exposes the fill/consume view of a bufio.Reader: fill returns
// whatever is buffered (reading once if the buffer is empty) and consume
// drops bytes the caller is done with.
type chunkReader struct {
	br *bufio.Reader
}

func newChunkReader(r io.Reader, size int) *chunkReader {
	return &chunkReader{br: bufio.NewReaderSize(r, size)}
}

// fill returns the next chunk. The slice is only valid until the following
// consume. End of stream is reported as io.EOF, anything else as *ReadError.
func (c *chunkReader) fill() ([]byte, error) {
	if c.br.Buffered() == 0 {
		if _, err := c.br.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, &ReadError{Err: err}
		}
	}
	return c.br.Peek(c.br.Buffered())
}

func (c *chunkReader) consume(n int) {
	if n > 0 {
		_, _ = c.br.Discard(n)
	}
}
