package digest

import (
	"bytes"
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"
)

// chunk is one message on the pipeline channel: either an owned copy of
// buffered bytes or the read failure that ended the stream.
type chunk struct {
	data []byte
	err  error
}

// computePipelined runs the reader and the hasher on separate goroutines.
// The reader owns cr, the hasher owns the hash state; the bounded channel is
// the only thing they share. A read failure travels down the channel so the
// hasher reports it exactly as the sequential path would.
func computePipelined(ctx context.Context, cr *chunkReader, alg Algorithm, depth int) (Digest, error) {
	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan chunk, depth)

	g.Go(func() error {
		produceChunks(gctx, cr, chunks)
		return nil
	})

	var sum Digest
	g.Go(func() error {
		var err error
		sum, err = digestChunks(gctx, alg, func() ([]byte, error) {
			select {
			case msg, ok := <-chunks:
				if !ok {
					return nil, io.EOF
				}
				return msg.data, msg.err
			case <-gctx.Done():
				return nil, cancelled(context.Cause(gctx))
			}
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return Digest{}, err
	}
	return sum, nil
}

// produceChunks copies every chunk from cr onto out and closes out when the
// stream ends, a read fails, or ctx ends. A send blocks while out is full,
// so cr is read at most cap(out)+1 chunks ahead of the receiver.
func produceChunks(ctx context.Context, cr *chunkReader, out chan<- chunk) {
	defer close(out)
	for {
		data, err := cr.fill()
		if errors.Is(err, io.EOF) {
			return
		}
		msg := chunk{err: err}
		if err == nil {
			// the buffer is reused by the next fill
			msg.data = bytes.Clone(data)
			cr.consume(len(data))
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}
