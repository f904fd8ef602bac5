package digest_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/iotest"
	"time"

	"github.com/jlrickert/cli-toolkit/mylog"
	"github.com/jlrickert/indihash/pkg/digest"
	tlog "github.com/jlrickert/indihash/pkg/log"
	"github.com/stretchr/testify/require"
)

var modes = []digest.Mode{digest.Sequential, digest.Pipelined}

type vector struct {
	empty string
	abc   string
}

var knownVectors = map[digest.Algorithm]vector{
	digest.SHA512_256: {
		empty: "c672b8d1ef56ed28ab87c3622c5114069bdd3ad7b8f9737498d0c01ecef0967a",
		abc:   "53048e2681941ef99b2e29b76b4c7dabe4c2d0c634fc6d46e0e2f13107e7af23",
	},
	digest.SHA512: {
		empty: "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
		abc:   "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
	},
	digest.SHA384: {
		empty: "38b060a751ac96384cd9327eb1b1e36a21fdb71114be07434c0cc7bf63f6e1da274edebfe76f65fbd51ad2f14898b95b",
		abc:   "cb00753f45a35e8bb5a03d699ac65007272c32ab0eded1631a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7",
	},
	digest.SHA256: {
		empty: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		abc:   "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
	},
	digest.SHA1: {
		empty: "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		abc:   "a9993e364706816aba3e25717850c26c9cd0d89d",
	},
	digest.MD5: {
		empty: "d41d8cd98f00b204e9800998ecf8427e",
		abc:   "900150983cd24fb0d6963f7d28e17f72",
	},
}

// sample returns n bytes of deterministic, non-repeating-looking data.
func sample(n int) []byte {
	out := make([]byte, n)
	var x uint32 = 2463534242
	for i := range out {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		out[i] = byte(x)
	}
	return out
}

func referenceHex(alg digest.Algorithm, data []byte) string {
	h := alg.New()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func TestCompute_KnownVectors(t *testing.T) {
	ctx := context.Background()
	for _, mode := range modes {
		for alg, want := range knownVectors {
			t.Run(mode.String()+"/"+alg.Name(), func(t *testing.T) {
				got, err := digest.Compute(ctx, strings.NewReader(""), alg, digest.Options{Mode: mode})
				require.NoError(t, err)
				require.Equal(t, want.empty, got.Hex)
				require.Equal(t, int64(0), got.Bytes)
				require.Equal(t, alg, got.Algorithm)

				got, err = digest.Compute(ctx, strings.NewReader("abc"), alg, digest.Options{Mode: mode})
				require.NoError(t, err)
				require.Equal(t, want.abc, got.Hex)
				require.Equal(t, int64(3), got.Bytes)
			})
		}
	}
}

func TestCompute_VectorsCoverRegistry(t *testing.T) {
	require.Len(t, knownVectors, len(digest.All()))
}

func TestDigest_String(t *testing.T) {
	d, err := digest.Compute(context.Background(), strings.NewReader(""), digest.MD5, digest.Options{})
	require.NoError(t, err)
	require.Equal(t, "MD5: d41d8cd98f00b204e9800998ecf8427e", d.String())
}

func TestCompute_ChunkingInvariance(t *testing.T) {
	data := sample(100_003)
	readers := map[string]func() io.Reader{
		"plain":    func() io.Reader { return bytes.NewReader(data) },
		"one-byte": func() io.Reader { return iotest.OneByteReader(bytes.NewReader(data)) },
		"half":     func() io.Reader { return iotest.HalfReader(bytes.NewReader(data)) },
		"data-err": func() io.Reader { return iotest.DataErrReader(bytes.NewReader(data)) },
	}
	sizes := []int{0, 16, 17, 512, 4096, 65536}

	for _, alg := range digest.All() {
		want := referenceHex(alg, data)
		for name, mk := range readers {
			for _, size := range sizes {
				for _, mode := range modes {
					opts := digest.Options{Mode: mode, BufferSize: size, QueueDepth: 2}
					got, err := digest.Compute(context.Background(), mk(), alg, opts)
					require.NoError(t, err, "%s %s size=%d %s", alg, name, size, mode)
					require.Equal(t, want, got.Hex, "%s %s size=%d %s", alg, name, size, mode)
					require.Equal(t, int64(len(data)), got.Bytes)
				}
			}
		}
	}
}

func TestCompute_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.bin")
	require.NoError(t, os.WriteFile(path, sample(20_000), 0o644))

	for _, mode := range modes {
		first, err := digest.ComputeFile(context.Background(), path, digest.SHA384, digest.Options{Mode: mode})
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := digest.ComputeFile(context.Background(), path, digest.SHA384, digest.Options{Mode: mode})
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
	}
}

func TestCompute_SequentialMatchesPipelined(t *testing.T) {
	for _, n := range []int{0, 1, 4095, 4096, 4097, 1 << 20} {
		data := sample(n)
		for _, alg := range digest.All() {
			seq, err := digest.Compute(context.Background(), bytes.NewReader(data), alg, digest.Options{Mode: digest.Sequential})
			require.NoError(t, err)
			pip, err := digest.Compute(context.Background(), bytes.NewReader(data), alg, digest.Options{Mode: digest.Pipelined, QueueDepth: 1})
			require.NoError(t, err)
			require.Equal(t, seq, pip, "n=%d alg=%s", n, alg)
		}
	}
}

func TestComputeFile_OpenFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	for _, mode := range modes {
		got, err := digest.ComputeFile(context.Background(), missing, digest.SHA256, digest.Options{Mode: mode})
		require.Error(t, err)
		require.Empty(t, got.Hex)
		require.True(t, digest.IsOpenFailure(err))
		require.False(t, digest.IsReadFailure(err))
		require.ErrorIs(t, err, fs.ErrNotExist)

		var openErr *digest.OpenError
		require.ErrorAs(t, err, &openErr)
		require.Equal(t, missing, openErr.Path)
	}
}

func TestComputeFile_Directory(t *testing.T) {
	dir := t.TempDir()
	_, err := digest.ComputeFile(context.Background(), dir, digest.MD5, digest.Options{})
	require.Error(t, err)
	require.True(t, digest.IsOpenFailure(err))
	require.Contains(t, err.Error(), "is a directory")
}

func TestCompute_ReadFailure(t *testing.T) {
	boom := errors.New("device unplugged")
	readers := map[string]func() io.Reader{
		"immediate": func() io.Reader { return iotest.ErrReader(boom) },
		"mid-stream": func() io.Reader {
			return io.MultiReader(bytes.NewReader(sample(10_000)), iotest.ErrReader(boom))
		},
		"with-data": func() io.Reader {
			return io.MultiReader(iotest.OneByteReader(strings.NewReader("abc")), iotest.ErrReader(boom))
		},
	}
	for name, mk := range readers {
		for _, mode := range modes {
			t.Run(name+"/"+mode.String(), func(t *testing.T) {
				got, err := digest.Compute(context.Background(), mk(), digest.SHA1, digest.Options{Mode: mode, BufferSize: 64})
				require.Error(t, err)
				require.Equal(t, digest.Digest{}, got, "no partial digest")
				require.True(t, digest.IsReadFailure(err))
				require.False(t, digest.IsOpenFailure(err))
				require.ErrorIs(t, err, boom)

				var readErr *digest.ReadError
				require.ErrorAs(t, err, &readErr)
			})
		}
	}
}

func TestCompute_NoProgressIsReadFailure(t *testing.T) {
	_, err := digest.Compute(context.Background(), stuckReader{}, digest.MD5, digest.Options{})
	require.ErrorIs(t, err, digest.ErrRead)
	require.ErrorIs(t, err, io.ErrNoProgress)
}

type stuckReader struct{}

func (stuckReader) Read([]byte) (int, error) { return 0, nil }

// cancellingReader yields data forever and cancels its context after a
// fixed number of reads.
type cancellingReader struct {
	after  int32
	reads  atomic.Int32
	cancel context.CancelFunc
}

func (r *cancellingReader) Read(p []byte) (int, error) {
	if r.reads.Add(1) == r.after {
		r.cancel()
	}
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

func TestCompute_CancelledMidStream(t *testing.T) {
	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			r := &cancellingReader{after: 5, cancel: cancel}

			got, err := digest.Compute(ctx, r, digest.SHA512, digest.Options{Mode: mode, BufferSize: 32})
			require.Error(t, err)
			require.True(t, digest.IsCancelled(err))
			require.ErrorIs(t, err, context.Canceled)
			require.False(t, digest.IsReadFailure(err))
			require.Equal(t, digest.Digest{}, got)
		})
	}
}

// trackingReader cancels ctx on its after-th read and counts reads that
// happen once returned is set.
type trackingReader struct {
	after     int32
	reads     atomic.Int32
	cancel    context.CancelFunc
	returned  atomic.Bool
	lateReads atomic.Int32
}

func (r *trackingReader) Read(p []byte) (int, error) {
	if r.returned.Load() {
		r.lateReads.Add(1)
	}
	if r.reads.Add(1) == r.after {
		r.cancel()
	}
	// give the hasher time to observe the cancellation while a read is in
	// flight
	time.Sleep(50 * time.Microsecond)
	for i := range p {
		p[i] = 'y'
	}
	return len(p), nil
}

func TestCompute_PipelinedStopsReadingBeforeReturn(t *testing.T) {
	for i := range 100 {
		ctx, cancel := context.WithCancel(context.Background())
		r := &trackingReader{after: int32(2 + i%7), cancel: cancel}

		_, err := digest.Compute(ctx, r, digest.SHA256, digest.Options{
			Mode:       digest.Pipelined,
			BufferSize: 32,
			QueueDepth: 1,
		})
		r.returned.Store(true)
		require.ErrorIs(t, err, digest.ErrCancelled)

		time.Sleep(time.Millisecond)
		require.Zero(t, r.lateReads.Load(), "run %d: reader used after Compute returned", i)
		cancel()
	}
}

func TestCompute_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, mode := range modes {
		_, err := digest.Compute(ctx, strings.NewReader("abc"), digest.MD5, digest.Options{Mode: mode})
		require.ErrorIs(t, err, digest.ErrCancelled)
	}
}

func TestCompute_InvalidAlgorithm(t *testing.T) {
	_, err := digest.Compute(context.Background(), strings.NewReader(""), digest.Algorithm(0), digest.Options{})
	require.ErrorIs(t, err, digest.ErrUnknownAlgorithm)
}

func TestCompute_ConcurrentCallsAreIndependent(t *testing.T) {
	data := sample(50_000)
	want := referenceHex(digest.SHA256, data)

	errs := make(chan error, 16)
	results := make(chan string, 16)
	for i := 0; i < 16; i++ {
		mode := modes[i%2]
		go func() {
			d, err := digest.Compute(context.Background(), bytes.NewReader(data), digest.SHA256, digest.Options{Mode: mode})
			errs <- err
			results <- d.Hex
		}()
	}
	for i := 0; i < 16; i++ {
		require.NoError(t, <-errs)
		require.Equal(t, want, <-results)
	}
}

func TestCompute_LogsThroughContext(t *testing.T) {
	lg, th := tlog.NewTestLogger(t, slog.LevelDebug)
	ctx := mylog.WithLogger(context.Background(), lg)

	_, err := digest.Compute(ctx, strings.NewReader("abc"), digest.SHA256, digest.Options{Mode: digest.Pipelined})
	require.NoError(t, err)

	entries := tlog.FindEntries(th, tlog.HasMessage("digest computed"))
	require.Len(t, entries, 1)
	require.Equal(t, "SHA256", entries[0].Attrs["algorithm"])
	require.Equal(t, "pipelined", entries[0].Attrs["mode"])
	require.Equal(t, "3 B", entries[0].Attrs["size"])
}

func TestParseMode(t *testing.T) {
	m, err := digest.ParseMode("")
	require.NoError(t, err)
	require.Equal(t, digest.Sequential, m)

	m, err = digest.ParseMode("Pipelined")
	require.NoError(t, err)
	require.Equal(t, digest.Pipelined, m)

	_, err = digest.ParseMode("parallel")
	require.Error(t, err)
}
