package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jlrickert/cli-toolkit/toolkit"
)

// Run executes the indihash command tree against the runtime's streams and
// returns the process exit code.
func Run(ctx context.Context, rt *toolkit.Runtime, args []string) (int, error) {
	if rt == nil {
		var err error
		rt, err = toolkit.NewRuntime()
		if err != nil {
			return 1, fmt.Errorf("unable to create runtime: %w", err)
		}
	}
	stream := rt.Stream()
	return RunWithIO(ctx, rt, args, stream.In, stream.Out, stream.Err)
}

// RunWithIO is Run with explicit streams. User-facing errors are rendered
// to errOut.
func RunWithIO(ctx context.Context, rt *toolkit.Runtime, args []string, in io.Reader, out, errOut io.Writer) (int, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &Deps{Runtime: rt}
	cmd := NewRootCmd(deps)
	// Shutdown is replaced once the log file is open, so resolve it late.
	defer func() { deps.Shutdown() }()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return 130, err
		}
		_, _ = fmt.Fprintln(errOut, errorStyle(errOut, deps.Runtime).Render(renderUserError(err, deps)))
		return 1, err
	}
	return 0, nil
}
