package indihash

import (
	"context"
	"errors"
	"strings"

	"github.com/jlrickert/cli-toolkit/mylog"
	"github.com/jlrickert/indihash/pkg/digest"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPServerOptions configures NewMCPServer.
type MCPServerOptions struct {
	Version string
	// Config supplies the default algorithm and engine options.
	Config *Config
}

// AlgorithmInfo describes one selectable algorithm.
type AlgorithmInfo struct {
	Index int    `json:"index" jsonschema:"selection index; 0 is reserved for none"`
	Name  string `json:"name" jsonschema:"canonical display name"`
	Size  int    `json:"size" jsonschema:"digest length in bytes"`
}

// ListAlgorithmsOutput is the structured result of list_algorithms.
type ListAlgorithmsOutput struct {
	Algorithms []AlgorithmInfo `json:"algorithms"`
}

// ComputeDigestInput is the argument object of compute_digest.
type ComputeDigestInput struct {
	Path      string `json:"path" jsonschema:"path of the file to hash"`
	Algorithm string `json:"algorithm,omitempty" jsonschema:"algorithm name such as SHA256; defaults to the configured algorithm"`
	Pipelined bool   `json:"pipelined,omitempty" jsonschema:"overlap reading and hashing on separate goroutines"`
}

// ComputeDigestOutput is the structured result of compute_digest.
type ComputeDigestOutput struct {
	Algorithm string `json:"algorithm"`
	Hex       string `json:"hex"`
	Bytes     int64  `json:"bytes"`
	Display   string `json:"display"`
}

// Algorithms lists every supported algorithm with its selection index.
func Algorithms() []AlgorithmInfo {
	out := make([]AlgorithmInfo, 0, len(digest.All()))
	for _, alg := range digest.All() {
		out = append(out, AlgorithmInfo{Index: alg.Index(), Name: alg.Name(), Size: alg.Size()})
	}
	return out
}

// NewMCPServer returns an MCP server exposing the digest engine as tools.
// Failures are reported as tool errors carrying the same messages the CLI
// prints.
func NewMCPServer(opts MCPServerOptions) *mcp.Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	server := mcp.NewServer(&mcp.Implementation{Name: ConfigAppName, Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_algorithms",
		Description: "List the supported digest algorithms in display order.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ListAlgorithmsOutput, error) {
		return nil, ListAlgorithmsOutput{Algorithms: Algorithms()}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compute_digest",
		Description: "Compute the lowercase hex digest of a file.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ComputeDigestInput) (*mcp.CallToolResult, ComputeDigestOutput, error) {
		lg := mylog.LoggerFromContext(ctx)

		alg := cfg.DefaultAlgorithm()
		if strings.TrimSpace(in.Algorithm) != "" {
			parsed, err := digest.Parse(in.Algorithm)
			if err != nil {
				return nil, ComputeDigestOutput{}, err
			}
			alg = parsed
		}

		dopts := cfg.DigestOptions()
		if in.Pipelined {
			dopts.Mode = digest.Pipelined
		}

		res := Calculate(ctx, NewRequest(in.Path, alg), dopts)
		if res.Err != nil {
			lg.Debug("compute_digest failed", "path", in.Path, "err", res.Err)
			return nil, ComputeDigestOutput{}, errors.New(res.Message())
		}
		return nil, ComputeDigestOutput{
			Algorithm: res.Digest.Algorithm.Name(),
			Hex:       res.Digest.Hex,
			Bytes:     res.Digest.Bytes,
			Display:   res.Message(),
		}, nil
	})

	return server
}

// ServeMCP runs the MCP server over stdio until ctx ends or the client
// disconnects.
func ServeMCP(ctx context.Context, opts MCPServerOptions) error {
	return NewMCPServer(opts).Run(ctx, &mcp.StdioTransport{})
}
