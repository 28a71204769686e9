// Package mcpserver exposes component extraction as an MCP tool over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tsgonest/vuemeta/internal/buildcache"
	"github.com/tsgonest/vuemeta/internal/compiler"
	"github.com/tsgonest/vuemeta/internal/extract"
	"github.com/tsgonest/vuemeta/internal/generate"
)

const (
	serverName       = "vuemeta"
	defaultCacheSize = 256
)

// Options configures the server.
type Options struct {
	// Root is used when a call does not pass one.
	Root string
	// TSConfig is resolved against the effective root of each call.
	TSConfig string
	// CacheSize bounds the number of memoized results.
	CacheSize int
	Version   string
	Logger    *slog.Logger
}

// Server implements the MCP server for vuemeta.
type Server struct {
	mcpServer *server.MCPServer
	root      string
	tsconfig  string
	logger    *slog.Logger

	// results maps path, root and content digest to the encoded result.
	results *lru.Cache[string, cachedResult]
}

// cachedResult is a memoized extraction. deps holds the digest of every other
// file the program read; a hit is only served while they are unchanged.
type cachedResult struct {
	text string
	deps map[string]string
}

func (c cachedResult) fresh() bool {
	return maps.Equal(c.deps, buildcache.HashFiles(slices.Collect(maps.Keys(c.deps))))
}

// NewServer creates a server with the extract_component tool registered.
func NewServer(opts Options) (*Server, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	results, err := lru.New[string, cachedResult](size)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	s := &Server{
		root:     root,
		tsconfig: opts.TSConfig,
		logger:   logger,
		results:  results,
	}
	s.mcpServer = server.NewMCPServer(
		serverName,
		opts.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(s.loggingMiddleware()),
	)
	s.mcpServer.AddTool(extractComponentTool(), s.handleExtractComponent)
	return s, nil
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func extractComponentTool() mcp.Tool {
	return mcp.NewTool("extract_component",
		mcp.WithDescription("Extract the name, props and emits of a Vue component (.vue or .ts) as JSON."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Component file, absolute or relative to root"),
		),
		mcp.WithString("root",
			mcp.Description("Project root used to resolve path, tsconfig and declaration files"),
		),
	)
}

func (s *Server) handleExtractComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root := req.GetString("root", s.root)
	if !filepath.IsAbs(root) {
		root = filepath.Join(s.root, root)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	if !generate.IsSource(path) {
		return mcp.NewToolResultError(fmt.Sprintf("%s: not a .vue or TypeScript file", path)), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading component: %v", err)), nil
	}
	key := path + "\x00" + root + "\x00" + buildcache.HashBytes(raw)
	if cached, ok := s.results.Get(key); ok {
		if cached.fresh() {
			s.logger.Debug("result cache hit", "file", path)
			return mcp.NewToolResultText(cached.text), nil
		}
		s.logger.Debug("result cache stale", "file", path)
	}

	result, err := s.extract(path, root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.results.Add(key, result)
	return mcp.NewToolResultText(result.text), nil
}

// extract runs one unit in a fresh project and returns the encoded result
// with the digests of the files it depends on.
func (s *Server) extract(path, root string) (cachedResult, error) {
	src, err := generate.LoadSource(path)
	if err != nil {
		return cachedResult{}, err
	}
	tsconfig := generate.ResolveTSConfig(root, s.tsconfig)
	project, err := compiler.OpenProject(compiler.ProjectOptions{
		Root:     root,
		TSConfig: tsconfig,
		Logger:   s.logger,
	}, []compiler.Source{src})
	if err != nil {
		return cachedResult{}, err
	}
	defer project.Close()

	unit, err := project.Unit(src.FileName)
	if err != nil {
		return cachedResult{}, err
	}
	result, err := extract.Extract(unit, extract.Options{Root: root, Logger: s.logger})
	if err != nil {
		return cachedResult{}, err
	}
	data, err := generate.Encode(result)
	if err != nil {
		return cachedResult{}, err
	}

	deps := project.Files()
	if tsconfig != "" {
		deps = append(deps, tsconfig)
	}
	deps = slices.DeleteFunc(deps, func(f string) bool {
		return filepath.Clean(filepath.FromSlash(f)) == filepath.Clean(path)
	})
	return cachedResult{text: string(data), deps: buildcache.HashFiles(deps)}, nil
}

// loggingMiddleware logs every tool call with its duration.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)
			attrs := []any{"tool", req.Params.Name, "duration", time.Since(start).Round(time.Millisecond)}
			switch {
			case err != nil:
				s.logger.Error("tool call failed", append(attrs, "error", err)...)
			case result != nil && result.IsError:
				s.logger.Warn("tool call returned an error", attrs...)
			default:
				s.logger.Info("tool call", attrs...)
			}
			return result, err
		}
	}
}
