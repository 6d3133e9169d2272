// Package bootstrap assembles a runnable Kernel from CLI flags and the
// environment: tool registry, model provider, hook chain, and event
// store, wired step by step with a log line after each stage.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rxkernel/rx/internal/goalid"
	"github.com/rxkernel/rx/internal/hook"
	"github.com/rxkernel/rx/internal/kernel"
	"github.com/rxkernel/rx/internal/mcp"
	"github.com/rxkernel/rx/internal/model"
	modelmock "github.com/rxkernel/rx/internal/model/mock"
	modelopenai "github.com/rxkernel/rx/internal/model/openai"
	"github.com/rxkernel/rx/internal/statestore"
	"github.com/rxkernel/rx/internal/tool"
	"github.com/rxkernel/rx/internal/tool/builtin"
)

// Options mirrors the CLI surface of spec.md §6.
type Options struct {
	GoalText      string
	Resume        string // goal ID, empty for a fresh goal
	List          bool
	MaxIterations int
	Model         string // overrides OPENAI_MODEL / LLM_MODEL when non-empty
	AutoCommit    bool
	ToolVerbose   bool
	DebugLogPath  string
}

const defaultLogsDir = "logs"

// Run builds every collaborator from opts and the environment, drives
// one goal to termination (or lists recorded goals), and returns the
// process exit code: 0 for normal termination (including done and
// max_iterations) or a successful --list, 1 for a usage or kernel
// failure.
func Run(ctx context.Context, opts Options) int {
	store, closeStore, err := openStore(ctx, opts)
	if err != nil {
		log.Printf("[Bootstrap] open store: %v", err)
		return 1
	}
	defer closeStore()

	if opts.List {
		return runList(ctx, store)
	}

	registry := buildRegistry(ctx)
	defer registry.CloseAll()

	m, err := buildModel(opts.Model)
	if err != nil {
		log.Printf("[Bootstrap] build model: %v", err)
		return 1
	}

	hooksConfigPath := os.Getenv("RX_HOOKS_CONFIG")
	if hooksConfigPath == "" {
		hooksConfigPath = defaultHooksConfigPath
	}
	cfg, err := loadHooksConfig(hooksConfigPath)
	if err != nil {
		log.Printf("[Bootstrap] hooks config: %v", err)
		return 1
	}
	opts = mergeHooksConfig(opts, cfg)

	chained, closeHooks, err := buildHookChain(store, m, opts)
	if err != nil {
		log.Printf("[Bootstrap] build hook chain: %v", err)
		return 1
	}
	defer closeHooks()

	goalID := opts.Resume
	if goalID == "" {
		goalID = goalid.New(opts.GoalText, time.Now())
		if err := kernel.AppendGoal(ctx, chained, opts.GoalText); err != nil {
			log.Printf("[Bootstrap] append goal: %v", err)
			return 1
		}
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 50
	}

	k := kernel.New(kernel.Config{
		GoalID:        goalID,
		MaxIterations: maxIter,
		Store:         chained,
		Model:         m,
		Registry:      registry,
	})

	result, err := k.Run(ctx)
	if err != nil {
		log.Printf("[Bootstrap] kernel: %v", err)
		return 1
	}

	log.Printf("[Bootstrap] goal %q terminated: reason=%s iterations=%d", goalID, result.Reason, result.Iterations)
	return 0
}

// openStore selects the memory (default) or SQL (RX_STORE=sql) store
// backend and, for a resumed goal, replays its JSONL mirror.
func openStore(ctx context.Context, opts Options) (statestore.Store, func(), error) {
	if os.Getenv("RX_STORE") == "sql" {
		path := os.Getenv("RX_SQLITE_PATH")
		if path == "" {
			path = "rx.db"
		}
		goalID := opts.Resume
		if goalID == "" {
			goalID = goalid.New(opts.GoalText, time.Now())
		}
		s, err := statestore.OpenSQLStore(ctx, path, goalID)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: open sqlite store: %w", err)
		}
		return s, func() { s.Close() }, nil
	}

	if opts.Resume != "" {
		s, err := statestore.LoadJSONL(defaultLogsDir, opts.Resume)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: resume goal %q: %w", opts.Resume, err)
		}
		return s, func() { s.Close() }, nil
	}

	goalID := goalid.New(opts.GoalText, time.Now())
	s, err := statestore.NewMemoryStore(defaultLogsDir, goalID)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap: create store: %w", err)
	}
	return s, func() { s.Close() }, nil
}

// runList prints every goal the store has recorded, newest first.
func runList(ctx context.Context, store statestore.Store) int {
	lister, ok := store.(statestore.GoalLister)
	if !ok {
		log.Printf("[Bootstrap] --list requires RX_STORE=sql; the memory backend only tracks the current goal")
		return 1
	}
	goals, err := lister.ListGoals(ctx)
	if err != nil {
		log.Printf("[Bootstrap] list goals: %v", err)
		return 1
	}
	for _, g := range goals {
		fmt.Printf("%s\t%s\n", g.GoalID, g.StartedAt)
	}
	return 0
}

// buildRegistry registers every built-in tool and, when mcp.json is
// present, connects to and registers MCP-backed tools too.
func buildRegistry(ctx context.Context) *tool.Registry {
	registry := tool.NewRegistry()

	registry.Register(builtin.DoneTool{})
	registry.Register(builtin.ReadFileTool{})
	registry.Register(builtin.ReadFileHeadTool{})
	registry.Register(builtin.ReadFileTailTool{})
	registry.Register(builtin.ReadFileRangeTool{})
	registry.Register(builtin.WriteFileTool{})
	registry.Register(builtin.CreateFileTool{})
	registry.Register(builtin.AppendFileTool{})
	registry.Register(builtin.ReplaceInFileTool{})
	registry.Register(builtin.ApplyPatchTool{})
	registry.Register(builtin.ApplyUnifiedPatchTool{})
	registry.Register(builtin.ListDirTool{})
	registry.Register(builtin.ListDirEntriesTool{})
	registry.Register(builtin.FindFilesTool{})
	registry.Register(builtin.GlobSearchTool{})
	registry.Register(builtin.SearchInFileTool{})
	registry.Register(builtin.StatFileTool{})
	registry.Register(builtin.ExecTool{})
	registry.Register(builtin.ExecCaptureTool{})
	registry.Register(builtin.ExecStatusTool{})
	registry.Register(builtin.ExecWithInputTool{})
	registry.Register(builtin.WhichCommandTool{})
	registry.Register(builtin.BashTool{})

	if err := registry.InitAll(ctx); err != nil {
		log.Printf("[Bootstrap] tool init: %v", err)
	}

	mcpConfigPath := os.Getenv("MCP_CONFIG")
	if mcpConfigPath == "" {
		mcpConfigPath = "mcp.json"
	}
	if _, err := os.Stat(mcpConfigPath); err == nil {
		mcpMgr := mcp.NewManager(mcpConfigPath)
		registry.Register(mcp.NewReloadTool(mcpMgr, registry))

		n, errs := mcpMgr.ConnectAll(ctx)
		for _, e := range errs {
			log.Printf("[Bootstrap] MCP connect: %v", e)
		}
		if n > 0 {
			if err := mcpMgr.RegisterTools(ctx, registry); err != nil {
				log.Printf("[Bootstrap] MCP register tools: %v", err)
			}
			log.Printf("[Bootstrap] MCP: %d server(s) connected", n)
		}
	}

	log.Printf("[Bootstrap] tools: %d registered", len(registry.List()))
	return registry
}

// buildModel returns the OpenAI-backed provider when OPENAI_API_KEY is
// set, per spec.md §6, and a mock provider that immediately calls done
// otherwise — offline runs still terminate cleanly rather than hanging
// on a provider that was never configured.
func buildModel(modelOverride string) (model.Model, error) {
	if modelOverride != "" {
		os.Setenv("OPENAI_MODEL", modelOverride)
		os.Setenv("LLM_MODEL", modelOverride)
	}
	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Printf("[Bootstrap] OPENAI_API_KEY not set, using mock model")
		return modelmock.NewDone("no model configured (offline mode)"), nil
	}
	m, err := modelopenai.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: build openai model: %w", err)
	}
	return m, nil
}

// buildHookChain wraps store with the debug, verbose, and auto-commit
// hooks opts asked for, in that order.
func buildHookChain(store statestore.Store, m model.Model, opts Options) (*hook.ChainedStore, func(), error) {
	var hooks []hook.Hook
	var closers []func() error

	if opts.DebugLogPath != "" {
		h, err := hook.NewDebugJSONLHook(opts.DebugLogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: debug log hook: %w", err)
		}
		hooks = append(hooks, h)
		closers = append(closers, h.Close)
	}
	if opts.ToolVerbose {
		hooks = append(hooks, hook.NewVerboseHook(nil))
	}
	if opts.AutoCommit {
		dir, err := os.Getwd()
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: auto-commit cwd: %w", err)
		}
		hooks = append(hooks, hook.NewAutoCommitHook(dir, m))
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Printf("[Bootstrap] hook close: %v", err)
			}
		}
	}
	return hook.NewChainedStore(store, hooks...), closeAll, nil
}
