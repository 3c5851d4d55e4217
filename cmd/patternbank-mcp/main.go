// patternbank-mcp exposes read-only MCP tools over the pattern store so a
// session host can pull context and inspect patterns without shelling out
// to the CLI. Mutations stay with the patternbank binary.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fernwood/patternbank/internal/config"
	"github.com/fernwood/patternbank/internal/inject"
	"github.com/fernwood/patternbank/internal/store"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	s := server.NewMCPServer(
		"patternbank-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Register tools
	s.AddTool(contextTool(), handleContext)
	s.AddTool(listTool(), handleList)
	s.AddTool(showTool(), handleShow)
	s.AddTool(statsTool(), handleStats)

	// Run server
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the pattern database for one tool call.
func openStore() (*store.Store, config.Config, error) {
	cfg := config.FromEnv()
	st, err := store.Open(cfg.StatePath, cfg.BusyTimeout)
	if err != nil {
		return nil, cfg, err
	}
	return st, cfg, nil
}

func contextTool() mcp.Tool {
	return mcp.NewTool("patterns_context",
		mcp.WithDescription("Render the session-start context block: active patterns ordered by weight, bounded, with name and instruction per pattern."),
	)
}

func handleContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, cfg, err := openStore()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open store: %v", err)), nil
	}
	defer st.Close()

	block, err := inject.Build(st, cfg.ContextMaxPatterns)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render context: %v", err)), nil
	}
	if block == "" {
		return mcp.NewToolResultText("No active patterns."), nil
	}
	return mcp.NewToolResultText(block), nil
}

func listTool() mcp.Tool {
	return mcp.NewTool("patterns_list",
		mcp.WithDescription("List stored patterns as JSON, optionally filtered by status (active, dormant, retired) and category."),
		mcp.WithString("status",
			mcp.Description("Filter by lifecycle status"),
		),
		mcp.WithString("category",
			mcp.Description("Filter by category"),
		),
	)
}

func handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	status, _ := args["status"].(string)
	category, _ := args["category"].(string)

	f := store.Filter{Category: category}
	if status != "" {
		f.Status = store.Status(status)
		if !store.ValidStatus(f.Status) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid status %q", status)), nil
		}
	}

	st, _, err := openStore()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open store: %v", err)), nil
	}
	defer st.Close()

	patterns, err := st.List(f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list patterns: %v", err)), nil
	}

	data, err := json.MarshalIndent(patterns, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal patterns: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func showTool() mcp.Tool {
	return mcp.NewTool("patterns_show",
		mcp.WithDescription("Show one pattern with its evidence rows, as JSON."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Pattern id"),
		),
	)
}

func handleShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	id, _ := args["id"].(string)
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	st, _, err := openStore()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open store: %v", err)), nil
	}
	defer st.Close()

	p, err := st.Read(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read pattern: %v", err)), nil
	}
	if p == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No pattern %q.", id)), nil
	}

	evidence, err := st.EvidenceFor(p.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read evidence: %v", err)), nil
	}

	out := struct {
		Pattern  *store.Pattern    `json:"pattern"`
		Evidence []*store.Evidence `json:"evidence"`
	}{p, evidence}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal pattern: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func statsTool() mcp.Tool {
	return mcp.NewTool("patterns_stats",
		mcp.WithDescription("Aggregate pattern counts by status and category, as JSON."),
	)
}

func handleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, _, err := openStore()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open store: %v", err)), nil
	}
	defer st.Close()

	stats, err := st.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute stats: %v", err)), nil
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal stats: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
