package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tickerdeck/tickerdeck/internal/config"
	"github.com/tickerdeck/tickerdeck/internal/market"
)

// RegisterTools adds the market data tools to the MCP server and
// returns the number registered.
func RegisterTools(s *server.MCPServer, service *market.Service) int {
	s.AddTool(quoteTool(), quoteToolHandler(service))
	s.AddTool(searchTool(), searchToolHandler(service))
	s.AddTool(outlookTool(), outlookToolHandler(service))
	s.AddTool(versionTool(), versionToolHandler())
	return 4
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v into a text content result.
func jsonResult(v interface{}) *mcp.CallToolResult {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}
}

func quoteTool() mcp.Tool {
	return mcp.NewTool("get_quote",
		mcp.WithDescription("Get the latest quote for a stock symbol (price, change, day range, volume)."),
		mcp.WithString("symbol", mcp.Description("Ticker symbol, e.g. AAPL"), mcp.Required()),
	)
}

func quoteToolHandler(service *market.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol := strings.ToUpper(strings.TrimSpace(r.GetString("symbol", "")))
		if symbol == "" {
			return errorResult("symbol is required"), nil
		}

		quote, err := service.GetQuote(ctx, symbol)
		if err != nil {
			return errorResult(fmt.Sprintf("quote lookup failed: %v", err)), nil
		}
		if quote == nil {
			return errorResult("no quote available for " + symbol), nil
		}
		return jsonResult(quote), nil
	}
}

func searchTool() mcp.Tool {
	return mcp.NewTool("search_symbols",
		mcp.WithDescription("Search for stock symbols by ticker or company name."),
		mcp.WithString("query", mcp.Description("Search text, e.g. apple"), mcp.Required()),
	)
}

func searchToolHandler(service *market.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := strings.TrimSpace(r.GetString("query", ""))
		if query == "" {
			return errorResult("query is required"), nil
		}

		results, err := service.SearchSymbols(ctx, query)
		if err != nil {
			return errorResult(fmt.Sprintf("symbol search failed: %v", err)), nil
		}
		return jsonResult(map[string]interface{}{
			"query":   query,
			"results": results,
		}), nil
	}
}

func outlookTool() mcp.Tool {
	return mcp.NewTool("get_outlook",
		mcp.WithDescription("Generate a 30-day outlook prediction for a stock symbol using analyst data."),
		mcp.WithString("symbol", mcp.Description("Ticker symbol, e.g. AAPL"), mcp.Required()),
		mcp.WithString("engine", mcp.Description("Prediction engine: analyst, model, or blended (default analyst)")),
	)
}

func outlookToolHandler(service *market.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol := strings.ToUpper(strings.TrimSpace(r.GetString("symbol", "")))
		if symbol == "" {
			return errorResult("symbol is required"), nil
		}
		engine := r.GetString("engine", "analyst")

		prediction, err := service.GetOutlook(ctx, symbol, engine)
		if err != nil {
			return errorResult(fmt.Sprintf("outlook generation failed: %v", err)), nil
		}
		if prediction == nil {
			return errorResult("no outlook available for " + symbol), nil
		}
		return jsonResult(prediction), nil
	}
}

func versionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get tickerdeck server version. Use this to verify connectivity."),
	)
}

func versionToolHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]string{
			"version": config.GetVersion(),
			"build":   config.GetBuild(),
			"commit":  config.GetGitCommit(),
		}), nil
	}
}
