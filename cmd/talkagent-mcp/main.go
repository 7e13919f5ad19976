// talkagent-mcp exposes the dialogue agent as MCP tools over stdio, so MCP
// clients can chat through the same fallback chain the server uses.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xcerlabs/talkagent/internal/agent"
	"github.com/xcerlabs/talkagent/internal/config"
	"github.com/xcerlabs/talkagent/internal/history"
	"github.com/xcerlabs/talkagent/internal/intent"
	"github.com/xcerlabs/talkagent/internal/respond"
)

const defaultSession = "mcp"

var dialogue *agent.Agent

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var completer agent.Completer
	if cfg.CompletionConfigured() {
		completer = agent.NewOpenAICompleter(cfg.Completion.APIKey, cfg.Completion.BaseURL, cfg.Completion.Model)
	}
	dialogue = agent.New(completer, history.NewBounded(), respond.NewGenerator(), cfg.Completion.Timeout)

	s := server.NewMCPServer(
		"talkagent-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.AddTool(chatTool(), handleChat)
	s.AddTool(resetTool(), handleReset)
	s.AddTool(classifyTool(), handleClassify)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}

func chatTool() mcp.Tool {
	return mcp.NewTool("chat",
		mcp.WithDescription("Send one utterance to the talking agent and get its reply. Uses the remote completion backend when configured, falling back to rule-based replies."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The utterance to respond to"),
		),
		mcp.WithString("session_id",
			mcp.Description("Conversation scope; turns in the same session share bounded history. Default: one shared MCP session."),
		),
	)
}

func handleChat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	text, _ := args["text"].(string)
	sessionID, _ := args["session_id"].(string)

	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}
	if sessionID == "" {
		sessionID = defaultSession
	}

	reply := dialogue.Respond(ctx, sessionID, text)
	return mcp.NewToolResultText(reply), nil
}

func resetTool() mcp.Tool {
	return mcp.NewTool("reset",
		mcp.WithDescription("Clear the conversation history of a session."),
		mcp.WithString("session_id",
			mcp.Description("Session to clear. Default: the shared MCP session."),
		),
	)
}

func handleReset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		sessionID = defaultSession
	}

	dialogue.Reset(sessionID)
	return mcp.NewToolResultText(fmt.Sprintf("Session %q reset", sessionID)), nil
}

func classifyTool() mcp.Tool {
	return mcp.NewTool("classify",
		mcp.WithDescription("Classify an utterance into the agent's intent set without generating a reply. Useful for debugging routing."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The utterance to classify"),
		),
	)
}

func handleClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := req.Params.Arguments.(map[string]any)
	text, _ := args["text"].(string)
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	return mcp.NewToolResultText(string(intent.Classify(text))), nil
}
