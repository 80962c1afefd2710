package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"ytqa-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("ask_video_question",
		mcp.WithDescription("Ask a question about a YouTube video. Fetches the video's captions automatically and answers using OpenAI. Follow-up questions in the same session use conversation history for context. Requires OPENAI_API_KEY to be configured."),
		mcp.WithString("video",
			mcp.Description("YouTube video URL or video ID"),
			mcp.Required(),
		),
		mcp.WithString("question",
			mcp.Description("Question about the video's content"),
			mcp.Required(),
		),
		mcp.WithString("session",
			mcp.Description("Optional session ID for conversation memory (defaults to a shared per-video session)"),
		),
	), s.handleAskQuestion)

	s.mcpServer.AddTool(mcp.NewTool("get_video_captions",
		mcp.WithDescription("Fetch the plain-text captions of a YouTube video. Fails if the video has no captions."),
		mcp.WithString("video",
			mcp.Description("YouTube video URL or video ID"),
			mcp.Required(),
		),
	), s.handleGetCaptions)

	s.mcpServer.AddTool(mcp.NewTool("get_conversation_history",
		mcp.WithDescription("List the stored question/answer exchanges for a video session."),
		mcp.WithString("video",
			mcp.Description("YouTube video URL or video ID"),
			mcp.Required(),
		),
		mcp.WithString("session",
			mcp.Description("Optional session ID (defaults to the shared per-video session)"),
		),
	), s.handleGetHistory)

	s.mcpServer.AddTool(mcp.NewTool("clear_conversation_history",
		mcp.WithDescription("Clear the stored conversation history for a video session."),
		mcp.WithString("video",
			mcp.Description("YouTube video URL or video ID"),
			mcp.Required(),
		),
		mcp.WithString("session",
			mcp.Description("Optional session ID (defaults to the shared per-video session)"),
		),
	), s.handleClearHistory)
}

// handleAskQuestion implements the ask_video_question tool
func (s *MCPServer) handleAskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, err := request.RequireString("video")
	if err != nil {
		return mcp.NewToolResultError("video parameter is required and must be a string"), nil
	}
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question parameter is required and must be a string"), nil
	}
	session := request.GetString("session", "")

	_, videoID := ParseArg(video)
	mcpLog.Info("ask_video_question", "video_id", videoID, "session", session)

	result, err := s.app.AnswerAuto(ctx, AskRequest{
		VideoID:   videoID,
		Question:  question,
		SessionID: session,
	})
	if err != nil {
		mcpLog.Error("ask_video_question failed", "error", err)
		return mcp.NewToolResultErrorFromErr("answering question", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(result.Answer)},
	}, nil
}

// handleGetCaptions implements the get_video_captions tool
func (s *MCPServer) handleGetCaptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, err := request.RequireString("video")
	if err != nil {
		return mcp.NewToolResultError("video parameter is required and must be a string"), nil
	}

	_, videoID := ParseArg(video)
	mcpLog.Info("get_video_captions", "video_id", videoID)

	transcript, err := s.app.Transcript(ctx, videoID)
	if err != nil {
		mcpLog.Error("get_video_captions failed", "error", err)
		return mcp.NewToolResultErrorFromErr("fetching captions", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(transcript)},
	}, nil
}

// handleGetHistory implements the get_conversation_history tool
func (s *MCPServer) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, err := request.RequireString("video")
	if err != nil {
		return mcp.NewToolResultError("video parameter is required and must be a string"), nil
	}
	session := request.GetString("session", "")

	_, videoID := ParseArg(video)
	history := s.app.History(videoID, session)
	if len(history) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("No conversation history for this session")},
		}, nil
	}

	var buf strings.Builder
	for i, exchange := range history {
		buf.WriteString(fmt.Sprintf("Q%d: %s\nA%d: %s\n\n", i+1, exchange.Question, i+1, exchange.Answer))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleClearHistory implements the clear_conversation_history tool
func (s *MCPServer) handleClearHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	video, err := request.RequireString("video")
	if err != nil {
		return mcp.NewToolResultError("video parameter is required and must be a string"), nil
	}
	session := request.GetString("session", "")

	_, videoID := ParseArg(video)
	s.app.ClearHistory(videoID, session)
	mcpLog.Info("clear_conversation_history", "video_id", videoID, "session", session)

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Conversation history cleared for video %s", videoID))},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
