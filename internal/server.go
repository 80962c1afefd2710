package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Server exposes the Q&A API over HTTP for the browser extension
type Server struct {
	app    *App
	engine *gin.Engine
	logger *slog.Logger
}

// NewServer creates the HTTP server and registers all routes
func NewServer(app *App) *Server {
	if !app.config.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		app:    app,
		engine: engine,
		logger: app.logger,
	}

	engine.Use(s.requestLogger())
	engine.Use(corsMiddleware())

	engine.GET("/", s.handleHealth)
	engine.GET("/health", s.handleHealth)
	engine.POST("/api/qa/auto", s.handleQAAuto)
	engine.POST("/api/qa", s.handleQA)
	engine.GET("/api/conversation/history", s.handleGetHistory)
	engine.DELETE("/api/conversation/history", s.handleClearHistory)

	return s
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Handler returns the underlying HTTP handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestLogger logs one line per request with method, path, status, and latency
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// corsMiddleware allows the Chrome extension, local development pages, and
// YouTube itself to call the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if originAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	return strings.HasPrefix(origin, "chrome-extension://") ||
		strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		origin == "https://www.youtube.com"
}

// statusForError maps the error taxonomy to HTTP status codes
func statusForError(err error) int {
	switch KindOf(err) {
	case ErrEmptyInput:
		return http.StatusBadRequest
	case ErrNoCaptions, ErrTimeout, ErrTransport:
		return http.StatusNotFound
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case ErrUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the standard error body for a failed request
func (s *Server) abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusForError(err), gin.H{"detail": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	configured := s.app.AIConfigured()
	resp := HealthResponse{
		Status:       "healthy",
		Message:      "YouTube Q&A API is running",
		AIConfigured: configured,
	}
	if !configured {
		resp.Message = "API is running but the AI backend is not configured"
		resp.MissingSettings = s.app.config.MissingSettings()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleQAAuto(c *gin.Context) {
	var req AutoQARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, NewQAError(ErrEmptyInput, "invalid request body: %v", err))
		return
	}

	if !s.app.AIConfigured() {
		s.abortWithError(c, NewQAError(ErrUpstreamUnavailable,
			"OpenAI is not configured. Missing: %s", strings.Join(s.app.config.MissingSettings(), ", ")))
		return
	}

	result, err := s.app.AnswerAuto(c.Request.Context(), AskRequest{
		VideoID:      req.VideoID,
		Question:     req.Question,
		SessionID:    req.SessionID,
		ClearHistory: req.ClearHistory,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, qaResponse(result))
}

func (s *Server) handleQA(c *gin.Context) {
	var req QARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, NewQAError(ErrEmptyInput, "invalid request body: %v", err))
		return
	}

	if !s.app.AIConfigured() {
		s.abortWithError(c, NewQAError(ErrUpstreamUnavailable,
			"OpenAI is not configured. Missing: %s", strings.Join(s.app.config.MissingSettings(), ", ")))
		return
	}

	result, err := s.app.Answer(c.Request.Context(), AskRequest{
		VideoID:      req.VideoID,
		Question:     req.Question,
		Transcript:   req.Transcript,
		SessionID:    req.SessionID,
		ClearHistory: req.ClearHistory,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, qaResponse(result))
}

func qaResponse(result *QAResult) QAResponse {
	return QAResponse{
		Success:            true,
		Answer:             result.Answer,
		VideoID:            result.VideoID,
		TranscriptFetched:  result.TranscriptFetched,
		SessionID:          result.SessionID,
		ConversationLength: result.ConversationLength,
	}
}

func (s *Server) handleGetHistory(c *gin.Context) {
	videoID := c.Query("video_id")
	if videoID == "" {
		s.abortWithError(c, NewQAError(ErrEmptyInput, "video_id query parameter is required"))
		return
	}
	sessionID := c.Query("session_id")

	history := s.app.History(videoID, sessionID)
	if history == nil {
		history = []Exchange{}
	}

	displaySession := sessionID
	if displaySession == "" {
		displaySession = DefaultSession
	}

	c.JSON(http.StatusOK, HistoryResponse{
		VideoID:   videoID,
		SessionID: displaySession,
		History:   history,
		Count:     len(history),
	})
}

func (s *Server) handleClearHistory(c *gin.Context) {
	videoID := c.Query("video_id")
	if videoID == "" {
		s.abortWithError(c, NewQAError(ErrEmptyInput, "video_id query parameter is required"))
		return
	}
	sessionID := c.Query("session_id")

	s.app.ClearHistory(videoID, sessionID)

	displaySession := sessionID
	if displaySession == "" {
		displaySession = DefaultSession
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Conversation history cleared for video: %s, session: %s", videoID, displaySession),
	})
}
