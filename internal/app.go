package internal

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// App holds the application state and dependencies
type App struct {
	captions      *CaptionFetcher
	store         *ConversationStore
	ai            *AI
	promptManager *PromptManager
	config        *Config
	ui            UIManager
	logger        *slog.Logger
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	logger := NewLogger(config.Verbose)

	app := &App{
		captions:      NewCaptionFetcher(config.CaptionLanguages, config.CaptionTimeout, logger),
		store:         NewConversationStore(config.MaxHistory, config.HistoryTTL),
		ai:            NewAIWithKey(config.OpenAIAPIKey, config.OpenAIBaseURL, config.QAModel, config.AnswerTimeout),
		promptManager: NewPromptManager(config.ConfigDir, config.Prompt),
		config:        config,
		ui:            NewUIManager(config.Verbose, config.Quiet),
		logger:        logger,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app
}

// NewLogger creates the application's structured logger
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// AppOption customizes App creation
type AppOption func(*App)

// WithCaptionFetcher sets a custom caption fetcher
func WithCaptionFetcher(fetcher *CaptionFetcher) AppOption {
	return func(a *App) {
		a.captions = fetcher
	}
}

// WithConversationStore sets a custom conversation store
func WithConversationStore(store *ConversationStore) AppOption {
	return func(a *App) {
		a.store = store
	}
}

// WithAI sets a custom AI processor
func WithAI(ai *AI) AppOption {
	return func(a *App) {
		a.ai = ai
	}
}

// SetPromptManager sets a new prompt manager
func (app *App) SetPromptManager(pm *PromptManager) {
	app.promptManager = pm
}

// AIConfigured reports whether answer generation is possible
func (app *App) AIConfigured() bool {
	return app.ai.Configured()
}

// AskRequest captures one Q&A turn regardless of where the transcript
// comes from
type AskRequest struct {
	VideoID      string
	Question     string
	Transcript   string
	SessionID    string
	ClearHistory bool
}

// QAResult is the outcome of a successful Q&A turn
type QAResult struct {
	Answer             string
	VideoID            string
	SessionID          string
	TranscriptFetched  bool
	ConversationLength int
}

// AnswerAuto fetches the video's captions from YouTube and answers the
// question against them, threading conversation history through the prompt.
func (app *App) AnswerAuto(ctx context.Context, req AskRequest) (*QAResult, error) {
	if strings.TrimSpace(req.VideoID) == "" {
		return nil, NewQAError(ErrEmptyInput, "video ID cannot be empty")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, NewQAError(ErrEmptyInput, "question cannot be empty")
	}

	transcript, err := app.captions.Fetch(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}
	app.logger.Debug("transcript fetched", "video_id", req.VideoID, "chars", len(transcript))

	return app.answer(ctx, req, transcript, true)
}

// Answer answers the question against a caller-supplied transcript
func (app *App) Answer(ctx context.Context, req AskRequest) (*QAResult, error) {
	if strings.TrimSpace(req.VideoID) == "" {
		return nil, NewQAError(ErrEmptyInput, "video ID cannot be empty")
	}
	if strings.TrimSpace(req.Question) == "" {
		return nil, NewQAError(ErrEmptyInput, "question cannot be empty")
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, NewQAError(ErrEmptyInput, "transcript cannot be empty")
	}

	return app.answer(ctx, req, req.Transcript, false)
}

// answer runs the shared Q&A turn: history lookup, prompt assembly, model
// call, and recording the new exchange.
func (app *App) answer(ctx context.Context, req AskRequest, transcript string, fetched bool) (*QAResult, error) {
	if req.ClearHistory {
		app.store.Clear(req.VideoID, req.SessionID)
		app.logger.Info("conversation history cleared", "video_id", req.VideoID, "session_id", req.SessionID)
	}

	history := app.store.History(req.VideoID, req.SessionID, 0)
	formattedHistory := FormatHistory(history)
	app.logger.Debug("conversation history loaded", "video_id", req.VideoID, "exchanges", len(history))

	system, err := app.promptManager.SystemPrompt(formattedHistory != "")
	if err != nil {
		return nil, err
	}
	user := UserContent(transcript, formattedHistory, req.Question)

	answer, err := app.ai.Ask(ctx, system, user)
	if err != nil {
		app.logger.Error("answer generation failed", "video_id", req.VideoID, "error", err)
		return nil, err
	}

	app.store.AddExchange(req.VideoID, req.SessionID, req.Question, answer)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = DefaultSession
	}

	app.logger.Info("answer generated", "video_id", req.VideoID, "session_id", sessionID)
	return &QAResult{
		Answer:             answer,
		VideoID:            req.VideoID,
		SessionID:          sessionID,
		TranscriptFetched:  fetched,
		ConversationLength: app.store.Len(req.VideoID, req.SessionID),
	}, nil
}

// Transcript fetches and returns the plain caption text for a video
func (app *App) Transcript(ctx context.Context, videoID string) (string, error) {
	return app.captions.Fetch(ctx, videoID)
}

// History returns the retained conversation history for a video session
func (app *App) History(videoID, sessionID string) []Exchange {
	return app.store.History(videoID, sessionID, 0)
}

// ClearHistory removes the conversation history for a video session
func (app *App) ClearHistory(videoID, sessionID string) {
	app.store.Clear(videoID, sessionID)
}
