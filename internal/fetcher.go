package internal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

const (
	timedTextEndpoint = "https://www.youtube.com/api/timedtext"

	// Caption documents are small; cap reads to guard against junk responses.
	maxCaptionBytes = 512 << 10

	defaultCaptionTimeout = 30 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// DefaultCaptionLanguages are tried in order before falling back to
// YouTube's language auto-detection.
var DefaultCaptionLanguages = []string{"en", "en-US", "en-GB"}

// CaptionFetcher retrieves caption tracks from YouTube's timedtext endpoint.
// Attempts are strictly sequential: the endpoint rate limits aggressively
// and parallel requests get the server IP blocked.
type CaptionFetcher struct {
	client    *http.Client
	endpoint  string
	languages []string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewCaptionFetcher creates a caption fetcher with the given language
// preference order and per-attempt timeout.
func NewCaptionFetcher(languages []string, timeout time.Duration, logger *slog.Logger) *CaptionFetcher {
	if len(languages) == 0 {
		languages = DefaultCaptionLanguages
	}
	if timeout <= 0 {
		timeout = defaultCaptionTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CaptionFetcher{
		client:    &http.Client{},
		endpoint:  timedTextEndpoint,
		languages: languages,
		timeout:   timeout,
		logger:    logger,
	}
}

// Fetch retrieves the caption text for a video, trying each preferred
// language in order and finally YouTube's auto-detection. The first
// attempt that yields non-empty text wins. A 429 from YouTube aborts
// immediately since further attempts would only make the blocking worse.
func (f *CaptionFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	if strings.TrimSpace(videoID) == "" {
		return "", NewQAError(ErrEmptyInput, "video ID cannot be empty")
	}

	// Empty language means let YouTube pick the track
	attempts := append(slices.Clone(f.languages), "")

	var lastErr error
	var hint string
	sawResponse := false
	for _, lang := range attempts {
		text, bodyHint, err := f.attempt(ctx, videoID, lang)
		if err != nil {
			if KindOf(err) == ErrRateLimited {
				return "", err
			}
			// A timeout on the last-resort auto-detect attempt is terminal
			if lang == "" && KindOf(err) == ErrTimeout {
				return "", err
			}
			lastErr = err
			f.logger.Warn("caption fetch attempt failed",
				"video_id", videoID, "lang", displayLang(lang), "error", err)
			continue
		}

		sawResponse = true
		if text != "" {
			f.logger.Debug("captions fetched",
				"video_id", videoID, "lang", displayLang(lang), "chars", len(text))
			return text, nil
		}
		if bodyHint != "" {
			hint = bodyHint
		}
		f.logger.Warn("no caption text in response",
			"video_id", videoID, "lang", displayLang(lang))
	}

	// Only surface transport problems when no attempt got through at all;
	// a reachable endpoint with no usable tracks means no captions exist.
	if !sawResponse && lastErr != nil {
		return "", lastErr
	}
	if hint != "" {
		return "", NewQAError(ErrNoCaptions, "no captions available for video %s (%s)", videoID, hint)
	}
	return "", NewQAError(ErrNoCaptions, "no captions available for video %s", videoID)
}

// attempt performs a single timedtext request for one language. The second
// return value is a best-effort hint from response bodies that explain why
// no track exists (unavailable video, captions disabled).
func (f *CaptionFetcher) attempt(ctx context.Context, videoID, lang string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("v", videoID)
	if lang != "" {
		params.Set("lang", lang)
	}
	params.Set("fmt", FormatSRV3)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", "", NewQAError(ErrTransport, "building caption request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", "", NewQAError(ErrTimeout, "caption request for %s timed out after %s", videoID, f.timeout)
		}
		return "", "", NewQAError(ErrTransport, "caption request for %s: %v", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", "", NewQAError(ErrRateLimited, "YouTube is rate limiting caption requests")
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", NewQAError(ErrTransport, "timedtext returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptionBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", "", NewQAError(ErrTimeout, "reading caption response for %s timed out", videoID)
		}
		return "", "", NewQAError(ErrTransport, "reading caption response: %v", err)
	}

	doc := string(body)
	return ParseCaptions(FormatSRV3, doc), captionHint(doc), nil
}

// captionHint inspects an empty caption response for a reason YouTube
// sometimes embeds in the body.
func captionHint(body string) string {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "video unavailable"):
		return "video unavailable"
	case strings.Contains(lower, "disabled"):
		return "captions disabled"
	default:
		return ""
	}
}

func displayLang(lang string) string {
	if lang == "" {
		return "auto"
	}
	return lang
}
