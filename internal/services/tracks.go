package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/ytplay/internal/models"
	"github.com/desertthunder/ytplay/internal/shared"
)

const (
	defaultBaseURL = "https://spotify.f8team.dev/api/"
	DefaultLimit   = 20
)

// TracksService is a client for the track endpoints of the streaming API.
type TracksService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewTracksService creates a client from cfg. With an access token set, every request is
// authorized through an oauth2 static token source.
func NewTracksService(cfg shared.APIConfig, logger *log.Logger) *TracksService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	if logger == nil {
		logger = shared.DiscardLogger()
	}

	base := &http.Client{Timeout: cfg.Timeout}
	client := base
	if cfg.AccessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.AccessToken,
			TokenType:   "Bearer",
		}))
		client.Timeout = cfg.Timeout
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &TracksService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// tracksEnvelope accepts both list shapes the API returns.
type tracksEnvelope struct {
	Tracks []models.Track `json:"tracks"`
	Data   *struct {
		Tracks []models.Track `json:"tracks"`
	} `json:"data"`
}

func (e tracksEnvelope) tracks() []models.Track {
	if e.Data != nil && e.Data.Tracks != nil {
		return e.Data.Tracks
	}
	if e.Tracks != nil {
		return e.Tracks
	}
	return []models.Track{}
}

// Trending fetches GET tracks/trending?limit=n.
func (s *TracksService) Trending(ctx context.Context, limit int) ([]models.Track, error) {
	return s.list(ctx, "tracks/trending?limit="+strconv.Itoa(normalizeLimit(limit)))
}

// Popular fetches GET tracks/popular?limit=n.
func (s *TracksService) Popular(ctx context.Context, limit int) ([]models.Track, error) {
	return s.list(ctx, "tracks/popular?limit="+strconv.Itoa(normalizeLimit(limit)))
}

// ArtistPopular fetches GET artists/{id}/tracks/popular.
func (s *TracksService) ArtistPopular(ctx context.Context, artistID string) ([]models.Track, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is required", shared.ErrInvalidInput)
	}
	return s.list(ctx, "artists/"+url.PathEscape(artistID)+"/tracks/popular")
}

// NotifyPlay reports a play with POST tracks/{id}/play. Calls wait on the rate limiter.
func (s *TracksService) NotifyPlay(ctx context.Context, id models.TrackID) error {
	if id == "" {
		return fmt.Errorf("%w: track id is required", shared.ErrInvalidInput)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if err := s.doRequest(ctx, http.MethodPost, "tracks/"+url.PathEscape(id.String())+"/play", struct{}{}, nil); err != nil {
		return err
	}

	s.logger.Debug("play reported", "track", id)
	return nil
}

func (s *TracksService) list(ctx context.Context, endpoint string) ([]models.Track, error) {
	var env tracksEnvelope
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &env); err != nil {
		return nil, err
	}
	return env.tracks(), nil
}

// doRequest sends a JSON request relative to the base URL and decodes a 2xx body into result.
func (s *TracksService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

func statusError(resp *http.Response) error {
	var errResp struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	detail := ""
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&errResp); err == nil {
		switch {
		case errResp.Message != "":
			detail = errResp.Message
		case errResp.Error != nil:
			detail = fmt.Sprint(errResp.Error)
		}
	}

	kind := shared.ErrAPIRequest
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = shared.ErrNotAuthenticated
	case resp.StatusCode >= 500:
		kind = shared.ErrServiceUnavailable
	}

	if detail != "" {
		return fmt.Errorf("%w (status %d): %s", kind, resp.StatusCode, detail)
	}
	return fmt.Errorf("%w: status %d", kind, resp.StatusCode)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
