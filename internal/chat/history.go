package chat

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/haikuchat/internal/log"
	"github.com/vovakirdan/haikuchat/internal/utils"
)

// maxHistoryBytes caps the size of a history response body.
const maxHistoryBytes = 8 << 20

// HistoryFetcher loads the persisted messages of a room.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, roomID string) ([]Message, error)
}

// HTTPHistory fetches history with one GET request to a templated URL. It does not
// retry.
type HTTPHistory struct {
	urlTemplate string
	client      *http.Client
	log         *zerolog.Logger
}

// NewHTTPHistory builds a fetcher for urlTemplate, which must contain {roomID}.
func NewHTTPHistory(urlTemplate string, client *http.Client, logger *zerolog.Logger) *HTTPHistory {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPHistory{urlTemplate: urlTemplate, client: client, log: log.OrNop(logger)}
}

// FetchHistory implements HistoryFetcher. Malformed elements are dropped and logged.
func (h *HTTPHistory) FetchHistory(ctx context.Context, roomID string) ([]Message, error) {
	target, err := utils.ExpandURL(h.urlTemplate, map[string]string{"roomID": roomID}, "roomID")
	if err != nil {
		return nil, fmt.Errorf("history url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHistoryBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("history error (status %d): %s", resp.StatusCode, string(body))
	}

	messages, dropped, err := DecodeHistory(body)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		h.log.Warn().Str("room_id", roomID).Int("dropped", dropped).Msg("dropped malformed history items")
	}
	return messages, nil
}
