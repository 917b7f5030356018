package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cuemby/printplan/pkg/types"
)

// Mirror is the remote planning service's sync surface. The recalculator is
// the only caller; the engine never touches it.
type Mirror interface {
	// DeleteCyclesByDateRange removes every remote cycle starting at or
	// after from, with no upper bound, ahead of a REPLACE-style sync. An
	// unbounded delete is what prevents a prior longer-horizon run's remote
	// cycles from surviving un-replaced.
	DeleteCyclesByDateRange(ctx context.Context, from time.Time) error

	// UpsertCycleByLegacyID creates or updates the remote cycle keyed by
	// cycle.LegacyID and returns its remote identifier.
	UpsertCycleByLegacyID(ctx context.Context, cycle *types.PlannedCycle) (remoteID string, err error)
}

// HTTPMirror is the default Mirror: plain HTTP/JSON against the remote
// planning service, no generated client or wire schema.
type HTTPMirror struct {
	baseURL string
	client  *http.Client
	token   string
}

// NewHTTPMirror builds an HTTPMirror. client may be nil to use
// http.DefaultClient.
func NewHTTPMirror(baseURL, token string, client *http.Client) *HTTPMirror {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPMirror{baseURL: baseURL, token: token, client: client}
}

func (m *HTTPMirror) DeleteCyclesByDateRange(ctx context.Context, from time.Time) error {
	u := fmt.Sprintf("%s/cycles?from=%s", m.baseURL, url.QueryEscape(from.Format(time.RFC3339)))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	m.authorize(req)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mirror: delete cycles from %s: status %d", from, resp.StatusCode)
	}
	return nil
}

type upsertResponse struct {
	ID string `json:"id"`
}

func (m *HTTPMirror) UpsertCycleByLegacyID(ctx context.Context, cycle *types.PlannedCycle) (string, error) {
	body, err := json.Marshal(cycle)
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/cycles/%s", m.baseURL, url.PathEscape(cycle.LegacyID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	m.authorize(req)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("mirror: upsert cycle %s: status %d", cycle.LegacyID, resp.StatusCode)
	}

	var parsed upsertResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("mirror: decode upsert response for %s: %w", cycle.LegacyID, err)
	}
	return parsed.ID, nil
}

func (m *HTTPMirror) authorize(req *http.Request) {
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}
}
