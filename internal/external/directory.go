package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DirectoryClient talks to the academy directory service, the auth
// collaborator that knows whether an actor is a student or staff.
type DirectoryClient struct {
	baseURL    string
	httpClient *http.Client
}

type DirectoryConfig struct {
	BaseURL string
	Timeout time.Duration
}

type actorCapabilityResponse struct {
	ActorID    int64  `json:"actor_id"`
	Capability string `json:"capability"`
}

func NewDirectoryClient(cfg DirectoryConfig) *DirectoryClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &DirectoryClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ActorCapability returns "student" or "staff" for a known actor.
func (dc *DirectoryClient) ActorCapability(ctx context.Context, actorID int64) (string, error) {
	url := fmt.Sprintf("%s/api/internal/actors/%d/capability", dc.baseURL, actorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := dc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get actor capability: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("actor %d not found", actorID)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result actorCapabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Capability, nil
}
