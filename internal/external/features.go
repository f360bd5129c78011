package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"studycafe/internal/cache"
)

// FeaturesClient reads per-center feature toggles. The study-cafe flag
// gates every mutating reservation operation.
type FeaturesClient struct {
	baseURL    string
	httpClient *http.Client
	valkey     *cache.ValkeyClient
}

type FeaturesConfig struct {
	BaseURL string
	Timeout time.Duration
}

type studyCafeFlagResponse struct {
	CenterID int64 `json:"center_id"`
	Enabled  bool  `json:"enabled"`
}

func NewFeaturesClient(cfg FeaturesConfig, valkey *cache.ValkeyClient) *FeaturesClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &FeaturesClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		valkey: valkey,
	}
}

// StudyCafeEnabled reports whether the study-cafe feature is on for a
// center. The cached value is used when present; a fresh lookup goes to
// the features service and is cached with a short TTL.
func (fc *FeaturesClient) StudyCafeEnabled(ctx context.Context, centerID int64) (bool, error) {
	if fc.valkey != nil {
		if enabled, err := fc.valkey.GetStudyCafeEnabled(ctx, centerID); err == nil {
			return enabled, nil
		}
	}

	url := fmt.Sprintf("%s/api/internal/centers/%d/features/study-cafe", fc.baseURL, centerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := fc.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to get feature flag: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result studyCafeFlagResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	if fc.valkey != nil {
		fc.valkey.SetStudyCafeEnabled(ctx, centerID, result.Enabled)
	}

	return result.Enabled, nil
}
