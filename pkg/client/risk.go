package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bookable/pkg/model"
)

// RiskClient calls the cancellation-risk inference service. The model is a
// black box: the engine owns feature extraction and the deposit policy,
// nothing else.
type RiskClient struct {
	httpClient *HttpClient
}

func NewRiskClient(baseURL string, timeout time.Duration) *RiskClient {
	return &RiskClient{
		httpClient: NewHttpClient(baseURL, timeout),
	}
}

type riskResponse struct {
	RiskScore float64 `json:"risk_score"`
	Error     string  `json:"error,omitempty"`
}

func (c *RiskClient) Predict(ctx context.Context, features model.RiskFeatures) (float64, error) {
	resp, err := c.httpClient.POST(ctx, "/predict", features)
	if err != nil {
		return 0, fmt.Errorf("risk prediction request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("risk prediction returned status %d", resp.StatusCode)
	}

	var body riskResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return 0, fmt.Errorf("failed to decode risk response: %w", err)
	}
	if body.Error != "" {
		return 0, fmt.Errorf("risk model error: %s", body.Error)
	}
	if body.RiskScore < 0 || body.RiskScore > 100 {
		return 0, fmt.Errorf("risk model returned out-of-range score %.2f", body.RiskScore)
	}

	return body.RiskScore, nil
}
