package labels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cleantown/cleantown/internal/config"

	httpclient "github.com/appleboy/go-httpclient"
	retry "github.com/appleboy/go-httpretry"
)

// HTTPProvider calls an external labeling endpoint over HTTP. The retry
// wrapper is configured with zero retries unless LABELS_API_MAX_RETRIES says
// otherwise, since the event platform re-delivers failed invocations itself.
type HTTPProvider struct {
	config      *config.Config
	retryClient *retry.Client
}

// NewHTTPProvider creates an HTTP labels provider from the configured
// endpoint and auth settings.
func NewHTTPProvider(cfg *config.Config) (*HTTPProvider, error) {
	client, err := httpclient.NewAuthClient(
		cfg.LabelsAPIAuthMode,
		cfg.LabelsAPIAuthSecret,
		httpclient.WithTimeout(cfg.LabelsAPITimeout),
		httpclient.WithHeaderName(cfg.LabelsAPIAuthHeader),
		httpclient.WithInsecureSkipVerify(cfg.LabelsAPIInsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	retryClient, err := retry.NewRealtimeClient(
		retry.WithHTTPClient(client),
		retry.WithMaxRetries(cfg.LabelsAPIMaxRetries),
		retry.WithInitialRetryDelay(cfg.LabelsAPIRetryDelay),
		retry.WithMaxRetryDelay(cfg.LabelsAPIMaxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create retry client: %w", err)
	}

	return &HTTPProvider{
		config:      cfg,
		retryClient: retryClient,
	}, nil
}

type detectRequest struct {
	ImageURI string `json:"imageUri"`
}

type apiLabel struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type detectResponse struct {
	Labels []apiLabel `json:"labels"`
}

// DetectLabels posts the object's storage URI to the labeling endpoint and
// returns the ranked labels in the order the service produced them.
func (p *HTTPProvider) DetectLabels(
	ctx context.Context,
	bucket, key string,
) ([]Label, error) {
	reqBody := detectRequest{
		ImageURI: fmt.Sprintf("s3://%s/%s", bucket, key),
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := p.retryClient.Post(
		ctx,
		p.config.LabelsAPIURL,
		retry.WithBody("application/json", bytes.NewBuffer(jsonData)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", ErrInvalidResponse)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		return nil, fmt.Errorf("%w: HTTP %d - %s", ErrDetectionFailed, resp.StatusCode, bodyPreview)
	}

	var apiResp detectResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	result := make([]Label, 0, len(apiResp.Labels))
	for _, l := range apiResp.Labels {
		result = append(result, Label{
			Name:  l.Description,
			Score: l.Score,
		})
	}
	return result, nil
}

// Name returns provider name for logging
func (p *HTTPProvider) Name() string {
	return ProviderHTTPAPI
}
