package labels

import (
	"context"
	"errors"
)

// Provider name constants
const (
	ProviderRekognition = "rekognition"
	ProviderHTTPAPI     = "http_api"
)

// Detection errors
var (
	ErrDetectionFailed = errors.New("label detection failed")
	ErrInvalidResponse = errors.New("invalid response from labels provider")
)

// Label is a single detected image label. Score is normalized to 0..1.
type Label struct {
	Name  string
	Score float64
}

// Provider detects labels for an image stored in an object bucket.
// Implementations must preserve the service's returned label order and must
// not retry internally: the invoking platform owns retries.
type Provider interface {
	DetectLabels(ctx context.Context, bucket, key string) ([]Label, error)
	Name() string
}
