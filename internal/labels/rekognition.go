package labels

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// maxDetectLabels bounds what we request from the service; the caller caps
// the surviving set further after score filtering.
const maxDetectLabels = 20

// RekognitionAPI is the subset of the Rekognition client used here.
type RekognitionAPI interface {
	DetectLabels(
		ctx context.Context,
		params *rekognition.DetectLabelsInput,
		optFns ...func(*rekognition.Options),
	) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionProvider detects labels with AWS Rekognition, referencing the
// uploaded object in place instead of downloading it.
type RekognitionProvider struct {
	client RekognitionAPI
}

// NewRekognitionProvider creates a Rekognition-backed labels provider.
func NewRekognitionProvider(client RekognitionAPI) *RekognitionProvider {
	return &RekognitionProvider{client: client}
}

// DetectLabels runs DetectLabels against the S3 object and returns labels in
// the service's order with confidence normalized from percent to 0..1.
func (p *RekognitionProvider) DetectLabels(
	ctx context.Context,
	bucket, key string,
) ([]Label, error) {
	out, err := p.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
		MaxLabels: aws.Int32(maxDetectLabels),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionFailed, err)
	}

	result := make([]Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		label := Label{}
		if l.Name != nil {
			label.Name = *l.Name
		}
		if l.Confidence != nil {
			label.Score = float64(*l.Confidence) / 100
		}
		result = append(result, label)
	}
	return result, nil
}

// Name returns provider name for logging
func (p *RekognitionProvider) Name() string {
	return ProviderRekognition
}
