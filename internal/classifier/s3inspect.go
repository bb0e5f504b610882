package classifier

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3HeadAPI is the subset of the S3 client used by the inspector.
type S3HeadAPI interface {
	HeadObject(
		ctx context.Context,
		params *s3.HeadObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.HeadObjectOutput, error)
}

// S3Inspector reads object metadata to guard against non-image uploads
// reaching the label-detection service.
type S3Inspector struct {
	client S3HeadAPI
}

// NewS3Inspector creates an inspector backed by the S3 client.
func NewS3Inspector(client S3HeadAPI) *S3Inspector {
	return &S3Inspector{client: client}
}

// ContentType returns the object's lowercased content type, empty when the
// object carries none.
func (i *S3Inspector) ContentType(ctx context.Context, bucket, key string) (string, error) {
	ho, err := i.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return "", err
	}
	if ho.ContentType == nil {
		return "", nil
	}
	return strings.ToLower(*ho.ContentType), nil
}
