// Package main classifies report images after S3 upload and merges the
// result into the report document.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cleantown/cleantown/internal/awsutil"
	"github.com/cleantown/cleantown/internal/classifier"
	"github.com/cleantown/cleantown/internal/config"
	"github.com/cleantown/cleantown/internal/labels"
	"github.com/cleantown/cleantown/internal/metrics"
	"github.com/cleantown/cleantown/internal/reports"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// App holds the application state, including configuration and the classifier.
type App struct {
	cfg        *config.Config
	classifier *classifier.Classifier
}

// main initializes the app and starts the Lambda handler.
func main() {
	cfg := config.Load()
	if err := cfg.ValidateClassifier(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	awsConfig, endpoint, err := awsutil.Load(context.Background(), cfg.AWSRegion)
	if err != nil {
		log.Fatal(err)
	}

	s3c := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true // localstack/dev friendliness
		}
	})

	provider, err := buildLabelsProvider(cfg, awsConfig)
	if err != nil {
		log.Fatalf("Failed to initialize labels provider: %v", err)
	}
	log.Printf("[Classifier] Labels provider: %s", provider.Name())

	repo := &reports.Repo{
		DB:    dynamodb.NewFromConfig(awsConfig),
		Table: cfg.ReportsTable,
	}

	app := &App{
		cfg: cfg,
		classifier: classifier.New(
			provider,
			repo,
			cfg.ReportsPrefix,
			metrics.NewNoopMetrics(),
			classifier.WithInspector(classifier.NewS3Inspector(s3c)),
		),
	}
	lambda.Start(app.handler)
}

// buildLabelsProvider selects the label-detection backend from configuration.
func buildLabelsProvider(cfg *config.Config, awsConfig aws.Config) (labels.Provider, error) {
	switch cfg.LabelsProviderMode {
	case config.LabelsProviderHTTPAPI:
		return labels.NewHTTPProvider(cfg)
	case config.LabelsProviderRekognition:
		return labels.NewRekognitionProvider(rekognition.NewFromConfig(awsConfig)), nil
	default:
		return nil, fmt.Errorf("unknown labels provider: %s", cfg.LabelsProviderMode)
	}
}

// handler processes S3 event records. Failed records propagate an error so
// the platform can retry the event; processing still attempts every record.
func (a *App) handler(ctx context.Context, ev events.S3Event) error {
	var errs []error
	for _, rec := range ev.Records {
		if err := a.processS3Record(ctx, rec); err != nil {
			log.Printf("classifier: process error: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// processS3Record handles a single S3 event record under the trigger's
// wall-clock budget.
func (a *App) processS3Record(ctx context.Context, record events.S3EventRecord) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.TriggerTimeout)
	defer cancel()

	bucket := record.S3.Bucket.Name
	key := record.S3.Object.Key
	return a.classifier.ProcessObject(ctx, bucket, key)
}
