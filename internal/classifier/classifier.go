// Package classifier turns report image uploads into category classifications.
package classifier

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cleantown/cleantown/internal/classify"
	"github.com/cleantown/cleantown/internal/labels"
	"github.com/cleantown/cleantown/internal/metrics"
	"github.com/cleantown/cleantown/internal/reports"
)

const (
	// minLabelScore filters weak detections; strictly-greater comparison.
	minLabelScore = 0.5
	// maxLabels caps how many labels are stored on the report.
	maxLabels = 6
)

// Store persists the classification result onto a report document.
type Store interface {
	MergeAI(ctx context.Context, reportID string, result reports.AIResult) error
}

// Inspector reports an object's content type, empty when unknown.
type Inspector interface {
	ContentType(ctx context.Context, bucket, key string) (string, error)
}

// Classifier processes upload events: gate by key prefix, detect labels,
// map to a category, merge the result into the report document.
type Classifier struct {
	provider  labels.Provider
	store     Store
	prefix    string
	inspector Inspector // optional content-type guard
	metrics   metrics.Recorder
}

// Option configures a Classifier
type Option func(*Classifier)

// WithInspector enables the content-type guard: objects whose content type
// is known and not image/* are skipped before labeling.
func WithInspector(i Inspector) Option {
	return func(c *Classifier) {
		c.inspector = i
	}
}

// New creates a classifier.
func New(
	provider labels.Provider,
	store Store,
	prefix string,
	m metrics.Recorder,
	opts ...Option,
) *Classifier {
	c := &Classifier{
		provider: provider,
		store:    store,
		prefix:   prefix,
		metrics:  m,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessObject classifies a single uploaded object. Objects outside the
// configured prefix, and keys that yield no report id, are skipped silently.
// Labeling and store errors propagate so the invoking platform can retry.
func (c *Classifier) ProcessObject(ctx context.Context, bucket, rawKey string) error {
	start := time.Now()

	// Event keys arrive URL-encoded.
	key, err := url.QueryUnescape(rawKey)
	if err != nil {
		key = rawKey
	}

	if !strings.HasPrefix(key, c.prefix) {
		log.Printf("[Classifier] Skipping %s: outside prefix %s", key, c.prefix)
		c.metrics.RecordClassification(metrics.ResultSkipped, time.Since(start))
		return nil
	}

	reportID := deriveReportID(key)
	if reportID == "" {
		log.Printf("[Classifier] Skipping %s: no report id in key", key)
		c.metrics.RecordClassification(metrics.ResultSkipped, time.Since(start))
		return nil
	}

	if c.inspector != nil {
		ct, err := c.inspector.ContentType(ctx, bucket, key)
		switch {
		case err != nil:
			// Guard is best effort; the labeling service does its own
			// validation of what it is given.
			log.Printf("[Classifier] Content-type check failed for %s: %v", key, err)
		case ct != "" && !strings.HasPrefix(ct, "image/"):
			log.Printf("[Classifier] Skipping %s: content-type %s is not an image", key, ct)
			c.metrics.RecordClassification(metrics.ResultSkipped, time.Since(start))
			return nil
		}
	}

	detectStart := time.Now()
	detected, err := c.provider.DetectLabels(ctx, bucket, key)
	c.metrics.RecordLabelDetection(c.provider.Name(), time.Since(detectStart))
	if err != nil {
		c.metrics.RecordClassification(metrics.ResultError, time.Since(start))
		return fmt.Errorf("detect labels for %s: %w", key, err)
	}

	names := filterLabels(detected)
	category := classify.Categorize(names)

	result := reports.AIResult{
		Category:  category,
		Labels:    names,
		Timestamp: reports.NowISO(),
	}
	if err := c.store.MergeAI(ctx, reportID, result); err != nil {
		c.metrics.RecordClassification(metrics.ResultError, time.Since(start))
		return err
	}

	log.Printf("[Classifier] Classified report %s as %q (%d labels, provider %s)",
		reportID, category, len(names), c.provider.Name())
	c.metrics.RecordClassification(metrics.ResultSuccess, time.Since(start))
	return nil
}

// deriveReportID takes the final path segment and strips its extension.
// "reports/abc123.jpg" yields "abc123".
func deriveReportID(key string) string {
	base := key[strings.LastIndex(key, "/")+1:]
	return strings.TrimSuffix(base, path.Ext(base))
}

// filterLabels keeps labels with a non-empty name and score strictly above
// the threshold, capped to the first maxLabels survivors in service order.
func filterLabels(detected []labels.Label) []string {
	names := make([]string, 0, maxLabels)
	for _, l := range detected {
		if l.Name == "" || l.Score <= minLabelScore {
			continue
		}
		names = append(names, l.Name)
		if len(names) == maxLabels {
			break
		}
	}
	return names
}
