// Package store persists validation metrics to an external object store.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// metricsContentType is the content type for persisted metrics documents.
const metricsContentType = "application/json"

// MetricsStore accepts JSON metrics documents keyed by name.
// Implementations must be safe for concurrent use.
type MetricsStore interface {
	// Put stores the payload under the given key.
	Put(ctx context.Context, key string, payload []byte) error
}

// MetricsKey builds the object key for a validation run:
// validation-metrics/{timestamp}_{filename}.json
func MetricsKey(ts time.Time, videoPath string) string {
	return fmt.Sprintf("validation-metrics/%s_%s.json",
		ts.UTC().Format("20060102_150405"),
		filepath.Base(videoPath))
}

// NullStore discards all metrics. Used when persistence is disabled.
type NullStore struct{}

// Put discards the payload.
func (NullStore) Put(context.Context, string, []byte) error {
	return nil
}
