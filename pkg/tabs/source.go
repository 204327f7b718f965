// Package tabs reads the title and URL of open browser tabs.
package tabs

import (
	"context"

	"urlcopier/pkg/models"
)

// Source captures tabs at invocation time. Both methods are read-only.
// An empty capture is a no-op for callers, not an error.
type Source interface {
	// Active returns the focused tab; ok is false when no tab is open.
	Active(ctx context.Context) (rec models.CaptureRecord, ok bool, err error)
	// All returns every tab of the focused window. The order is whatever the
	// backend reports; DevToolsSource yields most recently focused first.
	All(ctx context.Context) ([]models.CaptureRecord, error)
}

// StaticSource serves a fixed list of records; the first is the active tab.
type StaticSource struct {
	Records []models.CaptureRecord
}

var _ Source = StaticSource{}

func NewStaticSource(records ...models.CaptureRecord) StaticSource {
	return StaticSource{Records: records}
}

func (s StaticSource) Active(ctx context.Context) (models.CaptureRecord, bool, error) {
	if len(s.Records) == 0 {
		return models.CaptureRecord{}, false, nil
	}
	return s.Records[0], true, nil
}

func (s StaticSource) All(ctx context.Context) ([]models.CaptureRecord, error) {
	out := make([]models.CaptureRecord, len(s.Records))
	copy(out, s.Records)
	return out, nil
}
