// Package repository stores the history of flattened metric series.
package repository

import (
	"context"

	models "github.com/Schera-ole/hostmetrics/internal/model"
)

// Repository is implemented by every history backend.
type Repository interface {
	// Append stores samples. Samples for the same series must be appended
	// in capture order.
	Append(ctx context.Context, samples []models.Sample) error

	// Latest returns the most recent sample of a series or ErrMetricNotFound.
	Latest(ctx context.Context, name string) (models.Sample, error)

	// History returns up to limit samples of a series, newest first. A
	// non-positive limit returns everything retained.
	History(ctx context.Context, name string, limit int) ([]models.Sample, error)

	// List returns the latest sample of every series, ordered by name.
	List(ctx context.Context) ([]models.Sample, error)

	Ping(ctx context.Context) error
	Close() error
}
