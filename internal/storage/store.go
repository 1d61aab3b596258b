package storage

import (
	"context"

	"tspga/internal/model"
)

// Store persists the final records of finished runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, record model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns run summaries, newest first.
	ListRuns(ctx context.Context) ([]model.RunSummary, error)
	DeleteRun(ctx context.Context, id string) (bool, error)
}
