package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// Store defines the storage interface for dashboard datasets
type Store interface {
	ComplaintsByDay(ctx context.Context) ([]types.ComplaintDay, error)
	NetworkMetrics(ctx context.Context) (types.NetworkMetrics, error)
	Locations(ctx context.Context) ([]types.LocationComplaints, error)
	Feedback(ctx context.Context) (types.FeedbackSummary, error)
	Reports(ctx context.Context) ([]types.Report, error)
	Report(ctx context.Context, id string) (types.Report, error)
	Seed(ctx context.Context, snapshot *types.Snapshot) error
}

// BuildSnapshot collects every dataset from the store
func BuildSnapshot(ctx context.Context, s Store) (*types.Snapshot, error) {
	complaints, err := s.ComplaintsByDay(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load complaints: %w", err)
	}

	metrics, err := s.NetworkMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load network metrics: %w", err)
	}

	locations, err := s.Locations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}

	feedback, err := s.Feedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	reports, err := s.Reports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}

	return &types.Snapshot{
		GeneratedAt:     time.Now().UTC(),
		ComplaintsByDay: complaints,
		NetworkMetrics:  metrics,
		Locations:       locations,
		Feedback:        feedback,
		Reports:         reports,
	}, nil
}

// findReport returns the report with the given id
func findReport(reports []types.Report, id string) (types.Report, error) {
	for _, r := range reports {
		if r.ID == id {
			return r, nil
		}
	}
	return types.Report{}, fmt.Errorf("report %q: %w", id, ErrNotFound)
}
