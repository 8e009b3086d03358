package storage

import (
	"context"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/mockdata"
	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
)

// FixtureStore serves the built-in sample data when DynamoDB is disabled
type FixtureStore struct{}

func NewFixtureStore() *FixtureStore { return &FixtureStore{} }

func (s *FixtureStore) ComplaintsByDay(_ context.Context) ([]types.ComplaintDay, error) {
	return mockdata.ComplaintsByDay(), nil
}

func (s *FixtureStore) NetworkMetrics(_ context.Context) (types.NetworkMetrics, error) {
	return mockdata.NetworkMetrics(), nil
}

func (s *FixtureStore) Locations(_ context.Context) ([]types.LocationComplaints, error) {
	return mockdata.Locations(), nil
}

func (s *FixtureStore) Feedback(_ context.Context) (types.FeedbackSummary, error) {
	return mockdata.Feedback(), nil
}

func (s *FixtureStore) Reports(_ context.Context) ([]types.Report, error) {
	return mockdata.Reports(), nil
}

func (s *FixtureStore) Report(_ context.Context, id string) (types.Report, error) {
	return findReport(mockdata.Reports(), id)
}

// Seed is a no-op: the fixture data is fixed at build time
func (s *FixtureStore) Seed(_ context.Context, _ *types.Snapshot) error { return nil }
