package types

import "testing"

func TestNetworkMetricsCategory(t *testing.T) {
	m := NetworkMetrics{
		Signal:     NetworkMetric{Average: 1},
		Latency:    NetworkMetric{Average: 2},
		Throughput: NetworkMetric{Average: 3},
		ErrorRate:  NetworkMetric{Average: 4},
	}

	for i, c := range AllMetricCategories {
		got, ok := m.Category(c)
		if !ok {
			t.Errorf("expected category %s to exist", c)
			continue
		}
		if got.Average != float64(i+1) {
			t.Errorf("%s: expected average %d, got %v", c, i+1, got.Average)
		}
	}

	if _, ok := m.Category("jitter"); ok {
		t.Error("expected unknown category to be rejected")
	}
}

func TestRegionGroupMapping(t *testing.T) {
	for slug, region := range RegionGroupMapping {
		if region == RegionOthers {
			t.Errorf("slug %s must not map to %s", slug, RegionOthers)
		}
	}
	if len(RegionGroupMapping) != len(AllRegions)-1 {
		t.Errorf("expected a slug for every named region, got %d", len(RegionGroupMapping))
	}
}

func TestNewSnapshotMessage(t *testing.T) {
	s := &Snapshot{}
	msg := NewSnapshotMessage(s)

	if msg.Type != "snapshot" {
		t.Errorf("expected type snapshot, got %s", msg.Type)
	}
	if msg.Snapshot != s {
		t.Error("expected message to carry the snapshot")
	}
}
