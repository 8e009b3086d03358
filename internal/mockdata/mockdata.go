// Package mockdata holds the sample datasets for the Cameroon network
// operations dashboard. Every accessor returns a fresh deep copy so the
// package level values can never be changed by a caller.
package mockdata

import (
	"maps"
	"slices"

	"github.com/dennisdiepolder/qoe-admin/backend/internal/types"
)

var complaintsByDay = []types.ComplaintDay{
	{Day: "Mon, May 20", Total: 78, Social: 32, Calls: 28, Billing: 18},
	{Day: "Tue, May 21", Total: 92, Social: 41, Calls: 30, Billing: 21},
	{Day: "Wed, May 22", Total: 65, Social: 25, Calls: 22, Billing: 18},
	{Day: "Thu, May 23", Total: 87, Social: 38, Calls: 29, Billing: 20},
	{Day: "Fri, May 24", Total: 105, Social: 48, Calls: 35, Billing: 22},
	{Day: "Sat, May 25", Total: 70, Social: 30, Calls: 25, Billing: 15},
	{Day: "Sun, May 26", Total: 53, Social: 20, Calls: 18, Billing: 15},
}

var networkMetrics = types.NetworkMetrics{
	Signal: types.NetworkMetric{
		Average: -74.7,
		Trend:   -2.3,
		Daily:   []float64{-72.5, -73.8, -74.2, -75.1, -74.9, -75.3, -76.8},
	},
	Latency: types.NetworkMetric{
		Average: 81.9,
		Trend:   3.5,
		Daily:   []float64{78.2, 79.5, 80.1, 82.3, 83.7, 84.2, 85.1},
	},
	Throughput: types.NetworkMetric{
		Average: 156.3,
		Trend:   12.8,
		Daily:   []float64{142.5, 148.7, 152.3, 158.9, 160.2, 163.5, 168.1},
	},
	ErrorRate: types.NetworkMetric{
		Average: 2.1,
		Trend:   0.2,
		Daily:   []float64{1.8, 1.9, 2.0, 2.1, 2.2, 2.3, 2.4},
	},
}

var locations = []types.LocationComplaints{
	{Name: types.RegionDouala, Complaints: 215, Percentage: 28},
	{Name: types.RegionYaounde, Complaints: 187, Percentage: 24},
	{Name: types.RegionBamenda, Complaints: 124, Percentage: 16},
	{Name: types.RegionBafoussam, Complaints: 98, Percentage: 13},
	{Name: types.RegionGaroua, Complaints: 76, Percentage: 10},
	{Name: types.RegionOthers, Complaints: 70, Percentage: 9},
}

var feedback = types.FeedbackSummary{
	Overall: 4.2,
	Total:   2847,
	Breakdown: map[int]int{
		5: 60,
		4: 25,
		3: 10,
		2: 3,
		1: 2,
	},
	Satisfaction: types.Satisfaction{
		Current: 84,
		Trend:   5,
		Monthly: []int{76, 78, 79, 81, 82, 84},
	},
	Categories: map[string]types.CategoryScore{
		"Network Coverage": {Score: 3.8, Trend: 0.2},
		"Call Quality":     {Score: 4.1, Trend: 0.3},
		"Data Speed":       {Score: 3.9, Trend: -0.1},
		"Customer Support": {Score: 4.5, Trend: 0.4},
		"Value for Money":  {Score: 3.7, Trend: 0.1},
	},
}

var reports = []types.Report{
	{
		ID:          "npr-2024-06",
		Title:       "Network Performance Report",
		Description: "Comprehensive analysis of network performance metrics",
		Date:        "Jun 2, 2024 10:30 AM",
		Type:        types.ReportNetwork,
		Metrics: map[string]types.ReportMetric{
			"latency":    {Value: 42, Trend: -5},
			"throughput": {Value: 156, Trend: 12},
			"errorRate":  {Value: 2.1, Trend: 0.2},
		},
	},
	{
		ID:          "uea-2024-06",
		Title:       "User Engagement Analysis",
		Description: "Analysis of user engagement and satisfaction metrics",
		Date:        "Jun 1, 2024 2:15 PM",
		Type:        types.ReportUser,
		Metrics: map[string]types.ReportMetric{
			"activeUsers":    {Value: 28450, Trend: 1250},
			"avgSessionTime": {Value: 24, Trend: 3},
			"retentionRate":  {Value: 78, Trend: 2},
		},
	},
	{
		ID:          "dus-2024-05",
		Title:       "Device Usage Statistics",
		Description: "Analysis of device types and usage patterns",
		Date:        "May 30, 2024 9:45 AM",
		Type:        types.ReportDevice,
		Metrics: map[string]types.ReportMetric{
			"androidUsers": {Value: 65, Trend: 2},
			"iosUsers":     {Value: 32, Trend: -1},
			"otherUsers":   {Value: 3, Trend: -1},
		},
	},
	{
		ID:          "ctr-2024-05",
		Title:       "Coverage Troubleshooting Report",
		Description: "Analysis of coverage issues and resolution strategies",
		Date:        "May 28, 2024 11:20 AM",
		Type:        types.ReportNetwork,
		Metrics: map[string]types.ReportMetric{
			"coverageIssues":    {Value: 87, Trend: -12},
			"resolutionRate":    {Value: 92, Trend: 4},
			"avgResolutionTime": {Value: 36, Trend: -8},
		},
	},
	{
		ID:          "rtr-2024-05",
		Title:       "Regional Traffic Report",
		Description: "Analysis of network traffic by region",
		Date:        "May 25, 2024 3:45 PM",
		Type:        types.ReportNetwork,
		Metrics: map[string]types.ReportMetric{
			"doualaTraffic":       {Value: 42, Trend: 5},
			"yaoundeTraffic":      {Value: 38, Trend: 3},
			"otherRegionsTraffic": {Value: 20, Trend: -8},
		},
	},
}

// ComplaintsByDay returns the daily complaint counts, Monday first
func ComplaintsByDay() []types.ComplaintDay {
	return slices.Clone(complaintsByDay)
}

// NetworkMetrics returns the weekly network metric summaries
func NetworkMetrics() types.NetworkMetrics {
	return types.NetworkMetrics{
		Signal:     cloneMetric(networkMetrics.Signal),
		Latency:    cloneMetric(networkMetrics.Latency),
		Throughput: cloneMetric(networkMetrics.Throughput),
		ErrorRate:  cloneMetric(networkMetrics.ErrorRate),
	}
}

// Locations returns the complaint breakdown per region
func Locations() []types.LocationComplaints {
	return slices.Clone(locations)
}

// Feedback returns the customer feedback summary
func Feedback() types.FeedbackSummary {
	return types.FeedbackSummary{
		Overall:   feedback.Overall,
		Total:     feedback.Total,
		Breakdown: maps.Clone(feedback.Breakdown),
		Satisfaction: types.Satisfaction{
			Current: feedback.Satisfaction.Current,
			Trend:   feedback.Satisfaction.Trend,
			Monthly: slices.Clone(feedback.Satisfaction.Monthly),
		},
		Categories: maps.Clone(feedback.Categories),
	}
}

// Reports returns the published reports, newest first
func Reports() []types.Report {
	out := make([]types.Report, len(reports))
	for i, r := range reports {
		out[i] = r
		out[i].Metrics = maps.Clone(r.Metrics)
	}
	return out
}

func cloneMetric(m types.NetworkMetric) types.NetworkMetric {
	m.Daily = slices.Clone(m.Daily)
	return m
}
