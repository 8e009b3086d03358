package types

import "time"

// Region is a named area of the network shown on the dashboard
type Region string

const (
	RegionDouala    Region = "Douala"
	RegionYaounde   Region = "Yaoundé"
	RegionBamenda   Region = "Bamenda"
	RegionBafoussam Region = "Bafoussam"
	RegionGaroua    Region = "Garoua"
	RegionOthers    Region = "Others"
)

// AllRegions returns all defined regions
var AllRegions = []Region{
	RegionDouala,
	RegionYaounde,
	RegionBamenda,
	RegionBafoussam,
	RegionGaroua,
	RegionOthers,
}

// RegionGroupMapping maps the group slug found in identity tokens to regions.
// "Others" has no slug and is only visible to admins.
var RegionGroupMapping = map[string]Region{
	"douala":    RegionDouala,
	"yaounde":   RegionYaounde,
	"bamenda":   RegionBamenda,
	"bafoussam": RegionBafoussam,
	"garoua":    RegionGaroua,
}

// ComplaintDay holds the complaint counts for one day
type ComplaintDay struct {
	Day     string `json:"day" yaml:"day"`
	Total   int    `json:"total" yaml:"total"`
	Social  int    `json:"social" yaml:"social"`
	Calls   int    `json:"calls" yaml:"calls"`
	Billing int    `json:"billing" yaml:"billing"`
}

// MetricCategory names one of the network metric summaries
type MetricCategory string

const (
	MetricSignal     MetricCategory = "signal"
	MetricLatency    MetricCategory = "latency"
	MetricThroughput MetricCategory = "throughput"
	MetricErrorRate  MetricCategory = "errorRate"
)

// AllMetricCategories lists the network metric categories in display order
var AllMetricCategories = []MetricCategory{
	MetricSignal,
	MetricLatency,
	MetricThroughput,
	MetricErrorRate,
}

// NetworkMetric summarizes a single network metric over a week.
// Average is supplied independently of Daily and is not its mean.
type NetworkMetric struct {
	Average float64   `json:"average" yaml:"average"`
	Trend   float64   `json:"trend" yaml:"trend"`
	Daily   []float64 `json:"daily" yaml:"daily"`
}

// NetworkMetrics groups the four network metric summaries
type NetworkMetrics struct {
	Signal     NetworkMetric `json:"signal" yaml:"signal"`         // dBm
	Latency    NetworkMetric `json:"latency" yaml:"latency"`       // ms
	Throughput NetworkMetric `json:"throughput" yaml:"throughput"` // Mbps
	ErrorRate  NetworkMetric `json:"errorRate" yaml:"errorRate"`   // %
}

// Category returns the summary for the given category
func (n NetworkMetrics) Category(c MetricCategory) (NetworkMetric, bool) {
	switch c {
	case MetricSignal:
		return n.Signal, true
	case MetricLatency:
		return n.Latency, true
	case MetricThroughput:
		return n.Throughput, true
	case MetricErrorRate:
		return n.ErrorRate, true
	}
	return NetworkMetric{}, false
}

// LocationComplaints is the complaint share of a single region
type LocationComplaints struct {
	Name       Region `json:"name" yaml:"name"`
	Complaints int    `json:"complaints" yaml:"complaints"`
	Percentage int    `json:"percentage" yaml:"percentage"`
}

// Satisfaction tracks customer satisfaction over recent months
type Satisfaction struct {
	Current int   `json:"current" yaml:"current"`
	Trend   int   `json:"trend" yaml:"trend"`
	Monthly []int `json:"monthly" yaml:"monthly"`
}

// CategoryScore is the rating of a single feedback category
type CategoryScore struct {
	Score float64 `json:"score" yaml:"score"`
	Trend float64 `json:"trend" yaml:"trend"`
}

// FeedbackSummary aggregates customer feedback
type FeedbackSummary struct {
	Overall      float64                  `json:"overall" yaml:"overall"`
	Total        int                      `json:"total" yaml:"total"`
	Breakdown    map[int]int              `json:"breakdown" yaml:"breakdown"` // star rating -> percentage
	Satisfaction Satisfaction             `json:"satisfaction" yaml:"satisfaction"`
	Categories   map[string]CategoryScore `json:"categories" yaml:"categories"`
}

// ReportType groups reports. It is an open set of labels.
type ReportType string

const (
	ReportNetwork ReportType = "network"
	ReportUser    ReportType = "user"
	ReportDevice  ReportType = "device"
)

// ReportMetric is a single headline figure of a report
type ReportMetric struct {
	Value float64 `json:"value" yaml:"value"`
	Trend float64 `json:"trend" yaml:"trend"`
}

// Report is a published analysis report. Date is free text as displayed.
type Report struct {
	ID          string                  `json:"id" yaml:"id"`
	Title       string                  `json:"title" yaml:"title"`
	Description string                  `json:"description" yaml:"description"`
	Date        string                  `json:"date" yaml:"date"`
	Type        ReportType              `json:"type" yaml:"type"`
	Metrics     map[string]ReportMetric `json:"metrics" yaml:"metrics"`
}

// Snapshot bundles every dashboard dataset
type Snapshot struct {
	GeneratedAt     time.Time            `json:"generatedAt" yaml:"generatedAt"`
	ComplaintsByDay []ComplaintDay       `json:"complaintsByDay" yaml:"complaintsByDay"`
	NetworkMetrics  NetworkMetrics       `json:"networkMetrics" yaml:"networkMetrics"`
	Locations       []LocationComplaints `json:"locations" yaml:"locations"`
	Feedback        FeedbackSummary      `json:"feedback" yaml:"feedback"`
	Reports         []Report             `json:"reports" yaml:"reports"`
}
