package metrics

import (
	"time"

	"github.com/yourorg/secops-dashboard/internal/model"
)

type ScannerMetrics struct {
	TotalScans              int        `json:"totalScans"`
	ActiveScans             int        `json:"activeScans"`
	TotalVulnerabilities    int        `json:"totalVulnerabilities"`
	CriticalVulnerabilities int        `json:"criticalVulnerabilities"`
	HighVulnerabilities     int        `json:"highVulnerabilities"`
	AssetsMonitored         int        `json:"assetsMonitored"`
	LastScanTime            *time.Time `json:"lastScanTime"`
}

// Scanner summarizes the scan, vulnerability, and asset collections.
// LastScanTime is the latest completion timestamp, nil when no scan has
// finished yet.
func Scanner(scans []model.Scan, vulns []model.Vulnerability, assets []model.Asset) ScannerMetrics {
	m := ScannerMetrics{
		TotalScans:           len(scans),
		TotalVulnerabilities: len(vulns),
		AssetsMonitored:      len(assets),
	}
	for _, s := range scans {
		if s.Status == model.ScanStatusRunning {
			m.ActiveScans++
		}
		if s.CompletedAt != nil && (m.LastScanTime == nil || s.CompletedAt.After(*m.LastScanTime)) {
			t := *s.CompletedAt
			m.LastScanTime = &t
		}
	}
	for _, v := range vulns {
		switch v.Severity {
		case model.SeverityCritical:
			m.CriticalVulnerabilities++
		case model.SeverityHigh:
			m.HighVulnerabilities++
		}
	}
	return m
}

// SeverityBucket is one slice of the posture chart. All five buckets are
// always emitted, zero or not, so the chart shape is stable.
type SeverityBucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// SeverityDistribution counts vulnerabilities into the five fixed severity
// buckets with their display colors.
func SeverityDistribution(vulns []model.Vulnerability) []SeverityBucket {
	counts := map[model.Severity]int{}
	for _, v := range vulns {
		counts[v.Severity]++
	}
	return []SeverityBucket{
		{Name: "Critical", Value: counts[model.SeverityCritical], Color: "#ef4444"},
		{Name: "High", Value: counts[model.SeverityHigh], Color: "#f97316"},
		{Name: "Medium", Value: counts[model.SeverityMedium], Color: "#eab308"},
		{Name: "Low", Value: counts[model.SeverityLow], Color: "#3b82f6"},
		{Name: "Info", Value: counts[model.SeverityInfo], Color: "#6b7280"},
	}
}
