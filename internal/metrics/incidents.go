package metrics

import "github.com/yourorg/secops-dashboard/internal/model"

type IncidentMetrics struct {
	Total         int `json:"total"`
	Open          int `json:"open"`
	Investigating int `json:"investigating"`
	Resolved      int `json:"resolved"`
	Closed        int `json:"closed"`
	Critical      int `json:"critical"`
	High          int `json:"high"`
	Medium        int `json:"medium"`
	Low           int `json:"low"`
	// AvgResolutionTimeHours averages detected-to-resolved over resolved
	// incidents only; 0 when nothing has been resolved yet.
	AvgResolutionTimeHours float64 `json:"avgResolutionTimeHours"`
}

// Incidents summarizes the incident collection by status, severity, and mean
// time to resolution.
func Incidents(incidents []model.Incident) IncidentMetrics {
	m := IncidentMetrics{Total: len(incidents)}

	var (
		resolutionSum float64
		resolvedCount int
	)
	for _, in := range incidents {
		switch in.Status {
		case model.IncidentStatusOpen:
			m.Open++
		case model.IncidentStatusInvestigating:
			m.Investigating++
		case model.IncidentStatusResolved:
			m.Resolved++
		case model.IncidentStatusClosed:
			m.Closed++
		}
		switch in.Severity {
		case model.SeverityCritical:
			m.Critical++
		case model.SeverityHigh:
			m.High++
		case model.SeverityMedium:
			m.Medium++
		case model.SeverityLow:
			m.Low++
		}
		if in.ResolvedAt != nil {
			resolutionSum += in.ResolvedAt.Sub(in.DetectedAt).Hours()
			resolvedCount++
		}
	}
	if resolvedCount > 0 {
		m.AvgResolutionTimeHours = round1(resolutionSum / float64(resolvedCount))
	}
	return m
}
