package metrics

import (
	"math"

	"github.com/yourorg/secops-dashboard/internal/model"
)

type MonitoringMetrics struct {
	Total    int `json:"total"`
	Healthy  int `json:"healthy"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
	// AvgResponseTime is in milliseconds, rounded to the nearest integer.
	AvgResponseTime float64 `json:"avgResponseTime"`
	AvgUptime       float64 `json:"avgUptime"`
}

// Monitoring summarizes the check collection. With no checks at all uptime
// reports 100, not 0: the absence of data is treated as fully up.
func Monitoring(checks []model.MonitoringCheck) MonitoringMetrics {
	m := MonitoringMetrics{Total: len(checks)}
	if len(checks) == 0 {
		m.AvgUptime = 100
		return m
	}

	var respSum, uptimeSum float64
	for _, c := range checks {
		switch c.Status {
		case model.CheckStatusHealthy:
			m.Healthy++
		case model.CheckStatusWarning:
			m.Warning++
		case model.CheckStatusCritical:
			m.Critical++
		}
		respSum += c.ResponseTime
		uptimeSum += c.UptimePercentage
	}
	m.AvgResponseTime = math.Round(respSum / float64(len(checks)))
	m.AvgUptime = clampPercent(math.Round(uptimeSum/float64(len(checks))*100) / 100)
	return m
}
