// Package dashboard combines the per-domain aggregates into the composite
// views the UI renders: headline metrics, the merged activity feed, posture,
// and agent status. Every per-domain fetch is guarded independently so one
// failing domain degrades to its zero value instead of failing the composite.
package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourorg/secops-dashboard/internal/format"
	"github.com/yourorg/secops-dashboard/internal/metrics"
	"github.com/yourorg/secops-dashboard/internal/model"
	"github.com/yourorg/secops-dashboard/internal/source"
)

type Service struct {
	src source.DataSource
	log *logrus.Logger
	now func() time.Time
}

func New(src source.DataSource, log *logrus.Logger) *Service {
	return &Service{src: src, log: log, now: time.Now}
}

// HeadlineMetrics are the four top-level KPIs on the main view.
type HeadlineMetrics struct {
	ActiveThreats      int       `json:"activeThreats"`
	OpenIncidents      int       `json:"openIncidents"`
	ComplianceScore    int       `json:"complianceScore"`
	TrainingCompletion int       `json:"trainingCompletion"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

type Alert struct {
	ID          string    `json:"id"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

type Activity struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Agent       string    `json:"agent"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

type AgentStatus struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	LastActivity time.Time `json:"lastActivity"`
}

// Metrics computes the headline KPIs. Each domain is fetched and summarized
// independently; a failed domain contributes its zero value.
func (s *Service) Metrics(ctx context.Context) HeadlineMetrics {
	var (
		scanner    metrics.ScannerMetrics
		incidents  metrics.IncidentMetrics
		compliance metrics.ComplianceMetrics
		training   metrics.TrainingMetrics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.ScannerMetrics(gctx)
		if err != nil {
			s.log.WithError(err).Warn("headline: scanner metrics degraded to zero")
			return nil
		}
		scanner = m
		return nil
	})
	g.Go(func() error {
		m, err := s.IncidentMetrics(gctx)
		if err != nil {
			s.log.WithError(err).Warn("headline: incident metrics degraded to zero")
			return nil
		}
		incidents = m
		return nil
	})
	g.Go(func() error {
		m, err := s.ComplianceMetrics(gctx)
		if err != nil {
			s.log.WithError(err).Warn("headline: compliance metrics degraded to zero")
			return nil
		}
		compliance = m
		return nil
	})
	g.Go(func() error {
		m, err := s.TrainingMetrics(gctx)
		if err != nil {
			s.log.WithError(err).Warn("headline: training metrics degraded to zero")
			return nil
		}
		training = m
		return nil
	})
	_ = g.Wait()

	return HeadlineMetrics{
		ActiveThreats:      scanner.CriticalVulnerabilities,
		OpenIncidents:      incidents.Open,
		ComplianceScore:    clampScore(compliance.OverallScore),
		TrainingCompletion: clampScore(training.AvgCompletionRate),
		LastUpdated:        s.now(),
	}
}

// RecentAlerts maps the newest vulnerabilities onto the alert card list.
func (s *Service) RecentAlerts(ctx context.Context, limit int) []Alert {
	vulns, err := s.src.Vulnerabilities(ctx, limit)
	if err != nil {
		s.log.WithError(err).Warn("recent alerts unavailable")
		return []Alert{}
	}
	alerts := make([]Alert, 0, len(vulns))
	for _, v := range vulns {
		desc := ""
		if v.Description != nil {
			desc = *v.Description
		}
		alerts = append(alerts, Alert{
			ID:          v.ID,
			Severity:    format.Title(string(v.Severity)),
			Title:       v.Title,
			Source:      "Scanner",
			Timestamp:   v.CreatedAt,
			Description: desc,
		})
	}
	return alerts
}

// ActivityTimeline merges the most recent vulnerabilities, incidents, and
// audits into one reverse-chronological feed. Each domain contributes at most
// ceil(limit/3) entries; ties keep input order (vulnerabilities, incidents,
// audits).
func (s *Service) ActivityTimeline(ctx context.Context, limit int) []Activity {
	if limit <= 0 {
		limit = 20
	}
	perDomain := (limit + 2) / 3

	var (
		vulns     []model.Vulnerability
		incidents []model.Incident
		audits    []model.ComplianceAudit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.src.Vulnerabilities(gctx, perDomain)
		if err != nil {
			s.log.WithError(err).Warn("timeline: vulnerabilities unavailable")
			return nil
		}
		vulns = v
		return nil
	})
	g.Go(func() error {
		in, err := s.src.Incidents(gctx, perDomain)
		if err != nil {
			s.log.WithError(err).Warn("timeline: incidents unavailable")
			return nil
		}
		incidents = in
		return nil
	})
	g.Go(func() error {
		a, err := s.src.Audits(gctx, perDomain)
		if err != nil {
			s.log.WithError(err).Warn("timeline: audits unavailable")
			return nil
		}
		audits = a
		return nil
	})
	_ = g.Wait()

	activities := make([]Activity, 0, len(vulns)+len(incidents)+len(audits))
	for _, v := range vulns {
		status := "Success"
		if v.Severity == model.SeverityCritical {
			status = "Warning"
		}
		activities = append(activities, Activity{
			ID:          "vuln-" + v.ID,
			Timestamp:   v.CreatedAt,
			Agent:       "Scanner",
			Description: format.Title(string(v.Severity)) + " vulnerability detected: " + v.Title,
			Status:      status,
		})
	}
	for _, in := range incidents {
		status := "Success"
		if in.Status == model.IncidentStatusOpen {
			status = "In Progress"
		}
		activities = append(activities, Activity{
			ID:          "incident-" + in.ID,
			Timestamp:   in.DetectedAt,
			Agent:       "Incidents",
			Description: in.Title,
			Status:      status,
		})
	}
	for _, a := range audits {
		status := "In Progress"
		if a.Status == model.AuditStatusCompliant {
			status = "Success"
		}
		activities = append(activities, Activity{
			ID:          "audit-" + a.ID,
			Timestamp:   a.LastAudit,
			Agent:       "Compliance",
			Description: a.Framework + " - " + a.Requirement,
			Status:      status,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities
}

// SecurityPosture is the severity histogram of all known vulnerabilities.
func (s *Service) SecurityPosture(ctx context.Context) []metrics.SeverityBucket {
	vulns, err := s.src.Vulnerabilities(ctx, 0)
	if err != nil {
		s.log.WithError(err).Warn("posture unavailable")
		return metrics.SeverityDistribution(nil)
	}
	return metrics.SeverityDistribution(vulns)
}

// AgentStatus reports Active/Idle per domain with the most recent relevant
// timestamp, defaulting to now when a domain has no records.
func (s *Service) AgentStatus(ctx context.Context) []AgentStatus {
	var (
		scans     []model.Scan
		checks    []model.MonitoringCheck
		audits    []model.ComplianceAudit
		modules   []model.TrainingModule
		incidents []model.Incident
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.src.Scans(gctx, 1)
		if err == nil {
			scans = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := s.src.Checks(gctx, 0)
		if err == nil {
			checks = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := s.src.Audits(gctx, 0)
		if err == nil {
			audits = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := s.src.TrainingModules(gctx, 0)
		if err == nil {
			modules = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := s.src.Incidents(gctx, 0)
		if err == nil {
			incidents = v
		}
		return nil
	})
	_ = g.Wait()

	now := s.now()

	scanner := AgentStatus{ID: 1, Name: "Scanner", Status: "Idle", LastActivity: now}
	if len(scans) > 0 {
		if scans[0].Status == model.ScanStatusRunning {
			scanner.Status = "Active"
		}
		scanner.LastActivity = scans[0].StartedAt
	}

	monitoring := AgentStatus{ID: 2, Name: "Monitoring", Status: "Idle", LastActivity: now}
	if len(checks) > 0 {
		monitoring.Status = "Active"
		monitoring.LastActivity = checks[0].LastCheck
	}

	compliance := AgentStatus{ID: 3, Name: "Compliance", Status: "Idle", LastActivity: now}
	if len(audits) > 0 {
		compliance.Status = "Active"
		compliance.LastActivity = audits[0].LastAudit
	}

	training := AgentStatus{ID: 4, Name: "Training", Status: "Idle", LastActivity: now}
	if len(modules) > 0 {
		training.LastActivity = modules[0].UpdatedAt
		for _, m := range modules {
			if m.Status == model.ModuleStatusActive {
				training.Status = "Active"
				break
			}
		}
	}

	incidentAgent := AgentStatus{ID: 5, Name: "Incidents", Status: "Idle", LastActivity: now}
	if len(incidents) > 0 {
		incidentAgent.LastActivity = incidents[0].DetectedAt
		for _, in := range incidents {
			if in.Status == model.IncidentStatusOpen {
				incidentAgent.Status = "Active"
				break
			}
		}
	}

	return []AgentStatus{scanner, monitoring, compliance, training, incidentAgent}
}

// Per-domain live metrics. Unlike the composite methods these surface fetch
// errors so agent views can show an explicit error banner.

func (s *Service) ScannerMetrics(ctx context.Context) (metrics.ScannerMetrics, error) {
	var (
		scans  []model.Scan
		vulns  []model.Vulnerability
		assets []model.Asset
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.src.Scans(gctx, 0)
		scans = v
		return err
	})
	g.Go(func() error {
		v, err := s.src.Vulnerabilities(gctx, 0)
		vulns = v
		return err
	})
	g.Go(func() error {
		v, err := s.src.Assets(gctx, 0)
		assets = v
		return err
	})
	if err := g.Wait(); err != nil {
		return metrics.ScannerMetrics{}, err
	}
	return metrics.Scanner(scans, vulns, assets), nil
}

func (s *Service) MonitoringMetrics(ctx context.Context) (metrics.MonitoringMetrics, error) {
	checks, err := s.src.Checks(ctx, 0)
	if err != nil {
		return metrics.MonitoringMetrics{}, err
	}
	return metrics.Monitoring(checks), nil
}

func (s *Service) ComplianceMetrics(ctx context.Context) (metrics.ComplianceMetrics, error) {
	audits, err := s.src.Audits(ctx, 0)
	if err != nil {
		return metrics.ComplianceMetrics{}, err
	}
	return metrics.Compliance(audits), nil
}

func (s *Service) IncidentMetrics(ctx context.Context) (metrics.IncidentMetrics, error) {
	incidents, err := s.src.Incidents(ctx, 0)
	if err != nil {
		return metrics.IncidentMetrics{}, err
	}
	return metrics.Incidents(incidents), nil
}

func (s *Service) TrainingMetrics(ctx context.Context) (metrics.TrainingMetrics, error) {
	modules, err := s.src.TrainingModules(ctx, 0)
	if err != nil {
		return metrics.TrainingMetrics{}, err
	}
	return metrics.Training(modules), nil
}

func clampScore(v float64) int {
	n := int(v + 0.5)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
