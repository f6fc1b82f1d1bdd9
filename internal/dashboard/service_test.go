package dashboard

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/secops-dashboard/internal/model"
	"github.com/yourorg/secops-dashboard/internal/source"
)

// fakeSource serves canned collections and optional per-domain failures,
// honoring the limit contract like the real repositories do.
type fakeSource struct {
	scans     []model.Scan
	vulns     []model.Vulnerability
	assets    []model.Asset
	checks    []model.MonitoringCheck
	audits    []model.ComplianceAudit
	incidents []model.Incident
	modules   []model.TrainingModule

	failVulns  bool
	failAudits bool
	failChecks bool
}

func capped[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func (f *fakeSource) Scans(_ context.Context, limit int) ([]model.Scan, error) {
	return capped(f.scans, limit), nil
}

func (f *fakeSource) Vulnerabilities(_ context.Context, limit int) ([]model.Vulnerability, error) {
	if f.failVulns {
		return nil, &source.FetchError{Op: "vulnerabilities", Err: errors.New("boom")}
	}
	return capped(f.vulns, limit), nil
}

func (f *fakeSource) Assets(_ context.Context, limit int) ([]model.Asset, error) {
	return capped(f.assets, limit), nil
}

func (f *fakeSource) Checks(_ context.Context, limit int) ([]model.MonitoringCheck, error) {
	if f.failChecks {
		return nil, &source.FetchError{Op: "monitoring_checks", Err: errors.New("boom")}
	}
	return capped(f.checks, limit), nil
}

func (f *fakeSource) Audits(_ context.Context, limit int) ([]model.ComplianceAudit, error) {
	if f.failAudits {
		return nil, &source.FetchError{Op: "compliance_audits", Err: errors.New("boom")}
	}
	return capped(f.audits, limit), nil
}

func (f *fakeSource) Incidents(_ context.Context, limit int) ([]model.Incident, error) {
	return capped(f.incidents, limit), nil
}

func (f *fakeSource) TrainingModules(_ context.Context, limit int) ([]model.TrainingModule, error) {
	return capped(f.modules, limit), nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestService(src source.DataSource) *Service {
	svc := New(src, quietLogger())
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func at(h int) time.Time {
	return time.Date(2026, 3, 1, h, 0, 0, 0, time.UTC)
}

func TestHeadlineMetrics(t *testing.T) {
	src := &fakeSource{
		vulns: []model.Vulnerability{
			{Severity: model.SeverityCritical},
			{Severity: model.SeverityCritical},
			{Severity: model.SeverityLow},
		},
		incidents: []model.Incident{
			{Status: model.IncidentStatusOpen},
			{Status: model.IncidentStatusClosed},
		},
		audits: []model.ComplianceAudit{
			{Framework: "SOC 2", Status: model.AuditStatusCompliant, Score: 92.4},
		},
		modules: []model.TrainingModule{
			{Status: model.ModuleStatusActive, CompletionRate: 86.6},
		},
	}
	m := newTestService(src).Metrics(context.Background())
	assert.Equal(t, 2, m.ActiveThreats)
	assert.Equal(t, 1, m.OpenIncidents)
	assert.Equal(t, 92, m.ComplianceScore)
	assert.Equal(t, 87, m.TrainingCompletion)
	assert.False(t, m.LastUpdated.IsZero())
}

func TestHeadlineMetricsDegradePerDomain(t *testing.T) {
	src := &fakeSource{
		failVulns:  true,
		failAudits: true,
		incidents: []model.Incident{
			{Status: model.IncidentStatusOpen},
		},
		modules: []model.TrainingModule{
			{Status: model.ModuleStatusActive, CompletionRate: 90},
		},
	}
	m := newTestService(src).Metrics(context.Background())
	// failed domains fall back to zero, the rest still compute
	assert.Equal(t, 0, m.ActiveThreats)
	assert.Equal(t, 0, m.ComplianceScore)
	assert.Equal(t, 1, m.OpenIncidents)
	assert.Equal(t, 90, m.TrainingCompletion)
}

func TestHeadlineScoresClamped(t *testing.T) {
	src := &fakeSource{
		audits: []model.ComplianceAudit{
			{Framework: "X", Status: model.AuditStatusCompliant, Score: 100},
		},
		modules: []model.TrainingModule{
			{Status: model.ModuleStatusActive, CompletionRate: 150, TotalEnrolled: 1, TotalCompleted: 5},
		},
	}
	m := newTestService(src).Metrics(context.Background())
	assert.LessOrEqual(t, m.ComplianceScore, 100)
	assert.LessOrEqual(t, m.TrainingCompletion, 100)
	assert.GreaterOrEqual(t, m.ComplianceScore, 0)
}

func TestActivityTimelineMergesAndSorts(t *testing.T) {
	desc := "desc"
	src := &fakeSource{
		vulns: []model.Vulnerability{
			{ID: "v1", Title: "SQL injection", Severity: model.SeverityCritical, Description: &desc, CreatedAt: at(10)},
			{ID: "v2", Title: "Weak cipher", Severity: model.SeverityLow, CreatedAt: at(6)},
		},
		incidents: []model.Incident{
			{ID: "i1", Title: "Phishing wave", Status: model.IncidentStatusOpen, DetectedAt: at(9)},
		},
		audits: []model.ComplianceAudit{
			{ID: "a1", Framework: "SOC 2", Requirement: "Access review", Status: model.AuditStatusCompliant, LastAudit: at(8)},
			{ID: "a2", Framework: "PCI DSS", Requirement: "Segmentation", Status: model.AuditStatusPartial, LastAudit: at(11)},
		},
	}
	feed := newTestService(src).ActivityTimeline(context.Background(), 20)
	require.Len(t, feed, 5)

	assert.True(t, sort.SliceIsSorted(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	}))

	assert.Equal(t, "audit-a2", feed[0].ID)
	assert.Equal(t, "In Progress", feed[0].Status)
	assert.Equal(t, "vuln-v1", feed[1].ID)
	assert.Equal(t, "Warning", feed[1].Status)
	assert.Equal(t, "Critical vulnerability detected: SQL injection", feed[1].Description)
	assert.Equal(t, "incident-i1", feed[2].ID)
	assert.Equal(t, "In Progress", feed[2].Status)
	assert.Equal(t, "audit-a1", feed[3].ID)
	assert.Equal(t, "Success", feed[3].Status)
	assert.Equal(t, "vuln-v2", feed[4].ID)
	assert.Equal(t, "Success", feed[4].Status)
}

func TestActivityTimelineRespectsLimit(t *testing.T) {
	src := &fakeSource{}
	for h := 0; h < 12; h++ {
		src.vulns = append(src.vulns, model.Vulnerability{ID: "v", Severity: model.SeverityLow, CreatedAt: at(h)})
		src.incidents = append(src.incidents, model.Incident{ID: "i", Status: model.IncidentStatusClosed, DetectedAt: at(h)})
		src.audits = append(src.audits, model.ComplianceAudit{ID: "a", Status: model.AuditStatusCompliant, LastAudit: at(h)})
	}
	feed := newTestService(src).ActivityTimeline(context.Background(), 7)
	assert.LessOrEqual(t, len(feed), 7)
}

func TestActivityTimelineDegradesPerDomain(t *testing.T) {
	src := &fakeSource{
		failVulns: true,
		incidents: []model.Incident{
			{ID: "i1", Title: "Only survivor", Status: model.IncidentStatusOpen, DetectedAt: at(5)},
		},
		failAudits: true,
	}
	feed := newTestService(src).ActivityTimeline(context.Background(), 20)
	require.Len(t, feed, 1)
	assert.Equal(t, "incident-i1", feed[0].ID)
}

func TestSecurityPostureDegradesToEmptyBuckets(t *testing.T) {
	src := &fakeSource{failVulns: true}
	posture := newTestService(src).SecurityPosture(context.Background())
	require.Len(t, posture, 5)
	for _, b := range posture {
		assert.Zero(t, b.Value)
	}
}

func TestAgentStatus(t *testing.T) {
	src := &fakeSource{
		scans: []model.Scan{
			{Status: model.ScanStatusRunning, StartedAt: at(11)},
		},
		checks: []model.MonitoringCheck{
			{Status: model.CheckStatusHealthy, LastCheck: at(10)},
		},
		audits: []model.ComplianceAudit{
			{Status: model.AuditStatusCompliant, LastAudit: at(9)},
		},
		modules: []model.TrainingModule{
			{Status: model.ModuleStatusDraft, UpdatedAt: at(8)},
		},
		incidents: []model.Incident{
			{Status: model.IncidentStatusClosed, DetectedAt: at(7)},
		},
	}
	agents := newTestService(src).AgentStatus(context.Background())
	require.Len(t, agents, 5)

	byName := map[string]AgentStatus{}
	for _, a := range agents {
		byName[a.Name] = a
	}
	assert.Equal(t, "Active", byName["Scanner"].Status)
	assert.Equal(t, at(11), byName["Scanner"].LastActivity)
	assert.Equal(t, "Active", byName["Monitoring"].Status)
	assert.Equal(t, "Active", byName["Compliance"].Status)
	// no active module and no open incident means Idle
	assert.Equal(t, "Idle", byName["Training"].Status)
	assert.Equal(t, "Idle", byName["Incidents"].Status)
	assert.Equal(t, at(7), byName["Incidents"].LastActivity)
}

func TestAgentStatusEmptyDomainsDefaultToNow(t *testing.T) {
	svc := newTestService(&fakeSource{})
	agents := svc.AgentStatus(context.Background())
	require.Len(t, agents, 5)
	for _, a := range agents {
		assert.Equal(t, "Idle", a.Status)
		assert.Equal(t, svc.now(), a.LastActivity)
	}
}

func TestRecentAlerts(t *testing.T) {
	desc := "stack traces leak paths"
	src := &fakeSource{
		vulns: []model.Vulnerability{
			{ID: "v1", Title: "Verbose errors", Severity: model.SeverityMedium, Description: &desc, CreatedAt: at(4)},
			{ID: "v2", Title: "Old kernel", Severity: model.SeverityHigh, CreatedAt: at(3)},
		},
	}
	alerts := newTestService(src).RecentAlerts(context.Background(), 10)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Medium", alerts[0].Severity)
	assert.Equal(t, "Scanner", alerts[0].Source)
	assert.Equal(t, desc, alerts[0].Description)
	assert.Equal(t, "", alerts[1].Description)
}

func TestSnapshotAssemblesEverything(t *testing.T) {
	src := &fakeSource{
		vulns: []model.Vulnerability{
			{ID: "v1", Title: "Finding", Severity: model.SeverityCritical, CreatedAt: at(1)},
		},
		incidents: []model.Incident{
			{ID: "i1", Title: "Incident", Status: model.IncidentStatusOpen, DetectedAt: at(2)},
		},
	}
	snap := newTestService(src).Snapshot(context.Background())
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.Metrics.ActiveThreats)
	assert.Len(t, snap.Posture, 5)
	assert.Len(t, snap.Agents, 5)
	assert.NotEmpty(t, snap.Timeline)
	assert.NotEmpty(t, snap.Alerts)
}

func TestRefresherPublishesState(t *testing.T) {
	svc := newTestService(&fakeSource{})
	r := NewRefresher(svc, time.Minute, quietLogger())

	initial := r.State()
	assert.Nil(t, initial.Snapshot)
	assert.Nil(t, initial.LastUpdated)

	r.Refresh(context.Background())
	state := r.State()
	require.NotNil(t, state.Snapshot)
	assert.False(t, state.Loading)
	require.NotNil(t, state.LastUpdated)
}
