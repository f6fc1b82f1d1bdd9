package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourorg/secops-dashboard/internal/model"
	"github.com/yourorg/secops-dashboard/internal/source"
)

// withLimit appends a LIMIT clause when limit is positive. Queries keep their
// domain default sort either way.
func withLimit(q string, limit int) string {
	if limit > 0 {
		return fmt.Sprintf("%s LIMIT %d", q, limit)
	}
	return q
}

func (s *Store) Scans(ctx context.Context, limit int) ([]model.Scan, error) {
	rows, err := s.Pool.Query(ctx, withLimit(`
SELECT id::text, scan_type, target, status, severity_summary,
       vulnerabilities_found, assets_scanned, started_at, completed_at,
       duration_seconds, report_bucket, report_key, created_at
FROM scans
ORDER BY created_at DESC`, limit))
	if err != nil {
		return nil, &source.FetchError{Op: "scans", Err: err}
	}
	defer rows.Close()

	out := make([]model.Scan, 0)
	for rows.Next() {
		var (
			sc          model.Scan
			scanType    string
			status      string
			summaryJSON []byte
		)
		if err := rows.Scan(&sc.ID, &scanType, &sc.Target, &status, &summaryJSON,
			&sc.VulnerabilitiesFound, &sc.AssetsScanned, &sc.StartedAt, &sc.CompletedAt,
			&sc.DurationSeconds, &sc.ReportBucket, &sc.ReportKey, &sc.CreatedAt); err != nil {
			return nil, &source.FetchError{Op: "scans", Err: err}
		}
		sc.ScanType = model.ScanType(scanType)
		sc.Status = model.ScanStatus(status)
		_ = json.Unmarshal(summaryJSON, &sc.SeveritySummary)
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, &source.FetchError{Op: "scans", Err: err}
	}
	return out, nil
}

func (s *Store) ScanByID(ctx context.Context, id string) (*model.Scan, error) {
	row := s.Pool.QueryRow(ctx, `
SELECT id::text, scan_type, target, status, severity_summary,
       vulnerabilities_found, assets_scanned, started_at, completed_at,
       duration_seconds, report_bucket, report_key, created_at
FROM scans
WHERE id=$1::uuid`, id)

	var (
		sc          model.Scan
		scanType    string
		status      string
		summaryJSON []byte
	)
	if err := row.Scan(&sc.ID, &scanType, &sc.Target, &status, &summaryJSON,
		&sc.VulnerabilitiesFound, &sc.AssetsScanned, &sc.StartedAt, &sc.CompletedAt,
		&sc.DurationSeconds, &sc.ReportBucket, &sc.ReportKey, &sc.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &source.FetchError{Op: "scan", Err: err}
	}
	sc.ScanType = model.ScanType(scanType)
	sc.Status = model.ScanStatus(status)
	_ = json.Unmarshal(summaryJSON, &sc.SeveritySummary)
	return &sc, nil
}

const vulnerabilityColumns = `
SELECT id::text, scan_id::text, cve_id, title, description, severity,
       cvss_score, affected_asset, port, service, remediation, status,
       created_at, updated_at
FROM vulnerabilities`

func (s *Store) Vulnerabilities(ctx context.Context, limit int) ([]model.Vulnerability, error) {
	return s.queryVulnerabilities(ctx, withLimit(
		vulnerabilityColumns+`
ORDER BY created_at DESC`, limit))
}

// VulnerabilitiesByScan returns a scan's findings ordered most severe first.
func (s *Store) VulnerabilitiesByScan(ctx context.Context, scanID string) ([]model.Vulnerability, error) {
	return s.queryVulnerabilities(ctx, vulnerabilityColumns+`
WHERE scan_id=$1::uuid
ORDER BY CASE severity
  WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2
  WHEN 'low' THEN 3 ELSE 4 END`, scanID)
}

func (s *Store) VulnerabilitiesByStatus(ctx context.Context, status model.VulnerabilityStatus) ([]model.Vulnerability, error) {
	return s.queryVulnerabilities(ctx, vulnerabilityColumns+`
WHERE status=$1
ORDER BY CASE severity
  WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2
  WHEN 'low' THEN 3 ELSE 4 END`, string(status))
}

func (s *Store) queryVulnerabilities(ctx context.Context, query string, args ...any) ([]model.Vulnerability, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &source.FetchError{Op: "vulnerabilities", Err: err}
	}
	defer rows.Close()

	out := make([]model.Vulnerability, 0)
	for rows.Next() {
		var (
			v        model.Vulnerability
			severity string
			status   string
		)
		if err := rows.Scan(&v.ID, &v.ScanID, &v.CVEID, &v.Title, &v.Description,
			&severity, &v.CVSSScore, &v.AffectedAsset, &v.Port, &v.Service,
			&v.Remediation, &status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, &source.FetchError{Op: "vulnerabilities", Err: err}
		}
		v.Severity = model.Severity(severity)
		v.Status = model.VulnerabilityStatus(status)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &source.FetchError{Op: "vulnerabilities", Err: err}
	}
	return out, nil
}

// Assets are sorted most critical first, matching the asset table view.
func (s *Store) Assets(ctx context.Context, limit int) ([]model.Asset, error) {
	rows, err := s.Pool.Query(ctx, withLimit(`
SELECT id::text, name, type, ip_address, hostname, operating_system, location,
       criticality, last_scan_at, vulnerability_count, status, created_at, updated_at
FROM assets
ORDER BY CASE criticality
  WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END`, limit))
	if err != nil {
		return nil, &source.FetchError{Op: "assets", Err: err}
	}
	defer rows.Close()

	out := make([]model.Asset, 0)
	for rows.Next() {
		var (
			a           model.Asset
			criticality string
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.IPAddress, &a.Hostname,
			&a.OperatingSystem, &a.Location, &criticality, &a.LastScanAt,
			&a.VulnerabilityCount, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, &source.FetchError{Op: "assets", Err: err}
		}
		a.Criticality = model.Severity(criticality)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &source.FetchError{Op: "assets", Err: err}
	}
	return out, nil
}

func (s *Store) AssetByID(ctx context.Context, id string) (*model.Asset, error) {
	row := s.Pool.QueryRow(ctx, `
SELECT id::text, name, type, ip_address, hostname, operating_system, location,
       criticality, last_scan_at, vulnerability_count, status, created_at, updated_at
FROM assets
WHERE id=$1::uuid`, id)

	var (
		a           model.Asset
		criticality string
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Type, &a.IPAddress, &a.Hostname,
		&a.OperatingSystem, &a.Location, &criticality, &a.LastScanAt,
		&a.VulnerabilityCount, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &source.FetchError{Op: "asset", Err: err}
	}
	a.Criticality = model.Severity(criticality)
	return &a, nil
}

func (s *Store) Checks(ctx context.Context, limit int) ([]model.MonitoringCheck, error) {
	rows, err := s.Pool.Query(ctx, withLimit(`
SELECT id::text, check_name, check_type, target, status, last_check,
       response_time, uptime_percentage, details, created_at, updated_at
FROM monitoring_checks
ORDER BY last_check DESC`, limit))
	if err != nil {
		return nil, &source.FetchError{Op: "monitoring_checks", Err: err}
	}
	defer rows.Close()

	out := make([]model.MonitoringCheck, 0)
	for rows.Next() {
		var (
			c       model.MonitoringCheck
			status  string
			details []byte
		)
		if err := rows.Scan(&c.ID, &c.CheckName, &c.CheckType, &c.Target, &status,
			&c.LastCheck, &c.ResponseTime, &c.UptimePercentage, &details,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, &source.FetchError{Op: "monitoring_checks", Err: err}
		}
		c.Status = model.CheckStatus(status)
		c.Details = json.RawMessage(details)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &source.FetchError{Op: "monitoring_checks", Err: err}
	}
	return out, nil
}

func (s *Store) Audits(ctx context.Context, limit int) ([]model.ComplianceAudit, error) {
	rows, err := s.Pool.Query(ctx, withLimit(`
SELECT id::text, framework, requirement, status, score, evidence, last_audit,
       next_audit, owner, notes, created_at, updated_at
FROM compliance_audits
ORDER BY last_audit DESC`, limit))
	if err != nil {
		return nil, &source.FetchError{Op: "compliance_audits", Err: err}
	}
	defer rows.Close()

	out := make([]model.ComplianceAudit, 0)
	for rows.Next() {
		var (
			a      model.ComplianceAudit
			status string
		)
		if err := rows.Scan(&a.ID, &a.Framework, &a.Requirement, &status, &a.Score,
			&a.Evidence, &a.LastAudit, &a.NextAudit, &a.Owner, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, &source.FetchError{Op: "compliance_audits", Err: err}
		}
		a.Status = model.AuditStatus(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &source.FetchError{Op: "compliance_audits", Err: err}
	}
	return out, nil
}

func (s *Store) Incidents(ctx context.Context, limit int) ([]model.Incident, error) {
	rows, err := s.Pool.Query(ctx, withLimit(`
SELECT id::text, title, severity, status, category, description,
       affected_systems, detected_at, resolved_at, assigned_to, impact,
       response_actions, created_at, updated_at
FROM incidents
ORDER BY detected_at DESC`, limit))
	if err != nil {
		return nil, &source.FetchError{Op: "incidents", Err: err}
	}
	defer rows.Close()

	out := make([]model.Incident, 0)
	for rows.Next() {
		var (
			in       model.Incident
			severity string
			status   string
		)
		if err := rows.Scan(&in.ID, &in.Title, &severity, &status, &in.Category,
			&in.Description, &in.AffectedSystems, &in.DetectedAt, &in.ResolvedAt,
			&in.AssignedTo, &in.Impact, &in.ResponseActions,
			&in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, &source.FetchError{Op: "incidents", Err: err}
		}
		in.Severity = model.Severity(severity)
		in.Status = model.IncidentStatus(status)
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, &source.FetchError{Op: "incidents", Err: err}
	}
	return out, nil
}

func (s *Store) TrainingModules(ctx context.Context, limit int) ([]model.TrainingModule, error) {
	rows, err := s.Pool.Query(ctx, withLimit(`
SELECT id::text, title, category, description, duration_minutes, completion_rate,
       passing_score, status, total_enrolled, total_completed, created_at, updated_at
FROM training_modules
ORDER BY created_at DESC`, limit))
	if err != nil {
		return nil, &source.FetchError{Op: "training_modules", Err: err}
	}
	defer rows.Close()

	out := make([]model.TrainingModule, 0)
	for rows.Next() {
		var (
			m      model.TrainingModule
			status string
		)
		if err := rows.Scan(&m.ID, &m.Title, &m.Category, &m.Description,
			&m.DurationMinutes, &m.CompletionRate, &m.PassingScore, &status,
			&m.TotalEnrolled, &m.TotalCompleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, &source.FetchError{Op: "training_modules", Err: err}
		}
		m.Status = model.ModuleStatus(status)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &source.FetchError{Op: "training_modules", Err: err}
	}
	return out, nil
}
