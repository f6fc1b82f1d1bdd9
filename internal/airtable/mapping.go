package airtable

import (
	"context"
	"time"

	"github.com/yourorg/secops-dashboard/internal/model"
)

// Field accessors. Airtable omits empty fields entirely, so every optional
// column falls back to its zero value instead of erroring.

func (r record) str(key string) string {
	if v, ok := r.Fields[key].(string); ok {
		return v
	}
	return ""
}

func (r record) strPtr(key string) *string {
	if v, ok := r.Fields[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func (r record) num(key string) float64 {
	if v, ok := r.Fields[key].(float64); ok {
		return v
	}
	return 0
}

func (r record) numPtr(key string) *float64 {
	if v, ok := r.Fields[key].(float64); ok {
		return &v
	}
	return nil
}

func (r record) intPtr(key string) *int {
	if v, ok := r.Fields[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

func (r record) strs(key string) []string {
	raw, ok := r.Fields[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r record) when(key string) time.Time {
	v, ok := r.Fields[key].(string)
	if !ok {
		return r.CreatedTime
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return r.CreatedTime
	}
	return t
}

func (r record) whenPtr(key string) *time.Time {
	v, ok := r.Fields[key].(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

func (c *Client) Scans(ctx context.Context, limit int) ([]model.Scan, error) {
	records, err := c.fetchTable(ctx, "scans", "created_at", "desc", limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Scan, 0, len(records))
	for _, r := range records {
		out = append(out, model.Scan{
			ID:       r.ID,
			ScanType: model.ScanType(r.str("scan_type")),
			Target:   r.str("target"),
			Status:   model.ScanStatus(r.str("status")),
			SeveritySummary: model.SeveritySummary{
				Critical: int(r.num("critical_count")),
				High:     int(r.num("high_count")),
				Medium:   int(r.num("medium_count")),
				Low:      int(r.num("low_count")),
				Info:     int(r.num("info_count")),
			},
			VulnerabilitiesFound: int(r.num("vulnerabilities_found")),
			AssetsScanned:        int(r.num("assets_scanned")),
			StartedAt:            r.when("started_at"),
			CompletedAt:          r.whenPtr("completed_at"),
			DurationSeconds:      r.numPtr("duration_seconds"),
			CreatedAt:            r.when("created_at"),
		})
	}
	return out, nil
}

func (c *Client) Vulnerabilities(ctx context.Context, limit int) ([]model.Vulnerability, error) {
	records, err := c.fetchTable(ctx, "vulnerabilities", "created_at", "desc", limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Vulnerability, 0, len(records))
	for _, r := range records {
		out = append(out, model.Vulnerability{
			ID:            r.ID,
			ScanID:        r.str("scan_id"),
			CVEID:         r.strPtr("cve_id"),
			Title:         r.str("title"),
			Description:   r.strPtr("description"),
			Severity:      model.Severity(r.str("severity")),
			CVSSScore:     r.numPtr("cvss_score"),
			AffectedAsset: r.str("affected_asset"),
			Port:          r.intPtr("port"),
			Service:       r.strPtr("service"),
			Remediation:   r.strPtr("remediation"),
			Status:        model.VulnerabilityStatus(r.str("status")),
			CreatedAt:     r.when("created_at"),
			UpdatedAt:     r.when("updated_at"),
		})
	}
	return out, nil
}

func (c *Client) Assets(ctx context.Context, limit int) ([]model.Asset, error) {
	records, err := c.fetchTable(ctx, "assets", "criticality", "asc", limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Asset, 0, len(records))
	for _, r := range records {
		out = append(out, model.Asset{
			ID:                 r.ID,
			Name:               r.str("name"),
			Type:               r.str("type"),
			IPAddress:          r.strPtr("ip_address"),
			Hostname:           r.strPtr("hostname"),
			OperatingSystem:    r.strPtr("operating_system"),
			Location:           r.strPtr("location"),
			Criticality:        model.Severity(r.str("criticality")),
			LastScanAt:         r.whenPtr("last_scan_at"),
			VulnerabilityCount: int(r.num("vulnerability_count")),
			Status:             r.str("status"),
			CreatedAt:          r.when("created_at"),
			UpdatedAt:          r.when("updated_at"),
		})
	}
	return out, nil
}

func (c *Client) Checks(ctx context.Context, limit int) ([]model.MonitoringCheck, error) {
	records, err := c.fetchTable(ctx, "monitoring_checks", "last_check", "desc", limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.MonitoringCheck, 0, len(records))
	for _, r := range records {
		out = append(out, model.MonitoringCheck{
			ID:               r.ID,
			CheckName:        r.str("check_name"),
			CheckType:        r.str("check_type"),
			Target:           r.str("target"),
			Status:           model.CheckStatus(r.str("status")),
			LastCheck:        r.when("last_check"),
			ResponseTime:     r.num("response_time"),
			UptimePercentage: r.num("uptime_percentage"),
			CreatedAt:        r.when("created_at"),
			UpdatedAt:        r.when("updated_at"),
		})
	}
	return out, nil
}

func (c *Client) Audits(ctx context.Context, limit int) ([]model.ComplianceAudit, error) {
	records, err := c.fetchTable(ctx, "compliance_audits", "last_audit", "desc", limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.ComplianceAudit, 0, len(records))
	for _, r := range records {
		out = append(out, model.ComplianceAudit{
			ID:          r.ID,
			Framework:   r.str("framework"),
			Requirement: r.str("requirement"),
			Status:      model.AuditStatus(r.str("status")),
			Score:       r.num("score"),
			Evidence:    r.str("evidence"),
			LastAudit:   r.when("last_audit"),
			NextAudit:   r.whenPtr("next_audit"),
			Owner:       r.str("owner"),
			Notes:       r.str("notes"),
			CreatedAt:   r.when("created_at"),
			UpdatedAt:   r.when("updated_at"),
		})
	}
	return out, nil
}

func (c *Client) Incidents(ctx context.Context, limit int) ([]model.Incident, error) {
	records, err := c.fetchTable(ctx, "incidents", "detected_at", "desc", limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Incident, 0, len(records))
	for _, r := range records {
		out = append(out, model.Incident{
			ID:              r.ID,
			Title:           r.str("title"),
			Severity:        model.Severity(r.str("severity")),
			Status:          model.IncidentStatus(r.str("status")),
			Category:        r.str("category"),
			Description:     r.str("description"),
			AffectedSystems: r.strs("affected_systems"),
			DetectedAt:      r.when("detected_at"),
			ResolvedAt:      r.whenPtr("resolved_at"),
			AssignedTo:      r.str("assigned_to"),
			Impact:          r.str("impact"),
			ResponseActions: r.str("response_actions"),
			CreatedAt:       r.when("created_at"),
			UpdatedAt:       r.when("updated_at"),
		})
	}
	return out, nil
}

func (c *Client) TrainingModules(ctx context.Context, limit int) ([]model.TrainingModule, error) {
	records, err := c.fetchTable(ctx, "training_modules", "created_at", "desc", limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.TrainingModule, 0, len(records))
	for _, r := range records {
		out = append(out, model.TrainingModule{
			ID:              r.ID,
			Title:           r.str("title"),
			Category:        r.str("category"),
			Description:     r.str("description"),
			DurationMinutes: int(r.num("duration_minutes")),
			CompletionRate:  r.num("completion_rate"),
			PassingScore:    r.num("passing_score"),
			Status:          model.ModuleStatus(r.str("status")),
			TotalEnrolled:   int(r.num("total_enrolled")),
			TotalCompleted:  int(r.num("total_completed")),
			CreatedAt:       r.when("created_at"),
			UpdatedAt:       r.when("updated_at"),
		})
	}
	return out, nil
}
