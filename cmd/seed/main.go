// Command seed loads a small demo dataset into the dashboard tables so a
// fresh environment renders something meaningful.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"

	"github.com/yourorg/secops-dashboard/internal/config"
	"github.com/yourorg/secops-dashboard/internal/reports"
	"github.com/yourorg/secops-dashboard/internal/store"
)

func main() {
	var truncate = flag.Bool("truncate", false, "clear existing rows before seeding")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg := config.Load()
	ctx := context.Background()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		if isInsufficientPrivilege(err) {
			log.Printf("ensure schema skipped due insufficient privilege: %v", err)
		} else {
			log.Fatalf("ensure schema: %v", err)
		}
	}

	if *truncate {
		_, err := st.Pool.Exec(ctx, `
TRUNCATE vulnerabilities, scans, assets, monitoring_checks,
         compliance_audits, incidents, training_modules`)
		if err != nil {
			log.Fatalf("truncate: %v", err)
		}
	}

	scanID, err := seed(ctx, st)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	// When object storage is configured, archive a demo report for the
	// completed scan so the report endpoint has something to serve.
	if cfg.S3Endpoint != "" && cfg.ReportsBucket != "" {
		if err := archiveDemoReport(ctx, st, cfg, scanID); err != nil {
			log.Fatalf("archive demo report: %v", err)
		}
	}
	log.Print("seed complete")
}

func archiveDemoReport(ctx context.Context, st *store.Store, cfg config.Config, scanID string) error {
	archive, err := reports.New(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3UseSSL)
	if err != nil {
		return err
	}
	key := "reports/" + scanID + ".json"
	body := []byte(`{"scanner":"demo","findings":6,"notes":"seeded demo report"}`)
	if err := archive.Put(ctx, cfg.ReportsBucket, key, body); err != nil {
		return err
	}
	_, err = st.Pool.Exec(ctx, `
UPDATE scans SET report_bucket=$2, report_key=$3 WHERE id=$1::uuid`,
		scanID, cfg.ReportsBucket, key)
	return err
}

// seed inserts the demo rows and returns the id of the completed scan.
func seed(ctx context.Context, st *store.Store) (string, error) {
	now := time.Now().UTC()
	scanID := uuid.NewString()

	completed := now.Add(-2 * time.Hour)
	if _, err := st.Pool.Exec(ctx, `
INSERT INTO scans (id, scan_type, target, status, severity_summary,
                   vulnerabilities_found, assets_scanned, started_at, completed_at, duration_seconds)
VALUES
  ($1::uuid, 'vulnerability', '10.0.0.0/24', 'completed',
   '{"critical":2,"high":1,"medium":0,"low":3,"info":0}'::jsonb, 6, 42, $2, $3, 1860),
  ($4::uuid, 'network', '192.168.1.0/24', 'running',
   '{"critical":0,"high":0,"medium":0,"low":0,"info":0}'::jsonb, 0, 0, $5, NULL, NULL)`,
		scanID, completed.Add(-31*time.Minute), completed,
		uuid.NewString(), now.Add(-3*time.Minute)); err != nil {
		return "", err
	}

	vulns := []struct {
		title, severity, asset string
		cvss                   float64
		ageMinutes             int
	}{
		{"Unauthorized access attempt detected", "critical", "web-01.internal", 9.8, 2},
		{"Outdated TLS configuration on load balancer", "critical", "lb-01.internal", 9.1, 45},
		{"SSL certificate expiring in 7 days", "high", "api.internal", 7.5, 15},
		{"Verbose error messages expose stack traces", "low", "web-02.internal", 3.1, 120},
		{"Directory listing enabled", "low", "static.internal", 2.7, 240},
		{"Missing security headers", "low", "web-01.internal", 2.4, 300},
	}
	for _, v := range vulns {
		if _, err := st.Pool.Exec(ctx, `
INSERT INTO vulnerabilities (id, scan_id, title, severity, cvss_score, affected_asset, status, created_at, updated_at)
VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, 'open', $7, $7)`,
			uuid.NewString(), scanID, v.title, v.severity, v.cvss, v.asset,
			now.Add(-time.Duration(v.ageMinutes)*time.Minute)); err != nil {
			return "", err
		}
	}

	if _, err := st.Pool.Exec(ctx, `
INSERT INTO assets (id, name, type, ip_address, criticality, vulnerability_count, status, last_scan_at)
VALUES
  ($1::uuid, 'web-01', 'server', '10.0.0.11', 'critical', 3, 'active', $4),
  ($2::uuid, 'lb-01', 'load_balancer', '10.0.0.2', 'high', 1, 'active', $4),
  ($3::uuid, 'static', 'server', '10.0.0.31', 'low', 1, 'active', $4)`,
		uuid.NewString(), uuid.NewString(), uuid.NewString(), now.Add(-2*time.Hour)); err != nil {
		return "", err
	}

	if _, err := st.Pool.Exec(ctx, `
INSERT INTO monitoring_checks (id, check_name, check_type, target, status, last_check, response_time, uptime_percentage)
VALUES
  ($1::uuid, 'API gateway health', 'http', 'https://api.internal/healthz', 'healthy', $4, 112, 99.98),
  ($2::uuid, 'Primary database', 'tcp', 'db-01.internal:5432', 'healthy', $4, 8, 99.99),
  ($3::uuid, 'Mail relay', 'smtp', 'mail.internal:25', 'warning', $4, 840, 97.2)`,
		uuid.NewString(), uuid.NewString(), uuid.NewString(), now.Add(-5*time.Minute)); err != nil {
		return "", err
	}

	if _, err := st.Pool.Exec(ctx, `
INSERT INTO compliance_audits (id, framework, requirement, status, score, owner, last_audit)
VALUES
  ($1::uuid, 'SOC 2', 'Access control review', 'compliant', 96, 'security', $5),
  ($2::uuid, 'SOC 2', 'Change management', 'compliant', 91, 'platform', $5),
  ($3::uuid, 'ISO 27001', 'Asset inventory', 'partial', 68, 'it-ops', $5),
  ($4::uuid, 'PCI DSS', 'Network segmentation', 'non_compliant', 42, 'network', $5)`,
		uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString(),
		now.Add(-10*time.Minute)); err != nil {
		return "", err
	}

	resolved := now.Add(-26 * time.Hour)
	if _, err := st.Pool.Exec(ctx, `
INSERT INTO incidents (id, title, severity, status, category, affected_systems, detected_at, resolved_at, assigned_to)
VALUES
  ($1::uuid, 'Phishing campaign targeting finance team', 'high', 'open', 'phishing',
   ARRAY['mail','workstations'], $4, NULL, 'ir-team'),
  ($2::uuid, 'Suspicious outbound traffic from build server', 'critical', 'investigating', 'exfiltration',
   ARRAY['ci-01'], $5, NULL, 'ir-team'),
  ($3::uuid, 'Expired service account lockout', 'low', 'resolved', 'availability',
   ARRAY['api'], $6, $7, 'platform')`,
		uuid.NewString(), uuid.NewString(), uuid.NewString(),
		now.Add(-3*time.Minute), now.Add(-2*time.Hour),
		resolved.Add(-4*time.Hour), resolved); err != nil {
		return "", err
	}

	if _, err := st.Pool.Exec(ctx, `
INSERT INTO training_modules (id, title, category, duration_minutes, completion_rate, passing_score, status, total_enrolled, total_completed)
VALUES
  ($1::uuid, 'Phishing awareness', 'email-security', 25, 87.5, 80, 'active', 240, 210),
  ($2::uuid, 'Secure coding basics', 'development', 45, 64.0, 75, 'active', 85, 54),
  ($3::uuid, 'Incident response tabletop', 'operations', 90, 92.0, 70, 'archived', 30, 28)`,
		uuid.NewString(), uuid.NewString(), uuid.NewString()); err != nil {
		return "", err
	}

	return scanID, nil
}

func isInsufficientPrivilege(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42501"
}
