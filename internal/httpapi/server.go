// Package httpapi exposes the dashboard over HTTP: the cached refresher
// snapshot, live per-domain metrics, the two write paths, and archived scan
// reports.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/secops-dashboard/internal/dashboard"
	"github.com/yourorg/secops-dashboard/internal/model"
	"github.com/yourorg/secops-dashboard/internal/reports"
	"github.com/yourorg/secops-dashboard/internal/source"
	"github.com/yourorg/secops-dashboard/internal/store"
)

type Server struct {
	svc       *dashboard.Service
	refresher *dashboard.Refresher
	// st and archive are nil when reads come from the table API source;
	// write paths and report fetches then answer 503.
	st            *store.Store
	archive       *reports.Archive
	reportsBucket string
	log           *logrus.Logger
}

func NewServer(svc *dashboard.Service, refresher *dashboard.Refresher, st *store.Store,
	archive *reports.Archive, reportsBucket string, log *logrus.Logger) *Server {
	return &Server{
		svc:           svc,
		refresher:     refresher,
		st:            st,
		archive:       archive,
		reportsBucket: reportsBucket,
		log:           log,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/dashboard/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/scanner", s.handleScannerMetrics)
	mux.HandleFunc("GET /api/scanner/posture", s.handlePosture)
	mux.HandleFunc("GET /api/monitoring", s.handleMonitoringMetrics)
	mux.HandleFunc("GET /api/compliance", s.handleComplianceMetrics)
	mux.HandleFunc("GET /api/incidents", s.handleIncidentMetrics)
	mux.HandleFunc("GET /api/training", s.handleTrainingMetrics)
	mux.HandleFunc("POST /api/scans", s.handleCreateScan)
	mux.HandleFunc("GET /api/scans/{id}", s.handleScanDetail)
	mux.HandleFunc("GET /api/scans/{id}/report", s.handleScanReport)
	mux.HandleFunc("GET /api/assets/{id}", s.handleAssetDetail)
	mux.HandleFunc("GET /api/vulnerabilities", s.handleVulnerabilities)
	mux.HandleFunc("POST /api/vulnerabilities/{id}/status", s.handleVulnerabilityStatus)
	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.st != nil {
		if err := s.st.Ping(r.Context()); err != nil {
			s.log.WithError(err).Error("healthz: db ping failed")
			writeJSON(w, http.StatusServiceUnavailable,
				map[string]string{"status": "unhealthy", "reason": "db unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.refresher.State())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refresher.Refresh(r.Context())
	writeJSON(w, http.StatusOK, s.refresher.State())
}

func (s *Server) handleScannerMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.ScannerMetrics(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handlePosture(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.SecurityPosture(r.Context()))
}

func (s *Server) handleMonitoringMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.MonitoringMetrics(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleComplianceMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.ComplianceMetrics(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleIncidentMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.IncidentMetrics(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleTrainingMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.TrainingMetrics(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	if s.st == nil {
		writeError(w, http.StatusServiceUnavailable, "scan creation requires the database source")
		return
	}
	var req model.NewScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sc, err := s.st.CreateScan(r.Context(), req)
	if err != nil {
		var ce *source.CreateError
		if errors.As(err, &ce) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

// handleScanDetail serves one scan row with its findings, most severe first.
func (s *Server) handleScanDetail(w http.ResponseWriter, r *http.Request) {
	if s.st == nil {
		writeError(w, http.StatusServiceUnavailable, "scan detail requires the database source")
		return
	}
	sc, err := s.st.ScanByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if sc == nil {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	vulns, err := s.st.VulnerabilitiesByScan(r.Context(), sc.ID)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scan":            sc,
		"vulnerabilities": vulns,
	})
}

func (s *Server) handleAssetDetail(w http.ResponseWriter, r *http.Request) {
	if s.st == nil {
		writeError(w, http.StatusServiceUnavailable, "asset detail requires the database source")
		return
	}
	a, err := s.st.AssetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleVulnerabilities lists findings, optionally filtered by ?status=.
func (s *Server) handleVulnerabilities(w http.ResponseWriter, r *http.Request) {
	if s.st == nil {
		writeError(w, http.StatusServiceUnavailable, "vulnerability listing requires the database source")
		return
	}
	status := model.VulnerabilityStatus(r.URL.Query().Get("status"))
	if status == "" {
		vulns, err := s.st.Vulnerabilities(r.Context(), 0)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, vulns)
		return
	}
	switch status {
	case model.VulnerabilityStatusOpen, model.VulnerabilityStatusInProgress, model.VulnerabilityStatusResolved:
	default:
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}
	vulns, err := s.st.VulnerabilitiesByStatus(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, vulns)
}

func (s *Server) handleVulnerabilityStatus(w http.ResponseWriter, r *http.Request) {
	if s.st == nil {
		writeError(w, http.StatusServiceUnavailable, "status updates require the database source")
		return
	}
	var body struct {
		Status model.VulnerabilityStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch body.Status {
	case model.VulnerabilityStatusOpen, model.VulnerabilityStatusInProgress, model.VulnerabilityStatusResolved:
	default:
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}
	if err := s.st.UpdateVulnerabilityStatus(r.Context(), r.PathValue("id"), body.Status); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScanReport(w http.ResponseWriter, r *http.Request) {
	if s.st == nil || s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "report archive not configured")
		return
	}
	sc, err := s.st.ScanByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if sc == nil {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	if sc.ReportKey == nil {
		writeError(w, http.StatusNotFound, "scan has no archived report")
		return
	}
	bucket := s.reportsBucket
	if sc.ReportBucket != nil {
		bucket = *sc.ReportBucket
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	body, err := s.archive.Fetch(ctx, bucket, *sc.ReportKey)
	if err != nil {
		s.log.WithError(err).WithField("scan_id", sc.ID).Error("report fetch failed")
		writeError(w, http.StatusBadGateway, "report fetch failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
