package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/secops-dashboard/internal/dashboard"
	"github.com/yourorg/secops-dashboard/internal/model"
)

// emptySource answers every fetch with no rows.
type emptySource struct{}

func (emptySource) Scans(context.Context, int) ([]model.Scan, error) { return nil, nil }
func (emptySource) Vulnerabilities(context.Context, int) ([]model.Vulnerability, error) {
	return nil, nil
}
func (emptySource) Assets(context.Context, int) ([]model.Asset, error)           { return nil, nil }
func (emptySource) Checks(context.Context, int) ([]model.MonitoringCheck, error) { return nil, nil }
func (emptySource) Audits(context.Context, int) ([]model.ComplianceAudit, error) { return nil, nil }
func (emptySource) Incidents(context.Context, int) ([]model.Incident, error)     { return nil, nil }
func (emptySource) TrainingModules(context.Context, int) ([]model.TrainingModule, error) {
	return nil, nil
}

func newTestHandler() http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := dashboard.New(emptySource{}, log)
	refresher := dashboard.NewRefresher(svc, time.Minute, log)
	return NewServer(svc, refresher, nil, nil, "", log).Handler()
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestDashboardBeforeFirstRefresh(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var state dashboard.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Nil(t, state.Snapshot)
	assert.Nil(t, state.LastUpdated)
}

func TestManualRefreshPopulatesSnapshot(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var state dashboard.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.NotNil(t, state.Snapshot)
	assert.NotNil(t, state.LastUpdated)
	assert.Len(t, state.Snapshot.Posture, 5)
	assert.Len(t, state.Snapshot.Agents, 5)
}

func TestPostureEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scanner/posture", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var buckets []struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &buckets))
	require.Len(t, buckets, 5)
	assert.Equal(t, "Critical", buckets[0].Name)
}

func TestWritePathsUnavailableWithoutDatabase(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scans",
		strings.NewReader(`{"target":"10.0.0.0/24","scanType":"network"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/vulnerabilities/abc/status",
		strings.NewReader(`{"status":"resolved"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scans/abc/report", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scans/abc", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vulnerabilities?status=open", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/dashboard", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
