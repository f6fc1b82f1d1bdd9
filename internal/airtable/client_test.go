package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/secops-dashboard/internal/model"
	"github.com/yourorg/secops-dashboard/internal/source"
)

func serveRecords(t *testing.T, wantPath string, records []map[string]any, capture *http.Request) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = *r
		}
		assert.Equal(t, wantPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"records": records})
	}))
}

func TestVulnerabilitiesRequestAndMapping(t *testing.T) {
	var got http.Request
	srv := serveRecords(t, "/v0/base123/vulnerabilities", []map[string]any{
		{
			"id": "recVuln1",
			"fields": map[string]any{
				"title":          "SQL injection in login form",
				"severity":       "critical",
				"cvss_score":     9.8,
				"affected_asset": "web-01",
				"status":         "open",
				"created_at":     "2026-03-01T10:00:00Z",
				"port":           443,
			},
			"createdTime": "2026-03-01T09:00:00Z",
		},
		{
			"id": "recVuln2",
			"fields": map[string]any{
				"title":    "Weak cipher",
				"severity": "low",
				"status":   "open",
			},
			"createdTime": "2026-03-01T08:00:00Z",
		},
	}, &got)
	defer srv.Close()

	c := New(srv.URL, "base123", "tok-abc")
	vulns, err := c.Vulnerabilities(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, vulns, 2)

	assert.Equal(t, "Bearer tok-abc", got.Header.Get("Authorization"))
	q := got.URL.Query()
	assert.Equal(t, "created_at", q.Get("sort[0][field]"))
	assert.Equal(t, "desc", q.Get("sort[0][direction]"))
	assert.Equal(t, "5", q.Get("maxRecords"))

	v := vulns[0]
	assert.Equal(t, "recVuln1", v.ID)
	assert.Equal(t, model.SeverityCritical, v.Severity)
	require.NotNil(t, v.CVSSScore)
	assert.Equal(t, 9.8, *v.CVSSScore)
	require.NotNil(t, v.Port)
	assert.Equal(t, 443, *v.Port)
	assert.Equal(t, "2026-03-01T10:00:00Z", v.CreatedAt.Format("2006-01-02T15:04:05Z"))

	// missing optional fields fall back to zero values, timestamps to createdTime
	v = vulns[1]
	assert.Nil(t, v.CVSSScore)
	assert.Nil(t, v.Port)
	assert.Nil(t, v.Description)
	assert.Equal(t, "2026-03-01T08:00:00Z", v.CreatedAt.Format("2006-01-02T15:04:05Z"))
}

func TestAssetsSortAscendingByCriticality(t *testing.T) {
	var got http.Request
	srv := serveRecords(t, "/v0/base123/assets", nil, &got)
	defer srv.Close()

	c := New(srv.URL, "base123", "tok")
	_, err := c.Assets(context.Background(), 0)
	require.NoError(t, err)

	q := got.URL.Query()
	assert.Equal(t, "criticality", q.Get("sort[0][field]"))
	assert.Equal(t, "asc", q.Get("sort[0][direction]"))
	assert.Empty(t, q.Get("maxRecords"))
}

func TestIncidentsAffectedSystems(t *testing.T) {
	srv := serveRecords(t, "/v0/base123/incidents", []map[string]any{
		{
			"id": "recInc1",
			"fields": map[string]any{
				"title":            "Phishing wave",
				"severity":         "high",
				"status":           "open",
				"affected_systems": []any{"mail", "workstations"},
				"detected_at":      "2026-03-01T06:00:00Z",
			},
			"createdTime": "2026-03-01T06:05:00Z",
		},
	}, nil)
	defer srv.Close()

	c := New(srv.URL, "base123", "tok")
	incidents, err := c.Incidents(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, []string{"mail", "workstations"}, incidents[0].AffectedSystems)
	assert.Nil(t, incidents[0].ResolvedAt)
}

func TestScansFollowOffsetPagination(t *testing.T) {
	page := func(id, offset string) map[string]any {
		body := map[string]any{
			"records": []map[string]any{
				{
					"id": id,
					"fields": map[string]any{
						"scan_type": "network",
						"target":    "10.0.0.0/24",
						"status":    "completed",
					},
					"createdTime": "2026-03-01T09:00:00Z",
				},
			},
		}
		if offset != "" {
			body["offset"] = offset
		}
		return body
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("offset") {
		case "":
			_ = json.NewEncoder(w).Encode(page("recScan1", "cursor-2"))
		case "cursor-2":
			_ = json.NewEncoder(w).Encode(page("recScan2", ""))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "base123", "tok")

	// no limit walks every page
	scans, err := c.Scans(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "recScan1", scans[0].ID)
	assert.Equal(t, "recScan2", scans[1].ID)

	// a satisfied limit stops at the first page
	scans, err = c.Scans(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "recScan1", scans[0].ID)
}

func TestFetchErrorOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"INVALID_PERMISSIONS"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "base123", "bad-token")
	_, err := c.Scans(context.Background(), 0)
	require.Error(t, err)

	var fe *source.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "scans", fe.Op)
	assert.Contains(t, fe.Error(), "403")
}

func TestTestConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/meta/bases/base123/tables" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tables":[]}`))
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL, "base123", "tok").TestConnection(context.Background()))
	assert.Error(t, New(srv.URL, "other", "tok").TestConnection(context.Background()))
}
