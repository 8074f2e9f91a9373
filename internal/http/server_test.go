package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/sms-admin/internal/activity"
	"github.com/jmehdipour/sms-admin/internal/config"
	"github.com/jmehdipour/sms-admin/internal/demo"
	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository/memory"
)

const testKey = "test-key"

func newTestServer(t *testing.T) (*Server, *activity.Recorder) {
	t.Helper()
	store := memory.NewStore(demo.Data(time.Now()))
	cfg := config.Config{
		Admins: []config.AdminConfig{{ID: "admin-7", Name: "Ops", APIKey: testKey}},
	}
	rec := &activity.Recorder{}
	srv := NewServer(cfg, Deps{
		Repos:     store.Repositories(),
		Publisher: rec,
		Gatherer:  prometheus.NewRegistry(),
	})
	return srv, rec
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("X-API-Key", testKey)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("X-API-Key", "wrong")
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	sum := decode[map[string]any](t, rr)
	assert.EqualValues(t, 5, sum["total_orgs"])
	assert.EqualValues(t, 3, sum["sms_enabled"])
}

func TestListOrgs(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/v1/orgs?enabled=true&ready=true", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[struct {
		Total int `json:"total"`
		Orgs  []struct {
			ID string `json:"id"`
		} `json:"orgs"`
	}](t, rr)
	assert.Equal(t, 5, list.Total)
	require.Len(t, list.Orgs, 2)
	assert.Equal(t, "org-1", list.Orgs[0].ID)
	assert.Equal(t, "org-5", list.Orgs[1].ID)

	rr = do(t, srv, http.MethodGet, "/v1/orgs?enabled=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOrgsCSV(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/v1/orgs?format=csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `attachment; filename="orgs-`)
	lines := strings.Split(rr.Body.String(), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "Org ID,Name"))
}

func TestOrgDetailNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/v1/orgs/org-404", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, srv, http.MethodGet, "/v1/orgs/org-1", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	for _, path := range []string{"/v1/orgs/org-404/templates", "/v1/orgs/org-404/provisioning"} {
		rr = do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
	}
}

func TestSetSMSEnabled(t *testing.T) {
	srv, rec := newTestServer(t)

	rr := do(t, srv, http.MethodPut, "/v1/orgs/org-4/sms-enabled", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	org := decode[model.Organization](t, rr)
	assert.True(t, org.SMSEnabled)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "admin-7", events[0].Entry.UserID)

	rr = do(t, srv, http.MethodPut, "/v1/orgs/org-4/sms-enabled", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOverrideLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	path := "/v1/orgs/org-2/templates/tpl-1/override"

	rr := do(t, srv, http.MethodPut, path, `{"override_body":"Sunrise: {{first_name}}","is_active":true}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, srv, http.MethodPut, path, `{"override_body":"Sunrise v2: {{first_name}}","is_active":true}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodGet, "/v1/orgs/org-2/templates/tpl-1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	view := decode[struct {
		Resolution struct {
			Body   string `json:"body"`
			Source string `json:"source"`
		} `json:"resolution"`
		Preview struct {
			Body string `json:"body"`
		} `json:"preview"`
	}](t, rr)
	assert.Equal(t, "Sunrise v2: {{first_name}}", view.Resolution.Body)
	assert.Equal(t, "Sunrise v2: John", view.Preview.Body)

	rr = do(t, srv, http.MethodPut, path, `{"override_body":"  ","is_active":true}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOverridePreviewWithVariables(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/v1/orgs/org-1/templates/tpl-1/preview", `{"variables":{"first_name":"Ana"}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Acme Realty: Ana, your home equity moved")
}

func TestQuietHours(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/v1/orgs/org-5/quiet-hours", "")
	require.Equal(t, http.StatusOK, rr.Code)
	q := decode[model.QuietHours](t, rr)
	assert.Equal(t, "21:00", q.StartTime)

	rr = do(t, srv, http.MethodPut, "/v1/orgs/org-5/quiet-hours",
		`{"enabled":true,"start_time":"22:00","end_time":"07:00","timezone":"America/Chicago","days_of_week":[1,2,3],"apply_to_marketing":true}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodPut, "/v1/orgs/org-5/quiet-hours",
		`{"enabled":true,"start_time":"25:00","end_time":"07:00","timezone":"America/Chicago","days_of_week":[1],"apply_to_marketing":true}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTriggerProvisioning(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/v1/orgs/org-4/provisioning", "")
	require.Equal(t, http.StatusAccepted, rr.Code)
	job := decode[model.ProvisioningJob](t, rr)
	assert.Equal(t, model.JobPending, job.Status)
	assert.Len(t, job.Steps, 5)

	rr = do(t, srv, http.MethodGet, "/v1/orgs/org-4/provisioning", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), job.ID)
}

func TestUpdateTemplateVersions(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPut, "/v1/templates/tpl-2",
		`{"name":"New Listing","type":"MARKETING","default_body":"{{first_name}}, new listing: {{short_link}}","is_active":true,"change_note":"shorter"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodGet, "/v1/templates/tpl-2/versions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[struct {
		Count int `json:"count"`
	}](t, rr)
	assert.Equal(t, 2, list.Count)

	rr = do(t, srv, http.MethodGet, "/v1/templates/tpl-404", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLogs(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/v1/logs?org_id=org-1&status=delivered&limit=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[struct {
		Count   int                `json:"count"`
		Results []model.MessageLog `json:"results"`
	}](t, rr)
	assert.Equal(t, 2, list.Count)
	for _, l := range list.Results {
		assert.Equal(t, "org-1", l.OrgID)
		assert.Equal(t, model.StatusDelivered, l.Status)
	}

	rr = do(t, srv, http.MethodGet, "/v1/logs?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, srv, http.MethodGet, "/v1/logs?org_id=org-4&format=csv", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "\n")
}

func TestAuditAfterMutation(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/v1/orgs/org-2/provisioning", "")
	require.Equal(t, http.StatusAccepted, rr.Code)

	rr = do(t, srv, http.MethodGet, "/v1/audit?entity_type=provisioning&limit=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[struct {
		Results []model.AuditEntry `json:"results"`
	}](t, rr)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "Ops", list.Results[0].UserName)

	rr = do(t, srv, http.MethodGet, "/v1/audit?action=explode", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchAndPreview(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/v1/search?q=acme", "")
	require.Equal(t, http.StatusOK, rr.Code)
	res := decode[struct {
		Orgs []model.Organization `json:"orgs"`
	}](t, rr)
	require.Len(t, res.Orgs, 1)
	assert.Equal(t, "org-1", res.Orgs[0].ID)

	rr = do(t, srv, http.MethodPost, "/v1/preview", `{"body":"Hi {{first_name}} {{nope}}","variables":{"first_name":"Bo"}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"body":"Hi Bo {{nope}}"`)
}

func TestSuppressionsAndJobs(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/v1/suppressions?org_id=org-2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 2, decode[map[string]any](t, rr)["count"])

	rr = do(t, srv, http.MethodGet, "/v1/jobs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 2, decode[map[string]any](t, rr)["count"])

	rr = do(t, srv, http.MethodGet, "/v1/timezones", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "America/New_York")
}
