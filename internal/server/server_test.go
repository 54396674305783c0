package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-chatbot/internal/auth"
	"github.com/ukydev/fleet-chatbot/internal/bot"
	"github.com/ukydev/fleet-chatbot/internal/maintenance"
	"github.com/ukydev/fleet-chatbot/internal/models"
	"github.com/ukydev/fleet-chatbot/internal/report"
	"github.com/ukydev/fleet-chatbot/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticStore struct {
	snap *store.Snapshot
}

func (s *staticStore) Load(ctx context.Context) (*store.Snapshot, error) {
	return s.snap, nil
}

func testSnapshot() *store.Snapshot {
	return &store.Snapshot{
		Vehicles: []models.Vehicle{
			{
				ID: "V001", LicensePlate: "22-727-57", Make: "Mazda", Model: "Mazda3", Year: 2022,
				Driver: models.Driver{Name: "אלון ישראלי"},
			},
		},
		Records: []models.MaintenanceRecord{
			{VehicleID: "V001", LicensePlate: "22-727-57", Date: "2024-08-25", Type: "oil_change", Cost: 450, Status: "Completed"},
		},
	}
}

func newTestServer(t *testing.T) (*Server, *gin.Engine, string) {
	t.Helper()
	reportsDir := t.TempDir()

	st := &staticStore{snap: testSnapshot()}
	responder := bot.NewResponder(st, report.NewGenerator(), nil, reportsDir)

	hash, err := auth.HashPassword("adminpass123")
	require.NoError(t, err)
	authSvc := auth.NewService("test-secret", "admin", hash)

	srv := New(responder, st, maintenance.NewTracker(), authSvc, nil, reportsDir)
	return srv, srv.Router(), reportsDir
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhook_EmptyBody(t *testing.T) {
	_, router, _ := newTestServer(t)

	w := postForm(router, "/webhook", url.Values{"From": {"whatsapp:+972501234567"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_HelpReply(t *testing.T) {
	_, router, _ := newTestServer(t)

	w := postForm(router, "/webhook", url.Values{
		"From": {"whatsapp:+972501234567"},
		"Body": {"שלום"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/xml")
	assert.Contains(t, w.Body.String(), "<Response>")
	assert.Contains(t, w.Body.String(), "פקודות זמינות")
	assert.NotContains(t, w.Body.String(), "<Media>")
}

func TestWebhook_ReportReplyWithMedia(t *testing.T) {
	_, router, reportsDir := newTestServer(t)

	w := postForm(router, "/webhook", url.Values{
		"From": {"whatsapp:+972501234567"},
		"Body": {"דוח תחזוקה 22-727-57"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<Media>")
	assert.Contains(t, w.Body.String(), "/download/")

	entries, err := os.ReadDir(reportsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".pdf"))
}

func TestDownload(t *testing.T) {
	_, router, reportsDir := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(reportsDir, "report.pdf"), []byte("%PDF-1.4"), 0o644))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/report.pdf", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestDownload_NotFound(t *testing.T) {
	_, router, _ := newTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/missing.pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownload_TraversalFlattened(t *testing.T) {
	_, router, _ := newTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/..%2F..%2Fetc%2Fpasswd", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	_, router, _ := newTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "fleet-chatbot", body["service"])
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func loginToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "adminpass123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body["token"])
	return body["token"]
}

func TestLogin_BadCredentials(t *testing.T) {
	_, router, _ := newTestServer(t)

	payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_RequiresToken(t *testing.T) {
	_, router, _ := newTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/status", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_Status(t *testing.T) {
	_, router, _ := newTestServer(t)
	token := loginToken(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["vehicles"])
	assert.EqualValues(t, 1, body["records"])
}

func TestAdmin_Alerts(t *testing.T) {
	_, router, _ := newTestServer(t)
	token := loginToken(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/alerts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "alerts")
}

func TestAdmin_SyncNotConfigured(t *testing.T) {
	_, router, _ := newTestServer(t)
	token := loginToken(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
