package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	gormlog "gorm.io/gorm/logger"

	"github.com/charleshuang3/teamcrm/internal/filestore"
	"github.com/charleshuang3/teamcrm/internal/gormw"
	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/proxy"
)

// fakeBackend records forwarded requests and answers with resp or err.
type fakeBackend struct {
	mu       sync.Mutex
	requests []*proxy.Request

	resp    *proxy.Response
	err     error
	healthy bool
}

func (b *fakeBackend) Forward(_ context.Context, req *proxy.Request) (*proxy.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, req)
	if b.err != nil {
		return nil, b.err
	}
	return b.resp, nil
}

func (b *fakeBackend) Healthy(context.Context) bool {
	return b.healthy
}

func setupTestAPI(t *testing.T) (*API, *gormw.DB, *fakeBackend, *gin.Engine) {
	t.Helper()

	database, err := gormw.Open(&gormw.Config{
		LogLevel: gormlog.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	require.NoError(t, database.MigrateRelational())

	files, err := filestore.New(&filestore.Config{
		Provider: filestore.ProviderLocal,
		Dir:      t.TempDir(),
	})
	require.NoError(t, err)

	backend := &fakeBackend{
		resp: &proxy.Response{
			StatusCode:  http.StatusOK,
			ContentType: "application/json",
			Body:        []byte(`{"ok":true}`),
		},
	}

	a := NewAPI(&InvitationConfig{
		TTLHours: 24,
		BaseURL:  "http://localhost:3000/",
	}, database, nil, backend, files)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	rg := router.Group("/api")
	a.RegisterPublicHandlers(rg)
	a.RegisterHandlers(rg)

	return a, database, backend, router
}

func doRequest(t *testing.T, router *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[map[string]string](t, rec)["error"]
}

func createTestUser(t *testing.T, db *gormw.DB, id, email string) *models.User {
	t.Helper()

	u := &models.User{ID: id, Email: email, Name: "Name of " + id}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTestTeam(t *testing.T, db *gormw.DB, id string, members map[string][]string) *models.Team {
	t.Helper()

	team := &models.Team{ID: id, Name: "Team " + id}
	require.NoError(t, db.Create(team).Error)
	for userID, perms := range members {
		require.NoError(t, db.Create(&models.Membership{
			TeamID:      id,
			UserID:      userID,
			Permissions: models.JoinPermissions(perms),
			Status:      models.MembershipActive,
		}).Error)
	}
	return team
}

func createTestInvitation(t *testing.T, db *gormw.DB, token, email, teamID string, expiresAt time.Time) *models.Invitation {
	t.Helper()

	inv := &models.Invitation{
		ID:          "inv-" + token,
		Token:       token,
		Email:       email,
		TeamID:      teamID,
		Permissions: models.PermViewClients + "," + models.PermAddEditContent,
		Status:      models.InvitationPending,
		ExpiresAt:   expiresAt,
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}

func TestHealthz(t *testing.T) {
	_, _, backend, router := setupTestAPI(t)

	rec := doRequest(t, router, http.MethodGet, "/api/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJSON[healthzResponse](t, rec)
	require.Equal(t, healthzResponse{Status: "ok", DB: true, Backend: false}, got)

	backend.healthy = true
	rec = doRequest(t, router, http.MethodGet, "/api/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeJSON[healthzResponse](t, rec).Backend)
}
