package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/internal/app"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/pkg/config"
	"github.com/00DarkGhost00/Tracking-absence/pkg/database"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestApp(t *testing.T, authEnabled bool) *app.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			SQLitePath:  database.MemoryDSN,
			AutoMigrate: true,
		},
		JWT: config.JWTConfig{
			Enabled:    authEnabled,
			Secret:     "router-test",
			Expiration: time.Hour,
			Issuer:     "tracking-absence",
		},
		Semester: config.SemesterConfig{DefaultStart: "2025-10-06", DefaultEnd: "2025-12-27"},
	}
	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func call(t *testing.T, r http.Handler, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func TestRouterObservationToHourBalance(t *testing.T) {
	a := newTestApp(t, false)
	r := newRouter(a)

	code, _ := call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env := call(t, r, http.MethodPut, "/api/v1/timetable", "", map[string]interface{}{
		"sessions": []map[string]string{
			{"professor": "DUPONT", "weekday": string(models.Lundi), "slot": string(models.SlotMorning), "room": "A101", "module": "Algebra"},
			{"professor": "MARTIN", "weekday": string(models.Lundi), "slot": string(models.SlotMorning), "room": "B202", "module": "Physics"},
		},
	})
	require.Equal(t, http.StatusOK, code, "timetable import failed: %+v", env.Error)

	observation := map[string]interface{}{
		"date":       "2025-11-10",
		"slot":       string(models.SlotMorning),
		"emptyRooms": []string{"A101"},
	}
	code, env = call(t, r, http.MethodPost, "/api/v1/absences/reconcile", "", observation)
	require.Equal(t, http.StatusOK, code)
	var result models.ReconcileResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1, result.Created)

	// Replaying the same observation records nothing new.
	code, env = call(t, r, http.MethodPost, "/api/v1/absences/reconcile", "", observation)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Zero(t, result.Created)

	code, env = call(t, r, http.MethodGet, "/api/v1/hours/professors/DUPONT", "", nil)
	require.Equal(t, http.StatusOK, code)
	var summary models.ProfessorHourSummary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 36, summary.TheoreticalHours)
	assert.Equal(t, 1, summary.AbsenceCount)
	assert.Equal(t, 3, summary.AbsenceHours)
	assert.Equal(t, 33, summary.RealizedHours)
}

func TestRouterEnforcesRoles(t *testing.T) {
	a := newTestApp(t, true)
	r := newRouter(a)

	code, env := call(t, r, http.MethodGet, "/api/v1/holidays", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)

	viewer, _, err := a.Tokens.Issue("viewer-1", models.RoleViewer)
	require.NoError(t, err)
	code, _ = call(t, r, http.MethodGet, "/api/v1/holidays", viewer, nil)
	assert.Equal(t, http.StatusOK, code)

	holiday := map[string]string{"startDate": "2025-12-22", "endDate": "2025-12-28", "description": "Winter break"}
	code, _ = call(t, r, http.MethodPost, "/api/v1/holidays", viewer, holiday)
	assert.Equal(t, http.StatusForbidden, code)

	admin, _, err := a.Tokens.Issue("admin-1", models.RoleAdmin)
	require.NoError(t, err)
	code, _ = call(t, r, http.MethodPost, "/api/v1/holidays", admin, holiday)
	assert.Equal(t, http.StatusCreated, code)
}
