package controller

import (
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/internal/testutil"
	"adaptive_learning_backend/internal/util"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskController(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.student(t, http.MethodGet, "/api/courses/c1/risk", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	testutil.SeedEnrollment(t, env.db, "s1", "c1", time.Now().AddDate(0, -1, 0), nil, 0)

	w, body := env.student(t, http.MethodGet, "/api/courses/c1/risk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ra service.RiskAssessment
	decodeData(t, body, &ra)
	assert.Equal(t, 90.0, ra.Prediction.RiskScore)
	assert.True(t, ra.Intervention.Trigger)

	w, _ = env.student(t, http.MethodPost, "/api/teacher/courses/c1/risk/sweep", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = env.do(t, http.MethodPost, "/api/teacher/courses/c1/risk/sweep", "t1", util.RoleTeacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report service.SweepReport
	decodeData(t, body, &report)
	assert.Equal(t, 1, report.Evaluated)
	require.Len(t, report.Interventions, 1)
	assert.Equal(t, "s1", report.Interventions[0].Prediction.StudentID)
}
