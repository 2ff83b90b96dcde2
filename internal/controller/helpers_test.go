package controller

import (
	"adaptive_learning_backend/internal/middleware"
	"adaptive_learning_backend/internal/repository"
	"adaptive_learning_backend/internal/service"
	"adaptive_learning_backend/internal/testutil"
	"adaptive_learning_backend/internal/util"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "controller-test-secret"

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

// newTestEnv 按生产路由的分组方式挂载全部控制器
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	progress := repository.NewProgressRepository(db)
	metrics := service.NewMetricsService(progress)

	review := NewReviewController(service.NewReviewService(repository.NewReviewItemRepository(db), 20))
	adaptive := NewAdaptiveController(metrics, service.NewAdaptiveService(metrics, progress))
	struggle := NewStruggleController(service.NewStruggleService(repository.NewMemoryEventBuffer(time.Hour), metrics, 60))
	risk := NewRiskController(service.NewRiskService(progress, metrics, 2))
	path := NewLearningPathController(service.NewLearningPathService(repository.NewLearningPathRepository(db), progress, metrics))

	r := gin.New()
	r.GET("/api/health", NewHealthController(db, nil).HealthCheck)

	api := r.Group("/api", middleware.AuthMiddleware(testSecret))
	api.GET("/courses/:courseId/metrics", adaptive.GetMetrics)
	api.POST("/courses/:courseId/difficulty", adaptive.AdjustDifficulty)
	api.GET("/courses/:courseId/next-module", adaptive.RecommendNextModule)
	api.GET("/courses/:courseId/risk", risk.Predict)
	api.GET("/courses/:courseId/path", path.GetPath)
	api.POST("/courses/:courseId/path/evaluate", path.Evaluate)
	api.POST("/courses/:courseId/path/nodes/:nodeId/complete", path.CompleteNode)
	api.GET("/reviews/due", review.GetDueItems)
	api.POST("/reviews/:id/submit", review.SubmitReview)
	api.POST("/reviews/generate", review.GenerateReviewItems)
	api.POST("/reviews/preview", review.Preview)
	api.POST("/struggle/sessions/:sessionId/events", struggle.RecordEvents)
	api.GET("/struggle/sessions/:sessionId/events", struggle.GetEvents)
	api.POST("/struggle/sessions/:sessionId/analyze", struggle.Analyze)
	api.DELETE("/struggle/sessions/:sessionId", struggle.ClearSession)

	teacher := api.Group("/teacher", middleware.RoleMiddleware(util.RoleTeacher))
	teacher.POST("/courses/:courseId/path/generate", path.GenerateCoursePath)
	teacher.POST("/courses/:courseId/risk/sweep", risk.SweepCourse)

	return &testEnv{db: db, router: r}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do 以指定身份发起请求；studentID 为空时不带令牌
func (e *testEnv) do(t *testing.T, method, path, studentID, role string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if studentID != "" {
		tok, err := util.GenerateJWT(studentID, role, testSecret, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (e *testEnv) student(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	return e.do(t, method, path, "s1", util.RoleStudent, body)
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}
