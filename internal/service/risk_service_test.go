package service

import (
	"adaptive_learning_backend/internal/model"
	"adaptive_learning_backend/internal/testutil"
	"adaptive_learning_backend/internal/util"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// failingEnrollment 让指定学生的报名查询失败
type failingEnrollment struct {
	ProgressStore
	studentID string
}

func (f failingEnrollment) GetEnrollment(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	if studentID == f.studentID {
		return nil, util.ErrStorageUnavailable
	}
	return f.ProgressStore.GetEnrollment(ctx, studentID, courseID)
}

func seedSteadyActivity(t *testing.T, db *gorm.DB, studentID, courseID string, days int) {
	for i := days; i >= 1; i-- {
		testutil.SeedActivity(t, db, studentID, courseID, riskNow.AddDate(0, 0, -i), 30, 2, 10, 80)
	}
}

func newRiskService(progress ProgressStore) *RiskService {
	svc := NewRiskService(progress, NewMetricsService(progress), 4)
	svc.now = func() time.Time { return riskNow }
	return svc
}

func TestRiskService_Predict(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedEnrollment(t, db, "s1", "c1", riskNow.AddDate(0, -2, 0), daysAgo(25), 3)
	seedSteadyActivity(t, db, "s1", "c1", 10)
	require.NoError(t, db.Create(&model.AssessmentScore{StudentID: "s1", CourseID: "c1", Score: 72, TakenAt: riskNow.AddDate(0, 0, -30)}).Error)

	ra, err := newRiskService(newProgressRepo(db)).Predict(ctxBG, "s1", "c1")
	require.NoError(t, err)

	p := ra.Prediction
	assert.Equal(t, "s1", p.StudentID)
	assert.Equal(t, riskNow, p.CalculatedAt)
	require.Len(t, p.RiskFactors, 1)
	assert.Equal(t, model.RiskLongAbsence, p.RiskFactors[0].Type)
	assert.Equal(t, 83.0, p.RiskScore)
	assert.Equal(t, model.OutcomeLikelyDropout, p.PredictedOutcome)
	assert.GreaterOrEqual(t, p.ConfidenceScore, 0.5)
	assert.Equal(t, model.InterventionDecision{Trigger: true, Urgency: model.UrgencyImmediate, Type: "critical"}, ra.Intervention)
}

func TestRiskService_PredictErrors(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := newRiskService(newProgressRepo(db)).Predict(ctxBG, "nobody", "c1")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	_, err = newRiskService(newProgressRepo(testutil.BrokenDB(t))).Predict(ctxBG, "s1", "c1")
	assert.ErrorIs(t, err, util.ErrStorageUnavailable)
}

func TestRiskService_SweepCourse(t *testing.T) {
	db := testutil.NewDB(t)
	enrolled := riskNow.AddDate(0, -1, 0)

	testutil.SeedEnrollment(t, db, "s1", "c1", enrolled, daysAgo(25), 3)
	seedSteadyActivity(t, db, "s1", "c1", 10)
	testutil.SeedEnrollment(t, db, "s2", "c1", enrolled, daysAgo(1), 4)
	seedSteadyActivity(t, db, "s2", "c1", 10)
	testutil.SeedEnrollment(t, db, "s3", "c1", enrolled, nil, 0)
	testutil.SeedEnrollment(t, db, "s4", "c1", enrolled, daysAgo(1), 2)
	testutil.SeedEnrollment(t, db, "other", "c2", enrolled, nil, 0)

	svc := newRiskService(failingEnrollment{ProgressStore: newProgressRepo(db), studentID: "s4"})
	report, err := svc.SweepCourse(ctxBG, "c1")
	require.NoError(t, err)

	assert.Equal(t, "c1", report.CourseID)
	assert.Equal(t, 3, report.Evaluated)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Interventions, 2)
	assert.Equal(t, "s3", report.Interventions[0].Prediction.StudentID)
	assert.Equal(t, 90.0, report.Interventions[0].Prediction.RiskScore)
	assert.Equal(t, "s1", report.Interventions[1].Prediction.StudentID)
}

func TestRiskService_SweepCourseErrors(t *testing.T) {
	_, err := newRiskService(newProgressRepo(testutil.BrokenDB(t))).SweepCourse(ctxBG, "c1")
	assert.ErrorIs(t, err, util.ErrStorageUnavailable)

	db := testutil.NewDB(t)
	testutil.SeedEnrollment(t, db, "s1", "c1", riskNow, nil, 0)
	ctx, cancel := context.WithCancel(ctxBG)
	cancel()
	_, err = newRiskService(newProgressRepo(db)).SweepCourse(ctx, "c1")
	assert.True(t, errors.Is(err, context.Canceled))
}
