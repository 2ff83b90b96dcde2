package testutil

import (
	"adaptive_learning_backend/internal/model"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试一个独立的内存 SQLite 库，已完成迁移
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// BrokenDB 返回底层连接已关闭的 gorm 实例，用于模拟存储不可用
func BrokenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db := NewDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	_ = sqlDB.Close()
	return db
}

func Graded(kind string, correct bool, at time.Time) model.InteractionResponse {
	score := 0.0
	if correct {
		score = 1
	}
	return model.InteractionResponse{
		BlockID:     fmt.Sprintf("%s-%d", kind, at.UnixNano()),
		Kind:        kind,
		Correct:     model.BoolPtr(correct),
		Score:       score,
		MaxScore:    1,
		TimeSpent:   30,
		SubmittedAt: at,
	}
}

func SeedProgress(t testing.TB, db *gorm.DB, studentID, courseID, moduleID string, percent float64, responses ...model.InteractionResponse) *model.ModuleInteractionProgress {
	t.Helper()
	p := &model.ModuleInteractionProgress{
		StudentID:       studentID,
		CourseID:        courseID,
		ModuleID:        moduleID,
		Responses:       datatypes.JSONSlice[model.InteractionResponse](responses),
		PercentComplete: percent,
	}
	for _, r := range responses {
		p.TotalScore += r.Score
		p.MaxScore += r.MaxScore
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}
	return p
}

func SeedEnrollment(t testing.TB, db *gorm.DB, studentID, courseID string, enrolledAt time.Time, lastAccess *time.Time, completed int) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{
		StudentID:        studentID,
		CourseID:         courseID,
		EnrolledAt:       enrolledAt,
		LastAccessedAt:   lastAccess,
		CompletedModules: completed,
		Status:           "active",
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedActivity(t testing.TB, db *gorm.DB, studentID, courseID string, day time.Time, minutes float64, modules, interactions int, accuracy float64) {
	t.Helper()
	a := &model.DailyActivity{
		StudentID:             studentID,
		CourseID:              courseID,
		Date:                  datatypes.Date(day),
		MinutesSpent:          minutes,
		ModulesViewed:         modules,
		InteractionsCompleted: interactions,
		AccuracyPercentage:    accuracy,
	}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
}

func SeedModules(t testing.TB, db *gorm.DB, courseID string, difficulties ...int) []model.CourseModule {
	t.Helper()
	modules := make([]model.CourseModule, 0, len(difficulties))
	for i, d := range difficulties {
		m := model.CourseModule{
			CourseID:   courseID,
			Title:      fmt.Sprintf("Module %d", i+1),
			ConceptKey: fmt.Sprintf("concept-%d", i+1),
			Difficulty: d,
			Order:      i + 1,
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed module: %v", err)
		}
		modules = append(modules, m)
	}
	return modules
}
