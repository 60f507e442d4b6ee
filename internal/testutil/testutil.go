package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"onlinecourse_backend/internal/config"
	"onlinecourse_backend/internal/model"
	"onlinecourse_backend/internal/util"
	"onlinecourse_backend/pkg/database"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DB 在临时目录中创建 sqlite 数据库并完成迁移
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.InitDB(cfg, "test")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func Config() *config.Config {
	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.Storage.Type = util.StorageLocal
	return cfg
}

func User(t *testing.T, db *gorm.DB, username string, role model.UserRole) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &model.User{Username: username, Password: string(hashed), Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func Course(t *testing.T, db *gorm.DB, name string, totalEnrollment int) *model.Course {
	t.Helper()
	now := time.Now()
	c := &model.Course{Name: name, Description: name + " description", PubDate: &now, TotalEnrollment: totalEnrollment}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create course %s: %v", name, err)
	}
	return c
}

// ChoiceFixture 描述一个待创建的选项
type ChoiceFixture struct {
	Text    string
	Correct bool
}

func Question(t *testing.T, db *gorm.DB, courseID uint, text string, grade int, choices ...ChoiceFixture) *model.Question {
	t.Helper()
	q := &model.Question{CourseID: courseID, QuestionText: text, Grade: grade}
	for _, c := range choices {
		q.Choices = append(q.Choices, model.Choice{ChoiceText: c.Text, IsCorrect: c.Correct})
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("create question %s: %v", text, err)
	}
	return q
}

func Enroll(t *testing.T, db *gorm.DB, userID, courseID uint) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{UserID: userID, CourseID: courseID, Mode: model.ModeHonor, DateEnrolled: time.Now()}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("create enrollment: %v", err)
	}
	return e
}
