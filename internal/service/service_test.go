package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"chorepoints/internal/model"
)

// newTestDB opens a throwaway in-memory database. A single connection keeps
// :memory: from vanishing between pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&model.User{}, &model.Task{}, &model.Reward{}, &model.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := model.User{Username: username}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func userPoints(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var user model.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user.Points
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ctx() context.Context { return context.Background() }
