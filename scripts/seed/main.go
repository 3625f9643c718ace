package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/bootstrap"
	"github.com/devamrit/learnhub-server-go/internal/features/course"
	"github.com/devamrit/learnhub-server-go/internal/features/lecture"
	"github.com/devamrit/learnhub-server-go/internal/features/user"
	"github.com/devamrit/learnhub-server-go/pkg/config"
	"github.com/devamrit/learnhub-server-go/pkg/logger"
	"github.com/devamrit/learnhub-server-go/pkg/types"
)

type seedCourse struct {
	title    string
	subtitle string
	category string
	level    types.CourseLevel
	price    float64
	lectures []string
}

var seedCourses = []seedCourse{
	{
		title:    "Go Backend Development",
		subtitle: "Build production HTTP services from scratch",
		category: "backend",
		level:    types.CourseLevelBeginner,
		price:    499,
		lectures: []string{
			"Setting up the toolchain",
			"HTTP handlers and routing",
			"Working with databases",
			"Deploying your service",
		},
	},
	{
		title:    "Distributed Systems Fundamentals",
		subtitle: "Consensus, replication and failure modes",
		category: "architecture",
		level:    types.CourseLevelAdvance,
		price:    1299,
		lectures: []string{
			"Why distribution is hard",
			"Clocks and ordering",
			"Replication strategies",
			"Consensus protocols",
			"Designing for partial failure",
		},
	},
	{
		title:    "Practical SQL for Developers",
		subtitle: "Queries, indexes and schema design",
		category: "databases",
		level:    types.CourseLevelMedium,
		price:    799,
		lectures: []string{
			"Reading query plans",
			"Index design",
			"Transactions in practice",
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Failed to get SQL DB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(context.Background()); err != nil {
		appLogger.Error("Failed to ping database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := bootstrap.MigrateSchema(db); err != nil {
		appLogger.Error("Migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	instructor, err := ensureUser(db, "Priya Raman", "priya@learnhub.dev", types.UserRoleInstructor)
	if err != nil {
		appLogger.Error("Failed to seed instructor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if _, err := ensureUser(db, "Dev Student", "student@learnhub.dev", types.UserRoleStudent); err != nil {
		appLogger.Error("Failed to seed student", slog.String("error", err.Error()))
		os.Exit(1)
	}

	created := 0
	for _, seed := range seedCourses {
		ok, err := ensureCourse(db, instructor.ID, seed)
		if err != nil {
			appLogger.Error("Failed to seed course", slog.String("title", seed.title), slog.String("error", err.Error()))
			os.Exit(1)
		}
		if ok {
			created++
		}
	}

	fmt.Printf("✅ Seed complete: %d new courses (instructor: priya@learnhub.dev, student: student@learnhub.dev, password: learnhub123)\n", created)
}

// ensureUser is idempotent: an existing account with the email is reused.
func ensureUser(db *gorm.DB, name, email string, role types.UserRole) (user.User, error) {
	existing, err := user.GetByEmail(db, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, err
	}

	return user.Create(db, user.CreateInput{
		Name:     name,
		Email:    email,
		Password: "learnhub123",
		Role:     role,
	})
}

func ensureCourse(db *gorm.DB, creatorID uuid.UUID, seed seedCourse) (bool, error) {
	var count int64
	if err := db.Model(&course.Course{}).Where("course_title = ?", seed.title).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	crs := course.Course{
		Title:     seed.title,
		Subtitle:  &seed.subtitle,
		Category:  seed.category,
		Level:     seed.level,
		Price:     types.NewMoney(seed.price),
		CreatorID: creatorID,
		Published: true,
	}
	return true, db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&crs).Error; err != nil {
			return err
		}
		for i, title := range seed.lectures {
			lec := lecture.Lecture{
				CourseID: crs.ID,
				Title:    title,
				Order:    i + 1,
			}
			if err := tx.Create(&lec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
