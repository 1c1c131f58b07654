package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"easymode/internal/agent"
	"easymode/internal/config"
	"easymode/internal/memory"
	"easymode/internal/progress"
	"easymode/internal/scoring"
	"easymode/internal/user"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	dbc, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := Migrate(dbc); err != nil {
		return err
	}

	DB = dbc
	log.Printf("Database connected and migrated")
	return nil
}

// Migrate applies the full schema. Split out of Init so tests can migrate
// an sqlite handle the same way production migrates postgres.
func Migrate(dbc *gorm.DB) error {
	if err := dbc.AutoMigrate(&user.User{}); err != nil {
		return err
	}
	if err := dbc.AutoMigrate(&progress.CompletedTask{}, &progress.AudacityAttempt{}, &progress.AnalyticsEvent{}); err != nil {
		return err
	}
	if err := dbc.AutoMigrate(&scoring.AvailableTask{}, &memory.Entry{}, &agent.WeeklyPlan{}); err != nil {
		return err
	}
	return nil
}
