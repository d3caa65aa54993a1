package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/todaysfinds/tkd-car/config"
	"github.com/todaysfinds/tkd-car/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.Student{},
		&models.ScheduleEntry{},
		&models.ScheduleSlot{},
		&models.AttendanceRecord{},
		&models.AbsenceRequest{},
		&models.Location{},
		&models.QuickCallNumber{},
		&models.KakaoSettings{},
		&models.User{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}

	// legacy column from the first deployment; session keys are derived now
	if DB.Migrator().HasColumn(&models.ScheduleEntry{}, "session_suffix") {
		if err := DB.Migrator().DropColumn(&models.ScheduleEntry{}, "session_suffix"); err != nil {
			log.Printf("[migrate] warn: drop schedule_entries.session_suffix failed: %v", err)
		} else {
			log.Printf("[migrate] dropped legacy column schedule_entries.session_suffix")
		}
	}
}
