package database

import (
	"fmt"
	"log"
	"time"

	"auction-ai/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// The marketplace owns the core tables; only the cache table is ours
	// to create.
	if err := db.AutoMigrate(&models.MarketPrice{}); err != nil {
		log.Printf("Migration warning: %v", err)
	}

	log.Println("Database initialized successfully")
	return db, nil
}
