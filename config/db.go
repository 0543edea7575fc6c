package config

import (
	"log"

	"burrito-rater-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the sqlite store and migrates the schema. The handle is
// returned to the caller and injected downward; nothing holds it globally.
func InitDB(source string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(source), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&models.Rating{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("database connected and migrated")
	return db
}
