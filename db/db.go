package db

import (
	"fmt"
	"log"
	"os"

	"labstock/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Membership{},
		&models.Lab{},
		&models.Item{},
		&models.UserItem{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// 快速定位某物品的未归还记录
	if err := db.Exec(`
	  CREATE INDEX IF NOT EXISTS user_items_open_by_item
	  ON user_items (item_id, borrowed_at DESC)
	  WHERE returned_at IS NULL;
	`).Error; err != nil {
		return err
	}

	return nil
}
