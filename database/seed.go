package database

import (
	"log"
	"queue_manager/config"
	"queue_manager/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData tạo tài khoản admin đầu tiên nếu chưa có account nào
func SeedData(db *gorm.DB) {
	var count int64
	db.Model(&model.Account{}).Count(&count)
	if count > 0 {
		return
	}

	username := config.ConfigDefault("FIRST_ADMIN_USERNAME", "admin")
	password := config.ConfigDefault("FIRST_ADMIN_PASSWORD", "admin12345")
	email := config.ConfigDefault("FIRST_ADMIN_EMAIL", "admin@example.com")

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Printf("Seed admin failed: %v", err)
		return
	}

	admin := model.Account{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Seed admin failed: %v", err)
		return
	}
	log.Printf("Seeded first admin account '%s'", username)
}
