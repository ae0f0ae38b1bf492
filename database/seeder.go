package database

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"godown-app/models"
)

func RunSeeders(db *gorm.DB) {
	SeedDefaultAdmin(db)
	SeedStateCodes(db)
}

// SeedDefaultAdmin creates the bootstrap account so the first login is
// possible on a fresh database. The password must be changed afterwards.
func SeedDefaultAdmin(db *gorm.DB) {
	var existing models.Admin
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Unexpected DB error: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash default password: %v", err)
	}

	admin := models.Admin{
		Username:     "admin",
		PasswordHash: string(hash),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create default admin: %v", err)
	}
}

func SeedStateCodes(db *gorm.DB) {
	states := []models.StateCode{
		{Code: "27", StateName: "MAHARASHTRA"},
		{Code: "29", StateName: "KARNATAKA"},
		{Code: "32", StateName: "KERALA"},
		{Code: "33", StateName: "TAMIL NADU"},
		{Code: "36", StateName: "TELANGANA"},
		{Code: "37", StateName: "ANDHRA PRADESH"},
	}

	for _, s := range states {
		var existing models.StateCode
		if err := db.Where("code = ?", s.Code).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				db.Create(&s)
			}
		}
	}
}
