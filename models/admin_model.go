package models

import "time"

// Admin is a back-office user. Passwords are stored as bcrypt hashes only.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Payments []Payment `gorm:"foreignKey:AdminID" json:"-"`
}

type AdminBank struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:100;index;not null" json:"username"`
	BankName string `gorm:"size:100;not null" json:"bank_name"`
}
