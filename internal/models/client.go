package models

import "gorm.io/gorm"

type Client struct {
	gorm.Model

	UserID  uint   `gorm:"not null;index"`
	Name    string `gorm:"not null"`
	Email   string
	Phone   string
	Company string
	Address string
	Notes   string
	Status  string `gorm:"not null;default:active"` // "active", "inactive"

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
