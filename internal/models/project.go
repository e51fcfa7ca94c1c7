package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	UserID      uint  `gorm:"not null;index"`
	ClientID    *uint `gorm:"index"`
	Name        string `gorm:"not null"`
	Color       string `gorm:"not null;default:#3b82f6"`
	Status      string `gorm:"not null;default:active"` // "active", "completed", "on-hold"
	Description string
	DueDate     *time.Time `gorm:"type:date"`

	// Relationships
	User   User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Client *Client `gorm:"foreignKey:ClientID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
