package models

import "gorm.io/gorm"

type Tag struct {
	gorm.Model

	UserID      uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Color       string `gorm:"not null;default:#3b82f6"`
	Description string
	// UsageCount is maintained by clients, never incremented server-side.
	UsageCount int `gorm:"not null;default:0"`

	// Relationships
	User        User        `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TimeEntries []TimeEntry `gorm:"many2many:time_entry_tags;"`
}
