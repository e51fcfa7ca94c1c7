package models

import (
	"time"

	"gorm.io/gorm"
)

type TimeEntry struct {
	gorm.Model

	UserID      uint  `gorm:"not null;index"`
	ProjectID   *uint `gorm:"index"`
	ClientID    *uint `gorm:"index"`
	Description string `gorm:"not null"`
	StartTime   time.Time `gorm:"not null"`
	EndTime     *time.Time
	// Duration is stored in seconds and is client-authoritative; it is never
	// derived from StartTime/EndTime server-side.
	Duration int `gorm:"not null;default:0"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Client  *Client  `gorm:"foreignKey:ClientID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Tags    []Tag    `gorm:"many2many:time_entry_tags;"`
}
