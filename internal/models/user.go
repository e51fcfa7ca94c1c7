package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	// Username is either a chosen name or, for identity-provider accounts,
	// the provider's stable subject identifier.
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string
	PasswordHash string // empty for identity-token-only accounts
	IsActive     bool   `gorm:"default:true"`

	// Relationships
	Clients     []Client    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Projects    []Project   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tags        []Tag       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TimeEntries []TimeEntry `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Settings    *Settings   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
