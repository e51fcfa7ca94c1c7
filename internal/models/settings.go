package models

import "gorm.io/gorm"

type Settings struct {
	gorm.Model

	UserID           uint  `gorm:"uniqueIndex;not null"`
	DefaultProjectID *uint `gorm:"index"`
	Timezone         string `gorm:"not null;default:UTC"`
	AutoStart        bool   `gorm:"default:false"`
	ReminderInterval int    `gorm:"not null;default:30"` // minutes
	WeeklyGoal       int    `gorm:"not null;default:40"` // hours
	EmailNotifications    bool `gorm:"default:true"`
	ReminderNotifications bool `gorm:"default:true"`
	WeeklyReports         bool `gorm:"default:true"`
	TimeFormat string `gorm:"not null;default:24h"`        // "12h", "24h"
	DateFormat string `gorm:"not null;default:MM/DD/YYYY"`
	Theme      string `gorm:"not null;default:system"` // "light", "dark", "system"

	// Relationships
	User           User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	DefaultProject *Project `gorm:"foreignKey:DefaultProjectID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
