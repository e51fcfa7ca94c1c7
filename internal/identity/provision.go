package identity

import (
	"errors"

	"github.com/clockwise-dev/clockwise/db"
	"github.com/clockwise-dev/clockwise/internal/models"
	"gorm.io/gorm"
)

// ProvisionUser resolves a verified subject to a local user, creating one on
// first sight. The returned flag reports whether a new record was created.
// Concurrent first logins race on the username unique index; the loser
// re-fetches the winner's row instead of failing.
func ProvisionUser(gdb *gorm.DB, uid string, email string) (*models.User, bool, error) {
	var user models.User

	err := gdb.Where("username = ?", uid).First(&user).Error

	if err == nil {
		return &user, false, syncUser(gdb, &user, email)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user = models.User{Username: uid, Email: email, IsActive: true}

	if err := gdb.Create(&user).Error; err != nil {
		if !db.IsDuplicateKey(err) {
			return nil, false, err
		}

		// Lost the first-login race: another request created the row.
		var existing models.User

		if err := gdb.Where("username = ?", uid).First(&existing).Error; err != nil {
			return nil, false, err
		}

		return &existing, false, syncUser(gdb, &existing, email)
	}

	return &user, true, nil
}

// syncUser overwrites a stale email claim and reactivates inactive users.
func syncUser(gdb *gorm.DB, user *models.User, email string) error {
	changed := false

	if email != "" && user.Email != email {
		user.Email = email
		changed = true
	}

	if !user.IsActive {
		user.IsActive = true
		changed = true
	}

	if !changed {
		return nil
	}

	return gdb.Save(user).Error
}
