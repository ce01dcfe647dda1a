package database

import "revlink/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Friendship{},
		&models.Notification{},
		&models.PushToken{},
	}
}
