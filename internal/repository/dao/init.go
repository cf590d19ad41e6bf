package dao

import (
	"context"

	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&FormSchema{},
		&Entry{},
		&EntryCounter{},
	); err != nil {
		return err
	}

	return NewEntryDAO(db).EnsureCounter(context.Background())
}
