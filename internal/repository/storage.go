package repository

import (
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/vietanh2810/church-members-api/internal/repository/dao"
	"github.com/vietanh2810/church-members-api/internal/repository/mongodao"
)

// Storage bundles the DAOs of one backing store.
type Storage struct {
	Users   UserDAO
	Forms   FormDAO
	Entries EntryDAO
}

func NewGormStorage(db *gorm.DB) Storage {
	return Storage{
		Users:   dao.NewUserDAO(db),
		Forms:   dao.NewFormDAO(db),
		Entries: dao.NewEntryDAO(db),
	}
}

func NewMongoStorage(db *mongo.Database) Storage {
	return Storage{
		Users:   mongodao.NewUserDAO(db),
		Forms:   mongodao.NewFormDAO(db),
		Entries: mongodao.NewEntryDAO(db),
	}
}
