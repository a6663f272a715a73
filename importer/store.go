package importer

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&Server{},
		&Printer{},
		&Client{},
		&User{},
		&Department{},
		&PrintingEvent{},
		&ImportCheckpoint{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
