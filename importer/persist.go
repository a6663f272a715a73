package importer

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Persist writes one validated record inside a single transaction: the
// referenced server, printer, client and user are found or created, the
// department is associated when it exists, and the printing event is
// inserted. Any error rolls the whole record back; a uniqueness violation
// on the dedup index means the record was imported by a previous run and
// is reported through IsDuplicate.
func Persist(db *gorm.DB, rec *ValidatedPrintRecord) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var server Server
		if err := tx.FirstOrCreate(&server, Server{Name: rec.Server}).Error; err != nil {
			return err
		}
		var printer Printer
		if err := tx.FirstOrCreate(&printer, Printer{Name: rec.Printer}).Error; err != nil {
			return err
		}
		var client Client
		if err := tx.FirstOrCreate(&client, Client{Name: rec.Client}).Error; err != nil {
			return err
		}
		user, err := firstOrCreateUser(tx, rec.Username)
		if err != nil {
			return err
		}

		ev := PrintingEvent{
			PrintedAt:  rec.PrintedAt,
			FileSize:   rec.FileSize,
			Pages:      rec.Pages,
			Copies:     rec.Copies,
			ClientID:   client.ID,
			UserID:     user.ID,
			PrinterID:  printer.ID,
			ServerID:   server.ID,
			ImportedAt: time.Now().UTC(),
		}
		if rec.Filename != "" {
			ev.Filename = &rec.Filename
		}
		if rec.DepartmentID != nil {
			var dep Department
			err := tx.First(&dep, *rec.DepartmentID).Error
			switch {
			case err == nil:
				ev.DepartmentID = &dep.ID
			case errors.Is(err, gorm.ErrRecordNotFound):
				// Unknown department id: the association is simply omitted.
			default:
				return err
			}
		}
		return tx.Create(&ev).Error
	})
}

// firstOrCreateUser avoids the FirstOrCreate attrs form so the bcrypt cost
// is only paid when the user is actually new.
func firstOrCreateUser(tx *gorm.DB, username string) (*User, error) {
	var user User
	err := tx.Where(&User{Username: username}).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := placeholderPassword()
	if err != nil {
		return nil, err
	}
	user = User{Username: username, PasswordHash: hash}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// placeholderPassword returns a bcrypt hash of 32 random bytes. Nobody can
// log in with it; the account exists only so printing events have an owner.
func placeholderPassword() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsDuplicate reports whether err is a uniqueness violation on the dedup
// tuple, i.e. the record was already imported by an earlier run.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
