package importer

import "time"

// Server, Printer and Client are lightweight named entities created lazily
// the first time a name shows up in a log line. The pipeline never updates
// or deletes them.

type Server struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:255"`
}

type Printer struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:255"`
}

type Client struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:255"`
}

// User is created lazily by username. PasswordHash is a bcrypt hash of
// random bytes: a placeholder that can never authenticate. Real credential
// management belongs to an external system.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:20"`
	PasswordHash string `gorm:"size:60"`
	CreatedAt    time.Time
}

// Department rows are owned by the corporate-structure import; this
// pipeline only looks them up.
type Department struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255"`
}

// PrintingEvent is the immutable fact row for one print job. The composite
// unique index is the dedup key that makes reprocessing a file idempotent:
// a replayed line collides here and is swallowed as already imported.
type PrintingEvent struct {
	ID           uint      `gorm:"primaryKey"`
	PrintedAt    time.Time `gorm:"uniqueIndex:uniq_print_event"`
	Filename     *string   `gorm:"size:260"`
	FileSize     *int64
	Pages        int64
	Copies       int64
	ClientID     uint `gorm:"uniqueIndex:uniq_print_event"`
	UserID       uint `gorm:"uniqueIndex:uniq_print_event"`
	PrinterID    uint `gorm:"uniqueIndex:uniq_print_event"`
	ServerID     uint `gorm:"uniqueIndex:uniq_print_event"`
	DepartmentID *uint
	ImportedAt   time.Time `gorm:"index"`
}

// ImportCheckpoint is a single-row table holding the timestamp of the last
// successfully processed file. It is an observability signal, not a resume
// cursor: each spool file retries independently.
type ImportCheckpoint struct {
	ID           uint `gorm:"primaryKey"`
	LastImportAt time.Time
}
