package importer

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrImportRunning is returned when RunOnce is invoked while another run is
// still in flight in the same process.
var ErrImportRunning = errors.New("import already running")

// Lines are short (the longest field is a 260-char filename) but a corrupt
// file must not kill the scanner.
const maxLineBytes = 1 << 20

type RunnerConfig struct {
	SpoolDir string
	DBPath   string
	// Files whose name contains this marker are never opened.
	QuarantineMarker string
	Delimiter        string
}

// Runner drives the import pipeline: enumerate spool files, stream each one
// line by line through parse -> validate -> persist, delete fully read
// files, advance the checkpoint.
type Runner struct {
	cfg   RunnerConfig
	db    *gorm.DB
	store FileStore
	log   *Logger
	mu    sync.Mutex
}

func NewRunner(cfg RunnerConfig, log *Logger) (*Runner, error) {
	if strings.TrimSpace(cfg.SpoolDir) == "" {
		return nil, fmt.Errorf("SpoolDir is required")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return nil, fmt.Errorf("DBPath is required")
	}
	if cfg.QuarantineMarker == "" {
		cfg.QuarantineMarker = "erro"
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = Delimiter
	}
	if log == nil {
		log = NewLogger(slog.LevelInfo, "json")
	}
	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:   cfg,
		db:    db,
		store: NewDirStore(cfg.SpoolDir),
		log:   log,
	}, nil
}

func (r *Runner) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	err = sqlDB.Close()
	r.db = nil
	return err
}

type runStats struct {
	FilesProcessed  int
	FilesSkipped    int
	FilesFailed     int
	Lines           int
	ParseFailures   int
	InvalidRecords  int
	EventsPersisted int
	Duplicates      int
	PersistFailures int
}

// RunOnce executes one full import pass. It is the pipeline's single entry
// point, invoked by the scheduler, the poll loop or the spool watcher.
// Overlapping invocations in the same process get ErrImportRunning instead
// of racing each other to delete files.
func (r *Runner) RunOnce() error {
	if !r.mu.TryLock() {
		return ErrImportRunning
	}
	defer r.mu.Unlock()

	start := time.Now()
	stats := &runStats{}
	log := r.log.With(
		"run_id", uuid.NewString(),
		"spool_dir", r.cfg.SpoolDir,
		"delimiter", r.cfg.Delimiter,
		"fields", FieldCount,
	)

	log.Notice("print log import started")

	names, err := r.store.List()
	if err != nil {
		return fmt.Errorf("list spool files: %w", err)
	}

	for _, name := range names {
		if strings.Contains(name, r.cfg.QuarantineMarker) {
			stats.FilesSkipped++
			FilesSkipped.Inc()
			log.Debug("skipping quarantined file", "file", name)
			continue
		}

		linesBefore := stats.Lines
		eventsBefore := stats.EventsPersisted
		if err := r.importFile(name, log, stats); err != nil {
			// I/O fault: leave the file in place so the next run retries it.
			// Replayed lines collide on the dedup index and are skipped.
			stats.FilesFailed++
			FilesFailed.Inc()
			log.Critical("file read failed, keeping file for retry",
				"file", name, "path", r.store.Path(name), "error", err.Error())
			continue
		}
		if err := r.store.Remove(name); err != nil {
			stats.FilesFailed++
			FilesFailed.Inc()
			log.Critical("processed file could not be deleted",
				"file", name, "path", r.store.Path(name), "error", err.Error())
			continue
		}
		now := time.Now().UTC()
		if err := r.updateCheckpoint(now); err != nil {
			log.Error("checkpoint update failed", "error", err.Error())
		}
		stats.FilesProcessed++
		FilesProcessed.Inc()
		LastImportTimestamp.Set(float64(now.Unix()))
		log.Info("print log file processed",
			"file", name,
			"lines", stats.Lines-linesBefore,
			"events", stats.EventsPersisted-eventsBefore)
	}

	log.Notice("print log import finished",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_failed", stats.FilesFailed,
		"lines", stats.Lines,
		"parse_failures", stats.ParseFailures,
		"invalid_records", stats.InvalidRecords,
		"events_persisted", stats.EventsPersisted,
		"duplicates", stats.Duplicates,
		"persist_failures", stats.PersistFailures,
		"elapsed", time.Since(start).String(),
	)
	return nil
}

// importFile streams one spool file line by line. Only a read error aborts
// the file; record-level failures are logged and skipped so every line gets
// its attempt.
func (r *Runner) importFile(name string, log *Logger, stats *runStats) error {
	f, err := r.store.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		stats.Lines++
		LinesRead.Inc()
		r.importLine(sc.Text(), name, log, stats)
	}
	return sc.Err()
}

func (r *Runner) importLine(line string, file string, log *Logger, stats *runStats) {
	raw := ParseLine(line, r.cfg.Delimiter)
	if raw == nil {
		// Structural garbage is expected and cheap to drop; no log.
		stats.ParseFailures++
		ParseFailures.Inc()
		return
	}

	rec, fieldErrs := Validate(raw)
	if len(fieldErrs) > 0 {
		stats.InvalidRecords++
		ValidationFailures.Inc()
		log.Warn("print record failed validation",
			"file", file, "line", line, "errors", fieldErrs)
		return
	}

	if err := Persist(r.db, rec); err != nil {
		if IsDuplicate(err) {
			stats.Duplicates++
			EventsDuplicate.Inc()
			log.Critical("print record already imported",
				"file", file, "record", rec, "error", err.Error())
			return
		}
		stats.PersistFailures++
		PersistFailures.Inc()
		log.Critical("print record persist failed",
			"file", file, "record", rec, "error", err.Error())
		return
	}
	stats.EventsPersisted++
	EventsPersisted.Inc()
}

func (r *Runner) updateCheckpoint(ts time.Time) error {
	cp := ImportCheckpoint{ID: 1, LastImportAt: ts}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cp).Error
}

// LastImport returns the checkpoint timestamp of the most recent
// successfully processed file, or the zero time when nothing has been
// imported yet.
func (r *Runner) LastImport() (time.Time, error) {
	var cp ImportCheckpoint
	err := r.db.First(&cp, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return cp.LastImportAt, nil
}
