package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Layouts for the producer's date and time columns.
const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04:05"
)

// FieldError describes one failed validation rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Message }

// ValidatedPrintRecord is a RawPrintRecord with types coerced and the
// pipeline's invariants guaranteed: required fields present, numeric fields
// within range, date and time parsed into a single timestamp. It is consumed
// exactly once by Persist and then discarded.
type ValidatedPrintRecord struct {
	Server       string    `json:"server"`
	PrintedAt    time.Time `json:"printed_at"`
	Filename     string    `json:"filename,omitempty"`
	Username     string    `json:"username"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	Client       string    `json:"client"`
	Printer      string    `json:"printer"`
	FileSize     *int64    `json:"file_size,omitempty"`
	Pages        int64     `json:"pages"`
	Copies       int64     `json:"copies"`
}

// Validate applies the per-field rules to a parsed record and coerces it
// into a ValidatedPrintRecord. On failure it returns nil and the full list
// of rule violations; the caller logs those at warning level together with
// the raw input. Department existence is deliberately not checked here —
// the association is resolved softly at persist time.
func Validate(raw *RawPrintRecord) (*ValidatedPrintRecord, []FieldError) {
	var errs []FieldError

	server := requireString(&errs, "server", raw.Server, 255)
	username := requireString(&errs, "username", raw.Username, 20)
	client := requireString(&errs, "client", raw.Client, 255)
	printer := requireString(&errs, "printer", raw.Printer, 255)

	if utf8.RuneCountInString(raw.Filename) > 260 {
		errs = append(errs, FieldError{"filename", "max", "filename exceeds 260 characters"})
	}

	var day time.Time
	if strings.TrimSpace(raw.Date) == "" {
		errs = append(errs, FieldError{"date", "required", "date is required"})
	} else if d, err := time.Parse(DateLayout, raw.Date); err != nil {
		errs = append(errs, FieldError{"date", "format", fmt.Sprintf("date %q does not match dd/mm/yyyy", raw.Date)})
	} else {
		day = d
	}

	var clock time.Time
	if strings.TrimSpace(raw.Time) == "" {
		errs = append(errs, FieldError{"time", "required", "time is required"})
	} else if c, err := time.Parse(TimeLayout, raw.Time); err != nil {
		errs = append(errs, FieldError{"time", "format", fmt.Sprintf("time %q does not match hh:mm:ss", raw.Time)})
	} else {
		clock = c
	}

	departmentID := optionalInt(&errs, "department_id", raw.DepartmentID, 0)
	fileSize := optionalInt(&errs, "file_size", raw.FileSize, 1)
	pages := requireInt(&errs, "pages", raw.Pages, 1)
	copies := requireInt(&errs, "copies", raw.Copies, 1)

	if len(errs) > 0 {
		return nil, errs
	}

	return &ValidatedPrintRecord{
		Server: server,
		PrintedAt: time.Date(day.Year(), day.Month(), day.Day(),
			clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC),
		Filename:     raw.Filename,
		Username:     username,
		DepartmentID: departmentID,
		Client:       client,
		Printer:      printer,
		FileSize:     fileSize,
		Pages:        pages,
		Copies:       copies,
	}, nil
}

func requireString(errs *[]FieldError, field string, v string, max int) string {
	if strings.TrimSpace(v) == "" {
		*errs = append(*errs, FieldError{field, "required", field + " is required"})
		return ""
	}
	if utf8.RuneCountInString(v) > max {
		*errs = append(*errs, FieldError{field, "max", fmt.Sprintf("%s exceeds %d characters", field, max)})
	}
	return v
}

func requireInt(errs *[]FieldError, field string, v string, min int64) int64 {
	s := strings.TrimSpace(v)
	if s == "" {
		*errs = append(*errs, FieldError{field, "required", field + " is required"})
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*errs = append(*errs, FieldError{field, "integer", field + " must be an integer"})
		return 0
	}
	if n < min {
		*errs = append(*errs, FieldError{field, "gte", fmt.Sprintf("%s must be >= %d", field, min)})
	}
	return n
}

// optionalInt coerces an optional numeric field. An empty value is simply
// absent. min <= 0 disables the range check.
func optionalInt(errs *[]FieldError, field string, v string, min int64) *int64 {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*errs = append(*errs, FieldError{field, "integer", field + " must be an integer"})
		return nil
	}
	if min > 0 && n < min {
		*errs = append(*errs, FieldError{field, "gte", fmt.Sprintf("%s must be >= %d", field, min)})
	}
	return &n
}
