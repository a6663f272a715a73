package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() *RawPrintRecord {
	return &RawPrintRecord{
		Server:   "srv1",
		Date:     "01/12/2020",
		Time:     "08:00:00",
		Filename: "report.pdf",
		Username: "alice",
		Client:   "CPU-1",
		Printer:  "IMP-1",
		FileSize: "1000",
		Pages:    "4",
		Copies:   "2",
	}
}

func fieldRule(errs []FieldError, field string) string {
	for _, e := range errs {
		if e.Field == field {
			return e.Rule
		}
	}
	return ""
}

func TestValidate_Valid(t *testing.T) {
	rec, errs := Validate(validRaw())
	require.Empty(t, errs)
	require.NotNil(t, rec)

	assert.Equal(t, "srv1", rec.Server)
	assert.Equal(t, time.Date(2020, time.December, 1, 8, 0, 0, 0, time.UTC), rec.PrintedAt)
	assert.Equal(t, "report.pdf", rec.Filename)
	assert.Equal(t, "alice", rec.Username)
	assert.Nil(t, rec.DepartmentID)
	require.NotNil(t, rec.FileSize)
	assert.Equal(t, int64(1000), *rec.FileSize)
	assert.Equal(t, int64(4), rec.Pages)
	assert.Equal(t, int64(2), rec.Copies)
}

func TestValidate_OptionalFieldsAbsent(t *testing.T) {
	raw := validRaw()
	raw.Filename = ""
	raw.FileSize = ""
	raw.DepartmentID = ""

	rec, errs := Validate(raw)
	require.Empty(t, errs)
	assert.Equal(t, "", rec.Filename)
	assert.Nil(t, rec.FileSize)
	assert.Nil(t, rec.DepartmentID)
}

func TestValidate_DepartmentCoerced(t *testing.T) {
	raw := validRaw()
	raw.DepartmentID = "42"

	rec, errs := Validate(raw)
	require.Empty(t, errs)
	require.NotNil(t, rec.DepartmentID)
	assert.Equal(t, int64(42), *rec.DepartmentID)
}

func TestValidate_PagesZeroFailsGte(t *testing.T) {
	raw := validRaw()
	raw.Pages = "0"

	rec, errs := Validate(raw)
	assert.Nil(t, rec)
	assert.Equal(t, "gte", fieldRule(errs, "pages"))
}

func TestValidate_RuleViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawPrintRecord)
		field  string
		rule   string
	}{
		{"missing server", func(r *RawPrintRecord) { r.Server = "" }, "server", "required"},
		{"missing username", func(r *RawPrintRecord) { r.Username = " " }, "username", "required"},
		{"username too long", func(r *RawPrintRecord) { r.Username = strings.Repeat("a", 21) }, "username", "max"},
		{"server too long", func(r *RawPrintRecord) { r.Server = strings.Repeat("s", 256) }, "server", "max"},
		{"filename too long", func(r *RawPrintRecord) { r.Filename = strings.Repeat("f", 261) }, "filename", "max"},
		{"iso date rejected", func(r *RawPrintRecord) { r.Date = "2020-12-01" }, "date", "format"},
		{"missing date", func(r *RawPrintRecord) { r.Date = "" }, "date", "required"},
		{"short time rejected", func(r *RawPrintRecord) { r.Time = "8:00" }, "time", "format"},
		{"department not an integer", func(r *RawPrintRecord) { r.DepartmentID = "abc" }, "department_id", "integer"},
		{"file size zero", func(r *RawPrintRecord) { r.FileSize = "0" }, "file_size", "gte"},
		{"copies not an integer", func(r *RawPrintRecord) { r.Copies = "two" }, "copies", "integer"},
		{"missing pages", func(r *RawPrintRecord) { r.Pages = "" }, "pages", "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(raw)
			rec, errs := Validate(raw)
			assert.Nil(t, rec)
			assert.Equal(t, tt.rule, fieldRule(errs, tt.field))
		})
	}
}

func TestValidate_AggregatesAllFailures(t *testing.T) {
	raw := validRaw()
	raw.Server = ""
	raw.Pages = "0"
	raw.Date = "bad"

	rec, errs := Validate(raw)
	assert.Nil(t, rec)
	assert.Len(t, errs, 3)
}

func TestValidate_DeadFieldsIgnored(t *testing.T) {
	raw := validRaw()
	raw.OccupationID = "not-a-number"
	raw.DutyID = "also garbage"

	rec, errs := Validate(raw)
	require.Empty(t, errs)
	require.NotNil(t, rec)
}
