package importer

import "strings"

// Delimiter is the field separator used by the upstream print server's log
// format. It is a multi-byte rune the producer picked because it cannot
// appear in filenames, usernames or printer names.
const Delimiter = "╡"

// FieldCount is the fixed arity of one log line.
const FieldCount = 13

// RawPrintRecord is one log line split into its 13 positional fields, all
// still strings. OccupationID and DutyID (positions 6 and 8) are carried
// only for format compatibility with the producer; they are neither
// validated nor persisted.
type RawPrintRecord struct {
	Server       string
	Date         string
	Time         string
	Filename     string
	Username     string
	OccupationID string
	DepartmentID string
	DutyID       string
	Client       string
	Printer      string
	FileSize     string
	Pages        string
	Copies       string
}

// ParseLine splits one raw log line into a RawPrintRecord. It returns nil
// when the line or delimiter is empty, or when the segment count is not
// exactly FieldCount. Parsing is all-or-nothing: a malformed line is
// rejected here, before any validation or database work, and never yields
// a partial record.
func ParseLine(line string, delimiter string) *RawPrintRecord {
	if line == "" || delimiter == "" {
		return nil
	}
	parts := strings.Split(line, delimiter)
	if len(parts) != FieldCount {
		return nil
	}
	return &RawPrintRecord{
		Server:       parts[0],
		Date:         parts[1],
		Time:         parts[2],
		Filename:     parts[3],
		Username:     parts[4],
		OccupationID: parts[5],
		DepartmentID: parts[6],
		DutyID:       parts[7],
		Client:       parts[8],
		Printer:      parts[9],
		FileSize:     parts[10],
		Pages:        parts[11],
		Copies:       parts[12],
	}
}
