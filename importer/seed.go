package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// SeedOptions controls sample spool-file generation for local runs and
// integration testing.
type SeedOptions struct {
	Lines int
	// Fraction of lines emitted with a missing field (0..1).
	MalformedRatio float64
	Servers        int
	Printers       int
	Clients        int
	Users          int
	// Highest department id referenced; 0 leaves the column empty.
	Departments int
	Start       time.Time
	// Seed for deterministic output; 0 derives one from the clock.
	Seed int64
}

func (o *SeedOptions) defaults() {
	if o.Lines <= 0 {
		o.Lines = 100
	}
	if o.Servers <= 0 {
		o.Servers = 2
	}
	if o.Printers <= 0 {
		o.Printers = 5
	}
	if o.Clients <= 0 {
		o.Clients = 10
	}
	if o.Users <= 0 {
		o.Users = 8
	}
	if o.Start.IsZero() {
		o.Start = time.Now().UTC().Add(-time.Duration(o.Lines) * time.Second)
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// WriteSampleFile writes one spool file of generated print-log lines into
// dir and returns its path.
func WriteSampleFile(dir string, opts SeedOptions) (string, error) {
	opts.defaults()
	faker := gofakeit.New(opts.Seed)

	servers := make([]string, opts.Servers)
	for i := range servers {
		servers[i] = fmt.Sprintf("srv%d", i+1)
	}
	printers := make([]string, opts.Printers)
	for i := range printers {
		printers[i] = fmt.Sprintf("IMP-%d", i+1)
	}
	clients := make([]string, opts.Clients)
	for i := range clients {
		clients[i] = fmt.Sprintf("CPU-%d", i+1)
	}
	users := make([]string, opts.Users)
	for i := range users {
		u := faker.Username()
		// Usernames are capped at 20 characters downstream.
		if len(u) > 20 {
			u = u[:20]
		}
		users[i] = u
	}

	var b strings.Builder
	for i := 0; i < opts.Lines; i++ {
		ts := opts.Start.Add(time.Duration(i) * time.Second)
		department := ""
		if opts.Departments > 0 && faker.Bool() {
			department = strconv.Itoa(faker.Number(1, opts.Departments))
		}
		fields := []string{
			servers[faker.Number(0, len(servers)-1)],
			ts.Format(DateLayout),
			ts.Format(TimeLayout),
			faker.Word() + ".pdf",
			users[faker.Number(0, len(users)-1)],
			"", // occupation id, unused downstream
			department,
			"", // duty id, unused downstream
			clients[faker.Number(0, len(clients)-1)],
			printers[faker.Number(0, len(printers)-1)],
			strconv.Itoa(faker.Number(1024, 10*1024*1024)),
			strconv.Itoa(faker.Number(1, 40)),
			strconv.Itoa(faker.Number(1, 3)),
		}
		if opts.MalformedRatio > 0 && faker.Float64Range(0, 1) < opts.MalformedRatio {
			fields = fields[:len(fields)-1]
		}
		b.WriteString(strings.Join(fields, Delimiter))
		b.WriteByte('\n')
	}

	name := fmt.Sprintf("printlog-%s-%04d.log", opts.Start.Format("20060102-150405"), faker.Number(0, 9999))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// SeedDepartments inserts departments 1..n so generated department ids
// resolve. In production these rows come from the corporate-structure
// import; this exists for local runs only.
func SeedDepartments(db *gorm.DB, n int, seed int64) error {
	faker := gofakeit.New(seed)
	for i := 1; i <= n; i++ {
		dep := Department{ID: uint(i), Name: faker.JobDescriptor() + " " + faker.JobLevel()}
		if err := db.FirstOrCreate(&dep, Department{ID: uint(i)}).Error; err != nil {
			return err
		}
	}
	return nil
}
