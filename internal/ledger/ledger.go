// Package ledger records which process produced which output file.
//
// The ledger is an append-only, in-memory log. Queries are linear scans in
// insertion order, which is fine for the handful of records a run produces.
// Save and Load persist the log as JSON lines so lineage can outlive a
// single process.
package ledger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"projio/internal/fsutil"
	"projio/internal/logger"
)

// Record links an output path to the process path that produced it.
type Record struct {
	ID         string    `json:"id"`
	Target     string    `json:"target"`
	Producer   string    `json:"producer"`
	Kind       string    `json:"kind,omitempty"`
	Tag        string    `json:"tag,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Ledger is safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	records []Record
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Track appends a record. Tracking the same pair twice yields two records.
func (l *Ledger) Track(target, producer, kind, tag string) Record {
	rec := Record{
		ID:         uuid.NewString(),
		Target:     target,
		Producer:   producer,
		Kind:       kind,
		Tag:        tag,
		RecordedAt: time.Now().UTC(),
	}
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
	return rec
}

// ProducersOf returns every record whose target is target.
func (l *Ledger) ProducersOf(target string) []Record {
	return l.filter(func(r Record) bool { return r.Target == target })
}

// OutputsOf returns every record whose producer is producer.
func (l *Ledger) OutputsOf(producer string) []Record {
	return l.filter(func(r Record) bool { return r.Producer == producer })
}

// All returns a copy of the log.
func (l *Ledger) All() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.records)
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *Ledger) filter(keep func(Record) bool) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Record
	for _, r := range l.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Save writes the whole log to path as JSON lines.
func (l *Ledger) Save(path string) error {
	records := l.All()
	var buf bytes.Buffer
	for _, r := range records {
		blob, err := json.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "LEDGER_ENCODE")
		}
		buf.Write(blob)
		buf.WriteByte('\n')
	}
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "LEDGER_SAVE")
	}
	if err := fsutil.AtomicWrite(path, buf.Bytes(), fsutil.FilePerm); err != nil {
		return errors.Wrap(err, "LEDGER_SAVE")
	}
	logger.Logger.Infow("saved producer ledger", "path", path, "records", len(records))
	return nil
}

// Load reads records from path and appends them to the log. A missing file
// is an empty ledger; malformed lines are skipped.
func Load(path string) (*Ledger, error) {
	l := New()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, errors.Wrap(err, "LEDGER_OPEN")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	skipped := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(line, &r); err != nil || r.Target == "" {
			skipped++
			continue
		}
		l.records = append(l.records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "LEDGER_READ")
	}
	if skipped > 0 {
		logger.Logger.Warnw("skipped malformed ledger lines", "path", path, "count", skipped)
	}
	return l, nil
}
