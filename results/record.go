package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/samber/lo"
)

// Record is one produced video in the ledger.
type Record struct {
	Subreddit        string `json:"subreddit"`
	ID               string `json:"id"`
	Time             string `json:"time"`
	BackgroundCredit string `json:"background_credit"`
	Title            string `json:"reddit_title"`
	Filename         string `json:"filename"`
}

// Ledger is a JSON file listing every video already produced, used to skip
// threads that were rendered before.
type Ledger struct {
	Path string
}

func NewLedger(path string) *Ledger {
	return &Ledger{Path: path}
}

func (l *Ledger) load() ([]Record, error) {
	raw, err := os.ReadFile(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", l.Path, err)
	}
	return records, nil
}

// Contains reports whether a thread was already rendered.
func (l *Ledger) Contains(threadID string) (bool, error) {
	records, err := l.load()
	if err != nil {
		return false, err
	}
	return lo.ContainsBy(records, func(r Record) bool { return r.ID == threadID }), nil
}

// Append adds a record, stamping it with the current time. Appending an ID
// that is already present is a no-op so retried jobs do not duplicate.
func (l *Ledger) Append(rec Record) error {
	records, err := l.load()
	if err != nil {
		return err
	}
	if lo.ContainsBy(records, func(r Record) bool { return r.ID == rec.ID }) {
		return nil
	}
	if rec.Time == "" {
		rec.Time = strconv.FormatInt(time.Now().Unix(), 10)
	}
	records = append(records, rec)

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	if err := os.WriteFile(l.Path, raw, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}
