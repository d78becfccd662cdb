package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	coremetrics "github.com/kilianp07/routekpi/core/metrics"
)

// JournalConfig configures the rotating JSONL journal.
type JournalConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// JournalSink appends every event as one JSON line to a rotating file.
type JournalSink struct {
	mu  sync.Mutex
	out *lumberjack.Logger
	enc *json.Encoder
}

// JournalRecord is one line of the journal.
type JournalRecord struct {
	Kind       string                       `json:"kind"`
	Time       time.Time                    `json:"time"`
	Resolution *coremetrics.ResolutionEvent `json:"resolution,omitempty"`
	Batch      *coremetrics.BatchEvent      `json:"batch,omitempty"`
}

// NewJournalSink opens the journal at cfg.Path, creating its directory.
func NewJournalSink(cfg JournalConfig) (*JournalSink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal: path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return &JournalSink{out: lj, enc: json.NewEncoder(lj)}, nil
}

// RecordResolution appends a resolution line.
func (s *JournalSink) RecordResolution(ev coremetrics.ResolutionEvent) error {
	return s.append(JournalRecord{Kind: "resolution", Time: ev.Time, Resolution: &ev})
}

// RecordBatch appends a batch line.
func (s *JournalSink) RecordBatch(ev coremetrics.BatchEvent) error {
	return s.append(JournalRecord{Kind: "batch", Time: ev.Time, Batch: &ev})
}

func (s *JournalSink) append(rec JournalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(rec)
}

// Close closes the underlying writer.
func (s *JournalSink) Close() error {
	return s.out.Close()
}
