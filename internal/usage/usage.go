// Package usage appends one audit event per scoring attempt to a local
// JSON-lines log. The log feeds cost estimation and operational dashboards;
// it is not required for correctness and failures to append never propagate.
package usage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one scoring attempt.
type Event struct {
	ID       string    `json:"id"`
	RunID    string    `json:"run_id"`
	Trigger  string    `json:"trigger"`
	Position string    `json:"position"`
	Identity string    `json:"identity"`
	Outcome  string    `json:"outcome"`
	Attempts int       `json:"attempts"`
	Time     time.Time `json:"time"`
}

// Outcome values.
const (
	OutcomeScored   = "scored"
	OutcomeFallback = "fallback"
	OutcomeFailed   = "failed"
)

// Logger appends events to a single file, one JSON object per line.
type Logger struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func NewLogger(path string, logger *zap.Logger) *Logger {
	return &Logger{path: path, logger: logger}
}

// Record appends the event. Best effort: an unwritable log is reported as a
// warning and otherwise ignored.
func (l *Logger) Record(ev Event) {
	if l == nil || l.path == "" {
		return
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		l.logger.Warn("creating usage log directory", zap.Error(err))
		return
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.logger.Warn("opening usage log", zap.Error(err))
		return
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(ev); err != nil {
		l.logger.Warn("appending usage event", zap.Error(err))
	}
}
