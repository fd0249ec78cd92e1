package main

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// LogFields is one structured log event. The run log emits a single JSON
// object per line with the fields the fulfillment pipeline indexes on.
type LogFields struct {
	Instance   string `json:"instance"`
	Level      string `json:"level"`
	Step       string `json:"step,omitempty"`
	URL        string `json:"url,omitempty"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

type RunLog struct {
	instance string
	out      *log.Logger
}

func NewRunLog(instance string, w io.Writer) *RunLog {
	return &RunLog{
		instance: instance,
		out:      log.New(w, "", 0),
	}
}

// OpenRunLog writes events to both stderr and <dir>/checkout_bot.log,
// creating the directory on first use.
func OpenRunLog(instance, dir string) (*RunLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "checkout_bot.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return NewRunLog(instance, io.MultiWriter(os.Stderr, f)), nil
}

func (l *RunLog) Info(f LogFields)  { f.Level = "info"; l.write(f) }
func (l *RunLog) Warn(f LogFields)  { f.Level = "warn"; l.write(f) }
func (l *RunLog) Error(f LogFields) { f.Level = "error"; l.write(f) }

func (l *RunLog) write(f LogFields) {
	f.Instance = l.instance

	entry := struct {
		LogFields
		Timestamp string `json:"timestamp"`
	}{f, time.Now().UTC().Format(time.RFC3339Nano)}

	data, err := json.Marshal(entry)
	if err != nil {
		l.out.Printf("{\"instance\":%q,\"level\":\"error\",\"message\":\"log marshal failed: %s\"}", l.instance, err)
		return
	}
	l.out.Print(string(data))
}
