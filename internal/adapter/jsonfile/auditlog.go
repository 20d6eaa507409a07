package jsonfile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"replydesk/internal/port/auditlog"
)

// AuditLog implements auditlog.Log as an append-only JSONL file.
type AuditLog struct {
	mu   sync.Mutex
	path string
}

// NewAuditLog creates the audit log writer for path.
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// Append writes one record as a single JSON line.
func (l *AuditLog) Append(_ context.Context, rec auditlog.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("audit mkdir: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("audit open: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("audit encode: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. Malformed lines are
// skipped rather than failing the read.
func (l *AuditLog) Recent(_ context.Context, limit int) ([]auditlog.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("audit open: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []auditlog.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec auditlog.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit scan: %w", err)
	}

	// Reverse to newest-first, then trim.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
