// Package journal appends JSON records to day-partitioned JSONL files laid out as
// <root>/<YYYY-MM>/<YYYY-MM-DD>.jsonl (UTC).
//
// Each append opens the file in append mode and closes it again. That is safe for a
// single writer per process but not for concurrent writers across processes.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Journal writes and reads one JSONL stream
type Journal struct {
	root string
	now  func() time.Time
}

// New creates a journal rooted at dir
func New(dir string) *Journal {
	return &Journal{
		root: dir,
		now:  time.Now,
	}
}

// WithClock overrides the time source
func (j *Journal) WithClock(now func() time.Time) *Journal {
	j.now = now
	return j
}

// Root returns the journal root directory
func (j *Journal) Root() string {
	return j.root
}

// PathFor returns the file that records written at t belong to
func (j *Journal) PathFor(t time.Time) string {
	t = t.UTC()
	return filepath.Join(j.root, t.Format("2006-01"), t.Format("2006-01-02")+".jsonl")
}

// Append marshals record and writes it as one line to today's file
func (j *Journal) Append(record any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record; %w", err)
	}

	path := j.PathFor(j.now())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create journal directory; %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open journal file; %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return "", fmt.Errorf("failed to write journal record; %w", err)
	}

	return path, nil
}

// ReadDays decodes every record written during the last `days` UTC days (today included).
// Lines that fail to decode are skipped.
func ReadDays[T any](j *Journal, days int) ([]T, error) {
	var records []T

	today := j.now().UTC()
	for i := 0; i < days; i++ {
		path := j.PathFor(today.AddDate(0, 0, -i))

		dayRecords, err := readFile[T](path)
		if err != nil {
			return nil, err
		}
		records = append(records, dayRecords...)
	}

	return records, nil
}

func readFile[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file; %w", err)
	}
	defer file.Close()

	var records []T
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record T
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal file; %w", err)
	}

	return records, nil
}
