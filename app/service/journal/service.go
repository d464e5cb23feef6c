// Package journal keeps a local JSONL trail of every submission attempt so
// operators can inspect and replay records the backend never acknowledged.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"medintake/app/service/schema"

	"github.com/samber/do"
)

type Entry struct {
	ConversationID string            `json:"conversation_id"`
	Intent         schema.Intent     `json:"intent"`
	Record         map[string]string `json:"record"`
	Submitted      bool              `json:"submitted"`
	Error          string            `json:"error,omitempty"`
	Time           time.Time         `json:"time"`
}

type Service struct {
	mu   sync.Mutex
	path string
}

func New(_ *do.Injector) (*Service, error) {
	return NewWithPath(filepath.Join("data", "records.jsonl"))
}

func NewWithPath(path string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	defer file.Close()

	return &Service{path: path}, nil
}

func (s *Service) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	if _, err = file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}

	return nil
}

// Load reads the whole journal back, skipping blank lines.
func (s *Service) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	defer file.Close()

	var entries []Entry

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err = json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("failed to parse journal line: %w", err)
		}

		entries = append(entries, entry)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading journal file: %w", err)
	}

	return entries, nil
}
