package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

const defaultHistorySize = 1000

// secretArg matches password flags; such lines are never recorded.
var secretArg = regexp.MustCompile(`(^|\s)(--password|-p)(\s|=|$)`)

// History keeps the most recent command lines and persists them to a file.
type History struct {
	mu      sync.Mutex
	entries []string
	maxSize int
	file    string
}

// NewHistory creates a history persisted at file. An empty file keeps it
// in memory only.
func NewHistory(file string, maxSize int) *History {
	if maxSize <= 0 {
		maxSize = defaultHistorySize
	}
	return &History{maxSize: maxSize, file: file}
}

// Add records line unless it repeats the previous entry or carries a
// password.
func (h *History) Add(line string) {
	if secretArg.MatchString(line) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if over := len(h.entries) - h.maxSize; over > 0 {
		h.entries = h.entries[over:]
	}
}

// Get returns the entry at index, 0 being the most recent.
func (h *History) Get(index int) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Load reads the history file. A missing file is not an error.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}
	f, err := os.Open(h.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.Add(line)
		}
	}
	return scanner.Err()
}

// Save writes the history file with mode 0600.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}

	entries := h.Entries()
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return os.WriteFile(h.file, []byte(b.String()), 0600)
}
