package watchlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend is a key/value text store holding one slot per key.
//
// GetText reports ok=false when the key has never been written.
type Backend interface {
	GetText(key string) (text string, ok bool, err error)
	SetText(key, text string) error
}

// MemoryBackend keeps slots in a map.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string]string
}

var (
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*FileBackend)(nil)
)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string]string)}
}

func (b *MemoryBackend) GetText(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	text, ok := b.slots[key]
	return text, ok, nil
}

func (b *MemoryBackend) SetText(key, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slots[key] = text
	return nil
}

// FileBackend stores each slot as <dir>/<key>.json.
//
// Writes go to a temporary file in the same directory which is then renamed over the slot, so readers only ever see
// a complete document.
type FileBackend struct {
	dir string
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create watchlist directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the directory holding the slot files.
func (b *FileBackend) Dir() string { return b.dir }

// Path returns the file backing key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b *FileBackend) GetText(key string) (string, bool, error) {
	data, err := os.ReadFile(b.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return string(data), true, nil
}

func (b *FileBackend) SetText(key, text string) error {
	tmp, err := os.CreateTemp(b.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close slot %s: %w", key, err)
	}

	if err := os.Rename(tmpName, b.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace slot %s: %w", key, err)
	}
	return nil
}
