package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"storefront_automation/domain/entities"
	"storefront_automation/domain/interfaces"

	"github.com/spf13/afero"
)

type runHistory struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewRunHistory - creates run history storage backed by a JSON file
func NewRunHistory(fs afero.Fs, path string) interfaces.ResultStore {
	return &runHistory{fs: fs, path: path}
}

// SaveResult - appends result to the history file
func (h *runHistory) SaveResult(result entities.RunResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	history, err := h.load()
	if err != nil {
		return err
	}
	history = append(history, result)

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	if err := h.fs.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(h.fs, h.path, data, 0o644)
}

// LoadHistory - loads all recorded runs, oldest first
func (h *runHistory) LoadHistory() ([]entities.RunResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *runHistory) load() ([]entities.RunResult, error) {
	data, err := afero.ReadFile(h.fs, h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.RunResult{}, nil
		}
		return nil, err
	}

	var history []entities.RunResult
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}
