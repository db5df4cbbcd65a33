// Package storage provides durable backings for the cart collection.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"trackify/internal/model"
)

// snapshot is the on-disk shape: the entry array under a single cart key,
// mirroring the browser-profile key-value store it replaces.
type snapshot struct {
	Cart []model.CartEntry `json:"cart"`
}

// FilePort persists the cart as a JSON snapshot file, rewritten atomically
// on every save.
type FilePort struct {
	path string
}

func NewFilePort(path string) *FilePort {
	return &FilePort{path: path}
}

func (p *FilePort) Load() ([]model.CartEntry, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.path, err)
	}
	return snap.Cart, nil
}

func (p *FilePort) Save(entries []model.CartEntry) error {
	if entries == nil {
		entries = []model.CartEntry{}
	}
	data, err := json.Marshal(snapshot{Cart: entries})
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	dir := filepath.Dir(p.path)
	tmp, err := os.CreateTemp(dir, ".cart-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(name, p.path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
