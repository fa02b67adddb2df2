// Package store persists whole JSON documents by name.
package store

import (
	"encoding/json"
	"fmt"
)

// Backend reads and overwrites complete documents. Implementations never
// patch: every Save replaces the previous contents in full.
type Backend interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
}

// LoadDocument reads the named document and parses it into v.
func LoadDocument(b Backend, name string, v any) error {
	raw, err := b.Load(name)
	if err != nil {
		return fmt.Errorf("read document %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse document %s: %w", name, err)
	}
	return nil
}

// SaveDocument serializes v with a two-space indent and overwrites the
// named document.
func SaveDocument(b Backend, name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document %s: %w", name, err)
	}
	if err := b.Save(name, raw); err != nil {
		return fmt.Errorf("write document %s: %w", name, err)
	}
	return nil
}
