// Package json holds the JSON wire forms of tutor values: the turns and
// outputs exchanged with the browser host, a deterministic encoding of
// model requests, and the transcript export envelope.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/tutor"
)

// envelope is the v1 wire format for an exported transcript.
type envelope struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Turns     []Turn    `json:"turns"`
}

// MarshalSession serializes a session's transcript in v1 envelope format.
func MarshalSession(s *tutor.Session) ([]byte, error) {
	if s == nil || s.Transcript == nil {
		return nil, fmt.Errorf("nil session: %w", tutor.ErrValidation)
	}
	env := envelope{
		Version:   1,
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Turns:     FromTurns(s.Transcript.Turns()),
	}
	return json.MarshalIndent(env, "", "  ")
}

// Save writes a session's transcript to a JSON file, creating parent
// directories as needed.
func Save(path string, s *tutor.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
