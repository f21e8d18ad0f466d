package requirements

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FormatVersion is the current on-disk document version. Bump it together
// with a migration branch in Load when the stored shape changes.
const FormatVersion = 1

// Repository loads and stores a requirement list. The tracker is written
// against this interface so device-local storage can later be swapped for a
// server-synced one without touching evaluation logic.
type Repository interface {
	Load() ([]Requirement, error)
	Save([]Requirement) error
}

type document struct {
	Version      int           `json:"version"`
	Requirements []Requirement `json:"requirements"`
}

// FileRepository persists requirements as a versioned JSON document.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository backed by the file at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// DefaultPath returns the conventional requirements file location under the
// user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".unitrack", "requirements.json"), nil
}

// Load reads the stored requirement list. A missing file yields an empty
// list. Legacy files written before versioning (a bare JSON array) are
// migrated transparently.
func (r *FileRepository) Load() ([]Requirement, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Requirement{}, nil
		}
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err == nil && doc.Version >= 1 {
		if doc.Version > FormatVersion {
			return nil, fmt.Errorf("requirements file version %d is newer than supported version %d", doc.Version, FormatVersion)
		}
		if doc.Requirements == nil {
			return []Requirement{}, nil
		}
		return doc.Requirements, nil
	}

	// Pre-versioning format: a bare array
	var legacy []Requirement
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parse requirements file %s: %w", r.path, err)
	}
	return legacy, nil
}

// Save writes the requirement list in the current versioned format.
func (r *FileRepository) Save(list []Requirement) error {
	if list == nil {
		list = []Requirement{}
	}
	doc := document{Version: FormatVersion, Requirements: list}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o600)
}
