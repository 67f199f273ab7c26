package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio/v2"
)

const metaFileName = "connections.json"

// MetaStore persists the non-secret connection attributes of all stored
// connections as a single JSON file, keyed by connection name. Saves rewrite
// the whole file via atomic replace, so a crash mid-write leaves either the
// old or the new file, never a torn one. Two processes racing on a save are
// last-writer-wins; acceptable for a single-user tool.
type MetaStore struct {
	path string
}

func NewMetaStore(dir string) *MetaStore {
	return &MetaStore{path: filepath.Join(dir, metaFileName)}
}

func (s *MetaStore) Path() string {
	return s.path
}

// Load reads all stored connections. A missing file is an empty store.
func (s *MetaStore) Load() (map[string]Connection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Connection{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	conns := map[string]Connection{}
	if err := json.Unmarshal(data, &conns); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	for name, conn := range conns {
		conn.Name = name
		conns[name] = conn
	}

	return conns, nil
}

// Save rewrites the connections file. JSON object keys are emitted sorted,
// so the file stays key-ordered and diffs stay stable.
func (s *MetaStore) Save(conns map[string]Connection) error {
	data, err := json.MarshalIndent(conns, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := renameio.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	return nil
}

// List returns all stored connections sorted by name.
func (s *MetaStore) List() ([]Connection, error) {
	conns, err := s.Load()
	if err != nil {
		return nil, err
	}

	res := make([]Connection, 0, len(conns))
	for _, conn := range conns {
		res = append(res, conn)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Name < res[j].Name
	})

	return res, nil
}
