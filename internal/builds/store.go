// Package builds keeps a history of generated containers on disk.
//
// Each build is a directory under the builds root holding meta.json (a masked
// config snapshot and entity counts), mapping.jsonl (the event mapping table)
// and both exported documents under their conventional file names. The server
// document holds the plaintext access token, so build files are owner-only.
package builds

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dohr-michael/capigen/internal/config"
	"github.com/dohr-michael/capigen/internal/container"
	"github.com/dohr-michael/capigen/internal/storage/dirstore"
)

// ErrNotFound is returned for unknown build ids.
var ErrNotFound = dirstore.ErrNotFound

const mappingFile = "mapping.jsonl"

// Build is the recorded metadata of one generation.
type Build struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	Source    string                    `json:"source"`
	Config    config.Config             `json:"config"`
	Web       container.Summary         `json:"web"`
	Server    container.Summary         `json:"server"`
	Mapping   []container.StandardEvent `json:"mapping,omitempty"`
}

// Store persists builds as directories.
type Store struct {
	ds  *dirstore.DirStore
	now func() time.Time
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{ds: dirstore.NewDirStore(dir, "build"), now: time.Now}
}

func generateBuildID() string {
	u := uuid.New().String()
	return "bld_" + strings.ReplaceAll(u[:8], "-", "")
}

// Record stores res together with a masked snapshot of cfg. source tells where
// the config came from (a file path, "api").
func (s *Store) Record(res *container.Result, cfg *config.Config, source string) (*Build, error) {
	docs := make(map[container.Kind][]byte, len(container.Kinds))
	for _, k := range container.Kinds {
		data, err := res.Document(k).MarshalIndent()
		if err != nil {
			return nil, fmt.Errorf("encode %s document: %w", k, err)
		}
		docs[k] = data
	}

	b := &Build{
		ID:        generateBuildID(),
		CreatedAt: s.now().UTC(),
		Source:    source,
		Config:    cfg.Masked(),
		Web:       res.Web.Summary(),
		Server:    res.Server.Summary(),
	}

	s.ds.Lock()
	defer s.ds.Unlock()

	if err := s.ds.EnsureDir(b.ID); err != nil {
		return nil, err
	}
	for _, k := range container.Kinds {
		if err := s.ds.WriteFileAtomic(b.ID, k.FileName(), docs[k]); err != nil {
			return nil, err
		}
	}
	if err := dirstore.WriteJSONL(s.ds, b.ID, mappingFile, res.Mapping); err != nil {
		return nil, err
	}
	if err := s.ds.WriteMeta(b.ID, b); err != nil {
		return nil, err
	}

	b.Mapping = res.Mapping
	return b, nil
}

// Get reads a build with its mapping table.
func (s *Store) Get(id string) (*Build, error) {
	s.ds.RLock()
	defer s.ds.RUnlock()

	var b Build
	if err := s.ds.ReadMeta(id, &b); err != nil {
		return nil, err
	}
	mapping, err := dirstore.LoadJSONL[container.StandardEvent](s.ds, id, mappingFile)
	if err != nil {
		return nil, err
	}
	b.Mapping = mapping
	return &b, nil
}

// List returns all builds, newest first. Unreadable entries are skipped.
func (s *Store) List() ([]*Build, error) {
	s.ds.RLock()
	defer s.ds.RUnlock()

	ids, err := s.ds.ListDirs()
	if err != nil {
		return nil, err
	}

	var out []*Build
	for _, id := range ids {
		var b Build
		if err := s.ds.ReadMeta(id, &b); err != nil {
			continue
		}
		out = append(out, &b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Document returns the stored JSON of one document of a build.
func (s *Store) Document(id string, kind container.Kind) ([]byte, error) {
	s.ds.RLock()
	defer s.ds.RUnlock()

	return s.ds.ReadFile(id, kind.FileName())
}

// Delete removes a build.
func (s *Store) Delete(id string) error {
	s.ds.Lock()
	defer s.ds.Unlock()

	return s.ds.RemoveDir(id)
}

// IsNotFound reports whether err means the build does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
