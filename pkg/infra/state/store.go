package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/repodigest/repodigest/pkg/domain/interfaces"
	"github.com/repodigest/repodigest/pkg/domain/model"
)

// Store persists run state as two flat JSON files: the watched
// repository list and the per-repository watermark map. Each file is
// opened, fully read or written, and closed within a single call.
type Store struct {
	configPath string
	statePath  string
}

// New creates a Store over the given file paths.
func New(configPath, statePath string) *Store {
	return &Store{
		configPath: configPath,
		statePath:  statePath,
	}
}

var _ interfaces.StateStore = (*Store)(nil)

// Load reads the repository list and the watermark map. Neither file
// is required: a missing or unparsable file degrades to an empty
// value so first-run semantics apply per repository. Problems are
// logged at warn level, never returned.
func (s *Store) Load(ctx context.Context) (*model.WatchConfig, model.WatchState) {
	logger := ctxlog.From(ctx)

	var cfg model.WatchConfig
	if !readJSON(s.configPath, &cfg) {
		logger.Warn("repository config missing or unparsable", "path", s.configPath)
	}

	marks := model.WatchState{}
	if !readJSON(s.statePath, &marks) {
		logger.Debug("no usable watermark state, starting fresh", "path", s.statePath)
	}
	if marks == nil {
		// A file holding JSON null decodes cleanly into a nil map
		marks = model.WatchState{}
	}

	return &cfg, marks
}

// Save overwrites the watermark file. The content goes to a temporary
// file first and is moved into place with a rename, so a torn write
// is never left behind as the current state.
func (s *Store) Save(ctx context.Context, marks model.WatchState) error {
	data, err := json.MarshalIndent(marks, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode watermark state")
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.statePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.statePath)+".tmp-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary state file", goerr.V("dir", dir))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return goerr.Wrap(err, "failed to write temporary state file", goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close temporary state file", goerr.V("path", tmpName))
	}

	if err := os.Rename(tmpName, s.statePath); err != nil {
		os.Remove(tmpName)
		return goerr.Wrap(err, "failed to replace state file", goerr.V("path", s.statePath))
	}

	ctxlog.From(ctx).Debug("saved watermark state",
		"path", s.statePath,
		"repositories", len(marks),
	)

	return nil
}

// readJSON reports whether the file existed and decoded cleanly into
// v. Absence and corruption are treated the same.
func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
