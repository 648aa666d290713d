package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	perrors "github.com/tesso57/commit-pet/internal/errors"
	"github.com/tesso57/commit-pet/internal/pet"
)

// stateFile is the shape Save writes. Field order is the order written.
type stateFile struct {
	Stage     pet.Stage `json:"stage"`
	Exp       int       `json:"exp"`
	LastSHA   *string   `json:"lastSha"`
	UpdatedAt string    `json:"updatedAt"`
}

// StateStore persists the pet record as a single JSON file.
type StateStore struct {
	path string
	log  *zap.Logger
	now  func() time.Time
}

func NewStateStore(path string, log *zap.Logger) *StateStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &StateStore{path: path, log: log, now: Now}
}

// Now is the clock used for updatedAt: UTC, millisecond precision, no monotonic reading.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Path returns the state file location.
func (s *StateStore) Path() string { return s.path }

func (s *StateStore) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return perrors.Wrap(perrors.KindFilesystem, err, "Failed to create config directory")
	}
	return nil
}

// Load returns the stored record, or the default record when there is none.
// A file that cannot be parsed or fails validation is never an error: it is
// reported as a warning and replaced by the default on the next Save.
func (s *StateStore) Load() (pet.State, error) {
	if err := s.ensureDir(); err != nil {
		return pet.State{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return pet.DefaultState(s.now()), nil
		}
		return pet.State{}, perrors.Wrap(perrors.KindFilesystem, err, "Failed to read state file")
	}

	st, err := decodeState(data)
	if err != nil {
		s.log.Warn("Invalid state file detected, resetting to default state", zap.String("path", s.path), zap.Error(err))
		return pet.DefaultState(s.now()), nil
	}

	if want := pet.CalculateStage(st.Exp); st.Stage != want {
		s.log.Warn("stored stage disagrees with experience, recomputing",
			zap.String("stored", string(st.Stage)), zap.String("computed", string(want)), zap.Int("exp", st.Exp.Int()))
		st.Stage = want
	}
	return st, nil
}

// Save validates state and replaces the state file with it. The new content
// is staged in a temp file and renamed over the old one, so a failed write
// leaves the previous record intact.
func (s *StateStore) Save(state pet.State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}

	data, err := encodeState(state)
	if err != nil {
		return perrors.Wrap(perrors.KindState, err, "Failed to encode state")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return perrors.Wrap(perrors.KindFilesystem, err, "Failed to save state")
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return perrors.Wrap(perrors.KindFilesystem, err, "Failed to save state")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return perrors.Wrap(perrors.KindFilesystem, err, "Failed to save state")
	}
	if err := tmp.Close(); err != nil {
		return perrors.Wrap(perrors.KindFilesystem, err, "Failed to save state")
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return perrors.Wrap(perrors.KindFilesystem, err, "Failed to save state")
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return perrors.Wrap(perrors.KindFilesystem, err, "Failed to save state")
	}
	committed = true
	return nil
}

func encodeState(state pet.State) ([]byte, error) {
	f := stateFile{
		Stage:     state.Stage,
		Exp:       state.Exp.Int(),
		UpdatedAt: state.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if !state.LastSHA.IsZero() {
		sha := state.LastSHA.String()
		f.LastSHA = &sha
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// storedState is what decodeState reads. Pointers let a JSON null be told
// apart from a zero value; only lastSha may be null.
type storedState struct {
	Stage     *pet.Stage `json:"stage"`
	Exp       *int       `json:"exp"`
	LastSHA   *string    `json:"lastSha"`
	UpdatedAt *string    `json:"updatedAt"`
}

// decodeState enforces the record's structure: all four fields present with
// the right JSON types, a known stage, non-negative integer exp, a 40-hex or
// null lastSha, and an RFC 3339 updatedAt.
func decodeState(data []byte) (pet.State, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return pet.State{}, fmt.Errorf("parse: %w", err)
	}
	for _, key := range []string{"stage", "exp", "lastSha", "updatedAt"} {
		if _, ok := raw[key]; !ok {
			return pet.State{}, fmt.Errorf("missing field %q", key)
		}
	}

	var f storedState
	if err := json.Unmarshal(data, &f); err != nil {
		return pet.State{}, fmt.Errorf("decode: %w", err)
	}
	switch {
	case f.Stage == nil:
		return pet.State{}, errors.New("stage is null")
	case f.Exp == nil:
		return pet.State{}, errors.New("exp is null")
	case f.UpdatedAt == nil:
		return pet.State{}, errors.New("updatedAt is null")
	}

	if !f.Stage.IsValid() {
		return pet.State{}, fmt.Errorf("unknown stage %q", *f.Stage)
	}
	exp, err := pet.NewExp(*f.Exp)
	if err != nil {
		return pet.State{}, err
	}
	var sha pet.SHA
	if f.LastSHA != nil {
		if sha, err = pet.ParseSHA(*f.LastSHA); err != nil {
			return pet.State{}, err
		}
	}
	updated, err := time.Parse(time.RFC3339Nano, *f.UpdatedAt)
	if err != nil {
		return pet.State{}, fmt.Errorf("updatedAt: %w", err)
	}

	return pet.State{
		Stage:     *f.Stage,
		Exp:       exp,
		LastSHA:   sha,
		UpdatedAt: updated.UTC(),
	}, nil
}
