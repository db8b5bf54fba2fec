package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	// ErrProjectNotFound is returned when a project's state.json is missing.
	ErrProjectNotFound = errors.New("project not found")
)

// Store is the persistence layer rooted at a data directory
// (<home>/.ralphloop by default), matching the layout described in
// spec.md §6.
type Store struct {
	dataDir string
}

// New returns a Store rooted at dataDir. Callers typically pass the
// result of DefaultDataDir().
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// DefaultDataDir returns "<home>/.ralphloop", ported from
// original_source's get_data_dir().
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".ralphloop"), nil
}

// EnsureDataDir creates the data directory if it does not exist.
func (s *Store) EnsureDataDir() error {
	return os.MkdirAll(s.dataDir, 0o755)
}

func (s *Store) indexPath() string {
	return filepath.Join(s.dataDir, "projects.json")
}

func (s *Store) projectDir(id string) string {
	return filepath.Join(s.dataDir, "projects", id)
}

func (s *Store) projectStatePath(id string) string {
	return filepath.Join(s.projectDir(id), "state.json")
}

// ProjectLogsDir returns the session-log directory for a project.
func (s *Store) ProjectLogsDir(id string) string {
	return filepath.Join(s.projectDir(id), "logs")
}

// ProjectsRoot returns the directory holding every project's subdirectory.
func (s *Store) ProjectsRoot() string {
	return filepath.Join(s.dataDir, "projects")
}

// ListProjectLogFiles returns a project's log filenames (unsorted).
func (s *Store) ListProjectLogFiles(id string) ([]string, error) {
	entries, err := os.ReadDir(s.ProjectLogsDir(id))
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading logs directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// EnsureProjectDir creates <data>/projects/<id>/logs/.
func (s *Store) EnsureProjectDir(id string) error {
	return os.MkdirAll(s.ProjectLogsDir(id), 0o755)
}

// writeJSONAtomic marshals v and writes it to path via a temp-file-then-
// rename so a crash mid-write never corrupts the committed file.
func writeJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing file: %w", err)
	}
	return nil
}

// readJSONRecoverable reads path into v, first recovering from an
// interrupted write by renaming a leftover .tmp file into place if the
// real file is missing but the tmp survived.
func readJSONRecoverable(path string, v any) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		tmp := path + ".tmp"
		if _, terr := os.Stat(tmp); terr == nil {
			_ = os.Rename(tmp, path)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// LoadProjectIndex reads projects.json, returning an empty index if it
// does not yet exist.
func (s *Store) LoadProjectIndex() (ProjectIndex, error) {
	var idx ProjectIndex
	err := readJSONRecoverable(s.indexPath(), &idx)
	if os.IsNotExist(err) {
		return ProjectIndex{Projects: []ProjectMeta{}}, nil
	}
	if err != nil {
		return ProjectIndex{}, fmt.Errorf("loading project index: %w", err)
	}
	return idx, nil
}

// SaveProjectIndex persists idx.
func (s *Store) SaveProjectIndex(idx ProjectIndex) error {
	return writeJSONAtomic(s.indexPath(), idx)
}

// LoadProjectState reads <data>/projects/<id>/state.json.
func (s *Store) LoadProjectState(id string) (ProjectState, error) {
	var st ProjectState
	err := readJSONRecoverable(s.projectStatePath(id), &st)
	if os.IsNotExist(err) {
		return ProjectState{}, ErrProjectNotFound
	}
	if err != nil {
		return ProjectState{}, fmt.Errorf("loading project state: %w", err)
	}
	return st, nil
}

// SaveProjectState persists st under its own ID.
func (s *Store) SaveProjectState(st ProjectState) error {
	if err := s.EnsureProjectDir(st.ID); err != nil {
		return err
	}
	return writeJSONAtomic(s.projectStatePath(st.ID), st)
}

// CreateProject allocates a new project ID, writes its initial state
// and adds it to the index.
func (s *Store) CreateProject(path, name string) (ProjectState, error) {
	id := uuid.NewString()
	st := ProjectState{
		ID:     id,
		Path:   path,
		Name:   name,
		Status: StatusBrainstorming,
		Task:   NewTaskConfig("", "", 0),
	}
	if err := s.SaveProjectState(st); err != nil {
		return ProjectState{}, err
	}

	idx, err := s.LoadProjectIndex()
	if err != nil {
		return ProjectState{}, err
	}
	idx.Projects = append(idx.Projects, ProjectMeta{ID: id, Name: name, Path: path, Status: st.Status})
	if err := s.SaveProjectIndex(idx); err != nil {
		return ProjectState{}, err
	}

	return st, nil
}

// DeleteProjectData removes a project's directory and its index entry.
func (s *Store) DeleteProjectData(id string) error {
	if err := os.RemoveAll(s.projectDir(id)); err != nil {
		return fmt.Errorf("removing project directory: %w", err)
	}
	idx, err := s.LoadProjectIndex()
	if err != nil {
		return err
	}
	filtered := idx.Projects[:0]
	for _, p := range idx.Projects {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	idx.Projects = filtered
	return s.SaveProjectIndex(idx)
}

// UpdateIndexEntry rewrites the index entry matching st's ID (or
// appends one if missing), keeping projects.json in sync with the
// authoritative per-project state.json.
func (s *Store) UpdateIndexEntry(st ProjectState) error {
	idx, err := s.LoadProjectIndex()
	if err != nil {
		return err
	}
	found := false
	for i := range idx.Projects {
		if idx.Projects[i].ID == st.ID {
			idx.Projects[i] = ProjectMeta{ID: st.ID, Name: st.Name, Path: st.Path, Status: st.Status}
			found = true
			break
		}
	}
	if !found {
		idx.Projects = append(idx.Projects, ProjectMeta{ID: st.ID, Name: st.Name, Path: st.Path, Status: st.Status})
	}
	return s.SaveProjectIndex(idx)
}
