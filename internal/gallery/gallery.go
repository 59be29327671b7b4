// Package gallery persists one manifest per reduction run so past runs can be
// listed and their artifacts found again.
package gallery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dimred-cli/internal/utils"
)

const manifestFileName = "manifest.json"

// Run represents one recorded reduction run persisted on disk.
type Run struct {
	ID         string            `json:"id"`
	Technique  string            `json:"technique"`
	Dataset    string            `json:"dataset"`
	Rows       int               `json:"rows"`
	Components int               `json:"components"`
	Seed       int64             `json:"seed"`
	Params     map[string]string `json:"params,omitempty"`
	Artifacts  []string          `json:"artifacts"`
	CreatedAt  time.Time         `json:"created_at"`

	// Not serialized: on-disk location of the manifest.json
	dir string
}

// NewRun constructs an in-memory run record. Call CreateDir and Save to persist.
func NewRun(technique, dataset string, seed int64) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Technique: technique,
		Dataset:   dataset,
		Seed:      seed,
		Params:    make(map[string]string),
		CreatedAt: time.Now(),
	}
}

// SetParam records one named parameter for the manifest.
func (r *Run) SetParam(name, value string) {
	if r.Params == nil {
		r.Params = make(map[string]string)
	}
	r.Params[name] = value
}

// Dir returns the on-disk run directory path.
func (r *Run) Dir() string { return r.dir }

// CreateDir allocates <root>/<technique>-<timestamp> for this run's artifacts,
// suffixing a counter when the name is already taken.
func (r *Run) CreateDir(root string) error {
	base := fmt.Sprintf("%s-%s", r.Technique, r.CreatedAt.Format("20060102-150405"))
	dir := filepath.Join(root, base)
	for n := 2; ; n++ {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			break
		}
		dir = filepath.Join(root, fmt.Sprintf("%s-%d", base, n))
	}
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("ensure run dir: %w", err)
	}
	r.dir = dir
	return nil
}

// AddArtifact records a file written into the run directory.
func (r *Run) AddArtifact(name string) {
	r.Artifacts = append(r.Artifacts, name)
}

// Save writes manifest.json using atomic write.
func (r *Run) Save() error {
	if r.dir == "" {
		return errors.New("run directory not set")
	}
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(r.dir, manifestFileName), data)
}

// LoadRun loads a manifest.json from the provided directory.
func LoadRun(dir string) (*Run, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	r.dir = dir
	return &r, nil
}

// List returns every recorded run under root, newest first. Directories
// without a readable manifest are skipped.
func List(root string) ([]*Run, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read gallery root: %w", err)
	}
	var runs []*Run
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		r, err := LoadRun(filepath.Join(root, e.Name()))
		if err != nil {
			continue
		}
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].dir > runs[j].dir
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}
