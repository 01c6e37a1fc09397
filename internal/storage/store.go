package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravpot/internal/analysis"
	"github.com/san-kum/gravpot/internal/config"
)

const (
	metadataFile = "metadata.json"
	profileFile  = "profile.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type ComponentRecord struct {
	Name     string             `json:"name"`
	Kind     string             `json:"kind"`
	Params   map[string]float64 `json:"params"`
	Origin   []float64          `json:"origin,omitempty"`
	Rotation []float64          `json:"rotation,omitempty"`
	Angles   []float64          `json:"angles,omitempty"`
}

type RunMetadata struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Timestamp  time.Time         `json:"timestamp"`
	NDim       int               `json:"ndim"`
	G          float64           `json:"g"`
	Time       float64           `json:"time"`
	Samples    int               `json:"samples"`
	Direction  []float64         `json:"direction"`
	Components []ComponentRecord `json:"components"`
}

// NewMetadata describes a profile of cfg. ID and Timestamp are filled in by
// Save.
func NewMetadata(cfg *config.Config, prof *analysis.Profile) RunMetadata {
	meta := RunMetadata{
		Name:      cfg.Name,
		NDim:      cfg.NDim,
		G:         cfg.G,
		Time:      cfg.Time,
		Samples:   prof.Len(),
		Direction: prof.Direction,
	}
	for _, cc := range cfg.Components {
		meta.Components = append(meta.Components, ComponentRecord{
			Name:     cc.Name,
			Kind:     cc.Kind,
			Params:   cc.Params,
			Origin:   cc.Origin,
			Rotation: cc.Rotation,
			Angles:   cc.Angles,
		})
	}
	return meta
}

// Save writes cfg and prof to a new run directory and returns its ID. A
// run that fails to write is removed.
func (s *Store) Save(cfg *config.Config, prof *analysis.Profile) (string, error) {
	if err := config.CheckName(cfg.Name); err != nil {
		return "", err
	}
	name := cfg.Name
	if name == "" {
		name = "run"
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := NewMetadata(cfg, prof)
	meta.ID = runID
	meta.Timestamp = now

	if err := writeRun(runDir, meta, prof); err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("run %s: %w", runID, err)
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, prof *analysis.Profile) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, profileFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(prof.Columns()); err != nil {
		return err
	}

	for i := 0; i < prof.Len(); i++ {
		vals := prof.Row(i)
		row := make([]string, len(vals))
		for j, v := range vals {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return csvFile.Close()
}

// List returns the stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := config.CheckName(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadProfile reads back the profile table of a run.
func (s *Store) LoadProfile(runID string) (*analysis.Profile, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, profileFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("run %s: empty profile", runID)
	}

	header := records[0]
	cols := make(map[string][]float64, len(header))
	for _, name := range header {
		cols[name] = make([]float64, 0, len(records)-1)
	}

	for i, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d column %s: %w", runID, i+1, header[j], err)
			}
			cols[header[j]] = append(cols[header[j]], v)
		}
	}

	return analysis.NewProfile(meta.Direction, cols)
}
