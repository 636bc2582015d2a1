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

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var sampleHeader = []string{"time", "live", "mass", "px", "py", "pz", "energy"}

// Store keeps one directory per headless run holding its metadata and the
// sampled conserved quantities. It records diagnostics only; runs cannot be
// resumed from it.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Timestamp        time.Time          `json:"timestamp"`
	Dt               float64            `json:"dt"`
	Duration         float64            `json:"duration"`
	GravityConstant  float64            `json:"gravity_constant"`
	BaseSphereRadius float64            `json:"base_sphere_radius"`
	Bodies           int                `json:"bodies"`
	Steps            int                `json:"steps"`
	Merges           int                `json:"merges"`
	Metrics          map[string]float64 `json:"metrics"`
	Errors           []string           `json:"errors,omitempty"`
}

// Save writes meta, completed from result, and result's samples under a new
// run directory and returns the run ID.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	meta.Timestamp = now
	meta.Steps = result.StepsTaken
	meta.Merges = result.Merges
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(sampleHeader); err != nil {
		return "", err
	}
	for _, sm := range result.Samples {
		row := []string{
			formatFloat(sm.Time),
			strconv.Itoa(sm.Live),
			formatFloat(sm.Mass),
			formatFloat(sm.Momentum[0]),
			formatFloat(sm.Momentum[1]),
			formatFloat(sm.Momentum[2]),
			formatFloat(sm.Energy),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns the metadata of every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
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

// LoadSamples reads a run's samples back. Malformed rows are skipped.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		sm, ok := parseSample(record)
		if !ok {
			continue
		}
		samples = append(samples, sm)
	}

	return samples, nil
}

func parseSample(record []string) (sim.Sample, bool) {
	if len(record) != len(sampleHeader) {
		return sim.Sample{}, false
	}

	live, err := strconv.Atoi(record[1])
	if err != nil {
		return sim.Sample{}, false
	}

	var vals [6]float64
	for i, field := range []string{record[0], record[2], record[3], record[4], record[5], record[6]} {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return sim.Sample{}, false
		}
		vals[i] = v
	}

	return sim.Sample{
		Time:     vals[0],
		Live:     live,
		Mass:     vals[1],
		Momentum: mgl64.Vec3{vals[2], vals[3], vals[4]},
		Energy:   vals[5],
	}, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
