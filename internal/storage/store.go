// Package storage keeps finished runs on disk, one directory per run.
//
// A run directory holds metadata.json, samples.csv and a copy of the
// preference file the model was configured with.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/liquidbridge/internal/host"
	"github.com/san-kum/liquidbridge/internal/prefs"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var sampleHeader = []string{
	"step", "time", "contacts", "bridges", "bridge_force",
	"normal_force", "kinetic_energy", "min_gap",
}

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
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Particles int                `json:"particles"`
	Walls     int                `json:"walls"`
	Steps     int                `json:"steps"`
	Errors    int                `json:"contact_errors"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run and returns its ID. meta.ID, Timestamp, Steps, Errors
// and Metrics are filled in from the result. p may be nil.
func (s *Store) Save(meta RunMetadata, result *host.Result, p *prefs.Prefs) (string, error) {
	now := time.Now()
	scenario := meta.Scenario
	if scenario == "" {
		scenario = "run"
	}

	runID, runDir, err := s.newRunDir(fmt.Sprintf("%s_%d", scenario, now.Unix()))
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = result.Steps
	meta.Errors = result.ContactErrors
	meta.Metrics = result.Metrics

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

	if err := WriteCSV(csvFile, result.Samples); err != nil {
		return "", err
	}

	if p != nil {
		if err := prefs.Save(filepath.Join(runDir, prefs.FileName), p); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) newRunDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}

	id := base
	for n := 1; ; n++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

// WriteCSV writes samples with a header row.
func WriteCSV(out io.Writer, samples []host.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}

	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Step),
			formatFloat(smp.Time),
			strconv.Itoa(smp.Contacts),
			strconv.Itoa(smp.Bridges),
			formatFloat(smp.BridgeForce),
			formatFloat(smp.NormalForce),
			formatFloat(smp.KineticEnergy),
			formatFloat(smp.MinGap),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every stored run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadPrefs reads the preference file stored with a run.
func (s *Store) LoadPrefs(runID string) (*prefs.Prefs, error) {
	return prefs.Load(filepath.Join(s.baseDir, runID, prefs.FileName))
}

// LoadSamples reads samples.csv of a run. Rows that do not parse are
// skipped.
func (s *Store) LoadSamples(runID string) ([]host.Sample, error) {
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
		return []host.Sample{}, nil
	}

	samples := make([]host.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		smp, ok := parseSample(record)
		if !ok {
			continue
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func parseSample(record []string) (host.Sample, bool) {
	if len(record) != len(sampleHeader) {
		return host.Sample{}, false
	}

	var ints [3]int
	for i, col := range []int{0, 2, 3} {
		v, err := strconv.Atoi(record[col])
		if err != nil {
			return host.Sample{}, false
		}
		ints[i] = v
	}
	var floats [5]float64
	for i, col := range []int{1, 4, 5, 6, 7} {
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return host.Sample{}, false
		}
		floats[i] = v
	}

	return host.Sample{
		Step:          ints[0],
		Time:          floats[0],
		Contacts:      ints[1],
		Bridges:       ints[2],
		BridgeForce:   floats[1],
		NormalForce:   floats[2],
		KineticEnergy: floats[3],
		MinGap:        floats[4],
	}, true
}
