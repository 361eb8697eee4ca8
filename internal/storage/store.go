package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dronelab/tellosim/internal/sim"
)

// Store persists flights on disk, one directory per flight:
//
//	<base>/<flight_id>/metadata.json  - FlightMetadata
//	<base>/<flight_id>/path.json      - flight path, chronological
//	<base>/<flight_id>/commands.json  - command log, replayable
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type FlightMetadata struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Seed       int64           `json:"seed"`
	Drift      sim.DriftConfig `json:"drift"`
	Commands   int             `json:"commands"`
	FinalState sim.DroneState  `json:"final_state"`
}

// Save writes one flight and returns its id.
func (s *Store) Save(opts sim.Options, path sim.FlightPath, cmds []sim.Command) (string, error) {
	now := s.now()
	flightID := fmt.Sprintf("flight_%d", now.Unix())
	dir := filepath.Join(s.baseDir, flightID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("save flight: %w", err)
	}

	meta := FlightMetadata{
		ID:        flightID,
		Timestamp: now,
		Seed:      opts.Seed,
		Drift:     opts.Drift,
		Commands:  len(cmds),
	}
	if len(path) > 0 {
		meta.FinalState = path[len(path)-1]
	}

	// A flight directory is all-or-nothing; a partial one would show up
	// in List with stale contents.
	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("save metadata: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, "path.json"), path); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("save path: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, "commands.json"), cmds); err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("save commands: %w", err)
	}
	return flightID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns metadata for every stored flight.
func (s *Store) List() ([]FlightMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FlightMetadata{}, nil
		}
		return nil, fmt.Errorf("list flights: %w", err)
	}

	flights := make([]FlightMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		flights = append(flights, *meta)
	}
	return flights, nil
}

func (s *Store) Load(flightID string) (*FlightMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, flightID, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("load flight %s: %w", flightID, err)
	}
	var meta FlightMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("load flight %s: %w", flightID, err)
	}
	return &meta, nil
}

// LoadPath reproduces the stored snapshot sequence in its original order.
func (s *Store) LoadPath(flightID string) (sim.FlightPath, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, flightID, "path.json"))
	if err != nil {
		return nil, fmt.Errorf("load path %s: %w", flightID, err)
	}
	var path sim.FlightPath
	if err := json.Unmarshal(data, &path); err != nil {
		return nil, fmt.Errorf("load path %s: %w", flightID, err)
	}
	return path, nil
}

// LoadCommands returns the stored command log for replay or deploy.
func (s *Store) LoadCommands(flightID string) ([]sim.Command, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, flightID, "commands.json"))
	if err != nil {
		return nil, fmt.Errorf("load commands %s: %w", flightID, err)
	}
	var cmds []sim.Command
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("load commands %s: %w", flightID, err)
	}
	return cmds, nil
}
