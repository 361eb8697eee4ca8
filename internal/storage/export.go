package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dronelab/tellosim/internal/sim"
)

// ExportData is the self-contained JSON form of a whole flight.
type ExportData struct {
	ID       string          `json:"id"`
	Seed     int64           `json:"seed"`
	Drift    sim.DriftConfig `json:"drift"`
	Commands []sim.Command   `json:"commands"`
	Path     sim.FlightPath  `json:"path"`
}

func (s *Store) ExportJSON(w io.Writer, flightID string) error {
	meta, err := s.Load(flightID)
	if err != nil {
		return err
	}
	path, err := s.LoadPath(flightID)
	if err != nil {
		return err
	}
	cmds, err := s.LoadCommands(flightID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:       meta.ID,
		Seed:     meta.Seed,
		Drift:    meta.Drift,
		Commands: cmds,
		Path:     path,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (s *Store) ExportCSV(w io.Writer, flightID string) error {
	path, err := s.LoadPath(flightID)
	if err != nil {
		return err
	}
	cmds, err := s.LoadCommands(flightID)
	if err != nil {
		return err
	}

	// The command log carries the SDK handshake in front; snapshots do not.
	applied := sim.FlightCommands(cmds)

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"step", "command", "x", "y", "z", "yaw", "airborne"}); err != nil {
		return err
	}
	for i, st := range path {
		name := ""
		if i < len(applied) {
			name = applied[i].String()
		}
		row := []string{
			strconv.Itoa(i + 1),
			name,
			strconv.FormatFloat(st.X, 'f', 2, 64),
			strconv.FormatFloat(st.Y, 'f', 2, 64),
			strconv.FormatFloat(st.Z, 'f', 2, 64),
			strconv.FormatFloat(st.Yaw, 'f', 2, 64),
			strconv.FormatBool(st.Airborne),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export csv %s: %w", flightID, err)
		}
	}
	return nil
}
