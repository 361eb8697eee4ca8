package sim

// DroneState is one snapshot of the simulated drone. X and Y are
// centimeters from the takeoff point, Z is altitude in centimeters,
// Yaw is the bearing in degrees clockwise from the +Y axis.
type DroneState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Yaw      float64 `json:"yaw"`
	Airborne bool    `json:"airborne"`
}

// FlightPath is the ordered log of snapshots, one per applied command.
type FlightPath []DroneState

func (p FlightPath) Clone() FlightPath {
	c := make(FlightPath, len(p))
	copy(c, p)
	return c
}

// FlipMark records where a flip happened, for plotting.
type FlipMark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
