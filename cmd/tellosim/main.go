package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dronelab/tellosim/internal/config"
	"github.com/dronelab/tellosim/internal/deploy"
	"github.com/dronelab/tellosim/internal/sim"
	"github.com/dronelab/tellosim/internal/storage"
	"github.com/dronelab/tellosim/internal/tui"
	"github.com/dronelab/tellosim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	driftMode  string
	margin     float64
	verbose    bool
	port       string

	plotWidth    int
	plotHeight   int
	smoothWindow int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tellosim",
		Short: "tello drone flight simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use a named preset")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "drift random seed (0 = default)")
	rootCmd.PersistentFlags().StringVar(&driftMode, "drift", "", "drift mode: none, uniform, fixed")
	rootCmd.PersistentFlags().Float64Var(&margin, "margin", -1, "drift margin as a fraction of distance")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	rootCmd.PersistentFlags().IntVar(&smoothWindow, "smooth-window", 0, "also plot a moving-average altitude with this window (0 = off)")

	flyCmd := &cobra.Command{
		Use:   "fly",
		Short: "interactive flight with live plots",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSimulator()
			if err != nil {
				return err
			}
			return tui.Run(s)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [script]",
		Short: "fly a script file (one command per line) and save the flight",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved flights",
		RunE:  listFlights,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [flight_id]",
		Short: "plot a saved flight",
		Args:  cobra.ExactArgs(1),
		RunE:  plotFlight,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 20, "plot height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [flight_id]",
		Short: "export a saved flight to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [flight_id]",
		Short: "export a saved flight to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	replayCmd := &cobra.Command{
		Use:   "replay [flight_id]",
		Short: "re-simulate a saved flight under the current settings",
		Args:  cobra.ExactArgs(1),
		RunE:  replayFlight,
	}

	deployCmd := &cobra.Command{
		Use:   "deploy [flight_id]",
		Short: "send a saved flight to a real tello over wifi",
		Args:  cobra.ExactArgs(1),
		RunE:  deployFlight,
	}
	deployCmd.Flags().StringVar(&port, "port", deploy.DefaultPort, "local udp port for the drone connection")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-12s drift=%s margin=%.2f\n", name, p.Drift.Mode, p.Drift.Margin)
			}
		},
	}

	rootCmd.AddCommand(flyCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, replayCmd, deployCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file and flags, in that order of
// increasing precedence.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if driftMode != "" {
		cfg.Drift.Mode = sim.DriftMode(driftMode)
	}
	if margin >= 0 {
		cfg.Drift.Margin = margin
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if dataDir != config.DefaultDataDir {
		cfg.DataDir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSimulator() (*sim.Simulator, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return sim.New(cfg.SimOptions()), nil
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func runREPL(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s := sim.New(cfg.SimOptions())
	st := storage.New(cfg.DataDir)

	fmt.Println("tello flight simulator ready")
	fmt.Println("commands: takeoff land forward back left right up down cw ccw flip")
	fmt.Println("special:  plot save load <flight_id> deploy reset help exit")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Print("tello> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(strings.ToLower(line))
		switch fields[0] {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Println("flight:  takeoff land forward back left right up down cw ccw flip [f|b|r|l]")
			fmt.Println("special: plot save load <flight_id> deploy reset exit")
			continue
		case "reset":
			s.Reset()
			fmt.Println("simulator reset")
			continue
		case "plot":
			printPlots(s.Path(), s.FlipMarks(), s.Altitudes())
			continue
		case "save":
			if err := st.Init(); err != nil {
				fmt.Println(viz.Red.Render(err.Error()))
				continue
			}
			id, err := st.Save(cfg.SimOptions(), s.Path(), s.Commands())
			if err != nil {
				fmt.Println(viz.Red.Render(err.Error()))
				continue
			}
			fmt.Printf("flight saved: %s\n", id)
			continue
		case "load":
			if len(fields) < 2 {
				fmt.Println("usage: load <flight_id>")
				continue
			}
			cmds, err := st.LoadCommands(fields[1])
			if err != nil {
				fmt.Println(viz.Red.Render(err.Error()))
				continue
			}
			s.Reset()
			if err := s.Replay(cmds); err != nil {
				fmt.Println(viz.Red.Render(err.Error()))
				continue
			}
			fmt.Printf("replayed %d commands from %s\n", len(sim.FlightCommands(cmds)), fields[1])
			continue
		case "deploy":
			log := newLogger()
			fmt.Println("deploying your commands to a real tello drone...")
			if err := deploy.Run(cmd.Context(), port, s.Commands(), log); err != nil {
				fmt.Println(viz.Red.Render(err.Error()))
			}
			continue
		}

		flightCmd, err := sim.Parse(line)
		if err != nil {
			fmt.Println(viz.Red.Render(err.Error()))
			continue
		}
		next, err := s.Apply(flightCmd)
		if err != nil {
			fmt.Println(viz.Red.Render(err.Error()))
			continue
		}
		fmt.Println(viz.StatusLine(next.X, next.Y, next.Z, next.Yaw, next.Airborne))
	}
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	s := sim.New(cfg.SimOptions())
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		flightCmd, err := sim.Parse(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if _, err := s.Apply(flightCmd); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(cfg.SimOptions(), s.Path(), s.Commands())
	if err != nil {
		return err
	}

	final := s.State()
	fmt.Printf("flight saved: %s\n", id)
	fmt.Printf("steps: %d\n", len(s.Path()))
	fmt.Println(viz.StatusLine(final.X, final.Y, final.Z, final.Yaw, final.Airborne))
	return nil
}

func listFlights(cmd *cobra.Command, args []string) error {
	flights, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(flights) == 0 {
		fmt.Println("no flights found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCOMMANDS\tDRIFT\tFINAL POSITION")
	for _, f := range flights {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s/%.2f\t(%.0f, %.0f, %.0f)\n",
			f.ID,
			f.Timestamp.Format("2006-01-02 15:04:05"),
			f.Commands,
			f.Drift.Mode,
			f.Drift.Margin,
			f.FinalState.X, f.FinalState.Y, f.FinalState.Z,
		)
	}
	return w.Flush()
}

func plotFlight(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	path, err := st.LoadPath(args[0])
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("flight: %s\n", meta.ID)
	fmt.Printf("commands: %d\n\n", meta.Commands)

	altitudes := make([]float64, 0, len(path)+1)
	altitudes = append(altitudes, 0)
	for _, p := range path {
		altitudes = append(altitudes, p.Z)
	}
	printPlots(path, nil, altitudes)
	return nil
}

func printPlots(path sim.FlightPath, flips []sim.FlipMark, altitudes []float64) {
	fmt.Println(viz.PathPlot(path, flips, plotWidth, plotHeight))
	fmt.Println()
	if len(altitudes) >= 2 {
		fmt.Println(viz.AltitudePlot(altitudes, plotWidth, 10))
		fmt.Println()
		if smoothWindow >= 2 {
			fmt.Println(viz.SmoothedAltitudePlot(altitudes, smoothWindow, plotWidth, 10))
			fmt.Println()
		}
	}
}

func replayFlight(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	cmds, err := st.LoadCommands(args[0])
	if err != nil {
		return err
	}

	s := sim.New(cfg.SimOptions())
	if err := s.Replay(cmds); err != nil {
		return err
	}

	final := s.State()
	fmt.Printf("replayed %d commands from %s\n", len(sim.FlightCommands(cmds)), args[0])
	fmt.Println(viz.StatusLine(final.X, final.Y, final.Z, final.Yaw, final.Airborne))
	printPlots(s.Path(), s.FlipMarks(), s.Altitudes())
	return nil
}

func deployFlight(cmd *cobra.Command, args []string) error {
	cmds, err := storage.New(dataDir).LoadCommands(args[0])
	if err != nil {
		return err
	}

	log := newLogger()
	fmt.Printf("deploying %s to a real tello drone (port %s)...\n", args[0], port)
	if err := deploy.Run(cmd.Context(), port, cmds, log); err != nil {
		return err
	}
	fmt.Println("deploy complete")
	return nil
}
