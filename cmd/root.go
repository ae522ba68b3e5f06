package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/schedsim/schedsim/sim"
	"github.com/schedsim/schedsim/sim/trace"
	"github.com/schedsim/schedsim/sim/workload"
)

var (
	// CLI flags shared by run and compare
	logLevel      string // Log verbosity level
	algorithm     string // Discipline for a single run
	algorithms    []string
	timeQuantum   int64  // Round robin quantum; invalid values fall back to the default
	contextSwitch int64  // Overhead charged between dispatches
	workloadPath  string // YAML workload spec
	csvPath       string // CSV process list
	useSample     bool   // Built-in four-process sample set
	traceLevel    string // none | decisions
	outputFormat  string // text | json
	configPath    string // YAML run config
	resultsCSV    string // Optional per-process results export
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "schedsim",
	Short: "Discrete-event CPU scheduling simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd simulates one discipline over a process set
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scheduling discipline",
	Run: func(cmd *cobra.Command, args []string) {
		procs, err := loadProcesses(workloadPath, csvPath, useSample)
		if err != nil {
			logrus.Fatalf("Loading processes: %v", err)
		}
		cfg, err := runConfigFromFlags(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		cfg.Algorithms = []string{algorithm}
		if err := simulate(cmd.Context(), os.Stdout, procs, cfg, false); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// compareCmd runs several disciplines over the same process set
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare scheduling disciplines on the same process set",
	Run: func(cmd *cobra.Command, args []string) {
		procs, err := loadProcesses(workloadPath, csvPath, useSample)
		if err != nil {
			logrus.Fatalf("Loading processes: %v", err)
		}
		cfg, err := runConfigFromFlags(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := simulate(cmd.Context(), os.Stdout, procs, cfg, true); err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}
	},
}

// loadProcesses builds the process set from exactly one input source.
func loadProcesses(workloadPath, csvPath string, sample bool) ([]*sim.Process, error) {
	sources := 0
	for _, set := range []bool{workloadPath != "", csvPath != "", sample} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return nil, fmt.Errorf("no processes given: use --workload, --csv or --sample")
	}
	if sources > 1 {
		return nil, fmt.Errorf("--workload, --csv and --sample are mutually exclusive")
	}

	var specs []workload.ProcessSpec
	switch {
	case workloadPath != "":
		spec, err := workload.LoadWorkloadSpec(workloadPath)
		if err != nil {
			return nil, err
		}
		if specs, err = spec.Resolve(); err != nil {
			return nil, err
		}
	case csvPath != "":
		var err error
		if specs, err = workload.LoadProcessesCSV(csvPath); err != nil {
			return nil, err
		}
	default:
		specs = workload.SampleProcesses()
	}
	logrus.Infof("Loaded %d processes", len(specs))
	return workload.BuildProcesses(specs)
}

// runConfigFromFlags loads --config if given, then applies every flag the
// user set explicitly on top of it.
func runConfigFromFlags(cmd *cobra.Command) (*sim.RunConfig, error) {
	cfg := &sim.RunConfig{}
	if configPath != "" {
		loaded, err := sim.LoadRunConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("algorithms") {
		cfg.Algorithms = algorithms
	}
	if flags.Changed("quantum") || cfg.TimeQuantum == nil {
		q := timeQuantum
		cfg.TimeQuantum = &q
	}
	if flags.Changed("context-switch") || cfg.ContextSwitch == nil {
		cs := contextSwitch
		cfg.ContextSwitch = &cs
	}
	if flags.Changed("trace-level") || cfg.TraceLevel == "" {
		cfg.TraceLevel = traceLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// report is the JSON document printed by --output json.
type report struct {
	Results []*sim.Result                  `json:"results"`
	Best    sim.Discipline                 `json:"best,omitempty"`
	Traces  map[string]*trace.TraceSummary `json:"trace_summaries,omitempty"`
}

// simulate runs cfg's disciplines over procs and writes the chosen output format.
func simulate(ctx context.Context, w io.Writer, procs []*sim.Process, cfg *sim.RunConfig, comparison bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cmp, err := sim.Compare(ctx, procs, cfg)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		rep := report{Results: cmp.Results}
		if comparison {
			if best := cmp.Best(); best != nil {
				rep.Best = best.Discipline
			}
		}
		for i, st := range cmp.Traces {
			if st == nil {
				continue
			}
			if rep.Traces == nil {
				rep.Traces = make(map[string]*trace.TraceSummary)
			}
			rep.Traces[string(cmp.Results[i].Discipline)] = trace.Summarize(st)
		}
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling results: %w", err)
		}
		_, _ = fmt.Fprintln(w, string(data))
	case "text", "":
		for i, r := range cmp.Results {
			renderResult(w, r, cmp.Traces[i])
		}
		if comparison {
			renderComparison(w, cmp)
		}
	default:
		return fmt.Errorf("unknown output format %q (valid: text, json)", outputFormat)
	}

	if resultsCSV != "" {
		if err := workload.ExportResultsCSV(cmp.Results, resultsCSV); err != nil {
			return err
		}
		logrus.Infof("Per-process results written to %s", resultsCSV)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addSimulationFlags registers the flags shared by run and compare.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&timeQuantum, "quantum", sim.DefaultTimeQuantum, "Round robin time quantum (invalid values fall back to 2)")
	cmd.Flags().Int64Var(&contextSwitch, "context-switch", 0, "Context switch overhead in ticks")
	cmd.Flags().StringVar(&workloadPath, "workload", "", "Path to a YAML workload spec")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to a CSV process list (pid,arrival_time,burst_time[,priority])")
	cmd.Flags().BoolVar(&useSample, "sample", false, "Use the built-in four-process sample set")
	cmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	cmd.Flags().StringVar(&outputFormat, "output", "text", "Output format (text, json)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML run config")
	cmd.Flags().StringVar(&resultsCSV, "results-csv", "", "Write per-process results to this CSV file")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	addSimulationFlags(runCmd)
	runCmd.Flags().StringVar(&algorithm, "algorithm", "fcfs", "Scheduling discipline (fcfs, sjf, srtf, priority, rr)")

	addSimulationFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&algorithms, "algorithms", nil, "Disciplines to compare (default: all)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
}
