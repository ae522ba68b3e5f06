package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/schedsim/schedsim/sim/workload"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert process sets between CSV and YAML",
	Long:  "Convert process sets between the CSV list format and the YAML workload spec. Output is written to stdout for piping.",
}

// --- schedsim convert csv ---

var convertCSVPath string

var convertCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Convert a CSV process list to a YAML workload spec",
	Run: func(cmd *cobra.Command, args []string) {
		specs, err := workload.LoadProcessesCSV(convertCSVPath)
		if err != nil {
			logrus.Fatalf("CSV conversion failed: %v", err)
		}
		if err := writeSpec(os.Stdout, &workload.WorkloadSpec{Version: "1", Processes: specs}); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// --- schedsim convert yaml ---

var convertYAMLPath string

var convertYAMLCmd = &cobra.Command{
	Use:   "yaml",
	Short: "Resolve a YAML workload spec (generator included) to a CSV process list",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := workload.LoadWorkloadSpec(convertYAMLPath)
		if err != nil {
			logrus.Fatalf("YAML conversion failed: %v", err)
		}
		specs, err := spec.Resolve()
		if err != nil {
			logrus.Fatalf("YAML conversion failed: %v", err)
		}
		if err := workload.WriteProcessesCSV(os.Stdout, specs); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// writeSpec validates a WorkloadSpec and marshals it to YAML.
func writeSpec(w io.Writer, spec *workload.WorkloadSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("YAML marshal failed: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func init() {
	convertCSVCmd.Flags().StringVar(&convertCSVPath, "file", "", "Path to CSV process list")
	_ = convertCSVCmd.MarkFlagRequired("file")

	convertYAMLCmd.Flags().StringVar(&convertYAMLPath, "file", "", "Path to YAML workload spec")
	_ = convertYAMLCmd.MarkFlagRequired("file")

	convertCmd.AddCommand(convertCSVCmd)
	convertCmd.AddCommand(convertYAMLCmd)
	rootCmd.AddCommand(convertCmd)
}
