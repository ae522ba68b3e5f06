package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schedsim/schedsim/sim"
)

// CSV column headers for process sets. priority is optional on input.
var processColumns = []string{"pid", "arrival_time", "burst_time", "priority"}

// CSV column headers for per-process results.
var resultColumns = []string{
	"discipline", "pid", "arrival_time", "burst_time", "priority",
	"start_time", "completion_time", "turnaround_time", "waiting_time", "response_time",
}

// LoadProcessesCSV reads a process set from a CSV file with a header row.
func LoadProcessesCSV(path string) ([]ProcessSpec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening process file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return ReadProcessesCSV(file)
}

// ReadProcessesCSV parses a process set. Columns: pid, arrival_time,
// burst_time and an optional priority. Malformed numbers are reported as
// *ValidationError; semantic checks are left to ValidateProcesses.
func ReadProcessesCSV(r io.Reader) ([]ProcessSpec, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header row
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	var specs []ProcessSpec
	for idx := 0; ; idx++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("CSV row %d has %d columns, expected at least 3", idx+1, len(row))
		}
		spec, err := parseProcessRow(idx, row)
		if err != nil {
			return nil, err
		}
		specs = append(specs, *spec)
	}
	return specs, nil
}

func parseProcessRow(idx int, row []string) (*ProcessSpec, error) {
	pid, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, &ValidationError{Index: idx, Field: "pid", Reason: fmt.Sprintf("not an integer: %q", row[0])}
	}
	arrival, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
	if err != nil {
		return nil, &ValidationError{Index: idx, Field: "arrival_time", Reason: fmt.Sprintf("not an integer: %q", row[1])}
	}
	burst, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
	if err != nil {
		return nil, &ValidationError{Index: idx, Field: "burst_time", Reason: fmt.Sprintf("not an integer: %q", row[2])}
	}
	spec := &ProcessSpec{PID: pid, Arrival: arrival, Burst: burst}
	if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
		priority, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return nil, &ValidationError{Index: idx, Field: "priority", Reason: fmt.Sprintf("not an integer: %q", row[3])}
		}
		spec.Priority = &priority
	}
	return spec, nil
}

// ExportProcessesCSV writes a process set to path, header row first.
func ExportProcessesCSV(specs []ProcessSpec, path string) error {
	return writeFile(path, "process", func(w io.Writer) error { return WriteProcessesCSV(w, specs) })
}

// writeFile creates path and runs write against it. A Close failure is
// reported when the write itself succeeded.
func writeFile(path, kind string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s file: %w", kind, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s file %s: %w", kind, path, closeErr)
		}
	}()
	return write(file)
}

// WriteProcessesCSV writes a process set in the format ReadProcessesCSV accepts.
func WriteProcessesCSV(w io.Writer, specs []ProcessSpec) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(processColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, p := range specs {
		row := []string{
			strconv.Itoa(p.PID),
			strconv.FormatInt(p.Arrival, 10),
			strconv.FormatInt(p.Burst, 10),
			strconv.Itoa(p.EffectivePriority()),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for pid %d: %w", p.PID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteResultsCSV writes the per-process rows of every result, one block per discipline.
func WriteResultsCSV(w io.Writer, results []*sim.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(resultColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range results {
		for _, p := range r.Processes {
			row := []string{
				string(r.Discipline),
				strconv.Itoa(p.PID),
				strconv.FormatInt(p.ArrivalTime, 10),
				strconv.FormatInt(p.BurstTime, 10),
				strconv.Itoa(p.Priority),
				strconv.FormatInt(p.StartTime, 10),
				strconv.FormatInt(p.CompletionTime, 10),
				strconv.FormatInt(p.TurnaroundTime, 10),
				strconv.FormatInt(p.WaitingTime, 10),
				strconv.FormatInt(p.ResponseTime, 10),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("writing CSV row for %s pid %d: %w", r.Discipline, p.PID, err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportResultsCSV writes the per-process rows of every result to path.
func ExportResultsCSV(results []*sim.Result, path string) error {
	return writeFile(path, "results", func(w io.Writer) error { return WriteResultsCSV(w, results) })
}
