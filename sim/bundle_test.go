package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedsim/schedsim/sim/trace"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func int64Ptr(v int64) *int64 { return &v }

func TestLoadRunConfig_ValidYAML_ParsesCorrectly(t *testing.T) {
	// GIVEN a full run config
	path := writeTempYAML(t, `
algorithms: [rr, fcfs, sjf-preemptive]
time_quantum: 4
context_switch: 1
trace_level: decisions
`)

	// WHEN loaded
	cfg, err := LoadRunConfig(path)

	// THEN every field is populated
	require.NoError(t, err)
	assert.Equal(t, []string{"rr", "fcfs", "sjf-preemptive"}, cfg.Algorithms)
	require.NotNil(t, cfg.TimeQuantum)
	assert.Equal(t, int64(4), *cfg.TimeQuantum)
	require.NotNil(t, cfg.ContextSwitch)
	assert.Equal(t, int64(1), *cfg.ContextSwitch)
	assert.NoError(t, cfg.Validate())
	// AND the disciplines come back in canonical order with aliases resolved
	assert.Equal(t, []Discipline{DisciplineFCFS, DisciplineSRTF, DisciplineRoundRobin}, cfg.EffectiveDisciplines())
	assert.True(t, cfg.TraceConfig().Enabled())
}

func TestLoadRunConfig_UnknownField_ReturnsError(t *testing.T) {
	path := writeTempYAML(t, "quantum: 3\n")
	_, err := LoadRunConfig(path)
	assert.Error(t, err)
}

func TestLoadRunConfig_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRunConfig_OmittedFields_StayNil(t *testing.T) {
	path := writeTempYAML(t, "algorithms: [fcfs]\n")
	cfg, err := LoadRunConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.TimeQuantum)
	assert.Nil(t, cfg.ContextSwitch)
}

func TestRunConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RunConfig
		wantErr bool
	}{
		{"zero value", RunConfig{}, false},
		{"aliases", RunConfig{Algorithms: []string{"round-robin", "sjf"}}, false},
		{"unknown discipline", RunConfig{Algorithms: []string{"mlfq"}}, true},
		{"duplicate via alias", RunConfig{Algorithms: []string{"srtf", "sjf-preemptive"}}, true},
		{"negative context switch", RunConfig{ContextSwitch: int64Ptr(-1)}, true},
		{"invalid quantum is not an error", RunConfig{TimeQuantum: int64Ptr(0)}, false},
		{"bad trace level", RunConfig{TraceLevel: "verbose"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunConfig_EffectiveQuantum(t *testing.T) {
	assert.Equal(t, DefaultTimeQuantum, (&RunConfig{}).EffectiveQuantum())
	assert.Equal(t, DefaultTimeQuantum, (&RunConfig{TimeQuantum: int64Ptr(0)}).EffectiveQuantum())
	assert.Equal(t, DefaultTimeQuantum, (&RunConfig{TimeQuantum: int64Ptr(-5)}).EffectiveQuantum())
	assert.Equal(t, int64(6), (&RunConfig{TimeQuantum: int64Ptr(6)}).EffectiveQuantum())
}

func TestRunConfig_Defaults(t *testing.T) {
	cfg := &RunConfig{}
	assert.Equal(t, int64(0), cfg.EffectiveContextSwitch())
	assert.Equal(t, AllDisciplines(), cfg.EffectiveDisciplines())
	assert.Equal(t, trace.TraceLevelNone, cfg.TraceConfig().Level)
	assert.False(t, cfg.TraceConfig().Enabled())
}
