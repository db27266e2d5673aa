package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sp3clock/internal/model"
)

// execute runs the root command with args and returns what it printed.
// Flag variables are package globals, so they are reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	analyzeFlags = analyzeOptions{}
	jsonOutput = false
	configPath = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

// writeDay writes a RefWWWWD.sp3 file with linear clocks for sats plus a
// few nanoseconds of repeating jitter.
func writeDay(t *testing.T, dir, name string, start time.Time, n int, sats ...string) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "#cP%4d %2d %2d  0  0  0.00000000 %7d ORBIT IGS14 HLM  IAC\n",
		start.Year(), start.Month(), start.Day(), n)
	b.WriteString("## 2295 86400.00000000    30.00000000 60310 0.0000000000000\n")
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * 30 * time.Second)
		fmt.Fprintf(&b, "*  %4d %2d %2d %2d %2d %11.8f\n",
			ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), float64(ts.Second()))
		for k, s := range sats {
			fmt.Fprintf(&b, "P%s  1000.000000  2000.000000  3000.000000 %12.6f\n",
				s, float64(k+1)*10+float64(i)*0.03+0.001*float64(i*7%5-2))
		}
	}
	b.WriteString("EOF\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644))
}

func fixtureDir(t *testing.T) string {
	dir := t.TempDir()
	writeDay(t, dir, "Ref22951.sp3", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 60, "G01", "R26")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	return dir
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sp3ctl dev\n", out)
}

func TestPresets(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "presets", "--json")
		require.NoError(t, err)

		var got []struct {
			Name       string   `json:"name"`
			Satellites []string `json:"satellites"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		names := make([]string, 0, len(got))
		for _, p := range got {
			names = append(names, p.Name)
			assert.NotEmpty(t, p.Satellites, p.Name)
		}
		assert.Contains(t, names, "glonass")
		assert.Contains(t, names, "gps-iii")
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "presets")
		require.NoError(t, err)
		assert.Contains(t, out, "Preset")
		assert.Contains(t, out, "glonass-k")
	})
}

func TestAnalyze_JSON(t *testing.T) {
	dir := fixtureDir(t)

	out, err := execute(t, "analyze", "--dir", dir, "--json",
		"--start", "2024-01-01", "--sats", "G01,R26,E11",
		"--tau-mode", "octave", "--max-tau", "300", "--lag", "5")
	require.NoError(t, err)

	var a model.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, 1, a.Files)
	assert.Equal(t, "octave", a.TauMode)
	assert.Equal(t, []string{"E11"}, a.Missing)
	require.Len(t, a.Summaries, 2)
	assert.Equal(t, "G01", a.Summaries[0].Satellite)
	assert.Equal(t, 60, a.Summaries[0].Points)
	// 0.03 µs per 30 s epoch
	assert.InEpsilon(t, 1e-9, a.Summaries[0].Slope, 1e-2)
}

func TestAnalyze_TableWritesPlotsAndResult(t *testing.T) {
	dir := fixtureDir(t)
	plots := filepath.Join(t.TempDir(), "plots")
	result := filepath.Join(t.TempDir(), "result.json")

	out, err := execute(t, "analyze", "--dir", dir,
		"--start", "2024-01-01", "--end", "2024-01-01", "--sats", "G01",
		"--unit", "us", "--tau-mode", "octave", "--max-tau", "300",
		"--plot-dir", plots, "--out", result)
	require.NoError(t, err)

	assert.Contains(t, out, "Clock analysis")
	assert.Contains(t, out, "G01")
	assert.Contains(t, out, "RMS lin, µs")
	assert.Contains(t, out, "detrended.png")

	_, err = os.Stat(filepath.Join(plots, "adev.png"))
	assert.NoError(t, err)

	b, err := os.ReadFile(result)
	require.NoError(t, err)
	var res model.AnalysisResult
	require.NoError(t, json.Unmarshal(b, &res))
	require.Len(t, res.Satellites, 1)
	assert.Len(t, res.Satellites[0].Times, 60)
}

func TestAnalyze_Errors(t *testing.T) {
	dir := fixtureDir(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing start", []string{}, "start"},
		{"bad start", []string{"--start", "01/01/2024"}, "--start"},
		{"bad end", []string{"--start", "2024-01-01", "--end", "tomorrow"}, "--end"},
		{"no products", []string{"--start", "2025-06-01", "--sats", "G01"}, "no products"},
		{"even window", []string{"--start", "2024-01-01", "--sats", "G01", "--window", "4"}, "window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"analyze", "--dir", dir}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSpan(t *testing.T) {
	assert.Equal(t, "G01 G02", span([]string{"G01", "G02"}))
	assert.Equal(t, "R01 .. R24 (24)", span(func() []string {
		ids := make([]string, 24)
		for i := range ids {
			ids[i] = fmt.Sprintf("R%02d", i+1)
		}
		return ids
	}()))
}

func TestList(t *testing.T) {
	var b bytes.Buffer
	list(&b, "Missing", mutedStyle, nil)
	assert.Empty(t, b.String())

	list(&b, "Missing", mutedStyle, []string{"E11"})
	assert.Contains(t, b.String(), "Missing")
	assert.Contains(t, b.String(), "E11")
}

func TestSci(t *testing.T) {
	assert.Equal(t, "1.235e-09", sci(1.2345e-9))
}
