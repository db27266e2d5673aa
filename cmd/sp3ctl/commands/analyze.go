package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sp3clock/internal/clock"
	"sp3clock/internal/model"
	"sp3clock/internal/plot"
	"sp3clock/internal/preset"
	"sp3clock/internal/repository/directory"
	"sp3clock/internal/service"
	"sp3clock/internal/storage"
)

type analyzeOptions struct {
	start, end string
	sats       string
	preset     string
	window     int
	threshold  float64
	unit       string
	tauMode    string
	maxTau     float64
	lag        int
	plotDir    string
	out        string
}

var analyzeFlags analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the clock analysis over the SP3 files in --dir",
	Example: `  sp3ctl analyze --start 2025-03-01 --end 2025-03-07 --preset glonass-k
  sp3ctl analyze --start 2025-03-01 --end 2025-03-01 --sats G01,R26 --unit us --plot-dir plots`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.start, "start", "", "first day, YYYY-MM-DD")
	f.StringVar(&analyzeFlags.end, "end", "", "last day, YYYY-MM-DD (defaults to --start)")
	f.StringVar(&analyzeFlags.sats, "sats", "", "comma separated satellites, e.g. G01,R26")
	f.StringVar(&analyzeFlags.preset, "preset", "", "satellite preset (see sp3ctl presets)")
	f.IntVar(&analyzeFlags.window, "window", 0, "median filter window, odd 3..15 (default from config)")
	f.Float64Var(&analyzeFlags.threshold, "threshold", 0, "outlier threshold in MADs (default from config)")
	f.StringVar(&analyzeFlags.unit, "unit", "", "display unit: s, us or ns (default from config)")
	f.StringVar(&analyzeFlags.tauMode, "tau-mode", "", "ADEV tau grid: all, octave or decade")
	f.Float64Var(&analyzeFlags.maxTau, "max-tau", 0, "largest ADEV tau in seconds")
	f.IntVar(&analyzeFlags.lag, "lag", 0, "frequency offset lag in epochs")
	f.StringVar(&analyzeFlags.plotDir, "plot-dir", "", "write PNG charts into this directory")
	f.StringVar(&analyzeFlags.out, "out", "", "write the full JSON result to this file")
	_ = analyzeCmd.MarkFlagRequired("start")
}

func analysisRequest() (service.AnalysisRequest, error) {
	start, err := time.Parse(time.DateOnly, analyzeFlags.start)
	if err != nil {
		return service.AnalysisRequest{}, fmt.Errorf("--start: %w", err)
	}
	end := start
	if analyzeFlags.end != "" {
		if end, err = time.Parse(time.DateOnly, analyzeFlags.end); err != nil {
			return service.AnalysisRequest{}, fmt.Errorf("--end: %w", err)
		}
	}
	return service.AnalysisRequest{
		Start:      start,
		End:        end,
		Satellites: preset.ParseSatellites(analyzeFlags.sats),
		Preset:     analyzeFlags.preset,
		Window:     analyzeFlags.window,
		Threshold:  analyzeFlags.threshold,
		Unit:       analyzeFlags.unit,
		TauMode:    analyzeFlags.tauMode,
		MaxTau:     analyzeFlags.maxTau,
		Lag:        analyzeFlags.lag,
	}, nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	req, err := analysisRequest()
	if err != nil {
		return err
	}
	store, err := storage.NewDir(dataDir)
	if err != nil {
		return err
	}
	svc, err := service.NewAnalysisService(store, directory.NewProductDirectory(dataDir), cfg.Analysis,
		service.WithAnalysisLogger(log))
	if err != nil {
		return err
	}

	res, err := svc.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	unit, err := clock.ParseUnit(res.Analysis.Unit)
	if err != nil {
		return err
	}

	if analyzeFlags.out != "" {
		b, err := json.Marshal(res)
		if err != nil {
			return err
		}
		if err := os.WriteFile(analyzeFlags.out, b, 0o644); err != nil {
			return err
		}
	}
	var plots []string
	if analyzeFlags.plotDir != "" {
		if plots, err = plot.WriteDir(analyzeFlags.plotDir, res, unit); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(w, res.Analysis)
	}
	fmt.Fprintf(w, "%s %s to %s, %d files, window %d\n",
		titleStyle.Render("Clock analysis"),
		res.Analysis.Start.Format(time.DateOnly), res.Analysis.End.Format(time.DateOnly),
		res.Analysis.Files, res.Analysis.Window)
	if err := writeTable(w, summaryHeaders(unit), summaryRows(res, unit)); err != nil {
		return err
	}
	list(w, "No data", mutedStyle, res.Analysis.Missing)
	list(w, "Plots", okStyle, plots)
	return nil
}

func summaryHeaders(unit clock.Unit) []string {
	return []string{
		"Sat", "Points", "Outliers", "Slope", "Drift/day",
		"RMS lin, " + unit.Label(), "RMS quad, " + unit.Label(), "ADEV(tau0)",
	}
}

func summaryRows(res *model.AnalysisResult, unit clock.Unit) [][]string {
	f := unit.Factor()
	rows := make([][]string, 0, len(res.Satellites))
	for _, s := range res.Satellites {
		adev := "-"
		if len(s.ADEV) > 0 {
			adev = sci(s.ADEV[0].Dev)
		}
		rows = append(rows, []string{
			s.Satellite,
			strconv.Itoa(s.Points),
			strconv.Itoa(s.Outliers),
			sci(s.Slope),
			sci(s.DriftPerDay),
			strconv.FormatFloat(s.RMSDetrended*f, 'f', 3, 64),
			strconv.FormatFloat(s.RMSDedrifted*f, 'f', 3, 64),
			adev,
		})
	}
	return rows
}
