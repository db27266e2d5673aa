package model

import "time"

// ADEVPoint is one overlapping Allan deviation estimate.
type ADEVPoint struct {
	Tau float64 `json:"tau"`
	Dev float64 `json:"dev"`
	Err float64 `json:"err"`
	N   int     `json:"n"`
}

// Analysis is the stored record of one clock stability run.
type Analysis struct {
	ID         string             `json:"id"`
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	Satellites []string           `json:"satellites"`
	Window     int                `json:"window"`
	Unit       string             `json:"unit"`
	TauMode    string             `json:"tau_mode"`
	Files      int                `json:"files"`
	ResultPath string             `json:"result_path,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	Summaries  []SatelliteSummary `json:"summaries,omitempty"`
	Missing    []string           `json:"missing,omitempty"`
}

// SatelliteSummary holds the scalar figures of one satellite's analysis.
type SatelliteSummary struct {
	Satellite    string    `json:"satellite"`
	Points       int       `json:"points"`
	Slope        float64   `json:"slope"`
	Intercept    float64   `json:"intercept"`
	Quadratic    []float64 `json:"quadratic"`
	DriftPerDay  float64   `json:"drift_per_day"`
	RMSDetrended float64   `json:"rms_detrended"`
	RMSDedrifted float64   `json:"rms_dedrifted"`
	Outliers     int       `json:"outliers"`
}

// SatelliteResult carries the processed series of one satellite.
type SatelliteResult struct {
	SatelliteSummary
	Times         []time.Time `json:"times"`
	Raw           []float64   `json:"raw"`
	Filtered      []float64   `json:"filtered"`
	Detrended     []float64   `json:"detrended"`
	Dedrifted     []float64   `json:"dedrifted"`
	FrequencyTime []time.Time `json:"frequency_times"`
	Frequency     []float64   `json:"frequency"`
	ADEV          []ADEVPoint `json:"adev"`
}

// AnalysisResult is the complete output of a run.
type AnalysisResult struct {
	Analysis   Analysis          `json:"analysis"`
	Satellites []SatelliteResult `json:"satellites"`
}
