package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sp3clock/internal/clock"
	"sp3clock/internal/config"
	"sp3clock/internal/metrics"
	"sp3clock/internal/model"
	repoMocks "sp3clock/internal/repository/mocks"
	"sp3clock/internal/storage"
	storeMocks "sp3clock/internal/storage/mocks"
)

// sp3Day renders n epochs at 30 s from start. Each satellite gets a linear
// clock in microseconds.
func sp3Day(start time.Time, n int, sats ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#cP%4d %2d %2d %2d %2d %11.8f %7d ORBIT IGS14 HLM  IAC\n",
		start.Year(), start.Month(), start.Day(), 0, 0, 0.0, n)
	b.WriteString("## 2295 86400.00000000    30.00000000 60310 0.0000000000000\n")
	for i := 0; i < n; i++ {
		t := start.Add(time.Duration(i) * 30 * time.Second)
		fmt.Fprintf(&b, "*  %4d %2d %2d %2d %2d %11.8f\n",
			t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), float64(t.Second()))
		el := t.Sub(start).Seconds()
		for k, s := range sats {
			fmt.Fprintf(&b, "P%s  1000.000000  2000.000000  3000.000000 %12.6f\n", s, float64(k+1)*10+el*1e-3)
		}
	}
	b.WriteString("EOF\n")
	return b.String()
}

func cacheCounts(hit, miss int) string {
	out := "# HELP sp3_parse_cache_total Parsed-file cache lookups, by result.\n# TYPE sp3_parse_cache_total counter\n"
	if hit > 0 {
		out += fmt.Sprintf("sp3_parse_cache_total{result=\"hit\"} %d\n", hit)
	}
	return out + fmt.Sprintf("sp3_parse_cache_total{result=\"miss\"} %d\n", miss)
}

func body(s string) io.ReadCloser { return io.NopCloser(strings.NewReader(s)) }

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		Window:       7,
		Threshold:    clock.DefaultThreshold,
		FrequencyLag: 10,
		MaxTau:       300,
		TauMode:      clock.TauOctave,
		Unit:         "ns",
		CacheSize:    4,
		Workers:      2,
	}
}

var (
	day1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 = day1.AddDate(0, 0, 1)
)

func twoProducts() []model.Product {
	return []model.Product{
		{ID: "1", Filename: "Ref22951.sp3", StoragePath: "sp3/Ref22951.sp3", Date: day1},
		{ID: "2", Filename: "Ref22952.sp3", StoragePath: "sp3/Ref22952.sp3", Date: day2},
	}
}

func TestAnalysisService_Run(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockProductRepository)

	mRepo.On("ListInRange", mock.Anything, day1, day2).Return(twoProducts(), nil)
	// the second file repeats the last epoch of the first; it must not appear twice
	mStore.On("Get", mock.Anything, "sp3/Ref22951.sp3").
		Return(body(sp3Day(day1, 41, "G01", "R01")), storage.ObjectInfo{ETag: "a"}, nil).Once()
	mStore.On("Get", mock.Anything, "sp3/Ref22952.sp3").
		Return(body(sp3Day(day1.Add(20*time.Minute), 40, "G01", "R01")), storage.ObjectInfo{ETag: "b"}, nil).Once()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	svc, err := NewAnalysisService(mStore, mRepo, testAnalysisConfig(), WithAnalysisMetrics(m))
	require.NoError(t, err)

	res, err := svc.Run(ctx, AnalysisRequest{
		Start:      day1.Add(5 * time.Hour),
		End:        day2,
		Satellites: []string{"g01", "R01", "E11"},
	})
	require.NoError(t, err)

	a := res.Analysis
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, day1, a.Start)
	assert.Equal(t, 2, a.Files)
	assert.Equal(t, []string{"G01", "R01", "E11"}, a.Satellites)
	assert.Equal(t, []string{"E11"}, a.Missing)
	assert.Equal(t, "ns", a.Unit)
	require.Len(t, res.Satellites, 2)
	require.Len(t, a.Summaries, 2)

	g01 := res.Satellites[0]
	assert.Equal(t, "G01", g01.Satellite)
	// 41 epochs of day one then 00:20:30..00:39:30 of the second file
	assert.Equal(t, 41+39, g01.Points)
	for i := 1; i < len(g01.Times); i++ {
		require.True(t, g01.Times[i].After(g01.Times[i-1]), "times must increase at %d", i)
	}
	// 1e-3 µs per second
	assert.InEpsilon(t, 1e-9, g01.Slope, 1e-6)
	assert.InDelta(t, 0, g01.RMSDetrended, 1e-15)
	assert.Zero(t, g01.Outliers)
	assert.Len(t, g01.Frequency, g01.Points-10)
	assert.InEpsilon(t, 1e-9, g01.Frequency[0], 1e-6)
	assert.InDelta(t, 0, g01.DriftPerDay, 1e-15)
	require.NotEmpty(t, g01.ADEV)
	assert.Equal(t, 30.0, g01.ADEV[0].Tau)

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(cacheCounts(0, 2)), "sp3_parse_cache_total"))
	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestAnalysisService_Run_UsesParseCache(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockProductRepository)

	products := twoProducts()[:1]
	mRepo.On("ListInRange", mock.Anything, day1, day1).Return(products, nil)
	mStore.On("Get", mock.Anything, "sp3/Ref22951.sp3").
		Return(body(sp3Day(day1, 20, "G01")), storage.ObjectInfo{ETag: "a"}, nil).Once()
	mStore.On("Get", mock.Anything, "sp3/Ref22951.sp3").
		Return(body(""), storage.ObjectInfo{ETag: "a"}, nil).Once()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	svc, err := NewAnalysisService(mStore, mRepo, testAnalysisConfig(), WithAnalysisMetrics(m))
	require.NoError(t, err)

	req := AnalysisRequest{Start: day1, End: day1, Satellites: []string{"G01"}}
	first, err := svc.Run(ctx, req)
	require.NoError(t, err)
	second, err := svc.Run(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Satellites[0].Points, second.Satellites[0].Points)
	assert.Equal(t, 20, second.Satellites[0].Points)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(cacheCounts(1, 1)), "sp3_parse_cache_total"))
	mStore.AssertExpectations(t)
}

func TestAnalysisService_Run_Preset(t *testing.T) {
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockProductRepository)
	mRepo.On("ListInRange", mock.Anything, day1, day1).Return(twoProducts()[:1], nil)
	mStore.On("Get", mock.Anything, "sp3/Ref22951.sp3").
		Return(body(sp3Day(day1, 20, "R01")), storage.ObjectInfo{}, nil)

	svc, err := NewAnalysisService(mStore, mRepo, testAnalysisConfig())
	require.NoError(t, err)

	res, err := svc.Run(context.Background(), AnalysisRequest{Start: day1, End: day1, Preset: "glonass"})
	require.NoError(t, err)
	assert.Contains(t, res.Analysis.Satellites, "R01")
	require.Len(t, res.Satellites, 1)
	assert.Equal(t, "R01", res.Satellites[0].Satellite)
	assert.Len(t, res.Analysis.Missing, len(res.Analysis.Satellites)-1)
}

func TestAnalysisService_Run_TooFewPointsIsMissing(t *testing.T) {
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockProductRepository)
	mRepo.On("ListInRange", mock.Anything, day1, day1).Return(twoProducts()[:1], nil)
	mStore.On("Get", mock.Anything, "sp3/Ref22951.sp3").
		Return(body(sp3Day(day1, 2, "G01")), storage.ObjectInfo{}, nil)

	svc, err := NewAnalysisService(mStore, mRepo, testAnalysisConfig())
	require.NoError(t, err)

	res, err := svc.Run(context.Background(), AnalysisRequest{Start: day1, End: day1, Satellites: []string{"G01"}})
	require.NoError(t, err)
	assert.Empty(t, res.Satellites)
	assert.Equal(t, []string{"G01"}, res.Analysis.Missing)
}

func TestAnalysisService_Run_MissingObjectIsSkipped(t *testing.T) {
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockProductRepository)
	mRepo.On("ListInRange", mock.Anything, day1, day2).Return(twoProducts(), nil)
	mStore.On("Get", mock.Anything, "sp3/Ref22951.sp3").
		Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)
	mStore.On("Get", mock.Anything, "sp3/Ref22952.sp3").
		Return(body(sp3Day(day2, 20, "G01")), storage.ObjectInfo{}, nil)

	svc, err := NewAnalysisService(mStore, mRepo, testAnalysisConfig())
	require.NoError(t, err)

	res, err := svc.Run(context.Background(), AnalysisRequest{Start: day1, End: day2, Satellites: []string{"G01"}})
	require.NoError(t, err)
	require.Len(t, res.Satellites, 1)
	assert.Equal(t, 20, res.Satellites[0].Points)
}

func TestAnalysisService_Run_NoProducts(t *testing.T) {
	mRepo := new(repoMocks.MockProductRepository)
	mRepo.On("ListInRange", mock.Anything, day1, day2).Return([]model.Product{}, nil)

	svc, err := NewAnalysisService(new(storeMocks.MockStorage), mRepo, testAnalysisConfig())
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), AnalysisRequest{Start: day1, End: day2, Satellites: []string{"G01"}})
	assert.ErrorIs(t, err, ErrNoProducts)
}

func TestAnalysisService_Run_Validation(t *testing.T) {
	base := AnalysisRequest{Start: day1, End: day2, Satellites: []string{"G01"}}
	tests := []struct {
		name string
		mod  func(r *AnalysisRequest)
		want error
	}{
		{"no satellites", func(r *AnalysisRequest) { r.Satellites = []string{" ", ""} }, ErrNoSatellites},
		{"unknown preset", func(r *AnalysisRequest) { r.Preset = "nope" }, ErrUnknownPreset},
		{"missing start", func(r *AnalysisRequest) { r.Start = time.Time{} }, ErrInvalidRange},
		{"end before start", func(r *AnalysisRequest) { r.Start, r.End = day2, day1 }, ErrInvalidRange},
		{"even window", func(r *AnalysisRequest) { r.Window = 4 }, ErrInvalidWindow},
		{"window too large", func(r *AnalysisRequest) { r.Window = 17 }, ErrInvalidWindow},
		{"window too small", func(r *AnalysisRequest) { r.Window = 1 }, ErrInvalidWindow},
		{"bad unit", func(r *AnalysisRequest) { r.Unit = "minutes" }, ErrInvalidUnit},
		{"bad tau mode", func(r *AnalysisRequest) { r.TauMode = "weekly" }, ErrInvalidTauMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockProductRepository)
			svc, err := NewAnalysisService(new(storeMocks.MockStorage), mRepo, testAnalysisConfig())
			require.NoError(t, err)

			req := base
			req.Satellites = append([]string(nil), base.Satellites...)
			tt.mod(&req)
			_, err = svc.Run(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			mRepo.AssertNotCalled(t, "ListInRange", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSince(t *testing.T) {
	cs := &model.ClockSeries{Satellite: "G01"}
	for i := 0; i < 4; i++ {
		cs.Append(day1.Add(time.Duration(i)*time.Minute), float64(i))
	}
	tail := since(cs, day1.Add(time.Minute))
	assert.Equal(t, []float64{2, 3}, tail.Offsets)
	assert.Equal(t, 4, cs.Len())
	assert.Equal(t, 4, since(cs, time.Time{}).Len())
}
