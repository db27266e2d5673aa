// Package sp3 reads clock offsets out of SP3 precise orbit/clock products.
package sp3

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"sp3clock/internal/model"
)

// DefaultInterval is assumed when the header does not state the epoch spacing.
const DefaultInterval = 30 * time.Second

// badClock is the SP3 marker for a missing clock value (999999.999999).
const badClock = 999999.0

var ErrMalformedEpoch = errors.New("malformed epoch record")

// Header holds the fields of the first two SP3 header lines.
type Header struct {
	Version       byte          `json:"version"`
	Mode          byte          `json:"mode"`
	Start         time.Time     `json:"start"`
	NumEpochs     int           `json:"num_epochs"`
	DataUsed      string        `json:"data_used"`
	CoordSystem   string        `json:"coord_system"`
	OrbitType     string        `json:"orbit_type"`
	Agency        string        `json:"agency"`
	GPSWeek       int           `json:"gps_week"`
	SecondsOfWeek float64       `json:"seconds_of_week"`
	Interval      time.Duration `json:"interval"`
}

// File is a parsed SP3 product.
type File struct {
	Header Header
	Series map[string]*model.ClockSeries
	Epochs int

	last time.Time
}

// LastEpoch returns the latest epoch whose records were accepted.
func (f *File) LastEpoch() time.Time { return f.last }

// Satellites returns the sorted IDs present in the file.
func (f *File) Satellites() []string {
	out := make([]string, 0, len(f.Series))
	for id := range f.Series {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Parse reads an SP3 stream. Records belonging to epochs at or before after are
// dropped, as are epochs that do not advance past the previous accepted one, so
// that consecutive daily files concatenate into a monotonic series.
func Parse(r io.Reader, after time.Time) (*File, error) {
	f := &File{
		Header: Header{Interval: DefaultInterval},
		Series: make(map[string]*model.ClockSeries),
		last:   after,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		lineNo  int
		current time.Time
		accept  bool
	)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		switch {
		case lineNo == 1 && strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "##"):
			parseFirstHeaderLine(&f.Header, line)
		case strings.HasPrefix(line, "##"):
			parseSecondHeaderLine(&f.Header, line)
		case strings.HasPrefix(line, "*"):
			epoch, err := parseEpoch(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current = epoch
			accept = current.After(f.last)
			if accept {
				f.last = current
				f.Epochs++
			}
		case strings.HasPrefix(line, "P") && accept:
			id, offset, ok := parseClock(line)
			if !ok {
				continue
			}
			s, found := f.Series[id]
			if !found {
				s = &model.ClockSeries{Satellite: id}
				f.Series[id] = s
			}
			s.Append(current, offset)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sp3: %w", err)
	}
	return f, nil
}

// parseClock returns the satellite ID and the clock offset in seconds.
func parseClock(line string) (string, float64, bool) {
	parts := strings.Fields(line)
	if len(parts) < 5 || len(parts[0]) < 2 {
		return "", 0, false
	}
	us, err := strconv.ParseFloat(parts[4], 64)
	if err != nil || math.IsNaN(us) || math.Abs(us) >= badClock {
		return "", 0, false
	}
	return parts[0][1:], us * 1e-6, true
}

func parseEpoch(line string) (time.Time, error) {
	parts := strings.Fields(strings.TrimPrefix(line, "*"))
	if len(parts) < 6 {
		return time.Time{}, ErrMalformedEpoch
	}
	t, err := parseCalendar(parts[:6])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedEpoch, err)
	}
	return t, nil
}

// parseCalendar reads "YYYY MM DD hh mm ss.sss" tokens.
func parseCalendar(tok []string) (time.Time, error) {
	var ints [5]int
	for i := 0; i < 5; i++ {
		v, err := strconv.Atoi(tok[i])
		if err != nil {
			return time.Time{}, err
		}
		ints[i] = v
	}
	sec, err := strconv.ParseFloat(tok[5], 64)
	if err != nil {
		return time.Time{}, err
	}
	whole := math.Floor(sec)
	nsec := int(math.Round((sec - whole) * 1e9))
	return time.Date(ints[0], time.Month(ints[1]), ints[2], ints[3], ints[4], int(whole), nsec, time.UTC), nil
}

func parseFirstHeaderLine(h *Header, line string) {
	if len(line) >= 2 {
		h.Version = line[1]
	}
	if len(line) >= 3 {
		h.Mode = line[2]
	}
	if len(line) <= 3 {
		return
	}
	tok := strings.Fields(line[3:])
	if len(tok) >= 6 {
		if t, err := parseCalendar(tok[:6]); err == nil {
			h.Start = t
		}
	}
	if len(tok) >= 7 {
		h.NumEpochs, _ = strconv.Atoi(tok[6])
	}
	if len(tok) >= 8 {
		h.DataUsed = tok[7]
	}
	if len(tok) >= 9 {
		h.CoordSystem = tok[8]
	}
	if len(tok) >= 10 {
		h.OrbitType = tok[9]
	}
	if len(tok) >= 11 {
		h.Agency = tok[10]
	}
}

func parseSecondHeaderLine(h *Header, line string) {
	tok := strings.Fields(strings.TrimPrefix(line, "##"))
	if len(tok) >= 1 {
		h.GPSWeek, _ = strconv.Atoi(tok[0])
	}
	if len(tok) >= 2 {
		h.SecondsOfWeek, _ = strconv.ParseFloat(tok[1], 64)
	}
	if len(tok) >= 3 {
		if sec, err := strconv.ParseFloat(tok[2], 64); err == nil && sec > 0 {
			h.Interval = time.Duration(sec * float64(time.Second))
		}
	}
}
