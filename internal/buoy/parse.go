package buoy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// sentinel is NDBC's absent-value marker. It must never be parsed as 0.
const sentinel = "MM"

// parseField converts a raw column to a *float64, returning nil for the
// sentinel and for anything that doesn't parse as a number (malformed
// fields are treated as absent rather than crashing the row).
func parseField(raw string) *float64 {
	if raw == sentinel || raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// metRow is one parsed row of the standard meteorological record.
type metRow struct {
	Time time.Time
	Wind Wind
	Wave Wave
	Atmo Atmosphere
}

// metColumn indices within a realtime2 "<id>.txt" data row, following the
// file's own header comment:
// YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP VIS PTDY TIDE
const (
	metColWDIR = 5
	metColWSPD = 6
	metColGST  = 7
	metColWVHT = 8
	metColDPD  = 9
	metColAPD  = 10
	metColMWD  = 11
	metColPRES = 12
	metColATMP = 13
	metColWTMP = 14
	metColDEWP = 15
	metMinCols = 16
)

// parseMetRecord reads a realtime2 standard meteorological text stream,
// returning data rows in the order they were given (NDBC serves most
// recent first). Header/comment lines (leading "#") are skipped.
func parseMetRecord(r io.Reader) ([]metRow, error) {
	scanner := bufio.NewScanner(r)
	var rows []metRow
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Fields(line)
		if len(cols) < metMinCols {
			continue
		}
		ts, err := parseTimestamp(cols)
		if err != nil {
			continue
		}
		row := metRow{
			Time: ts,
			Wind: Wind{
				DirDeg:  parseField(cols[metColWDIR]),
				SpeedMS: parseField(cols[metColWSPD]),
				GustMS:  parseField(cols[metColGST]),
			},
			Wave: Wave{
				HeightM:           parseField(cols[metColWVHT]),
				DominantPeriodSec: parseField(cols[metColDPD]),
				AveragePeriodSec:  parseField(cols[metColAPD]),
				DirDeg:            parseField(cols[metColMWD]),
			},
			Atmo: Atmosphere{
				PressureHPA: parseField(cols[metColPRES]),
				AirTempC:    parseField(cols[metColATMP]),
				WaterTempC:  parseField(cols[metColWTMP]),
				DewPointC:   parseField(cols[metColDEWP]),
			},
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("buoy: scanning meteorological record: %w", err)
	}
	return rows, nil
}

// specRow is one parsed row of the spectral wave-data record.
type specRow struct {
	Time     time.Time
	Swell    SwellComponent
	WindWave SwellComponent
	MeanDir  *float64
}

// specColumn indices within a realtime2 "<id>.spec" data row:
// YY MM DD hh mm WVHT SwH SwP WWH WWP SwD WWD STEEPNESS APD MWD
const (
	specColSwH       = 6
	specColSwP       = 7
	specColWWH       = 8
	specColWWP       = 9
	specColSwD       = 10
	specColWWD       = 11
	specColSteepness = 12
	specColMWD       = 14
	specMinCols      = 15
)

func parseSpecRecord(r io.Reader) ([]specRow, error) {
	scanner := bufio.NewScanner(r)
	var rows []specRow
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Fields(line)
		if len(cols) < specMinCols {
			continue
		}
		ts, err := parseTimestamp(cols)
		if err != nil {
			continue
		}
		steepness := cols[specColSteepness]
		if steepness == sentinel {
			steepness = ""
		}
		rows = append(rows, specRow{
			Time: ts,
			Swell: SwellComponent{
				HeightM:   parseField(cols[specColSwH]),
				PeriodSec: parseField(cols[specColSwP]),
				DirDeg:    parseField(cols[specColSwD]),
				Steepness: steepness,
			},
			WindWave: SwellComponent{
				HeightM:   parseField(cols[specColWWH]),
				PeriodSec: parseField(cols[specColWWP]),
				DirDeg:    parseField(cols[specColWWD]),
			},
			MeanDir: parseField(cols[specColMWD]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("buoy: scanning spectral record: %w", err)
	}
	return rows, nil
}

// parseTimestamp reads the shared leading "YY MM DD hh mm" columns common
// to both record formats.
func parseTimestamp(cols []string) (time.Time, error) {
	if len(cols) < 5 {
		return time.Time{}, fmt.Errorf("row too short for a timestamp")
	}
	year, err := strconv.Atoi(cols[0])
	if err != nil {
		return time.Time{}, err
	}
	if year < 100 {
		year += 2000
	}
	month, err := strconv.Atoi(cols[1])
	if err != nil {
		return time.Time{}, err
	}
	day, err := strconv.Atoi(cols[2])
	if err != nil {
		return time.Time{}, err
	}
	hour, err := strconv.Atoi(cols[3])
	if err != nil {
		return time.Time{}, err
	}
	minute, err := strconv.Atoi(cols[4])
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), nil
}
