package forecast

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyBody is returned when the response parses without a scanner
// error but yields no variable data at all, which the retry policy
// treats as a transient condition.
var ErrEmptyBody = errors.New("forecast: empty or unrecognized ascii body")

var dataLineRE = regexp.MustCompile(`^\[(\d+)\]\[0\],\s*([-0-9.eE]+)`)

// parseASCII reads a NOMADS ASCII response body and returns, for each
// requested variable, a sparse map of step index to value. Header lines
// introduce a variable name (everything up to the first '['); subsequent
// "[<i>][0], <float>" lines populate that variable's series until the
// next header line.
func parseASCII(r io.Reader) (map[string]map[int]float64, error) {
	scanner := bufio.NewScanner(r)
	// NOMADS can emit long single lines; grow the buffer generously.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	series := make(map[string]map[int]float64)
	var current string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := dataLineRE.FindStringSubmatch(line); m != nil {
			if current == "" {
				continue
			}
			idx, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			series[current][idx] = val
			continue
		}
		if strings.HasPrefix(line, "[") {
			// A malformed data line for a recognized block; skip it.
			continue
		}
		if bracket := strings.IndexByte(line, '['); bracket > 0 {
			name := line[:bracket]
			current = name
			if _, ok := series[current]; !ok {
				series[current] = make(map[int]float64)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("forecast: scanning ascii body: %w", err)
	}
	if len(series) == 0 {
		return nil, ErrEmptyBody
	}
	return series, nil
}

// assemble builds the ordered Period sequence from parsed per-variable
// series, starting at the cycle's nominal time and stepping PeriodHours
// apart. A step is included only if the primary wave height is present;
// the wind-wave and swell partitions are included per-step only when
// their own height sample is present.
func assemble(series map[string]map[int]float64, start time.Time) []Period {
	var periods []Period
	for i := 0; i < TotalPeriods; i++ {
		height, ok := series["htsgwsfc"][i]
		if !ok {
			continue
		}

		p := Period{
			Time:          start.Add(time.Duration(i*PeriodHours) * time.Hour),
			WaveHeightM:   height,
			WavePeriodSec: series["perpwsfc"][i],
			WaveDirDeg:    series["dirpwsfc"][i],
			WindSpeedMS:   series["windsfc"][i],
			WindDirDeg:    series["wdirsfc"][i],
			WindU:         series["ugrdsfc"][i],
			WindV:         series["vgrdsfc"][i],
		}

		if wh, ok := series["wvhgtsfc"][i]; ok {
			p.WindWave = &SwellPartition{
				HeightM:   wh,
				PeriodSec: series["wvpersfc"][i],
				DirDeg:    series["wvdirsfc"][i],
			}
		}

		for _, prefix := range []string{"swell1", "swell2", "swell3"} {
			h, ok := series[prefix+"htsgwsfc"][i]
			if !ok {
				continue
			}
			p.Swells = append(p.Swells, SwellPartition{
				HeightM:   h,
				PeriodSec: series[prefix+"perpwsfc"][i],
				DirDeg:    series[prefix+"dirpwsfc"][i],
			})
		}

		periods = append(periods, p)
	}
	return periods
}
