package forecast

import (
	"fmt"
	"strings"

	"github.com/cor0nius/saltyocean/internal/clock"
)

// variables are the 19 NOMADS gfswave ASCII variable names this fetcher
// requests: the primary wave, the wind-wave component, three swell
// partitions, and the surface wind (speed/direction plus U/V components).
var variables = []string{
	"htsgwsfc", "perpwsfc", "dirpwsfc",
	"wvhgtsfc", "wvpersfc", "wvdirsfc",
	"swell1htsgwsfc", "swell1perpwsfc", "swell1dirpwsfc",
	"swell2htsgwsfc", "swell2perpwsfc", "swell2dirpwsfc",
	"swell3htsgwsfc", "swell3perpwsfc", "swell3dirpwsfc",
	"windsfc", "wdirsfc", "ugrdsfc", "vgrdsfc",
}

// buildURL constructs the NOMADS ASCII query URL for one model run and
// grid cell, requesting the full [0:55] step window for every variable.
func buildURL(base string, cycle clock.Cycle, modelName string, row, col int) string {
	date := cycle.Date.Format("20060102")
	hour := fmt.Sprintf("%02d", cycle.Hour)

	specs := make([]string, len(variables))
	for i, v := range variables {
		specs[i] = fmt.Sprintf("%s[0:%d][%d][%d]", v, TotalPeriods-1, row, col)
	}
	query := strings.Join(specs, ",")

	return fmt.Sprintf("%s/%s/gfswave.%s_%sz.ascii?%s", base, date, modelName, hour, query)
}
