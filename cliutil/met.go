package cliutil

import (
	"fmt"
	"strings"

	gostats "github.com/GaryBoone/GoStats/stats"
	"github.com/spatialmodel/oilpalm/driver"
	"github.com/spatialmodel/oilpalm/internal/simerr"
)

// SummarizeWeather draws one full year (dcfg.Meteo.NSets records, or 365
// if unset) from the configured weather source and reports per-field
// mean/min/max, the same way the teacher's observation-comparison
// tooling summarizes a data series with GoStats. It never advances any
// other component; this is a read-only sanity check on a weather file
// or a stochastic generator's parameters, independent of a full
// simulation run.
func SummarizeWeather(dcfg driver.Config) (string, error) {
	source, err := dcfg.BuildWeatherSource()
	if err != nil {
		return "", err
	}

	nsets := dcfg.Meteo.NSets
	if nsets <= 0 {
		nsets = 365
	}

	order := []string{"tmin", "tmax", "wind", "rain", "sunhr"}
	series := map[string][]float64{}
	for _, k := range order {
		series[k] = make([]float64, 0, nsets)
	}

	for day := 0; day < nsets; day++ {
		rec, err := source.NextDay()
		if err != nil {
			return "", simerr.NewInput("reading weather record", err)
		}
		for _, k := range order {
			if v, ok := rec[k]; ok {
				series[k] = append(series[k], v)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "field\tn\tmean\tmin\tmax\n")
	for _, k := range order {
		vals := series[k]
		if len(vals) == 0 {
			fmt.Fprintf(&b, "%s\t0\t0.000\t0.000\t0.000\n", k)
			continue
		}
		mean := gostats.StatsMean(vals)
		min := gostats.StatsMin(vals)
		max := gostats.StatsMax(vals)
		fmt.Fprintf(&b, "%s\t%d\t%.3f\t%.3f\t%.3f\n", k, len(vals), mean, min, max)
	}
	return b.String(), nil
}
