package aggregator

import (
	"time"

	"github.com/cor0nius/saltyocean/internal/buoy"
	"github.com/cor0nius/saltyocean/internal/catalogue"
	"github.com/cor0nius/saltyocean/internal/forecast"
)

// composeObservation converts a buoy.Observation into its presentation
// view. Pure: the same input always produces an equal output.
func composeObservation(obs buoy.Observation) *ObservationView {
	v := &ObservationView{
		Time:                  obs.Time,
		WindDirDeg:            normalizeDegPtr(obs.Wind.DirDeg),
		WindSpeedMPH:          msToMphPtr(obs.Wind.SpeedMS),
		WindGustMPH:           msToMphPtr(obs.Wind.GustMS),
		WaveHeightFT:          metersToFeetPtr(obs.Wave.HeightM),
		WaveDominantPeriodSec: obs.Wave.DominantPeriodSec,
		WaveAveragePeriodSec:  obs.Wave.AveragePeriodSec,
		WaveDirDeg:            normalizeDegPtr(obs.Wave.DirDeg),
		PressureHPA:           obs.Atmosphere.PressureHPA,
		AirTempC:              obs.Atmosphere.AirTempC,
		WaterTempC:            obs.Atmosphere.WaterTempC,
		DewPointC:             obs.Atmosphere.DewPointC,
		Trend:                 obs.Trend,
		Beaufort:              obs.Beaufort,
		DominantPartition:     obs.DominantPartition,
	}
	if obs.Wave.Swell != nil {
		v.Swell = composeSwellComponent(*obs.Wave.Swell)
	}
	if obs.Wave.WindWave != nil {
		v.WindWave = composeSwellComponent(*obs.Wave.WindWave)
	}
	return v
}

func composeSwellComponent(s buoy.SwellComponent) *SwellView {
	return &SwellView{
		HeightFT:  metersToFeetPtr(s.HeightM),
		PeriodSec: s.PeriodSec,
		DirDeg:    normalizeDegPtr(s.DirDeg),
		Steepness: s.Steepness,
	}
}

// composeForecast converts a forecast.Forecast into its presentation
// view. Pure.
func composeForecast(fc forecast.Forecast) *ForecastView {
	periods := make([]PeriodView, len(fc.Periods))
	for i, p := range fc.Periods {
		periods[i] = composePeriod(p)
	}
	return &ForecastView{
		ModelName:   fc.ModelName,
		GeneratedAt: fc.GeneratedAt,
		Periods:     periods,
	}
}

func composePeriod(p forecast.Period) PeriodView {
	v := PeriodView{
		Time:          p.Time,
		WaveHeightFT:  p.WaveHeightM * metersToFeet,
		WavePeriodSec: p.WavePeriodSec,
		WaveDirDeg:    normalizeDeg(p.WaveDirDeg),
		WindSpeedMPH:  p.WindSpeedMS * msToMph,
		WindDirDeg:    normalizeDeg(p.WindDirDeg),
		WindU:         p.WindU,
		WindV:         p.WindV,
	}
	if p.WindWave != nil {
		v.WindWave = composeSwellPartition(*p.WindWave)
	}
	for _, s := range p.Swells {
		sv := composeSwellPartition(s)
		v.Swells = append(v.Swells, *sv)
	}
	return v
}

func composeSwellPartition(s forecast.SwellPartition) *SwellView {
	height := s.HeightM * metersToFeet
	period := s.PeriodSec
	dir := normalizeDeg(s.DirDeg)
	return &SwellView{HeightFT: &height, PeriodSec: &period, DirDeg: &dir}
}

// compose assembles the final Envelope from a Station header, an
// observation (always present — the aggregator never calls compose
// without one), and an optional forecast view (nil for out-of-grid
// stations). Pure given its inputs and the generated timestamp.
func compose(station catalogue.Station, obs buoy.Observation, fcView *ForecastView, generated time.Time) Envelope {
	return Envelope{
		StationID:   station.ID,
		StationName: station.Name,
		Generated:   generated,
		Observation: composeObservation(obs),
		Forecast:    fcView,
		Units:       FixedUnits,
	}
}
