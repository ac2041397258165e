package driver

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spatialmodel/oilpalm/crop"
	"github.com/spatialmodel/oilpalm/internal/auxpath"
	"github.com/spatialmodel/oilpalm/internal/simerr"
)

// outputColumns is the fixed header for the daily run output: DOY, the
// driving weather, daily ET components, canopy assimilation, the
// surface layer's water content, crop weights, bunch yield, height and
// LAI.
var outputColumns = []string{
	"year", "doy",
	"tmin", "tmax", "rain", "windmean",
	"et_total_mm", "sensible_mj",
	"daily_assim",
	"surface_vwc", "root_zone_current", "deep_drainage_mm", "runoff_mm",
	"vdm", "tdm", "bunchyield", "treeheight", "lai",
}

// Outputter writes one CSV header row followed by one row per simulated
// day, mirroring the teacher's file-backed output writer pattern but
// fixed to this model's column set rather than a user-selected
// expression set (that is AuxWriter's job).
type Outputter struct {
	f *os.File
	w *csv.Writer
}

// NewOutputter creates (or truncates) the file at path and writes the
// header row.
func NewOutputter(path string) (*Outputter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, simerr.NewInput("creating output file "+path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(outputColumns); err != nil {
		f.Close()
		return nil, simerr.NewInput("writing output header", err)
	}
	return &Outputter{f: f, w: w}, nil
}

// WriteDay appends one row summarizing the Sim's state after a stepDay.
func (o *Outputter) WriteDay(s *Sim) error {
	surfaceVWC := 0.0
	if l, ok := s.Soil.Layer(0); ok {
		surfaceVWC = l.VWC
	}
	row := []string{
		fmt.Sprintf("%d", s.Meteo.Year),
		fmt.Sprintf("%d", s.Meteo.DOY),
		fmt.Sprintf("%.3f", s.Meteo.Tmin),
		fmt.Sprintf("%.3f", s.Meteo.Tmax),
		fmt.Sprintf("%.3f", s.Meteo.Rain),
		fmt.Sprintf("%.3f", s.Meteo.WindMean),
		fmt.Sprintf("%.4f", s.DailyLatentMM),
		fmt.Sprintf("%.4f", s.DailySensibleMJ),
		fmt.Sprintf("%.6f", s.DailyAssim),
		fmt.Sprintf("%.4f", surfaceVWC),
		fmt.Sprintf("%.4f", s.Soil.RootZone.Current),
		fmt.Sprintf("%.4f", s.Soil.DeepDrainage),
		fmt.Sprintf("%.4f", s.Soil.Runoff),
		fmt.Sprintf("%.4f", s.Crop.VDM),
		fmt.Sprintf("%.4f", s.Crop.TDM),
		fmt.Sprintf("%.4f", s.Crop.BunchYield),
		fmt.Sprintf("%.4f", s.Crop.TreeHeight),
		fmt.Sprintf("%.4f", s.Crop.LAI),
	}
	if err := o.w.Write(row); err != nil {
		return simerr.NewInput("writing output row", err)
	}
	o.w.Flush()
	return o.w.Error()
}

// Close flushes and closes the underlying file.
func (o *Outputter) Close() error {
	o.w.Flush()
	if err := o.w.Error(); err != nil {
		o.f.Close()
		return err
	}
	return o.f.Close()
}

// hourlyOutputColumns is the fixed header for the hourly, per-quadrature-
// node output: the driving instant, canopy temperature, and the
// instantaneous fluxes the joint energy/photosynthesis loop evaluates at
// that node.
var hourlyOutputColumns = []string{
	"year", "doy", "hour",
	"canopytemp", "latent_w", "sensible_w", "inst_assim",
}

// HourlyOutputter writes one row per Gauss-Legendre quadrature node
// evaluated within a simulated day, rather than one row per day. It is
// the hourly-resolution counterpart to Outputter, written alongside it
// when a run asks for sub-daily output.
type HourlyOutputter struct {
	f *os.File
	w *csv.Writer
}

// NewHourlyOutputter creates (or truncates) the file at path and writes
// the header row.
func NewHourlyOutputter(path string) (*HourlyOutputter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, simerr.NewInput("creating hourly output file "+path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(hourlyOutputColumns); err != nil {
		f.Close()
		return nil, simerr.NewInput("writing hourly output header", err)
	}
	return &HourlyOutputter{f: f, w: w}, nil
}

// WriteHour appends one row for a single quadrature node, using s's
// state as of the most recent energy/photosynthesis Step call.
func (o *HourlyOutputter) WriteHour(s *Sim, hour float64) error {
	row := []string{
		fmt.Sprintf("%d", s.Meteo.Year),
		fmt.Sprintf("%d", s.Meteo.DOY),
		fmt.Sprintf("%.4f", hour),
		fmt.Sprintf("%.4f", s.Energy.CanopyTemp),
		fmt.Sprintf("%.4f", s.Energy.Latent.Total),
		fmt.Sprintf("%.4f", s.Energy.Sensible.Total),
		fmt.Sprintf("%.6f", s.Photo.InstCanopyAssim),
	}
	if err := o.w.Write(row); err != nil {
		return simerr.NewInput("writing hourly output row", err)
	}
	o.w.Flush()
	return o.w.Error()
}

// Close flushes and closes the underlying file.
func (o *HourlyOutputter) Close() error {
	o.w.Flush()
	if err := o.w.Error(); err != nil {
		o.f.Close()
		return err
	}
	return o.f.Close()
}

// AuxWriter writes a user-selected subset of arbitrary component
// attributes, resolved once per day by flattened variable name (see
// auxSnapshot) through an internal/auxpath.Registry.
type AuxWriter struct {
	f        *os.File
	w        *csv.Writer
	registry *auxpath.Registry
}

// NewAuxWriter creates (or truncates) the file at path, compiles exprs
// through auxpath.NewRegistry, and writes the header row.
func NewAuxWriter(path string, exprs []string) (*AuxWriter, error) {
	registry, err := auxpath.NewRegistry(exprs)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, simerr.NewInput("creating auxiliary output file "+path, err)
	}
	w := csv.NewWriter(f)
	header := append([]string{"year", "doy"}, registry.Paths()...)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, simerr.NewInput("writing auxiliary output header", err)
	}
	return &AuxWriter{f: f, w: w, registry: registry}, nil
}

// WriteDay resolves every registered path against a fresh snapshot of
// s's state and appends one row.
func (a *AuxWriter) WriteDay(s *Sim) error {
	snapshot := auxSnapshot(s)
	values, err := a.registry.Evaluate(snapshot)
	if err != nil {
		return err
	}
	row := make([]string, 0, len(values)+2)
	row = append(row, fmt.Sprintf("%d", s.Meteo.Year), fmt.Sprintf("%d", s.Meteo.DOY))
	for _, v := range values {
		row = append(row, fmt.Sprintf("%v", v))
	}
	if err := a.w.Write(row); err != nil {
		return simerr.NewInput("writing auxiliary output row", err)
	}
	a.w.Flush()
	return a.w.Error()
}

// Close flushes and closes the underlying file.
func (a *AuxWriter) Close() error {
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		a.f.Close()
		return err
	}
	return a.f.Close()
}

// auxSnapshot flattens the quantities an auxiliary path expression may
// reference into a single variable map. Layer-indexed quantities are
// exposed as layer0_vwc, layer0_influx, etc., since govaluate resolves
// plain identifiers rather than bracket/dot accessors at evaluation
// time; NewRegistry accepts any such identifier as a path.
func auxSnapshot(s *Sim) map[string]interface{} {
	snap := map[string]interface{}{
		"trunk_maint":   s.Crop.Parts[crop.Trunk].Maint,
		"trunk_growth":  s.Crop.Parts[crop.Trunk].Growth,
		"trunk_weight":  s.Crop.Parts[crop.Trunk].Weight,
		"pinnae_weight": s.Crop.Parts[crop.Pinnae].Weight,
		"bunchyield":    s.Crop.BunchYield,
		"canopytemp":    s.Energy.CanopyTemp,
		"et_crop":       s.Energy.Latent.Crop,
		"et_soil":       s.Energy.Latent.Soil,
		"lai":           s.Crop.LAI,
	}
	for i := 0; i < s.Soil.NumLayers(); i++ {
		l, _ := s.Soil.Layer(i)
		snap[fmt.Sprintf("layer%d_vwc", i)] = l.VWC
		snap[fmt.Sprintf("layer%d_influx", i)] = l.Fluxes.Influx
		snap[fmt.Sprintf("layer%d_outflux", i)] = l.Fluxes.Outflux
		snap[fmt.Sprintf("layer%d_t", i)] = l.Fluxes.T
	}
	return snap
}
