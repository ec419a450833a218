// Package dataset reads the static record files the system is populated from
// and converts them to storage rows. It backs both the in-memory store and the
// relational population step.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sigesalud/dashboard/internal/domain/roster"
)

// ErrMalformed marks a source file whose content cannot be decoded. Missing
// files degrade to empty collections; malformed ones stop the load.
var ErrMalformed = errors.New("malformed dataset file")

var bom = []byte{0xEF, 0xBB, 0xBF}

// Static file base names.
const (
	FacilitiesFile     = "facilities.full"
	PatientsFile       = "patients"
	VisitsFile         = "visits_2025"
	AlertsFile         = "alerts.generated"
	StockCatalogFile   = "stock.catalog"
	StockLevelsFile    = "stock_levels_monthly_2025"
	QuotasFile         = "staff_assignments"
	EpiFile            = "epi_weekly_2025"
	RegionsFile        = "geo.regions"
	ProvincesFile      = "geo.provinces"
	DistrictsFile      = "geo.districts"
	MunicipalitiesFile = "geo.municipalities"
	DiseasesFile       = "diseases.catalog"
	LabSummaryFile     = "lab.summary"
	LabDiseaseFile     = "lab.disease"
	LabAlertsFile      = "lab.alerts"
)

var extensions = []string{".json", ".yaml", ".yml"}

// Loader reads a dataset from a data directory and an HR directory.
type Loader struct {
	dir    string
	hrDir  string
	logger zerolog.Logger
}

// NewLoader creates a loader. An empty hrDir means <dir>/hr.
func NewLoader(dir, hrDir string, logger zerolog.Logger) *Loader {
	if hrDir == "" {
		hrDir = filepath.Join(dir, "hr")
	}
	return &Loader{dir: dir, hrDir: hrDir, logger: logger}
}

type job struct {
	dir  string
	base string
	run  func(data []byte) error
}

func collect[T any](dst *[]T, key string) func([]byte) error {
	return func(data []byte) error {
		out, err := decodeCollection[T](data, key)
		if err != nil {
			return err
		}
		*dst = out
		return nil
	}
}

// Load reads every collection concurrently.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}
	jobs := []job{
		{l.dir, FacilitiesFile, collect(&ds.Facilities, "facilities")},
		{l.dir, PatientsFile, collect(&ds.Patients, "patients")},
		{l.dir, VisitsFile, collect(&ds.Visits, "visits")},
		{l.dir, AlertsFile, collect(&ds.Alerts, "alerts")},
		{l.dir, StockCatalogFile, collect(&ds.StockCatalog, "items")},
		{l.dir, StockLevelsFile, collect(&ds.StockLevels, "records")},
		{l.dir, QuotasFile, collect(&ds.Quotas, "records")},
		{l.dir, EpiFile, collect(&ds.Epi, "records")},
		{l.dir, RegionsFile, collect(&ds.Regions, "regions")},
		{l.dir, ProvincesFile, collect(&ds.Provinces, "provinces")},
		{l.dir, DistrictsFile, collect(&ds.Districts, "districts")},
		{l.dir, MunicipalitiesFile, collect(&ds.Municipalities, "municipalities")},
		{l.dir, DiseasesFile, collect(&ds.Diseases, "diseases")},
		{l.dir, LabSummaryFile, collect(&ds.LabSummary, "records")},
		{l.dir, LabDiseaseFile, collect(&ds.LabIndicators, "records")},
		{l.dir, LabAlertsFile, collect(&ds.LabAlerts, "alerts")},
		{l.hrDir, trimExt(roster.WorkersFile), collect(&ds.Workers, "workers")},
		{l.hrDir, trimExt(roster.AssignmentsFile), collect(&ds.Assignments, "assignments")},
		{l.hrDir, trimExt(roster.HistoryFile), collect(&ds.History, "history")},
		{l.hrDir, trimExt(roster.CredentialsFile), collect(&ds.Credentials, "credentials")},
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return l.run(j)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info().
		Int("facilities", len(ds.Facilities)).
		Int("patients", len(ds.Patients)).
		Int("visits", len(ds.Visits)).
		Int("workers", len(ds.Workers)).
		Msg("dataset loaded")
	return ds, nil
}

// Facilities reads only the facility collection.
func (l *Loader) Facilities() ([]Facility, error) {
	var out []Facility
	err := l.run(job{l.dir, FacilitiesFile, collect(&out, "facilities")})
	return out, err
}

func (l *Loader) run(j job) error {
	path, data, err := readFirst(j.dir, j.base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn().Str("file", filepath.Join(j.dir, j.base)).Msg("dataset file missing, using empty collection")
		} else {
			l.logger.Warn().Err(err).Str("file", path).Msg("dataset file unreadable, using empty collection")
		}
		return nil
	}
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
		}
	}
	if err := j.run(data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return nil
}

func readFirst(dir, base string) (string, []byte, error) {
	for _, ext := range extensions {
		path := filepath.Join(dir, base+ext)
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return path, nil, err
		}
	}
	return "", nil, fs.ErrNotExist
}

// decodeCollection accepts a bare array or an object wrapping the array under
// key (or "records").
func decodeCollection[T any](data []byte, key string) ([]T, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, bom))
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var out []T
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	raw, ok := envelope[key]
	if !ok {
		raw, ok = envelope["records"]
	}
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
