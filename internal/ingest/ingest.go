// Package ingest reads raw manufacturer CSVs, normalizes each row, and
// loads the catalog. A row failure never aborts the batch: it lands in the
// report and processing continues.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shaftlab/shaftdb/internal/catalog"
	"github.com/shaftlab/shaftdb/internal/normalize"
	"github.com/shaftlab/shaftdb/internal/telemetry"
	"github.com/shaftlab/shaftdb/internal/types"
)

// headerAliases maps canonicalized CSV headers onto raw field names.
// Vendor sheets label the same column many ways; anything not listed here
// is ignored, never guessed.
var headerAliases = map[string]string{
	"manufacturer": types.FieldManufacturer,
	"maker":        types.FieldManufacturer,
	"brand":        types.FieldManufacturer,

	"model":   types.FieldModel,
	"shaft":   types.FieldModel,
	"name":    types.FieldModel,
	"product": types.FieldModel,

	"generation": types.FieldGeneration,
	"gen":        types.FieldGeneration,
	"version":    types.FieldGeneration,

	"club_type": types.FieldClubType,
	"club":      types.FieldClubType,

	"flex":      types.FieldFlex,
	"stiffness": types.FieldFlex,

	"weight_grams": types.FieldWeight,
	"weight":       types.FieldWeight,
	"wt":           types.FieldWeight,

	"torque_degrees": types.FieldTorque,
	"torque":         types.FieldTorque,

	"length_inches": types.FieldLength,
	"length":        types.FieldLength,
	"raw_length":    types.FieldLength,

	"kickpoint":  types.FieldKickpoint,
	"kick_point": types.FieldKickpoint,
	"bend_point": types.FieldKickpoint,

	"launch":         types.FieldLaunch,
	"launch_profile": types.FieldLaunch,

	"spin":         types.FieldSpin,
	"spin_profile": types.FieldSpin,

	"tip_stiffness": types.FieldTipStiffness,
	"tip_stiff":     types.FieldTipStiffness,
	"tip":           types.FieldTipStiffness,

	"butt_diameter_inches": types.FieldButtDiameter,
	"butt_diameter":        types.FieldButtDiameter,
	"butt":                 types.FieldButtDiameter,

	"tip_diameter_inches": types.FieldTipDiameter,
	"tip_diameter":        types.FieldTipDiameter,
	"tip_dia":             types.FieldTipDiameter,

	"material": types.FieldMaterial,

	"msrp_usd": types.FieldMSRP,
	"msrp":     types.FieldMSRP,
	"price":    types.FieldMSRP,
}

// requiredFields must all be present in a file's header before any row is
// processed.
var requiredFields = []string{
	types.FieldManufacturer,
	types.FieldModel,
	types.FieldClubType,
	types.FieldFlex,
	types.FieldWeight,
}

// Options control a batch run.
type Options struct {
	Replace  bool // route duplicate keys through Replace (corrections batch)
	Strict   bool // abort the batch on the first row failure
	DryRun   bool // normalize and report without touching the store
	Parallel int  // max files processed concurrently, min 1
}

// RowError records one failed row.
type RowError struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Err  error  `json:"-"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s line %d: %v", e.File, e.Line, e.Err)
}

// Report summarizes a batch run.
type Report struct {
	RowsSeen int        `json:"rowsSeen"`
	Ingested int        `json:"ingested"`
	Replaced int        `json:"replaced"`
	Failed   int        `json:"failed"`
	Failures []RowError `json:"failures,omitempty"`
}

func (r *Report) merge(other *Report) {
	r.RowsSeen += other.RowsSeen
	r.Ingested += other.Ingested
	r.Replaced += other.Replaced
	r.Failed += other.Failed
	r.Failures = append(r.Failures, other.Failures...)
}

func (r *Report) fail(file string, line int, err error) {
	r.Failed++
	r.Failures = append(r.Failures, RowError{File: file, Line: line, Err: err})
}

// Ingester runs raw CSVs through a normalizer into a store.
type Ingester struct {
	store   catalog.Store
	norm    *normalize.Normalizer
	logger  *zap.Logger
	metrics *telemetry.IngestMetrics
}

// New returns an Ingester. A nil logger disables logging.
func New(store catalog.Store, norm *normalize.Normalizer, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{
		store:   store,
		norm:    norm,
		logger:  logger,
		metrics: telemetry.NewIngestMetrics(),
	}
}

// Files ingests every path, fanning out over a bounded errgroup.
// Normalization runs concurrently; insertion serializes at the store's
// writer lock. Per-file reports merge in argument order, so the combined
// report is deterministic regardless of scheduling.
func (ing *Ingester) Files(ctx context.Context, paths []string, opts Options) (*Report, error) {
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}

	reports := make([]*Report, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Parallel)

	for i, path := range paths {
		eg.Go(func() error {
			file, err := os.Open(path) // #nosec G304 -- paths are operator-supplied CLI args
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer file.Close()

			report, err := ing.CSV(egCtx, path, file, opts)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := &Report{}
	for _, report := range reports {
		merged.merge(report)
	}
	return merged, nil
}

// CSV ingests one raw CSV stream. The header is canonicalized and mapped
// before any row is read; a header missing a required field fails fast.
func (ing *Ingester) CSV(ctx context.Context, file string, r io.Reader, opts Options) (*Report, error) {
	ctx, span := ing.metrics.StartFile(ctx, file)
	report, err := ing.ingestCSV(ctx, file, r, opts)
	ing.metrics.EndFile(span, err)
	return report, err
}

func (ing *Ingester) ingestCSV(ctx context.Context, file string, r io.Reader, opts Options) (*Report, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", file, err)
	}
	fields, err := ing.mapHeader(file, header)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		report.RowsSeen++
		if err != nil {
			ing.metrics.RecordFailure(ctx)
			report.fail(file, line, err)
			if opts.Strict {
				return report, RowError{File: file, Line: line, Err: err}
			}
			continue
		}

		raw := make(normalize.RawRecord, len(fields))
		for col, field := range fields {
			if col < len(record) && record[col] != "" {
				raw[field] = record[col]
			}
		}

		if err := ing.ingestRow(ctx, raw, report, opts); err != nil {
			ing.metrics.RecordFailure(ctx)
			report.fail(file, line, err)
			if opts.Strict {
				return report, RowError{File: file, Line: line, Err: err}
			}
		} else {
			ing.metrics.RecordRow(ctx)
		}
	}
	return report, nil
}

// mapHeader canonicalizes column names and resolves aliases. Unknown
// columns are ignored with a debug log; two columns mapping to the same
// field, or a missing required field, reject the file.
func (ing *Ingester) mapHeader(file string, header []string) (map[int]string, error) {
	fields := make(map[int]string, len(header))
	seen := make(map[string]string, len(header))

	for i, col := range header {
		canon := canonicalizeHeader(col)
		field, ok := headerAliases[canon]
		if !ok {
			ing.logger.Debug("ignoring unknown column",
				zap.String("file", file),
				zap.String("column", col))
			continue
		}
		if prev, dup := seen[field]; dup {
			return nil, fmt.Errorf("%s: columns %q and %q both map to %s", file, prev, col, field)
		}
		seen[field] = col
		fields[i] = field
	}

	for _, required := range requiredFields {
		if _, ok := seen[required]; !ok {
			return nil, fmt.Errorf("%s: header is missing required field %s", file, required)
		}
	}
	return fields, nil
}

func canonicalizeHeader(col string) string {
	canon := strings.ToLower(strings.TrimSpace(col))
	canon = strings.ReplaceAll(canon, " ", "_")
	canon = strings.ReplaceAll(canon, "-", "_")
	return canon
}

func (ing *Ingester) ingestRow(ctx context.Context, raw normalize.RawRecord, report *Report, opts Options) error {
	spec, err := ing.norm.Normalize(raw)
	if err != nil {
		return err
	}
	if opts.DryRun {
		report.Ingested++
		return nil
	}

	err = ing.store.Insert(ctx, spec)
	switch {
	case err == nil:
		report.Ingested++
		return nil
	case errors.Is(err, catalog.ErrDuplicateKey) && opts.Replace:
		if err := ing.store.Replace(ctx, spec); err != nil {
			return err
		}
		report.Replaced++
		return nil
	default:
		return err
	}
}
