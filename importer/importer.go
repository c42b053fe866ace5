package importer

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"orgmanager-backend/dtos"

	"gorm.io/gorm"
)

// Config tunes the remote API source.
type Config struct {
	APITimeout            time.Duration
	AllowPrivateEndpoints bool
	HTTPClient            *http.Client
}

// Importer selects a source for each run, feeds its records to the
// processor and records the result in the history store.
type Importer struct {
	processor *Processor
	history   HistoryStore
	api       *apiSource
	now       func() time.Time
}

func New(db *gorm.DB, history HistoryStore, cfg Config) *Importer {
	if history == nil {
		history = NewMemoryHistory(500)
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = 30 * time.Second
	}
	return &Importer{
		processor: NewProcessor(db),
		history:   history,
		api:       newAPISource(cfg.HTTPClient, cfg.APITimeout, cfg.AllowPrivateEndpoints),
		now:       time.Now,
	}
}

// Resolve picks the source for opts and the method label used in history.
// It performs no I/O.
func (im *Importer) Resolve(opts Options) (Source, string, error) {
	switch {
	case opts.FilePath != "":
		format := opts.Format
		if format == "" {
			f, err := FormatFromPath(opts.FilePath)
			if err != nil {
				return nil, "", err
			}
			format = f
		}
		switch format {
		case FormatCSV:
			return csvSource{}, MethodUploadCSV, nil
		case FormatXLSX, FormatXLS:
			return excelSource{format: format}, MethodUploadExcel, nil
		case FormatJSON:
			return jsonFileSource{}, MethodUploadJSON, nil
		default:
			return nil, "", &ConfigError{Msg: fmt.Sprintf("unsupported format: %s", format), Err: ErrUnsupportedFormat}
		}
	case opts.APIEndpoint != "":
		return im.api, MethodAPI, nil
	case opts.JSONData != "":
		return jsonDataSource{}, MethodJSON, nil
	default:
		return nil, "", &ConfigError{Err: ErrNoSource}
	}
}

// Import runs one import on behalf of userID. Source and configuration errors
// abort the run and are returned; row failures are reported in the result.
func (im *Importer) Import(ctx context.Context, opts Options, userID uint) (*dtos.ImportResult, error) {
	entity, err := ParseEntityType(string(opts.Type))
	if err != nil {
		return nil, err
	}
	src, method, err := im.Resolve(opts)
	if err != nil {
		log.Printf("[import] rejected %s import: %v", entity, err)
		return nil, err
	}

	start := time.Now()
	log.Printf("[import] %s import of %s started by user %d (validateOnly=%t)", method, entity, userID, opts.ValidateOnly)

	records, err := src.Load(ctx, opts)
	if err != nil {
		log.Printf("[import] %s import of %s failed: %v", method, entity, err)
		observeRun(entity, method, "failed", 0)
		return nil, err
	}

	result := &dtos.ImportResult{
		TotalRecords: len(records),
		Errors:       []dtos.ImportIssue{},
		Warnings:     []dtos.ImportIssue{},
		Type:         string(entity),
		ValidateOnly: opts.ValidateOnly,
	}

	if opts.ValidateOnly {
		if opts.Progress != nil {
			opts.Progress(len(records), len(records))
		}
	} else {
		out, err := im.processor.ProcessEntities(ctx, entity, records, opts.Progress)
		observeRows(entity, out)
		if err != nil {
			log.Printf("[import] %s import of %s aborted: %v", method, entity, err)
			observeRun(entity, method, "failed", 0)
			return nil, err
		}
		result.SuccessCount = out.Success
		result.ErrorCount = out.Error
		result.Errors = out.Errors
		result.Warnings = out.Warnings
	}

	elapsed := time.Since(start)
	result.ElapsedTime = elapsed.Milliseconds()

	entry := dtos.ImportHistoryEntry{
		ImportResult: *result,
		Date:         im.now(),
		UserID:       userID,
		Method:       method,
	}
	entry.Errors = slices.Clone(result.Errors)
	entry.Warnings = slices.Clone(result.Warnings)
	if err := im.history.Append(ctx, entry); err != nil {
		log.Printf("[import] failed to record history: %v", err)
	}

	outcome := "completed"
	if opts.ValidateOnly {
		outcome = "validated"
	}
	observeRun(entity, method, outcome, elapsed.Seconds())
	log.Printf("[import] %s import of %s finished in %s: %d total, %d ok, %d failed",
		method, entity, elapsed.Round(time.Millisecond), result.TotalRecords, result.SuccessCount, result.ErrorCount)

	return result, nil
}

// History returns every recorded run, oldest first.
func (im *Importer) History(ctx context.Context) ([]dtos.ImportHistoryEntry, error) {
	return im.history.List(ctx)
}
