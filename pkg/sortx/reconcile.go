package sortx

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ukaji3/sortx-go/pkg/sortx/models"
)

// Result is the outcome of a full reconciliation run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`
	// Sheet is the selected worksheet as given by the caller.
	Sheet string `json:"sheet"`
	// Saved reports whether the workbook was written.
	Saved bool `json:"saved"`
	// Summary describes the matching pass.
	Summary models.Summary `json:"summary"`
	// Table is the table after matching.
	Table *models.Table `json:"table"`
}

// Reconciler runs the load, match and save steps for one configuration.
// Steps must run in order; Match and Save fail with a StateError otherwise.
type Reconciler struct {
	cfg     Config
	opts    Options
	log     zerolog.Logger
	runID   string
	loader  *TableLoader
	matcher *FolderMatcher
	writer  *TableWriter

	table   *models.Table
	summary models.Summary
}

// NewReconciler creates a reconciler. The header row must be 1 or greater.
func NewReconciler(cfg Config, opts Options) (*Reconciler, error) {
	opts = opts.withDefaults()
	if _, err := cfg.HeaderOffset(); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"header_row": err.Error()}}
	}
	if cfg.Sheet.Name == "" {
		if _, err := ToZeroBased(cfg.Sheet.Index); err != nil {
			return nil, &ValidationError{Fields: map[string]string{"sheet_name": err.Error()}}
		}
	}

	runID := uuid.NewString()
	logger := opts.Logger.With().Str("run_id", runID).Logger()
	opts.Logger = &logger

	return &Reconciler{
		cfg:     cfg,
		opts:    opts,
		log:     logger,
		runID:   runID,
		loader:  NewTableLoader(logger),
		matcher: NewFolderMatcher(opts),
		writer:  NewTableWriter(opts),
	}, nil
}

// Load reads the needlist table and checks that the identifier column exists.
func (r *Reconciler) Load() error {
	headerIdx, _ := r.cfg.HeaderOffset()
	table, err := r.loader.Load(r.cfg.ExcelPath, r.cfg.Sheet, headerIdx)
	if err != nil {
		return err
	}
	if !table.HasColumn(r.cfg.ColumnName) {
		r.log.Error().Str("column", r.cfg.ColumnName).Strs("columns", table.Columns).Msg("Identifier column missing")
		return &ConfigurationError{Field: "column_name", Value: r.cfg.ColumnName, Message: "column not found in sheet header"}
	}
	r.table = table
	r.summary = models.Summary{}
	return nil
}

// Match scans the folder tree and marks matching rows.
func (r *Reconciler) Match() (models.Summary, error) {
	if r.table == nil {
		r.log.Error().Msg("Match called before Load")
		return models.Summary{}, &StateError{Message: "table not initialized"}
	}
	summary, err := r.matcher.Match(r.table, r.cfg)
	if err != nil {
		return summary, err
	}
	r.summary = summary
	return summary, nil
}

// Save writes the table back into the workbook.
func (r *Reconciler) Save() error {
	if r.table == nil {
		r.log.Error().Msg("Save called before Load")
		return &StateError{Message: "table not initialized"}
	}
	return r.writer.Save(r.table, r.cfg)
}

// Table returns the loaded table, or nil before Load.
func (r *Reconciler) Table() *models.Table {
	return r.table
}

// Result returns the run outcome so far.
func (r *Reconciler) Result(saved bool) *Result {
	return &Result{
		RunID:   r.runID,
		Sheet:   r.cfg.Sheet.String(),
		Saved:   saved,
		Summary: r.summary,
		Table:   r.table,
	}
}

// Run loads, matches and saves in one call. Nothing is written when any
// earlier step fails or when opts.DryRun is set.
func Run(cfg Config, opts Options) (*Result, error) {
	r, err := NewReconciler(cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := r.Load(); err != nil {
		return nil, err
	}
	if _, err := r.Match(); err != nil {
		return r.Result(false), err
	}
	if r.opts.DryRun {
		r.log.Info().Msg("Dry run, workbook not written")
		return r.Result(false), nil
	}
	if err := r.Save(); err != nil {
		return r.Result(false), err
	}
	return r.Result(true), nil
}
