package reports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidReportType = errors.New("Invalid report type")
	ErrNotImplemented    = errors.New("Report not implemented")
)

// ReportData is the uniform envelope every calculator result is wrapped in.
// GeneratedAt is the wall-clock time of assembly, not a data snapshot time.
type ReportData struct {
	Type        string      `json:"type"`
	GeneratedAt time.Time   `json:"generatedAt"`
	DateRange   *DateRange  `json:"dateRange,omitempty"`
	Data        interface{} `json:"data"`
	Summary     interface{} `json:"summary"`
}

// Calculator computes one report: (store, org scope, filters) -> (data, summary).
// Calculators never mutate inputs and must return empty collections with zeroed
// summaries on empty datasets.
type Calculator func(ctx context.Context, store *Store, orgID uuid.UUID, f Filters) (data, summary interface{}, err error)

// Engine dispatches report types to calculators and assembles envelopes.
type Engine struct {
	Store *Store

	// calculators maps canonical catalog types; quick maps the dashboard's
	// short-path types. Explicit tables, no switch: a type present in the
	// catalog but missing here surfaces as ErrNotImplemented (501), which is
	// how clients tell "not ready" from "doesn't exist".
	calculators map[string]Calculator
	quick       map[string]Calculator
}

func NewEngine(store *Store) *Engine {
	e := &Engine{Store: store}
	e.calculators = map[string]Calculator{
		TypeBalanceSheet:        BalanceSheet,
		TypeProfitLoss:          ProfitLoss,
		TypeCashFlow:            CashFlow,
		TypeOwnerStatement:      OwnerStatement,
		TypeRentRoll:            RentRoll,
		TypePropertyPerformance: PropertyPerformance,
		TypeVacancy:             Vacancy,
		TypeAgingReport:         Aging,
		TypeSecurityDeposit:     SecurityDeposit,
		TypeTenantLedger:        TenantLedger,
		TypeTax1099:             Tax1099,
		TypeExpenseReport:       ExpenseReport,
		TypeDepreciation:        Depreciation,
	}
	e.quick = map[string]Calculator{
		TypeOverview:    Overview,
		TypeRentRoll:    RentRoll,
		TypeIncome:      Income,
		TypeDelinquency: Aging,
		TypeVacancy:     Vacancy,
		TypeMaintenance: Maintenance,
	}
	return e
}

// Generate runs a canonical catalog report. Unknown type -> ErrInvalidReportType;
// known but unwired -> ErrNotImplemented.
func (e *Engine) Generate(ctx context.Context, reportType string, orgID uuid.UUID, f Filters) (*ReportData, error) {
	if GetDefinition(reportType) == nil {
		return nil, ErrInvalidReportType
	}
	calc, ok := e.calculators[reportType]
	if !ok {
		return nil, ErrNotImplemented
	}
	return e.run(ctx, reportType, calc, orgID, f, true)
}

// GenerateQuick runs one of the dashboard quick reports.
func (e *Engine) GenerateQuick(ctx context.Context, reportType string, orgID uuid.UUID, f Filters) (*ReportData, error) {
	calc, ok := e.quick[reportType]
	if !ok {
		return nil, ErrInvalidReportType
	}
	// Snapshot-style quick reports carry no date range unless one was given.
	withRange := reportType == TypeIncome || reportType == TypeMaintenance
	return e.run(ctx, reportType, calc, orgID, f, withRange)
}

func (e *Engine) run(ctx context.Context, reportType string, calc Calculator, orgID uuid.UUID, f Filters, withRange bool) (*ReportData, error) {
	data, summary, err := calc(ctx, e.Store, orgID, f)
	if err != nil {
		return nil, err
	}
	report := &ReportData{
		Type:        reportType,
		GeneratedAt: time.Now().UTC(),
		Data:        data,
		Summary:     summary,
	}
	if withRange {
		rng := f.Range
		report.DateRange = &rng
	}
	return report, nil
}
