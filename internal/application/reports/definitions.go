package reports

// Canonical report types served by GET /api/reports/:type.
const (
	TypeBalanceSheet        = "balance-sheet"
	TypeProfitLoss          = "profit-loss"
	TypeCashFlow            = "cash-flow"
	TypeOwnerStatement      = "owner-statement"
	TypeRentRoll            = "rent-roll"
	TypePropertyPerformance = "property-performance"
	TypeVacancy             = "vacancy"
	TypeAgingReport         = "aging-report"
	TypeSecurityDeposit     = "security-deposit"
	TypeTenantLedger        = "tenant-ledger"
	TypeTax1099             = "tax-1099"
	TypeExpenseReport       = "expense-report"
	TypeDepreciation        = "depreciation"
)

// Quick report types served by GET /api/reports?type=.
const (
	TypeOverview    = "overview"
	TypeIncome      = "income"
	TypeDelinquency = "delinquency"
	TypeMaintenance = "maintenance"
)

// Report categories.
const (
	CategoryFinancial = "Financial"
	CategoryProperty  = "Property"
	CategoryTenant    = "Tenant"
	CategoryTax       = "Tax"
)

// Definition is the static metadata for one report type.
type Definition struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Filters     []string `json:"filters"`
}

// ListItem is a Definition merged with the caller's favorite flag.
type ListItem struct {
	Definition
	IsFavorite bool `json:"is_favorite"`
}

// Category groups member reports for the discovery listing.
type Category struct {
	Name    string     `json:"name"`
	Reports []ListItem `json:"reports"`
}

var periodFilters = []string{"period", "startDate", "endDate", "propertyId"}
var accountingFilters = []string{"period", "startDate", "endDate", "accountingMethod", "propertyId"}
var snapshotFilters = []string{"propertyId"}

// definitions is the static catalog. Order here is the display order.
var definitions = []Definition{
	{Type: TypeBalanceSheet, Name: "Balance Sheet", Description: "Assets, liabilities and equity as of the period end", Category: CategoryFinancial, Filters: accountingFilters},
	{Type: TypeProfitLoss, Name: "Profit & Loss", Description: "Income and expenses over the period", Category: CategoryFinancial, Filters: accountingFilters},
	{Type: TypeCashFlow, Name: "Cash Flow", Description: "Monthly cash in and out with running net", Category: CategoryFinancial, Filters: periodFilters},
	{Type: TypeOwnerStatement, Name: "Owner Statement", Description: "Per-property income, expenses and net for owners", Category: CategoryFinancial, Filters: periodFilters},
	{Type: TypeRentRoll, Name: "Rent Roll", Description: "Active leases with rent and outstanding balance", Category: CategoryProperty, Filters: snapshotFilters},
	{Type: TypePropertyPerformance, Name: "Property Performance", Description: "Occupancy, collection rate and NOI per property", Category: CategoryProperty, Filters: periodFilters},
	{Type: TypeVacancy, Name: "Vacancy", Description: "Vacant units with days vacant and rent at risk", Category: CategoryProperty, Filters: snapshotFilters},
	{Type: TypeAgingReport, Name: "Aging / Delinquency", Description: "Overdue charges bucketed by days past due", Category: CategoryTenant, Filters: snapshotFilters},
	{Type: TypeSecurityDeposit, Name: "Security Deposits", Description: "Deposits held per lease and total liability", Category: CategoryTenant, Filters: snapshotFilters},
	{Type: TypeTenantLedger, Name: "Tenant Ledger", Description: "Chronological charges and payments with running balance", Category: CategoryTenant, Filters: periodFilters},
	{Type: TypeTax1099, Name: "1099 Vendor Payments", Description: "Vendors paid $600 or more in the tax year", Category: CategoryTax, Filters: periodFilters},
	{Type: TypeExpenseReport, Name: "Expense Report", Description: "Maintenance spend by category, property and month", Category: CategoryTax, Filters: periodFilters},
	{Type: TypeDepreciation, Name: "Depreciation", Description: "Straight-line 27.5-year schedule per property", Category: CategoryTax, Filters: snapshotFilters},
}

var definitionIndex = buildDefinitionIndex()

func buildDefinitionIndex() map[string]Definition {
	idx := make(map[string]Definition, len(definitions))
	for _, d := range definitions {
		idx[d.Type] = d
	}
	return idx
}

// GetDefinition returns the catalog entry for a report type, or nil for
// unknown types. Callers map nil to a 400, never a crash.
func GetDefinition(reportType string) *Definition {
	if d, ok := definitionIndex[reportType]; ok {
		return &d
	}
	return nil
}

// Definitions returns the full catalog in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Categories groups the catalog by category, marking the caller's favorites.
// favorites may be nil (favorites read failed or user has none).
func Categories(favorites []string) []Category {
	favSet := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		favSet[f] = true
	}
	order := []string{CategoryFinancial, CategoryProperty, CategoryTenant, CategoryTax}
	byName := make(map[string]*Category, len(order))
	out := make([]Category, 0, len(order))
	for _, name := range order {
		out = append(out, Category{Name: name})
	}
	for i := range out {
		byName[out[i].Name] = &out[i]
	}
	for _, d := range definitions {
		cat := byName[d.Category]
		cat.Reports = append(cat.Reports, ListItem{Definition: d, IsFavorite: favSet[d.Type]})
	}
	return out
}

// ListItems flattens the catalog with favorite flags, favorites first.
func ListItems(favorites []string) []ListItem {
	favSet := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		favSet[f] = true
	}
	items := make([]ListItem, 0, len(definitions))
	for _, d := range definitions {
		if favSet[d.Type] {
			items = append(items, ListItem{Definition: d, IsFavorite: true})
		}
	}
	for _, d := range definitions {
		if !favSet[d.Type] {
			items = append(items, ListItem{Definition: d, IsFavorite: false})
		}
	}
	return items
}
