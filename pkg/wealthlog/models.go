package wealthlog

// Currencies lists supported currencies. CNY is the reporting base.
var Currencies = []string{"CNY", "USD", "HKD"}

// Categories lists supported holding categories.
var Categories = []string{
	"fixed_income",
	"bank_deposit",
	"fund",
	"stock",
	"cash",
	"other",
}

// CategoryLabels maps category codes to display labels.
var CategoryLabels = map[string]string{
	"fixed_income": "固定收益",
	"bank_deposit": "银行存款",
	"fund":         "基金",
	"stock":        "股票",
	"cash":         "现金",
	"other":        "其他",
}

// Behavior values. A FIXED holding earns rate-driven interest while a
// FLOATING holding tracks market value through its transactions.
const (
	BehaviorFixed    = "FIXED"
	BehaviorFloating = "FLOATING"
)

var Behaviors = []string{BehaviorFixed, BehaviorFloating}

// Transaction types.
const (
	TxBuy      = "BUY"
	TxSell     = "SELL"
	TxDividend = "DIVIDEND"
	TxInterest = "INTEREST"
	TxFee      = "FEE"
	TxTax      = "TAX"
)

var TransactionTypes = []string{TxBuy, TxSell, TxDividend, TxInterest, TxFee, TxTax}

// DefaultDayCountBasis is the divisor used to annualize interest when a
// holding does not specify its own.
const DefaultDayCountBasis = 365

// Holding represents one tracked investment position.
//
// Principal, Quantity, TotalCost and RealizedProfit are derived columns:
// they are recomputed by replaying the transaction log on every read and
// are never trusted as stored truth.
type Holding struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Behavior      string   `json:"behavior"`
	Currency      string   `json:"currency"`
	DepositDate   string   `json:"deposit_date"`
	MaturityDate  *string  `json:"maturity_date"`
	WithdrawDate  *string  `json:"withdraw_date"`
	AnnualRate    *float64 `json:"annual_rate"`
	Basis         int      `json:"basis"`
	Rebate        float64  `json:"rebate"`
	RebateGot     bool     `json:"rebate_received"`
	CurrentReturn *float64 `json:"current_return"`
	Notes         *string  `json:"notes"`

	Principal      float64 `json:"principal"`
	Quantity       float64 `json:"quantity"`
	TotalCost      float64 `json:"total_cost"`
	RealizedProfit float64 `json:"realized_profit"`

	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// Transaction is one atomic ledger entry owned by a holding.
type Transaction struct {
	ID        int64    `json:"id"`
	HoldingID int64    `json:"holding_id"`
	Date      string   `json:"date"`
	Type      string   `json:"type"`
	Amount    float64  `json:"amount"`
	Quantity  *float64 `json:"quantity"`
	Price     *float64 `json:"price"`
	Notes     *string  `json:"notes"`
	CreatedAt *string  `json:"created_at"`
}

// AddHoldingRequest defines inputs to create a holding.
type AddHoldingRequest struct {
	Name          string
	Category      string
	Behavior      string
	Currency      string
	DepositDate   string
	MaturityDate  *string
	AnnualRate    *float64
	Basis         int
	Rebate        float64
	RebateGot     bool
	CurrentReturn *float64
	Notes         *string
	Principal     float64
	Quantity      *float64
}

// AddTransactionRequest defines inputs to record a transaction.
type AddTransactionRequest struct {
	HoldingID int64
	Date      string
	Type      string
	Amount    float64
	Quantity  *float64
	Price     *float64
	Notes     *string
}

// Metrics is the per-holding computed performance record. Yields are
// percentages; nil means the figure is unavailable for this holding,
// which is distinct from a flat zero-gain position.
type Metrics struct {
	HoldingID          int64    `json:"holding_id"`
	IsPending          bool     `json:"is_pending"`
	IsCompleted        bool     `json:"is_completed"`
	HoldingDays        int      `json:"holding_days"`
	DaysToMaturity     *int     `json:"days_to_maturity"`
	BaseInterest       float64  `json:"base_interest"`
	AccruedReturn      float64  `json:"accrued_return"`
	Profit             float64  `json:"profit"`
	TotalReturn        float64  `json:"total_return"`
	AnnualYield        *float64 `json:"annual_yield"`
	HoldingYield       *float64 `json:"holding_yield"`
	ComprehensiveYield *float64 `json:"comprehensive_yield"`
	UnitCost           *float64 `json:"unit_cost"`
	UnitValue          *float64 `json:"unit_value"`
}

// HoldingWithMetrics pairs a holding (with replayed derived state) with
// its computed metrics.
type HoldingWithMetrics struct {
	Holding Holding `json:"holding"`
	Metrics Metrics `json:"metrics"`
}

// PortfolioStats aggregates all-time figures for one currency.
type PortfolioStats struct {
	Currency           string  `json:"currency"`
	HoldingCount       int     `json:"holding_count"`
	TotalInvested      float64 `json:"total_invested"`
	ActivePrincipal    float64 `json:"active_principal"`
	CompletedPrincipal float64 `json:"completed_principal"`
	TotalRebate        float64 `json:"total_rebate"`
	PendingRebate      float64 `json:"pending_rebate"`
	ReceivedRebate     float64 `json:"received_rebate"`
	RealizedInterest   float64 `json:"realized_interest"`
	ProjectedProfit    float64 `json:"projected_profit"`
	TodayProfit        float64 `json:"today_profit"`
	ComprehensiveYield float64 `json:"comprehensive_yield"`
}

// PeriodContribution is one holding's pro-rated share of a period window.
type PeriodContribution struct {
	HoldingID   int64   `json:"holding_id"`
	Name        string  `json:"name"`
	Currency    string  `json:"currency"`
	OverlapDays int     `json:"overlap_days"`
	Profit      float64 `json:"profit"`
	Yield       float64 `json:"yield"`
}

// PeriodStats aggregates figures over an arbitrary [start, end) window
// for one currency.
type PeriodStats struct {
	Currency      string               `json:"currency"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date"`
	Profit        float64              `json:"profit"`
	WeightedYield float64              `json:"weighted_yield"`
	Contributions []PeriodContribution `json:"contributions"`
}

// ExchangeRateSetting represents a maintained FX rate: the value of one
// unit of Currency expressed in CNY.
type ExchangeRateSetting struct {
	ID        int64   `json:"id"`
	Currency  string  `json:"currency"`
	Rate      float64 `json:"rate"`
	Source    string  `json:"source"`
	UpdatedAt string  `json:"updated_at"`
}

// Valuation is the portfolio's total current value expressed in a single
// reporting currency.
type Valuation struct {
	Currency string  `json:"currency"`
	Total    float64 `json:"total"`
}

// InsightSettings configures the AI portfolio review (API key excluded).
type InsightSettings struct {
	Provider    string `json:"provider"`
	BaseURL     string `json:"base_url"`
	Model       string `json:"model"`
	RiskProfile string `json:"risk_profile"`
	Tone        string `json:"tone"`
}
