package api

type holdingPayload struct {
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Behavior      string   `json:"behavior"`
	Currency      string   `json:"currency"`
	DepositDate   string   `json:"deposit_date"`
	MaturityDate  *string  `json:"maturity_date"`
	AnnualRate    *float64 `json:"annual_rate"`
	Basis         int      `json:"basis"`
	Rebate        float64  `json:"rebate"`
	RebateGot     bool     `json:"rebate_received"`
	CurrentReturn *float64 `json:"current_return"`
	Notes         *string  `json:"notes"`
	Principal     float64  `json:"principal"`
	Quantity      *float64 `json:"quantity"`
}

type withdrawPayload struct {
	Date string `json:"date"`
}

type transactionPayload struct {
	HoldingID int64    `json:"holding_id"`
	Date      string   `json:"date"`
	Type      string   `json:"type"`
	Amount    float64  `json:"amount"`
	Quantity  *float64 `json:"quantity"`
	Price     *float64 `json:"price"`
	Notes     *string  `json:"notes"`
}

type exchangeRatePayload struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
	Source   string  `json:"source"`
}

type insightSettingsPayload struct {
	Provider    string `json:"provider"`
	BaseURL     string `json:"base_url"`
	Model       string `json:"model"`
	RiskProfile string `json:"risk_profile"`
	Tone        string `json:"tone"`
}

type insightPayload struct {
	BaseURL     string `json:"base_url"`
	APIKey      string `json:"api_key"`
	Model       string `json:"model"`
	Currency    string `json:"currency"`
	RiskProfile string `json:"risk_profile"`
	Tone        string `json:"tone"`
}
