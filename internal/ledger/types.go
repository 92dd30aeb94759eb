package ledger

// Transaction is one ledger row. Description and category are
// confidential and stored only as ciphertext tokens; amount is signed
// (positive inflow, negative outflow) and date is an ISO-8601 calendar
// day without a time component.
type Transaction struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Account     string  `json:"account"`
}

// Budget is an allocation per confidential category. Spent is a running
// total maintained by the caller, not recomputed here.
type Budget struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Spent    float64 `json:"spent"`
	Period   string  `json:"period"` // "monthly", "weekly", etc.
}

// Category is a transaction category with a confidential name
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Account is a money account with a confidential name
type Account struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Balance float64 `json:"balance"`
}

// Entry is a (date, amount) pair from the transaction time series,
// the raw material for analytics. Neither column is encrypted.
type Entry struct {
	Date   string
	Amount float64
}
