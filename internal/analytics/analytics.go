package analytics

import (
	"math"
	"time"

	"github.com/illarion/ledgerlock/internal/ledger"
)

// RunwayInfinite is the sentinel runway/ITT value reported when there
// are no expenses to divide by: effectively infinite.
const RunwayInfinite = 999

const isoDate = "2006-01-02"

// BalancePoint is the cumulative balance as of end of one calendar day.
// Derived, never persisted.
type BalancePoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// Metrics is a snapshot bundle of derived financial figures, all
// computed from one consistent read of the transaction set.
type Metrics struct {
	Balance    float64 `json:"balance"`
	BurnRate   float64 `json:"burn_rate"`
	Runway     float64 `json:"runway"`
	ITT        float64 `json:"itt"` // income tension index
	Volatility float64 `json:"volatility"`
	Drawdown   float64 `json:"drawdown"`
}

// BalanceHistory walks entries in ascending date order and accumulates
// a running balance grouped by calendar day, emitting one point per
// distinct day that has at least one transaction. Days without
// transactions produce no point, so callers must not assume daily
// density. The trailing group is flushed so the last day is never
// dropped.
func BalanceHistory(entries []ledger.Entry) []BalancePoint {
	var history []BalancePoint
	var balance, dailyTotal float64
	currentDate := ""

	for _, e := range entries {
		if e.Date != currentDate {
			if currentDate != "" {
				balance += dailyTotal
				history = append(history, BalancePoint{Date: currentDate, Balance: balance})
			}
			currentDate = e.Date
			dailyTotal = 0
		}
		dailyTotal += e.Amount
	}

	// Flush the last day's group
	if currentDate != "" {
		balance += dailyTotal
		history = append(history, BalancePoint{Date: currentDate, Balance: balance})
	}

	return history
}

// Compute derives all metrics from one 90-day entry series (ascending
// by date) and the all-time balance. The 30-day figures are taken from
// the same series by date cutoff, so no metric can reflect a different
// mutation state than another.
func Compute(entries []ledger.Entry, balance float64, today time.Time) Metrics {
	cutoff30 := today.AddDate(0, 0, -30).Format(isoDate)

	var last30 []ledger.Entry
	for i, e := range entries {
		if e.Date >= cutoff30 {
			last30 = entries[i:]
			break
		}
	}

	burnRate := burnRate(last30)

	runway := float64(RunwayInfinite)
	if burnRate > 0 {
		runway = balance / burnRate
	}

	metrics := Metrics{
		Balance:    balance,
		BurnRate:   burnRate,
		Runway:     runway,
		ITT:        incomeTension(last30),
		Volatility: volatility(BalanceHistory(last30)),
		Drawdown:   maxDrawdown(BalanceHistory(entries)),
	}

	return metrics
}

// burnRate is the mean of per-day expense totals over days that have at
// least one expense. Days without expenses do not dilute the average.
func burnRate(entries []ledger.Entry) float64 {
	dailyExpense := make(map[string]float64)
	for _, e := range entries {
		if e.Amount < 0 {
			dailyExpense[e.Date] += math.Abs(e.Amount)
		}
	}
	if len(dailyExpense) == 0 {
		return 0
	}

	var total float64
	for _, expense := range dailyExpense {
		total += expense
	}
	return total / float64(len(dailyExpense))
}

// incomeTension is the ratio of income to expense magnitude over the
// window; RunwayInfinite when there are no expenses.
func incomeTension(entries []ledger.Entry) float64 {
	var income, expenses float64
	for _, e := range entries {
		if e.Amount > 0 {
			income += e.Amount
		} else {
			expenses += math.Abs(e.Amount)
		}
	}
	if expenses == 0 {
		return RunwayInfinite
	}
	return income / expenses
}

// volatility is the population standard deviation (divide by N) of the
// balance points; 0 with fewer than 2 points.
func volatility(points []BalancePoint) float64 {
	if len(points) < 2 {
		return 0
	}

	var sum float64
	for _, p := range points {
		sum += p.Balance
	}
	mean := sum / float64(len(points))

	var variance float64
	for _, p := range points {
		variance += (p.Balance - mean) * (p.Balance - mean)
	}
	variance /= float64(len(points))

	return math.Sqrt(variance)
}

// maxDrawdown tracks the running maximum balance and reports the worst
// peak-to-trough decline as a non-positive number; 0 with no history.
func maxDrawdown(points []BalancePoint) float64 {
	if len(points) == 0 {
		return 0
	}

	maxBalance := points[0].Balance
	var worst float64
	for _, p := range points {
		if p.Balance > maxBalance {
			maxBalance = p.Balance
		}
		if dd := maxBalance - p.Balance; dd > worst {
			worst = dd
		}
	}

	return -worst
}
