package cmd

import (
	"fmt"

	"github.com/illarion/ledgerlock/internal/analytics"
)

// Metrics prints the derived financial metrics bundle
func Metrics() {
	s := OpenUnlocked(".")
	defer s.Lock()

	m, err := s.Metrics()
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("balance:     %12.2f\n", m.Balance)
	fmt.Printf("burn rate:   %12.2f /day (30d)\n", m.BurnRate)
	if m.Runway >= analytics.RunwayInfinite {
		fmt.Printf("runway:      %12s\n", "∞")
	} else {
		fmt.Printf("runway:      %9.1f days\n", m.Runway)
	}
	if m.ITT >= analytics.RunwayInfinite {
		fmt.Printf("income/exp:  %12s\n", "∞")
	} else {
		fmt.Printf("income/exp:  %12.2f (30d)\n", m.ITT)
	}
	fmt.Printf("volatility:  %12.2f (30d)\n", m.Volatility)
	fmt.Printf("drawdown:    %12.2f (90d)\n", m.Drawdown)
}
