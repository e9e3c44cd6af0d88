package entities

import "time"

// TreasuryLedger separates principal owed to ticket holders from everything
// else the treasury custodies
type TreasuryLedger struct {
	Owner          AccountID `db:"owner"`
	Account        AccountID `db:"account"`       // Identity the treasury uses towards strategies
	StrategyName   string    `db:"strategy_name"` // Empty when funds are held idle
	TotalPrincipal uint64    `db:"total_principal"`
	Idle           uint64    `db:"idle"`     // Held by the treasury itself
	Invested       uint64    `db:"invested"` // Strategy balance after the treasury's last movement
	UpdatedAt      time.Time `db:"updated_at"`
}

// Authorization returns the treasury's admin right
func (l *TreasuryLedger) Authorization() Authorization {
	return Authorization{Owner: l.Owner}
}

// HasStrategy returns true if a strategy is configured
func (l *TreasuryLedger) HasStrategy() bool {
	return l.StrategyName != ""
}

// Holdings returns everything the treasury can pay out given the strategy's reported balance
func (l *TreasuryLedger) Holdings(strategyBalance uint64) uint64 {
	return l.Idle + strategyBalance
}

// Prize returns holdings above outstanding principal, floored at zero
func (l *TreasuryLedger) Prize(strategyBalance uint64) uint64 {
	holdings := l.Holdings(strategyBalance)
	if holdings <= l.TotalPrincipal {
		return 0
	}
	return holdings - l.TotalPrincipal
}

// Shortfall returns how far holdings fall below outstanding principal
func (l *TreasuryLedger) Shortfall(strategyBalance uint64) uint64 {
	holdings := l.Holdings(strategyBalance)
	if holdings >= l.TotalPrincipal {
		return 0
	}
	return l.TotalPrincipal - holdings
}
