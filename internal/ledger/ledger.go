package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

// Ledger tracks one player's balance. Debit checks and mutation share a
// single critical section so concurrent debits cannot overdraw.
type Ledger struct {
	mu      sync.RWMutex
	balance decimal.Decimal
}

func New(opening decimal.Decimal) *Ledger {
	if opening.IsNegative() {
		opening = decimal.Zero
	}
	return &Ledger{balance: opening}
}

func (l *Ledger) Balance() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// TryDebit removes amount from the balance or leaves it untouched on error.
func (l *Ledger) TryDebit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.NewInvalidAmount(fmt.Sprintf("amount must be positive, got %s", amount))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.GreaterThan(l.balance) {
		return apperrors.NewInsufficientFunds(fmt.Sprintf("amount %s exceeds balance %s", amount, l.balance))
	}
	l.balance = l.balance.Sub(amount)
	return nil
}

// Credit adds a non-negative amount. A zero credit (0x multiplier) is a no-op.
func (l *Ledger) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperrors.NewInvalidAmount(fmt.Sprintf("credit must not be negative, got %s", amount))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance = l.balance.Add(amount)
	return nil
}
