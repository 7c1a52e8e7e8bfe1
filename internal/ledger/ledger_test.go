package ledger

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTryDebit(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr apperrors.ErrorType
		want    string
	}{
		{"ok", d("10"), "", "90"},
		{"whole balance", d("100"), "", "0"},
		{"fractional", d("0.0000000001"), "", "99.9999999999"},
		{"zero", d("0"), apperrors.ErrInvalidAmount, "100"},
		{"negative", d("-5"), apperrors.ErrInvalidAmount, "100"},
		{"too much", d("100.01"), apperrors.ErrInsufficientFunds, "100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(d("100"))
			err := l.TryDebit(tt.amount)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.True(t, l.Balance().Equal(d(tt.want)), "balance %s", l.Balance())
		})
	}
}

func TestCredit(t *testing.T) {
	l := New(d("1"))
	require.NoError(t, l.Credit(d("2.5")))
	require.NoError(t, l.Credit(decimal.Zero))
	assert.True(t, l.Balance().Equal(d("3.5")))

	err := l.Credit(d("-1"))
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidAmount))
	assert.True(t, l.Balance().Equal(d("3.5")))
}

func TestBalanceNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := New(d("50"))

	for i := 0; i < 5000; i++ {
		amount := decimal.NewFromInt(rng.Int63n(40) + 1)
		if rng.Intn(3) == 0 {
			require.NoError(t, l.Credit(amount))
		} else {
			_ = l.TryDebit(amount)
		}
		require.False(t, l.Balance().IsNegative(), "step %d", i)
	}
}

func TestConcurrentDebits(t *testing.T) {
	l := New(d("100"))

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryDebit(d("7")) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 14, accepted)
	assert.True(t, l.Balance().Equal(d("2")))
}
