package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelgate/wheelgate/internal/engine"
	"github.com/wheelgate/wheelgate/internal/model"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

func TestTable_Deposit(t *testing.T) {
	f := newFixture(t, engine.Default(), &seqRNG{vals: []float64{0.5}}, "10", 0)

	balance, err := f.table.Deposit(dec("2.5"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("12.5")))

	for _, amount := range []string{"0", "-3"} {
		_, err = f.table.Deposit(dec(amount))
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidAmount), "amount %s", amount)
	}
	assert.True(t, f.balance().Equal(dec("12.5")))
}

func TestTable_BetsMostRecentFirst(t *testing.T) {
	f := newFixture(t, fixedEngine(t, "1"), &seqRNG{vals: []float64{0.5}}, "100", 0)

	var ids []string
	for i := 0; i < 3; i++ {
		bet, err := f.table.PlaceBet(dec("1"), model.RiskLow, 12)
		require.NoError(t, err)
		ids = append(ids, bet.ID)
		f.sched.Advance(4 * time.Second)
	}

	bets := f.table.Bets(2)
	require.Len(t, bets, 2)
	assert.Equal(t, ids[2], bets[0].ID)
	assert.Equal(t, ids[1], bets[1].ID)

	assert.Len(t, f.table.Bets(0), 3)
	assert.True(t, bets[0].PlacedAt.After(bets[1].PlacedAt))
}

func TestTable_BetsCappedByHistoryLimit(t *testing.T) {
	f := newFixture(t, fixedEngine(t, "1"), &seqRNG{vals: []float64{0.5}}, "100", 0)
	f.table.historyLimit = 2

	for i := 0; i < 4; i++ {
		_, err := f.table.PlaceBet(dec("1"), model.RiskLow, 12)
		require.NoError(t, err)
		f.sched.Advance(4 * time.Second)
	}

	assert.Len(t, f.table.Bets(10), 2)
	assert.Len(t, f.table.Bets(0), 2)
	assert.Equal(t, 4, f.table.History.Len(), "history itself is never truncated")
}

func TestTable_State(t *testing.T) {
	f := newFixture(t, engine.Default(), &seqRNG{vals: []float64{0.5}}, "100", 0)

	state := f.table.State()
	assert.Equal(t, "t1", state.SessionID)
	assert.Equal(t, model.PhaseIdle, state.Phase)
	assert.True(t, state.Balance.Equal(dec("100")))
	assert.Nil(t, state.Pending)
	assert.Nil(t, state.AutoBet)

	_, err := f.table.StartAutoBet(dec("5"), model.RiskMedium, 30, autoCfg(2))
	require.NoError(t, err)

	state = f.table.State()
	assert.Equal(t, model.PhaseSpinning, state.Phase)
	require.NotNil(t, state.Pending)
	assert.Nil(t, state.Revealed)
	require.NotNil(t, state.AutoBet)
	assert.True(t, state.AutoBet.Running)
	assert.True(t, state.Balance.Equal(dec("95")))
}
