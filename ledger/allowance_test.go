package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/wvite/common/types"
)

func TestApproveOverwrites(t *testing.T) {
	l, _ := newTestLedger(t)
	a, b := testAddr(1), testAddr(2)

	require.NoError(t, l.Approve(a, b, big.NewInt(50)))
	assert.Equal(t, big.NewInt(50), l.Allowance(a, b))

	require.NoError(t, l.Approve(a, b, big.NewInt(20)))
	assert.Equal(t, big.NewInt(20), l.Allowance(a, b))

	require.NoError(t, l.Approve(a, b, nil))
	assert.Equal(t, 0, l.Allowance(a, b).Sign())
}

func TestSpendFromConsumesAllowance(t *testing.T) {
	l, _ := newTestLedger(t)
	a, b, c := testAddr(1), testAddr(2), testAddr(3)
	require.NoError(t, l.Deposit(a, big.NewInt(100)))
	require.NoError(t, l.Approve(a, b, big.NewInt(50)))

	require.NoError(t, l.SpendFrom(b, a, c, big.NewInt(30)))
	assert.Equal(t, big.NewInt(20), l.Allowance(a, b))
	assert.Equal(t, big.NewInt(70), l.BalanceOf(a))
	assert.Equal(t, big.NewInt(30), l.BalanceOf(c))

	// the remaining 20 does not cover another 30
	assert.Equal(t, ErrInsufficientAllowance, l.SpendFrom(b, a, c, big.NewInt(30)))
	assert.Equal(t, big.NewInt(20), l.Allowance(a, b))
	assert.Equal(t, big.NewInt(70), l.BalanceOf(a))
	assert.Equal(t, big.NewInt(30), l.BalanceOf(c))
	assertConserved(t, l)
}

func TestSpendFromUnlimitedAllowance(t *testing.T) {
	l, _ := newTestLedger(t)
	a, b, c := testAddr(1), testAddr(2), testAddr(3)
	require.NoError(t, l.Deposit(a, big.NewInt(100)))
	require.NoError(t, l.Approve(a, b, UnlimitedAllowance))

	require.NoError(t, l.SpendFrom(b, a, c, big.NewInt(60)))
	// the unlimited sentinel is never decremented
	assert.Equal(t, 0, l.Allowance(a, b).Cmp(UnlimitedAllowance))
	assert.Equal(t, big.NewInt(60), l.BalanceOf(c))
}

func TestSpendFromChecksBalanceBeforeAllowance(t *testing.T) {
	l, _ := newTestLedger(t)
	a, b, c := testAddr(1), testAddr(2), testAddr(3)
	require.NoError(t, l.Deposit(a, big.NewInt(10)))
	require.NoError(t, l.Approve(a, b, big.NewInt(100)))

	assert.Equal(t, ErrInsufficientBalance, l.SpendFrom(b, a, c, big.NewInt(50)))
	// a failed spend must not have consumed any allowance
	assert.Equal(t, big.NewInt(100), l.Allowance(a, b))
}

func TestSpendFromZeroAddressRecipient(t *testing.T) {
	l, _ := newTestLedger(t)
	a, b := testAddr(1), testAddr(2)
	require.NoError(t, l.Deposit(a, big.NewInt(10)))
	require.NoError(t, l.Approve(a, b, big.NewInt(10)))

	assert.Equal(t, ErrInvalidRecipient, l.SpendFrom(b, a, types.ZERO_ADDRESS, big.NewInt(5)))
	assert.Equal(t, big.NewInt(10), l.Allowance(a, b))
}

func TestAllowanceOfUnknownPair(t *testing.T) {
	l, _ := newTestLedger(t)
	assert.Equal(t, 0, l.Allowance(testAddr(8), testAddr(9)).Sign())
}

func TestNegativeAllowanceRejected(t *testing.T) {
	l, _ := newTestLedger(t)
	a, b, c := testAddr(1), testAddr(2), testAddr(3)
	require.NoError(t, l.Deposit(a, big.NewInt(100)))
	require.NoError(t, l.Approve(a, b, big.NewInt(10)))

	assert.Equal(t, ErrNegativeAmount, l.Approve(a, b, big.NewInt(-5)))
	assert.Equal(t, big.NewInt(10), l.Allowance(a, b))

	// a negative spend must not widen the allowance either
	assert.Equal(t, ErrNegativeAmount, l.SpendFrom(b, a, c, big.NewInt(-5)))
	assert.Equal(t, big.NewInt(10), l.Allowance(a, b))
	assert.Equal(t, big.NewInt(100), l.BalanceOf(a))
}
