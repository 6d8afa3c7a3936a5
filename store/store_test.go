package store

import (
	"io/ioutil"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/wvite/common/types"
	"github.com/vitelabs/wvite/config"
	"github.com/vitelabs/wvite/ledger"
)

type sinkTransferor struct{}

func (sinkTransferor) Transfer(to types.Address, amount *big.Int) error { return nil }

func testAddr(b byte) types.Address {
	var raw [types.AddressSize]byte
	raw[types.AddressSize-1] = b
	addr, _ := types.BytesToAddress(raw[:])
	return addr
}

func openTestStore(t *testing.T) (*Store, func()) {
	dir, err := ioutil.TempDir("", "wvite-store")
	require.NoError(t, err)
	s, err := Open(filepath.Join(dir, "snapshot"))
	require.NoError(t, err)
	return s, func() {
		s.Close()
		os.RemoveAll(dir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, cleanup := openTestStore(t)
	defer cleanup()

	clock := ledger.NewClock()
	l, err := ledger.New(config.Default(), clock, sinkTransferor{})
	require.NoError(t, err)

	a, b, c := testAddr(1), testAddr(2), testAddr(3)
	clock.Advance()
	require.NoError(t, l.Deposit(a, big.NewInt(1000)))
	l.Approve(a, b, big.NewInt(400))
	clock.Advance()
	require.NoError(t, l.SpendFrom(b, a, c, big.NewInt(250)))
	l.Delegate(a, a)

	snap := l.Snapshot()
	require.NoError(t, s.Save(snap))

	loaded, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, snap.Height, loaded.Height)
	assert.Equal(t, snap.TotalSupply, loaded.TotalSupply)
	assert.Equal(t, snap.Balances, loaded.Balances)
	assert.Equal(t, snap.Allowances, loaded.Allowances)
	assert.Equal(t, snap.Nonces, loaded.Nonces)
	assert.Equal(t, snap.Delegations, loaded.Delegations)
	assert.Equal(t, snap.Checkpoints, loaded.Checkpoints)
	require.Equal(t, len(snap.Events), len(loaded.Events))
	for i := range snap.Events {
		assert.Equal(t, snap.Events[i].Topics, loaded.Events[i].Topics)
		assert.Equal(t, snap.Events[i].Data, loaded.Events[i].Data)
	}
	assert.Equal(t, snap.Events.Digest(), loaded.Events.Digest())
}

func TestSaveReplacesPreviousState(t *testing.T) {
	s, cleanup := openTestStore(t)
	defer cleanup()

	clock := ledger.NewClock()
	l, err := ledger.New(config.Default(), clock, sinkTransferor{})
	require.NoError(t, err)

	a, b := testAddr(1), testAddr(2)
	clock.Advance()
	require.NoError(t, l.Deposit(a, big.NewInt(10)))
	require.NoError(t, l.Deposit(b, big.NewInt(20)))
	require.NoError(t, s.Save(l.Snapshot()))

	// second snapshot no longer contains account b
	require.NoError(t, l.Withdraw(b, big.NewInt(20)))
	snap := l.Snapshot()
	delete(snap.Balances, b)
	require.NoError(t, s.Save(snap))

	loaded, err := s.Load()
	require.NoError(t, err)
	_, ok := loaded.Balances[b]
	assert.False(t, ok)
	assert.Equal(t, big.NewInt(10), loaded.Balances[a])
}

func TestLoadEmpty(t *testing.T) {
	s, cleanup := openTestStore(t)
	defer cleanup()

	snap, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, snap.TotalSupply.Sign())
	assert.Empty(t, snap.Balances)
	assert.Empty(t, snap.Events)
}
