package ledger

import (
	"math/big"

	"github.com/vitelabs/wvite/common/types"
)

// Snapshot is a deep copy of the full ledger state, the unit of persistence.
// Height records the sequence point the snapshot was taken at; a host
// restoring it must resume its Env at or past that height.
type Snapshot struct {
	Height      uint64
	TotalSupply *big.Int
	Balances    map[types.Address]*big.Int
	Allowances  map[types.Address]map[types.Address]*big.Int
	Nonces      map[types.Address]uint64
	Delegations map[types.Address]types.Address
	Checkpoints map[types.Address][]Checkpoint
	Events      EventList
}

func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := &Snapshot{
		Height:      l.env.Height(),
		TotalSupply: new(big.Int).Set(l.totalSupply),
		Balances:    make(map[types.Address]*big.Int, len(l.balances)),
		Allowances:  make(map[types.Address]map[types.Address]*big.Int, len(l.allowances)),
		Nonces:      make(map[types.Address]uint64, len(l.nonces)),
		Delegations: make(map[types.Address]types.Address, len(l.delegations)),
		Checkpoints: make(map[types.Address][]Checkpoint, len(l.checkpoints)),
		Events:      make(EventList, len(l.events)),
	}
	for addr, balance := range l.balances {
		snap.Balances[addr] = new(big.Int).Set(balance)
	}
	for owner, spenders := range l.allowances {
		dst := make(map[types.Address]*big.Int, len(spenders))
		for spender, amount := range spenders {
			dst[spender] = new(big.Int).Set(amount)
		}
		snap.Allowances[owner] = dst
	}
	for addr, nonce := range l.nonces {
		snap.Nonces[addr] = nonce
	}
	for addr, delegate := range l.delegations {
		snap.Delegations[addr] = delegate
	}
	for addr, cps := range l.checkpoints {
		dst := make([]Checkpoint, len(cps))
		for i, cp := range cps {
			dst[i] = Checkpoint{Height: cp.Height, Votes: new(big.Int).Set(cp.Votes)}
		}
		snap.Checkpoints[addr] = dst
	}
	copy(snap.Events, l.events)
	return snap
}

// Restore replaces the whole ledger state with the snapshot. The caller's
// Env must be at or past the snapshot's latest checkpoint height.
func (l *Ledger) Restore(snap *Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.totalSupply = new(big.Int).Set(snap.TotalSupply)
	l.balances = make(map[types.Address]*big.Int, len(snap.Balances))
	for addr, balance := range snap.Balances {
		l.balances[addr] = new(big.Int).Set(balance)
	}
	l.allowances = make(map[types.Address]map[types.Address]*big.Int, len(snap.Allowances))
	for owner, spenders := range snap.Allowances {
		dst := make(map[types.Address]*big.Int, len(spenders))
		for spender, amount := range spenders {
			dst[spender] = new(big.Int).Set(amount)
		}
		l.allowances[owner] = dst
	}
	l.nonces = make(map[types.Address]uint64, len(snap.Nonces))
	for addr, nonce := range snap.Nonces {
		l.nonces[addr] = nonce
	}
	l.delegations = make(map[types.Address]types.Address, len(snap.Delegations))
	for addr, delegate := range snap.Delegations {
		l.delegations[addr] = delegate
	}
	l.checkpoints = make(map[types.Address][]Checkpoint, len(snap.Checkpoints))
	for addr, cps := range snap.Checkpoints {
		dst := make([]Checkpoint, len(cps))
		for i, cp := range cps {
			dst[i] = Checkpoint{Height: cp.Height, Votes: new(big.Int).Set(cp.Votes)}
		}
		l.checkpoints[addr] = dst
	}
	l.events = make(EventList, len(snap.Events))
	copy(l.events, snap.Events)
	l.pastVotes.cache.Purge()
	l.log.Info("state restored", "supply", l.totalSupply, "accounts", len(l.balances))
}
