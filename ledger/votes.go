package ledger

import (
	"math/big"
	"sort"

	lru "github.com/hashicorp/golang-lru"

	"github.com/vitelabs/wvite/common/helper"
	"github.com/vitelabs/wvite/common/types"
)

// Checkpoint records the voting power of an account at a sequence point.
// Each account's series is append-only with strictly increasing heights; a
// second write within one height overwrites the last entry.
type Checkpoint struct {
	Height uint64
	Votes  *big.Int
}

// Delegate points the account's balance weight at delegate. An account with
// no delegate set carries no voting weight until it delegates, including to
// itself. A zero delegate removes the delegation again.
func (l *Ledger) Delegate(account, delegate types.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()

	previous := l.delegations[account]
	if delegate.IsZero() {
		delete(l.delegations, account)
	} else {
		l.delegations[account] = delegate
	}
	l.appendEvent(newDelegateChangedEvent(account, previous, delegate))
	l.moveDelegates(previous, delegate, l.balanceOf(account))
	l.log.Debug("delegate", "account", account, "from", previous, "to", delegate)
}

// DelegateOf returns the account's delegate, zero when none is set.
func (l *Ledger) DelegateOf(account types.Address) types.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.delegations[account]
}

// VotesOf returns the account's current voting power.
func (l *Ledger) VotesOf(account types.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.latestVotes(account))
}

// PastVotes returns the account's voting power as of the given sequence
// point: the latest checkpoint at or before height, zero when none exists.
func (l *Ledger) PastVotes(account types.Address, height uint64) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	final := height < l.env.Height()
	if final {
		if votes, ok := l.pastVotes.get(account, height); ok {
			return votes
		}
	}
	cps := l.checkpoints[account]
	i := sort.Search(len(cps), func(i int) bool { return cps[i].Height > height })
	votes := new(big.Int)
	if i > 0 {
		votes.Set(cps[i-1].Votes)
	}
	// checkpoints at the current height may still be overwritten, so only
	// settled heights are cached
	if final {
		l.pastVotes.add(account, height, votes)
	}
	return new(big.Int).Set(votes)
}

// CheckpointsOf returns a copy of the account's checkpoint series.
func (l *Ledger) CheckpointsOf(account types.Address) []Checkpoint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cps := l.checkpoints[account]
	out := make([]Checkpoint, len(cps))
	for i, cp := range cps {
		out[i] = Checkpoint{Height: cp.Height, Votes: new(big.Int).Set(cp.Votes)}
	}
	return out
}

// moveDelegates is the balance-change hook. It shifts amount of voting weight
// from the src delegate to the dst delegate, writing one checkpoint per
// affected delegate at the current sequence point. A zero address on either
// side means no delegate holds that weight.
func (l *Ledger) moveDelegates(src, dst types.Address, amount *big.Int) {
	if src == dst || amount.Sign() == 0 {
		return
	}
	if !src.IsZero() {
		previous := l.latestVotes(src)
		l.writeCheckpoint(src, previous, new(big.Int).Sub(previous, amount))
	}
	if !dst.IsZero() {
		previous := l.latestVotes(dst)
		l.writeCheckpoint(dst, previous, new(big.Int).Add(previous, amount))
	}
}

func (l *Ledger) latestVotes(account types.Address) *big.Int {
	cps := l.checkpoints[account]
	if len(cps) == 0 {
		return helper.Big0
	}
	return cps[len(cps)-1].Votes
}

func (l *Ledger) writeCheckpoint(account types.Address, previous, current *big.Int) {
	height := l.env.Height()
	cps := l.checkpoints[account]
	if n := len(cps); n > 0 && cps[n-1].Height == height {
		cps[n-1].Votes = current
	} else {
		l.checkpoints[account] = append(cps, Checkpoint{Height: height, Votes: current})
	}
	l.appendEvent(newDelegateVotesChangedEvent(account, previous, current))
}

// pastVotesCache memoizes historical voting-power lookups. Entries only ever
// hold settled heights, which are immutable.
type pastVotesCache struct {
	cache *lru.Cache
}

type pastVotesKey struct {
	account types.Address
	height  uint64
}

const pastVotesCacheSize = 1024

func newPastVotesCache() (*pastVotesCache, error) {
	cache, err := lru.New(pastVotesCacheSize)
	if err != nil {
		return nil, err
	}
	return &pastVotesCache{cache: cache}, nil
}

func (c *pastVotesCache) get(account types.Address, height uint64) (*big.Int, bool) {
	if v, ok := c.cache.Get(pastVotesKey{account, height}); ok {
		return new(big.Int).Set(v.(*big.Int)), true
	}
	return nil, false
}

func (c *pastVotesCache) add(account types.Address, height uint64, votes *big.Int) {
	c.cache.Add(pastVotesKey{account, height}, new(big.Int).Set(votes))
}
