// Package ledger implements a fungible account ledger pegged 1:1 to a native
// coin: deposits of the coin mint balances, burns release it back. On top of
// the balance table it keeps spender allowances (settable by signed approval
// messages) and a checkpointed voting-power mirror driven by delegation.
//
// A single Ledger value owns all state. Every mutating operation validates
// all of its failure conditions before the first write, then runs a fixed
// step order: balance write, voting-power hook, event append. The hook always
// observes the post-mutation balance.
package ledger

import (
	"math/big"
	"sync"

	"github.com/inconshreveable/log15"
	"github.com/olebedev/emitter"

	"github.com/vitelabs/wvite/common/helper"
	"github.com/vitelabs/wvite/common/types"
	"github.com/vitelabs/wvite/config"
)

const busCapacity = 64

type Ledger struct {
	mu sync.RWMutex

	env   Env
	coins CoinTransferor

	totalSupply *big.Int
	balances    map[types.Address]*big.Int
	allowances  map[types.Address]map[types.Address]*big.Int
	nonces      map[types.Address]uint64
	delegations map[types.Address]types.Address
	checkpoints map[types.Address][]Checkpoint

	events EventList
	bus    *emitter.Emitter

	domainSeparator types.Hash
	pastVotes       *pastVotesCache

	log log15.Logger
}

// New builds an empty ledger. env supplies sequence points and time, coins is
// the outbound native-coin capability used by Withdraw.
func New(cfg *config.Config, env Env, coins CoinTransferor) (*Ledger, error) {
	cache, err := newPastVotesCache()
	if err != nil {
		return nil, err
	}
	return &Ledger{
		env:             env,
		coins:           coins,
		totalSupply:     new(big.Int),
		balances:        make(map[types.Address]*big.Int),
		allowances:      make(map[types.Address]map[types.Address]*big.Int),
		nonces:          make(map[types.Address]uint64),
		delegations:     make(map[types.Address]types.Address),
		checkpoints:     make(map[types.Address][]Checkpoint),
		bus:             emitter.New(busCapacity),
		domainSeparator: makeDomainSeparator(cfg.TokenName, cfg.ChainID, cfg.LedgerAddress),
		pastVotes:       cache,
		log:             log15.New("module", "ledger"),
	}, nil
}

// BalanceOf returns the account balance, zero for unknown accounts.
func (l *Ledger) BalanceOf(account types.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.balanceOf(account))
}

// TotalSupply returns the amount of native coin currently wrapped.
func (l *Ledger) TotalSupply() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.totalSupply)
}

// Transfer moves amount from one account to another. The total supply is
// unchanged.
func (l *Ledger) Transfer(from, to types.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	amount = normalizeAmount(amount)
	if err := l.checkTransfer(from, to, amount); err != nil {
		return err
	}
	l.move(from, to, amount)
	return nil
}

// Subscribe returns a channel of bus events for one of the Event* names.
func (l *Ledger) Subscribe(name string) <-chan emitter.Event {
	return l.bus.On(name)
}

// Events returns a copy of the append-only event log.
func (l *Ledger) Events() EventList {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(EventList, len(l.events))
	copy(out, l.events)
	return out
}

func (l *Ledger) balanceOf(account types.Address) *big.Int {
	if b, ok := l.balances[account]; ok {
		return b
	}
	return helper.Big0
}

func (l *Ledger) checkTransfer(from, to types.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if to.IsZero() {
		return ErrInvalidRecipient
	}
	if l.balanceOf(from).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// move performs a validated balance transfer: balance writes, then the
// voting-power hook on the post-mutation balances, then the Transfer event.
func (l *Ledger) move(from, to types.Address, amount *big.Int) {
	l.balances[from] = new(big.Int).Sub(l.balanceOf(from), amount)
	l.balances[to] = new(big.Int).Add(l.balanceOf(to), amount)
	l.moveDelegates(l.delegations[from], l.delegations[to], amount)
	l.appendEvent(newTransferEvent(from, to, amount))
	l.log.Debug("transfer", "from", from, "to", to, "amount", amount)
}

// mint credits a verified inbound deposit. The supply cap is 2^256-1; going
// past it is an internal invariant violation surfaced as ErrAmountOverflow.
func (l *Ledger) mint(account types.Address, amount *big.Int) error {
	if account.IsZero() {
		return ErrInvalidRecipient
	}
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if amount.Sign() == 0 {
		return ErrZeroAmount
	}
	next := new(big.Int).Add(l.totalSupply, amount)
	if next.Cmp(helper.Tt256m1) > 0 {
		return ErrAmountOverflow
	}
	l.totalSupply = next
	l.balances[account] = new(big.Int).Add(l.balanceOf(account), amount)
	l.moveDelegates(types.ZERO_ADDRESS, l.delegations[account], amount)
	l.appendEvent(newDepositEvent(account, amount))
	l.log.Info("mint", "account", account, "amount", amount, "supply", l.totalSupply)
	return nil
}

// burn releases balance back to the native coin. Callers must have settled
// the outbound transfer already; burn itself only fails on its own checks.
func (l *Ledger) burn(account types.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if amount.Sign() == 0 {
		return ErrZeroAmount
	}
	if l.balanceOf(account).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.totalSupply = new(big.Int).Sub(l.totalSupply, amount)
	l.balances[account] = new(big.Int).Sub(l.balanceOf(account), amount)
	l.moveDelegates(l.delegations[account], types.ZERO_ADDRESS, amount)
	l.appendEvent(newWithdrawalEvent(account, amount))
	l.log.Info("burn", "account", account, "amount", amount, "supply", l.totalSupply)
	return nil
}

func (l *Ledger) appendEvent(e *Event) {
	l.events = append(l.events, e)
	l.bus.Emit(e.Name(), e)
}

// normalizeAmount maps a nil amount to zero so arithmetic never sees nil.
func normalizeAmount(amount *big.Int) *big.Int {
	if amount == nil {
		return new(big.Int)
	}
	return amount
}
