package ledger

import (
	"math/big"

	"github.com/vitelabs/wvite/common/helper"
	"github.com/vitelabs/wvite/common/types"
)

// UnlimitedAllowance is the sentinel limit that SpendFrom never decrements.
var UnlimitedAllowance = new(big.Int).Set(helper.Tt256m1)

// Approve sets the spender's limit on the owner's balance. The previous limit
// is overwritten, not added to.
func (l *Ledger) Approve(owner, spender types.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	amount = normalizeAmount(amount)
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	l.setAllowance(owner, spender, amount)
	return nil
}

// Allowance returns the remaining limit for the (owner, spender) pair.
func (l *Ledger) Allowance(owner, spender types.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.allowanceOf(owner, spender))
}

// SpendFrom moves amount of the owner's balance to another account on the
// spender's authority, consuming allowance unless it is unlimited.
func (l *Ledger) SpendFrom(spender, owner, to types.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	amount = normalizeAmount(amount)
	if err := l.checkTransfer(owner, to, amount); err != nil {
		return err
	}
	remaining := l.allowanceOf(owner, spender)
	if remaining.Cmp(UnlimitedAllowance) != 0 {
		if remaining.Cmp(amount) < 0 {
			return ErrInsufficientAllowance
		}
		l.allowances[owner][spender] = new(big.Int).Sub(remaining, amount)
	}
	l.move(owner, to, amount)
	return nil
}

func (l *Ledger) allowanceOf(owner, spender types.Address) *big.Int {
	if spenders, ok := l.allowances[owner]; ok {
		if a, ok := spenders[spender]; ok {
			return a
		}
	}
	return helper.Big0
}

func (l *Ledger) setAllowance(owner, spender types.Address, amount *big.Int) {
	spenders, ok := l.allowances[owner]
	if !ok {
		spenders = make(map[types.Address]*big.Int)
		l.allowances[owner] = spenders
	}
	spenders[spender] = new(big.Int).Set(amount)
	l.appendEvent(newApprovalEvent(owner, spender, amount))
	l.log.Debug("approve", "owner", owner, "spender", spender, "amount", amount)
}
