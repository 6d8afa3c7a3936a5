package ledger

import (
	"math/big"

	"github.com/vitelabs/wvite/common/types"
)

// CoinTransferor pushes native coin out of the ledger. A non-nil error means
// the coin did not move.
type CoinTransferor interface {
	Transfer(to types.Address, amount *big.Int) error
}

// Deposit credits an inbound native-coin transfer of amount from account,
// minting the same amount of wrapped balance.
func (l *Ledger) Deposit(account types.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mint(account, normalizeAmount(amount))
}

// Withdraw burns amount of the account's balance and pushes the same amount
// of native coin back to it. The burn and the outbound push are one
// all-or-nothing unit: the push runs after all burn checks and before any
// ledger write, so a failed push leaves the ledger untouched.
func (l *Ledger) Withdraw(account types.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	amount = normalizeAmount(amount)
	if amount.Sign() < 0 {
		return ErrNegativeAmount
	}
	if amount.Sign() == 0 {
		return ErrZeroAmount
	}
	if l.balanceOf(account).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := l.coins.Transfer(account, new(big.Int).Set(amount)); err != nil {
		l.log.Warn("outbound coin transfer failed", "account", account, "amount", amount, "err", err)
		return ErrTransferFailed
	}
	return l.burn(account, amount)
}
