package ledger

import "errors"

// Every failure aborts the whole operation: no balance, allowance, nonce,
// checkpoint or event write survives an error return.
var (
	ErrZeroAmount            = errors.New("amount is zero")
	ErrNegativeAmount        = errors.New("amount is negative")
	ErrInsufficientBalance   = errors.New("insufficient balance for transfer")
	ErrInsufficientAllowance = errors.New("insufficient allowance for transfer")
	ErrInvalidRecipient      = errors.New("transfer to zero address")
	ErrInvalidSignature      = errors.New("invalid signed approval signature")
	ErrInvalidSigner         = errors.New("signed approval signer does not match owner")
	ErrExpiredDeadline       = errors.New("signed approval deadline passed")
	ErrTransferFailed        = errors.New("native coin transfer failed")
	ErrAmountOverflow        = errors.New("amount out of uint256 range")
)
