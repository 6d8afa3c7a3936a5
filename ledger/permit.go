package ledger

import (
	"math/big"

	"github.com/vitelabs/wvite/common/helper"
	"github.com/vitelabs/wvite/common/types"
	"github.com/vitelabs/wvite/crypto"
)

// permitVersion goes into the domain separator; bump it when the signed
// message layout changes.
const permitVersion = "1"

var (
	domainTypeHash = crypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	permitTypeHash = crypto.Keccak256([]byte("Permit(address owner,address spender,uint256 value,uint256 nonce,uint256 deadline)"))
)

// makeDomainSeparator binds signed approvals to one ledger instance: same
// message signed for another chain or ledger address recovers a different
// digest.
func makeDomainSeparator(name string, chainID uint64, ledgerAddress types.Address) types.Hash {
	return types.KeccakHash(
		domainTypeHash,
		crypto.Keccak256([]byte(name)),
		crypto.Keccak256([]byte(permitVersion)),
		helper.U256(new(big.Int).SetUint64(chainID)),
		ledgerAddress.Word().Bytes(),
	)
}

// DomainSeparator returns the digest domain of this ledger's signed
// approvals.
func (l *Ledger) DomainSeparator() types.Hash {
	return l.domainSeparator
}

// NonceOf returns the owner's next signed-approval nonce.
func (l *Ledger) NonceOf(owner types.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nonces[owner]
}

// PermitDigest is the message hash an owner signs to authorize a spender for
// value until deadline, under the owner's current nonce.
func (l *Ledger) PermitDigest(owner, spender types.Address, value, deadline *big.Int) []byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.permitDigest(owner, spender, normalizeAmount(value), normalizeAmount(deadline), l.nonces[owner])
}

// Permit performs a signature-authorized approval. The signature must be a
// recoverable secp256k1 signature by owner over the current PermitDigest.
// Success consumes the owner's nonce, so a verbatim replay recovers a
// different signer and is rejected.
func (l *Ledger) Permit(owner, spender types.Address, value, deadline *big.Int, sig []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	value = normalizeAmount(value)
	deadline = normalizeAmount(deadline)
	if value.Sign() < 0 {
		return ErrNegativeAmount
	}
	if new(big.Int).SetInt64(l.env.Time().Unix()).Cmp(deadline) > 0 {
		return ErrExpiredDeadline
	}
	digest := l.permitDigest(owner, spender, value, deadline, l.nonces[owner])
	pubkey, err := crypto.RecoverSigner(digest, sig)
	if err != nil {
		l.log.Debug("permit signature rejected", "owner", owner, "err", err)
		return ErrInvalidSignature
	}
	signer := types.PubkeyToAddress(pubkey)
	if signer.IsZero() || signer != owner {
		return ErrInvalidSigner
	}
	l.nonces[owner]++
	l.setAllowance(owner, spender, value)
	l.log.Info("permit", "owner", owner, "spender", spender, "value", value, "nonce", l.nonces[owner])
	return nil
}

func (l *Ledger) permitDigest(owner, spender types.Address, value, deadline *big.Int, nonce uint64) []byte {
	structHash := crypto.Keccak256(
		permitTypeHash,
		owner.Word().Bytes(),
		spender.Word().Bytes(),
		helper.U256(value),
		helper.U256(new(big.Int).SetUint64(nonce)),
		helper.U256(deadline),
	)
	return crypto.Keccak256([]byte{0x19, 0x01}, l.domainSeparator.Bytes(), structHash)
}
