package crypto

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	// SignatureSize is the length of a recoverable secp256k1 signature:
	// 32-byte R, 32-byte S and a 1-byte recovery id.
	SignatureSize = 65
)

// Keccak256 returns the keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	return ethcrypto.Keccak256(data...)
}

// RecoverSigner returns the uncompressed secp256k1 public key that produced
// the given recoverable signature over digest. The recovery id may be given
// either as 0/1 or in the legacy 27/28 form.
func RecoverSigner(digest []byte, sig []byte) ([]byte, error) {
	if len(sig) != SignatureSize {
		return nil, errInvalidSignatureSize
	}
	normalized := make([]byte, SignatureSize)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	return ethcrypto.Ecrecover(digest, normalized)
}
