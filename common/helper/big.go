package helper

import "math/big"

// WordSize is the width in bytes of a ledger arithmetic word.
const WordSize = 32

var (
	Big0 = big.NewInt(0)
	Big1 = big.NewInt(1)

	// Tt256 is 2^256, Tt256m1 is 2^256 - 1, the largest representable amount.
	Tt256   = new(big.Int).Lsh(Big1, 256)
	Tt256m1 = new(big.Int).Sub(Tt256, Big1)
)

// U256 encodes x as an unsigned 256 bit number.
func U256(x *big.Int) []byte {
	return PaddedBigBytes(new(big.Int).And(x, Tt256m1), WordSize)
}

// PaddedBigBytes encodes a big integer as a big-endian byte slice. The length
// of the slice is at least n bytes.
func PaddedBigBytes(bigint *big.Int, n int) []byte {
	if bigint.BitLen()/8 >= n {
		return bigint.Bytes()
	}
	ret := make([]byte, n)
	readBits(bigint, ret)
	return ret
}

const (
	wordBits  = 32 << (uint64(^big.Word(0)) >> 63)
	wordBytes = wordBits / 8
)

// readBits encodes the absolute value of bigint as big-endian bytes. Callers
// must ensure that buf has enough space.
func readBits(bigint *big.Int, buf []byte) {
	i := len(buf)
	for _, d := range bigint.Bits() {
		for j := 0; j < wordBytes && i > 0; j++ {
			i--
			buf[i] = byte(d)
			d >>= 8
		}
	}
}
