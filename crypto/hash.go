package crypto

import "golang.org/x/crypto/blake2b"

// Hash256 returns the blake2b-256 digest of the concatenation of data.
func Hash256(data ...[]byte) []byte {
	d, _ := blake2b.New256(nil)
	for _, item := range data {
		d.Write(item)
	}
	return d.Sum(nil)
}

// Hash returns a blake2b digest of the given size in bytes.
func Hash(size int, data ...[]byte) []byte {
	d, _ := blake2b.New(size, nil)
	for _, item := range data {
		d.Write(item)
	}
	return d.Sum(nil)
}
