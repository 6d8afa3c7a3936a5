package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vitelabs/wvite/common/helper"
	"github.com/vitelabs/wvite/crypto"
)

const (
	AddressPrefix    = "0x"
	AddressSize      = 20
	addressPrefixLen = len(AddressPrefix)
	hexAddressLength = addressPrefixLen + 2*AddressSize
)

// Address identifies a ledger account. It is the last 20 bytes of the
// keccak-256 digest of the account's uncompressed secp256k1 public key, the
// standard derivation used by external indexers.
type Address [AddressSize]byte

var ZERO_ADDRESS = Address{}

func BytesToAddress(b []byte) (Address, error) {
	var a Address
	err := a.SetBytes(b)
	return a, err
}

func HexToAddress(hexStr string) (Address, error) {
	if !IsValidHexAddress(hexStr) {
		return Address{}, fmt.Errorf("not a valid hex address %q", hexStr)
	}
	return getAddressFromHex(hexStr)
}

func IsValidHexAddress(hexStr string) bool {
	if len(hexStr) != hexAddressLength || !strings.HasPrefix(hexStr, AddressPrefix) {
		return false
	}
	_, err := getAddressFromHex(hexStr)
	return err == nil
}

// PubkeyToAddress derives the account address from an uncompressed secp256k1
// public key (65 bytes, 0x04 prefix).
func PubkeyToAddress(pubkey []byte) Address {
	if len(pubkey) == 0 {
		return ZERO_ADDRESS
	}
	digest := crypto.Keccak256(pubkey[1:])
	addr, _ := BytesToAddress(digest[len(digest)-AddressSize:])
	return addr
}

func (addr *Address) SetBytes(b []byte) error {
	if length := len(b); length != AddressSize {
		return fmt.Errorf("address bytes length error %v", length)
	}
	copy(addr[:], b)
	return nil
}

func (addr Address) Hex() string {
	return AddressPrefix + hex.EncodeToString(addr[:])
}

func (addr Address) Bytes() []byte { return addr[:] }

func (addr Address) String() string {
	return addr.Hex()
}

func (addr Address) IsZero() bool {
	return addr == ZERO_ADDRESS
}

// Word returns the address left-padded to a 32-byte arithmetic word, the way
// addresses appear in event topics.
func (addr Address) Word() Hash {
	var h Hash
	copy(h[:], helper.LeftPadBytes(addr[:], HashSize))
	return h
}

func getAddressFromHex(hexStr string) (Address, error) {
	var a Address
	_, err := hex.Decode(a[:], []byte(hexStr[addressPrefixLen:]))
	return a, err
}

func (addr *Address) UnmarshalJSON(input []byte) error {
	if !isString(input) {
		return ErrJsonNotString
	}
	parsed, err := HexToAddress(string(trimLeftRightQuotation(input)))
	if err != nil {
		return err
	}
	return addr.SetBytes(parsed.Bytes())
}

func (addr Address) MarshalText() ([]byte, error) {
	return []byte(addr.String()), nil
}
