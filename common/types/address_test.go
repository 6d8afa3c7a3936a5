package types

import (
	"encoding/json"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestAddressHexRoundTrip(t *testing.T) {
	addr, err := BytesToAddress([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20})
	assert.NoError(t, err)

	parsed, err := HexToAddress(addr.Hex())
	assert.NoError(t, err)
	assert.Equal(t, addr, parsed)
}

func TestAddressValid(t *testing.T) {
	fakeAddr := "1231231"
	if IsValidHexAddress(fakeAddr) {
		t.Fail()
	}
	if IsValidHexAddress("0x01020304050607080910111213141516171819zz") {
		t.Fail()
	}
	assert.True(t, IsValidHexAddress("0x0102030405060708090a0b0c0d0e0f1011121314"))
}

func TestAddressSetBytes(t *testing.T) {
	var addr Address
	assert.Error(t, addr.SetBytes([]byte{1, 2, 3}))
	assert.NoError(t, addr.SetBytes(make([]byte, AddressSize)))
	assert.True(t, addr.IsZero())
}

func TestPubkeyToAddress(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	assert.NoError(t, err)
	pub := ethcrypto.FromECDSAPub(&key.PublicKey)

	addr := PubkeyToAddress(pub)
	assert.False(t, addr.IsZero())

	// matches the standard derivation used by external indexers
	expected := ethcrypto.PubkeyToAddress(key.PublicKey)
	assert.Equal(t, expected.Bytes(), addr.Bytes())
}

func TestAddressJson(t *testing.T) {
	addr, _ := HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314")
	data, err := json.Marshal(addr)
	assert.NoError(t, err)

	var parsed Address
	assert.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, addr, parsed)

	assert.Error(t, json.Unmarshal([]byte(`123`), &parsed))
}

func TestAddressWord(t *testing.T) {
	addr, _ := HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314")
	w := addr.Word()
	assert.Equal(t, "0000000000000000000000000102030405060708090a0b0c0d0e0f1011121314", w.Hex())
}
