package crypto

import (
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash256(t *testing.T) {
	digest := Hash256([]byte("wvite"))
	assert.Equal(t, 32, len(digest))
	assert.Equal(t, digest, Hash256([]byte("wv"), []byte("ite")))
	assert.NotEqual(t, digest, Hash256([]byte("wvitf")))
}

func TestHashSized(t *testing.T) {
	assert.Equal(t, 20, len(Hash(20, []byte("wvite"))))
	assert.Equal(t, Hash(32, []byte("wvite")), Hash256([]byte("wvite")))
}

func TestKeccak256(t *testing.T) {
	assert.Equal(t, ethcrypto.Keccak256([]byte("abc")), Keccak256([]byte("abc")))
	assert.Equal(t, Keccak256([]byte("abc")), Keccak256([]byte("a"), []byte("bc")))
}

func TestRecoverSigner(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	digest := Keccak256([]byte("signed payload"))
	sig, err := ethcrypto.Sign(digest, key)
	require.NoError(t, err)

	pub, err := RecoverSigner(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, ethcrypto.FromECDSAPub(&key.PublicKey), pub)
}

func TestRecoverSignerLegacyRecoveryId(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	digest := Keccak256([]byte("signed payload"))
	sig, err := ethcrypto.Sign(digest, key)
	require.NoError(t, err)

	legacy := make([]byte, SignatureSize)
	copy(legacy, sig)
	legacy[64] += 27

	pub, err := RecoverSigner(digest, legacy)
	require.NoError(t, err)
	assert.Equal(t, ethcrypto.FromECDSAPub(&key.PublicKey), pub)
	// the caller's buffer is left untouched
	assert.Equal(t, sig[64]+27, legacy[64])
}

func TestRecoverSignerBadSize(t *testing.T) {
	digest := Keccak256([]byte("signed payload"))
	_, err := RecoverSigner(digest, []byte{1, 2, 3})
	assert.Equal(t, errInvalidSignatureSize, err)
}
