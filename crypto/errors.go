package crypto

import "errors"

var errInvalidSignatureSize = errors.New("signature must be 65 bytes")
