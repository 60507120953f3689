package cosmos

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // address derivation of secp256k1 keys
)

var errUnsupportedKey = errors.New("unsupported consensus key type")

// consensusPubKey is the Any-encoded key of a validator.
type consensusPubKey struct {
	Type string `json:"@type"`
	Key  string `json:"key"` // base64
}

// address derives the 20-byte consensus address of the key, the value that
// appears in commit signatures and signing infos.
func (k consensusPubKey) address() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(k.Key)
	if err != nil {
		return nil, fmt.Errorf("decode consensus key: %w", err)
	}

	switch {
	case strings.HasSuffix(k.Type, "ed25519.PubKey"):
		sum := sha256.Sum256(raw)
		return sum[:20], nil
	case strings.HasSuffix(k.Type, "secp256k1.PubKey"):
		sum := sha256.Sum256(raw)
		h := ripemd160.New()
		h.Write(sum[:])
		return h.Sum(nil), nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedKey, k.Type)
	}
}

// decodeBech32 returns the payload bytes of a bech32 address.
func decodeBech32(address string) ([]byte, error) {
	_, data, err := bech32.Decode(address)
	if err != nil {
		return nil, err
	}
	return bech32.ConvertBits(data, 5, 8, false)
}

// signedBy reports whether the commit carries a signature of address.
func signedBy(signatures []commitSignature, address []byte) (signed bool, timestamp string) {
	for _, sig := range signatures {
		if bytes.Equal(sig.ValidatorAddress, address) {
			return sig.BlockIDFlag == "BLOCK_ID_FLAG_COMMIT", sig.Timestamp
		}
	}
	return false, ""
}
