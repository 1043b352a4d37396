package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stellar/go-stellar-sdk/keypair"
	"github.com/stellar/go-stellar-sdk/strkey"
)

var (
	ErrInvalidSecret  = errors.New("invalid secret seed")
	ErrInvalidAddress = errors.New("invalid address")
)

// Keypair is a signing identity addressed by its `G...` public address.
type Keypair struct {
	full *keypair.Full
}

// ParseSecret decodes an `S...` secret seed.
func ParseSecret(secret string) (*Keypair, error) {
	full, err := keypair.ParseFull(strings.TrimSpace(secret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return &Keypair{full: full}, nil
}

// Address returns the `G...` public account address.
func (k *Keypair) Address() string {
	return k.full.Address()
}

// ValidAddress reports whether s is a `G...` account or `C...` contract address.
func ValidAddress(s string) bool {
	return strkey.IsValidEd25519PublicKey(s) || strkey.IsValidContractAddress(s)
}
