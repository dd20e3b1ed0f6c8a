package valueobjects

import (
	"strings"

	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"

	"github.com/mr-tron/base58"
)

// IdentitySize is the byte length of every principal, mint and account key.
const IdentitySize = 32

// Identity is an already-authenticated 32-byte principal or account key.
// Its text form is base58.
type Identity [IdentitySize]byte

// ParseIdentity decodes the base58 text form of an identity.
func ParseIdentity(v string) (Identity, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return Identity{}, domainerrors.ErrInvalidIdentity
	}
	raw, err := base58.Decode(v)
	if err != nil || len(raw) != IdentitySize {
		return Identity{}, domainerrors.ErrInvalidIdentity
	}
	var id Identity
	copy(id[:], raw)
	return id, nil
}

// IdentityFromBytes copies raw into an Identity.
func IdentityFromBytes(raw []byte) (Identity, error) {
	if len(raw) != IdentitySize {
		return Identity{}, domainerrors.ErrInvalidIdentity
	}
	var id Identity
	copy(id[:], raw)
	return id, nil
}

func (id Identity) String() string {
	return base58.Encode(id[:])
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
