package entities

import (
	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
)

// ControlStateSize is the persisted payload length: one flag byte followed by
// the 32-byte admin identity.
const ControlStateSize = 1 + valueobjects.IdentitySize

// ControlState is the per-asset pause switch and its sole administrator.
// Admin is fixed at creation; there is no rotation path.
type ControlState struct {
	Mint     valueobjects.Identity `json:"mint"`
	IsPaused bool                  `json:"is_paused"`
	Admin    valueobjects.Identity `json:"admin"`
}

// NewControlState builds the initial, active state for mint owned by creator.
func NewControlState(mint valueobjects.Identity, creator valueobjects.Identity) (ControlState, error) {
	if mint.IsZero() || creator.IsZero() {
		return ControlState{}, domainerrors.ErrInvalidIdentity
	}
	return ControlState{
		Mint:     mint,
		IsPaused: false,
		Admin:    creator,
	}, nil
}

// SetPaused flips the flag. Authorization happens before this is called.
func (s *ControlState) SetPaused(value bool) {
	s.IsPaused = value
}

// CheckUpdate reports whether next may replace s in storage. Only the pause
// flag may change.
func (s ControlState) CheckUpdate(next ControlState) error {
	if s.Mint != next.Mint || s.Admin != next.Admin {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

// MarshalBinary encodes the 33-byte payload. The mint is the storage key and
// is not part of it.
func (s ControlState) MarshalBinary() ([]byte, error) {
	out := make([]byte, ControlStateSize)
	if s.IsPaused {
		out[0] = 1
	}
	copy(out[1:], s.Admin[:])
	return out, nil
}

// UnmarshalBinary decodes a payload written by MarshalBinary. Mint is left
// untouched.
func (s *ControlState) UnmarshalBinary(data []byte) error {
	if len(data) != ControlStateSize {
		return domainerrors.ErrInvalidStateLayout
	}
	switch data[0] {
	case 0:
		s.IsPaused = false
	case 1:
		s.IsPaused = true
	default:
		return domainerrors.ErrInvalidStateLayout
	}
	admin, err := valueobjects.IdentityFromBytes(data[1:])
	if err != nil {
		return err
	}
	if admin.IsZero() {
		return domainerrors.ErrInvalidStateLayout
	}
	s.Admin = admin
	return nil
}
