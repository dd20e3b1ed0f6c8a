package entities

import (
	"errors"
	"testing"

	domainerrors "tokengate/contexts/asset-control/ledger-controller/domain/errors"
	"tokengate/contexts/asset-control/ledger-controller/domain/valueobjects"
)

var (
	mintID  = valueobjects.Identity{1}
	adminID = valueobjects.Identity{2}
)

func TestNewControlStateStartsActive(t *testing.T) {
	state, err := NewControlState(mintID, adminID)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	if state.IsPaused || state.Admin != adminID || state.Mint != mintID {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestNewControlStateRejectsZeroIdentities(t *testing.T) {
	if _, err := NewControlState(valueobjects.Identity{}, adminID); !errors.Is(err, domainerrors.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity for zero mint, got %v", err)
	}
	if _, err := NewControlState(mintID, valueobjects.Identity{}); !errors.Is(err, domainerrors.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity for zero admin, got %v", err)
	}
}

func TestControlStateBinaryLayout(t *testing.T) {
	state, _ := NewControlState(mintID, adminID)
	state.SetPaused(true)

	payload, err := state.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(payload) != ControlStateSize || ControlStateSize != 33 {
		t.Fatalf("expected 33-byte payload, got %d", len(payload))
	}
	if payload[0] != 1 || payload[1] != 2 {
		t.Fatalf("unexpected payload prefix %v", payload[:2])
	}

	decoded := ControlState{Mint: mintID}
	if err := decoded.UnmarshalBinary(payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != state {
		t.Fatalf("expected %+v, got %+v", state, decoded)
	}
}

func TestControlStateRejectsInvalidPayloads(t *testing.T) {
	valid, _ := ControlState{Mint: mintID, Admin: adminID}.MarshalBinary()

	badFlag := append([]byte(nil), valid...)
	badFlag[0] = 2
	zeroAdmin := make([]byte, ControlStateSize)

	cases := map[string][]byte{
		"short":      valid[:32],
		"long":       append(append([]byte(nil), valid...), 0),
		"bad flag":   badFlag,
		"zero admin": zeroAdmin,
	}
	for name, payload := range cases {
		var state ControlState
		if err := state.UnmarshalBinary(payload); !errors.Is(err, domainerrors.ErrInvalidStateLayout) {
			t.Fatalf("%s: expected ErrInvalidStateLayout, got %v", name, err)
		}
	}
}

func TestControlStateCheckUpdateOnlyAllowsPauseFlag(t *testing.T) {
	current, _ := NewControlState(mintID, adminID)

	paused := current
	paused.SetPaused(true)
	if err := current.CheckUpdate(paused); err != nil {
		t.Fatalf("pause flag change must be allowed, got %v", err)
	}

	rotated := current
	rotated.Admin = valueobjects.Identity{3}
	if err := current.CheckUpdate(rotated); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("admin change: expected ErrInvalidInput, got %v", err)
	}

	moved := current
	moved.Mint = valueobjects.Identity{4}
	if err := current.CheckUpdate(moved); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("mint change: expected ErrInvalidInput, got %v", err)
	}
}
