// Package addresspkg maps internal account ids to muxed Stellar addresses
// and back. A muxed address (SEP-23, "M...") embeds the vault's ed25519
// public key together with a 64-bit id, so a single pooled account can
// receive payments on behalf of many users.
package addresspkg

import (
	"encoding/binary"
	"errors"

	"github.com/stellar/go/strkey"
)

var (
	// ErrInvalidVaultAddress indicates that the vault address is not an ed25519 public key.
	ErrInvalidVaultAddress = errors.New("invalid vault address")
	// ErrInvalidMuxedAddress indicates that the address is not a muxed ed25519 address.
	ErrInvalidMuxedAddress = errors.New("invalid muxed address")
)

const muxedPayloadLen = 40 // 32 byte ed25519 key + 8 byte big-endian id

// Derive returns the muxed address that routes payments sent to the vault
// to the account with the given owner id. The mapping is deterministic and
// injective for a fixed vault address.
func Derive(vaultAddress string, ownerID uint64) (string, error) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, vaultAddress)
	if err != nil {
		return "", ErrInvalidVaultAddress
	}

	payload := make([]byte, muxedPayloadLen)
	copy(payload, raw)
	binary.BigEndian.PutUint64(payload[32:], ownerID)

	muxed, err := strkey.Encode(strkey.VersionByteMuxedAccount, payload)
	if err != nil {
		return "", ErrInvalidVaultAddress
	}

	return muxed, nil
}

// OwnerID recovers the owner id embedded in a muxed address.
func OwnerID(muxedAddress string) (uint64, error) {
	payload, err := strkey.Decode(strkey.VersionByteMuxedAccount, muxedAddress)
	if err != nil {
		return 0, ErrInvalidMuxedAddress
	}

	if len(payload) != muxedPayloadLen {
		return 0, ErrInvalidMuxedAddress
	}

	return binary.BigEndian.Uint64(payload[32:]), nil
}

// IsValidDestination reports whether addr is a payable Stellar address,
// either a plain ed25519 account or a muxed one.
func IsValidDestination(addr string) bool {
	return strkey.IsValidEd25519PublicKey(addr) ||
		strkey.IsValidMuxedAccountEd25519PublicKey(addr)
}

// BaseAddress returns the underlying ed25519 account address of addr. A
// plain G-address is returned unchanged; a muxed M-address is stripped of
// its id. Horizon only serves account lookups for base addresses, while a
// payment operation accepts either form.
func BaseAddress(addr string) (string, error) {
	if strkey.IsValidEd25519PublicKey(addr) {
		return addr, nil
	}

	payload, err := strkey.Decode(strkey.VersionByteMuxedAccount, addr)
	if err != nil {
		return "", ErrInvalidMuxedAddress
	}

	if len(payload) != muxedPayloadLen {
		return "", ErrInvalidMuxedAddress
	}

	base, err := strkey.Encode(strkey.VersionByteAccountID, payload[:32])
	if err != nil {
		return "", ErrInvalidMuxedAddress
	}

	return base, nil
}
