package ledger

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

// CanonicalAddress accepts a Mixin user id or an MVM hex address and returns
// it in the form used as a store key. Equal identities always produce equal
// keys.
func CanonicalAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if common.IsHexAddress(address) {
		return common.HexToAddress(address).Hex(), nil
	}
	id, err := uuid.FromString(address)
	if err != nil || id == uuid.Nil {
		return "", fmt.Errorf("%w: address %q", ErrMalformed, address)
	}
	return id.String(), nil
}

func canonicalTrace(traceId string) (string, error) {
	if traceId == "" {
		return uuid.Must(uuid.NewV4()).String(), nil
	}
	id, err := uuid.FromString(traceId)
	if err != nil || id == uuid.Nil {
		return "", fmt.Errorf("%w: trace %q", ErrMalformed, traceId)
	}
	return id.String(), nil
}

// ParseAmount parses a decimal unsigned 128-bit integer.
func ParseAmount(s string) (uint128.Uint128, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.TrimLeft(v, "0123456789") != "" {
		return uint128.Zero, fmt.Errorf("%w: amount %q", ErrMalformed, s)
	}
	u, err := uint128.FromString(v)
	if err != nil {
		return uint128.Zero, fmt.Errorf("%w: amount %q", ErrMalformed, s)
	}
	return u, nil
}

func validateRoyalties(royalties []*Royalty) error {
	one := decimal.New(1, 0)
	for _, r := range royalties {
		if r == nil {
			return fmt.Errorf("%w: empty royalty", ErrMalformed)
		}
		_, err := CanonicalAddress(r.Address)
		if err != nil {
			return err
		}
		if r.Rate.IsNegative() || r.Rate.GreaterThan(one) {
			return fmt.Errorf("%w: royalty rate %s", ErrMalformed, r.Rate)
		}
	}
	return nil
}
