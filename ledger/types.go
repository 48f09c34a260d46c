package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

const (
	// Ceiling is the fixed maximum number of assets ever issued.
	Ceiling = 2000
	// AssetPrefix is the collection prefix of every asset identifier.
	AssetPrefix = "Hope"
)

type State struct {
	TotalIssued uint128.Uint128
	Owner       string
}

type ParticipantRecord struct {
	Address string
	Assets  []string
}

type Royalty struct {
	Address string
	Rate    decimal.Decimal
}

// Metadata is the mint request carried by a deposit notification. It is not
// persisted by the ledger, only forwarded to the registry. A nil field is
// absent, which is not the same as an empty one.
type Metadata struct {
	Name         *string
	ImageURI     *string
	ExternalLink *string
	Description  *string
	Royalties    []*Royalty
	InitPrice    *uint128.Uint128
}

// Extension is the metadata record attached to a minted asset.
type Extension struct {
	Name         *string
	Description  *string
	ExternalLink *string
	Royalties    []*Royalty
	InitPrice    *uint128.Uint128
}

// Deposit reports a payment token transfer to the ledger. Depositor is the
// technical sender of the notification, Beneficiary the party who paid and
// receives the asset.
type Deposit struct {
	TraceId     string
	Depositor   string
	Beneficiary string
	Amount      uint128.Uint128
	Metadata    *Metadata
}

type Mint struct {
	TraceId     string
	State       *State
	Participant *ParticipantRecord
	Count       uint128.Uint128
	Calls       []*Call
}

// Receipt remembers which calls a handled request produced.
type Receipt struct {
	TraceId   string
	Calls     []string
	CreatedAt time.Time
}

type QuotaUsage struct {
	Owned       uint128.Uint128
	TotalIssued uint128.Uint128
}

type CollectionInfo struct {
	Name   string
	Symbol string
}

func (m *Metadata) extension() *Extension {
	if m == nil {
		return &Extension{}
	}
	return &Extension{
		Name:         m.Name,
		Description:  m.Description,
		ExternalLink: m.ExternalLink,
		Royalties:    m.Royalties,
		InitPrice:    m.InitPrice,
	}
}
