package ledger

import (
	"time"

	"github.com/fox-one/mixin-sdk-go"
	"lukechampine.com/uint128"
)

const (
	CallStateInitial = 10
	CallStateDone    = 11
	CallStateFailed  = 12

	CallKindTransfer   = "transfer"
	CallKindMintAsset  = "mint_asset"
	CallKindMintTokens = "mint_tokens"
)

// Call is an outbound call to one of the two downstream services. It is
// written in the same store transaction as the ledger mutation producing it,
// and executed later by DispatchCalls.
type Call struct {
	TraceId   string
	RequestId string
	Sequence  uint64
	Kind      string
	Service   string
	Recipient string
	Amount    uint128.Uint128
	AssetId   string
	TokenURI  string
	Extension *Extension
	State     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Call) StateName() string {
	switch c.State {
	case CallStateInitial:
		return "initial"
	case CallStateDone:
		return "done"
	case CallStateFailed:
		return "failed"
	}
	panic(c.State)
}

// a request trace maps to exactly one call trace per kind
func callTraceId(requestTrace, kind string) string {
	return mixin.UniqueConversationID(requestTrace, kind)
}

func newTransferCall(trace, service, owner string, amount uint128.Uint128, now time.Time) *Call {
	return &Call{
		TraceId:   callTraceId(trace, CallKindTransfer),
		RequestId: trace,
		Kind:      CallKindTransfer,
		Service:   service,
		Recipient: owner,
		Amount:    amount,
		State:     CallStateInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newMintAssetCall(trace, service, assetId, owner string, meta *Metadata, now time.Time) *Call {
	var uri string
	if meta != nil && meta.ImageURI != nil {
		uri = *meta.ImageURI
	}
	return &Call{
		TraceId:   callTraceId(trace, CallKindMintAsset),
		RequestId: trace,
		Kind:      CallKindMintAsset,
		Service:   service,
		Recipient: owner,
		AssetId:   assetId,
		TokenURI:  uri,
		Extension: meta.extension(),
		State:     CallStateInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newMintTokensCall(trace, service, recipient string, amount uint128.Uint128, now time.Time) *Call {
	return &Call{
		TraceId:   callTraceId(trace, CallKindMintTokens),
		RequestId: trace,
		Kind:      CallKindMintTokens,
		Service:   service,
		Recipient: recipient,
		Amount:    amount,
		State:     CallStateInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
