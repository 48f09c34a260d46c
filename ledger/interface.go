package ledger

import (
	"context"

	"lukechampine.com/uint128"
)

// Store is the durable state of the ledger. Reads of absent records return
// nil or found == false, never an error.
type Store interface {
	ReadState() (*State, error)
	WriteState(s *State) error

	ReadPaymentService() (string, error)
	WritePaymentService(address string) error
	ReadRegistryService() (string, error)
	WriteRegistryService(address string) error
	ReadQuota() (uint128.Uint128, bool, error)
	WriteQuota(amount uint128.Uint128) error

	ReadParticipant(address string) (*ParticipantRecord, error)
	ReadParticipantCount(address string) (uint128.Uint128, bool, error)
	ListParticipants() ([]string, error)

	// WriteMint applies the state counter, the participant record and count,
	// the deposit receipt and all the outbound calls in one transaction.
	WriteMint(m *Mint) error
	// WriteCalls records the receipt and the calls in one transaction.
	WriteCalls(traceId string, calls []*Call) error
	ReadDeposit(traceId string) (*Receipt, error)

	ReadCall(traceId string) (*Call, error)
	ListCalls(state int, limit int) ([]*Call, error)
	WriteCall(call *Call) error
}

type PaymentService interface {
	Transfer(ctx context.Context, service string, call *Call) error
	Mint(ctx context.Context, service string, call *Call) error
	Balance(ctx context.Context, service, address string) (uint128.Uint128, error)
}

type CollectibleRegistry interface {
	MintAsset(ctx context.Context, service string, call *Call) error
	CollectionInfo(ctx context.Context, service string) (*CollectionInfo, error)
	AssetsOf(ctx context.Context, service, owner string) ([]string, error)
}
