package services

import (
	"context"

	"github.com/MixinNetwork/issuance/ledger"
	"lukechampine.com/uint128"
)

type tokenRequest struct {
	TraceId   string `json:"trace_id"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

// PaymentClient talks to the payment token ledger, a service address selects
// the token on the endpoint.
type PaymentClient struct {
	*client
}

func NewPaymentClient(endpoint string) *PaymentClient {
	return &PaymentClient{client: newClient(endpoint)}
}

func (pc *PaymentClient) Transfer(ctx context.Context, service string, call *ledger.Call) error {
	return pc.post(ctx, "/tokens/{service}/transfer", map[string]string{
		"service": service,
	}, newTokenRequest(call), nil)
}

func (pc *PaymentClient) Mint(ctx context.Context, service string, call *ledger.Call) error {
	return pc.post(ctx, "/tokens/{service}/mint", map[string]string{
		"service": service,
	}, newTokenRequest(call), nil)
}

func (pc *PaymentClient) Balance(ctx context.Context, service, address string) (uint128.Uint128, error) {
	var resp balanceResponse
	err := pc.get(ctx, "/tokens/{service}/balances/{address}", map[string]string{
		"service": service,
		"address": address,
	}, &resp)
	if err != nil {
		return uint128.Zero, err
	}
	return ledger.ParseAmount(resp.Balance)
}

func newTokenRequest(call *ledger.Call) *tokenRequest {
	return &tokenRequest{
		TraceId:   call.TraceId,
		Recipient: call.Recipient,
		Amount:    call.Amount.String(),
	}
}
