package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/MixinNetwork/issuance/ledger"
	"github.com/gin-gonic/gin"
)

type stateView struct {
	Owner       string `json:"owner"`
	TotalIssued string `json:"total_issued"`
}

type participantView struct {
	Address string   `json:"address"`
	Assets  []string `json:"assets"`
}

type usageView struct {
	Owned       string `json:"owned"`
	TotalIssued string `json:"total_issued"`
}

type callView struct {
	TraceId   string    `json:"trace_id"`
	RequestId string    `json:"request_id"`
	Sequence  uint64    `json:"sequence"`
	Kind      string    `json:"kind"`
	Service   string    `json:"service"`
	Recipient string    `json:"recipient"`
	Amount    string    `json:"amount,omitempty"`
	AssetId   string    `json:"asset_id,omitempty"`
	TokenURI  string    `json:"token_uri,omitempty"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func viewCall(c *ledger.Call) *callView {
	view := &callView{
		TraceId:   c.TraceId,
		RequestId: c.RequestId,
		Sequence:  c.Sequence,
		Kind:      c.Kind,
		Service:   c.Service,
		Recipient: c.Recipient,
		AssetId:   c.AssetId,
		TokenURI:  c.TokenURI,
		State:     c.StateName(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Kind != ledger.CallKindMintAsset {
		view.Amount = c.Amount.String()
	}
	return view
}

func viewCalls(calls []*ledger.Call) []*callView {
	views := make([]*callView, len(calls))
	for i, c := range calls {
		views[i] = viewCall(c)
	}
	return views
}

func renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrMintEnded), errors.Is(err, ledger.ErrMintExceeded):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrConfigurationMissing):
		status = http.StatusPreconditionFailed
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrMalformed):
		status = http.StatusBadRequest
	}
	c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
