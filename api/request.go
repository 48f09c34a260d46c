package api

import (
	"fmt"
	"net/http"

	"github.com/MixinNetwork/issuance/ledger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

type royaltyRequest struct {
	Address string `json:"address"`
	Rate    string `json:"rate"`
}

type metadataRequest struct {
	Name         *string           `json:"name"`
	ImageURI     *string           `json:"image_uri"`
	ExternalLink *string           `json:"external_link"`
	Description  *string           `json:"description"`
	Royalties    []*royaltyRequest `json:"royalties"`
	InitPrice    string            `json:"init_price"`
}

type depositRequest struct {
	TraceId     string           `json:"trace_id"`
	Sender      string           `json:"sender"`
	Beneficiary string           `json:"beneficiary"`
	Amount      string           `json:"amount"`
	Metadata    *metadataRequest `json:"metadata"`
}

type addressRequest struct {
	Sender  string `json:"sender"`
	Address string `json:"address"`
}

type quotaRequest struct {
	Sender string `json:"sender"`
	Amount string `json:"amount"`
}

type retryRequest struct {
	Sender  string `json:"sender"`
	TraceId string `json:"trace_id"`
}

type mintRequest struct {
	TraceId     string `json:"trace_id"`
	Sender      string `json:"sender"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
}

func HandleDeposit(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		var req depositRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderError(c, fmt.Errorf("%w: %v", ledger.ErrMalformed, err))
			return
		}
		d, err := req.deposit()
		if err != nil {
			renderError(c, err)
			return
		}
		calls, err := l.HandleDeposit(c.Request.Context(), d)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"calls": viewCalls(calls)})
	}
}

func SetPaymentService(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderError(c, fmt.Errorf("%w: %v", ledger.ErrMalformed, err))
			return
		}
		err := l.SetPaymentService(req.Sender, req.Address)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": req.Address})
	}
}

func SetRegistryService(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderError(c, fmt.Errorf("%w: %v", ledger.ErrMalformed, err))
			return
		}
		err := l.SetRegistryService(req.Sender, req.Address)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": req.Address})
	}
}

func SetQuota(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		var req quotaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderError(c, fmt.Errorf("%w: %v", ledger.ErrMalformed, err))
			return
		}
		amount, err := ledger.ParseAmount(req.Amount)
		if err != nil {
			renderError(c, err)
			return
		}
		err = l.SetQuota(req.Sender, amount)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quota": amount.String()})
	}
}

func MintTokens(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		var req mintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderError(c, fmt.Errorf("%w: %v", ledger.ErrMalformed, err))
			return
		}
		amount, err := ledger.ParseAmount(req.Amount)
		if err != nil {
			renderError(c, err)
			return
		}
		call, err := l.MintTokens(c.Request.Context(), req.TraceId, req.Sender, req.Beneficiary, amount)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewCall(call))
	}
}

func RetryCalls(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		var req retryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			renderError(c, fmt.Errorf("%w: %v", ledger.ErrMalformed, err))
			return
		}
		n, err := l.RetryCalls(req.Sender, req.TraceId)
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"retried": n})
	}
}

func (req *depositRequest) deposit() (*ledger.Deposit, error) {
	amount, err := ledger.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	d := &ledger.Deposit{
		TraceId:     req.TraceId,
		Depositor:   req.Sender,
		Beneficiary: req.Beneficiary,
		Amount:      amount,
	}
	if req.Metadata == nil {
		return d, nil
	}

	m := req.Metadata
	d.Metadata = &ledger.Metadata{
		Name:         m.Name,
		ImageURI:     m.ImageURI,
		ExternalLink: m.ExternalLink,
		Description:  m.Description,
	}
	for _, r := range m.Royalties {
		if r == nil {
			return nil, fmt.Errorf("%w: empty royalty", ledger.ErrMalformed)
		}
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return nil, fmt.Errorf("%w: royalty rate %q", ledger.ErrMalformed, r.Rate)
		}
		d.Metadata.Royalties = append(d.Metadata.Royalties, &ledger.Royalty{
			Address: r.Address,
			Rate:    rate,
		})
	}
	if m.InitPrice != "" {
		var price uint128.Uint128
		price, err = ledger.ParseAmount(m.InitPrice)
		if err != nil {
			return nil, err
		}
		d.Metadata.InitPrice = &price
	}
	return d, nil
}
