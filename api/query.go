package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MixinNetwork/issuance/ledger"
	"github.com/gin-gonic/gin"
)

const (
	defaultCallsLimit = 100
	maxCallsLimit     = 500
)

func GetState(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		s, err := l.State()
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, &stateView{Owner: s.Owner, TotalIssued: s.TotalIssued.String()})
	}
}

func GetPaymentService(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		addr, err := l.PaymentService()
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": addr})
	}
}

func GetRegistryService(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		addr, err := l.RegistryService()
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"address": addr})
	}
}

func GetQuota(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		quota, err := l.Quota()
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quota": quota.String()})
	}
}

func ListParticipants(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		addresses, err := l.Participants()
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"participants": addresses})
	}
}

func GetParticipant(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		p, err := l.Participant(c.Param("address"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, &participantView{Address: p.Address, Assets: p.Assets})
	}
}

func GetQuotaUsage(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		u, err := l.QuotaUsage(c.Param("address"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, &usageView{Owned: u.Owned.String(), TotalIssued: u.TotalIssued.String()})
	}
}

func GetBalance(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		balance, err := l.Balance(c.Request.Context(), c.Param("address"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance.String()})
	}
}

func GetCollection(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		info, err := l.CollectionInfo(c.Request.Context())
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"name": info.Name, "symbol": info.Symbol})
	}
}

func GetAssetsOf(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		tokens, err := l.AssetsOf(c.Request.Context(), c.Param("address"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tokens": tokens})
	}
}

func GetCall(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		call, err := l.Call(c.Param("trace"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewCall(call))
	}
}

func ListCalls(l *ledger.Ledger) func(*gin.Context) {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultCallsLimit)))
		if err != nil || limit < 0 {
			renderError(c, fmt.Errorf("%w: limit %q", ledger.ErrMalformed, c.Query("limit")))
			return
		}
		if limit == 0 || limit > maxCallsLimit {
			limit = maxCallsLimit
		}
		var calls []*ledger.Call
		switch state := c.DefaultQuery("state", "initial"); state {
		case "initial":
			calls, err = l.PendingCalls(limit)
		case "failed":
			calls, err = l.FailedCalls(limit)
		default:
			err = fmt.Errorf("%w: state %q", ledger.ErrMalformed, state)
		}
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"calls": viewCalls(calls)})
	}
}
