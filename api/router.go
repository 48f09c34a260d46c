package api

import (
	"time"

	"github.com/MixinNetwork/issuance/ledger"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func InitRouter(l *ledger.Ledger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestLogger())
	r.Use(gin.Recovery())

	r.POST("/deposits", HandleDeposit(l))

	admin := r.Group("admin")
	admin.POST("/payment-service", SetPaymentService(l))
	admin.POST("/registry-service", SetRegistryService(l))
	admin.POST("/quota", SetQuota(l))
	admin.POST("/mint", MintTokens(l))
	admin.POST("/retry", RetryCalls(l))

	r.GET("/state", GetState(l))
	config := r.Group("config")
	config.GET("/payment-service", GetPaymentService(l))
	config.GET("/registry-service", GetRegistryService(l))
	config.GET("/quota", GetQuota(l))

	r.GET("/participants", ListParticipants(l))
	r.GET("/participants/:address", GetParticipant(l))
	r.GET("/participants/:address/usage", GetQuotaUsage(l))
	r.GET("/balances/:address", GetBalance(l))
	r.GET("/collection", GetCollection(l))
	r.GET("/collection/owners/:address", GetAssetsOf(l))

	r.GET("/calls", ListCalls(l))
	r.GET("/calls/:trace", GetCall(l))
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if len(c.Errors) > 0 || c.Writer.Status() >= 500 {
			entry.Warnf("Http: request failed %s", c.Errors.String())
			return
		}
		entry.Debugf("Http: request served")
	}
}
