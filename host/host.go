package host

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MixinNetwork/issuance/api"
	"github.com/MixinNetwork/issuance/ledger"
	"github.com/MixinNetwork/issuance/services"
	"github.com/MixinNetwork/mixin/logger"
)

type Host struct {
	ledger   *ledger.Ledger
	conf     *Configuration
	interval time.Duration
}

func BuildHost(ctx context.Context, store ledger.Store, conf *Configuration) (*Host, error) {
	payment := services.NewPaymentClient(conf.Payment.Endpoint)
	registry := services.NewRegistryClient(conf.Registry.Endpoint)
	return buildHost(store, payment, registry, conf)
}

func buildHost(store ledger.Store, payment ledger.PaymentService, registry ledger.CollectibleRegistry, conf *Configuration) (*Host, error) {
	l := ledger.NewLedger(store, payment, registry)
	err := l.Initialize(conf.Ledger.Owner)
	if err != nil {
		return nil, err
	}
	return &Host{
		ledger:   l,
		conf:     conf,
		interval: time.Duration(conf.Dispatch.IntervalMs) * time.Millisecond,
	}, nil
}

func (h *Host) Ledger() *ledger.Ledger {
	return h.ledger
}

// Run dispatches the pending calls until ctx is done. A batch stops at the
// first failed call, which is retried after the interval.
func (h *Host) Run(ctx context.Context) {
	for {
		n, err := h.ledger.DispatchCalls(ctx, h.conf.Dispatch.Batch)
		if err != nil {
			logger.Printf("Host.Run() => %d %v\n", n, err)
		}
		if err == nil && n == h.conf.Dispatch.Batch && ctx.Err() == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(h.interval):
		}
	}
}

// Serve runs the HTTP surface until ctx is done.
func (h *Host) Serve(ctx context.Context) error {
	s := &http.Server{
		Addr:           h.conf.HTTP.Listen,
		Handler:        api.InitRouter(h.ledger),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Shutdown(sctx)
	}()

	logger.Printf("Host.Serve(%s)\n", s.Addr)
	err := s.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
