package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/MixinNetwork/issuance/ledger"
	"github.com/MixinNetwork/issuance/store"
	"github.com/gin-gonic/gin"
	"lukechampine.com/uint128"
)

const (
	testOwner    = "e9e5b807-fa8b-455a-8dfa-b189d28310ff"
	testPayment  = "0x9fB1d4A5eFa0E7E3E2aF5b19A3Bc9dE0a1F2c3D4"
	testRegistry = "0x34E1AeB8AED83B87F1873dF24A0454d4bcFd7B04"
	testAlice    = "a1b6f7e0-6c52-4d8e-a6a2-62b5f43c8f11"
)

type nopServices struct{}

func (nopServices) Transfer(ctx context.Context, service string, call *ledger.Call) error {
	return nil
}

func (nopServices) Mint(ctx context.Context, service string, call *ledger.Call) error {
	return nil
}

func (nopServices) Balance(ctx context.Context, service, address string) (uint128.Uint128, error) {
	return uint128.New(0, 1), nil
}

func (nopServices) MintAsset(ctx context.Context, service string, call *ledger.Call) error {
	return nil
}

func (nopServices) CollectionInfo(ctx context.Context, service string) (*ledger.CollectionInfo, error) {
	return &ledger.CollectionInfo{Name: "Hope", Symbol: "HOPE"}, nil
}

func (nopServices) AssetsOf(ctx context.Context, service, owner string) ([]string, error) {
	return []string{"Hope.0"}, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	bs, err := store.OpenBadger(context.Background(), "")
	if err != nil {
		t.Fatalf("OpenBadger() => %v", err)
	}
	t.Cleanup(func() { bs.Close() })
	l := ledger.NewLedger(bs, nopServices{}, nopServices{})
	err = l.Initialize(testOwner)
	if err != nil {
		t.Fatalf("Initialize() => %v", err)
	}
	return InitRouter(l)
}

func perform(r *gin.Engine, method, path string, body any) (int, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func configure(t *testing.T, r *gin.Engine, quota string) {
	status, resp := perform(r, "POST", "/admin/payment-service", gin.H{"sender": testOwner, "address": testPayment})
	if status != http.StatusOK {
		t.Fatalf("POST /admin/payment-service => %d %v", status, resp)
	}
	status, resp = perform(r, "POST", "/admin/registry-service", gin.H{"sender": testOwner, "address": testRegistry})
	if status != http.StatusOK {
		t.Fatalf("POST /admin/registry-service => %d %v", status, resp)
	}
	status, resp = perform(r, "POST", "/admin/quota", gin.H{"sender": testOwner, "amount": quota})
	if status != http.StatusOK {
		t.Fatalf("POST /admin/quota => %d %v", status, resp)
	}
}

func deposit(r *gin.Engine, beneficiary string) (int, map[string]any) {
	return perform(r, "POST", "/deposits", gin.H{
		"sender":      testPayment,
		"beneficiary": beneficiary,
		"amount":      "1000000",
		"metadata": gin.H{
			"name":      "hope",
			"image_uri": "ipfs://hope.png",
			"royalties": []gin.H{{"address": testOwner, "rate": "0.1"}},
		},
	})
}

func TestDepositFlow(t *testing.T) {
	r := setupRouter(t)

	status, resp := perform(r, "GET", "/config/quota", nil)
	if status != http.StatusPreconditionFailed || resp["error"] == nil {
		t.Fatalf("GET /config/quota => %d %v", status, resp)
	}

	configure(t, r, "1")
	status, resp = deposit(r, testAlice)
	if status != http.StatusOK {
		t.Fatalf("POST /deposits => %d %v", status, resp)
	}
	calls := resp["calls"].([]any)
	if len(calls) != 2 {
		t.Fatalf("POST /deposits => %v", calls)
	}
	transfer := calls[0].(map[string]any)
	mint := calls[1].(map[string]any)
	if transfer["kind"] != "transfer" || transfer["amount"] != "1000000" || transfer["recipient"] != testOwner {
		t.Fatalf("transfer => %v", transfer)
	}
	if mint["kind"] != "mint_asset" || mint["asset_id"] != "Hope.0" || mint["state"] != "initial" {
		t.Fatalf("mint => %v", mint)
	}

	status, resp = deposit(r, testAlice)
	if status != http.StatusConflict {
		t.Fatalf("POST /deposits => %d %v", status, resp)
	}

	status, resp = perform(r, "GET", "/state", nil)
	if status != http.StatusOK || resp["total_issued"] != "1" || resp["owner"] != testOwner {
		t.Fatalf("GET /state => %d %v", status, resp)
	}
	status, resp = perform(r, "GET", "/participants/"+testAlice+"/usage", nil)
	if status != http.StatusOK || resp["owned"] != "1" {
		t.Fatalf("GET usage => %d %v", status, resp)
	}
	status, resp = perform(r, "GET", "/participants/"+testAlice, nil)
	if status != http.StatusOK || len(resp["assets"].([]any)) != 1 {
		t.Fatalf("GET participant => %d %v", status, resp)
	}
	status, resp = perform(r, "GET", "/calls?limit=1", nil)
	if status != http.StatusOK || len(resp["calls"].([]any)) != 1 {
		t.Fatalf("GET /calls => %d %v", status, resp)
	}
	trace := transfer["trace_id"].(string)
	status, resp = perform(r, "GET", "/calls/"+trace, nil)
	if status != http.StatusOK || resp["trace_id"] != trace {
		t.Fatalf("GET /calls/%s => %d %v", trace, status, resp)
	}
}

func TestErrorStatus(t *testing.T) {
	r := setupRouter(t)
	configure(t, r, "5")

	status, _ := perform(r, "POST", "/admin/quota", gin.H{"sender": testAlice, "amount": "9"})
	if status != http.StatusForbidden {
		t.Fatalf("POST /admin/quota => %d", status)
	}
	status, _ = perform(r, "POST", "/admin/quota", gin.H{"sender": testOwner, "amount": "-1"})
	if status != http.StatusBadRequest {
		t.Fatalf("POST /admin/quota => %d", status)
	}
	status, _ = deposit(r, "nobody")
	if status != http.StatusBadRequest {
		t.Fatalf("POST /deposits => %d", status)
	}
	status, _ = perform(r, "GET", "/participants/"+testAlice, nil)
	if status != http.StatusNotFound {
		t.Fatalf("GET participant => %d", status)
	}
	status, _ = perform(r, "GET", "/calls?limit=x", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("GET /calls => %d", status)
	}
	status, resp := perform(r, "POST", "/admin/mint", gin.H{"sender": testOwner, "beneficiary": testAlice, "amount": "10"})
	if status != http.StatusOK || resp["kind"] != "mint_tokens" {
		t.Fatalf("POST /admin/mint => %d %v", status, resp)
	}
}

func TestServiceQueries(t *testing.T) {
	r := setupRouter(t)
	configure(t, r, "5")

	status, resp := perform(r, "GET", "/balances/"+testAlice, nil)
	if status != http.StatusOK || resp["balance"] != "18446744073709551616" {
		t.Fatalf("GET /balances => %d %v", status, resp)
	}
	status, resp = perform(r, "GET", "/collection", nil)
	if status != http.StatusOK || resp["symbol"] != "HOPE" {
		t.Fatalf("GET /collection => %d %v", status, resp)
	}
	status, resp = perform(r, "GET", "/collection/owners/"+testAlice, nil)
	if status != http.StatusOK || len(resp["tokens"].([]any)) != 1 {
		t.Fatalf("GET /collection/owners => %d %v", status, resp)
	}
	payment, _ := ledger.CanonicalAddress(testPayment)
	status, resp = perform(r, "GET", "/config/payment-service", nil)
	if status != http.StatusOK || resp["address"] != payment {
		t.Fatalf("GET /config/payment-service => %d %v", status, resp)
	}
	status, resp = perform(r, "GET", "/participants", nil)
	if status != http.StatusOK || len(resp["participants"].([]any)) != 0 {
		t.Fatalf("GET /participants => %d %v", status, resp)
	}
}

func TestCallsLimit(t *testing.T) {
	r := setupRouter(t)
	configure(t, r, "5")

	for i := 0; i < maxCallsLimit+1; i++ {
		status, resp := perform(r, "POST", "/admin/mint", gin.H{"sender": testOwner, "beneficiary": testAlice, "amount": strconv.Itoa(i + 1)})
		if status != http.StatusOK {
			t.Fatalf("POST /admin/mint => %d %v", status, resp)
		}
	}
	for path, want := range map[string]int{
		"/calls":              defaultCallsLimit,
		"/calls?limit=0":      maxCallsLimit,
		"/calls?limit=9999":   maxCallsLimit,
		"/calls?limit=3":      3,
		"/calls?state=failed": 0,
	} {
		status, resp := perform(r, "GET", path, nil)
		if status != http.StatusOK || len(resp["calls"].([]any)) != want {
			t.Fatalf("GET %s => %d %d", path, status, len(resp["calls"].([]any)))
		}
	}
	status, _ := perform(r, "GET", "/calls?state=done", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("GET /calls?state=done => %d", status)
	}
}

func TestRetryCalls(t *testing.T) {
	r := setupRouter(t)
	configure(t, r, "5")

	status, resp := perform(r, "POST", "/admin/retry", gin.H{"sender": testOwner, "trace_id": "c4c2d7d1-3c9b-4d53-8d45-0f0b3bf3f2f7"})
	if status != http.StatusNotFound {
		t.Fatalf("POST /admin/retry => %d %v", status, resp)
	}
	status, resp = perform(r, "POST", "/admin/mint", gin.H{"sender": testOwner, "beneficiary": testAlice, "amount": "10"})
	if status != http.StatusOK {
		t.Fatalf("POST /admin/mint => %d %v", status, resp)
	}
	trace := resp["request_id"].(string)
	status, resp = perform(r, "POST", "/admin/retry", gin.H{"sender": testAlice, "trace_id": trace})
	if status != http.StatusForbidden {
		t.Fatalf("POST /admin/retry => %d %v", status, resp)
	}
	status, resp = perform(r, "POST", "/admin/retry", gin.H{"sender": testOwner, "trace_id": trace})
	if status != http.StatusOK || resp["retried"] != float64(0) {
		t.Fatalf("POST /admin/retry => %d %v", status, resp)
	}
}
