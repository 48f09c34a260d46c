package services

import (
	"context"

	"github.com/MixinNetwork/issuance/ledger"
)

type royaltyView struct {
	Address string `json:"address"`
	Rate    string `json:"rate"`
}

type extensionView struct {
	Name         *string        `json:"name,omitempty"`
	Description  *string        `json:"description,omitempty"`
	ExternalLink *string        `json:"external_link,omitempty"`
	Royalties    []*royaltyView `json:"royalties,omitempty"`
	InitPrice    string         `json:"init_price,omitempty"`
}

type mintAssetRequest struct {
	TraceId   string         `json:"trace_id"`
	TokenId   string         `json:"token_id"`
	Owner     string         `json:"owner"`
	TokenURI  string         `json:"token_uri"`
	Extension *extensionView `json:"extension"`
}

type collectionResponse struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type tokensResponse struct {
	Tokens []string `json:"tokens"`
}

// RegistryClient talks to the collectible registry holding the minted assets.
type RegistryClient struct {
	*client
}

func NewRegistryClient(endpoint string) *RegistryClient {
	return &RegistryClient{client: newClient(endpoint)}
}

func (rc *RegistryClient) MintAsset(ctx context.Context, service string, call *ledger.Call) error {
	body := &mintAssetRequest{
		TraceId:   call.TraceId,
		TokenId:   call.AssetId,
		Owner:     call.Recipient,
		TokenURI:  call.TokenURI,
		Extension: newExtensionView(call.Extension),
	}
	return rc.post(ctx, "/collections/{service}/mint", map[string]string{
		"service": service,
	}, body, nil)
}

func (rc *RegistryClient) CollectionInfo(ctx context.Context, service string) (*ledger.CollectionInfo, error) {
	var resp collectionResponse
	err := rc.get(ctx, "/collections/{service}", map[string]string{
		"service": service,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &ledger.CollectionInfo{Name: resp.Name, Symbol: resp.Symbol}, nil
}

func (rc *RegistryClient) AssetsOf(ctx context.Context, service, owner string) ([]string, error) {
	var resp tokensResponse
	err := rc.get(ctx, "/collections/{service}/owners/{owner}/tokens", map[string]string{
		"service": service,
		"owner":   owner,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Tokens == nil {
		return []string{}, nil
	}
	return resp.Tokens, nil
}

func newExtensionView(ext *ledger.Extension) *extensionView {
	if ext == nil {
		return &extensionView{}
	}
	view := &extensionView{
		Name:         ext.Name,
		Description:  ext.Description,
		ExternalLink: ext.ExternalLink,
	}
	for _, r := range ext.Royalties {
		view.Royalties = append(view.Royalties, &royaltyView{
			Address: r.Address,
			Rate:    r.Rate.String(),
		})
	}
	if ext.InitPrice != nil {
		view.InitPrice = ext.InitPrice.String()
	}
	return view
}
