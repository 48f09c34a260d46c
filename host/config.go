package host

import (
	"fmt"
	"os"

	"github.com/MixinNetwork/issuance/ledger"
	"github.com/pelletier/go-toml"
)

const (
	defaultListen   = "127.0.0.1:7088"
	defaultBatch    = 16
	defaultInterval = 3000
	defaultLogLevel = 2
)

type LedgerConfiguration struct {
	Owner string `toml:"owner"`
}

type HTTPConfiguration struct {
	Listen string `toml:"listen"`
}

type ServiceConfiguration struct {
	Endpoint string `toml:"endpoint"`
}

type DispatchConfiguration struct {
	Batch      int `toml:"batch"`
	IntervalMs int `toml:"interval_ms"`
	LogLevel   int `toml:"log_level"`
}

type Configuration struct {
	Ledger   LedgerConfiguration   `toml:"ledger"`
	HTTP     HTTPConfiguration     `toml:"http"`
	Payment  ServiceConfiguration  `toml:"payment"`
	Registry ServiceConfiguration  `toml:"registry"`
	Dispatch DispatchConfiguration `toml:"dispatch"`
}

func Setup(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Configuration, error) {
	var conf Configuration
	err := toml.Unmarshal(data, &conf)
	if err != nil {
		return nil, err
	}

	owner, err := ledger.CanonicalAddress(conf.Ledger.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid ledger owner %s", conf.Ledger.Owner)
	}
	conf.Ledger.Owner = owner
	if conf.Payment.Endpoint == "" || conf.Registry.Endpoint == "" {
		return nil, fmt.Errorf("missing service endpoints %q %q", conf.Payment.Endpoint, conf.Registry.Endpoint)
	}
	if conf.HTTP.Listen == "" {
		conf.HTTP.Listen = defaultListen
	}
	if conf.Dispatch.Batch < 1 {
		conf.Dispatch.Batch = defaultBatch
	}
	if conf.Dispatch.IntervalMs < 1 {
		conf.Dispatch.IntervalMs = defaultInterval
	}
	if conf.Dispatch.LogLevel < 1 {
		conf.Dispatch.LogLevel = defaultLogLevel
	}
	return &conf, nil
}
