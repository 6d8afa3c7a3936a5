package config

import (
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/vitelabs/wvite/common/types"
	"github.com/vitelabs/wvite/crypto"
)

const DefaultFileName = "wvite.config.json"

// Config identifies one wrapped-coin ledger instance. TokenName, ChainID and
// LedgerAddress feed the signed-approval domain separator, so two ledgers
// never accept each other's approval messages.
type Config struct {
	TokenName     string        `json:"TokenName"`
	TokenSymbol   string        `json:"TokenSymbol"`
	TokenDecimals uint8         `json:"TokenDecimals"`
	ChainID       uint64        `json:"ChainID"`
	LedgerAddress types.Address `json:"LedgerAddress"`

	// global keys
	DataDir  string `json:"DataDir"`
	LogLevel string `json:"LogLevel"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

// Load reads a JSON config file and fills defaults for absent keys.
func Load(path string) (*Config, error) {
	text, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s", path)
	}
	cfg := new(Config)
	if err := json.Unmarshal(text, cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshal config file %s", path)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (cfg *Config) fillDefaults() {
	if cfg.TokenName == "" {
		cfg.TokenName = "Wrapped Vite"
	}
	if cfg.TokenSymbol == "" {
		cfg.TokenSymbol = "WVITE"
	}
	if cfg.TokenDecimals == 0 {
		cfg.TokenDecimals = 18
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = 1
	}
	if cfg.LedgerAddress.IsZero() {
		cfg.LedgerAddress = defaultLedgerAddress(cfg.TokenSymbol)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "wvite-data"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// defaultLedgerAddress derives a stable identity from the token symbol for
// hosts that do not assign the ledger an address of its own.
func defaultLedgerAddress(symbol string) types.Address {
	addr, _ := types.BytesToAddress(crypto.Hash(types.AddressSize, []byte("wvite.ledger."+symbol)))
	return addr
}
