package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Page identifies the view currently shown
type Page int

const (
	PageAccount Page = iota
	PageNetworks
	PageHome
)

// Network is a static description of a chain the app can talk to
type Network struct {
	Name        string
	GenesisHash string
	RPCURL      string
	ScanBaseURL string
}

// AccountURL returns the block explorer link for an address
func (n Network) AccountURL(addr string) string {
	return strings.TrimRight(n.ScanBaseURL, "/") + "/address/" + addr
}

// IsTestnet reports whether faucet drops make sense on this network
func (n Network) IsTestnet() bool {
	return n.Name == TestnetName
}

const (
	TestnetName = "testnet"
	MainnetName = "mainnet"
)

// Config represents the application configuration, read from the environment
type Config struct {
	TestnetGenesisHash string `envconfig:"TESTNET_GENESIS_BLOCK_HASH" default:"0x25a5cc106eea7138acab33231d7160d69cb777ee0c2c553fcddf5138993e6dd9"`
	TestnetRPCURL      string `envconfig:"TESTNET_JSON_RPC_URL" default:"https://ethereum-sepolia-rpc.publicnode.com"`
	TestnetScanBaseURL string `envconfig:"TESTNET_SCAN_BASE_URL" default:"https://sepolia.etherscan.io"`
	TestnetFaucetURL   string `envconfig:"TESTNET_FAUCET_URL"`

	MainnetGenesisHash string `envconfig:"MAINNET_GENESIS_BLOCK_HASH" default:"0xd4e56740f876aef8c010b86a40d5f56745a118d0906a34e69aec8c0db1cb8fa3"`
	MainnetRPCURL      string `envconfig:"MAINNET_JSON_RPC_URL" default:"https://ethereum-rpc.publicnode.com"`
	MainnetScanBaseURL string `envconfig:"MAINNET_SCAN_BASE_URL" default:"https://etherscan.io"`

	Network string `envconfig:"NETWORK" default:"testnet"`

	KeystoreDir        string `envconfig:"KEYSTORE_DIR"`
	KeystoreAccount    string `envconfig:"KEYSTORE_ACCOUNT"`
	KeystorePassphrase string `envconfig:"KEYSTORE_PASSPHRASE"`
	ExternalSignerURL  string `envconfig:"EXTERNAL_SIGNER_URL" default:"http://localhost:8550"`
	WalletRPCURL       string `envconfig:"WALLET_RPC_URL"`

	Logger  bool   `envconfig:"LOGGER" default:"false"`
	LogFile string `envconfig:"LOG_FILE"`
}

// Load reads a .env file if there is one, then fills Config from the environment
func Load() (Config, error) {
	// A missing .env is fine: the variables may come from the shell.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.KeystoreDir == "" {
		homeDir, _ := os.UserHomeDir()
		cfg.KeystoreDir = filepath.Join(homeDir, ".ethereum", "keystore")
	}

	if _, ok := cfg.NetworkByName(cfg.Network); !ok {
		return Config{}, fmt.Errorf("unknown network %q (want %s or %s)", cfg.Network, TestnetName, MainnetName)
	}

	return cfg, nil
}

// Testnet returns the testnet description
func (c Config) Testnet() Network {
	return Network{
		Name:        TestnetName,
		GenesisHash: c.TestnetGenesisHash,
		RPCURL:      c.TestnetRPCURL,
		ScanBaseURL: c.TestnetScanBaseURL,
	}
}

// Mainnet returns the mainnet description
func (c Config) Mainnet() Network {
	return Network{
		Name:        MainnetName,
		GenesisHash: c.MainnetGenesisHash,
		RPCURL:      c.MainnetRPCURL,
		ScanBaseURL: c.MainnetScanBaseURL,
	}
}

// Networks lists the selectable networks, testnet first
func (c Config) Networks() []Network {
	return []Network{c.Testnet(), c.Mainnet()}
}

// NetworkByName looks up a network case-insensitively
func (c Config) NetworkByName(name string) (Network, bool) {
	for _, n := range c.Networks() {
		if strings.EqualFold(n.Name, strings.TrimSpace(name)) {
			return n, true
		}
	}
	return Network{}, false
}
