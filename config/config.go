// Package config loads the node's run environment — chain name, store
// path, and RPC listen address — the way light-client-lib/src/types.rs's
// RunEnv does, but via github.com/spf13/viper instead of serde+toml: the
// idiomatic Go equivalent of "derive a config struct from a file format".
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// StoreConfig names where the embedded backend keeps its data.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// RPCConfig names the gateway's listen address.
type RPCConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// RunEnv is the full node configuration, mirroring RunEnv/StoreConfig/
// RpcConfig from the original Rust implementation.
type RunEnv struct {
	Chain   string      `mapstructure:"chain"`
	Mainnet bool        `mapstructure:"mainnet"`
	Store   StoreConfig `mapstructure:"store"`
	RPC     RPCConfig   `mapstructure:"rpc"`
}

// Defaults applied before a config file or environment overrides are
// layered in.
func defaults(v *viper.Viper) {
	v.SetDefault("chain", "ckb_testnet")
	v.SetDefault("mainnet", false)
	v.SetDefault("store.path", "./data")
	v.SetDefault("rpc.listen_address", "127.0.0.1:8114")
}

// Load reads path (TOML/YAML/JSON, detected by extension) into a RunEnv,
// with environment variable overrides under the LIGHT_CLIENT_ prefix
// (e.g. LIGHT_CLIENT_RPC_LISTEN_ADDRESS).
func Load(path string) (*RunEnv, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("LIGHT_CLIENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var env RunEnv
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("config: decoding run env: %w", err)
	}
	if env.Store.Path == "" {
		return nil, fmt.Errorf("config: store.path must not be empty")
	}
	return &env, nil
}
