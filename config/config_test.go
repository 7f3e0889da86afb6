package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	env, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "ckb_testnet", env.Chain)
	require.False(t, env.Mainnet)
	require.Equal(t, "./data", env.Store.Path)
	require.Equal(t, "127.0.0.1:8114", env.RPC.ListenAddress)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
chain = "ckb_mainnet"
mainnet = true

[store]
path = "/var/lib/lightclientd"

[rpc]
listen_address = "0.0.0.0:9114"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	env, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "ckb_mainnet", env.Chain)
	require.True(t, env.Mainnet)
	require.Equal(t, "/var/lib/lightclientd", env.Store.Path)
	require.Equal(t, "0.0.0.0:9114", env.RPC.ListenAddress)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
