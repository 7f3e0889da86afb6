package gateway

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"

	"github.com/RaheemJnr/Light-Client-Gateway/common"
)

func TestAddressRoundTripCKB2021(t *testing.T) {
	var codeHash common.Byte32
	codeHash[5] = 0xAB
	script := common.Script{CodeHash: codeHash, HashType: common.HashTypeType, Args: []byte{1, 2, 3, 4, 5}}

	addr, err := EncodeAddress(script, false)
	require.NoError(t, err)
	require.Contains(t, addr, "ckt1")

	got, err := DecodeAddress(addr)
	require.NoError(t, err)
	require.True(t, got.Equal(script))
}

func TestAddressRoundTripMainnet(t *testing.T) {
	var codeHash common.Byte32
	codeHash[0] = 0xFF
	script := common.Script{CodeHash: codeHash, HashType: common.HashTypeData, Args: []byte{9, 9}}

	addr, err := EncodeAddress(script, true)
	require.NoError(t, err)
	require.Contains(t, addr, "ckb1")

	got, err := DecodeAddress(addr)
	require.NoError(t, err)
	require.True(t, got.Equal(script))
}

func TestDecodeAddressRejectsBadPrefix(t *testing.T) {
	var codeHash common.Byte32
	script := common.Script{CodeHash: codeHash, HashType: common.HashTypeType}
	addr, err := EncodeAddress(script, true)
	require.NoError(t, err)

	mutated := "xyz" + addr[3:]
	_, err = DecodeAddress(mutated)
	require.Error(t, err)
}

func TestDecodeAddressLegacyShortFormat(t *testing.T) {
	codeHash, err := common.HexToHash32(secp256k1CodeHashHex)
	require.NoError(t, err)

	args := make([]byte, 20)
	for i := range args {
		args[i] = byte(i)
	}
	payload := append([]byte{0x01, 0x00}, args...)

	data5, err := bech32.ConvertBits(payload, 8, 5, true)
	require.NoError(t, err)
	addr, err := bech32.Encode("ckt", data5)
	require.NoError(t, err)

	script, err := DecodeAddress(addr)
	require.NoError(t, err)
	require.Equal(t, codeHash, script.CodeHash)
	require.Equal(t, common.HashTypeType, script.HashType)
	require.Equal(t, args, script.Args)
}
