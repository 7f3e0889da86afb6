package store

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RaheemJnr/Light-Client-Gateway/common"
)

func TestKeyPrefixOrdering(t *testing.T) {
	var codeHash common.Byte32
	script := common.Script{CodeHash: codeHash, HashType: common.HashTypeType, Args: []byte{1}}

	keys := [][]byte{
		TxHashKey(common.Byte32{1}),
		CellScriptKey(common.ScriptTypeLock, script, 0, 0, 0),
		CellScriptKey(common.ScriptTypeType, script, 0, 0, 0),
		TxHistoryKey(common.ScriptTypeLock, script, 0, 0, 0, common.IOTypeInput),
		TxHistoryKey(common.ScriptTypeType, script, 0, 0, 0, common.IOTypeInput),
		BlockHashKey(common.Byte32{2}),
		BlockNumberKey(0),
		CheckPointKey(0),
		FilterScriptsPrefix(),
	}

	sorted := append([][]byte(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })
	require.Equal(t, keys, sorted, "keys must already be in prefix-tag order")
}

func TestCellScriptKeyBlockNumberOrdering(t *testing.T) {
	var codeHash common.Byte32
	script := common.Script{CodeHash: codeHash, HashType: common.HashTypeType, Args: []byte{7}}

	low := CellScriptKey(common.ScriptTypeLock, script, 1, 0, 0)
	high := CellScriptKey(common.ScriptTypeLock, script, 2, 0, 0)
	require.True(t, bytes.Compare(low, high) < 0)

	// Same block, later tx index sorts after.
	a := CellScriptKey(common.ScriptTypeLock, script, 5, 0, 0)
	b := CellScriptKey(common.ScriptTypeLock, script, 5, 1, 0)
	require.True(t, bytes.Compare(a, b) < 0)
}

func TestParseTxHistoryKeyRoundTrip(t *testing.T) {
	var codeHash common.Byte32
	script := common.Script{CodeHash: codeHash, HashType: common.HashTypeType, Args: []byte{9, 9}}

	key := TxHistoryKey(common.ScriptTypeLock, script, 42, 3, 1, common.IOTypeOutput)
	entry := ParseTxHistoryKey(key, len(script.Raw()))
	require.Equal(t, uint64(42), entry.Block)
	require.Equal(t, uint32(3), entry.TxIndex)
	require.Equal(t, uint32(1), entry.IOIndex)
	require.Equal(t, common.IOTypeOutput, entry.IOType)
}

func TestParseMatchedBlocksKeyRoundTrip(t *testing.T) {
	key := MatchedBlocksKey(1234)
	require.Equal(t, uint64(1234), ParseMatchedBlocksKey(key))
}

func TestCellScriptPrefixIsKeyPrefix(t *testing.T) {
	var codeHash common.Byte32
	script := common.Script{CodeHash: codeHash, HashType: common.HashTypeType, Args: []byte{3}}

	prefix := CellScriptPrefix(common.ScriptTypeLock, script)
	key := CellScriptKey(common.ScriptTypeLock, script, 10, 0, 0)
	require.True(t, bytes.HasPrefix(key, prefix))
}
