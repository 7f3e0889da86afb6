package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RaheemJnr/Light-Client-Gateway/chain"
	"github.com/RaheemJnr/Light-Client-Gateway/common"
	"github.com/RaheemJnr/Light-Client-Gateway/store/db"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	backend, err := db.OpenLevelDB(t.TempDir(), 16, 16)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return New(backend)
}

func testScript(tag byte) common.Script {
	var codeHash common.Byte32
	codeHash[0] = tag
	return common.Script{CodeHash: codeHash, HashType: common.HashTypeType, Args: []byte{tag, tag}}
}

func genesisBlock() *chain.Block {
	tx := chain.Transaction{
		Outputs:     []chain.CellOutput{{Capacity: 100, Lock: testScript(0xAA)}},
		OutputsData: [][]byte{nil},
	}
	return &chain.Block{
		Header:       chain.Header{Number: 0, Timestamp: 1},
		Transactions: []chain.Transaction{tx},
	}
}

func TestSingleOutputReceive(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.InitGenesisBlock(genesisBlock()))

	scriptA := testScript(1)
	require.NoError(t, s.UpdateFilterScripts([]ScriptStatus{{Script: scriptA, ScriptType: common.ScriptTypeLock, BlockNumber: 0}}, SetScriptsPartial))

	block1 := &chain.Block{
		Header: chain.Header{Number: 1, Timestamp: 2, ParentHash: genesisBlock().Header.Hash()},
		Transactions: []chain.Transaction{{
			Outputs:     []chain.CellOutput{{Capacity: 1000, Lock: scriptA}},
			OutputsData: [][]byte{nil},
		}},
	}
	require.NoError(t, s.FilterBlock(block1))

	capacity, err := s.GetCellsCapacity(common.ScriptTypeLock, scriptA)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), capacity)

	hist, _, err := s.GetTxHistory(common.ScriptTypeLock, scriptA, 10, nil, false)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.Equal(t, common.IOTypeOutput, hist[0].IOType)
	require.Equal(t, uint32(0), hist[0].IOIndex)
}

func TestSpendToSelf(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.InitGenesisBlock(genesisBlock()))
	scriptA := testScript(1)
	require.NoError(t, s.UpdateFilterScripts([]ScriptStatus{{Script: scriptA, ScriptType: common.ScriptTypeLock, BlockNumber: 0}}, SetScriptsPartial))

	tx1 := chain.Transaction{
		Outputs:     []chain.CellOutput{{Capacity: 1000, Lock: scriptA}},
		OutputsData: [][]byte{nil},
	}
	block1 := &chain.Block{Header: chain.Header{Number: 1, Timestamp: 2}, Transactions: []chain.Transaction{tx1}}
	require.NoError(t, s.FilterBlock(block1))
	tx1Hash := tx1.Hash()

	tx2 := chain.Transaction{
		Inputs:      []chain.CellInput{{PreviousOutput: chain.OutPoint{TxHash: tx1Hash, Index: 0}}},
		Outputs:     []chain.CellOutput{{Capacity: 999, Lock: scriptA}},
		OutputsData: [][]byte{nil},
	}
	block2 := &chain.Block{Header: chain.Header{Number: 2, Timestamp: 3}, Transactions: []chain.Transaction{tx2}}
	require.NoError(t, s.FilterBlock(block2))

	capacity, err := s.GetCellsCapacity(common.ScriptTypeLock, scriptA)
	require.NoError(t, err)
	require.Equal(t, uint64(999), capacity)

	live, _, err := s.GetLiveCells(common.ScriptTypeLock, scriptA, 10, nil)
	require.NoError(t, err)
	require.Len(t, live, 1)

	hist, _, err := s.GetTxHistory(common.ScriptTypeLock, scriptA, 10, nil, false)
	require.NoError(t, err)
	var inputs, outputs int
	for _, h := range hist {
		if h.TxHash == tx2.Hash() {
			if h.IOType == common.IOTypeInput {
				inputs++
			} else {
				outputs++
			}
		}
	}
	require.Equal(t, 1, inputs)
	require.Equal(t, 1, outputs)
}

func TestRollbackToBlock(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.InitGenesisBlock(genesisBlock()))
	scriptA := testScript(1)
	require.NoError(t, s.UpdateFilterScripts([]ScriptStatus{{Script: scriptA, ScriptType: common.ScriptTypeLock, BlockNumber: 0}}, SetScriptsPartial))

	tx1 := chain.Transaction{Outputs: []chain.CellOutput{{Capacity: 1000, Lock: scriptA}}, OutputsData: [][]byte{nil}}
	block1 := &chain.Block{Header: chain.Header{Number: 1, Timestamp: 2}, Transactions: []chain.Transaction{tx1}}
	require.NoError(t, s.FilterBlock(block1))

	tx2 := chain.Transaction{
		Inputs:      []chain.CellInput{{PreviousOutput: chain.OutPoint{TxHash: tx1.Hash(), Index: 0}}},
		Outputs:     []chain.CellOutput{{Capacity: 999, Lock: scriptA}},
		OutputsData: [][]byte{nil},
	}
	block2 := &chain.Block{Header: chain.Header{Number: 2, Timestamp: 3}, Transactions: []chain.Transaction{tx2}}
	require.NoError(t, s.FilterBlock(block2))
	// Sync has advanced the script's from_block past block 2, so the
	// rollback below applies to it.
	require.NoError(t, s.UpdateBlockNumber(2))

	require.NoError(t, s.RollbackToBlock(2))

	capacity, err := s.GetCellsCapacity(common.ScriptTypeLock, scriptA)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), capacity)

	scripts, err := s.GetFilterScripts()
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	require.Equal(t, uint64(2), scripts[0].BlockNumber)
}

func TestFilterSetReplacementClearsMatchedBlocks(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.AddMatchedBlocks(10, []matchedBlockEntry{{Hash: common.Byte32{1}, Proved: false}}))

	scriptA := testScript(1)
	require.NoError(t, s.UpdateFilterScripts([]ScriptStatus{{Script: scriptA, ScriptType: common.ScriptTypeLock, BlockNumber: 5}}, SetScriptsAll))

	_, _, ok, err := s.GetEarliestMatchedBlocks()
	require.NoError(t, err)
	require.False(t, ok)

	scripts, err := s.GetFilterScripts()
	require.NoError(t, err)
	require.Len(t, scripts, 1)
	require.True(t, scripts[0].Script.Equal(scriptA))
}

func TestCheckPointScan(t *testing.T) {
	s := newTestStorage(t)
	hashes := make([]common.Byte32, 0, 101)
	for i := 0; i <= 100; i++ {
		var h common.Byte32
		h[0] = byte(i)
		h[1] = byte(i >> 8)
		hashes = append(hashes, h)
	}
	require.NoError(t, s.UpdateCheckPoints(0, hashes))

	got, err := s.GetCheckPoints(50, 20)
	require.NoError(t, err)
	require.Len(t, got, 20)
	for i, h := range got {
		require.Equal(t, hashes[50+i], h)
	}
}

func TestReverseHistoryScan(t *testing.T) {
	s := newTestStorage(t)
	scriptA := testScript(1)
	require.NoError(t, s.UpdateFilterScripts([]ScriptStatus{{Script: scriptA, ScriptType: common.ScriptTypeLock, BlockNumber: 0}}, SetScriptsPartial))

	for _, blockNum := range []uint64{10, 20, 30} {
		tx := chain.Transaction{Outputs: []chain.CellOutput{{Capacity: 1, Lock: scriptA}}, OutputsData: [][]byte{nil}}
		block := &chain.Block{Header: chain.Header{Number: blockNum, Timestamp: blockNum}, Transactions: []chain.Transaction{tx}}
		require.NoError(t, s.FilterBlock(block))
	}

	hist, _, err := s.GetTxHistory(common.ScriptTypeLock, scriptA, 10, nil, true)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	require.Equal(t, uint64(30), hist[0].Block)
	require.Equal(t, uint64(20), hist[1].Block)
	require.Equal(t, uint64(10), hist[2].Block)
}

func TestReverseHistoryScanPaginationDoesNotSkipCursorEntry(t *testing.T) {
	s := newTestStorage(t)
	scriptA := testScript(1)
	require.NoError(t, s.UpdateFilterScripts([]ScriptStatus{{Script: scriptA, ScriptType: common.ScriptTypeLock, BlockNumber: 0}}, SetScriptsPartial))

	blocks := []uint64{10, 20, 30, 40, 50}
	for _, blockNum := range blocks {
		tx := chain.Transaction{Outputs: []chain.CellOutput{{Capacity: 1, Lock: scriptA}}, OutputsData: [][]byte{nil}}
		block := &chain.Block{Header: chain.Header{Number: blockNum, Timestamp: blockNum}, Transactions: []chain.Transaction{tx}}
		require.NoError(t, s.FilterBlock(block))
	}

	var got []uint64
	var cursor []byte
	for {
		page, next, err := s.GetTxHistory(common.ScriptTypeLock, scriptA, 2, cursor, true)
		require.NoError(t, err)
		for _, e := range page {
			got = append(got, e.Block)
		}
		if next == nil {
			break
		}
		cursor = next
	}

	require.Equal(t, []uint64{50, 40, 30, 20, 10}, got, "paginated reverse scan must not drop the cursor entry at page boundaries")
}

func TestFilterBlockIdempotent(t *testing.T) {
	s := newTestStorage(t)
	scriptA := testScript(1)
	require.NoError(t, s.UpdateFilterScripts([]ScriptStatus{{Script: scriptA, ScriptType: common.ScriptTypeLock, BlockNumber: 0}}, SetScriptsPartial))

	block := &chain.Block{
		Header:       chain.Header{Number: 1, Timestamp: 1},
		Transactions: []chain.Transaction{{Outputs: []chain.CellOutput{{Capacity: 5, Lock: scriptA}}, OutputsData: [][]byte{nil}}},
	}
	require.NoError(t, s.FilterBlock(block))
	require.NoError(t, s.FilterBlock(block))

	capacity, err := s.GetCellsCapacity(common.ScriptTypeLock, scriptA)
	require.NoError(t, err)
	require.Equal(t, uint64(5), capacity)
}

func TestGenesisImmutability(t *testing.T) {
	s := newTestStorage(t)
	g := genesisBlock()
	require.NoError(t, s.InitGenesisBlock(g))
	require.NoError(t, s.InitGenesisBlock(g)) // same block: no-op

	other := genesisBlock()
	other.Header.Timestamp = 999 // different hash
	err := s.InitGenesisBlock(other)
	require.Error(t, err)
	var invErr *InvariantError
	require.ErrorAs(t, err, &invErr)
}
