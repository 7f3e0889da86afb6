package store

import (
	"encoding/binary"

	"github.com/RaheemJnr/Light-Client-Gateway/common"
)

// KeyPrefix tags the first byte of every key in the store's single
// ordered keyspace (SPEC_FULL.md §3 / spec.md §3).
type KeyPrefix byte

const (
	PrefixTxHash          KeyPrefix = 0
	PrefixCellLockScript  KeyPrefix = 32
	PrefixCellTypeScript  KeyPrefix = 64
	PrefixTxLockScript    KeyPrefix = 96
	PrefixTxTypeScript    KeyPrefix = 128
	PrefixBlockHash       KeyPrefix = 160
	PrefixBlockNumber     KeyPrefix = 192
	PrefixCheckPointIndex KeyPrefix = 208
	PrefixMeta            KeyPrefix = 224
)

// Named Meta singletons/sub-prefixes, appended as ASCII after PrefixMeta.
const (
	metaLastState           = "LAST_STATE"
	metaGenesisBlock         = "GENESIS_BLOCK"
	metaFilterScripts        = "FILTER_SCRIPTS"
	metaMatchedBlocks        = "MATCHED_BLOCKS"
	metaMinFilteredNumber    = "MIN_FILTERED_NUMBER"
	metaMaxCheckPointIndex   = "MAX_CHECK_POINT_INDEX"
	metaLastNHeaders         = "LAST_N_HEADERS"
)

// txIndexOutOfBlock marks a transaction body fetched outside of any
// block (e.g. from the mempool) per spec.md §4.5's add_fetched_tx note.
const txIndexOutOfBlock = ^uint32(0)

func be8(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func be4(n uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return b
}

func le8(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}

// cellPrefix and historyPrefix map (ScriptType, cell-vs-history) to the
// key prefix byte, so callers never hand-pick a prefix constant themselves.
func cellPrefix(t common.ScriptType) KeyPrefix {
	if t == common.ScriptTypeType {
		return PrefixCellTypeScript
	}
	return PrefixCellLockScript
}

func historyPrefix(t common.ScriptType) KeyPrefix {
	if t == common.ScriptTypeType {
		return PrefixTxTypeScript
	}
	return PrefixTxLockScript
}

// TxHashKey encodes prefix 0: TxHash | byte32.
func TxHashKey(txHash common.Byte32) []byte {
	return append([]byte{byte(PrefixTxHash)}, txHash[:]...)
}

// scriptKeyPrefix encodes the fixed leading portion shared by every key
// under a given script (prefix | scriptRaw), used both to build full
// keys and to bound prefix scans.
func scriptKeyPrefix(p KeyPrefix, script common.Script) []byte {
	out := []byte{byte(p)}
	out = append(out, script.Raw()...)
	return out
}

// CellScriptKey encodes prefix 32/64: cell-by-script | script | block(BE8)
// | tx_index(BE4) | out_index(BE4).
func CellScriptKey(t common.ScriptType, script common.Script, block uint64, txIndex, outIndex uint32) []byte {
	k := scriptKeyPrefix(cellPrefix(t), script)
	k = append(k, be8(block)...)
	k = append(k, be4(txIndex)...)
	k = append(k, be4(outIndex)...)
	return k
}

// CellScriptPrefix bounds a prefix scan over all live UTXOs for script.
func CellScriptPrefix(t common.ScriptType, script common.Script) []byte {
	return scriptKeyPrefix(cellPrefix(t), script)
}

// TxHistoryKey encodes prefix 96/128: history-by-script | script |
// block(BE8) | tx_index(BE4) | io_index(BE4) | io_type(1). io_type trails
// so a reverse scan from prefix‖0xFF* lands on the highest block number
// regardless of io_type (spec.md §4.1).
func TxHistoryKey(t common.ScriptType, script common.Script, block uint64, txIndex, ioIndex uint32, io common.IOType) []byte {
	k := scriptKeyPrefix(historyPrefix(t), script)
	k = append(k, be8(block)...)
	k = append(k, be4(txIndex)...)
	k = append(k, be4(ioIndex)...)
	k = append(k, byte(io))
	return k
}

// TxHistoryPrefix bounds a prefix scan over all history entries for script.
func TxHistoryPrefix(t common.ScriptType, script common.Script) []byte {
	return scriptKeyPrefix(historyPrefix(t), script)
}

// TxHistoryEntry is a parsed prefix-96/128 key: the fixed coordinate
// window that sits before the trailing io_type byte (spec.md §4.1).
type TxHistoryEntry struct {
	Block     uint64
	TxIndex   uint32
	IOIndex   uint32
	IOType    common.IOType
}

// ParseTxHistoryKey extracts the coordinate window from a history key,
// given the length of the scriptRaw portion that precedes it (the caller
// knows this because it built the scan from a specific script).
func ParseTxHistoryKey(key []byte, scriptRawLen int) TxHistoryEntry {
	off := 1 + scriptRawLen
	return TxHistoryEntry{
		Block:   binary.BigEndian.Uint64(key[off : off+8]),
		TxIndex: binary.BigEndian.Uint32(key[off+8 : off+12]),
		IOIndex: binary.BigEndian.Uint32(key[off+12 : off+16]),
		IOType:  common.IOType(key[len(key)-1]),
	}
}

// BlockHashKey encodes prefix 160: BlockHash | byte32.
func BlockHashKey(hash common.Byte32) []byte {
	return append([]byte{byte(PrefixBlockHash)}, hash[:]...)
}

// BlockNumberKey encodes prefix 192: BlockNumber(BE8).
func BlockNumberKey(n uint64) []byte {
	return append([]byte{byte(PrefixBlockNumber)}, be8(n)...)
}

// CheckPointKey encodes prefix 208: CheckPointIndex(BE4).
func CheckPointKey(index uint32) []byte {
	return append([]byte{byte(PrefixCheckPointIndex)}, be4(index)...)
}

func metaKey(name string) []byte {
	return append([]byte{byte(PrefixMeta)}, []byte(name)...)
}

func metaSubKey(name string, sub []byte) []byte {
	k := metaKey(name)
	k = append(k, sub...)
	return k
}

var (
	keyLastState         = metaKey(metaLastState)
	keyGenesisBlock       = metaKey(metaGenesisBlock)
	keyMinFilteredNumber  = metaKey(metaMinFilteredNumber)
	keyMaxCheckPointIndex = metaKey(metaMaxCheckPointIndex)
	keyLastNHeaders       = metaKey(metaLastNHeaders)
)

// FilterScriptKey encodes Meta|FILTER_SCRIPTS|scriptBytes|script_type_byte.
func FilterScriptKey(script common.Script, t common.ScriptType) []byte {
	k := metaSubKey(metaFilterScripts, script.Raw())
	return append(k, byte(t))
}

// FilterScriptsPrefix bounds a scan over every registered filter script.
func FilterScriptsPrefix() []byte {
	return metaKey(metaFilterScripts)
}

// MatchedBlocksKey encodes Meta|MATCHED_BLOCKS|start_number(BE8).
func MatchedBlocksKey(start uint64) []byte {
	return metaSubKey(metaMatchedBlocks, be8(start))
}

// MatchedBlocksPrefix bounds a scan over every matched-block ledger entry.
func MatchedBlocksPrefix() []byte {
	return metaKey(metaMatchedBlocks)
}

// ParseMatchedBlocksKey extracts the start_number from a matched-blocks key.
func ParseMatchedBlocksKey(key []byte) uint64 {
	off := len(key) - 8
	return binary.BigEndian.Uint64(key[off:])
}
