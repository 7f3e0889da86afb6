package store

import (
	"github.com/RaheemJnr/Light-Client-Gateway/chain"
	"github.com/RaheemJnr/Light-Client-Gateway/common"
	"github.com/RaheemJnr/Light-Client-Gateway/store/db"
)

// LiveCell is one entry of the CellLockScript/CellTypeScript index: a
// live UTXO identified by the transaction that generated it.
type LiveCell struct {
	TxHash  common.Byte32
	Block   uint64
	TxIndex uint32
	Index   uint32
}

// GetLiveCells scans the live-cell index for script/scriptType in
// ascending key order, returning up to limit entries starting at cursor
// (nil cursor starts at the beginning). The returned cursor, if non-nil,
// is the key of the first entry not returned; pass it back to resume the
// scan with that entry.
func (s *Storage) GetLiveCells(t common.ScriptType, script common.Script, limit int, cursor []byte) ([]LiveCell, []byte, error) {
	prefix := CellScriptPrefix(t, script)
	start := prefix
	if cursor != nil {
		start = cursor
	}
	end := prefixUpperBound(prefix)

	it := s.db.NewIteratorRange(start, end, db.Forward)
	defer it.Release()

	var out []LiveCell
	var next []byte
	for it.Next() {
		if len(out) >= limit {
			next = append([]byte(nil), it.Key()...)
			break
		}
		key := it.Key()
		off := len(prefix)
		txHash, err := common.BytesToHash32(it.Value())
		if err != nil {
			return nil, nil, invariantErr("malformed live cell value", err)
		}
		out = append(out, LiveCell{
			TxHash:  txHash,
			Block:   beUint64(key[off : off+8]),
			TxIndex: uint32(beUint64(key[off+8 : off+12])),
			Index:   uint32(beUint64(key[off+12 : off+16])),
		})
	}
	if err := it.Error(); err != nil {
		return nil, nil, backendErr("scanning live cells", err)
	}
	return out, next, nil
}

// GetCellsCapacity sums the capacity of every live cell for script by
// resolving each entry's generating transaction.
func (s *Storage) GetCellsCapacity(t common.ScriptType, script common.Script) (uint64, error) {
	var total uint64
	cursor := []byte(nil)
	for {
		cells, next, err := s.GetLiveCells(t, script, 256, cursor)
		if err != nil {
			return 0, err
		}
		for _, c := range cells {
			_, out, _, err := s.Cell(outPointOf(c))
			if err != nil {
				return 0, err
			}
			total += out.Capacity
		}
		if next == nil {
			break
		}
		cursor = next
	}
	return total, nil
}

func outPointOf(c LiveCell) chain.OutPoint { return chain.OutPoint{TxHash: c.TxHash, Index: c.Index} }

// HistoryEntry is one entry of the TxLockScript/TxTypeScript index.
type HistoryEntry struct {
	TxHash  common.Byte32
	Block   uint64
	TxIndex uint32
	IOIndex uint32
	IOType  common.IOType
}

// GetTxHistory scans the tx-history index for script/scriptType. When
// reverse is true it walks from the highest block number down (used for
// "most recent first" pagination), matching the reverse-scan trick
// described in spec.md §4.1 (io_type trails so the highest-block entry is
// found regardless of io_type).
func (s *Storage) GetTxHistory(t common.ScriptType, script common.Script, limit int, cursor []byte, reverse bool) ([]HistoryEntry, []byte, error) {
	prefix := TxHistoryPrefix(t, script)
	dir := db.Forward
	if reverse {
		dir = db.Reverse
	}

	var it db.Iterator
	if cursor != nil {
		if reverse {
			// NewIteratorRange's end bound is exclusive, but cursor is the
			// first unreturned entry from the previous page and must be
			// included in this one; inclusiveUpperBound(cursor) is the
			// smallest key strictly greater than cursor, so the range
			// [prefix, inclusiveUpperBound(cursor)) still contains cursor.
			it = s.db.NewIteratorRange(prefix, inclusiveUpperBound(cursor), db.Reverse)
		} else {
			it = s.db.NewIteratorRange(cursor, prefixUpperBound(prefix), db.Forward)
		}
	} else {
		it = s.db.NewIteratorWithPrefix(prefix, dir)
	}
	defer it.Release()

	scriptRawLen := len(script.Raw())
	var out []HistoryEntry
	var next []byte
	for it.Next() {
		if len(out) >= limit {
			next = append([]byte(nil), it.Key()...)
			break
		}
		e := ParseTxHistoryKey(it.Key(), scriptRawLen)
		txHash, err := common.BytesToHash32(it.Value())
		if err != nil {
			return nil, nil, invariantErr("malformed history value", err)
		}
		out = append(out, HistoryEntry{
			TxHash:  txHash,
			Block:   e.Block,
			TxIndex: e.TxIndex,
			IOIndex: e.IOIndex,
			IOType:  e.IOType,
		})
	}
	if err := it.Error(); err != nil {
		return nil, nil, backendErr("scanning tx history", err)
	}
	return out, next, nil
}

// inclusiveUpperBound returns the smallest key strictly greater than key,
// for use as an exclusive range Limit that must still admit key itself
// (goleveldb's util.Range.Limit is exclusive, so callers that want key
// as the last entry returned pass this instead of key).
func inclusiveUpperBound(key []byte) []byte {
	out := make([]byte, len(key)+1)
	copy(out, key)
	return out
}

// prefixUpperBound returns the exclusive upper bound of the keyspace
// range starting with prefix (prefix incremented at its last byte that
// isn't already 0xFF, mirroring goleveldb's util.BytesPrefix logic).
func prefixUpperBound(prefix []byte) []byte {
	limit := append([]byte(nil), prefix...)
	for i := len(limit) - 1; i >= 0; i-- {
		if limit[i] < 0xff {
			limit[i]++
			return limit[:i+1]
		}
	}
	return nil // prefix is all 0xFF: unbounded above
}
