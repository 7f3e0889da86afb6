package store

import (
	"github.com/RaheemJnr/Light-Client-Gateway/chain"
	"github.com/RaheemJnr/Light-Client-Gateway/common"
	"github.com/RaheemJnr/Light-Client-Gateway/store/db"
)

// RollbackToBlock reverses every effect filter_block recorded for blocks
// with number >= to, for every script whose registered from_block >= to,
// and resets each such script's from_block to to (spec.md §4.7). A
// missing previous-tx for a rolled-back input is not fatal: the cell
// reconstruction is simply skipped, the history entry is still removed.
func (s *Storage) RollbackToBlock(to uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scripts, err := s.GetFilterScripts()
	if err != nil {
		return err
	}

	b := s.db.NewBatch()
	for _, fs := range scripts {
		if fs.BlockNumber < to {
			continue
		}
		if err := s.rollbackScript(b, fs, to); err != nil {
			return err
		}
		if err := b.Put(FilterScriptKey(fs.Script, fs.ScriptType), be8(to)); err != nil {
			return backendErr("resetting from_block", err)
		}
	}

	minFiltered, err := s.GetMinFilteredBlockNumber()
	if err != nil {
		return err
	}
	if minFiltered >= to {
		newMin := to
		if to > 0 {
			newMin = to - 1
		}
		if err := b.Put(keyMinFilteredNumber, le8(newMin)); err != nil {
			return backendErr("adjusting min filtered number", err)
		}
	}

	if err := b.Write(); err != nil {
		return backendErr("committing rollback_to_block", err)
	}
	return nil
}

// rollbackScript collects every TxLockScript/TxTypeScript entry for fs
// with block_number >= to (entries discovered in any order; they address
// disjoint keys, so the order they are queued in the batch does not
// matter) and queues its reversal.
func (s *Storage) rollbackScript(b db.Batch, fs ScriptStatus, to uint64) error {
	prefix := TxHistoryPrefix(fs.ScriptType, fs.Script)
	scriptRawLen := len(fs.Script.Raw())

	it := s.db.NewIteratorWithPrefix(prefix, db.Reverse)
	defer it.Release()

	type collected struct {
		key []byte
		val []byte
		e   TxHistoryEntry
	}
	var entries []collected
	for it.Next() {
		e := ParseTxHistoryKey(it.Key(), scriptRawLen)
		if e.Block < to {
			break
		}
		entries = append(entries, collected{
			key: append([]byte(nil), it.Key()...),
			val: append([]byte(nil), it.Value()...),
			e:   e,
		})
	}
	if err := it.Error(); err != nil {
		return backendErr("scanning tx history for rollback", err)
	}

	for _, c := range entries {
		txHash, err := common.BytesToHash32(c.val)
		if err != nil {
			return invariantErr("malformed tx history value", err)
		}
		if c.e.IOType == common.IOTypeInput {
			if err := s.recreateSpentCell(b, fs, txHash, c.e); err != nil {
				return err
			}
		} else {
			ck := CellScriptKey(fs.ScriptType, fs.Script, c.e.Block, c.e.TxIndex, c.e.IOIndex)
			if err := b.Delete(ck); err != nil {
				return backendErr("deleting output cell on rollback", err)
			}
		}
		if err := b.Delete(c.key); err != nil {
			return backendErr("deleting tx history entry on rollback", err)
		}
	}
	return nil
}

// recreateSpentCell restores the CellLockScript/CellTypeScript entry an
// input consumed, if its generating transaction is still resolvable.
func (s *Storage) recreateSpentCell(b db.Batch, fs ScriptStatus, txHash common.Byte32, e TxHistoryEntry) error {
	v, err := s.db.Get(TxHashKey(txHash))
	if err == db.ErrNotFound {
		return nil
	}
	if err != nil {
		return backendErr("reading tx for rollback", err)
	}
	tv, err := decodeTxValue(v)
	if err != nil {
		return invariantErr("malformed tx value", err)
	}
	tx, err := chain.Deserialize(tv.TxBytes)
	if err != nil {
		return invariantErr("malformed tx bytes", err)
	}
	if int(e.IOIndex) >= len(tx.Inputs) {
		return invariantErr("rollback input index out of range", nil)
	}
	prevOut := tx.Inputs[e.IOIndex].PreviousOutput

	prevV, err := s.db.Get(TxHashKey(prevOut.TxHash))
	if err == db.ErrNotFound {
		return nil
	}
	if err != nil {
		return backendErr("reading previous tx for rollback", err)
	}
	prevTV, err := decodeTxValue(prevV)
	if err != nil {
		return invariantErr("malformed previous tx value", err)
	}
	ck := CellScriptKey(fs.ScriptType, fs.Script, prevTV.Block, prevTV.TxIndex, prevOut.Index)
	if err := b.Put(ck, prevOut.TxHash[:]); err != nil {
		return backendErr("recreating spent cell on rollback", err)
	}
	return nil
}
