package store

import (
	"github.com/RaheemJnr/Light-Client-Gateway/chain"
	"github.com/RaheemJnr/Light-Client-Gateway/common"
	"github.com/RaheemJnr/Light-Client-Gateway/store/db"
)

// txLocation records where a transaction seen during filter_block was
// generated, so inputs that spend an intra-block output can still be
// resolved to their generating (block, tx_index) coordinates.
type txLocation struct {
	Block   uint64
	TxIndex uint32
	Tx      chain.Transaction
}

// FilterBlock applies block's effects to the UTXO and tx-history indexes
// for every script currently registered, in one atomic batch (spec.md
// §4.6). Replaying the same block is idempotent: the same keys receive
// the same values, so a retried call after a partial failure is safe.
func (s *Storage) FilterBlock(block *chain.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterBlockLocked(block)
}

// filterBlockLocked is FilterBlock's body, callable by methods that
// already hold s.mu (sync.Mutex is not reentrant).
func (s *Storage) filterBlockLocked(block *chain.Block) error {
	filterSet, err := s.GetFilterScripts()
	if err != nil {
		return err
	}

	b := s.db.NewBatch()
	seen := make(map[common.Byte32]txLocation, len(block.Transactions))
	matched := false

	for txIndex := range block.Transactions {
		tx := &block.Transactions[txIndex]
		txHash := tx.Hash()

		for inputIndex, in := range tx.Inputs {
			prevOut := in.PreviousOutput
			loc, output, found, err := s.resolveOutput(prevOut, seen)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			touched := false
			for _, fs := range filterSet {
				if !cellMatches(fs, output) {
					continue
				}
				if err := b.Delete(CellScriptKey(fs.ScriptType, fs.Script, loc.Block, loc.TxIndex, prevOut.Index)); err != nil {
					return backendErr("deleting spent cell", err)
				}
				key := TxHistoryKey(fs.ScriptType, fs.Script, block.Header.Number, uint32(txIndex), uint32(inputIndex), common.IOTypeInput)
				if err := b.Put(key, txHash[:]); err != nil {
					return backendErr("writing input history", err)
				}
				touched = true
			}
			if touched {
				matched = true
			}
		}

		for outputIndex, out := range tx.Outputs {
			touched := false
			for _, fs := range filterSet {
				if !cellMatches(fs, out) {
					continue
				}
				ck := CellScriptKey(fs.ScriptType, fs.Script, block.Header.Number, uint32(txIndex), uint32(outputIndex))
				if err := b.Put(ck, txHash[:]); err != nil {
					return backendErr("writing live cell", err)
				}
				hk := TxHistoryKey(fs.ScriptType, fs.Script, block.Header.Number, uint32(txIndex), uint32(outputIndex), common.IOTypeOutput)
				if err := b.Put(hk, txHash[:]); err != nil {
					return backendErr("writing output history", err)
				}
				touched = true
			}
			if touched {
				matched = true
			}
		}

		if matched {
			if err := b.Put(TxHashKey(txHash), encodeTxValue(block.Header.Number, uint32(txIndex), tx.Serialize())); err != nil {
				return backendErr("writing tx body", err)
			}
		}
		seen[txHash] = txLocation{Block: block.Header.Number, TxIndex: uint32(txIndex), Tx: *tx}
	}

	if matched {
		hash := block.Header.Hash()
		if err := b.Put(BlockHashKey(hash), encodeHeader(block.Header)); err != nil {
			return backendErr("writing matched block header", err)
		}
		if err := b.Put(BlockNumberKey(block.Header.Number), hash[:]); err != nil {
			return backendErr("writing matched block number index", err)
		}
	}

	if err := b.Write(); err != nil {
		return backendErr("committing filter_block", err)
	}
	return nil
}

// resolveOutput looks up the output an input spends, first among
// transactions already seen earlier in this same block, then in
// persistent storage.
func (s *Storage) resolveOutput(op chain.OutPoint, seen map[common.Byte32]txLocation) (txLocation, chain.CellOutput, bool, error) {
	if loc, ok := seen[op.TxHash]; ok {
		if int(op.Index) >= len(loc.Tx.Outputs) {
			return txLocation{}, chain.CellOutput{}, false, nil
		}
		return loc, loc.Tx.Outputs[op.Index], true, nil
	}
	v, err := s.db.Get(TxHashKey(op.TxHash))
	if err == db.ErrNotFound {
		return txLocation{}, chain.CellOutput{}, false, nil
	}
	if err != nil {
		return txLocation{}, chain.CellOutput{}, false, backendErr("resolving previous output", err)
	}
	tv, err := decodeTxValue(v)
	if err != nil {
		return txLocation{}, chain.CellOutput{}, false, invariantErr("malformed tx value", err)
	}
	tx, err := chain.Deserialize(tv.TxBytes)
	if err != nil {
		return txLocation{}, chain.CellOutput{}, false, invariantErr("malformed tx bytes", err)
	}
	if int(op.Index) >= len(tx.Outputs) {
		return txLocation{}, chain.CellOutput{}, false, nil
	}
	return txLocation{Block: tv.Block, TxIndex: tv.TxIndex, Tx: tx}, tx.Outputs[op.Index], true, nil
}

// cellMatches reports whether out carries the script fs names, in the
// role (Lock/Type) fs specifies.
func cellMatches(fs ScriptStatus, out chain.CellOutput) bool {
	switch fs.ScriptType {
	case common.ScriptTypeLock:
		return out.Lock.Equal(fs.Script)
	case common.ScriptTypeType:
		return out.TypeExists && out.Type != nil && out.Type.Equal(fs.Script)
	default:
		return false
	}
}
