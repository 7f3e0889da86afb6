// Package store implements the filtered light-client storage and
// indexing engine: the ordered KV codec, the filter-script registry, the
// check-point and matched-block ledgers, the chain index, and (in
// filter.go/rollback.go) the block-filter application and rollback
// algorithms.
package store

import (
	"bytes"
	"sort"
	"sync"

	"github.com/RaheemJnr/Light-Client-Gateway/chain"
	"github.com/RaheemJnr/Light-Client-Gateway/common"
	"github.com/RaheemJnr/Light-Client-Gateway/store/db"
)

// ScriptStatus is one entry of the filter-script registry: a script, its
// type, and the block number it is tracked from.
type ScriptStatus struct {
	Script      common.Script
	ScriptType  common.ScriptType
	BlockNumber uint64
}

// SetScriptsCommand selects update_filter_scripts' batch semantics
// (spec.md §4.3).
type SetScriptsCommand int

const (
	SetScriptsAll SetScriptsCommand = iota
	SetScriptsPartial
	SetScriptsDelete
)

// Storage is the filtered indexing engine over a single ordered KV
// backend. Per spec.md §5, a Storage has a single logical writer at a
// time; the mutex below is the embedded backend's enforcement of that
// (the Mailbox backend enforces it structurally via its single owning
// goroutine instead).
type Storage struct {
	db db.Database
	mu sync.Mutex
}

// New wraps backend as a Storage.
func New(backend db.Database) *Storage {
	return &Storage{db: backend}
}

func (s *Storage) Close() error { return s.db.Close() }

// --- 4.3 Filter-script registry -------------------------------------------------

// GetFilterScripts returns every registered script.
func (s *Storage) GetFilterScripts() ([]ScriptStatus, error) {
	it := s.db.NewIteratorWithPrefix(FilterScriptsPrefix(), db.Forward)
	defer it.Release()
	var out []ScriptStatus
	for it.Next() {
		ss, err := parseFilterScriptEntry(it.Key(), it.Value())
		if err != nil {
			return nil, invariantErr("parsing filter script entry", err)
		}
		out = append(out, ss)
	}
	return out, it.Error()
}

func parseFilterScriptEntry(key, value []byte) (ScriptStatus, error) {
	// key = Meta | "FILTER_SCRIPTS" | scriptRaw | script_type_byte
	prefixLen := len(FilterScriptsPrefix())
	if len(key) < prefixLen+34 {
		return ScriptStatus{}, invariantErr("truncated filter script key", nil)
	}
	raw := key[prefixLen : len(key)-1]
	scriptType := common.ScriptType(key[len(key)-1])
	script, err := parseScriptRaw(raw)
	if err != nil {
		return ScriptStatus{}, err
	}
	if len(value) != 8 {
		return ScriptStatus{}, invariantErr("truncated filter script value", nil)
	}
	return ScriptStatus{
		Script:      script,
		ScriptType:  scriptType,
		BlockNumber: beUint64(value),
	}, nil
}

func parseScriptRaw(raw []byte) (common.Script, error) {
	if len(raw) < 33 {
		return common.Script{}, invariantErr("truncated scriptRaw", nil)
	}
	var codeHash common.Byte32
	copy(codeHash[:], raw[:32])
	return common.Script{
		CodeHash: codeHash,
		HashType: common.HashType(raw[32]),
		Args:     append([]byte(nil), raw[33:]...),
	}, nil
}

func beUint64(b []byte) uint64 {
	var n uint64
	for _, x := range b {
		n = n<<8 | uint64(x)
	}
	return n
}

// IsFilterScriptsEmpty reports whether the registry has no entries.
func (s *Storage) IsFilterScriptsEmpty() (bool, error) {
	it := s.db.NewIteratorWithPrefix(FilterScriptsPrefix(), db.Forward)
	defer it.Release()
	return !it.Next(), it.Error()
}

// UpdateFilterScripts applies cmd to the registry and performs the
// required side effects (spec.md §4.3): recompute MIN_FILTERED_NUMBER,
// clear matched-blocks, and re-apply genesis for any new from_block == 0.
func (s *Storage) UpdateFilterScripts(scripts []ScriptStatus, cmd SetScriptsCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewBatch()
	switch cmd {
	case SetScriptsAll:
		existing, err := s.GetFilterScripts()
		if err != nil {
			return err
		}
		for _, e := range existing {
			if err := b.Delete(FilterScriptKey(e.Script, e.ScriptType)); err != nil {
				return backendErr("deleting filter script", err)
			}
		}
		for _, ss := range scripts {
			if err := b.Put(FilterScriptKey(ss.Script, ss.ScriptType), be8(ss.BlockNumber)); err != nil {
				return backendErr("putting filter script", err)
			}
		}
	case SetScriptsPartial:
		for _, ss := range scripts {
			if err := b.Put(FilterScriptKey(ss.Script, ss.ScriptType), be8(ss.BlockNumber)); err != nil {
				return backendErr("putting filter script", err)
			}
		}
	case SetScriptsDelete:
		for _, ss := range scripts {
			if err := b.Delete(FilterScriptKey(ss.Script, ss.ScriptType)); err != nil {
				return backendErr("deleting filter script", err)
			}
		}
	}
	if err := s.clearMatchedBlocksInBatch(b); err != nil {
		return err
	}
	if err := b.Write(); err != nil {
		return backendErr("committing update_filter_scripts", err)
	}

	remaining, err := s.GetFilterScripts()
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		min := remaining[0].BlockNumber
		for _, ss := range remaining[1:] {
			if ss.BlockNumber < min {
				min = ss.BlockNumber
			}
		}
		if err := s.updateMinFilteredBlockNumberLocked(min); err != nil {
			return err
		}
	}
	for _, ss := range scripts {
		if cmd != SetScriptsDelete && ss.BlockNumber == 0 {
			genesis, err := s.GetGenesisBlock()
			if err != nil {
				return err
			}
			if genesis != nil {
				if err := s.filterBlockLocked(genesis); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// UpdateBlockNumber bumps every registry entry whose from_block is
// strictly less than blockNumber, and never decreases one (spec.md §4.3,
// property P5 — rollback is the only decreasing path).
func (s *Storage) UpdateBlockNumber(blockNumber uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scripts, err := s.GetFilterScripts()
	if err != nil {
		return err
	}
	b := s.db.NewBatch()
	dirty := false
	for _, ss := range scripts {
		if ss.BlockNumber < blockNumber {
			if err := b.Put(FilterScriptKey(ss.Script, ss.ScriptType), be8(blockNumber)); err != nil {
				return backendErr("bumping filter script from_block", err)
			}
			dirty = true
		}
	}
	if !dirty {
		return nil
	}
	if err := b.Write(); err != nil {
		return backendErr("committing update_block_number", err)
	}
	return nil
}

// GetScriptsHash hashes the sorted set of registered scripts whose
// from_block is strictly less than "below", for use as a per-sync-round
// fingerprint of what is being tracked.
func (s *Storage) GetScriptsHash(below uint64) (common.Byte32, error) {
	scripts, err := s.GetFilterScripts()
	if err != nil {
		return common.Byte32{}, err
	}
	var raws [][]byte
	for _, ss := range scripts {
		if ss.BlockNumber < below {
			raws = append(raws, ss.Script.Raw())
		}
	}
	sort.Slice(raws, func(i, j int) bool { return bytes.Compare(raws[i], raws[j]) < 0 })
	var buf []byte
	for _, r := range raws {
		buf = append(buf, r...)
	}
	return chain.Hash(buf), nil
}

func (s *Storage) clearMatchedBlocksInBatch(b db.Batch) error {
	it := s.db.NewIteratorWithPrefix(MatchedBlocksPrefix(), db.Forward)
	defer it.Release()
	for it.Next() {
		if err := b.Delete(append([]byte(nil), it.Key()...)); err != nil {
			return backendErr("clearing matched blocks", err)
		}
	}
	return it.Error()
}

// --- 4.4 Check-points and matched-blocks ----------------------------------------

// GetCheckPoints returns up to limit consecutive check-point hashes
// starting at start, stopping at the first missing index.
func (s *Storage) GetCheckPoints(start uint32, limit uint32) ([]common.Byte32, error) {
	var out []common.Byte32
	for i := uint32(0); i < limit; i++ {
		v, err := s.db.Get(CheckPointKey(start + i))
		if err == db.ErrNotFound {
			break
		}
		if err != nil {
			return nil, backendErr("reading check point", err)
		}
		h, err := common.BytesToHash32(v)
		if err != nil {
			return nil, invariantErr("malformed check point value", err)
		}
		out = append(out, h)
	}
	return out, nil
}

// UpdateCheckPoints writes consecutive indices start, start+1, ... in one
// batch.
func (s *Storage) UpdateCheckPoints(start uint32, hashes []common.Byte32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewBatch()
	for i, h := range hashes {
		if err := b.Put(CheckPointKey(start+uint32(i)), h[:]); err != nil {
			return backendErr("putting check point", err)
		}
	}
	if err := b.Write(); err != nil {
		return backendErr("committing update_check_points", err)
	}
	return nil
}

func (s *Storage) GetMaxCheckPointIndex() (uint32, bool, error) {
	v, err := s.db.Get(keyMaxCheckPointIndex)
	if err == db.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, backendErr("reading max check point index", err)
	}
	if len(v) != 4 {
		return 0, false, invariantErr("malformed max check point index", nil)
	}
	return uint32(beUint64(v)), true, nil
}

func (s *Storage) UpdateMaxCheckPointIndex(index uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Put(keyMaxCheckPointIndex, be4(index)); err != nil {
		return backendErr("putting max check point index", err)
	}
	return nil
}

// GetLastCheckPoint returns the highest populated check-point.
func (s *Storage) GetLastCheckPoint() (index uint32, hash common.Byte32, ok bool, err error) {
	maxIdx, has, err := s.GetMaxCheckPointIndex()
	if err != nil || !has {
		return 0, common.Byte32{}, false, err
	}
	v, err := s.db.Get(CheckPointKey(maxIdx))
	if err == db.ErrNotFound {
		return 0, common.Byte32{}, false, nil
	}
	if err != nil {
		return 0, common.Byte32{}, false, backendErr("reading last check point", err)
	}
	h, err := common.BytesToHash32(v)
	if err != nil {
		return 0, common.Byte32{}, false, invariantErr("malformed check point value", err)
	}
	return maxIdx, h, true, nil
}

// AddMatchedBlocks records a new [start, start+count) matched-block range.
func (s *Storage) AddMatchedBlocks(start uint64, entries []matchedBlockEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Put(MatchedBlocksKey(start), encodeMatchedBlocksValue(entries)); err != nil {
		return backendErr("adding matched blocks", err)
	}
	return nil
}

// RemoveMatchedBlocks deletes the entry starting at start.
func (s *Storage) RemoveMatchedBlocks(start uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Delete(MatchedBlocksKey(start)); err != nil {
		return backendErr("removing matched blocks", err)
	}
	return nil
}

// GetEarliestMatchedBlocks returns the lowest-start_number entry.
func (s *Storage) GetEarliestMatchedBlocks() (start uint64, entries []matchedBlockEntry, ok bool, err error) {
	it := s.db.NewIteratorWithPrefix(MatchedBlocksPrefix(), db.Forward)
	defer it.Release()
	if !it.Next() {
		return 0, nil, false, it.Error()
	}
	start = ParseMatchedBlocksKey(it.Key())
	entries, err = decodeMatchedBlocksValue(it.Value())
	if err != nil {
		return 0, nil, false, invariantErr("malformed matched blocks entry", err)
	}
	return start, entries, true, nil
}

// GetLatestMatchedBlocks returns the highest-start_number entry.
func (s *Storage) GetLatestMatchedBlocks() (start uint64, entries []matchedBlockEntry, ok bool, err error) {
	it := s.db.NewIteratorWithPrefix(MatchedBlocksPrefix(), db.Reverse)
	defer it.Release()
	if !it.Next() {
		return 0, nil, false, it.Error()
	}
	start = ParseMatchedBlocksKey(it.Key())
	entries, err = decodeMatchedBlocksValue(it.Value())
	if err != nil {
		return 0, nil, false, invariantErr("malformed matched blocks entry", err)
	}
	return start, entries, true, nil
}

// CleanupInvalidMatchedBlocks runs at startup: pop the earliest entry,
// validate its contained blocks against stored headers, and drop it if
// invalid or too stale, stopping at the first entry that passes.
func (s *Storage) CleanupInvalidMatchedBlocks(tip uint64) error {
	for {
		start, entries, ok, err := s.GetEarliestMatchedBlocks()
		if err != nil || !ok {
			return err
		}
		count := uint64(len(entries))
		drop := false
		for _, e := range entries {
			hdr, found, err := s.GetHeader(e.Hash)
			if err != nil {
				return err
			}
			if found {
				if hdr.Number < start || hdr.Number >= start+count {
					drop = true
					break
				}
			} else if tip > start+1000 {
				drop = true
				break
			}
		}
		if !drop {
			return nil
		}
		if err := s.RemoveMatchedBlocks(start); err != nil {
			return err
		}
	}
}

// --- 4.5 Chain index -------------------------------------------------------------

// InitGenesisBlock is idempotent: a matching existing genesis is a no-op,
// a differing one is fatal (I5), absence triggers full initialization.
func (s *Storage) InitGenesisBlock(block *chain.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := block.Header.Hash()
	existing, err := s.db.Get(keyGenesisBlock)
	if err != nil && err != db.ErrNotFound {
		return backendErr("reading genesis block", err)
	}
	if err == nil {
		existingHash, _, decErr := decodeGenesisBlock(existing)
		if decErr != nil {
			return invariantErr("malformed genesis block record", decErr)
		}
		if existingHash != hash {
			return invariantErr("genesis hash mismatch", nil)
		}
		return nil
	}

	b := s.db.NewBatch()
	if err := b.Put(BlockHashKey(hash), encodeHeader(block.Header)); err != nil {
		return backendErr("writing genesis header", err)
	}
	if err := b.Put(BlockNumberKey(0), hash[:]); err != nil {
		return backendErr("writing genesis number index", err)
	}
	var txHashes []common.Byte32
	for i := range block.Transactions {
		tx := &block.Transactions[i]
		txHash := tx.Hash()
		txHashes = append(txHashes, txHash)
		if err := b.Put(TxHashKey(txHash), encodeTxValue(0, uint32(i), tx.Serialize())); err != nil {
			return backendErr("writing genesis tx", err)
		}
	}
	if err := b.Put(keyGenesisBlock, encodeGenesisBlock(hash, txHashes)); err != nil {
		return backendErr("writing genesis singleton", err)
	}
	var zeroDifficulty [32]byte
	if err := b.Put(keyLastState, encodeLastState(zeroDifficulty, block.Header)); err != nil {
		return backendErr("seeding last state", err)
	}
	genesisFilterHash := chain.Hash(block.Header.Extension)
	if err := b.Put(CheckPointKey(0), genesisFilterHash[:]); err != nil {
		return backendErr("seeding check point 0", err)
	}
	if err := b.Put(keyMaxCheckPointIndex, be4(0)); err != nil {
		return backendErr("seeding max check point index", err)
	}
	if err := b.Put(keyMinFilteredNumber, le8(0)); err != nil {
		return backendErr("seeding min filtered number", err)
	}
	if err := b.Write(); err != nil {
		return backendErr("committing init_genesis_block", err)
	}
	return nil
}

// GetGenesisBlock reassembles the genesis block from the genesis
// singleton and the stored transaction bodies, or returns nil if unset.
func (s *Storage) GetGenesisBlock() (*chain.Block, error) {
	hash, err := s.genesisHash()
	if err != nil || hash == nil {
		return nil, err
	}
	hdr, found, err := s.GetHeader(*hash)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, invariantErr("genesis header missing despite singleton", nil)
	}
	v, err := s.db.Get(keyGenesisBlock)
	if err != nil {
		return nil, backendErr("reading genesis singleton", err)
	}
	_, txHashes, err := decodeGenesisBlock(v)
	if err != nil {
		return nil, invariantErr("malformed genesis singleton", err)
	}
	var txs []chain.Transaction
	for _, h := range txHashes {
		tx, _, found, err := s.getTransactionBody(h)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, invariantErr("genesis tx missing", nil)
		}
		txs = append(txs, tx)
	}
	return &chain.Block{Header: hdr, Transactions: txs}, nil
}

func (s *Storage) genesisHash() (*common.Byte32, error) {
	v, err := s.db.Get(keyGenesisBlock)
	if err == db.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, backendErr("reading genesis singleton", err)
	}
	h, _, err := decodeGenesisBlock(v)
	if err != nil {
		return nil, invariantErr("malformed genesis singleton", err)
	}
	return &h, nil
}

// UpdateLastState rewrites the LAST_STATE and LAST_N_HEADERS singletons.
func (s *Storage) UpdateLastState(totalDifficulty [32]byte, tip chain.Header, lastN []lastNHeadersEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Put(keyLastState, encodeLastState(totalDifficulty, tip)); err != nil {
		return backendErr("updating last state", err)
	}
	if err := s.db.Put(keyLastNHeaders, encodeLastNHeaders(lastN)); err != nil {
		return backendErr("updating last n headers", err)
	}
	return nil
}

func (s *Storage) GetLastState() (total [32]byte, tip chain.Header, ok bool, err error) {
	v, err := s.db.Get(keyLastState)
	if err == db.ErrNotFound {
		return total, tip, false, nil
	}
	if err != nil {
		return total, tip, false, backendErr("reading last state", err)
	}
	ls, err := decodeLastState(v)
	if err != nil {
		return total, tip, false, invariantErr("malformed last state", err)
	}
	return ls.TotalDifficulty, ls.TipHeader, true, nil
}

func (s *Storage) GetTipHeader() (chain.Header, bool, error) {
	_, tip, ok, err := s.GetLastState()
	return tip, ok, err
}

func (s *Storage) GetLastNHeaders() ([]lastNHeadersEntry, error) {
	v, err := s.db.Get(keyLastNHeaders)
	if err == db.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, backendErr("reading last n headers", err)
	}
	out, err := decodeLastNHeaders(v)
	if err != nil {
		return nil, invariantErr("malformed last n headers", err)
	}
	return out, nil
}

// GetHeader looks up a header by block hash.
func (s *Storage) GetHeader(hash common.Byte32) (chain.Header, bool, error) {
	v, err := s.db.Get(BlockHashKey(hash))
	if err == db.ErrNotFound {
		return chain.Header{}, false, nil
	}
	if err != nil {
		return chain.Header{}, false, backendErr("reading header", err)
	}
	hdr, err := decodeHeader(v)
	if err != nil {
		return chain.Header{}, false, invariantErr("malformed header", err)
	}
	return hdr, true, nil
}

// AddFetchedHeader writes a header keyed by hash and its number->hash
// mapping.
func (s *Storage) AddFetchedHeader(h chain.Header) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash := h.Hash()
	b := s.db.NewBatch()
	if err := b.Put(BlockHashKey(hash), encodeHeader(h)); err != nil {
		return backendErr("writing fetched header", err)
	}
	if err := b.Put(BlockNumberKey(h.Number), hash[:]); err != nil {
		return backendErr("writing fetched header number index", err)
	}
	if err := b.Write(); err != nil {
		return backendErr("committing add_fetched_header", err)
	}
	return nil
}

// AddFetchedTx writes the tx body under prefix 0 with a sentinel
// out-of-block tx_index, plus its header (see AddFetchedHeader), per
// spec.md §4.5.
func (s *Storage) AddFetchedTx(tx chain.Transaction, h chain.Header) error {
	if err := s.AddFetchedHeader(h); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	txHash := tx.Hash()
	v := encodeTxValue(h.Number, txIndexOutOfBlock, tx.Serialize())
	if err := s.db.Put(TxHashKey(txHash), v); err != nil {
		return backendErr("writing fetched tx", err)
	}
	return nil
}

func (s *Storage) getTransactionBody(hash common.Byte32) (chain.Transaction, txValue, bool, error) {
	v, err := s.db.Get(TxHashKey(hash))
	if err == db.ErrNotFound {
		return chain.Transaction{}, txValue{}, false, nil
	}
	if err != nil {
		return chain.Transaction{}, txValue{}, false, backendErr("reading transaction", err)
	}
	tv, err := decodeTxValue(v)
	if err != nil {
		return chain.Transaction{}, txValue{}, false, invariantErr("malformed tx value", err)
	}
	tx, err := chain.Deserialize(tv.TxBytes)
	if err != nil {
		return chain.Transaction{}, txValue{}, false, invariantErr("malformed tx bytes", err)
	}
	return tx, tv, true, nil
}

// GetTransactionWithHeader returns a stored transaction plus the header
// of the block it was included in (if the tx_index is not the
// out-of-block sentinel and that block's header is present).
func (s *Storage) GetTransactionWithHeader(hash common.Byte32) (tx chain.Transaction, header *chain.Header, found bool, err error) {
	tx, tv, found, err := s.getTransactionBody(hash)
	if err != nil || !found {
		return chain.Transaction{}, nil, found, err
	}
	if tv.TxIndex == txIndexOutOfBlock {
		return tx, nil, true, nil
	}
	v, err := s.db.Get(BlockNumberKey(tv.Block))
	if err == db.ErrNotFound {
		return tx, nil, true, nil
	}
	if err != nil {
		return tx, nil, true, backendErr("resolving tx block hash", err)
	}
	blockHash, err := common.BytesToHash32(v)
	if err != nil {
		return tx, nil, true, invariantErr("malformed block number entry", err)
	}
	hdr, found, err := s.GetHeader(blockHash)
	if err != nil || !found {
		return tx, nil, true, err
	}
	return tx, &hdr, true, nil
}

// CellStatus is the result of a cell lookup: only Live/Unknown are
// distinguishable without a full UTXO set (spec.md §4.5).
type CellStatus int

const (
	CellUnknown CellStatus = iota
	CellLive
)

// Cell resolves an OutPoint against the stored transaction table.
func (s *Storage) Cell(op chain.OutPoint) (status CellStatus, output chain.CellOutput, data []byte, err error) {
	tx, _, found, err := s.getTransactionBody(op.TxHash)
	if err != nil {
		return CellUnknown, chain.CellOutput{}, nil, err
	}
	if !found || int(op.Index) >= len(tx.Outputs) {
		return CellUnknown, chain.CellOutput{}, nil, nil
	}
	var d []byte
	if int(op.Index) < len(tx.OutputsData) {
		d = tx.OutputsData[op.Index]
	}
	return CellLive, tx.Outputs[op.Index], d, nil
}

// --- Min filtered block number ----------------------------------------------------

func (s *Storage) GetMinFilteredBlockNumber() (uint64, error) {
	v, err := s.db.Get(keyMinFilteredNumber)
	if err == db.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, backendErr("reading min filtered number", err)
	}
	if len(v) != 8 {
		return 0, invariantErr("malformed min filtered number", nil)
	}
	var n uint64
	for i := 7; i >= 0; i-- {
		n = n<<8 | uint64(v[i])
	}
	return n, nil
}

func (s *Storage) UpdateMinFilteredBlockNumber(n uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateMinFilteredBlockNumberLocked(n)
}

// updateMinFilteredBlockNumberLocked is UpdateMinFilteredBlockNumber's body,
// callable by methods that already hold s.mu (sync.Mutex is not reentrant).
func (s *Storage) updateMinFilteredBlockNumberLocked(n uint64) error {
	if err := s.db.Put(keyMinFilteredNumber, le8(n)); err != nil {
		return backendErr("updating min filtered number", err)
	}
	return nil
}
