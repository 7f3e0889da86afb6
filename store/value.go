package store

import (
	"encoding/binary"
	"fmt"

	"github.com/RaheemJnr/Light-Client-Gateway/chain"
	"github.com/RaheemJnr/Light-Client-Gateway/common"
)

// encodeTxValue builds the prefix-0 value: block_num(BE8) | tx_index(BE4)
// | tx_bytes.
func encodeTxValue(block uint64, txIndex uint32, txBytes []byte) []byte {
	v := make([]byte, 0, 12+len(txBytes))
	v = append(v, be8(block)...)
	v = append(v, be4(txIndex)...)
	v = append(v, txBytes...)
	return v
}

type txValue struct {
	Block   uint64
	TxIndex uint32
	TxBytes []byte
}

func decodeTxValue(v []byte) (txValue, error) {
	if len(v) < 12 {
		return txValue{}, fmt.Errorf("store: truncated tx value (%d bytes)", len(v))
	}
	return txValue{
		Block:   binary.BigEndian.Uint64(v[0:8]),
		TxIndex: binary.BigEndian.Uint32(v[8:12]),
		TxBytes: v[12:],
	}, nil
}

// matchedBlockEntry is one (hash, proved) pair within a matched-blocks
// ledger value.
type matchedBlockEntry struct {
	Hash   common.Byte32
	Proved bool
}

// encodeMatchedBlocksValue builds blocks_count(LE8) | [hash(32) |
// proved(1)]*.
func encodeMatchedBlocksValue(entries []matchedBlockEntry) []byte {
	v := make([]byte, 0, 8+33*len(entries))
	v = append(v, le8(uint64(len(entries)))...)
	for _, e := range entries {
		v = append(v, e.Hash[:]...)
		if e.Proved {
			v = append(v, 1)
		} else {
			v = append(v, 0)
		}
	}
	return v
}

func decodeMatchedBlocksValue(v []byte) ([]matchedBlockEntry, error) {
	if len(v) < 8 {
		return nil, fmt.Errorf("store: truncated matched-blocks value")
	}
	count := binary.LittleEndian.Uint64(v[0:8])
	entries := make([]matchedBlockEntry, 0, count)
	off := 8
	for i := uint64(0); i < count; i++ {
		if off+33 > len(v) {
			return nil, fmt.Errorf("store: truncated matched-blocks entry %d", i)
		}
		var h common.Byte32
		copy(h[:], v[off:off+32])
		entries = append(entries, matchedBlockEntry{Hash: h, Proved: v[off+32] != 0})
		off += 33
	}
	return entries, nil
}

// lastNHeadersEntry is one (number, hash) pair in the LAST_N_HEADERS
// singleton.
type lastNHeadersEntry struct {
	Number uint64
	Hash   common.Byte32
}

func encodeLastNHeaders(entries []lastNHeadersEntry) []byte {
	v := make([]byte, 0, 40*len(entries))
	for _, e := range entries {
		v = append(v, le8(e.Number)...)
		v = append(v, e.Hash[:]...)
	}
	return v
}

func decodeLastNHeaders(v []byte) ([]lastNHeadersEntry, error) {
	if len(v)%40 != 0 {
		return nil, fmt.Errorf("store: malformed LAST_N_HEADERS value (%d bytes)", len(v))
	}
	out := make([]lastNHeadersEntry, 0, len(v)/40)
	for off := 0; off < len(v); off += 40 {
		var h common.Byte32
		copy(h[:], v[off+8:off+40])
		out = append(out, lastNHeadersEntry{
			Number: binary.LittleEndian.Uint64(v[off : off+8]),
			Hash:   h,
		})
	}
	return out, nil
}

// lastState is the LAST_STATE singleton: total_difficulty(LE32) |
// tip_header.
type lastState struct {
	TotalDifficulty [32]byte
	TipHeader       chain.Header
}

func encodeLastState(totalDifficulty [32]byte, tip chain.Header) []byte {
	v := make([]byte, 0, 32+headerEncodedLen(tip))
	v = append(v, totalDifficulty[:]...)
	v = append(v, encodeHeader(tip)...)
	return v
}

func decodeLastState(v []byte) (lastState, error) {
	if len(v) < 32 {
		return lastState{}, fmt.Errorf("store: truncated LAST_STATE value")
	}
	var td [32]byte
	copy(td[:], v[:32])
	hdr, err := decodeHeader(v[32:])
	if err != nil {
		return lastState{}, err
	}
	return lastState{TotalDifficulty: td, TipHeader: hdr}, nil
}

// encodeHeader/decodeHeader implement the header_bytes(+extension?) value
// shape: number(BE8) | timestamp(BE8) | parent_hash(32) | ext_len(BE4) |
// extension.
func headerEncodedLen(h chain.Header) int { return 8 + 8 + 32 + 4 + len(h.Extension) }

func encodeHeader(h chain.Header) []byte {
	v := make([]byte, 0, headerEncodedLen(h))
	v = append(v, be8(h.Number)...)
	v = append(v, be8(h.Timestamp)...)
	v = append(v, h.ParentHash[:]...)
	v = append(v, be4(uint32(len(h.Extension)))...)
	v = append(v, h.Extension...)
	return v
}

func decodeHeader(v []byte) (chain.Header, error) {
	if len(v) < 52 {
		return chain.Header{}, fmt.Errorf("store: truncated header value")
	}
	number := binary.BigEndian.Uint64(v[0:8])
	timestamp := binary.BigEndian.Uint64(v[8:16])
	var parent common.Byte32
	copy(parent[:], v[16:48])
	extLen := binary.BigEndian.Uint32(v[48:52])
	if uint32(len(v)-52) < extLen {
		return chain.Header{}, fmt.Errorf("store: truncated header extension")
	}
	ext := append([]byte(nil), v[52:52+int(extLen)]...)
	return chain.Header{Number: number, Timestamp: timestamp, ParentHash: parent, Extension: ext}, nil
}

// encodeGenesisBlock builds genesis_hash(32) | concat(tx_hash_i).
func encodeGenesisBlock(genesisHash common.Byte32, txHashes []common.Byte32) []byte {
	v := make([]byte, 0, 32+32*len(txHashes))
	v = append(v, genesisHash[:]...)
	for _, h := range txHashes {
		v = append(v, h[:]...)
	}
	return v
}

func decodeGenesisBlock(v []byte) (common.Byte32, []common.Byte32, error) {
	if len(v) < 32 || len(v)%32 != 0 {
		return common.Byte32{}, nil, fmt.Errorf("store: malformed GENESIS_BLOCK value")
	}
	var hash common.Byte32
	copy(hash[:], v[:32])
	var txs []common.Byte32
	for off := 32; off < len(v); off += 32 {
		var h common.Byte32
		copy(h[:], v[off:off+32])
		txs = append(txs, h)
	}
	return hash, txs, nil
}
