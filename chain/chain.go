// Package chain models the minimal CKB block/transaction shapes the
// storage engine needs to index: headers, transactions, cells, and their
// blake2b hashes. It is not a molecule wire codec (out of scope per
// SPEC_FULL.md's Non-goals) — only the fields the filter-application and
// rollback algorithms touch are represented.
package chain

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/RaheemJnr/Light-Client-Gateway/common"
)

// ckbHashPersonal is CKB's blake2b personalization, "ckb-default-hash",
// matching ckb_hash::new_blake2b in the reference implementation.
var ckbHashPersonal = [16]byte{'c', 'k', 'b', '-', 'd', 'e', 'f', 'a', 'u', 'l', 't', '-', 'h', 'a', 's', 'h'}

// Hash computes the CKB default blake2b-256 hash of b.
func Hash(b []byte) common.Byte32 {
	h, err := blake2b.New256WithPerson(ckbHashPersonal[:])
	if err != nil {
		// blake2b.New256WithPerson only fails on a bad key/person length,
		// which is a fixed 16-byte constant here — unreachable.
		panic(err)
	}
	h.Write(b)
	var out common.Byte32
	copy(out[:], h.Sum(nil))
	return out
}

// OutPoint identifies a cell: the transaction that created it and its
// output index within that transaction.
type OutPoint struct {
	TxHash common.Byte32
	Index  uint32
}

// CellOutput is the spendable part of a transaction output: a capacity,
// a lock script, and an optional type script.
type CellOutput struct {
	Capacity   uint64
	Lock       common.Script
	Type       *common.Script
	TypeExists bool
}

// CellInput references the output it consumes.
type CellInput struct {
	PreviousOutput OutPoint
}

// Transaction is the minimal shape filter_block/rollback need: inputs,
// outputs, and the output data (unused by indexing but carried so tx
// bodies round-trip through storage unchanged).
type Transaction struct {
	Inputs      []CellInput
	Outputs     []CellOutput
	OutputsData [][]byte
}

// Hash returns the transaction hash. The real implementation hashes a
// molecule-serialized "raw transaction" (inputs+outputs, witnesses
// excluded); here the raw bytes are the ones Serialize produces, minus
// the output-data section (data does not affect the tx hash).
func (tx *Transaction) Hash() common.Byte32 {
	return Hash(tx.serializeInputsOutputs())
}

func (tx *Transaction) serializeInputsOutputs() []byte {
	var buf []byte
	var n [8]byte
	binary.BigEndian.PutUint32(n[:4], uint32(len(tx.Inputs)))
	buf = append(buf, n[:4]...)
	for _, in := range tx.Inputs {
		buf = append(buf, in.PreviousOutput.TxHash[:]...)
		binary.BigEndian.PutUint32(n[:4], in.PreviousOutput.Index)
		buf = append(buf, n[:4]...)
	}
	binary.BigEndian.PutUint32(n[:4], uint32(len(tx.Outputs)))
	buf = append(buf, n[:4]...)
	for _, out := range tx.Outputs {
		buf = append(buf, serializeCellOutput(out)...)
	}
	return buf
}

func serializeCellOutput(out CellOutput) []byte {
	var buf []byte
	var n [8]byte
	binary.BigEndian.PutUint64(n[:8], out.Capacity)
	buf = append(buf, n[:8]...)
	buf = append(buf, serializeScript(out.Lock)...)
	if out.TypeExists && out.Type != nil {
		buf = append(buf, 1)
		buf = append(buf, serializeScript(*out.Type)...)
	} else {
		buf = append(buf, 0)
	}
	return buf
}

func serializeScript(s common.Script) []byte {
	var buf []byte
	var n [4]byte
	buf = append(buf, s.CodeHash[:]...)
	buf = append(buf, byte(s.HashType))
	binary.BigEndian.PutUint32(n[:], uint32(len(s.Args)))
	buf = append(buf, n[:]...)
	buf = append(buf, s.Args...)
	return buf
}

func parseScript(b []byte) (common.Script, int, error) {
	if len(b) < 37 {
		return common.Script{}, 0, errShortBuffer
	}
	var codeHash common.Byte32
	copy(codeHash[:], b[:32])
	hashType := common.HashType(b[32])
	argsLen := int(binary.BigEndian.Uint32(b[33:37]))
	if len(b) < 37+argsLen {
		return common.Script{}, 0, errShortBuffer
	}
	args := append([]byte(nil), b[37:37+argsLen]...)
	return common.Script{CodeHash: codeHash, HashType: hashType, Args: args}, 37 + argsLen, nil
}

var errShortBuffer = fmt.Errorf("chain: short buffer while deserializing")

// Serialize renders the full transaction (inputs, outputs, and output
// data) as a flat byte string, the layout stored verbatim under the
// TxHash key prefix. Deserialize is its exact inverse.
func (tx *Transaction) Serialize() []byte {
	buf := tx.serializeInputsOutputs()
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(tx.OutputsData)))
	buf = append(buf, n[:]...)
	for _, d := range tx.OutputsData {
		binary.BigEndian.PutUint32(n[:], uint32(len(d)))
		buf = append(buf, n[:]...)
		buf = append(buf, d...)
	}
	return buf
}

// Deserialize parses the byte layout Serialize produces.
func Deserialize(b []byte) (Transaction, error) {
	var tx Transaction
	off := 0
	if len(b) < 4 {
		return tx, errShortBuffer
	}
	inCount := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	for i := 0; i < inCount; i++ {
		if len(b)-off < 36 {
			return tx, errShortBuffer
		}
		var txHash common.Byte32
		copy(txHash[:], b[off:off+32])
		idx := binary.BigEndian.Uint32(b[off+32 : off+36])
		tx.Inputs = append(tx.Inputs, CellInput{PreviousOutput: OutPoint{TxHash: txHash, Index: idx}})
		off += 36
	}
	if len(b)-off < 4 {
		return tx, errShortBuffer
	}
	outCount := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	for i := 0; i < outCount; i++ {
		if len(b)-off < 8 {
			return tx, errShortBuffer
		}
		capacity := binary.BigEndian.Uint64(b[off : off+8])
		off += 8
		lock, n, err := parseScript(b[off:])
		if err != nil {
			return tx, err
		}
		off += n
		if len(b)-off < 1 {
			return tx, errShortBuffer
		}
		hasType := b[off] != 0
		off++
		var typ *common.Script
		if hasType {
			t, n, err := parseScript(b[off:])
			if err != nil {
				return tx, err
			}
			off += n
			typ = &t
		}
		tx.Outputs = append(tx.Outputs, CellOutput{Capacity: capacity, Lock: lock, Type: typ, TypeExists: hasType})
	}
	if len(b)-off < 4 {
		return tx, errShortBuffer
	}
	dataCount := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	for i := 0; i < dataCount; i++ {
		if len(b)-off < 4 {
			return tx, errShortBuffer
		}
		dl := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if len(b)-off < dl {
			return tx, errShortBuffer
		}
		tx.OutputsData = append(tx.OutputsData, append([]byte(nil), b[off:off+dl]...))
		off += dl
	}
	return tx, nil
}

// Header is a block header plus the extension field CKB added for
// light-client filter data (the block-filter hash and its parent hash).
type Header struct {
	Number     uint64
	ParentHash common.Byte32
	Timestamp  uint64
	Extension  []byte // block-filter data, when present
}

func (h *Header) Hash() common.Byte32 {
	var buf []byte
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], h.Number)
	buf = append(buf, n[:]...)
	buf = append(buf, h.ParentHash[:]...)
	binary.BigEndian.PutUint64(n[:], h.Timestamp)
	buf = append(buf, n[:]...)
	buf = append(buf, h.Extension...)
	return Hash(buf)
}

// Block is a header plus its ordered transaction list.
type Block struct {
	Header       Header
	Transactions []Transaction
}
