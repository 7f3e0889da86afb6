// Package common defines the primitive value types shared across the
// storage engine, the chain model, and the gateway: hashes, scripts, and
// their hex encodings.
package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Byte32 is a fixed 32-byte hash, used for transaction hashes, block
// hashes, script code hashes, and filter/checkpoint hashes alike.
type Byte32 [32]byte

// Hash is an alias kept for call sites that read more naturally with the
// domain name than the raw fixed-size type.
type Hash = Byte32

func (b Byte32) Bytes() []byte { return b[:] }

func (b Byte32) String() string { return "0x" + hex.EncodeToString(b[:]) }

// BytesToHash32 copies b into a Byte32. b must be exactly 32 bytes; any
// other length is an error (no padding or truncation is applied).
func BytesToHash32(b []byte) (h Byte32, err error) {
	if len(b) != 32 {
		return h, fmt.Errorf("common: want 32 bytes, got %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// HexToHash32 parses a "0x"-prefixed or bare hex string into a Byte32.
func HexToHash32(s string) (Byte32, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return Byte32{}, err
	}
	return BytesToHash32(b)
}

// DecodeHex strips an optional "0x"/"0X" prefix and decodes the remainder.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}

// EncodeHex renders b as a "0x"-prefixed lowercase hex string.
func EncodeHex(b []byte) string { return "0x" + hex.EncodeToString(b) }

// HashType selects how a script's code_hash is interpreted when the VM
// resolves it to executable code.
type HashType uint8

const (
	HashTypeData  HashType = 0x00
	HashTypeType  HashType = 0x01
	HashTypeData1 HashType = 0x02
	HashTypeData2 HashType = 0x04
)

func (h HashType) String() string {
	switch h {
	case HashTypeData:
		return "data"
	case HashTypeType:
		return "type"
	case HashTypeData1:
		return "data1"
	case HashTypeData2:
		return "data2"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(h))
	}
}

// ParseHashType parses the gateway's string rendering of HashType.
func ParseHashType(s string) (HashType, error) {
	switch s {
	case "data":
		return HashTypeData, nil
	case "type":
		return HashTypeType, nil
	case "data1":
		return HashTypeData1, nil
	case "data2":
		return HashTypeData2, nil
	default:
		return 0, fmt.Errorf("common: invalid hash_type %q", s)
	}
}

// ScriptType distinguishes a cell's lock script (spending authority) from
// its optional type script (state-transition validation).
type ScriptType uint8

const (
	ScriptTypeLock ScriptType = iota
	ScriptTypeType
)

func (t ScriptType) String() string {
	if t == ScriptTypeType {
		return "type"
	}
	return "lock"
}

// IOType distinguishes a tx-history entry generated by a consumed input
// from one generated by a produced output.
type IOType uint8

const (
	IOTypeInput  IOType = 0
	IOTypeOutput IOType = 1
)

// Script names executable logic: a code hash, how to interpret it
// (HashType), and an opaque argument byte string.
type Script struct {
	CodeHash Byte32
	HashType HashType
	Args     []byte
}

// Raw returns code_hash(32) || hash_type(1) || args, the exact byte layout
// used as the variable-width "scriptRaw" component of prefix-scan keys.
// Not length-prefixed: the caller's known prefix bounds the scan.
func (s Script) Raw() []byte {
	out := make([]byte, 0, 33+len(s.Args))
	out = append(out, s.CodeHash[:]...)
	out = append(out, byte(s.HashType))
	out = append(out, s.Args...)
	return out
}

func (s Script) Equal(o Script) bool {
	return s.CodeHash == o.CodeHash && s.HashType == o.HashType && string(s.Args) == string(o.Args)
}
