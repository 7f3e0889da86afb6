package gateway

import (
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/RaheemJnr/Light-Client-Gateway/common"
)

// secp256k1CodeHashHex and multisigCodeHashHex are the fixed code hashes used
// by the legacy short address format (index 0 and 1 respectively),
// ported bit-exact from server/src/address.rs.
const (
	secp256k1CodeHashHex = "9bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce8"
	multisigCodeHashHex  = "5c5069eb0857efc65e1bca0c07df34c31663b3622fd3876c876320fc9634e2a8"
)

// DecodeAddress parses a CKB address in any of its three historical
// formats into its underlying Script. It accepts both the current
// Bech32m CKB2021 full format and the legacy Bech32 short/full formats.
func DecodeAddress(address string) (common.Script, error) {
	// Full-format addresses exceed bech32's 90-character limit, so the
	// no-limit decoder is used; it accepts both bech32 and bech32m checksums.
	hrp, data5, err := bech32.DecodeNoLimit(address)
	if err != nil {
		return common.Script{}, NewAPIError(CodeInvalidAddress, "bech32 decode failed: "+err.Error())
	}
	if hrp != "ckb" && hrp != "ckt" {
		return common.Script{}, NewAPIError(CodeInvalidAddress, "invalid address prefix: "+hrp)
	}
	data, err := bech32.ConvertBits(data5, 5, 8, false)
	if err != nil {
		return common.Script{}, NewAPIError(CodeInvalidAddress, "bech32 bit conversion failed: "+err.Error())
	}
	if len(data) == 0 {
		return common.Script{}, NewAPIError(CodeInvalidAddress, "empty payload")
	}

	switch data[0] {
	case 0x00: // CKB2021 full format: 0x00 | code_hash(32) | hash_type(1) | args
		if len(data) < 34 {
			return common.Script{}, NewAPIError(CodeInvalidAddress, "invalid CKB2021 format length")
		}
		var codeHash common.Byte32
		copy(codeHash[:], data[1:33])
		hashType, err := decodeHashTypeByte(data[33])
		if err != nil {
			return common.Script{}, err
		}
		return common.Script{CodeHash: codeHash, HashType: hashType, Args: append([]byte(nil), data[34:]...)}, nil

	case 0x01: // legacy short format: 0x01 | code_hash_index(1) | args(20)
		if len(data) < 22 {
			return common.Script{}, NewAPIError(CodeInvalidAddress, "invalid short format length")
		}
		var codeHashHex string
		switch data[1] {
		case 0x00:
			codeHashHex = secp256k1CodeHashHex
		case 0x01:
			codeHashHex = multisigCodeHashHex
		default:
			return common.Script{}, NewAPIError(CodeInvalidAddress, "unknown code hash index")
		}
		args := data[2:]
		if len(args) != 20 {
			return common.Script{}, NewAPIError(CodeInvalidAddress, "invalid args length for short format")
		}
		codeHash, err := common.HexToHash32(codeHashHex)
		if err != nil {
			return common.Script{}, NewAPIError(CodeInternal, "invalid fixed code hash")
		}
		return common.Script{CodeHash: codeHash, HashType: common.HashTypeType, Args: append([]byte(nil), args...)}, nil

	case 0x02, 0x04: // legacy full format: 0x02/0x04 | code_hash(32) | args
		if len(data) < 33 {
			return common.Script{}, NewAPIError(CodeInvalidAddress, "invalid full format length")
		}
		var codeHash common.Byte32
		copy(codeHash[:], data[1:33])
		hashType := common.HashTypeData
		if data[0] == 0x04 {
			hashType = common.HashTypeType
		}
		return common.Script{CodeHash: codeHash, HashType: hashType, Args: append([]byte(nil), data[33:]...)}, nil

	default:
		return common.Script{}, NewAPIError(CodeInvalidAddress, "unsupported address format")
	}
}

func decodeHashTypeByte(b byte) (common.HashType, error) {
	switch b {
	case 0x00, 0x01, 0x02, 0x04:
		return common.HashType(b), nil
	default:
		return 0, NewAPIError(CodeInvalidAddress, "invalid hash type byte")
	}
}

// EncodeAddress always renders script using the current CKB2021 full
// format (Bech32m): 0x00 | code_hash(32) | hash_type(1) | args.
func EncodeAddress(script common.Script, mainnet bool) (string, error) {
	hrp := "ckt"
	if mainnet {
		hrp = "ckb"
	}
	payload := make([]byte, 0, 34+len(script.Args))
	payload = append(payload, 0x00)
	payload = append(payload, script.CodeHash[:]...)
	payload = append(payload, byte(script.HashType))
	payload = append(payload, script.Args...)

	data5, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", NewAPIError(CodeInternal, "bech32 bit conversion failed: "+err.Error())
	}
	addr, err := bech32.EncodeM(hrp, data5)
	if err != nil {
		return "", NewAPIError(CodeInternal, "bech32m encode failed: "+err.Error())
	}
	return addr, nil
}
