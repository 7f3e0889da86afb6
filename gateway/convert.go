package gateway

import (
	"fmt"

	"github.com/RaheemJnr/Light-Client-Gateway/chain"
	"github.com/RaheemJnr/Light-Client-Gateway/common"
)

func scriptToJSON(s common.Script) Script {
	return Script{
		CodeHash: s.CodeHash.String(),
		HashType: s.HashType.String(),
		Args:     common.EncodeHex(s.Args),
	}
}

func scriptFromJSON(s Script) (common.Script, error) {
	codeHash, err := common.HexToHash32(s.CodeHash)
	if err != nil {
		return common.Script{}, NewAPIError(CodeInvalidScript, "invalid code_hash: "+err.Error())
	}
	hashType, err := common.ParseHashType(s.HashType)
	if err != nil {
		return common.Script{}, NewAPIError(CodeInvalidScript, err.Error())
	}
	args, err := common.DecodeHex(s.Args)
	if err != nil {
		return common.Script{}, NewAPIError(CodeInvalidScript, "invalid args: "+err.Error())
	}
	return common.Script{CodeHash: codeHash, HashType: hashType, Args: args}, nil
}

func hexU64(n uint64) string { return fmt.Sprintf("0x%x", n) }

func parseHexU64(s string) (uint64, error) {
	b, err := common.DecodeHex(s)
	if err != nil || len(b) == 0 {
		return 0, fmt.Errorf("gateway: invalid hex integer %q", s)
	}
	var n uint64
	for _, x := range b {
		n = n<<8 | uint64(x)
	}
	return n, nil
}

func rawTxFromJSON(r RawTransaction) (chain.Transaction, error) {
	var tx chain.Transaction
	for _, in := range r.Inputs {
		txHash, err := common.HexToHash32(in.PreviousOutput.TxHash)
		if err != nil {
			return tx, NewAPIError(CodeInvalidTransaction, "invalid input tx_hash: "+err.Error())
		}
		tx.Inputs = append(tx.Inputs, chain.CellInput{
			PreviousOutput: chain.OutPoint{TxHash: txHash, Index: in.PreviousOutput.Index},
		})
	}
	for _, out := range r.Outputs {
		capacity, err := parseHexU64(out.Capacity)
		if err != nil {
			return tx, NewAPIError(CodeInvalidTransaction, "invalid output capacity")
		}
		lock, err := scriptFromJSON(out.Lock)
		if err != nil {
			return tx, err
		}
		co := chain.CellOutput{Capacity: capacity, Lock: lock}
		if out.Type != nil {
			t, err := scriptFromJSON(*out.Type)
			if err != nil {
				return tx, err
			}
			co.Type = &t
			co.TypeExists = true
		}
		tx.Outputs = append(tx.Outputs, co)
	}
	for _, d := range r.OutputsData {
		data, err := common.DecodeHex(d)
		if err != nil {
			return tx, NewAPIError(CodeInvalidTransaction, "invalid output data hex")
		}
		tx.OutputsData = append(tx.OutputsData, data)
	}
	return tx, nil
}
