package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RaheemJnr/Light-Client-Gateway/common"
)

func sampleTx() Transaction {
	var codeHash common.Byte32
	codeHash[0] = 0x42
	typeScript := common.Script{CodeHash: codeHash, HashType: common.HashTypeData, Args: []byte{9}}
	return Transaction{
		Inputs: []CellInput{{PreviousOutput: OutPoint{TxHash: common.Byte32{1}, Index: 3}}},
		Outputs: []CellOutput{
			{Capacity: 500, Lock: common.Script{CodeHash: codeHash, HashType: common.HashTypeType, Args: []byte{1, 2}}},
			{Capacity: 700, Lock: common.Script{CodeHash: codeHash, HashType: common.HashTypeType, Args: []byte{3}}, Type: &typeScript, TypeExists: true},
		},
		OutputsData: [][]byte{nil, {0xde, 0xad}},
	}
}

func TestTransactionHashDeterministic(t *testing.T) {
	tx := sampleTx()
	h1 := tx.Hash()
	h2 := tx.Hash()
	require.Equal(t, h1, h2)

	other := sampleTx()
	other.Outputs[0].Capacity = 501
	require.NotEqual(t, h1, other.Hash())
}

func TestTransactionHashIgnoresOutputsData(t *testing.T) {
	tx := sampleTx()
	h := tx.Hash()
	tx.OutputsData[1] = []byte{0xff}
	require.Equal(t, h, tx.Hash())
}

func TestTransactionSerializeRoundTrip(t *testing.T) {
	tx := sampleTx()
	b := tx.Serialize()
	got, err := Deserialize(b)
	require.NoError(t, err)
	require.Equal(t, tx, got)
	require.Equal(t, tx.Hash(), got.Hash())
}

func TestDeserializeShortBuffer(t *testing.T) {
	_, err := Deserialize([]byte{0, 0})
	require.Error(t, err)
}

func TestHeaderHashChangesWithExtension(t *testing.T) {
	h1 := Header{Number: 10, Timestamp: 100}
	h2 := h1
	h2.Extension = []byte{1}
	require.NotEqual(t, h1.Hash(), h2.Hash())
}
