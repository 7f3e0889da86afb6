package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/RaheemJnr/Light-Client-Gateway/chain"
	"github.com/RaheemJnr/Light-Client-Gateway/common"
	"github.com/RaheemJnr/Light-Client-Gateway/store"
)

const defaultFromBlockLookback = 200000

// parseFromBlock implements the from_block grammar of POST
// /v1/accounts/register (spec.md §6): "tip"/"latest" (current tip),
// "genesis" (0), "-N" (tip - N), a "0x"-prefixed hex number, a decimal
// number, or (absent) tip - 200000, floored at 0.
func parseFromBlock(raw string, tip uint64) (uint64, error) {
	switch raw {
	case "":
		if tip > defaultFromBlockLookback {
			return tip - defaultFromBlockLookback, nil
		}
		return 0, nil
	case "tip", "latest":
		return tip, nil
	case "genesis":
		return 0, nil
	}
	if strings.HasPrefix(raw, "-") {
		n, err := strconv.ParseUint(strings.TrimPrefix(raw, "-"), 10, 64)
		if err != nil {
			return 0, NewAPIError(CodeInvalidScript, "invalid from_block offset: "+raw)
		}
		if n > tip {
			return 0, nil
		}
		return tip - n, nil
	}
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		n, err := parseHexU64(raw)
		if err != nil {
			return 0, NewAPIError(CodeInvalidScript, "invalid from_block hex: "+raw)
		}
		return n, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, NewAPIError(CodeInvalidScript, "invalid from_block: "+raw)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = NewAPIError(CodeInternal, err.Error())
	}
	writeJSON(w, apiErr.Status(), apiErr)
}

func (srv *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	tip, ok, err := srv.Storage.GetTipHeader()
	if err != nil {
		writeAPIError(w, err)
		return
	}
	hash := ""
	var number uint64
	if ok {
		hash = tip.Hash().String()
		number = tip.Number
	}
	network := "testnet"
	if srv.Mainnet {
		network = "mainnet"
	}
	peerCount := 0
	if srv.PeerCount != nil {
		peerCount = srv.PeerCount()
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Network:   network,
		TipNumber: number,
		TipHash:   hash,
		PeerCount: peerCount,
		IsSynced:  srv.IsSynced != nil && srv.IsSynced(),
		IsHealthy: true,
	})
}

func (srv *Server) resolveScript(req RegisterRequest) (common.Script, error) {
	if req.Script != nil {
		return scriptFromJSON(*req.Script)
	}
	if req.Address != "" {
		return DecodeAddress(req.Address)
	}
	return common.Script{}, NewAPIError(CodeInvalidScript, "one of address or script is required")
}

func (srv *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, NewAPIError(CodeInvalidScript, "malformed request body"))
		return
	}
	script, err := srv.resolveScript(req)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	tip, _, err := srv.Storage.GetTipHeader()
	if err != nil {
		writeAPIError(w, err)
		return
	}
	fromBlock, err := parseFromBlock(req.FromBlock, tip.Number)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	status := store.ScriptStatus{Script: script, ScriptType: common.ScriptTypeLock, BlockNumber: fromBlock}
	// Delete-then-Partial: drop any prior registration for this exact
	// script before (re-)registering it at the new from_block.
	if err := srv.Storage.UpdateFilterScripts([]store.ScriptStatus{status}, store.SetScriptsDelete); err != nil {
		writeAPIError(w, err)
		return
	}
	if err := srv.Storage.UpdateFilterScripts([]store.ScriptStatus{status}, store.SetScriptsPartial); err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AccountStatusResponse{Registered: true, FromBlock: fromBlock, ScriptType: status.ScriptType.String()})
}

func (srv *Server) lookupScript(r *http.Request) (common.Script, error) {
	return DecodeAddress(chi.URLParam(r, "addr"))
}

func (srv *Server) findRegistration(script common.Script) (*store.ScriptStatus, error) {
	scripts, err := srv.Storage.GetFilterScripts()
	if err != nil {
		return nil, err
	}
	for i := range scripts {
		if scripts[i].Script.Equal(script) {
			return &scripts[i], nil
		}
	}
	return nil, nil
}

func (srv *Server) handleAccountStatus(w http.ResponseWriter, r *http.Request) {
	script, err := srv.lookupScript(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	reg, err := srv.findRegistration(script)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if reg == nil {
		writeJSON(w, http.StatusOK, AccountStatusResponse{Registered: false})
		return
	}
	writeJSON(w, http.StatusOK, AccountStatusResponse{Registered: true, FromBlock: reg.BlockNumber, ScriptType: reg.ScriptType.String()})
}

func (srv *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	script, err := srv.lookupScript(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if reg, err := srv.findRegistration(script); err != nil {
		writeAPIError(w, err)
		return
	} else if reg == nil {
		writeAPIError(w, NewAPIError(CodeScriptNotRegistered, "script is not registered"))
		return
	}
	capacity, err := srv.Storage.GetCellsCapacity(common.ScriptTypeLock, script)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{Capacity: hexU64(capacity)})
}

func parseLimitCursor(r *http.Request) (int, []byte, error) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 100 {
			return 0, nil, NewAPIError(CodeInvalidScript, "limit must be in 1..100")
		}
		limit = n
	}
	var cursor []byte
	if s := r.URL.Query().Get("cursor"); s != "" {
		b, err := common.DecodeHex(s)
		if err != nil {
			return 0, nil, NewAPIError(CodeInvalidScript, "invalid cursor")
		}
		cursor = b
	}
	return limit, cursor, nil
}

func (srv *Server) handleCells(w http.ResponseWriter, r *http.Request) {
	script, err := srv.lookupScript(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	limit, cursor, err := parseLimitCursor(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	live, next, err := srv.Storage.GetLiveCells(common.ScriptTypeLock, script, limit, cursor)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	resp := CellsResponse{}
	for _, lc := range live {
		_, out, _, err := srv.Storage.Cell(chain.OutPoint{TxHash: lc.TxHash, Index: lc.Index})
		if err != nil {
			writeAPIError(w, err)
			return
		}
		cell := Cell{
			OutPoint: OutPointJSON{TxHash: lc.TxHash.String(), Index: lc.Index},
			Capacity: hexU64(out.Capacity),
			Lock:     scriptToJSON(out.Lock),
		}
		if out.TypeExists && out.Type != nil {
			t := scriptToJSON(*out.Type)
			cell.Type = &t
		}
		resp.Cells = append(resp.Cells, cell)
	}
	if next != nil {
		s := common.EncodeHex(next)
		resp.Cursor = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTransactions implements the balance-change attribution described
// in spec.md §9's open question: for each transaction touching script,
// classify it as in/out/self/unknown from the set of its history entries
// and compute a fee when every input's generating transaction is locally
// resolvable, falling back to "0x0" otherwise.
func (srv *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	script, err := srv.lookupScript(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	limit, cursor, err := parseLimitCursor(r)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	entries, next, err := srv.Storage.GetTxHistory(common.ScriptTypeLock, script, limit, cursor, true)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	byTx := make(map[common.Byte32][]store.HistoryEntry)
	var order []common.Byte32
	for _, e := range entries {
		if _, ok := byTx[e.TxHash]; !ok {
			order = append(order, e.TxHash)
		}
		byTx[e.TxHash] = append(byTx[e.TxHash], e)
	}

	resp := TransactionsResponse{}
	for _, txHash := range order {
		group := byTx[txHash]
		tx, _, found, err := srv.Storage.GetTransactionWithHeader(txHash)
		if err != nil {
			writeAPIError(w, err)
			return
		}
		if !found {
			continue
		}
		direction, amount, fee := classifyTransaction(srv.Storage, tx, script, group)
		resp.Transactions = append(resp.Transactions, TransactionEntry{
			TxHash:      txHash.String(),
			BlockNumber: group[0].Block,
			Direction:   direction,
			Amount:      hexU64(amount),
			Fee:         fee,
		})
	}
	if next != nil {
		s := common.EncodeHex(next)
		resp.Cursor = &s
	}
	writeJSON(w, http.StatusOK, resp)
}

func classifyTransaction(s *store.Storage, tx chain.Transaction, script common.Script, ourEntries []store.HistoryEntry) (TxDirection, uint64, string) {
	hasOurInput, hasOurOutput := false, false
	for _, e := range ourEntries {
		if e.IOType == common.IOTypeInput {
			hasOurInput = true
		} else {
			hasOurOutput = true
		}
	}

	var othersOutputCapacity, ourOutputCapacity uint64
	for _, out := range tx.Outputs {
		if out.Lock.Equal(script) {
			ourOutputCapacity += out.Capacity
		} else {
			othersOutputCapacity += out.Capacity
		}
	}

	var direction TxDirection
	var amount uint64
	switch {
	case hasOurInput && othersOutputCapacity > 0:
		direction, amount = DirectionOut, othersOutputCapacity
	case hasOurInput && hasOurOutput && othersOutputCapacity == 0:
		direction, amount = DirectionSelf, ourOutputCapacity
	case hasOurOutput && !hasOurInput:
		direction, amount = DirectionIn, ourOutputCapacity
	default:
		direction, amount = DirectionUnknown, 0
	}

	fee := "0x0"
	if hasOurInput {
		if ourInputCapacity, ok := sumResolvableInputs(s, tx); ok {
			var totalOut uint64
			for _, out := range tx.Outputs {
				totalOut += out.Capacity
			}
			if ourInputCapacity >= totalOut {
				fee = hexU64(ourInputCapacity - totalOut)
			}
		}
	}
	return direction, amount, fee
}

// sumResolvableInputs sums the capacity of every input's spent output,
// returning ok=false if any generating transaction is not locally stored
// (the fee then falls back to the source's "0x0" simplification).
func sumResolvableInputs(s *store.Storage, tx chain.Transaction) (uint64, bool) {
	var total uint64
	for _, in := range tx.Inputs {
		status, out, _, err := s.Cell(in.PreviousOutput)
		if err != nil || status != store.CellLive {
			return 0, false
		}
		total += out.Capacity
	}
	return total, true
}

func (srv *Server) handleSendTransaction(w http.ResponseWriter, r *http.Request) {
	var req SendTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, NewAPIError(CodeInvalidTransaction, "malformed request body"))
		return
	}
	tx, err := rawTxFromJSON(req.Transaction)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if len(tx.Inputs) == 0 || len(tx.Outputs) == 0 {
		writeAPIError(w, NewAPIError(CodeInvalidTransaction, "transaction must have inputs and outputs"))
		return
	}
	hash := srv.Pool.Add(tx)
	writeJSON(w, http.StatusOK, SendTransactionResponse{TxHash: hash.String()})
}

func (srv *Server) handleTxStatus(w http.ResponseWriter, r *http.Request) {
	hash, err := common.HexToHash32(chi.URLParam(r, "hash"))
	if err != nil {
		writeAPIError(w, NewAPIError(CodeInvalidTransaction, "invalid tx hash"))
		return
	}
	if _, ok := srv.Pool.Get(hash); ok {
		writeJSON(w, http.StatusOK, TxStatusResponse{Status: TxStatusPending})
		return
	}
	_, header, found, err := srv.Storage.GetTransactionWithHeader(hash)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if !found || header == nil {
		writeJSON(w, http.StatusOK, TxStatusResponse{Status: TxStatusUnknown})
		return
	}
	blockNumber := header.Number
	blockHash := header.Hash().String()
	timestamp := header.Timestamp
	tip, _, err := srv.Storage.GetTipHeader()
	var confirmations uint64
	if err == nil && tip.Number >= blockNumber {
		confirmations = tip.Number - blockNumber + 1
	}
	writeJSON(w, http.StatusOK, TxStatusResponse{
		Status:        TxStatusCommitted,
		Confirmations: &confirmations,
		BlockNumber:   &blockNumber,
		BlockHash:     &blockHash,
		Timestamp:     &timestamp,
	})
}
