package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/ethns/ethns/core/types"
	"github.com/ethns/ethns/log"
	"github.com/ethns/ethns/registrar"
)

// RegistrarAPI implements the ens_ namespace JSON-RPC methods on top of a
// registrar controller.
type RegistrarAPI struct {
	ctl *registrar.Controller
	log *log.Logger
}

// NewRegistrarAPI creates the API service.
func NewRegistrarAPI(ctl *registrar.Controller, logger *log.Logger) *RegistrarAPI {
	if logger == nil {
		logger = log.Default()
	}
	return &RegistrarAPI{ctl: ctl, log: logger.Module("rpc")}
}

// HandleRequest dispatches a JSON-RPC request to the appropriate method.
func (api *RegistrarAPI) HandleRequest(req *Request) *Response {
	switch req.Method {
	case "ens_rentPrice":
		return api.rentPrice(req)
	case "ens_available":
		return api.available(req)
	case "ens_makeCommitment":
		return api.makeCommitment(req)
	case "ens_makeBatchCommitment":
		return api.makeBatchCommitment(req)
	case "ens_commit":
		return api.commit(req)
	case "ens_register":
		return api.register(req)
	case "ens_withdraw":
		return api.withdraw(req)
	}
	return errorResponse(req.ID, ErrCodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
}

// rentPrice quotes the price of registering a name. Params: [name, duration].
func (api *RegistrarAPI) rentPrice(req *Request) *Response {
	var name string
	var duration uint64
	if err := decodeParams(req.Params, &name, &duration); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	price, err := api.ctl.RentPrice(name, duration)
	if err != nil {
		return errorResponse(req.ID, ErrCodeRegistrar, err.Error())
	}
	return successResponse(req.ID, formatPrice(price))
}

// available reports whether a name can be registered. Params: [name].
func (api *RegistrarAPI) available(req *Request) *Response {
	var name string
	if err := decodeParams(req.Params, &name); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	return successResponse(req.ID, api.ctl.Available(name))
}

// makeCommitment hashes a single intent into its commitment digest.
// Params: [intent].
func (api *RegistrarAPI) makeCommitment(req *Request) *Response {
	var param IntentParam
	if err := decodeParams(req.Params, &param); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	intent, err := param.toIntent()
	if err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	digest, err := api.ctl.MakeCommitment(intent)
	if err != nil {
		return errorResponse(req.ID, ErrCodeRegistrar, err.Error())
	}
	return successResponse(req.ID, digest)
}

// makeBatchCommitment hashes an ordered batch. Params: [[]slot].
func (api *RegistrarAPI) makeBatchCommitment(req *Request) *Response {
	var params []SlotParam
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	batch, err := toSlots(params)
	if err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	digest, err := api.ctl.MakeBatchCommitment(batch)
	if err != nil {
		return errorResponse(req.ID, ErrCodeRegistrar, err.Error())
	}
	return successResponse(req.ID, digest)
}

// commit records a commitment digest. Params: [digest].
func (api *RegistrarAPI) commit(req *Request) *Response {
	var digest types.Hash
	if err := decodeParams(req.Params, &digest); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	if err := api.ctl.Commit(digest); err != nil {
		return errorResponse(req.ID, ErrCodeRegistrar, err.Error())
	}
	return successResponse(req.ID, true)
}

// register reveals and settles a batch. Params: [{caller, batch, value}].
func (api *RegistrarAPI) register(req *Request) *Response {
	var params RegisterParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	batch, err := toSlots(params.Batch)
	if err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	value, err := parseValue(params.Value)
	if err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}

	events, refund, err := api.ctl.Register(params.Caller, batch, value)
	if err != nil {
		api.log.Debug("register rejected", "caller", params.Caller, "err", err)
		return errorResponse(req.ID, ErrCodeRegistrar, err.Error())
	}

	result := RegisterResult{Events: make([]EventResult, len(events)), Refund: refund.Dec()}
	for i, ev := range events {
		result.Events[i] = EventResult{
			Name:      ev.Name,
			LabelHash: ev.LabelHash,
			Owner:     ev.Owner,
			Base:      ev.Base.Dec(),
			Premium:   ev.Premium.Dec(),
			Expires:   ev.Expires,
		}
	}
	return successResponse(req.ID, result)
}

// withdraw sweeps accumulated funds to the administrator. Params: [caller].
func (api *RegistrarAPI) withdraw(req *Request) *Response {
	var caller types.Address
	if err := decodeParams(req.Params, &caller); err != nil {
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	amount, err := api.ctl.Withdraw(caller)
	if err != nil {
		return errorResponse(req.ID, ErrCodeRegistrar, err.Error())
	}
	return successResponse(req.ID, amount.Dec())
}

// decodeParams unmarshals positional params into the given targets. Fewer
// params than targets is an error; extras are rejected.
func decodeParams(params []json.RawMessage, targets ...interface{}) error {
	if len(params) != len(targets) {
		return fmt.Errorf("expected %d params, got %d", len(targets), len(params))
	}
	for i, raw := range params {
		if err := json.Unmarshal(raw, targets[i]); err != nil {
			return fmt.Errorf("param %d: %v", i, err)
		}
	}
	return nil
}

func successResponse(id json.RawMessage, result interface{}) *Response {
	return &Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: "2.0",
		Error:   &RPCError{Code: code, Message: message},
		ID:      id,
	}
}
