// Package rpc exposes the registrar controller over JSON-RPC 2.0 under
// the ens_ namespace.
package rpc

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"github.com/ethns/ethns/core/types"
	"github.com/ethns/ethns/registrar"
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      json.RawMessage   `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// RPCError is a JSON-RPC 2.0 error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603

	// ErrCodeRegistrar covers domain failures: commitment window
	// violations, validation failures, budget exhaustion.
	ErrCodeRegistrar = -32000
)

// IntentParam is the wire form of a registration intent.
type IntentParam struct {
	Name          string        `json:"name"`
	Owner         types.Address `json:"owner"`
	Duration      uint64        `json:"duration"`
	Resolver      types.Address `json:"resolver"`
	Records       []string      `json:"records,omitempty"`
	Secret        types.Hash    `json:"secret"`
	ReverseRecord bool          `json:"reverseRecord,omitempty"`
	Fuses         uint32        `json:"fuses,omitempty"`
	WrapperExpiry uint64        `json:"wrapperExpiry,omitempty"`
}

func (p *IntentParam) toIntent() (*registrar.RegistrationIntent, error) {
	records := make([][]byte, 0, len(p.Records))
	for i, r := range p.Records {
		b, err := decodeHexPayload(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, b)
	}
	return &registrar.RegistrationIntent{
		Name:          p.Name,
		Owner:         p.Owner,
		Duration:      p.Duration,
		Resolver:      p.Resolver,
		Records:       records,
		Secret:        p.Secret,
		ReverseRecord: p.ReverseRecord,
		Fuses:         p.Fuses,
		WrapperExpiry: p.WrapperExpiry,
	}, nil
}

// SlotParam is the wire form of one batch position: a placeholder with a
// duration, or an intent.
type SlotParam struct {
	Placeholder bool         `json:"placeholder,omitempty"`
	Duration    uint64       `json:"duration,omitempty"`
	Intent      *IntentParam `json:"intent,omitempty"`
}

func (p *SlotParam) toSlot() (registrar.BatchSlot, error) {
	if p.Placeholder {
		if p.Intent != nil {
			return registrar.BatchSlot{}, fmt.Errorf("placeholder slot must not carry an intent")
		}
		return registrar.PlaceholderSlot(p.Duration), nil
	}
	if p.Intent == nil {
		return registrar.BatchSlot{}, fmt.Errorf("slot needs an intent or placeholder flag")
	}
	intent, err := p.Intent.toIntent()
	if err != nil {
		return registrar.BatchSlot{}, err
	}
	return registrar.IntentSlot(intent), nil
}

func toSlots(params []SlotParam) ([]registrar.BatchSlot, error) {
	batch := make([]registrar.BatchSlot, len(params))
	for i := range params {
		slot, err := params[i].toSlot()
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		batch[i] = slot
	}
	return batch, nil
}

// RegisterParams is the wire form of a register call.
type RegisterParams struct {
	Caller types.Address `json:"caller"`
	Batch  []SlotParam   `json:"batch"`
	// Value is the attached funds in wei, as a decimal string.
	Value string `json:"value"`
}

// PriceResult is the wire form of a base/premium quote, in decimal wei.
type PriceResult struct {
	Base    string `json:"base"`
	Premium string `json:"premium"`
}

func formatPrice(p registrar.Price) PriceResult {
	return PriceResult{Base: p.Base.Dec(), Premium: p.Premium.Dec()}
}

// EventResult is the wire form of a NameRegistered event.
type EventResult struct {
	Name      string        `json:"name"`
	LabelHash types.Hash    `json:"labelHash"`
	Owner     types.Address `json:"owner"`
	Base      string        `json:"base"`
	Premium   string        `json:"premium"`
	Expires   uint64        `json:"expires"`
}

// RegisterResult is the wire form of a successful register call.
type RegisterResult struct {
	Events []EventResult `json:"events"`
	Refund string        `json:"refund"`
}

func parseValue(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, nil
}

func decodeHexPayload(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex payload: %w", err)
	}
	return b, nil
}
