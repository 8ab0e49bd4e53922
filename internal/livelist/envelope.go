package livelist

import (
	"bytes"
	"encoding/json"
)

// EnvelopeKind variante conocida de la envoltura JSON que trae una colección.
type EnvelopeKind int

const (
	// EnvelopeUnknown cualquier forma no reconocida (o JSON inválido); se trata como colección vacía.
	EnvelopeUnknown EnvelopeKind = iota
	EnvelopeBareArray           // [ ... ]
	EnvelopeResults             // {"results": [ ... ]}
	EnvelopeData                // {"data": [ ... ]}
	EnvelopeDataResults         // {"data": {"results": [ ... ]}}
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeBareArray:
		return "array"
	case EnvelopeResults:
		return "results"
	case EnvelopeData:
		return "data"
	case EnvelopeDataResults:
		return "data.results"
	default:
		return "unknown"
	}
}

// Envelope resultado de desenvolver una respuesta. Items nunca es nil.
type Envelope struct {
	Kind  EnvelopeKind
	Items []json.RawMessage
}

// DecodeEnvelope reconoce las cuatro envolturas conocidas; todo lo demás es EnvelopeUnknown.
// No devuelve error: una forma inesperada es una anomalía de datos, no un fallo.
func DecodeEnvelope(body []byte) Envelope {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return unknownEnvelope()
	}

	switch body[0] {
	case '[':
		if items, ok := decodeArray(body); ok {
			return Envelope{Kind: EnvelopeBareArray, Items: items}
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return unknownEnvelope()
		}
		if raw, ok := obj["results"]; ok {
			if items, ok := decodeArray(raw); ok {
				return Envelope{Kind: EnvelopeResults, Items: items}
			}
		}
		if raw, ok := obj["data"]; ok {
			if items, ok := decodeArray(raw); ok {
				return Envelope{Kind: EnvelopeData, Items: items}
			}
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(raw, &inner); err == nil {
				if items, ok := decodeArray(inner["results"]); ok {
					return Envelope{Kind: EnvelopeDataResults, Items: items}
				}
			}
		}
	}
	return unknownEnvelope()
}

func unknownEnvelope() Envelope {
	return Envelope{Kind: EnvelopeUnknown, Items: []json.RawMessage{}}
}

func decodeArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, true
}
