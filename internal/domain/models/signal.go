package models

// Conventional signal document keys. The document itself is opaque: only the
// keys listed in the dispatch configuration are validated, everything else is
// passed through to downstream services untouched.
const (
	FieldSymbol   = "symbol"
	FieldAction   = "action"
	FieldInterval = "interval"
	FieldChatIDs  = "chat_ids"
)

// Signal is an incoming trading-signal document. It is decoded straight from
// the request body and forwarded verbatim, except for subscriber enrichment
// which adds the chat_ids key.
type Signal map[string]any

// Symbol returns the symbol field when it is a string, or "".
func (s Signal) Symbol() string { return s.stringField(FieldSymbol) }

// Action returns the action field when it is a string, or "".
func (s Signal) Action() string { return s.stringField(FieldAction) }

// Interval returns the interval field when it is a string, or "".
func (s Signal) Interval() string { return s.stringField(FieldInterval) }

func (s Signal) stringField(name string) string {
	if v, ok := s[name].(string); ok {
		return v
	}
	return ""
}

// Field reports the raw value of a document key.
func (s Signal) Field(name string) (any, bool) {
	v, ok := s[name]
	return v, ok
}

// Clone returns a shallow copy. Nested values stay shared; enrichment only
// ever adds top-level keys.
func (s Signal) Clone() Signal {
	out := make(Signal, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

// WithChatIDs returns a copy of the signal carrying the matched chat
// identifiers. The original document is left untouched so the caller's view
// never changes mid-dispatch.
func (s Signal) WithChatIDs(ids []any) Signal {
	out := s.Clone()
	out[FieldChatIDs] = ids
	return out
}
