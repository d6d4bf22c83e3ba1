package contract

// ModelReply is the tagged outcome of a completion call. The language model
// is an unreliable JSON emitter, so every consumer must match all three
// variants instead of assuming a shape.
type ModelReply interface {
	modelReply()
}

// StructuredReply carries a successfully decoded JSON value (object or array).
type StructuredReply struct {
	Value any
}

// UnstructuredReply carries raw text from a non-structured completion.
type UnstructuredReply struct {
	Text string
}

// FailedReply carries the raw output after every parse and repair attempt
// failed, or after a per-call timeout. It is a valid degraded outcome, not
// an error.
type FailedReply struct {
	Raw string `json:"raw"`
	Err string `json:"error"`
}

func (StructuredReply) modelReply()   {}
func (UnstructuredReply) modelReply() {}
func (FailedReply) modelReply()       {}

// AsMapping unwraps a StructuredReply whose value is a JSON object.
func AsMapping(reply ModelReply) (map[string]any, bool) {
	structured, ok := reply.(StructuredReply)
	if !ok {
		return nil, false
	}
	m, ok := structured.Value.(map[string]any)
	return m, ok
}
