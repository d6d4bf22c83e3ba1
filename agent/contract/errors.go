package contract

import "errors"

var (
	ErrModelInvoke          = errors.New("model invoke failed")
	ErrRetrievalUnavailable = errors.New("retrieval service unavailable")
	ErrPromptMissing        = errors.New("required prompt is missing")
	ErrValidation           = errors.New("validation failed")
)
