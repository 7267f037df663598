package model

import "encoding/json"

// BadRequestError marks a failure the caller can fix by correcting the
// request (bad identifier, unresolved destinationId). The handler maps
// it to a 400.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// ProviderError marks a failed directions call: a transport error, a
// non-2xx response, or a provider status outside OK/ZERO_RESULTS. The
// handler maps it to a 502 and forwards Details, the provider's raw
// payload, for diagnostics.
type ProviderError struct {
	Message string
	Details json.RawMessage
}

func (e *ProviderError) Error() string {
	return e.Message
}
