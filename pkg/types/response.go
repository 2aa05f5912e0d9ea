package types

// SuccessEnvelope wraps every 2xx body as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the structured error carried under "error".
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the body of every 4xx/5xx response. Message mirrors
// Error.Message at the top level so clients reading a flat "message"
// field keep showing the reason.
type ErrorEnvelope struct {
	Message string   `json:"message"`
	Error   APIError `json:"error"`
}

// NewErrorEnvelope builds an error body. Details are dropped when nil.
func NewErrorEnvelope(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{
		Message: message,
		Error: APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
