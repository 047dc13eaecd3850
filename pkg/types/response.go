package types

// SuccessEnvelope wraps every successful JSON response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope wraps every failed JSON response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// APIError is the public error shape returned to clients.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
