package dto

// ProxyError is the error body the playground UI expects from the proxy
// endpoints.
type ProxyError struct {
	Error string `json:"error"`
}

// Health status values reported by the health endpoint.
const (
	HealthStatusNoKey     = "no-key"
	HealthStatusInvalid   = "invalid"
	HealthStatusError     = "error"
	HealthStatusConnected = "connected"
)

// HealthResponse reports upstream connectivity for the stored credential.
// The endpoint always answers HTTP 200; the status field carries the result.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
