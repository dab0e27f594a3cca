package types

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// HealthResponse is returned by the health probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type WelcomeResponse struct {
	Message string `json:"message"`
}
