package dto

// ErrorResponse cuerpo de error HTTP.
// Retryable solo se informa en conflictos de identificador (el caller puede reintentar).
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// HealthResponse cuerpo de GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
