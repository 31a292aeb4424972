package dto

// ErrorResponse cuerpo de error HTTP. CategoryID señala el registro exacto
// que provoca un rechazo estructural (ciclo, padre inexistente) para que la
// UI pueda resaltarlo.
type ErrorResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	CategoryID string `json:"category_id,omitempty"`
}
