package domain

// MoveRequest é o evento de "mover card" vindo de um quadro
type MoveRequest struct {
	CardID         string `json:"cardId"`
	SourceColumnID string `json:"sourceColumnId"`
	DestColumnID   string `json:"destColumnId"`
	Reason         string `json:"reason,omitempty"`
}
