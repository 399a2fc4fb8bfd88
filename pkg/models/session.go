package models

import (
	"time"
)

// Session status values
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Session tracks the latest element selection of one viewer and the
// spectrum computed for it.
type Session struct {
	ID          string           `json:"id" doc:"Session identifier"`
	Status      string           `json:"status" enum:"pending,processing,completed,failed" doc:"Status of the latest selection"`
	Element     *Element         `json:"element,omitempty" doc:"Most recently selected element"`
	Generation  uint64           `json:"generation" doc:"Number of selections made so far"`
	Message     string           `json:"message,omitempty" doc:"Human-readable status message"`
	Error       string           `json:"error,omitempty" doc:"Failure reason of the latest selection"`
	Result      *ElementSpectrum `json:"result,omitempty" doc:"Spectrum of the latest selection once completed"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// CreateSessionResponse returns a new, empty session
type CreateSessionResponse struct {
	Body *Session
}

// SelectElementRequest changes the element a session is looking at
type SelectElementRequest struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		Element string `json:"element" required:"true" example:"26-Fe" doc:"Element key, symbol or atomic number"`
	}
}

// GetSessionRequest names one session
type GetSessionRequest struct {
	ID string `path:"id" doc:"Session ID"`
}

// SessionResponse returns the current state of a session
type SessionResponse struct {
	Body *Session
}
