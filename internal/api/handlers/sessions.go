package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/repository"
	"github.com/RMahshie/spectra/pkg/models"
)

// SessionService is the part of processing.SessionRunner the handlers use
type SessionService interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Select(ctx context.Context, id uuid.UUID, e models.Element) (uint64, error)
}

// SessionHandler handles viewer session requests
type SessionHandler struct {
	sessions SessionService
	lines    repository.LineRepository
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions SessionService, lines repository.LineRepository) *SessionHandler {
	return &SessionHandler{sessions: sessions, lines: lines}
}

// CreateSession starts a new viewer session
func (h *SessionHandler) CreateSession(ctx context.Context, _ *struct{}) (*models.CreateSessionResponse, error) {
	s, err := h.sessions.Create(ctx)
	if err != nil {
		return nil, toHumaError("Failed to create session", err)
	}
	return &models.CreateSessionResponse{Body: s}, nil
}

// SelectElement makes an element the session's latest selection
func (h *SessionHandler) SelectElement(ctx context.Context, req *models.SelectElementRequest) (*models.SessionResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid session ID", err)
	}
	e, err := models.LookupElement(req.Body.Element)
	if err != nil {
		return nil, toHumaError("Unknown element", err)
	}

	ok, err := h.lines.Exists(ctx, e)
	if err != nil {
		return nil, toHumaError("Failed to look up element", err)
	}
	if !ok {
		return nil, huma.Error404NotFound("Element not available: " + e.Key())
	}

	generation, err := h.sessions.Select(ctx, id, e)
	if err != nil {
		return nil, toHumaError("Session not found", err)
	}
	log.Info().Str("sessionID", id.String()).Str("element", e.Key()).Uint64("generation", generation).Msg("Element selected")

	s, err := h.sessions.Get(ctx, id)
	if err != nil {
		return nil, toHumaError("Session not found", err)
	}
	return &models.SessionResponse{Body: s}, nil
}

// GetSession returns the current state of a session
func (h *SessionHandler) GetSession(ctx context.Context, req *models.GetSessionRequest) (*models.SessionResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid session ID", err)
	}
	s, err := h.sessions.Get(ctx, id)
	if err != nil {
		return nil, toHumaError("Session not found", err)
	}
	return &models.SessionResponse{Body: s}, nil
}
