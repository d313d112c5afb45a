package dto

import (
	"io"

	"github.com/eventshare/eventshare-api/internal/models"
)

// DateLayout is the wire format for event dates.
const DateLayout = "2006-01-02"

// EventForm carries the raw create/update form fields. Values are parsed and
// validated by the service so that malformed input is reported per field.
type EventForm struct {
	ID                string `form:"EventoId" validate:"-"`
	Name              string `form:"EventoNome" validate:"required,max=200"`
	Date              string `form:"EventoData" validate:"required,event_date"`
	StartTime         string `form:"EventoHorarioComeco" validate:"required,clock"`
	EndTime           string `form:"EventoHorarioFim" validate:"required,clock"`
	Description       string `form:"EventoDescricao"`
	CategoryID        string `form:"EventoCategoriaId" validate:"required,entity_id"`
	SpaceID           string `form:"EventoEspacoId" validate:"required,entity_id"`
	StatusID          string `form:"EventoStatusId" validate:"omitempty,entity_id"`
	CreatorUserID     string `form:"CriadorUsuarioId" validate:"omitempty,entity_id"`
	ResponsibleUserID string `form:"ResponsavelUsuarioId" validate:"omitempty,entity_id"`
}

// ImageUpload is an optional image part submitted with an event form.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// CategorySummary is the category as embedded in an event payload.
type CategorySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StatusSummary is the status as embedded in an event payload.
type StatusSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserSummary is a user as embedded in an event payload.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SpaceResponse is a space payload, used both standalone and embedded.
type SpaceResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity *int   `json:"capacity,omitempty"`
}

// EventResponse is the transport shape of an event. Related records never
// point back at their events.
type EventResponse struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	Date              string           `json:"date"`
	StartTime         string           `json:"start_time"`
	EndTime           string           `json:"end_time"`
	Description       string           `json:"description"`
	CategoryID        int64            `json:"category_id"`
	SpaceID           int64            `json:"space_id"`
	StatusID          int64            `json:"status_id"`
	CreatorUserID     int64            `json:"creator_user_id"`
	ResponsibleUserID int64            `json:"responsible_user_id"`
	Image             *string          `json:"image,omitempty"`
	Category          *CategorySummary `json:"category,omitempty"`
	Space             *SpaceResponse   `json:"space,omitempty"`
	Status            *StatusSummary   `json:"status,omitempty"`
	CreatorUser       *UserSummary     `json:"creator_user,omitempty"`
	ResponsibleUser   *UserSummary     `json:"responsible_user,omitempty"`
}

// NewEventResponse maps a stored event to its transport shape.
func NewEventResponse(e models.Event) EventResponse {
	resp := EventResponse{
		ID:                e.ID,
		Name:              e.Name,
		Date:              e.Date.Format(DateLayout),
		StartTime:         e.StartTime,
		EndTime:           e.EndTime,
		Description:       e.Description,
		CategoryID:        e.CategoryID,
		SpaceID:           e.SpaceID,
		StatusID:          e.StatusID,
		CreatorUserID:     e.CreatorUserID,
		ResponsibleUserID: e.ResponsibleUserID,
		Image:             e.Image,
	}
	if e.Category != nil {
		resp.Category = &CategorySummary{ID: e.Category.ID, Name: e.Category.Name}
	}
	if e.Space != nil {
		space := NewSpaceResponse(*e.Space)
		resp.Space = &space
	}
	if e.Status != nil {
		resp.Status = &StatusSummary{ID: e.Status.ID, Name: e.Status.Name}
	}
	if e.CreatorUser != nil {
		resp.CreatorUser = newUserSummary(e.CreatorUser)
	}
	if e.ResponsibleUser != nil {
		resp.ResponsibleUser = newUserSummary(e.ResponsibleUser)
	}
	return resp
}

// NewEventResponses maps a list of events, returning an empty slice for no events.
func NewEventResponses(events []models.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventResponse(e))
	}
	return out
}

// NewSpaceResponse maps a stored space.
func NewSpaceResponse(s models.Space) SpaceResponse {
	return SpaceResponse{ID: s.ID, Name: s.Name, Capacity: s.Capacity}
}

func newUserSummary(u *models.User) *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
