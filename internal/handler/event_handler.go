package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventshare/eventshare-api/internal/dto"
	"github.com/eventshare/eventshare-api/internal/service"
	appErrors "github.com/eventshare/eventshare-api/pkg/errors"
	"github.com/eventshare/eventshare-api/pkg/response"
)

const imageFormField = "EventoImagem"

type eventService interface {
	List(ctx context.Context) ([]dto.EventResponse, error)
	GetByName(ctx context.Context, name string) (*dto.EventResponse, error)
	Search(ctx context.Context, keyword string) ([]dto.EventResponse, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]dto.EventResponse, error)
	ListByDate(ctx context.Context, date time.Time) ([]dto.EventResponse, error)
	ListByStatus(ctx context.Context, status string) ([]dto.EventResponse, error)
	FreeSpaces(ctx context.Context, date time.Time) ([]dto.SpaceResponse, error)
	Create(ctx context.Context, form dto.EventForm, image *dto.ImageUpload) (*dto.EventResponse, error)
	Update(ctx context.Context, form dto.EventForm, image *dto.ImageUpload) (*dto.EventResponse, error)
	Delete(ctx context.Context, id int64) (*dto.EventResponse, error)
}

// EventHandler exposes event endpoints.
type EventHandler struct {
	service eventService
}

// NewEventHandler builds a new handler.
func NewEventHandler(service eventService) *EventHandler {
	return &EventHandler{service: service}
}

// RegisterRoutes mounts the event routes on rg. guard, when non-nil, protects the mutating routes.
func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	events := rg.Group("/events")
	events.GET("", h.List)
	events.GET("/:name", h.GetByName)
	events.GET("/busca/:keyword", h.Search)
	events.GET("/categoria/:id", h.ListByCategory)
	events.GET("/evento/espaco/:date", h.FreeSpaces)
	events.GET("/data/:date", h.ListByDate)
	events.GET("/status/:status", h.ListByStatus)

	mutating := events.Group("")
	if guard != nil {
		mutating.Use(guard)
	}
	mutating.POST("", h.Create)
	mutating.PUT("", h.Update)
	mutating.DELETE("/:id", h.Delete)
}

// List godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, events)
}

// GetByName godoc
// @Summary Get an event by exact name
// @Tags Events
// @Produce json
// @Param name path string true "Event name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{name} [get]
func (h *EventHandler) GetByName(c *gin.Context) {
	event, err := h.service.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// Search godoc
// @Summary Search events by name substring
// @Tags Events
// @Produce json
// @Param keyword path string true "Keyword"
// @Success 200 {object} response.Envelope
// @Router /events/busca/{keyword} [get]
func (h *EventHandler) Search(c *gin.Context) {
	events, err := h.service.Search(c.Request.Context(), c.Param("keyword"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, events)
}

// ListByCategory godoc
// @Summary List events of a category
// @Tags Events
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events/categoria/{id} [get]
func (h *EventHandler) ListByCategory(c *gin.Context) {
	id, err := service.ParseEntityID(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid category id"))
		return
	}
	events, err := h.service.ListByCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, events)
}

// FreeSpaces godoc
// @Summary List spaces of events not held on a date
// @Tags Events
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events/evento/espaco/{date} [get]
func (h *EventHandler) FreeSpaces(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}
	spaces, err := h.service.FreeSpaces(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, spaces)
}

// ListByDate godoc
// @Summary List events held on a date
// @Tags Events
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events/data/{date} [get]
func (h *EventHandler) ListByDate(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}
	events, err := h.service.ListByDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, events)
}

// ListByStatus godoc
// @Summary List events whose status name contains a substring
// @Tags Events
// @Produce json
// @Param status path string true "Status name fragment"
// @Success 200 {object} response.Envelope
// @Router /events/status/{status} [get]
func (h *EventHandler) ListByStatus(c *gin.Context) {
	events, err := h.service.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, events)
}

// Create godoc
// @Summary Create an event
// @Tags Events
// @Accept multipart/form-data
// @Produce json
// @Param EventoNome formData string true "Name"
// @Param EventoData formData string true "Date"
// @Param EventoHorarioComeco formData string true "Start time"
// @Param EventoHorarioFim formData string true "End time"
// @Param EventoDescricao formData string false "Description"
// @Param EventoCategoriaId formData int true "Category ID"
// @Param EventoEspacoId formData int true "Space ID"
// @Param EventoStatusId formData int true "Status ID"
// @Param CriadorUsuarioId formData int true "Creator user ID"
// @Param ResponsavelUsuarioId formData int true "Responsible user ID"
// @Param EventoImagem formData file false "Image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	form, image, ok := bindEventForm(c)
	if !ok {
		return
	}
	defer closeUpload(image)

	event, err := h.service.Create(c.Request.Context(), form, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update an event
// @Tags Events
// @Accept multipart/form-data
// @Produce json
// @Param EventoId formData int true "Event ID"
// @Param EventoNome formData string true "Name"
// @Param EventoData formData string true "Date"
// @Param EventoHorarioComeco formData string true "Start time"
// @Param EventoHorarioFim formData string true "End time"
// @Param EventoDescricao formData string false "Description"
// @Param EventoCategoriaId formData int true "Category ID"
// @Param EventoEspacoId formData int true "Space ID"
// @Param EventoStatusId formData int false "Status ID"
// @Param CriadorUsuarioId formData int false "Creator user ID"
// @Param ResponsavelUsuarioId formData int false "Responsible user ID"
// @Param EventoImagem formData file false "Image"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events [put]
func (h *EventHandler) Update(c *gin.Context) {
	form, image, ok := bindEventForm(c)
	if !ok {
		return
	}
	defer closeUpload(image)

	event, err := h.service.Update(c.Request.Context(), form, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	id, err := service.ParseEntityID(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event id"))
		return
	}
	event, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

func pathDate(c *gin.Context) (time.Time, bool) {
	date, err := service.ParseEventDate(c.Param("date"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid date"))
		return time.Time{}, false
	}
	return date, true
}

// bindEventForm reads the form fields and the optional image part.
func bindEventForm(c *gin.Context) (dto.EventForm, *dto.ImageUpload, bool) {
	var form dto.EventForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid event payload"))
		return form, nil, false
	}

	header, err := c.FormFile(imageFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return form, nil, true
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid image upload"))
		return form, nil, false
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read image upload"))
		return form, nil, false
	}
	return form, &dto.ImageUpload{Filename: header.Filename, Size: header.Size, Content: file}, true
}

func closeUpload(image *dto.ImageUpload) {
	if image == nil {
		return
	}
	if closer, ok := image.Content.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
