package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eventshare/eventshare-api/internal/dto"
	"github.com/eventshare/eventshare-api/internal/models"
	"github.com/eventshare/eventshare-api/pkg/database"
	appErrors "github.com/eventshare/eventshare-api/pkg/errors"
)

type eventRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	FindByName(ctx context.Context, name string) (*models.Event, error)
	SearchByKeyword(ctx context.Context, keyword string) ([]models.Event, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Event, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.Event, error)
	ListByStatus(ctx context.Context, status string) ([]models.Event, error)
	SpaceIDsExcludingDate(ctx context.Context, date time.Time) ([]int64, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
}

type spaceRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Space, error)
}

// EventImageStore persists and removes event images.
type EventImageStore interface {
	Store(ctx context.Context, upload dto.ImageUpload) (string, error)
	Remove(path string) error
}

type mutationRecorder interface {
	RecordEventMutation(operation, outcome string)
}

var dateLayouts = []string{dto.DateLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// ParseEventDate accepts a calendar date or timestamp and returns the date at UTC midnight.
func ParseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// ParseEntityID parses a positive integer identifier.
func ParseEntityID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func validClock(raw string) bool {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}
	return false
}

// EventService implements the event queries and mutations.
type EventService struct {
	repo      eventRepository
	spaces    spaceRepository
	images    EventImageStore
	metrics   mutationRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEventService constructs the service. images and metrics may be nil.
func NewEventService(repo eventRepository, spaces spaceRepository, images EventImageStore, metrics mutationRecorder, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &EventService{repo: repo, spaces: spaces, images: images, metrics: metrics, validator: validate, logger: logger}
	svc.validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("form"); name != "" && name != "-" {
			return name
		}
		return field.Name
	})
	svc.validator.RegisterValidation("event_date", func(fl validator.FieldLevel) bool {
		_, err := ParseEventDate(fl.Field().String())
		return err == nil
	})
	svc.validator.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return validClock(strings.TrimSpace(fl.Field().String()))
	})
	svc.validator.RegisterValidation("entity_id", func(fl validator.FieldLevel) bool {
		_, err := ParseEntityID(fl.Field().String())
		return err == nil
	})
	return svc
}

// List returns all events with their related records.
func (s *EventService) List(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return dto.NewEventResponses(events), nil
}

// GetByName returns the event whose name matches exactly.
func (s *EventService) GetByName(ctx context.Context, name string) (*dto.EventResponse, error) {
	event, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, classifyStoreError(err, "failed to load event")
	}
	resp := dto.NewEventResponse(*event)
	return &resp, nil
}

// Search returns events whose name contains keyword.
func (s *EventService) Search(ctx context.Context, keyword string) ([]dto.EventResponse, error) {
	events, err := s.repo.SearchByKeyword(ctx, keyword)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search events")
	}
	return dto.NewEventResponses(events), nil
}

// ListByCategory returns events of one category.
func (s *EventService) ListByCategory(ctx context.Context, categoryID int64) ([]dto.EventResponse, error) {
	events, err := s.repo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events by category")
	}
	return dto.NewEventResponses(events), nil
}

// ListByDate returns events held on date.
func (s *EventService) ListByDate(ctx context.Context, date time.Time) ([]dto.EventResponse, error) {
	events, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events by date")
	}
	return dto.NewEventResponses(events), nil
}

// ListByStatus returns events whose status name contains status.
func (s *EventService) ListByStatus(ctx context.Context, status string) ([]dto.EventResponse, error) {
	events, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events by status")
	}
	return dto.NewEventResponses(events), nil
}

// FreeSpaces resolves the space of every event not held on date, in event order.
// Duplicates are kept; ids that no longer resolve are skipped.
func (s *EventService) FreeSpaces(ctx context.Context, date time.Time) ([]dto.SpaceResponse, error) {
	ids, err := s.repo.SpaceIDsExcludingDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list spaces")
	}
	spaces := make([]dto.SpaceResponse, 0, len(ids))
	for _, id := range ids {
		space, err := s.spaces.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.logger.Warn("space referenced by event not found", zap.Int64("space_id", id))
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load space")
		}
		spaces = append(spaces, dto.NewSpaceResponse(*space))
	}
	return spaces, nil
}

// Create validates the form and inserts a new event.
func (s *EventService) Create(ctx context.Context, form dto.EventForm, image *dto.ImageUpload) (resp *dto.EventResponse, err error) {
	defer func() { s.record("create", err) }()
	form = trimForm(form)

	if err := s.validateForm(form, map[string]string{
		"EventoStatusId":       form.StatusID,
		"CriadorUsuarioId":     form.CreatorUserID,
		"ResponsavelUsuarioId": form.ResponsibleUserID,
	}); err != nil {
		return nil, err
	}

	event := &models.Event{}
	applyForm(event, form)

	stored, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		event.Image = &stored
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.discardImage(stored)
		return nil, classifyStoreError(err, "failed to create event")
	}

	s.logger.Info("event created", zap.Int64("event_id", event.ID), zap.String("name", event.Name))
	out := dto.NewEventResponse(*event)
	return &out, nil
}

// Update overwrites an existing event with the form values. The id is
// resolved before the remaining fields are validated, so an unknown id is
// reported as not found and a malformed field on a known id as invalid.
func (s *EventService) Update(ctx context.Context, form dto.EventForm, image *dto.ImageUpload) (resp *dto.EventResponse, err error) {
	defer func() { s.record("update", err) }()
	form = trimForm(form)

	if strings.TrimSpace(form.ID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "EventoId is required")
	}
	id, err := ParseEntityID(form.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fields: EventoId")
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(err, "failed to load event")
	}

	if err := s.validateForm(form, nil); err != nil {
		return nil, err
	}

	previousImage := event.Image
	applyForm(event, form)

	stored, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		event.Image = &stored
	}

	if err := s.repo.Update(ctx, event); err != nil {
		s.discardImage(stored)
		return nil, classifyStoreError(err, "failed to update event")
	}
	if stored != "" && previousImage != nil {
		s.discardImage(*previousImage)
	}

	s.logger.Info("event updated", zap.Int64("event_id", event.ID))
	out := dto.NewEventResponse(*event)
	return &out, nil
}

// Delete removes an event and returns it as it was before removal.
func (s *EventService) Delete(ctx context.Context, id int64) (resp *dto.EventResponse, err error) {
	defer func() { s.record("delete", err) }()

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(err, "failed to load event")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, classifyStoreError(err, "failed to delete event")
	}
	if event.Image != nil {
		s.discardImage(*event.Image)
	}

	s.logger.Info("event deleted", zap.Int64("event_id", id))
	out := dto.NewEventResponse(*event)
	return &out, nil
}

// validateForm runs the struct rules plus the fields that are mandatory for the
// current operation, reporting every offending form field at once.
func (s *EventService) validateForm(form dto.EventForm, required map[string]string) error {
	invalid := make([]string, 0)
	if err := s.validator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
		}
		for _, fe := range verrs {
			invalid = append(invalid, fe.Field())
		}
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	sort.Strings(invalid)
	return appErrors.Clone(appErrors.ErrValidation, "invalid fields: "+strings.Join(invalid, ", "))
}

// trimForm strips surrounding whitespace so blank values fail the required rules.
func trimForm(form dto.EventForm) dto.EventForm {
	form.ID = strings.TrimSpace(form.ID)
	form.Name = strings.TrimSpace(form.Name)
	form.Date = strings.TrimSpace(form.Date)
	form.StartTime = strings.TrimSpace(form.StartTime)
	form.EndTime = strings.TrimSpace(form.EndTime)
	form.CategoryID = strings.TrimSpace(form.CategoryID)
	form.SpaceID = strings.TrimSpace(form.SpaceID)
	form.StatusID = strings.TrimSpace(form.StatusID)
	form.CreatorUserID = strings.TrimSpace(form.CreatorUserID)
	form.ResponsibleUserID = strings.TrimSpace(form.ResponsibleUserID)
	return form
}

// applyForm copies validated form values onto event. Optional ids left empty keep their current value.
func applyForm(event *models.Event, form dto.EventForm) {
	event.Name = strings.TrimSpace(form.Name)
	event.Date, _ = ParseEventDate(form.Date)
	event.StartTime = strings.TrimSpace(form.StartTime)
	event.EndTime = strings.TrimSpace(form.EndTime)
	event.Description = form.Description
	event.CategoryID, _ = ParseEntityID(form.CategoryID)
	event.SpaceID, _ = ParseEntityID(form.SpaceID)
	if id, err := ParseEntityID(form.StatusID); err == nil {
		event.StatusID = id
	}
	if id, err := ParseEntityID(form.CreatorUserID); err == nil {
		event.CreatorUserID = id
	}
	if id, err := ParseEntityID(form.ResponsibleUserID); err == nil {
		event.ResponsibleUserID = id
	}
}

func (s *EventService) storeImage(ctx context.Context, image *dto.ImageUpload) (string, error) {
	if image == nil {
		return "", nil
	}
	if s.images == nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "image uploads are disabled")
	}
	return s.images.Store(ctx, *image)
}

func (s *EventService) discardImage(path string) {
	if path == "" || s.images == nil {
		return
	}
	if err := s.images.Remove(path); err != nil {
		s.logger.Warn("failed to remove event image", zap.String("path", path), zap.Error(err))
	}
}

func (s *EventService) record(operation string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case appErrors.Is(err, appErrors.ErrNotFound):
		outcome = "not_found"
	case appErrors.Is(err, appErrors.ErrValidation), appErrors.Is(err, appErrors.ErrTooLarge):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	s.metrics.RecordEventMutation(operation, outcome)
}

func classifyStoreError(err error, message string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	case database.IsConstraintViolation(err):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "referenced category, space, status or user does not exist")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}
