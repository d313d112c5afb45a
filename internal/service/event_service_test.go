package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventshare/eventshare-api/internal/dto"
	"github.com/eventshare/eventshare-api/internal/models"
	appErrors "github.com/eventshare/eventshare-api/pkg/errors"
)

type mockEventRepo struct {
	items     map[int64]*models.Event
	statuses  map[int64]string
	nextID    int64
	createErr error
	listErr   error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{items: map[int64]*models.Event{}, statuses: map[int64]string{1: "Pendente", 2: "Confirmado"}}
}

func (m *mockEventRepo) sorted() []models.Event {
	out := make([]models.Event, 0, len(m.items))
	for _, e := range m.items {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *mockEventRepo) filter(keep func(models.Event) bool) []models.Event {
	out := []models.Event{}
	for _, e := range m.sorted() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (m *mockEventRepo) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	if e, ok := m.items[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEventRepo) List(ctx context.Context) ([]models.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(), nil
}

func (m *mockEventRepo) FindByName(ctx context.Context, name string) (*models.Event, error) {
	for _, e := range m.sorted() {
		if e.Name == name {
			cp := e
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEventRepo) SearchByKeyword(ctx context.Context, keyword string) ([]models.Event, error) {
	return m.filter(func(e models.Event) bool { return strings.Contains(e.Name, keyword) }), nil
}

func (m *mockEventRepo) ListByCategory(ctx context.Context, categoryID int64) ([]models.Event, error) {
	return m.filter(func(e models.Event) bool { return e.CategoryID == categoryID }), nil
}

func (m *mockEventRepo) ListByDate(ctx context.Context, date time.Time) ([]models.Event, error) {
	return m.filter(func(e models.Event) bool { return e.Date.Equal(date) }), nil
}

func (m *mockEventRepo) ListByStatus(ctx context.Context, status string) ([]models.Event, error) {
	return m.filter(func(e models.Event) bool { return strings.Contains(m.statuses[e.StatusID], status) }), nil
}

func (m *mockEventRepo) SpaceIDsExcludingDate(ctx context.Context, date time.Time) ([]int64, error) {
	ids := []int64{}
	for _, e := range m.sorted() {
		if !e.Date.Equal(date) {
			ids = append(ids, e.SpaceID)
		}
	}
	return ids, nil
}

func (m *mockEventRepo) Create(ctx context.Context, event *models.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	event.ID = m.nextID
	cp := *event
	m.items[event.ID] = &cp
	return nil
}

func (m *mockEventRepo) Update(ctx context.Context, event *models.Event) error {
	if _, ok := m.items[event.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *event
	m.items[event.ID] = &cp
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockSpaceRepo struct {
	items map[int64]models.Space
}

func (m *mockSpaceRepo) GetByID(ctx context.Context, id int64) (*models.Space, error) {
	if s, ok := m.items[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

type mockImageStore struct {
	stored  []string
	removed []string
}

func (m *mockImageStore) Store(ctx context.Context, upload dto.ImageUpload) (string, error) {
	path := "events/" + upload.Filename
	m.stored = append(m.stored, path)
	return path, nil
}

func (m *mockImageStore) Remove(path string) error {
	m.removed = append(m.removed, path)
	return nil
}

type mutationCounter map[string]int

func (m mutationCounter) RecordEventMutation(operation, outcome string) {
	m[operation+":"+outcome]++
}

func validForm() dto.EventForm {
	return dto.EventForm{
		Name:              "Workshop Go",
		Date:              "2024-05-10",
		StartTime:         "09:00",
		EndTime:           "11:30",
		Description:       "Hands-on",
		CategoryID:        "1",
		SpaceID:           "3",
		StatusID:          "1",
		CreatorUserID:     "7",
		ResponsibleUserID: "8",
	}
}

func newTestEventService(repo *mockEventRepo) (*EventService, mutationCounter) {
	counter := mutationCounter{}
	spaces := &mockSpaceRepo{items: map[int64]models.Space{3: {ID: 3, Name: "Auditorio"}, 5: {ID: 5, Name: "Sala 5"}}}
	return NewEventService(repo, spaces, nil, counter, validator.New(), zap.NewNop()), counter
}

func TestEventServiceCreateRoundTrip(t *testing.T) {
	repo := newMockEventRepo()
	svc, counter := newTestEventService(repo)

	created, err := svc.Create(context.Background(), validForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Workshop Go", created.Name)
	assert.Equal(t, "2024-05-10", created.Date)
	assert.Equal(t, "09:00", created.StartTime)
	assert.Equal(t, "11:30", created.EndTime)
	assert.Equal(t, int64(1), created.CategoryID)
	assert.Equal(t, int64(3), created.SpaceID)
	assert.Equal(t, int64(7), created.CreatorUserID)
	assert.Equal(t, int64(8), created.ResponsibleUserID)

	found, err := svc.GetByName(context.Background(), "Workshop Go")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Date, found.Date)
	assert.Equal(t, 1, counter["create:success"])
}

func TestEventServiceCreateRejectsMalformedFields(t *testing.T) {
	repo := newMockEventRepo()
	svc, counter := newTestEventService(repo)

	form := validForm()
	form.Date = "10/05/2024x"
	form.CategoryID = "abc"
	form.CreatorUserID = ""
	_, err := svc.Create(context.Background(), form, nil)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "invalid fields: CriadorUsuarioId, EventoCategoriaId, EventoData", appErr.Message)
	assert.Empty(t, repo.items)
	assert.Equal(t, 1, counter["create:invalid"])
}

func TestEventServiceCreateRejectsBadClock(t *testing.T) {
	svc, _ := newTestEventService(newMockEventRepo())
	form := validForm()
	form.EndTime = "25:00"
	_, err := svc.Create(context.Background(), form, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEventServiceCreateForeignKeyViolation(t *testing.T) {
	repo := newMockEventRepo()
	repo.createErr = &pq.Error{Code: "23503"}
	svc, _ := newTestEventService(repo)

	_, err := svc.Create(context.Background(), validForm(), nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEventServiceCreateImageDisabled(t *testing.T) {
	svc, _ := newTestEventService(newMockEventRepo())
	_, err := svc.Create(context.Background(), validForm(), &dto.ImageUpload{Filename: "a.png", Size: 3})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestEventServiceCreateStoresImageAndCleansUpOnFailure(t *testing.T) {
	repo := newMockEventRepo()
	images := &mockImageStore{}
	svc := NewEventService(repo, &mockSpaceRepo{}, images, nil, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), validForm(), &dto.ImageUpload{Filename: "a.png", Size: 3})
	require.NoError(t, err)
	require.NotNil(t, created.Image)
	assert.Equal(t, "events/a.png", *created.Image)

	repo.createErr = errors.New("connection reset")
	_, err = svc.Create(context.Background(), validForm(), &dto.ImageUpload{Filename: "b.png", Size: 3})
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
	assert.Equal(t, []string{"events/b.png"}, images.removed)
}

func TestEventServiceUpdateOverwritesFields(t *testing.T) {
	repo := newMockEventRepo()
	svc, counter := newTestEventService(repo)
	created, err := svc.Create(context.Background(), validForm(), nil)
	require.NoError(t, err)

	form := validForm()
	form.ID = "1"
	form.Name = "Workshop Go Avancado"
	form.Date = "2024-06-01T00:00:00Z"
	form.SpaceID = "5"
	form.StatusID = ""
	form.CreatorUserID = ""
	form.ResponsibleUserID = "9"

	updated, err := svc.Update(context.Background(), form, nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Workshop Go Avancado", updated.Name)
	assert.Equal(t, "2024-06-01", updated.Date)
	assert.Equal(t, int64(5), updated.SpaceID)
	assert.Equal(t, int64(1), updated.StatusID)
	assert.Equal(t, int64(7), updated.CreatorUserID)
	assert.Equal(t, int64(9), updated.ResponsibleUserID)
	assert.Equal(t, "Workshop Go Avancado", repo.items[1].Name)
	assert.Equal(t, 1, counter["update:success"])
}

func TestEventServiceUpdateUnknownIDIsNotFound(t *testing.T) {
	svc, counter := newTestEventService(newMockEventRepo())
	form := validForm()
	form.ID = "404"
	form.Date = "not-a-date"

	_, err := svc.Update(context.Background(), form, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, 1, counter["update:not_found"])
}

func TestEventServiceUpdateKnownIDMalformedFieldIsInvalid(t *testing.T) {
	repo := newMockEventRepo()
	svc, _ := newTestEventService(repo)
	_, err := svc.Create(context.Background(), validForm(), nil)
	require.NoError(t, err)

	form := validForm()
	form.ID = "1"
	form.CategoryID = "x"
	_, err = svc.Update(context.Background(), form, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "Workshop Go", repo.items[1].Name)
}

func TestEventServiceUpdateMalformedID(t *testing.T) {
	svc, _ := newTestEventService(newMockEventRepo())
	for _, id := range []string{"", "abc", "-2"} {
		form := validForm()
		form.ID = id
		_, err := svc.Update(context.Background(), form, nil)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), id)
	}
}

func TestEventServiceUpdateReplacesImage(t *testing.T) {
	repo := newMockEventRepo()
	images := &mockImageStore{}
	svc := NewEventService(repo, &mockSpaceRepo{}, images, nil, validator.New(), zap.NewNop())
	_, err := svc.Create(context.Background(), validForm(), &dto.ImageUpload{Filename: "old.png", Size: 3})
	require.NoError(t, err)

	form := validForm()
	form.ID = "1"
	updated, err := svc.Update(context.Background(), form, &dto.ImageUpload{Filename: "new.png", Size: 3})
	require.NoError(t, err)
	assert.Equal(t, "events/new.png", *updated.Image)
	assert.Equal(t, []string{"events/old.png"}, images.removed)
}

func TestEventServiceDelete(t *testing.T) {
	repo := newMockEventRepo()
	svc, counter := newTestEventService(repo)
	created, err := svc.Create(context.Background(), validForm(), nil)
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.GetByName(context.Background(), created.Name)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	_, err = svc.Delete(context.Background(), created.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, 1, counter["delete:success"])
	assert.Equal(t, 1, counter["delete:not_found"])
}

func seedEvents(repo *mockEventRepo) {
	d1 := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)
	repo.items = map[int64]*models.Event{
		1: {ID: 1, Name: "Workshop Go", Date: d1, CategoryID: 1, SpaceID: 3, StatusID: 1},
		2: {ID: 2, Name: "Palestra", Date: d2, CategoryID: 2, SpaceID: 3, StatusID: 2},
		3: {ID: 3, Name: "Go Meetup", Date: d2, CategoryID: 12, SpaceID: 5, StatusID: 2},
		4: {ID: 4, Name: "Show", Date: d2, CategoryID: 1, SpaceID: 99, StatusID: 1},
	}
	repo.nextID = 4
}

func eventIDs(events []dto.EventResponse) []int64 {
	ids := make([]int64, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestEventServiceSearch(t *testing.T) {
	repo := newMockEventRepo()
	seedEvents(repo)
	svc, _ := newTestEventService(repo)

	events, err := svc.Search(context.Background(), "Go")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, eventIDs(events))

	events, err = svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, eventIDs(events))
}

func TestEventServiceListByCategoryIsExact(t *testing.T) {
	repo := newMockEventRepo()
	seedEvents(repo)
	svc, _ := newTestEventService(repo)

	events, err := svc.ListByCategory(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, eventIDs(events))
}

func TestEventServiceListByDateAndStatus(t *testing.T) {
	repo := newMockEventRepo()
	seedEvents(repo)
	svc, _ := newTestEventService(repo)

	events, err := svc.ListByDate(context.Background(), time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, eventIDs(events))

	events, err = svc.ListByStatus(context.Background(), "Confirm")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, eventIDs(events))
}

func TestEventServiceFreeSpacesExcludesDate(t *testing.T) {
	repo := newMockEventRepo()
	seedEvents(repo)
	svc, _ := newTestEventService(repo)

	spaces, err := svc.FreeSpaces(context.Background(), time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	names := make([]string, 0, len(spaces))
	for _, s := range spaces {
		names = append(names, s.Name)
	}
	// event 1 is on the date; event 4 points at a missing space.
	assert.Equal(t, []string{"Auditorio", "Sala 5"}, names)
}

func TestEventServiceListFailure(t *testing.T) {
	repo := newMockEventRepo()
	repo.listErr = errors.New("db down")
	svc, _ := newTestEventService(repo)

	_, err := svc.List(context.Background())
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestParseEventDate(t *testing.T) {
	for _, raw := range []string{"2024-05-10", "2024-05-10T15:04:05Z", "2024-05-10T23:30:00-03:00", "2024-05-10T08:00:00", "2024-05-10 08:00:00"} {
		d, err := ParseEventDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), d, raw)
	}
	_, err := ParseEventDate("10/05/2024")
	assert.Error(t, err)
}

func TestEventServiceRejectsBlankName(t *testing.T) {
	repo := newMockEventRepo()
	svc, _ := newTestEventService(repo)

	form := validForm()
	form.Name = "   "
	_, err := svc.Create(context.Background(), form, nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "invalid fields: EventoNome", appErrors.FromError(err).Message)
	assert.Empty(t, repo.items)

	_, err = svc.Create(context.Background(), validForm(), nil)
	require.NoError(t, err)
	form.ID = " 1 "
	_, err = svc.Update(context.Background(), form, nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, "Workshop Go", repo.items[1].Name)
}
