package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eventshare/eventshare-api/internal/models"
)

// DateLayout is the calendar date format used for event_date parameters.
const DateLayout = "2006-01-02"

// QueryObserver receives per-operation query timings.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

type relation uint8

const (
	withCategory relation = 1 << iota
	withSpace
	withStatus
	withCreator
	withResponsible

	withNone relation = 0
	withAll           = withCategory | withSpace | withStatus | withCreator | withResponsible
)

const eventColumns = `e.id, e.name, e.event_date, e.start_time, e.end_time, e.description, e.category_id, e.space_id, e.status_id, e.creator_user_id, e.responsible_user_id, e.image`

// eventRow is the flat projection of an event joined with its related records.
type eventRow struct {
	models.Event
	CategoryName     string `db:"category_name"`
	SpaceName        string `db:"space_name"`
	SpaceCapacity    *int   `db:"space_capacity"`
	StatusName       string `db:"status_name"`
	CreatorName      string `db:"creator_name"`
	CreatorEmail     string `db:"creator_email"`
	ResponsibleName  string `db:"responsible_name"`
	ResponsibleEmail string `db:"responsible_email"`
}

func (r eventRow) toModel(rel relation) models.Event {
	event := r.Event
	if rel&withCategory != 0 {
		event.Category = &models.Category{ID: event.CategoryID, Name: r.CategoryName}
	}
	if rel&withSpace != 0 {
		event.Space = &models.Space{ID: event.SpaceID, Name: r.SpaceName, Capacity: r.SpaceCapacity}
	}
	if rel&withStatus != 0 {
		event.Status = &models.Status{ID: event.StatusID, Name: r.StatusName}
	}
	if rel&withCreator != 0 {
		event.CreatorUser = &models.User{ID: event.CreatorUserID, Name: r.CreatorName, Email: r.CreatorEmail}
	}
	if rel&withResponsible != 0 {
		event.ResponsibleUser = &models.User{ID: event.ResponsibleUserID, Name: r.ResponsibleName, Email: r.ResponsibleEmail}
	}
	return event
}

// selectEvents renders SELECT ... FROM events e with the joins required by rel.
func selectEvents(rel relation) string {
	var cols, joins strings.Builder
	cols.WriteString(eventColumns)
	if rel&withCategory != 0 {
		cols.WriteString(", c.name AS category_name")
		joins.WriteString(" JOIN event_categories c ON c.id = e.category_id")
	}
	if rel&withSpace != 0 {
		cols.WriteString(", sp.name AS space_name, sp.capacity AS space_capacity")
		joins.WriteString(" JOIN event_spaces sp ON sp.id = e.space_id")
	}
	if rel&withStatus != 0 {
		cols.WriteString(", st.name AS status_name")
		joins.WriteString(" JOIN event_statuses st ON st.id = e.status_id")
	}
	if rel&withCreator != 0 {
		cols.WriteString(", cu.name AS creator_name, cu.email AS creator_email")
		joins.WriteString(" JOIN users cu ON cu.id = e.creator_user_id")
	}
	if rel&withResponsible != 0 {
		cols.WriteString(", ru.name AS responsible_name, ru.email AS responsible_email")
		joins.WriteString(" JOIN users ru ON ru.id = e.responsible_user_id")
	}
	return "SELECT " + cols.String() + " FROM events e" + joins.String()
}

// EventRepository persists events and answers the filtered event queries.
type EventRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewEventRepository constructs an event repository. observer may be nil.
func NewEventRepository(db *sqlx.DB, observer QueryObserver) *EventRepository {
	return &EventRepository{db: db, observer: observer}
}

func (r *EventRepository) observe(label string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveDBQuery("events."+label, time.Since(start))
	}
}

func (r *EventRepository) list(ctx context.Context, label string, rel relation, where string, args ...interface{}) ([]models.Event, error) {
	defer r.observe(label, time.Now())

	query := selectEvents(rel)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY e.id ASC"

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s events: %w", label, err)
	}
	events := make([]models.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toModel(rel))
	}
	return events, nil
}

// GetByID fetches an event without related records.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	defer r.observe("get_by_id", time.Now())

	var row eventRow
	if err := r.db.GetContext(ctx, &row, selectEvents(withNone)+" WHERE e.id = $1", id); err != nil {
		return nil, err
	}
	event := row.toModel(withNone)
	return &event, nil
}

// List returns every event with all related records attached.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	return r.list(ctx, "list", withAll, "")
}

// FindByName returns the first event whose name equals name exactly.
func (r *EventRepository) FindByName(ctx context.Context, name string) (*models.Event, error) {
	defer r.observe("find_by_name", time.Now())

	var row eventRow
	query := selectEvents(withAll) + " WHERE e.name = $1 ORDER BY e.id ASC LIMIT 1"
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		return nil, err
	}
	event := row.toModel(withAll)
	return &event, nil
}

// SearchByKeyword returns events whose name contains keyword. The creator is not attached.
func (r *EventRepository) SearchByKeyword(ctx context.Context, keyword string) ([]models.Event, error) {
	return r.list(ctx, "search", withStatus|withCategory|withSpace|withResponsible, "strpos(e.name, $1) > 0", keyword)
}

// ListByCategory returns events of the given category.
func (r *EventRepository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Event, error) {
	return r.list(ctx, "list_by_category", withAll, "e.category_id = $1", categoryID)
}

// ListByDate returns events held on date, without related records.
func (r *EventRepository) ListByDate(ctx context.Context, date time.Time) ([]models.Event, error) {
	return r.list(ctx, "list_by_date", withNone, "e.event_date = $1", date.Format(DateLayout))
}

// ListByStatus returns events whose status name contains status.
func (r *EventRepository) ListByStatus(ctx context.Context, status string) ([]models.Event, error) {
	return r.list(ctx, "list_by_status", withAll, "strpos(st.name, $1) > 0", status)
}

// SpaceIDsExcludingDate returns the space id of every event not held on date,
// one entry per event.
func (r *EventRepository) SpaceIDsExcludingDate(ctx context.Context, date time.Time) ([]int64, error) {
	defer r.observe("space_ids_excluding_date", time.Now())

	ids := []int64{}
	const query = `SELECT e.space_id FROM events e WHERE e.event_date <> $1 ORDER BY e.id ASC`
	if err := r.db.SelectContext(ctx, &ids, query, date.Format(DateLayout)); err != nil {
		return nil, fmt.Errorf("list space ids excluding date: %w", err)
	}
	return ids, nil
}

// Create inserts an event and writes the generated id back onto it.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	defer r.observe("create", time.Now())

	const named = `INSERT INTO events (name, event_date, start_time, end_time, description, category_id, space_id, status_id, creator_user_id, responsible_user_id, image)
VALUES (:name, :event_date, :start_time, :end_time, :description, :category_id, :space_id, :status_id, :creator_user_id, :responsible_user_id, :image)
RETURNING id`
	query, args, err := sqlx.Named(named, event)
	if err != nil {
		return fmt.Errorf("bind create event: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&event.ID); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update overwrites every column of the event row. sql.ErrNoRows is returned when the id is unknown.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	defer r.observe("update", time.Now())

	const query = `UPDATE events SET name = :name, event_date = :event_date, start_time = :start_time, end_time = :end_time,
description = :description, category_id = :category_id, space_id = :space_id, status_id = :status_id,
creator_user_id = :creator_user_id, responsible_user_id = :responsible_user_id, image = :image
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an event. sql.ErrNoRows is returned when the id is unknown.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	defer r.observe("delete", time.Now())

	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
