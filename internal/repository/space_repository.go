package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eventshare/eventshare-api/internal/models"
)

// SpaceRepository reads bookable spaces.
type SpaceRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewSpaceRepository constructs a space repository. observer may be nil.
func NewSpaceRepository(db *sqlx.DB, observer QueryObserver) *SpaceRepository {
	return &SpaceRepository{db: db, observer: observer}
}

// GetByID fetches a space.
func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (*models.Space, error) {
	if r.observer != nil {
		defer func(start time.Time) { r.observer.ObserveDBQuery("spaces.get_by_id", time.Since(start)) }(time.Now())
	}
	var space models.Space
	if err := r.db.GetContext(ctx, &space, "SELECT id, name, capacity FROM event_spaces WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &space, nil
}
