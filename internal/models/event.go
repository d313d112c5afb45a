package models

import "time"

// Event is a booking of a space on a given date. Related records are
// attached by the repository on queries that join them.
type Event struct {
	ID                int64     `db:"id"`
	Name              string    `db:"name"`
	Date              time.Time `db:"event_date"`
	StartTime         string    `db:"start_time"`
	EndTime           string    `db:"end_time"`
	Description       string    `db:"description"`
	CategoryID        int64     `db:"category_id"`
	SpaceID           int64     `db:"space_id"`
	StatusID          int64     `db:"status_id"`
	CreatorUserID     int64     `db:"creator_user_id"`
	ResponsibleUserID int64     `db:"responsible_user_id"`
	Image             *string   `db:"image"`

	Category        *Category `db:"-"`
	Space           *Space    `db:"-"`
	Status          *Status   `db:"-"`
	CreatorUser     *User     `db:"-"`
	ResponsibleUser *User     `db:"-"`
}

// Category classifies events.
type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Space is a bookable venue or room.
type Space struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Capacity *int   `db:"capacity"`
}

// Status is a lifecycle state such as pending or confirmed.
type Status struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// User is the subset of account data exposed alongside events.
type User struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}
