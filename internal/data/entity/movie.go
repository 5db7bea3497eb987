package entity

import (
	"time"
)

type Movie struct {
	Base
	Title             string    `db:"title"`
	PosterURL         *string   `db:"poster_url"`
	DurationInMinutes int       `db:"duration_in_minutes"`
	ReleaseDate       time.Time `db:"release_date"`
	Genre             string    `db:"genre"`
}
