package response

import (
	"time"

	"cinema-reservation/internal/data/entity"
)

type MovieResponse struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	PosterURL         *string   `json:"poster_url,omitempty"`
	ReleaseDate       string    `json:"release_date"`
	DurationInMinutes int       `json:"duration_in_minutes"`
	Genre             string    `json:"genre"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:                movie.ID,
		Title:             movie.Title,
		PosterURL:         movie.PosterURL,
		ReleaseDate:       movie.ReleaseDate.Format("2006-01-02"),
		DurationInMinutes: movie.DurationInMinutes,
		Genre:             movie.Genre,
		CreatedAt:         movie.CreatedAt,
		UpdatedAt:         movie.UpdatedAt,
	}
}
