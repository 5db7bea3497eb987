package request

type MovieRequest struct {
	Title             string  `json:"title" validate:"required,min=1,max=255"`
	PosterURL         *string `json:"poster_url,omitempty" validate:"omitempty,url"`
	ReleaseDate       string  `json:"release_date" validate:"required,datetime=2006-01-02"`
	DurationInMinutes int     `json:"duration_in_minutes" validate:"required,min=1,max=999"`
	Genre             string  `json:"genre" validate:"required,min=2,max=50"`
}

type MovieUpdateRequest struct {
	Title             *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	PosterURL         *string `json:"poster_url,omitempty" validate:"omitempty,url"`
	ReleaseDate       *string `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DurationInMinutes *int    `json:"duration_in_minutes,omitempty" validate:"omitempty,min=1,max=999"`
	Genre             *string `json:"genre,omitempty" validate:"omitempty,min=2,max=50"`
}
