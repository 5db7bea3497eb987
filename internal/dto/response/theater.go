package response

import (
	"cinema-reservation/internal/data/entity"
)

type TheaterResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

func TheaterToResponse(t *entity.Theater) TheaterResponse {
	return TheaterResponse{
		ID:       t.ID,
		Name:     t.Name,
		Location: t.Location,
		Capacity: t.Capacity,
	}
}
