package request

type TheaterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Location string `json:"location" validate:"required,min=1,max=255"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=2000"`
}
