package entity

type Theater struct {
	BaseNoDelete
	Name     string `db:"name"`
	Location string `db:"location"`
	Capacity int    `db:"capacity"`
}
