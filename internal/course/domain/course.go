package domain

import "time"

// Course is owned by the course service. Quantity is the number of seats
// still available and never goes below zero; it is mutated only through the
// inventory adjust path. CreatedAt is set once at creation.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewCourse(title, description string, price float64, quantity int) Course {
	return Course{
		Title:       title,
		Description: description,
		Price:       price,
		Quantity:    quantity,
		CreatedAt:   time.Now().UTC(),
	}
}
