package domain

import "time"

// Kafka contract shared by the order and course services. The event schema
// below is the only integration point between the two; both sides must agree
// on it.
const (
	OrderEventsTopic   = "order.events"
	OrderPlacedType    = "OrderPlaced"
	CourseServiceGroup = "course-service"
)

// OrderPlacedEvent tells the course service to adjust inventory for a
// completed purchase. QuantityChange is signed; a single-unit purchase
// carries -1.
type OrderPlacedEvent struct {
	OrderID        int64     `json:"orderId"`
	UserID         int64     `json:"userId"`
	CourseID       int64     `json:"courseId"`
	CourseName     string    `json:"courseName"`
	TotalPrice     float64   `json:"totalPrice"`
	Timestamp      time.Time `json:"timestamp"`
	QuantityChange int       `json:"quantityChange"`
}
