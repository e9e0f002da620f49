package domain

import "time"

type PurchaseStatus string

const (
	StatusPending   PurchaseStatus = "PENDING"
	StatusCompleted PurchaseStatus = "COMPLETED"
	StatusFailed    PurchaseStatus = "FAILED"
)

// Purchase is a point-in-time record of a checkout. CourseName and
// TotalPrice are snapshots taken at purchase time and are never re-synced
// with the course service.
type Purchase struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"userId"`
	CourseID    int64          `json:"courseId"`
	CourseName  string         `json:"courseName"`
	TotalPrice  float64        `json:"totalPrice"`
	Status      PurchaseStatus `json:"status"`
	PurchasedAt time.Time      `json:"purchasedAt"`
}

func NewPurchase(userID, courseID int64, courseName string, totalPrice float64) Purchase {
	return Purchase{
		UserID:      userID,
		CourseID:    courseID,
		CourseName:  courseName,
		TotalPrice:  totalPrice,
		Status:      StatusCompleted,
		PurchasedAt: time.Now().UTC(),
	}
}
