package domain

// User is the order service's read model of a user-service record. Only
// presence matters to checkout; the rest is carried for logging.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}
