package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The event is the only contract between the order and course services, so
// the field names on the wire are load-bearing.
func TestOrderPlacedEventWireSchema(t *testing.T) {
	event := OrderPlacedEvent{
		OrderID:        42,
		UserID:         1,
		CourseID:       7,
		CourseName:     "Introduction to Cybersecurity",
		TotalPrice:     49.99,
		Timestamp:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		QuantityChange: -1,
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &raw))
	for _, key := range []string{"orderId", "userId", "courseId", "courseName", "totalPrice", "timestamp", "quantityChange"} {
		assert.Contains(t, raw, key)
	}
	assert.Len(t, raw, 7)
}
