package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewRouteID generates a human-facing route identifier of the form
// route-<millis>-<8 hex chars>. Uniqueness is backed by the store-level
// index on route_id rather than checked here.
func NewRouteID() string {
	return fmt.Sprintf("route-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
