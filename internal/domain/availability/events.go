package availability

import (
	"time"

	"staycal/internal/domain/reservations"
	"staycal/internal/domain/shared/events"
)

// ConflictDetected is raised by the periodic scan when two stored reservations
// on one property share days.
type ConflictDetected struct {
	events.Base
	PropertyID string `json:"property_id"`
	First      string `json:"first"`
	Second     string `json:"second"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

func ConflictDetectedEvent(c reservations.Conflict, at time.Time) ConflictDetected {
	return ConflictDetected{
		Base:       events.NewBase("availability.conflict_detected", c.PropertyID, c.First.OwnerID, at),
		PropertyID: c.PropertyID,
		First:      string(c.First.ID),
		Second:     string(c.Second.ID),
		Start:      c.Shared.Start.String(),
		End:        c.Shared.End.String(),
	}
}
