package user

import (
	"time"

	"staycal/internal/domain/shared/events"
)

type StatusChanged struct {
	events.Base
	Status Status `json:"status"`
	Active bool   `json:"active"`
	By     string `json:"by"`
}

func StatusChangedEvent(u *User, by ID, at time.Time) StatusChanged {
	return StatusChanged{
		Base:   events.NewBase("user.status_changed", string(u.ID), string(u.ID), at),
		Status: u.Status,
		Active: u.Active,
		By:     string(by),
	}
}
