package domain

import "time"

type SOSStatus string

const (
	SOSActive   SOSStatus = "active"
	SOSResolved SOSStatus = "resolved"
)

type SOSAlert struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	Message    string     `json:"message,omitempty"`
	Location   GeoPoint   `json:"location"`
	Status     SOSStatus  `json:"status"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`

	User *User `json:"user,omitempty"`
}
