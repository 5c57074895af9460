package domain

import "time"

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
	RequestExpired   RequestStatus = "expired"
)

type RequestPriority string

const (
	PriorityLow      RequestPriority = "low"
	PriorityMedium   RequestPriority = "medium"
	PriorityHigh     RequestPriority = "high"
	PriorityCritical RequestPriority = "critical"
)

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type VehicleInfo struct {
	Make               string `json:"make,omitempty"`
	Model              string `json:"model,omitempty"`
	Year               int    `json:"year,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
}

// ServiceRequest is a traveler's unserved ask. It leaves the claimable pool
// the moment one mechanic accepts it.
type ServiceRequest struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"userId"`
	// Reference is the public tracking code quoted over the phone.
	Reference   string          `json:"reference"`
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description,omitempty"`
	IssueType   string          `json:"issueType"`
	Priority    RequestPriority `json:"priority"`
	VehicleInfo VehicleInfo     `json:"vehicleInfo"`
	Location    GeoPoint        `json:"location"`
	Status      RequestStatus   `json:"status"`
	AcceptedBy  *int64          `json:"acceptedBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	User *User `json:"user,omitempty"`
}
