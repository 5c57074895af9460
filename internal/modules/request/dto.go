package request

import "roadassist/internal/domain"

type CreateRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	IssueType   string                 `json:"issueType" binding:"required"`
	Priority    domain.RequestPriority `json:"priority"`
	VehicleInfo domain.VehicleInfo     `json:"vehicleInfo"`
	Location    LocationInput          `json:"location" binding:"required"`
}

type LocationInput struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Address   string  `json:"address"`
}

type NearbyQuery struct {
	Latitude  float64 `form:"latitude" binding:"required"`
	Longitude float64 `form:"longitude" binding:"required"`
	RadiusKm  float64 `form:"radius"`
}

// NearbyMechanic pairs a mechanic profile with its distance from the
// traveler, in meters.
type NearbyMechanic struct {
	Mechanic domain.MechanicProfile `json:"mechanic"`
	Distance float64                `json:"distance"`
}
