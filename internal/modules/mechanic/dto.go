package mechanic

import "roadassist/internal/domain"

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

type StatusUpdateRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

type CompleteRequest struct {
	TotalCost float64 `json:"totalCost" binding:"required"`
}

type UpdateProfileRequest struct {
	ShopName          string   `json:"shopName"`
	ShopAddress       string   `json:"shopAddress"`
	YearsOfExperience *int     `json:"yearsOfExperience"`
	Skills            []string `json:"skills"`
}

// Dashboard is the mechanic's working view: who they are, what is on offer,
// and what they have done lately.
type Dashboard struct {
	Mechanic        *domain.MechanicProfile  `json:"mechanic"`
	PendingRequests []domain.ServiceRequest  `json:"pendingRequests"`
	CurrentJob      *domain.Booking          `json:"currentJob"`
	TodaysJobs      []domain.Booking         `json:"todaysJobs"`
	RecentReviews   []domain.Review          `json:"recentReviews"`
}
