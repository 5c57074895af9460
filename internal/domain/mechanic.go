package domain

import "time"

type MechanicProfile struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"userId"`
	ShopName          string     `json:"shopName"`
	ShopAddress       string     `json:"shopAddress,omitempty"`
	LicenseNumber     string     `json:"licenseNumber,omitempty"`
	LicenseExpiry     *time.Time `json:"licenseExpiry,omitempty"`
	YearsOfExperience int        `json:"yearsOfExperience"`
	Skills            []string   `json:"skills"`
	IsAvailable       bool       `json:"isAvailable"`
	IsVerified        bool       `json:"isVerified"`

	// Derived from completed bookings and reviews; never written by the client.
	Rating    float64 `json:"rating"`
	TotalJobs int     `json:"totalJobs"`

	Location  *GeoPoint `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `json:"user,omitempty"`
}
