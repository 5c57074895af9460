package auth

import "roadassist/internal/domain"

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=6"`
}

type RegisterMechanicRequest struct {
	RegisterRequest
	ShopName          string   `json:"shopName" binding:"required"`
	ShopAddress       string   `json:"shopAddress"`
	LicenseNumber     string   `json:"licenseNumber"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	Skills            []string `json:"skills"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}
