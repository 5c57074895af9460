package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"roadassist/internal/domain"
)

type MechanicRepository struct {
	db *gorm.DB
}

func NewMechanicRepository(db *gorm.DB) *MechanicRepository {
	return &MechanicRepository{db: db}
}

type mechanicModel struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	UserID            int64      `gorm:"column:user_id;uniqueIndex"`
	ShopName          string     `gorm:"column:shop_name"`
	ShopAddress       string     `gorm:"column:shop_address"`
	LicenseNumber     string     `gorm:"column:license_number"`
	LicenseExpiry     *time.Time `gorm:"column:license_expiry"`
	YearsOfExperience int        `gorm:"column:years_of_experience"`
	Skills            string     `gorm:"column:skills"` // JSON array
	IsAvailable       bool       `gorm:"column:is_available"`
	IsVerified        bool       `gorm:"column:is_verified"`
	Rating            float64    `gorm:"column:rating"`
	TotalJobs         int        `gorm:"column:total_jobs"`
	Latitude          *float64   `gorm:"column:latitude"`
	Longitude         *float64   `gorm:"column:longitude"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`

	User *userModel `gorm:"foreignKey:UserID"`
}

func (mechanicModel) TableName() string { return "mechanic_profiles" }

func toDomainMechanic(m mechanicModel) *domain.MechanicProfile {
	var skills []string
	if m.Skills != "" {
		_ = json.Unmarshal([]byte(m.Skills), &skills)
	}

	var loc *domain.GeoPoint
	if m.Latitude != nil && m.Longitude != nil {
		loc = &domain.GeoPoint{Latitude: *m.Latitude, Longitude: *m.Longitude}
	}

	p := &domain.MechanicProfile{
		ID:                m.ID,
		UserID:            m.UserID,
		ShopName:          m.ShopName,
		ShopAddress:       m.ShopAddress,
		LicenseNumber:     m.LicenseNumber,
		LicenseExpiry:     m.LicenseExpiry,
		YearsOfExperience: m.YearsOfExperience,
		Skills:            skills,
		IsAvailable:       m.IsAvailable,
		IsVerified:        m.IsVerified,
		Rating:            m.Rating,
		TotalJobs:         m.TotalJobs,
		Location:          loc,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.User != nil {
		p.User = toDomainUser(*m.User)
	}
	return p
}

func toMechanicModel(p *domain.MechanicProfile) mechanicModel {
	skills := "[]"
	if len(p.Skills) > 0 {
		if b, err := json.Marshal(p.Skills); err == nil {
			skills = string(b)
		}
	}

	m := mechanicModel{
		ID:                p.ID,
		UserID:            p.UserID,
		ShopName:          p.ShopName,
		ShopAddress:       p.ShopAddress,
		LicenseNumber:     p.LicenseNumber,
		LicenseExpiry:     p.LicenseExpiry,
		YearsOfExperience: p.YearsOfExperience,
		Skills:            skills,
		IsAvailable:       p.IsAvailable,
		IsVerified:        p.IsVerified,
		Rating:            p.Rating,
		TotalJobs:         p.TotalJobs,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.Location != nil {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		m.Latitude, m.Longitude = &lat, &lng
	}
	return m
}

func (r *MechanicRepository) Create(ctx context.Context, p *domain.MechanicProfile) error {
	m := toMechanicModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	p.ID = m.ID
	p.CreatedAt = m.CreatedAt
	p.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *MechanicRepository) GetByID(ctx context.Context, id int64) (*domain.MechanicProfile, error) {
	var m mechanicModel
	tx := r.db.WithContext(ctx).Preload("User").First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainMechanic(m), nil
}

func (r *MechanicRepository) GetByUserID(ctx context.Context, userID int64) (*domain.MechanicProfile, error) {
	var m mechanicModel
	tx := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainMechanic(m), nil
}

func (r *MechanicRepository) Update(ctx context.Context, p *domain.MechanicProfile) error {
	m := toMechanicModel(p)
	m.UpdatedAt = time.Now()
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	p.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *MechanicRepository) SetAvailability(ctx context.Context, userID int64, available bool) error {
	return r.db.WithContext(ctx).
		Model(&mechanicModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"is_available": available, "updated_at": time.Now()}).Error
}

func (r *MechanicRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&mechanicModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_verified": verified, "updated_at": time.Now()}).Error
}

func (r *MechanicRepository) UpdateLocation(ctx context.Context, userID int64, lat, lng float64) error {
	return r.db.WithContext(ctx).
		Model(&mechanicModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"latitude": lat, "longitude": lng, "updated_at": time.Now()}).Error
}

// SetRating stores the recomputed aggregate after a review lands.
func (r *MechanicRepository) SetRating(ctx context.Context, mechanicID int64, rating float64) error {
	return r.db.WithContext(ctx).
		Model(&mechanicModel{}).
		Where("id = ?", mechanicID).
		Updates(map[string]any{"rating": rating, "updated_at": time.Now()}).Error
}

func (r *MechanicRepository) IncrementTotalJobs(ctx context.Context, mechanicID int64) error {
	return r.db.WithContext(ctx).
		Model(&mechanicModel{}).
		Where("id = ?", mechanicID).
		Updates(map[string]any{
			"total_jobs": gorm.Expr("total_jobs + 1"),
			"updated_at": time.Now(),
		}).Error
}

// ListAvailable returns verified mechanics currently open for work, with
// their user rows for display.
func (r *MechanicRepository) ListAvailable(ctx context.Context) ([]domain.MechanicProfile, error) {
	var models []mechanicModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Where("is_available = ? AND is_verified = ?", true, true).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.MechanicProfile, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainMechanic(m))
	}
	return out, nil
}

func (r *MechanicRepository) ListPendingVerification(ctx context.Context) ([]domain.MechanicProfile, error) {
	var models []mechanicModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Where("is_verified = ?", false).
		Order("created_at ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.MechanicProfile, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainMechanic(m))
	}
	return out, nil
}
