package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roadassist/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id;uniqueIndex"`
	MechanicID int64     `gorm:"column:mechanic_id;index"`
	UserID     int64     `gorm:"column:user_id;index"`
	Rating     int       `gorm:"column:rating"`
	Title      string    `gorm:"column:title"`
	Comment    string    `gorm:"column:comment"`
	Verified   bool      `gorm:"column:verified"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	return &domain.Review{
		ID:         m.ID,
		BookingID:  domain.NewBookingRef(m.BookingID),
		MechanicID: m.MechanicID,
		UserID:     m.UserID,
		Rating:     m.Rating,
		Title:      m.Title,
		Comment:    m.Comment,
		Verified:   m.Verified,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toReviewModel(rv *domain.Review) reviewModel {
	return reviewModel{
		ID:         rv.ID,
		BookingID:  rv.BookingID.ID,
		MechanicID: rv.MechanicID,
		UserID:     rv.UserID,
		Rating:     rv.Rating,
		Title:      rv.Title,
		Comment:    rv.Comment,
		Verified:   rv.Verified,
		CreatedAt:  rv.CreatedAt,
		UpdatedAt:  rv.UpdatedAt,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("booking_id = ?", bookingID).
		Count(&n).Error
	return n > 0, err
}

func (r *ReviewRepository) ListByMechanic(ctx context.Context, mechanicID int64, limit int) ([]domain.Review, error) {
	q := r.db.WithContext(ctx).
		Where("mechanic_id = ?", mechanicID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []reviewModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainReviews(models), nil
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	var models []reviewModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReviews(models), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&reviewModel{}, id).Error
}

// AverageRating recomputes the mechanic's aggregate from scratch. Zero when
// no reviews exist yet.
func (r *ReviewRepository) AverageRating(ctx context.Context, mechanicID int64) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("mechanic_id = ?", mechanicID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func toDomainReviews(models []reviewModel) []domain.Review {
	out := make([]domain.Review, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainReview(m))
	}
	return out
}
