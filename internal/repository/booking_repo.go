package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roadassist/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64     `gorm:"column:id;primaryKey"`
	RequestID          int64     `gorm:"column:request_id;index"`
	UserID             int64     `gorm:"column:user_id;index"`
	MechanicID         int64     `gorm:"column:mechanic_id;index"`
	ServiceDescription string    `gorm:"column:service_description"`
	Status             string    `gorm:"column:status;index"`
	TotalCost          float64   `gorm:"column:total_cost"`
	PaymentStatus      string    `gorm:"column:payment_status"`
	PaymentMethod      string    `gorm:"column:payment_method"`
	BookingDate        time.Time `gorm:"column:booking_date"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`

	User     *userModel     `gorm:"foreignKey:UserID"`
	Mechanic *mechanicModel `gorm:"foreignKey:MechanicID"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:                 m.ID,
		RequestID:          m.RequestID,
		UserID:             m.UserID,
		MechanicID:         m.MechanicID,
		ServiceDescription: m.ServiceDescription,
		Status:             domain.BookingStatus(m.Status),
		TotalCost:          m.TotalCost,
		PaymentStatus:      domain.PaymentStatus(m.PaymentStatus),
		PaymentMethod:      m.PaymentMethod,
		BookingDate:        m.BookingDate,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.User != nil {
		b.User = toDomainUser(*m.User)
	}
	if m.Mechanic != nil {
		b.Mechanic = toDomainMechanic(*m.Mechanic)
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:                 b.ID,
		RequestID:          b.RequestID,
		UserID:             b.UserID,
		MechanicID:         b.MechanicID,
		ServiceDescription: b.ServiceDescription,
		Status:             string(b.Status),
		TotalCost:          b.TotalCost,
		PaymentStatus:      string(b.PaymentStatus),
		PaymentMethod:      b.PaymentMethod,
		BookingDate:        b.BookingDate,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	b.ID = m.ID
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("Mechanic").
		Preload("Mechanic.User").
		First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// ListByUser returns the user's bookings newest first, relations populated.
// Callers that resolve the active item depend on this ordering.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("Mechanic").
		Preload("Mechanic.User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) ListByMechanic(ctx context.Context, mechanicID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Where("mechanic_id = ?", mechanicID).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

// ListActiveByMechanic returns the mechanic's bookings still in flight,
// oldest first so the earliest claim stays the current job.
func (r *BookingRepository) ListActiveByMechanic(ctx context.Context, mechanicID int64) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Where("mechanic_id = ? AND status NOT IN ?", mechanicID, terminalStatuses()).
		Order("created_at ASC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) CountActiveByMechanic(ctx context.Context, mechanicID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("mechanic_id = ? AND status NOT IN ?", mechanicID, terminalStatuses()).
		Count(&n).Error
	return n, err
}

func (r *BookingRepository) ListCompletedByMechanicSince(ctx context.Context, mechanicID int64, since time.Time) ([]domain.Booking, error) {
	var models []bookingModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Where("mechanic_id = ? AND status = ? AND updated_at >= ?",
			mechanicID, string(domain.BookingCompleted), since).
		Order("updated_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(models), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()}).Error
}

// Complete closes out the work in one write: final status, cost, and the
// payment obligation the user now owes.
func (r *BookingRepository) Complete(ctx context.Context, id int64, totalCost float64) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         string(domain.BookingCompleted),
			"total_cost":     totalCost,
			"payment_status": string(domain.PaymentPending),
			"updated_at":     time.Now(),
		}).Error
}

func (r *BookingRepository) UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, method string) error {
	updates := map[string]any{
		"payment_status": string(status),
		"updated_at":     time.Now(),
	}
	if method != "" {
		updates["payment_method"] = method
	}
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *BookingRepository) CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("status = ?", string(status)).
		Count(&n).Error
	return n, err
}

func terminalStatuses() []string {
	return []string{string(domain.BookingCompleted), string(domain.BookingCancelled)}
}

func toDomainBookings(models []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out
}
