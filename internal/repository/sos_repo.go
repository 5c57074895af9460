package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roadassist/internal/domain"
	"roadassist/internal/geo"
)

type SOSRepository struct {
	db *gorm.DB
}

func NewSOSRepository(db *gorm.DB) *SOSRepository {
	return &SOSRepository{db: db}
}

type sosModel struct {
	ID         int64      `gorm:"column:id;primaryKey"`
	UserID     int64      `gorm:"column:user_id;index"`
	Message    string     `gorm:"column:message"`
	Latitude   float64    `gorm:"column:latitude"`
	Longitude  float64    `gorm:"column:longitude"`
	Address    string     `gorm:"column:address"`
	Status     string     `gorm:"column:status;index"`
	ResolvedAt *time.Time `gorm:"column:resolved_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`

	User *userModel `gorm:"foreignKey:UserID"`
}

func (sosModel) TableName() string { return "sos_alerts" }

func toDomainSOS(m sosModel) *domain.SOSAlert {
	a := &domain.SOSAlert{
		ID:      m.ID,
		UserID:  m.UserID,
		Message: m.Message,
		Location: domain.GeoPoint{
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
			Address:   m.Address,
		},
		Status:     domain.SOSStatus(m.Status),
		ResolvedAt: m.ResolvedAt,
		CreatedAt:  m.CreatedAt,
	}
	if m.User != nil {
		a.User = toDomainUser(*m.User)
	}
	return a
}

func toSOSModel(a *domain.SOSAlert) sosModel {
	return sosModel{
		ID:         a.ID,
		UserID:     a.UserID,
		Message:    a.Message,
		Latitude:   a.Location.Latitude,
		Longitude:  a.Location.Longitude,
		Address:    a.Location.Address,
		Status:     string(a.Status),
		ResolvedAt: a.ResolvedAt,
		CreatedAt:  a.CreatedAt,
	}
}

func (r *SOSRepository) Create(ctx context.Context, a *domain.SOSAlert) error {
	m := toSOSModel(a)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	return nil
}

func (r *SOSRepository) GetByID(ctx context.Context, id int64) (*domain.SOSAlert, error) {
	var m sosModel
	tx := r.db.WithContext(ctx).Preload("User").First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainSOS(m), nil
}

func (r *SOSRepository) ListByUser(ctx context.Context, userID int64) ([]domain.SOSAlert, error) {
	var models []sosModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAlerts(models), nil
}

// ListActiveNear returns unresolved alerts within radiusKm, nearest first.
func (r *SOSRepository) ListActiveNear(ctx context.Context, lat, lng, radiusKm float64) ([]domain.SOSAlert, error) {
	var models []sosModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", string(domain.SOSActive)).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	type scored struct {
		alert domain.SOSAlert
		dist  float64
	}
	within := make([]scored, 0, len(models))
	for _, m := range models {
		d := geo.Haversine(lat, lng, m.Latitude, m.Longitude)
		if d <= radiusKm*1000 {
			within = append(within, scored{alert: *toDomainSOS(m), dist: d})
		}
	}

	for i := 0; i < len(within); i++ {
		best := i
		for j := i + 1; j < len(within); j++ {
			if within[j].dist < within[best].dist {
				best = j
			}
		}
		within[i], within[best] = within[best], within[i]
	}

	out := make([]domain.SOSAlert, 0, len(within))
	for _, s := range within {
		out = append(out, s.alert)
	}
	return out, nil
}

func (r *SOSRepository) Resolve(ctx context.Context, id int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&sosModel{}).
		Where("id = ? AND status = ?", id, string(domain.SOSActive)).
		Updates(map[string]any{
			"status":      string(domain.SOSResolved),
			"resolved_at": now,
		}).Error
}

func toDomainAlerts(models []sosModel) []domain.SOSAlert {
	out := make([]domain.SOSAlert, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainSOS(m))
	}
	return out
}
