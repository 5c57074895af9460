package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"roadassist/internal/domain"
	"roadassist/internal/geo"
)

// ErrAlreadyTaken is returned when a conditional claim finds the request no
// longer pending. Exactly one of any set of racing mechanics gets the row.
var ErrAlreadyTaken = errors.New("request already taken")

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

type requestModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;index"`
	Reference    string    `gorm:"column:reference;uniqueIndex"`
	Title        string    `gorm:"column:title"`
	Description  string    `gorm:"column:description"`
	IssueType    string    `gorm:"column:issue_type"`
	Priority     string    `gorm:"column:priority"`
	VehicleMake  string    `gorm:"column:vehicle_make"`
	VehicleModel string    `gorm:"column:vehicle_model"`
	VehicleYear  int       `gorm:"column:vehicle_year"`
	VehicleReg   string    `gorm:"column:vehicle_reg"`
	Latitude     float64   `gorm:"column:latitude"`
	Longitude    float64   `gorm:"column:longitude"`
	Address      string    `gorm:"column:address"`
	Status       string    `gorm:"column:status;index"`
	AcceptedBy   *int64    `gorm:"column:accepted_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`

	User *userModel `gorm:"foreignKey:UserID"`
}

func (requestModel) TableName() string { return "service_requests" }

func toDomainRequest(m requestModel) *domain.ServiceRequest {
	req := &domain.ServiceRequest{
		ID:          m.ID,
		UserID:      m.UserID,
		Reference:   m.Reference,
		Title:       m.Title,
		Description: m.Description,
		IssueType:   m.IssueType,
		Priority:    domain.RequestPriority(m.Priority),
		VehicleInfo: domain.VehicleInfo{
			Make:               m.VehicleMake,
			Model:              m.VehicleModel,
			Year:               m.VehicleYear,
			RegistrationNumber: m.VehicleReg,
		},
		Location: domain.GeoPoint{
			Latitude:  m.Latitude,
			Longitude: m.Longitude,
			Address:   m.Address,
		},
		Status:     domain.RequestStatus(m.Status),
		AcceptedBy: m.AcceptedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.User != nil {
		req.User = toDomainUser(*m.User)
	}
	return req
}

func toRequestModel(req *domain.ServiceRequest) requestModel {
	return requestModel{
		ID:           req.ID,
		UserID:       req.UserID,
		Reference:    req.Reference,
		Title:        req.Title,
		Description:  req.Description,
		IssueType:    req.IssueType,
		Priority:     string(req.Priority),
		VehicleMake:  req.VehicleInfo.Make,
		VehicleModel: req.VehicleInfo.Model,
		VehicleYear:  req.VehicleInfo.Year,
		VehicleReg:   req.VehicleInfo.RegistrationNumber,
		Latitude:     req.Location.Latitude,
		Longitude:    req.Location.Longitude,
		Address:      req.Location.Address,
		Status:       string(req.Status),
		AcceptedBy:   req.AcceptedBy,
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
	}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	m := toRequestModel(req)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*req = *toDomainRequest(m)
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	var m requestModel
	tx := r.db.WithContext(ctx).Preload("User").First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequest(m), nil
}

// Claim moves a pending request to accepted for one mechanic. The status
// guard in the WHERE clause makes concurrent claims race on the database row
// itself; the loser sees zero rows affected.
func (r *RequestRepository) Claim(ctx context.Context, requestID, mechanicUserID int64) error {
	tx := r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("id = ? AND status = ?", requestID, string(domain.RequestPending)).
		Updates(map[string]any{
			"status":      string(domain.RequestAccepted),
			"accepted_by": mechanicUserID,
			"updated_at":  time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAlreadyTaken
	}
	return nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	return r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()}).Error
}

// Cancel releases a pending request. Only the owner may cancel, and only
// while nobody has claimed it.
func (r *RequestRepository) Cancel(ctx context.Context, id, userID int64) error {
	tx := r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, string(domain.RequestPending)).
		Updates(map[string]any{"status": string(domain.RequestCancelled), "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAlreadyTaken
	}
	return nil
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.ServiceRequest, error) {
	var models []requestModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequests(models), nil
}

func (r *RequestRepository) ListPending(ctx context.Context) ([]domain.ServiceRequest, error) {
	var models []requestModel
	tx := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", string(domain.RequestPending)).
		Order("created_at DESC").
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequests(models), nil
}

// ListPendingNear returns pending requests within radiusKm of the point,
// nearest first. Distance is computed in process; the pending set is small
// enough that a database-side index is not worth the portability cost.
func (r *RequestRepository) ListPendingNear(ctx context.Context, lat, lng, radiusKm float64) ([]domain.ServiceRequest, error) {
	all, err := r.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		req  domain.ServiceRequest
		dist float64
	}
	within := make([]scored, 0, len(all))
	for _, req := range all {
		d := geo.Haversine(lat, lng, req.Location.Latitude, req.Location.Longitude)
		if d <= radiusKm*1000 {
			within = append(within, scored{req: req, dist: d})
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

	out := make([]domain.ServiceRequest, 0, len(within))
	for _, s := range within {
		out = append(out, s.req)
	}
	return out, nil
}

// ExpireStale marks pending requests older than the cutoff as expired and
// returns their ids so callers can notify watchers.
func (r *RequestRepository) ExpireStale(ctx context.Context, olderThan time.Time) ([]int64, error) {
	var models []requestModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(domain.RequestPending), olderThan).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if len(models) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}

	err := r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("id IN ? AND status = ?", ids, string(domain.RequestPending)).
		Updates(map[string]any{"status": string(domain.RequestExpired), "updated_at": time.Now()}).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *RequestRepository) CountByStatus(ctx context.Context, status domain.RequestStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("status = ?", string(status)).
		Count(&n).Error
	return n, err
}

func toDomainRequests(models []requestModel) []domain.ServiceRequest {
	out := make([]domain.ServiceRequest, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainRequest(m))
	}
	return out
}
