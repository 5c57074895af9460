package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"roadassist/internal/domain"
)

type Service struct {
	users     UserRepository
	mechanics MechanicRepository
	tokens    TokenIssuer
}

func NewService(users UserRepository, mechanics MechanicRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, mechanics: mechanics, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	user, err := s.createUser(ctx, req, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// RegisterMechanic creates the account and its shop profile in one call. The
// profile starts unverified; an admin flips it before the mechanic can work.
func (s *Service) RegisterMechanic(ctx context.Context, req RegisterMechanicRequest) (*AuthResponse, error) {
	user, err := s.createUser(ctx, req.RegisterRequest, domain.RoleMechanic)
	if err != nil {
		return nil, err
	}

	profile := &domain.MechanicProfile{
		UserID:            user.ID,
		ShopName:          strings.TrimSpace(req.ShopName),
		ShopAddress:       strings.TrimSpace(req.ShopAddress),
		LicenseNumber:     strings.TrimSpace(req.LicenseNumber),
		YearsOfExperience: req.YearsOfExperience,
		Skills:            req.Skills,
		IsAvailable:       false,
		IsVerified:        false,
	}
	if err := s.mechanics.Create(ctx, profile); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrBlocked
	}

	return s.issue(user)
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(req.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		user.Phone = v
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) createUser(ctx context.Context, req RegisterRequest, role domain.UserRole) (*domain.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || len(req.Password) < 6 {
		return nil, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation recognizes a duplicate key from either backing store:
// postgres reports 23505, sqlite renders the constraint name in its message.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
