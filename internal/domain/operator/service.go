package operator

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"drycleaning/internal/database"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type tokenIssuer interface {
	GenerateToken(operatorID int64, role, branchCode string) (string, error)
}

type Service struct {
	db  *gorm.DB
	jwt tokenIssuer
	log *zap.Logger
	now func() time.Time
}

type LoginResult struct {
	Operator    *Operator `json:"operator"`
	AccessToken string    `json:"access_token"`
}

func NewService(db *gorm.DB, jwt tokenIssuer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, jwt: jwt, log: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Operator, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = RoleOperator
	}
	if role != RoleAdmin && role != RoleOperator {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	op := &Operator{
		Login:        strings.ToLower(strings.TrimSpace(req.Login)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		BranchCode:   strings.ToUpper(strings.TrimSpace(req.BranchCode)),
		Active:       true,
	}
	if err := s.db.WithContext(ctx).Create(op).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrLoginExists
		}
		return nil, err
	}
	return op, nil
}

// EnsureAdmin creates the first admin if no operator with that login exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, req CreateRequest) (*Operator, bool, error) {
	var existing Operator
	err := s.db.WithContext(ctx).Where("login = ?", strings.ToLower(strings.TrimSpace(req.Login))).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	req.Role = RoleAdmin
	op, err := s.Create(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return op, true, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Operator, error) {
	var op Operator
	err := s.db.WithContext(ctx).First(&op, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	var op Operator
	err := s.db.WithContext(ctx).Where("login = ?", strings.ToLower(strings.TrimSpace(req.Login))).First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !op.Active {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if op.LockedUntil != nil && op.LockedUntil.After(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		failed := op.FailedLoginAttempts + 1
		updates := map[string]any{"failed_login_attempts": failed}
		if failed >= maxFailedLoginAttempts {
			updates["locked_until"] = now.Add(lockoutDuration)
		}
		if err := s.db.WithContext(ctx).Model(&Operator{}).Where("id = ?", op.ID).Updates(updates).Error; err != nil {
			return nil, err
		}
		if failed >= maxFailedLoginAttempts {
			s.log.Warn("operator locked out", zap.Int64("operator_id", op.ID))
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	err = s.db.WithContext(ctx).Model(&Operator{}).Where("id = ?", op.ID).Updates(map[string]any{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}).Error
	if err != nil {
		return nil, err
	}
	op.FailedLoginAttempts = 0
	op.LockedUntil = nil
	op.LastLoginAt = &now

	token, err := s.jwt.GenerateToken(op.ID, op.Role, op.BranchCode)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Operator: &op, AccessToken: token}, nil
}
