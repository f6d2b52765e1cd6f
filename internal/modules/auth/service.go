package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"petcare/internal/domain"
	"petcare/internal/pkg/apperr"
	"petcare/internal/pkg/logger"
	"petcare/internal/pkg/validator"
	"petcare/internal/policy"
)

// Service contains the login and account logic
type Service struct {
	accounts AccountRepository
	staff    StaffReader
	jwt      jwtService
	policy   *policy.Policy
	log      *zap.Logger
}

func NewService(accounts AccountRepository, staff StaffReader, jwt jwtService, p *policy.Policy, log *zap.Logger) *Service {
	return &Service{
		accounts: accounts,
		staff:    staff,
		jwt:      jwt,
		policy:   p,
		log:      logger.OrNop(log),
	}
}

// Login checks the password and issues a bearer token carrying the role.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.log.Warn("login failed", zap.String("username", account.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(account.ID, string(account.Role), account.StaffID)
	if err != nil {
		return nil, err
	}
	s.log.Info("login", zap.Int64("account_id", account.ID), zap.String("role", string(account.Role)))
	return &LoginResult{Account: account, AccessToken: token}, nil
}

func (s *Service) Me(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

// CreateAccount registers a login. A linked staff member must exist.
func (s *Service) CreateAccount(ctx context.Context, req CreateAccountRequest) (*domain.Account, error) {
	if err := s.policy.Authorize(ctx, policy.ManageStaff); err != nil {
		return nil, err
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if req.StaffID != nil {
		if _, err := s.staff.GetByID(ctx, *req.StaffID); err != nil {
			return nil, err
		}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	account := &domain.Account{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         domain.AccountRole(req.Role),
		StaffID:      req.StaffID,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.log.Info("account created", zap.Int64("account_id", account.ID), zap.String("role", req.Role))
	return account, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
