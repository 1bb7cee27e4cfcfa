package services

import (
	"context"

	"glasstrade-backend/internal/apperrors"
	"glasstrade-backend/internal/auth"
	"glasstrade-backend/internal/models"
	"glasstrade-backend/internal/repositories"
)

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager) *UserService {
	return &UserService{Repo: repo, JWTManager: jwtManager}
}

// Signup registers a customer account. Staff/admin accounts are created
// by an admin through CreateUser.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("name, email and password are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Storage("hash password", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Storage("generate token", err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		// Same message for unknown email and bad password
		return nil, &apperrors.Error{Kind: apperrors.KindAuth, Message: "invalid email or password"}
	}

	if !user.IsActive {
		return nil, &apperrors.Error{Kind: apperrors.KindForbidden, Message: "account suspended"}
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Storage("generate token", err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("name, email and password are required")
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleStaff && req.Role != models.RoleCustomer {
		return nil, apperrors.Validation("invalid role %q", req.Role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Storage("hash password", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}

	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		if req.Role != models.RoleAdmin && req.Role != models.RoleStaff && req.Role != models.RoleCustomer {
			return nil, apperrors.Validation("invalid role %q", req.Role)
		}
		user.Role = req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, apperrors.Storage("hash password", err)
		}
		user.PasswordHash = hash
	}

	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

// ListCustomers feeds the customer picklist on the billing screens.
func (s *UserService) ListCustomers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.ListByRole(ctx, models.RoleCustomer)
}

func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
