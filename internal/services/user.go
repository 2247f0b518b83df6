package services

import (
	"context"
	"time"

	"github.com/GregMSThompson/cardledger-backend/internal/dto"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
	"github.com/GregMSThompson/cardledger-backend/internal/validate"
	"github.com/GregMSThompson/cardledger-backend/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type userService struct {
	Store userUSStore
}

func NewUserService(store userUSStore) *userService {
	return &userService{
		Store: store,
	}
}

func (s *userService) Register(ctx context.Context, uid string, req dto.RegisterUserRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}

	user := &models.User{
		UID:       uid,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.Store.CreateUser(ctx, user); err != nil {
		log := logger.FromContext(ctx)
		log.Error("failed to create user in store", "error", err)
		return err
	}

	log := logger.FromContext(ctx)
	log.Info("user registered", "first_name", req.FirstName, "last_name", req.LastName)
	return nil
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.GetUser(ctx, uid)
}
