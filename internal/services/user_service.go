package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"smart_wallet/internal/models"
	"smart_wallet/internal/repositories"
	"smart_wallet/pkg/utils"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

type UserService struct {
	users         repositories.UserRepository
	subscriptions *SubscriptionService
	wallet        *WalletService
	notifier      Notifier
	log           *logrus.Entry
}

func NewUserService(
	users repositories.UserRepository,
	subscriptions *SubscriptionService,
	wallet *WalletService,
	notifier Notifier,
) *UserService {
	return &UserService{
		users:         users,
		subscriptions: subscriptions,
		wallet:        wallet,
		notifier:      notifier,
		log:           utils.Logger.WithField("component", "users"),
	}
}

// Register creates the account plus everything a new user starts with: the
// free DEFAULT subscription and the starter wallet.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	existing, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to check username")
	}
	if existing != nil {
		return nil, domainErrorf(ErrUsernameTaken, "username [%s] already exists", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to hash password")
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hash),
		Country:   req.Country,
		IsActive:  true,
		CreatedOn: now,
		UpdatedOn: now,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, utils.ErrorHandler(err, "failed to save user")
	}

	if _, err := s.subscriptions.CreateDefault(ctx, user.ID); err != nil {
		return nil, err
	}
	if _, err := s.wallet.InitializeFirstWallet(ctx, user.ID); err != nil {
		return nil, err
	}

	s.notifier.Send(user.ID, "Welcome to Smart Wallet",
		fmt.Sprintf("Hi %s, your Smart Wallet account is ready. A starter wallet and a free Default subscription have been set up for you.", user.Username))

	s.log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("Successfully created new user account")
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to fetch user")
	}
	if user == nil {
		return nil, domainErrorf(ErrNotFound, "user with id [%s] does not exist", id)
	}
	return user, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}
