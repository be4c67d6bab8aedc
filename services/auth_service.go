package services

import (
	"errors"
	"log"

	"github.com/greenloophq/greenloop/config"
	"github.com/greenloophq/greenloop/db"
	apiError "github.com/greenloophq/greenloop/errors"
	"github.com/greenloophq/greenloop/models"
	"github.com/greenloophq/greenloop/services/jwt"
	"gorm.io/gorm"
)

// DefaultUserName is assigned when the identity provider supplies no
// display name.
const DefaultUserName = "Anonymous User"

// AuthService is the identity gateway: it resolves an external identity to
// an internal user and manages the session tokens handed to the client.
type AuthService interface {
	EnsureUser(email, name string) (*models.User, error)
	CreateSession(request *models.SessionRequest) (*models.SessionResponse, *apiError.Error)
	Logout(accessToken string) *apiError.Error
}

type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

func NewAuthService(authRepo db.AuthRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
	}
}

// EnsureUser looks a user up by email and creates one on first sight. The
// email is the uniqueness key, so repeat calls never create a duplicate.
func (s *authService) EnsureUser(email, name string) (*models.User, error) {
	user, err := s.authRepo.FindUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("EnsureUser error finding user %s: %v", email, err)
		return nil, err
	}

	if name == "" {
		name = DefaultUserName
	}
	created, err := s.authRepo.CreateUser(&models.User{Email: email, Name: name})
	if err != nil {
		log.Printf("EnsureUser error creating user %s: %v", email, err)
		return nil, err
	}
	return created, nil
}

func (s *authService) CreateSession(request *models.SessionRequest) (*models.SessionResponse, *apiError.Error) {
	user, err := s.EnsureUser(request.Email, request.Name)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}

	accessToken, refreshToken, err := jwt.GenerateTokenPair(user.Email, s.Config.JWTSecret, user.ID)
	if err != nil {
		log.Printf("error generating token pair for user %s: %v", user.Email, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.SessionResponse{
		UserResponse: models.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes the bearer token by blacklisting it.
func (s *authService) Logout(accessToken string) *apiError.Error {
	err := s.authRepo.AddToBlackList(&models.Blacklist{Token: accessToken})
	if err != nil {
		log.Printf("error adding access token to blacklist: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}
