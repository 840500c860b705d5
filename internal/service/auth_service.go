package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"realtime-chat-be/internal/apperror"
	"realtime-chat-be/internal/config"
	"realtime-chat-be/internal/dto"
	"realtime-chat-be/internal/entity"
	"realtime-chat-be/internal/pkg/mailer"
	"realtime-chat-be/internal/repository/memory"
	"realtime-chat-be/internal/repository/specification"
	"realtime-chat-be/internal/repository/unitofwork"
	"realtime-chat-be/pkg/events"
	pktNats "realtime-chat-be/pkg/nats"
	"realtime-chat-be/pkg/store"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessions       *memory.SessionRepository
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	validate       *validator.Validate
	jwtCfg         config.JWTConfig
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	jwtCfg config.JWTConfig,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		sessions:       sessions,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		validate:       validator.New(),
		jwtCfg:         jwtCfg,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := strings.ToLower(req.Email)

	if existing, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email}); existing != nil {
		return nil, fmt.Errorf("user with this email already exists")
	}
	// Names are the chat identity; they must be unique and stay
	// case-sensitive.
	if existing, _ := uow.UserRepository().FindOne(ctx, specification.ByName{Name: req.Name}); existing != nil {
		return nil, fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	// Mail failures never fail registration.
	go func() {
		_ = s.emailService.SendWelcome(user.Email, user.Name)
	}()

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type:       events.TypeUserRegistered,
			Data:       map[string]interface{}{"user_id": user.Id.String(), "name": user.Name},
			OccurredAt: time.Now(),
		}
		// Best effort only.
		_ = s.eventPublisher.Publish(ctx, evt)
	}

	return s.issueTokens(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The identifier is either an email (case-insensitive) or a name
	// (case-sensitive).
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: strings.ToLower(req.LoginIdentifier)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = uow.UserRepository().FindOne(ctx, specification.ByName{Name: req.LoginIdentifier})
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	session, found := s.sessions.Get(refreshToken)
	if !found || time.Now().After(session.ExpiresAt) {
		return nil, apperror.ErrAuthenticationFailed
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	userId, err := uuid.Parse(session.UserId)
	if err != nil {
		return nil, apperror.ErrAuthenticationFailed
	}
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrAuthenticationFailed
	}

	// Rotate: one refresh token, one use.
	s.sessions.Delete(refreshToken)
	return s.issueTokens(user)
}

func (s *authService) Logout(_ context.Context, refreshToken string) error {
	if refreshToken != "" {
		s.sessions.Delete(refreshToken)
	}
	return nil
}

func (s *authService) issueTokens(user *entity.User) (*dto.AuthResponse, error) {
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"name":    user.Name,
		"exp":     time.Now().Add(time.Duration(s.jwtCfg.AccessTTLMin) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	s.sessions.Save(&store.RefreshSession{
		Token:     refreshToken,
		UserId:    user.Id.String(),
		Name:      user.Name,
		ExpiresAt: time.Now().Add(time.Duration(s.jwtCfg.RefreshTTLHours) * time.Hour),
	})

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserId:       user.Id,
		Name:         user.Name,
		Email:        user.Email,
	}, nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
