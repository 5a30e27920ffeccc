package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uptrack-app/uptrack/internal/mailer"
	"github.com/uptrack-app/uptrack/internal/models"
	"github.com/uptrack-app/uptrack/internal/storage"
)

type authServiceImpl struct {
	logger        zerolog.Logger
	users         storage.UserRepository
	mail          mailer.Mailer
	jwtIssuer     string
	jwtSigningKey []byte
	jwtTokenTTL   time.Duration
}

func NewAuthService(
	logger zerolog.Logger,
	users storage.UserRepository,
	mail mailer.Mailer,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtTokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger:        logger,
		users:         users,
		mail:          mail,
		jwtIssuer:     jwtIssuer,
		jwtSigningKey: jwtSigningKey,
		jwtTokenTTL:   jwtTokenTTL,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	now := time.Now()
	user := &models.User{
		Name:      params.Name,
		Email:     params.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	// The hash happens here, at the call site, never as a hidden
	// save hook. Only pre-hashed values reach the repository.
	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.Password = passwordHash

	token, err := generateOneTimeToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate one-time token")
		return nil, err
	}
	user.Token = token

	err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")

	// Mail failures must not undo the registration; the token can
	// be re-sent through the password reset flow.
	err = s.mail.SendConfirmation(ctx, user.Email, user.Name, user.Token)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to send confirmation mail")
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("registered user")
	return user, nil
}

func (s *authServiceImpl) Confirm(ctx context.Context, token string) error {
	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().Msg("confirmation token does not resolve")
			return ErrTokenInvalid
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user by token")
		return err
	}

	user.Confirmed = true
	user.Token = ""
	user.UpdatedAt = time.Now()

	err = s.users.Update(ctx, user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to confirm user")
		return err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("confirmed user")
	return nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("email", params.Email).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", params.Email).
			Msg("failed to select user by email")
		return nil, err
	}

	if !user.Confirmed {
		s.logger.Error().
			Str("user_id", user.ID).
			Msg("account has not been confirmed")
		return nil, ErrUserNotConfirmed
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	token, err := s.generateBearerToken(user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate bearer token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged in")
	return &LoginResult{
		Profile: user.Profile(),
		Token:   token,
	}, nil
}

func (s *authServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("email", email).
				Msg("user not found")
			return ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", email).
			Msg("failed to select user by email")
		return err
	}

	token, err := generateOneTimeToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate one-time token")
		return err
	}
	user.Token = token
	user.UpdatedAt = time.Now()

	err = s.users.Update(ctx, user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to store reset token")
		return err
	}

	err = s.mail.SendPasswordReset(ctx, user.Email, user.Name, user.Token)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to send reset mail")
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("issued password reset token")
	return nil
}

func (s *authServiceImpl) CheckResetToken(ctx context.Context, token string) error {
	_, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().Msg("reset token does not resolve")
			return ErrTokenInvalid
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user by token")
		return err
	}
	return nil
}

func (s *authServiceImpl) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().Msg("reset token does not resolve")
			return ErrTokenInvalid
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user by token")
		return err
	}

	passwordHash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return err
	}

	user.Password = passwordHash
	user.Token = ""
	user.UpdatedAt = time.Now()

	err = s.users.Update(ctx, user)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to store new password")
		return err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("reset password")
	return nil
}

func (s *authServiceImpl) Resolve(ctx context.Context, token string) (*models.Profile, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to parse bearer token")
		return nil, ErrTokenInvalid
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("user_id", claims.Subject).
				Msg("token references a user that no longer exists")
			return nil, ErrTokenInvalid
		}

		s.logger.Error().
			Err(err).
			Str("user_id", claims.Subject).
			Msg("failed to select user by id")
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}

func (s *authServiceImpl) generateBearerToken(userID string) (string, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.jwtIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtTokenTTL)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func generateOneTimeToken() (string, error) {
	const length = 32
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
