// Package app реализует бизнес-логику сервиса заметок.
package app

import (
	"context"
	"errors"
	"fmt"

	"noteshare/internal/domain/entities"
	"noteshare/internal/domain/services"
	"noteshare/internal/ports/api"
	"noteshare/internal/ports/repositories"
	svc "noteshare/internal/ports/services"
	"noteshare/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodSignUp         = "SignUp"
	methodLogin          = "Login"
	methodLogout         = "Logout"
	methodGenerateTokens = "generateTokenPair"

	msgStartSignUp          = "starting user registration"
	msgUserExists           = "user with this username or email already exists"
	msgUserCreated          = "user registered successfully"
	msgSignUpConfirmMiss    = "user creation confirmation read returned nothing"
	msgLoginAttempt         = "login attempt"
	msgLoginNonExistent     = "login attempt with non-existent email"
	msgInvalidPasswordAuth  = "invalid password provided"
	msgUserLoggedIn         = "user logged in successfully"
	msgTokensGeneratedLogin = "authentication tokens generated for user"
	msgProcessingLogout     = "processing logout request"
	msgUserLoggedOut        = "user logged out successfully"
	msgTokenPairGenerated   = "token pair generated successfully"

	msgErrCheckExistingUser   = "failed to check existing user"
	msgErrHashPassword        = "failed to hash password"
	msgErrCreateUser          = "failed to create user"
	msgErrConfirmUser         = "failed to re-read created user"
	msgErrFindingUser         = "error finding user by email"
	msgErrVerifyingPassword   = "error verifying password"
	msgErrGenerateLoginTokens = "failed to generate tokens on login"
	msgErrExpireRefreshToken  = "failed to expire refresh token"
	msgErrGenerateAccess      = "failed to generate access token"
	msgErrGenerateRefresh     = "failed to generate refresh token"
	msgErrStoreRefreshToken   = "failed to store refresh token"

	errCtxCheckingUser      = "checking existing user"
	errCtxUserExists        = "user already registered"
	errCtxHashingPassword   = "hashing password"
	errCtxCreatingUser      = "creating user"
	errCtxConfirmingUser    = "confirming created user"
	errCtxInvalidCreds      = "invalid credentials"
	errCtxFindingUser       = "finding user"
	errCtxVerifyingPassword = "verifying password"
	errCtxGeneratingTokens  = "generating tokens"
	errCtxGeneratingAccess  = "generating access token"
	errCtxGeneratingRefresh = "generating refresh token"
	errCtxStoringRefresh    = "storing refresh token"
	errCtxExpiringRefresh   = "expiring refresh token"
)

// AuthUseCaseImpl реализует интерфейс api.AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// SignUp создает нового пользователя с предоставленными учетными данными.
// Повторная регистрация с тем же username или email возвращает
// entities.ErrUserAlreadyExists, второй аккаунт не создается.
func (a *AuthUseCaseImpl) SignUp(ctx context.Context, username, fullName, email, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodSignUp), zap.String("email", email))
	log.Debug(ctx, msgStartSignUp)

	existingUser, err := a.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existingUser != nil {
		log.Debug(ctx, msgUserExists)
		return nil, fmt.Errorf("%s: %w", errCtxUserExists, entities.ErrUserAlreadyExists)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	newUser := &entities.User{
		Email:        email,
		Username:     username,
		FullName:     fullName,
		PasswordHash: hashedPassword,
	}

	createdUser, err := a.userRepo.Create(ctx, newUser)
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	// Контрольное чтение после записи: частичная запись отдается как сбой.
	confirmedUser, err := a.userRepo.FindByID(ctx, createdUser.ID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, msgSignUpConfirmMiss, zap.String("userID", createdUser.ID))
			return nil, fmt.Errorf("%s: %w", errCtxConfirmingUser, services.ErrCreationFailed)
		}
		log.Error(ctx, msgErrConfirmUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxConfirmingUser, err)
	}

	log.Info(ctx, msgUserCreated, zap.String("userID", confirmedUser.ID))
	return confirmedUser.Sanitized(), nil
}

// Login аутентифицирует пользователя по email и паролю.
func (a *AuthUseCaseImpl) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxFindingUser, entities.ErrUserNotFound)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCreds, services.ErrInvalidCredentials)
	}

	tokenPair, err := a.generateTokenPair(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrGenerateLoginTokens, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingTokens, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	log.Debug(ctx, msgTokensGeneratedLogin, zap.String("userID", user.ID))

	return &api.LoginResult{
		User:      user.Sanitized(),
		TokenPair: tokenPair,
	}, nil
}

// Logout сбрасывает refresh токен, сохраненный для пользователя.
func (a *AuthUseCaseImpl) Logout(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout), zap.String("userID", userID))
	log.Debug(ctx, msgProcessingLogout)

	if err := a.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		log.Error(ctx, msgErrExpireRefreshToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxExpiringRefresh, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// Вспомогательная функция для генерации пары токенов. Refresh токен
// сохраняется на записи пользователя до возврата пары вызывающему.
func (a *AuthUseCaseImpl) generateTokenPair(ctx context.Context, user *entities.User) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateTokens),
		zap.String("userID", user.ID),
	)

	accessToken, accessExpires, err := a.tokenSvc.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		log.Error(ctx, msgErrGenerateAccess, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingAccess, services.ErrTokenGenerationFailed)
	}

	refreshToken, _, err := a.tokenSvc.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrGenerateRefresh, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingRefresh, services.ErrTokenGenerationFailed)
	}

	if err := a.userRepo.StoreRefreshToken(ctx, user.ID, refreshToken); err != nil {
		log.Error(ctx, msgErrStoreRefreshToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringRefresh, err)
	}

	log.Debug(ctx, msgTokenPairGenerated)

	return &services.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpires,
	}, nil
}
