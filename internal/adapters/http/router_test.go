package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpadapter "noteshare/internal/adapters/http"
	"noteshare/internal/adapters/http/respond"
	"noteshare/internal/domain/entities"
	domainsvc "noteshare/internal/domain/services"
	"noteshare/internal/ports/api"
)

const (
	testUserID = "3f9c2d44-67f1-4b21-9a45-0f1f6f1b7c11"
	testNoteID = "7ac81f80-93d7-4f8e-8a9a-2a1f9f3f5d22"

	testAccessToken = "test-access-token"
)

// envelope описывает общий формат JSON ответов API.
type envelope struct {
	StatusCode int                  `json:"statusCode"`
	Data       json.RawMessage      `json:"data"`
	Message    string               `json:"message"`
	Errors     []respond.FieldError `json:"errors"`
	Success    bool                 `json:"success"`
}

type mockAuthUseCase struct{ mock.Mock }

func (m *mockAuthUseCase) SignUp(ctx context.Context, username, fullName, email, password string) (*entities.User, error) {
	args := m.Called(ctx, username, fullName, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockAuthUseCase) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.LoginResult), args.Error(1)
}

func (m *mockAuthUseCase) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockNotesUseCase struct{ mock.Mock }

func (m *mockNotesUseCase) ListAll(ctx context.Context, userID string) (*api.NoteCollections, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.NoteCollections), args.Error(1)
}

func (m *mockNotesUseCase) GetOne(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNotesUseCase) Create(ctx context.Context, userID, title, note string) (*entities.Note, error) {
	args := m.Called(ctx, userID, title, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNotesUseCase) Update(ctx context.Context, noteID, title, note, userID string) (*entities.Note, error) {
	args := m.Called(ctx, noteID, title, note, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNotesUseCase) Delete(ctx context.Context, userID, noteID string) (*entities.Note, error) {
	args := m.Called(ctx, userID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNotesUseCase) Share(ctx context.Context, userID, noteID, email, username string) error {
	args := m.Called(ctx, userID, noteID, email, username)
	return args.Error(0)
}

type mockSearchUseCase struct{ mock.Mock }

func (m *mockSearchUseCase) Search(ctx context.Context, userID, query string) ([]*entities.Note, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) GenerateAccessToken(ctx context.Context, userID, username string) (string, time.Time, error) {
	args := m.Called(ctx, userID, username)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) GenerateRefreshToken(ctx context.Context, userID string) (string, time.Time, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type mockUserRepository struct{ mock.Mock }

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*entities.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) StoreRefreshToken(ctx context.Context, id, refreshToken string) error {
	args := m.Called(ctx, id, refreshToken)
	return args.Error(0)
}

func (m *mockUserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memorySessionCache хранит сессии в памяти для тестов роутера.
type memorySessionCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemorySessionCache() *memorySessionCache {
	return &memorySessionCache{values: make(map[string]string)}
}

func (c *memorySessionCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *memorySessionCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memorySessionCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *memorySessionCache) Close() error { return nil }

// testDeps объединяет моки, подключенные к роутеру в тесте.
type testDeps struct {
	app          *fiber.App
	authUseCase  *mockAuthUseCase
	notesUseCase *mockNotesUseCase
	searchUC     *mockSearchUseCase
	tokenService *mockTokenService
	userRepo     *mockUserRepository
	sessionCache *memorySessionCache
	pingErr      error
}

func newTestApp(t *testing.T) *testDeps {
	t.Helper()

	deps := &testDeps{
		authUseCase:  &mockAuthUseCase{},
		notesUseCase: &mockNotesUseCase{},
		searchUC:     &mockSearchUseCase{},
		tokenService: &mockTokenService{},
		userRepo:     &mockUserRepository{},
		sessionCache: newMemorySessionCache(),
	}

	deps.app = fiber.New()
	httpadapter.SetupRouter(deps.app, httpadapter.RouterDeps{
		AuthUseCase:     deps.authUseCase,
		NotesUseCase:    deps.notesUseCase,
		SearchUseCase:   deps.searchUC,
		TokenService:    deps.tokenService,
		UserRepository:  deps.userRepo,
		SessionCache:    deps.sessionCache,
		RefreshTokenTTL: 24 * time.Hour,
		PingDB: func(context.Context) error {
			return deps.pingErr
		},
	})

	return deps
}

// authorize настраивает моки так, чтобы access токен разрешался в пользователя.
func (d *testDeps) authorize(t *testing.T) {
	t.Helper()

	d.tokenService.On("ValidateAccessToken", mock.Anything, testAccessToken).Return(testUserID, nil)
	d.userRepo.On("FindByID", mock.Anything, testUserID).Return(&entities.User{
		ID:       testUserID,
		Email:    "owner@example.com",
		Username: "noteowner",
		FullName: "Note Owner",
	}, nil)
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body any, authed bool) *envelope {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: testAccessToken})
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.StatusCode)

	return &env
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		deps := newTestApp(t)

		env := doRequest(t, deps.app, http.MethodGet, "/healthz", nil, false)

		assert.Equal(t, http.StatusOK, env.StatusCode)
		assert.True(t, env.Success)
	})

	t.Run("database unreachable", func(t *testing.T) {
		deps := newTestApp(t)
		deps.pingErr = errors.New("connection refused")

		env := doRequest(t, deps.app, http.MethodGet, "/healthz", nil, false)

		assert.Equal(t, http.StatusServiceUnavailable, env.StatusCode)
		assert.False(t, env.Success)
	})
}

func TestUnknownRoute(t *testing.T) {
	deps := newTestApp(t)

	env := doRequest(t, deps.app, http.MethodGet, "/api/v1/unknown", nil, false)

	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Equal(t, "route not found", env.Message)
}

func TestSignUpRoute(t *testing.T) {
	validBody := map[string]string{
		"username": "noteowner",
		"fullName": "Note Owner",
		"email":    "owner@example.com",
		"password": "password1",
	}

	t.Run("created", func(t *testing.T) {
		deps := newTestApp(t)
		deps.authUseCase.On("SignUp", mock.Anything, "noteowner", "Note Owner", "owner@example.com", "password1").
			Return(&entities.User{ID: testUserID, Email: "owner@example.com", Username: "noteowner", FullName: "Note Owner"}, nil)

		env := doRequest(t, deps.app, http.MethodPost, "/api/v1/auth/signup", validBody, false)

		assert.Equal(t, http.StatusCreated, env.StatusCode)
		assert.True(t, env.Success)
		deps.authUseCase.AssertExpectations(t)
	})

	t.Run("duplicate user", func(t *testing.T) {
		deps := newTestApp(t)
		deps.authUseCase.On("SignUp", mock.Anything, "noteowner", "Note Owner", "owner@example.com", "password1").
			Return(nil, entities.ErrUserAlreadyExists)

		env := doRequest(t, deps.app, http.MethodPost, "/api/v1/auth/signup", validBody, false)

		assert.Equal(t, http.StatusConflict, env.StatusCode)
		assert.False(t, env.Success)
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		deps := newTestApp(t)

		env := doRequest(t, deps.app, http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"username": "short",
			"fullName": "Note Owner",
			"email":    "not-an-email",
			"password": "onlyletters",
		}, false)

		assert.Equal(t, http.StatusBadRequest, env.StatusCode)
		require.Len(t, env.Errors, 3)
		deps.authUseCase.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLoginRoute(t *testing.T) {
	body := map[string]string{"email": "owner@example.com", "password": "password1"}

	t.Run("success sets session cookies", func(t *testing.T) {
		deps := newTestApp(t)
		deps.authUseCase.On("Login", mock.Anything, "owner@example.com", "password1").Return(&api.LoginResult{
			User: &entities.User{ID: testUserID, Email: "owner@example.com", Username: "noteowner"},
			TokenPair: &domainsvc.TokenPair{
				AccessToken:  "access-token-value",
				RefreshToken: "refresh-token-value",
				ExpiresAt:    time.Now().Add(15 * time.Minute),
			},
		}, nil)

		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := deps.app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		cookieNames := make([]string, 0, 2)
		for _, cookie := range resp.Cookies() {
			cookieNames = append(cookieNames, cookie.Name)
			assert.True(t, cookie.HttpOnly, "cookie %s must be HttpOnly", cookie.Name)
		}
		assert.ElementsMatch(t, []string{"accessToken", "refreshToken"}, cookieNames)
	})

	t.Run("unknown email", func(t *testing.T) {
		deps := newTestApp(t)
		deps.authUseCase.On("Login", mock.Anything, "owner@example.com", "password1").
			Return(nil, entities.ErrUserNotFound)

		env := doRequest(t, deps.app, http.MethodPost, "/api/v1/auth/login", body, false)

		assert.Equal(t, http.StatusNotFound, env.StatusCode)
		assert.Equal(t, "no account found for this email", env.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		deps := newTestApp(t)
		deps.authUseCase.On("Login", mock.Anything, "owner@example.com", "password1").
			Return(nil, domainsvc.ErrInvalidCredentials)

		env := doRequest(t, deps.app, http.MethodPost, "/api/v1/auth/login", body, false)

		assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
	})
}

func TestLogoutRoute(t *testing.T) {
	deps := newTestApp(t)
	deps.authorize(t)
	deps.authUseCase.On("Logout", mock.Anything, testUserID).Return(nil)

	env := doRequest(t, deps.app, http.MethodPost, "/api/v1/auth/logout", nil, true)

	assert.Equal(t, http.StatusOK, env.StatusCode)
	deps.authUseCase.AssertExpectations(t)
}

func TestNotesRoutesRequireAuth(t *testing.T) {
	deps := newTestApp(t)

	env := doRequest(t, deps.app, http.MethodGet, "/api/v1/notes/", nil, false)

	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
	assert.False(t, env.Success)
	deps.notesUseCase.AssertNotCalled(t, "ListAll", mock.Anything, mock.Anything)
}

func TestNotesList(t *testing.T) {
	deps := newTestApp(t)
	deps.authorize(t)
	deps.notesUseCase.On("ListAll", mock.Anything, testUserID).Return(&api.NoteCollections{
		OwnedNotes:   []*entities.Note{{ID: testNoteID, OwnerID: testUserID, Title: "Groceries", Note: "milk"}},
		SharedWithMe: []*entities.Note{},
	}, nil)

	env := doRequest(t, deps.app, http.MethodGet, "/api/v1/notes/", nil, true)

	require.Equal(t, http.StatusOK, env.StatusCode)

	var collections struct {
		OwnedNotes   []map[string]any `json:"ownedNotes"`
		SharedWithMe []map[string]any `json:"sharedWithMe"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &collections))
	require.Len(t, collections.OwnedNotes, 1)
	assert.Equal(t, "Groceries", collections.OwnedNotes[0]["title"])
	assert.Empty(t, collections.SharedWithMe)
}

func TestNoteGetRejectsMalformedID(t *testing.T) {
	deps := newTestApp(t)
	deps.authorize(t)

	env := doRequest(t, deps.app, http.MethodGet, "/api/v1/notes/not-a-uuid", nil, true)

	assert.Equal(t, http.StatusBadRequest, env.StatusCode)
	assert.Equal(t, "noteId must be a valid id", env.Message)
	deps.notesUseCase.AssertNotCalled(t, "GetOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestNoteCreateTitleConflict(t *testing.T) {
	deps := newTestApp(t)
	deps.authorize(t)
	deps.notesUseCase.On("Create", mock.Anything, testUserID, "Groceries", "milk").
		Return(nil, entities.ErrTitleTaken)

	env := doRequest(t, deps.app, http.MethodPost, "/api/v1/notes/", map[string]string{
		"title": "Groceries",
		"note":  "milk",
	}, true)

	assert.Equal(t, http.StatusConflict, env.StatusCode)
}

func TestNoteUpdateStatuses(t *testing.T) {
	tests := []struct {
		name       string
		usecaseErr error
		wantStatus int
	}{
		{name: "title held by another note", usecaseErr: entities.ErrTitleTaken, wantStatus: http.StatusConflict},
		{name: "note not owned or missing", usecaseErr: entities.ErrNoteNotFound, wantStatus: http.StatusConflict},
		{name: "storage failure", usecaseErr: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestApp(t)
			deps.authorize(t)
			deps.notesUseCase.On("Update", mock.Anything, testNoteID, "Groceries", "milk", testUserID).
				Return(nil, tt.usecaseErr)

			env := doRequest(t, deps.app, http.MethodPut, "/api/v1/notes/"+testNoteID, map[string]string{
				"title": "Groceries",
				"note":  "milk",
			}, true)

			assert.Equal(t, tt.wantStatus, env.StatusCode)
		})
	}
}

func TestNoteShareStatuses(t *testing.T) {
	tests := []struct {
		name       string
		usecaseErr error
		wantStatus int
	}{
		{name: "shared", usecaseErr: nil, wantStatus: http.StatusOK},
		{name: "caller is not the owner", usecaseErr: entities.ErrNotOwner, wantStatus: http.StatusUnauthorized},
		{name: "note missing", usecaseErr: entities.ErrNoteNotFound, wantStatus: http.StatusNotFound},
		{name: "target user missing", usecaseErr: entities.ErrUserNotFound, wantStatus: http.StatusNotFound},
		{name: "grant confirmation failed", usecaseErr: domainsvc.ErrCreationFailed, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestApp(t)
			deps.authorize(t)
			deps.notesUseCase.On("Share", mock.Anything, testUserID, testNoteID, "friend@example.com", "").
				Return(tt.usecaseErr)

			env := doRequest(t, deps.app, http.MethodPost, "/api/v1/notes/"+testNoteID+"/share", map[string]string{
				"email": "friend@example.com",
			}, true)

			assert.Equal(t, tt.wantStatus, env.StatusCode)
		})
	}
}

func TestSearchRoute(t *testing.T) {
	t.Run("returns ranked notes", func(t *testing.T) {
		deps := newTestApp(t)
		deps.authorize(t)
		deps.searchUC.On("Search", mock.Anything, testUserID, "groceries").Return([]*entities.Note{
			{ID: testNoteID, OwnerID: testUserID, Title: "Groceries", Note: "milk"},
		}, nil)

		env := doRequest(t, deps.app, http.MethodGet, "/api/v1/search/?query=groceries", nil, true)

		require.Equal(t, http.StatusOK, env.StatusCode)

		var results []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &results))
		require.Len(t, results, 1)
		assert.Equal(t, "Groceries", results[0]["title"])
	})

	t.Run("no matches yields empty array", func(t *testing.T) {
		deps := newTestApp(t)
		deps.authorize(t)
		deps.searchUC.On("Search", mock.Anything, testUserID, "nothing").Return([]*entities.Note{}, nil)

		env := doRequest(t, deps.app, http.MethodGet, "/api/v1/search/?query=nothing", nil, true)

		require.Equal(t, http.StatusOK, env.StatusCode)

		var results []map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &results))
		assert.Empty(t, results)
	})

	t.Run("requires auth", func(t *testing.T) {
		deps := newTestApp(t)

		env := doRequest(t, deps.app, http.MethodGet, "/api/v1/search/?query=groceries", nil, false)

		assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
	})
}

func TestAuthMiddlewareUsesSessionCache(t *testing.T) {
	deps := newTestApp(t)
	deps.authorize(t)
	deps.notesUseCase.On("ListAll", mock.Anything, testUserID).
		Return(&api.NoteCollections{OwnedNotes: []*entities.Note{}, SharedWithMe: []*entities.Note{}}, nil)

	// Первый запрос кладет профиль в кэш, второй не должен трогать репозиторий.
	doRequest(t, deps.app, http.MethodGet, "/api/v1/notes/", nil, true)
	doRequest(t, deps.app, http.MethodGet, "/api/v1/notes/", nil, true)

	deps.userRepo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestAuthMiddlewareRejectsUnknownSessionUser(t *testing.T) {
	deps := newTestApp(t)
	deps.tokenService.On("ValidateAccessToken", mock.Anything, testAccessToken).Return(testUserID, nil)
	deps.userRepo.On("FindByID", mock.Anything, testUserID).Return(nil, entities.ErrUserNotFound)

	env := doRequest(t, deps.app, http.MethodGet, "/api/v1/notes/", nil, true)

	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
	assert.Equal(t, "session user no longer exists", env.Message)
}
