package usecase

import (
	"context"
	"testing"

	"cinema-reservation/internal/data/entity"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/dto/request"
	"cinema-reservation/internal/mocks"
	"cinema-reservation/pkg/apperror"
	"cinema-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuthFixture() (*mocks.MockUserRepo, *mocks.MockSessionRepo, AuthService) {
	users := new(mocks.MockUserRepo)
	sessions := new(mocks.MockSessionRepo)
	config := &utils.Config{JWT: utils.JWTConfig{Secret: testSecret, ExpiryHours: 1}}
	svc := NewAuthService(&repository.Repository{User: users, Session: sessions}, config, zap.NewNop())
	return users, sessions, svc
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	client := request.ClientInfo{UserAgent: "curl/8", IPAddress: "10.0.0.1"}
	req := &request.RegisterRequest{Name: "Rina", Email: "rina@example.com", Password: "secret123"}

	t.Run("issues a token bound to a new session", func(t *testing.T) {
		users, sessions, svc := newAuthFixture()
		users.On("FindByEmail", ctx, req.Email).Return(nil, nil)
		users.On("Create", ctx, mock.AnythingOfType("*entity.User")).
			Run(func(args mock.Arguments) { args.Get(1).(*entity.User).ID = 11 }).
			Return(nil)

		var stored *entity.Session
		sessions.On("Create", ctx, mock.AnythingOfType("*entity.Session")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.Session) }).
			Return(nil)

		resp, err := svc.Register(ctx, req, client)

		require.NoError(t, err)
		assert.Equal(t, int64(11), resp.UserID)
		assert.Equal(t, entity.RoleCustomer, resp.Role)

		claims, err := utils.ParseAccessToken(testSecret, resp.Token)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, stored.Token.String(), claims.ID)
		assert.Equal(t, "10.0.0.1", *stored.IPAddress)
	})

	t.Run("email taken", func(t *testing.T) {
		users, _, svc := newAuthFixture()
		users.On("FindByEmail", ctx, req.Email).Return(&entity.User{Email: req.Email}, nil)

		_, err := svc.Register(ctx, req, client)

		var conflict *apperror.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("concurrent register loses on the unique index", func(t *testing.T) {
		users, _, svc := newAuthFixture()
		users.On("FindByEmail", ctx, req.Email).Return(nil, nil)
		users.On("Create", ctx, mock.Anything).Return(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		_, err := svc.Register(ctx, req, client)

		var conflict *apperror.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("short password", func(t *testing.T) {
		_, _, svc := newAuthFixture()

		_, err := svc.Register(ctx, &request.RegisterRequest{Name: "Rina", Email: "rina@example.com", Password: "short"}, client)

		var validation *apperror.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Fields, "password")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		user     *entity.User
		password string
		wantErr  bool
	}{
		{"valid", &entity.User{Base: entity.Base{ID: 3}, Email: "a@b.co", PasswordHash: hash, Role: entity.RoleAdmin, IsActive: true}, "secret123", false},
		{"wrong password", &entity.User{Base: entity.Base{ID: 3}, Email: "a@b.co", PasswordHash: hash, IsActive: true}, "nope12345", true},
		{"unknown email", nil, "secret123", true},
		{"inactive", &entity.User{Base: entity.Base{ID: 3}, Email: "a@b.co", PasswordHash: hash}, "secret123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, sessions, svc := newAuthFixture()
			if tt.user == nil {
				users.On("FindByEmail", ctx, "a@b.co").Return(nil, nil)
			} else {
				users.On("FindByEmail", ctx, "a@b.co").Return(tt.user, nil)
			}
			sessions.On("Create", ctx, mock.Anything).Return(nil).Maybe()

			resp, err := svc.Login(ctx, &request.LoginRequest{Email: "a@b.co", Password: tt.password}, request.ClientInfo{})

			if tt.wantErr {
				var unauthorized *apperror.UnauthorizedError
				assert.ErrorAs(t, err, &unauthorized)
				sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.RoleAdmin, resp.Role)
			assert.NotEmpty(t, resp.Token)
		})
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	token := uuid.New()

	_, sessions, svc := newAuthFixture()
	sessions.On("Revoke", ctx, token).Return(nil).Once()
	sessions.On("Revoke", ctx, token).Return(repository.ErrNoRowsAffected).Once()

	require.NoError(t, svc.Logout(ctx, token.String()))

	var unauthorized *apperror.UnauthorizedError
	assert.ErrorAs(t, svc.Logout(ctx, token.String()), &unauthorized)
	assert.ErrorAs(t, svc.Logout(ctx, "not-a-uuid"), &unauthorized)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes sessions", func(t *testing.T) {
		users, sessions := new(mocks.MockUserRepo), new(mocks.MockSessionRepo)
		users.On("Delete", ctx, int64(4)).Return(nil)
		sessions.On("RevokeAllUserSessions", ctx, int64(4)).Return(nil)

		err := NewUserService(users, sessions, zap.NewNop()).DeleteUser(ctx, 4)

		require.NoError(t, err)
		sessions.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		users, sessions := new(mocks.MockUserRepo), new(mocks.MockSessionRepo)
		users.On("Delete", ctx, int64(4)).Return(repository.ErrNoRowsAffected)

		err := NewUserService(users, sessions, zap.NewNop()).DeleteUser(ctx, 4)

		assert.True(t, apperror.IsNotFound(err))
		sessions.AssertNotCalled(t, "RevokeAllUserSessions", mock.Anything, mock.Anything)
	})
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.MockUserRepo)
	users.On("FindByID", ctx, int64(8)).Return(&entity.User{Base: entity.Base{ID: 8}, Name: "Budi"}, nil)
	users.On("FindByID", ctx, int64(9)).Return(nil, nil)
	svc := NewUserService(users, new(mocks.MockSessionRepo), zap.NewNop())

	profile, err := svc.GetProfile(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, "Budi", profile.Name)

	_, err = svc.GetProfile(ctx, 9)
	assert.True(t, apperror.IsNotFound(err))
}
