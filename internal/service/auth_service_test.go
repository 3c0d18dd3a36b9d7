package service

import (
	"alcyxob/gym-dashboard/internal/domain"
	"alcyxob/gym-dashboard/internal/repository"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestAuthService(repo *MockUserRepository) *authService {
	return NewAuthService(repo, testSecret).(*authService)
}

func TestAuthService_Register(t *testing.T) {
	valid := RegisterInput{
		Email:           "  Jane@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Name:            "Jane",
		Role:            domain.RoleMember,
	}

	tests := []struct {
		name       string
		input      func() RegisterInput
		setupMocks func(*MockUserRepository)
		wantErr    error
	}{
		{
			name:    "missing field",
			input:   func() RegisterInput { in := valid; in.Name = ""; return in },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad email",
			input:   func() RegisterInput { in := valid; in.Email = "jane"; return in },
			wantErr: ErrInvalidInput,
		},
		{
			name: "short password",
			input: func() RegisterInput {
				in := valid
				in.Password, in.ConfirmPassword = "abc", "abc"
				return in
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "passwords differ",
			input:   func() RegisterInput { in := valid; in.ConfirmPassword = "secret2"; return in },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown role",
			input:   func() RegisterInput { in := valid; in.Role = "admin"; return in },
			wantErr: ErrInvalidInput,
		},
		{
			name:  "email taken",
			input: func() RegisterInput { return valid },
			setupMocks: func(r *MockUserRepository) {
				r.On("GetByEmail", mock.Anything, "jane@example.com").Return(&domain.User{}, nil).Once()
			},
			wantErr: ErrUserAlreadyExists,
		},
		{
			name:  "lost race on unique index",
			input: func() RegisterInput { return valid },
			setupMocks: func(r *MockUserRepository) {
				r.On("GetByEmail", mock.Anything, "jane@example.com").Return(nil, repository.ErrNotFound).Once()
				r.On("Create", mock.Anything, mock.Anything).Return(primitive.NilObjectID, repository.ErrDuplicate).Once()
			},
			wantErr: ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}
			svc := newTestAuthService(repo)

			token, user, err := svc.Register(context.Background(), tt.input())

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, token)
			assert.Nil(t, user)
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterSuccess(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestAuthService(repo)
	id := primitive.NewObjectID()

	repo.On("GetByEmail", mock.Anything, "jane@example.com").Return(nil, repository.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "jane@example.com" &&
			u.Role == domain.RoleCoach &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(id, nil).Once()

	token, user, err := svc.Register(context.Background(), RegisterInput{
		Email: "Jane@Example.com", Password: "secret1", ConfirmPassword: "secret1", Name: "Jane", Role: domain.RoleCoach,
	})
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Empty(t, user.PasswordHash)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleCoach, claims.Role)
	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: primitive.NewObjectID(), Email: "jane@example.com", PasswordHash: string(hash), Role: domain.RoleMember}

	t.Run("success", func(t *testing.T) {
		repo := new(MockUserRepository)
		u := *stored
		repo.On("GetByEmailAndRole", mock.Anything, "jane@example.com", domain.RoleMember).Return(&u, nil).Once()

		token, user, err := newTestAuthService(repo).Login(context.Background(), "JANE@example.com", "secret1", domain.RoleMember)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		u := *stored
		repo.On("GetByEmailAndRole", mock.Anything, "jane@example.com", domain.RoleMember).Return(&u, nil).Once()

		_, _, err := newTestAuthService(repo).Login(context.Background(), "jane@example.com", "nope123", domain.RoleMember)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("wrong role looks like unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmailAndRole", mock.Anything, "jane@example.com", domain.RoleCoach).Return(nil, repository.ErrNotFound).Once()

		_, _, err := newTestAuthService(repo).Login(context.Background(), "jane@example.com", "secret1", domain.RoleCoach)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		boom := errors.New("connection reset")
		repo.On("GetByEmailAndRole", mock.Anything, "jane@example.com", domain.RoleMember).Return(nil, boom).Once()

		_, _, err := newTestAuthService(repo).Login(context.Background(), "jane@example.com", "secret1", domain.RoleMember)
		assert.ErrorIs(t, err, boom)
	})
}

func TestAuthService_ParseToken(t *testing.T) {
	svc := newTestAuthService(new(MockUserRepository))
	user := &domain.User{ID: primitive.NewObjectID(), Email: "a@b.io", Role: domain.RoleCoach}

	token, err := svc.generateJWT(user)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		claims, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), claims.UserID)
		assert.Equal(t, tokenIssuer, claims.Issuer)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
		assert.Equal(t, 7*24*time.Hour, svc.TokenTTL(), "cookie and token share the fixed session lifetime")
	})

	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		forged := base64.RawURLEncoding.EncodeToString([]byte(`{"userId":"` + primitive.NewObjectID().Hex() + `","role":"coach"}`))
		_, err := svc.ParseToken(parts[0] + "." + forged + "." + parts[2])
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewAuthService(new(MockUserRepository), "other-secret")
		_, err := other.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: user.ID.Hex()})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ParseToken(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := newTestAuthService(new(MockUserRepository))
		later.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
		_, err := later.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_CurrentUser(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("role comes from storage", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", mock.Anything, id).Return(&domain.User{ID: id, Role: domain.RoleMember, PasswordHash: "h"}, nil).Once()

		user, err := newTestAuthService(repo).CurrentUser(context.Background(), &Claims{UserID: id.Hex(), Role: domain.RoleCoach})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMember, user.Role)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("deleted user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound).Once()

		_, err := newTestAuthService(repo).CurrentUser(context.Background(), &Claims{UserID: id.Hex()})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := newTestAuthService(new(MockUserRepository)).CurrentUser(context.Background(), &Claims{UserID: "nope"})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
