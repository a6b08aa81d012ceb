package services

import (
	"context"
	"errors"
	"testing"

	"github.com/krishisaarathi/backend/internal/auth"
	"github.com/krishisaarathi/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type failingEncoder struct{}

func (failingEncoder) Encode(string) (string, error) { return "", errors.New("encoder unavailable") }
func (failingEncoder) Matches(string, string) bool   { return false }

func strPtr(s string) *string {
	return &s
}

func validRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:     "ravi@example.com",
		Password:  "secret123",
		FirstName: "Ravi",
		LastName:  strPtr("Kumar"),
		Role:      "farmer",
	}
}

func TestNewUserService(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	userRepo := &mockUserRepository{}
	roleRepo := &mockRoleRepository{}

	svc := NewUserService(userRepo, roleRepo, auth.PlainEncoder{}, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, userRepo, svc.userRepo)
	assert.Equal(t, roleRepo, svc.roleRepo)
	assert.Equal(t, auth.PlainEncoder{}, svc.encoder)
	assert.NotNil(t, svc.validate)
}

func TestUserService_Register(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name            string
		modify          func(req *models.RegisterRequest)
		userRepo        *mockUserRepository
		roleRepo        *mockRoleRepository
		encoder         auth.PasswordEncoder
		expectedError   error
		expectedRole    string
		expectedCreates int
	}{
		{
			name:            "success with lower case role",
			userRepo:        &mockUserRepository{},
			expectedRole:    models.RoleFarmer,
			expectedCreates: 1,
		},
		{
			name:            "success with mixed case role and surrounding spaces",
			modify:          func(req *models.RegisterRequest) { req.Role = "  Driver " },
			userRepo:        &mockUserRepository{},
			expectedRole:    models.RoleDriver,
			expectedCreates: 1,
		},
		{
			name:          "missing role",
			modify:        func(req *models.RegisterRequest) { req.Role = "" },
			userRepo:      &mockUserRepository{},
			expectedError: ErrMissingFields,
		},
		{
			name:          "missing email",
			modify:        func(req *models.RegisterRequest) { req.Email = "" },
			userRepo:      &mockUserRepository{},
			expectedError: ErrMissingFields,
		},
		{
			name:          "blank first name",
			modify:        func(req *models.RegisterRequest) { req.FirstName = "   " },
			userRepo:      &mockUserRepository{},
			expectedError: ErrMissingFields,
		},
		{
			name:          "missing password",
			modify:        func(req *models.RegisterRequest) { req.Password = "" },
			userRepo:      &mockUserRepository{},
			expectedError: ErrMissingFields,
		},
		{
			name:   "missing fields win over duplicate email",
			modify: func(req *models.RegisterRequest) { req.Role = "" },
			userRepo: &mockUserRepository{users: []models.User{
				{ID: 1, Email: "ravi@example.com"},
			}},
			expectedError: ErrMissingFields,
		},
		{
			name: "duplicate email",
			userRepo: &mockUserRepository{users: []models.User{
				{ID: 1, Email: "ravi@example.com"},
			}},
			expectedError: ErrDuplicateEmail,
		},
		{
			name:   "duplicate email wins over unknown role",
			modify: func(req *models.RegisterRequest) { req.Role = "unknown" },
			userRepo: &mockUserRepository{users: []models.User{
				{ID: 1, Email: "ravi@example.com"},
			}},
			expectedError: ErrDuplicateEmail,
		},
		{
			name:          "unknown role",
			modify:        func(req *models.RegisterRequest) { req.Role = "unknown" },
			userRepo:      &mockUserRepository{},
			expectedError: ErrUnknownRole,
		},
		{
			name:          "email check fails",
			userRepo:      &mockUserRepository{existsErr: errors.New("connection refused")},
			expectedError: ErrRegistrationFailed,
		},
		{
			name:          "role lookup fails",
			userRepo:      &mockUserRepository{},
			roleRepo:      &mockRoleRepository{getErr: errors.New("connection refused")},
			expectedError: ErrRegistrationFailed,
		},
		{
			name:          "encoder fails",
			userRepo:      &mockUserRepository{},
			encoder:       failingEncoder{},
			expectedError: ErrRegistrationFailed,
		},
		{
			name:            "insert rejected by unique constraint",
			userRepo:        &mockUserRepository{createErr: errors.New("Error 1062: Duplicate entry 'ravi@example.com'")},
			expectedError:   ErrRegistrationFailed,
			expectedCreates: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			if tt.modify != nil {
				tt.modify(req)
			}
			roleRepo := tt.roleRepo
			if roleRepo == nil {
				roleRepo = newSeededRoleRepository()
			}
			encoder := tt.encoder
			if encoder == nil {
				encoder = auth.PlainEncoder{}
			}
			usersBefore := len(tt.userRepo.users)
			svc := NewUserService(tt.userRepo, roleRepo, encoder, logger)

			result, err := svc.Register(context.Background(), req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				assert.Len(t, tt.userRepo.users, usersBefore)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.expectedRole, result.Role)
				assert.Equal(t, req.Email, result.Email)
				assert.NotZero(t, result.UserID)
			}
			assert.Equal(t, tt.expectedCreates, tt.userRepo.createCalls)
		})
	}
}

func TestUserService_Register_PersistedUser(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("defaults and optional fields", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		svc := NewUserService(userRepo, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		req := validRequest()
		req.PhoneNumber = strPtr("9876543210")
		_, err := svc.Register(context.Background(), req)
		require.NoError(t, err)

		require.Len(t, userRepo.users, 1)
		user := userRepo.users[0]
		assert.True(t, user.IsActive)
		assert.False(t, user.IsVerified)
		assert.Equal(t, "secret123", user.Password)
		assert.Equal(t, "Kumar", *user.LastName)
		assert.Equal(t, "9876543210", *user.PhoneNumber)
		assert.Equal(t, models.RoleFarmer, user.Role.RoleName)
		assert.Equal(t, int64(2), user.Role.ID)
	})

	t.Run("bcrypt encoder stores hash", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		svc := NewUserService(userRepo, newSeededRoleRepository(), auth.BcryptEncoder{Cost: bcrypt.MinCost}, logger)

		_, err := svc.Register(context.Background(), validRequest())
		require.NoError(t, err)

		require.Len(t, userRepo.users, 1)
		assert.NotEqual(t, "secret123", userRepo.users[0].Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(userRepo.users[0].Password), []byte("secret123")))
	})

	t.Run("nil request", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{}, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		result, err := svc.Register(context.Background(), nil)

		assert.ErrorIs(t, err, ErrMissingFields)
		assert.Nil(t, result)
	})

	t.Run("registration error keeps underlying message", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{createErr: errors.New("deadlock found")}, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		_, err := svc.Register(context.Background(), validRequest())

		var regErr *RegistrationError
		require.ErrorAs(t, err, &regErr)
		assert.EqualError(t, regErr.Err, "deadlock found")
		assert.Equal(t, "registration failed: deadlock found", err.Error())
	})
}

func TestUserService_Stats(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("one user per role", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		svc := NewUserService(userRepo, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		for i, role := range []string{"admin", "farmer", "driver", "market"} {
			req := validRequest()
			req.Email = role + "@example.com"
			req.Role = role
			_, err := svc.Register(context.Background(), req)
			require.NoError(t, err, "registration %d", i)
		}

		stats, err := svc.Stats(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &models.UserStats{
			TotalUsers:  4,
			AdminCount:  1,
			FarmerCount: 1,
			DriverCount: 1,
			MarketCount: 1,
		}, stats)
	})

	t.Run("empty store counts zero", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{}, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		stats, err := svc.Stats(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &models.UserStats{}, stats)
	})

	t.Run("count fails", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{countErr: errors.New("timeout")}, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		stats, err := svc.Stats(context.Background())

		assert.Error(t, err)
		assert.Nil(t, stats)
	})

	t.Run("count by role fails", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{countByErr: errors.New("timeout")}, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		stats, err := svc.Stats(context.Background())

		assert.Error(t, err)
		assert.Nil(t, stats)
	})
}

func TestUserService_ListUsersByRole(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	roles := newSeededRoleRepository()
	driver, _ := roles.GetByName(context.Background(), models.RoleDriver)
	farmer, _ := roles.GetByName(context.Background(), models.RoleFarmer)

	userRepo := &mockUserRepository{users: []models.User{
		{ID: 1, Email: "d1@example.com", Role: *driver, IsActive: true},
		{ID: 2, Email: "f1@example.com", Role: *farmer, IsActive: true},
		{ID: 3, Email: "d2@example.com", Role: *driver, IsActive: false},
	}}
	svc := NewUserService(userRepo, roles, auth.PlainEncoder{}, logger)

	tests := []struct {
		name        string
		roleName    string
		activeOnly  bool
		expectedIDs []int64
	}{
		{name: "upper case", roleName: "DRIVER", expectedIDs: []int64{1, 3}},
		{name: "lower case", roleName: "driver", expectedIDs: []int64{1, 3}},
		{name: "active only", roleName: "Driver", activeOnly: true, expectedIDs: []int64{1}},
		{name: "unknown role", roleName: "pilot", expectedIDs: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := svc.ListUsersByRole(context.Background(), tt.roleName, tt.activeOnly)

			require.NoError(t, err)
			ids := []int64{}
			for _, u := range users {
				ids = append(ids, u.ID)
				assert.Equal(t, models.RoleDriver, u.Role.RoleName)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}

	t.Run("repository error", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{listErr: errors.New("timeout")}, roles, auth.PlainEncoder{}, logger)

		users, err := svc.ListUsersByRole(context.Background(), "driver", false)

		assert.Error(t, err)
		assert.Nil(t, users)
	})
}

func TestUserService_ListRolesAndUsers(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("list roles", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{}, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		roles, err := svc.ListRoles(context.Background())

		require.NoError(t, err)
		assert.Len(t, roles, 4)
	})

	t.Run("list roles fails", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{}, &mockRoleRepository{getAllErr: errors.New("timeout")}, auth.PlainEncoder{}, logger)

		roles, err := svc.ListRoles(context.Background())

		assert.Error(t, err)
		assert.Nil(t, roles)
	})

	t.Run("list users", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{users: []models.User{{ID: 1}, {ID: 2}}}, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		users, err := svc.ListUsers(context.Background())

		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("list users fails", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{listErr: errors.New("timeout")}, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

		users, err := svc.ListUsers(context.Background())

		assert.Error(t, err)
		assert.Nil(t, users)
	})
}

func TestUserService_GetUser(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name          string
		userRepo      *mockUserRepository
		expectedError error
	}{
		{
			name:     "success",
			userRepo: &mockUserRepository{users: []models.User{{ID: 7, Email: "x@example.com"}}},
		},
		{
			name:          "not found",
			userRepo:      &mockUserRepository{},
			expectedError: ErrUserNotFound,
		},
		{
			name:          "repository error",
			userRepo:      &mockUserRepository{getErr: errors.New("timeout")},
			expectedError: errors.New("failed to get user: timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(tt.userRepo, newSeededRoleRepository(), auth.PlainEncoder{}, logger)

			user, err := svc.GetUser(context.Background(), 7)

			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), user.ID)
			}
		})
	}
}
