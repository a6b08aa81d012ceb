package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/krishisaarathi/backend/internal/models"
	"github.com/krishisaarathi/backend/internal/repositories"
)

// mockRoleRepository is an in-memory implementation of RoleRepository
type mockRoleRepository struct {
	mu        sync.Mutex
	roles     []models.Role
	createErr error
	existsErr error
	getErr    error
	getAllErr error
	creates   int
}

func newSeededRoleRepository() *mockRoleRepository {
	repo := &mockRoleRepository{}
	for _, def := range models.CanonicalRoles() {
		repo.roles = append(repo.roles, models.Role{
			ID:          int64(len(repo.roles) + 1),
			RoleName:    def.Name,
			Description: def.Description,
		})
	}
	return repo
}

func (m *mockRoleRepository) Create(ctx context.Context, role *models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.creates++
	role.ID = int64(len(m.roles) + 1)
	m.roles = append(m.roles, *role)
	return nil
}

func (m *mockRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, r := range m.roles {
		if r.RoleName == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, r := range m.roles {
		if r.RoleName == name {
			role := r
			return &role, nil
		}
	}
	return nil, repositories.ErrRoleNotFound
}

func (m *mockRoleRepository) GetAll(ctx context.Context) ([]models.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return append([]models.Role(nil), m.roles...), nil
}

// mockUserRepository is an in-memory implementation of UserRepository
type mockUserRepository struct {
	mu          sync.Mutex
	users       []models.User
	createErr   error
	existsErr   error
	getErr      error
	listErr     error
	countErr    error
	countByErr  error
	createCalls int
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (m *mockUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.User{}, m.users...), nil
}

func (m *mockUserRepository) GetByRoleName(ctx context.Context, roleName string, activeOnly bool) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	users := []models.User{}
	for _, u := range m.users {
		if u.Role.RoleName != roleName {
			continue
		}
		if activeOnly && !u.IsActive {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.users)), nil
}

func (m *mockUserRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countByErr != nil {
		return nil, m.countByErr
	}
	counts := make(map[string]int64)
	for _, u := range m.users {
		counts[u.Role.RoleName]++
	}
	return counts, nil
}

func roleNames(roles []models.Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.RoleName)
	}
	sort.Strings(names)
	return names
}
