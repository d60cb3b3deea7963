package auth

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/orgpulse/attendance-backend-go/internal/domain/auth"
	"github.com/orgpulse/attendance-backend-go/internal/domain/user"
	"github.com/orgpulse/attendance-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeEmployeeRepo struct {
	employees map[string]user.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]user.Employee)}
}

func (f *fakeEmployeeRepo) put(emp user.Employee) {
	f.employees[emp.ID] = emp
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (user.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return user.Employee{}, user.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (user.Employee, error) {
	for _, emp := range f.employees {
		if emp.Email == email {
			return emp, nil
		}
	}
	return user.Employee{}, user.ErrEmployeeNotFound
}

func newTestJWTService() jwt.Service {
	return jwt.NewJWTService("test-secret", "1h", "168h")
}

func seedEmployee(t *testing.T, repo *fakeEmployeeRepo, password string, active bool) user.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	emp := user.Employee{
		ID:           "emp-1",
		Email:        "trainer@example.com",
		PasswordHash: string(hash),
		FullName:     "Jordan Mwangi",
		Role:         user.RoleTrainer,
		IsActive:     active,
	}
	repo.put(emp)
	return emp
}

func TestLogin_IssuesBothTokens(t *testing.T) {
	repo := newFakeEmployeeRepo()
	emp := seedEmployee(t, repo, "open-sesame", true)

	svc := NewAuthService(repo, newTestJWTService())
	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    emp.Email,
		Password: "open-sesame",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, emp.ID, resp.EmployeeID)
	assert.Equal(t, string(user.RoleTrainer), resp.Role)
	assert.Greater(t, resp.RefreshExpiresAt, resp.ExpiresAt,
		"refresh token must outlive the access token")
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	repo := newFakeEmployeeRepo()
	seedEmployee(t, repo, "open-sesame", true)
	svc := NewAuthService(repo, newTestJWTService())

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ghost@example.com",
		Password: "open-sesame",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), auth.LoginRequest{
		Email:    "trainer@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveEmployee(t *testing.T) {
	repo := newFakeEmployeeRepo()
	emp := seedEmployee(t, repo, "open-sesame", false)
	svc := NewAuthService(repo, newTestJWTService())

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    emp.Email,
		Password: "open-sesame",
	})
	assert.ErrorIs(t, err, user.ErrEmployeeInactive)
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	repo := newFakeEmployeeRepo()
	emp := seedEmployee(t, repo, "open-sesame", true)
	jwtService := newTestJWTService()
	svc := NewAuthService(repo, jwtService)

	login, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    emp.Email,
		Password: "open-sesame",
	})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), auth.RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, emp.ID, claims["employee_id"])
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	repo := newFakeEmployeeRepo()
	emp := seedEmployee(t, repo, "open-sesame", true)
	svc := NewAuthService(repo, newTestJWTService())

	login, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    emp.Email,
		Password: "open-sesame",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), auth.RefreshRequest{
		RefreshToken: login.AccessToken,
	})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefresh_RejectsGarbageToken(t *testing.T) {
	svc := NewAuthService(newFakeEmployeeRepo(), newTestJWTService())

	_, err := svc.Refresh(context.Background(), auth.RefreshRequest{
		RefreshToken: "not-a-jwt",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefresh_DeactivatedEmployee(t *testing.T) {
	repo := newFakeEmployeeRepo()
	emp := seedEmployee(t, repo, "open-sesame", true)
	svc := NewAuthService(repo, newTestJWTService())

	login, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    emp.Email,
		Password: "open-sesame",
	})
	require.NoError(t, err)

	emp.IsActive = false
	repo.put(emp)

	_, err = svc.Refresh(context.Background(), auth.RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	assert.ErrorIs(t, err, user.ErrEmployeeInactive)
}
