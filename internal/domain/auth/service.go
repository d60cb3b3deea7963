package auth

import "context"

// AuthService verifies credentials and issues tokens. The attendance engine
// never re-derives identity; it trusts the (employee id, role) pair the
// transport layer extracts from a verified token.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (RefreshResponse, error)
}
