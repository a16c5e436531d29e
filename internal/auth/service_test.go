package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/amoria-global/jambolush-dashboard-sub002/internal/config"
	"github.com/amoria-global/jambolush-dashboard-sub002/internal/identity"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "test-access-secret",
		RefreshSecret:   "test-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func seedUser(t *testing.T, repo identity.Repository) identity.User {
	t.Helper()
	user := identity.User{ID: uuid.NewString(), Email: "host@example.com", Role: identity.RoleHost}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginAndVerify(t *testing.T) {
	repo := identity.NewMemoryRepository()
	svc := NewService(testConfig(), repo)
	user := seedUser(t, repo)

	pair, err := svc.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expiry: %d", pair.ExpiresIn)
	}

	claims, err := svc.Verify(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != user.ID || claims.Role != string(identity.RoleHost) {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// a refresh token is not an access token
	if _, err := svc.Verify(pair.RefreshToken); err == nil {
		t.Fatal("refresh token must not verify as access token")
	}
	if _, err := svc.Verify("not-a-token"); err == nil {
		t.Fatal("garbage must not verify")
	}
}

func TestRefresh(t *testing.T) {
	repo := identity.NewMemoryRepository()
	svc := NewService(testConfig(), repo)
	user := seedUser(t, repo)

	pair, err := svc.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, expiresIn, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" || expiresIn == 0 {
		t.Fatal("expected a fresh access token")
	}
	if _, _, err := svc.Refresh(context.Background(), pair.AccessToken); err == nil {
		t.Fatal("access token must not refresh")
	}
}

func TestLogoutInvalidatesRefreshTokens(t *testing.T) {
	repo := identity.NewMemoryRepository()
	svc := NewService(testConfig(), repo)
	user := seedUser(t, repo)

	pair, err := svc.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(context.Background(), user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); err == nil {
		t.Fatal("refresh token must die on logout")
	}
}
