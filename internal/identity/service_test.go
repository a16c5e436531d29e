package identity

import (
	"context"
	"testing"
)

func TestRegisterDefaultsAndNormalizes(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{
		Email:    "  Host@Example.COM ",
		Password: "correct horse",
		Phone:    " +250788123456 ",
		Name:     " Amina ",
		Country:  "rw",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "host@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.Role != RoleGuest {
		t.Fatalf("expected default guest role, got %s", user.Role)
	}
	if user.Country != "RW" || user.Name != "Amina" {
		t.Fatalf("fields not trimmed: %+v", user)
	}
	if len(user.PasswordHash) == 0 {
		t.Fatal("password hash missing")
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "nope", Password: "correct horse"}); err == nil {
		t.Fatal("expected invalid email rejection")
	}
	if _, err := svc.Register(ctx, Credentials{Email: "a@b.com", Password: "short"}); err == nil {
		t.Fatal("expected short password rejection")
	}
	if _, err := svc.Register(ctx, Credentials{Email: "a@b.com", Password: "correct horse", Role: "superuser"}); err == nil {
		t.Fatal("expected unknown role rejection")
	}
	// admins are provisioned out of band, not via registration
	if _, err := svc.Register(ctx, Credentials{Email: "a@b.com", Password: "correct horse", Role: RoleAdmin}); err == nil {
		t.Fatal("expected admin role rejection")
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "host@example.com", Password: "correct horse", Role: RoleHost}); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Authenticate(ctx, "HOST@example.com", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Role != RoleHost {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.LastLogin.IsZero() {
		t.Fatal("last login not recorded")
	}

	// wrong password and unknown user read the same to the caller
	_, badPass := svc.Authenticate(ctx, "host@example.com", "wrong")
	_, badUser := svc.Authenticate(ctx, "ghost@example.com", "correct horse")
	if badPass == nil || badUser == nil {
		t.Fatal("expected authentication failures")
	}
	if badPass.Error() != badUser.Error() {
		t.Fatalf("failure messages must not reveal which part was wrong: %q vs %q", badPass, badUser)
	}
}
