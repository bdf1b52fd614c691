package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sitewatch/safety-backend/internal/filters"
	"github.com/sitewatch/safety-backend/internal/repos"
	"github.com/sitewatch/safety-backend/internal/requestdata"
	"github.com/sitewatch/safety-backend/internal/types"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()

	db := openTestDB(t)
	log := testLogger(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("swordfish"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash seed password: %v", err)
	}
	users := []*types.User{
		{ID: 1, Username: "inspector", Email: "inspector@example.com", HashedPassword: string(hashed), Role: types.RoleUser, ClientID: 1},
		{ID: 2, Username: "chief", Email: "chief@example.com", HashedPassword: string(hashed), Role: types.RoleAdmin, ClientID: 1},
	}
	for _, u := range users {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	return NewAuthService(db, log, repos.NewUserRepo(db, log), repos.NewUserTokenRepo(db, log), "test-secret", time.Hour)
}

func TestLoginAndVerifyRoundTrip(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "Inspector@Example.com", "swordfish")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("login returned empty token")
	}
	if result.UserID != 1 || result.Role != types.RoleUser {
		t.Fatalf("login result = %+v", result)
	}

	rd, err := svc.VerifyToken(ctx, result.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rd.UserID != 1 || rd.Username != "inspector" || rd.Role != types.RoleUser {
		t.Fatalf("request data = %+v", rd)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "inspector@example.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong password: got %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "swordfish"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown email: got %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Login(ctx, "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty credentials: got %v, want ErrValidation", err)
	}
}

func TestReloginReplacesStoredToken(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "inspector@example.com", "swordfish")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	// Signed-at timestamps have second precision; wait so the second
	// token differs from the first.
	time.Sleep(1100 * time.Millisecond)
	second, err := svc.Login(ctx, "inspector@example.com", "swordfish")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first.Token == second.Token {
		t.Fatal("expected a fresh token on re-login")
	}

	if _, err := svc.VerifyToken(ctx, first.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stale token: got %v, want ErrUnauthorized", err)
	}
	if _, err := svc.VerifyToken(ctx, second.Token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "inspector@example.com", "swordfish")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	rd, err := svc.VerifyToken(ctx, result.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if err := svc.Logout(requestdata.WithRequestData(ctx, rd)); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.VerifyToken(ctx, result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("revoked token: got %v, want ErrUnauthorized", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newAuthFixture(t)
	base := context.Background()

	result, err := svc.Login(base, "inspector@example.com", "swordfish")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	rd, err := svc.VerifyToken(base, result.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	ctx := requestdata.WithRequestData(base, rd)

	if err := svc.ChangePassword(ctx, "swordfish", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("short password: got %v, want ErrValidation", err)
	}
	if err := svc.ChangePassword(ctx, "not-it", "long-enough"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong current password: got %v, want ErrUnauthorized", err)
	}
	if err := svc.ChangePassword(ctx, "swordfish", "long-enough"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(base, "inspector@example.com", "swordfish"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(base, "inspector@example.com", "long-enough"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestListUsersRequiresAdmin(t *testing.T) {
	svc := newAuthFixture(t)
	base := context.Background()

	asRole := func(role string, userID int) context.Context {
		return requestdata.WithRequestData(base, &requestdata.RequestData{UserID: userID, Role: role})
	}

	if _, _, err := svc.ListUsers(asRole(types.RoleUser, 1), filters.Page{Page: 1, Limit: 10}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-admin: got %v, want ErrForbidden", err)
	}

	records, total, err := svc.ListUsers(asRole(types.RoleAdmin, 2), filters.Page{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if total != 2 || len(records) != 2 {
		t.Fatalf("users total=%d len=%d, want 2/2", total, len(records))
	}
	if records[0].Username != "inspector" || records[1].Role != types.RoleAdmin {
		t.Fatalf("records = %+v, %+v", records[0], records[1])
	}
}
