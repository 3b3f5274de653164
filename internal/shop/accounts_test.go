package shop

import (
	"errors"
	"testing"
	"time"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSignup(t *testing.T) {
	svc, _ := newTestService(t)

	account, err := svc.Signup(ctx, SignupInput{Username: "player_one", Email: "Player@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, "player@example.com", account.Email)
	assert.Equal(t, domain.RoleUser, account.Role)
	assert.True(t, account.WalletBalance.IsZero())
	assert.NotEqual(t, "password123", account.PasswordHash)

	_, err = svc.Signup(ctx, SignupInput{Username: "player_one", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Signup(ctx, SignupInput{Username: "player_two", Email: "player@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupLosingRaceNamesClashingField(t *testing.T) {
	cases := []struct {
		name      string
		rival     string
		rivalMail string
		want      error
	}{
		{"email", "rival", "late@example.com", ErrEmailTaken},
		{"username", "late", "rival@example.com", ErrUsernameTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, gdb := newTestService(t)
			// The rival row appears after the availability checks have passed
			require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:rival_signup", func(tx *gorm.DB) {
				if tx.Statement.Table != "account" {
					return
				}
				now := time.Now().UTC()
				err := tx.Session(&gorm.Session{NewDB: true}).Exec(
					"INSERT INTO account (id, username, email, password_hash, role, wallet_balance, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
					uuid.NewString(), tc.rival, tc.rivalMail, "x", domain.RoleUser, 0, now, now,
				).Error
				if err != nil {
					_ = tx.AddError(err)
				}
			}))

			_, err := svc.Signup(ctx, SignupInput{Username: "late", Email: "late@example.com", Password: "password123"})
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDuplicateOn(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errors.New("Error 1062 (23000): Duplicate entry 'a@b.co' for key 'account.idx_account_email'"), true},
		{errors.New("Error 1062 (23000): Duplicate entry 'email_fan' for key 'account.idx_account_username'"), false},
		{errors.New("constraint failed: UNIQUE constraint failed: account.email (2067)"), true},
		{errors.New("constraint failed: UNIQUE constraint failed: account.username (2067)"), false},
		{errors.New("dial tcp: connection refused email"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, duplicateOn(tc.err, "email"), tc.err.Error())
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		in   SignupInput
		want error
	}{
		{"short username", SignupInput{Username: "ab", Email: "a@example.com", Password: "password123"}, ErrInvalidUsername},
		{"bad email", SignupInput{Username: "abc", Email: "nope", Password: "password123"}, ErrInvalidEmail},
		{"short password", SignupInput{Username: "abc", Email: "a@example.com", Password: "short"}, ErrInvalidPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Signup(ctx, SignupInput{Username: "gamer", Email: "gamer@example.com", Password: "password123"})
	require.NoError(t, err)

	byName, err := svc.Authenticate(ctx, "gamer", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := svc.Authenticate(ctx, "GAMER@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = svc.Authenticate(ctx, "gamer", "wrong-password")
	requireKind(t, err, KindUnauthorized)
	assert.Equal(t, "ชื่อผู้ใช้งานหรือรหัสผ่านไม่ถูกต้อง", err.Error())

	_, err = svc.Authenticate(ctx, "missing@example.com", "password123")
	requireKind(t, err, KindUnauthorized)
	assert.Equal(t, "อีเมลหรือรหัสผ่านไม่ถูกต้อง", err.Error())
}

func TestCheckAvailability(t *testing.T) {
	svc, gdb := newTestService(t)
	createAccount(t, gdb, "taken", "0")

	free, err := svc.CheckAvailability(ctx, "username", "taken")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.CheckAvailability(ctx, "email", "FREE@example.com")
	require.NoError(t, err)
	assert.True(t, free)

	_, err = svc.CheckAvailability(ctx, "phone", "123")
	assert.ErrorIs(t, err, ErrInvalidCheckType)
}

func TestUpdateProfile(t *testing.T) {
	svc, gdb := newTestService(t)
	old := "/image/old.png"
	a := createAccount(t, gdb, "alice", "0")
	require.NoError(t, gdb.Model(&a).Update("profile_image", old).Error)
	createAccount(t, gdb, "bob", "0")

	taken := "bob"
	_, _, err := svc.UpdateProfile(ctx, a.ID, ProfileInput{Username: &taken})
	requireKind(t, err, KindConflict)

	name, image, password := "alice2", "/image/new.png", "newpassword1"
	updated, replaced, err := svc.UpdateProfile(ctx, a.ID, ProfileInput{Username: &name, ProfileImage: &image, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, image, *updated.ProfileImage)
	assert.Equal(t, old, replaced)

	_, err = svc.Authenticate(ctx, "alice2", "newpassword1")
	assert.NoError(t, err)

	_, _, err = svc.UpdateProfile(ctx, uuid.New(), ProfileInput{})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestListCustomers(t *testing.T) {
	svc, gdb := newTestService(t)
	createAccount(t, gdb, "zed", "0")
	b := createAccount(t, gdb, "amy", "0")
	admin := createAccount(t, gdb, "root", "0")
	require.NoError(t, gdb.Model(&admin).Update("role", domain.RoleAdmin).Error)
	_, err := svc.Topup(ctx, b.ID, dec("50"))
	require.NoError(t, err)

	customers, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "amy", customers[0].Username)
	assert.Equal(t, "zed", customers[1].Username)
	require.Len(t, customers[0].TransactionHistories, 1)
	assert.Empty(t, customers[1].TransactionHistories)
}
