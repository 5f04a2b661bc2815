package auth

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAuthority_IssueVerify_RoundTrip(t *testing.T) {
	req := require.New(t)
	authority := NewAuthority("test-secret", time.Hour)
	identity := domain.Identity{UserID: "alice-id", Username: "alice", Role: domain.RoleAdmin}

	token, err := authority.Issue(identity)
	req.NoError(err)
	req.NotEmpty(token)

	verified, err := authority.Verify(context.Background(), token)
	req.NoError(err)
	req.Equal(identity, verified)
}

func TestAuthority_Verify_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	authority := NewAuthority("test-secret", -time.Minute)

	token, err := authority.Issue(domain.Identity{UserID: "alice-id", Username: "alice"})
	req.NoError(err)

	_, err = authority.Verify(context.Background(), token)

	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestAuthority_Verify_RejectsForeignSecret(t *testing.T) {
	req := require.New(t)
	issuer := NewAuthority("secret-a", time.Hour)
	verifier := NewAuthority("secret-b", time.Hour)

	token, err := issuer.Issue(domain.Identity{UserID: "alice-id", Username: "alice"})
	req.NoError(err)

	_, err = verifier.Verify(context.Background(), token)

	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestAuthority_Verify_RejectsGarbage(t *testing.T) {
	req := require.New(t)
	authority := NewAuthority("test-secret", time.Hour)

	_, err := authority.Verify(context.Background(), "not-a-jwt")

	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestAuthority_Verify_HonorsContextCancellation(t *testing.T) {
	req := require.New(t)
	authority := NewAuthority("test-secret", time.Hour)

	token, err := authority.Issue(domain.Identity{UserID: "alice-id", Username: "alice"})
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = authority.Verify(ctx, token)

	req.ErrorIs(err, context.Canceled)
}

func TestHashPassword_ComparePassword(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("Sup3r-Secret-Pass!")
	req.NoError(err)
	req.Contains(hash, "$argon2id$")

	match, err := ComparePassword("Sup3r-Secret-Pass!", hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("wrong-password", hash)
	req.NoError(err)
	req.False(match)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	req := require.New(t)

	hash1, err := HashPassword("Sup3r-Secret-Pass!")
	req.NoError(err)
	hash2, err := HashPassword("Sup3r-Secret-Pass!")
	req.NoError(err)

	req.NotEqual(hash1, hash2)
}

func TestComparePassword_RejectsMalformedHash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("whatever", "not-an-argon2-hash")

	req.Error(err)
}

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		valid    bool
	}{
		{"valid", "alice", "Sup3r-Secret-Pass!", true},
		{"username too short", "al", "Sup3r-Secret-Pass!", false},
		{"username not alphanumeric", "alice!", "Sup3r-Secret-Pass!", false},
		{"password too short", "alice", "Sh0rt!", false},
		{"password missing uppercase", "alice", "sup3r-secret-pass!", false},
		{"password missing digit", "alice", "Super-Secret-Pass!", false},
		{"password missing special", "alice", "Sup3rSecretPass1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSignup(SignupRequest{Username: tc.username, Password: tc.password})
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
