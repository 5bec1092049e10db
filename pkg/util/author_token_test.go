package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-author-tokens"

func TestGenerateAuthorToken(t *testing.T) {
	tests := []struct {
		name     string
		authorID string
		author   string
		secret   string
		wantErr  bool
	}{
		{
			name:   "Fresh author id",
			author: "SenpaiSlayer42",
			secret: testSecret,
		},
		{
			name:     "Existing author id",
			authorID: "3f0c8d4e-1111-2222-3333-444455556666",
			author:   "WaifuCritic",
			secret:   testSecret,
		},
		{
			name:    "Empty secret",
			author:  "x",
			secret:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateAuthorToken(tt.authorID, tt.author, tt.secret, time.Hour)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token.Token)
			assert.NotEmpty(t, token.AuthorID)
			if tt.authorID != "" {
				assert.Equal(t, tt.authorID, token.AuthorID)
			}
			assert.Equal(t, tt.author, token.Name)
		})
	}
}

func TestValidateAuthorToken(t *testing.T) {
	token, err := GenerateAuthorToken("", "NekoLord", testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid token", token: token.Token, secret: testSecret},
		{name: "Invalid secret", token: token.Token, secret: "wrong-secret", wantErr: ErrInvalidToken},
		{name: "Invalid token format", token: "invalid.token.format", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty token", token: "", secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateAuthorToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, token.AuthorID, claims.AuthorID())
			assert.Equal(t, "NekoLord", claims.Name)
		})
	}
}

func TestExpiredAuthorToken(t *testing.T) {
	token, err := GenerateAuthorToken("", "Baka", testSecret, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateAuthorToken(token.Token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
