package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "Valid password", password: "Abc123"},
		{name: "Empty password", password: ""}, // bcrypt can hash empty strings
		{name: "Long password", password: "this-is-a-long-Password-1-with-special-chars!@#$%^&*()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.Contains(t, hash, "$2a$10$")
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "MySecure123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	tests := []struct {
		name           string
		hashedPassword string
		password       string
		want           bool
	}{
		{name: "Correct password", hashedPassword: hash, password: password, want: true},
		{name: "Incorrect password", hashedPassword: hash, password: "WrongPassword1", want: false},
		{name: "Changed case", hashedPassword: hash, password: "mysecure123", want: false},
		{name: "Trailing character", hashedPassword: hash, password: password + " ", want: false},
		{name: "Empty password", hashedPassword: hash, password: "", want: false},
		{name: "Invalid hash", hashedPassword: "invalid-hash", password: password, want: false},
		{name: "Empty hash", hashedPassword: "", password: password, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.hashedPassword, tt.password))
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	password := "TestPassword1"

	hash1, err := HashPassword(password)
	require.NoError(t, err)
	hash2, err := HashPassword(password)
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.True(t, VerifyPassword(hash1, password))
	assert.True(t, VerifyPassword(hash2, password))
}
