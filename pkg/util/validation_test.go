package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"first.last@sub.example.org", true},
		{"user@example.c", false},
		{"user@example", false},
		{"userexample.com", false},
		{"user @example.com", false},
		{"user@@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abc123", true},
		{"LongerPassw0rd", true},
		{"Ab12", false},
		{"abc123", false},
		{"ABC123", false},
		{"Abcdef", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}
