package main

import (
	"testing"

	"github.com/Amar9nani/Stock-inventory-management/internal/config"
)

func securityConfig(secret string, username string, password string) Config {
	return Config{
		Auth:  config.Auth{Secret: secret},
		Admin: config.Admin{Username: username, Password: password},
	}
}

func TestValidateSecurityConfigRejectsWeakValues(t *testing.T) {
	strongSecret := "0123456789abcdef0123456789abcdef"

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "short secret", cfg: securityConfig("short", "admin", "Tr0ub4dor&3")},
		{name: "short password", cfg: securityConfig(strongSecret, "admin", "abc")},
		{name: "common password", cfg: securityConfig(strongSecret, "admin", "Password1")},
		{name: "repeated character", cfg: securityConfig(strongSecret, "admin", "zzzzzzzzzz")},
		{name: "password equals username", cfg: securityConfig(strongSecret, "storekeeper", "StoreKeeper")},
		{name: "blank username", cfg: securityConfig(strongSecret, "  ", "Tr0ub4dor&3")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateSecurityConfig(tt.cfg); err == nil {
				t.Fatalf("expected weak security config to be rejected")
			}
		})
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(securityConfig("0123456789abcdef0123456789abcdef", "admin", "Tr0ub4dor&3"))
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}
