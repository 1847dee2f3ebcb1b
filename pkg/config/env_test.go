package config

import (
	"testing"
)

func TestGetEnvironment(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "defaults to development", value: "", want: EnvDevelopment},
		{name: "production", value: "production", want: EnvProduction},
		{name: "normalizes case", value: "PRODUCTION", want: EnvProduction},
		{name: "staging", value: "staging", want: EnvStaging},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PHARMATRACK_SERVER_ENVIRONMENT", tt.value)
			if got := GetEnvironment(); got != tt.want {
				t.Errorf("GetEnvironment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvironmentPredicates(t *testing.T) {
	t.Setenv("PHARMATRACK_SERVER_ENVIRONMENT", "development")
	if !IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if IsProduction() {
		t.Error("IsProduction() = true, want false")
	}

	t.Setenv("PHARMATRACK_SERVER_ENVIRONMENT", "production")
	if IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if !IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PHARMATRACK_TEST_KEY", "value")
	if got := GetEnv("PHARMATRACK_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("GetEnv() = %v, want value", got)
	}
	if got := GetEnv("PHARMATRACK_UNSET_KEY", "fallback"); got != "fallback" {
		t.Errorf("GetEnv() = %v, want fallback", got)
	}
}
