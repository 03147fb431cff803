package config

import "testing"

func validProdConfig() *Config {
	return &Config{
		Port:           "8476",
		JWTSecret:      "a-long-production-secret-with-32-plus-chars",
		DBPassword:     "s3cure-db-password",
		FileManagerURL: "https://files.example.com",
		Env:            "production",
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid production config", func(t *testing.T) {
		if err := validProdConfig().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := validProdConfig()
		cfg.Port = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing port")
		}
	})

	t.Run("default jwt secret rejected in production", func(t *testing.T) {
		cfg := validProdConfig()
		cfg.JWTSecret = "your-secret-key-change-in-production"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for default secret")
		}
	})

	t.Run("short jwt secret rejected in production", func(t *testing.T) {
		cfg := validProdConfig()
		cfg.JWTSecret = "short"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for short secret")
		}
	})

	t.Run("weak db password rejected in production", func(t *testing.T) {
		cfg := validProdConfig()
		cfg.DBPassword = "password"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for weak db password")
		}
	})

	t.Run("file manager required in production", func(t *testing.T) {
		cfg := validProdConfig()
		cfg.FileManagerURL = ""
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for missing file manager URL")
		}
	})

	t.Run("development tolerates defaults", func(t *testing.T) {
		cfg := &Config{
			Port:      "8476",
			JWTSecret: "dev-secret",
			Env:       "development",
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestIsProduction(t *testing.T) {
	for env, want := range map[string]bool{
		"production":  true,
		"prod":        true,
		"development": false,
		"test":        false,
		"":            false,
	} {
		cfg := &Config{Env: env}
		if got := cfg.IsProduction(); got != want {
			t.Errorf("IsProduction(%q) = %v, want %v", env, got, want)
		}
	}
}
