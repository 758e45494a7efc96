package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xydatalabs/orderpay/internal/pkg/env"
)

// Admin is the basic auth credential for /metrics and the ops endpoints.
type Admin struct {
	User     string `validate:"required"`
	Password string `validate:"required,min=8"`
}

func LoadAdmin() (*Admin, error) {
	a := &Admin{
		User:     strings.TrimSpace(env.GetEnv("ADMIN_USER", "admin")),
		Password: env.GetEnv("ADMIN_PASSWORD", ""),
	}
	if err := validator.New().Struct(a); err != nil {
		return nil, fmt.Errorf("admin config: %w", err)
	}
	return a, nil
}

func (a *Admin) Users() map[string]string {
	return map[string]string{a.User: a.Password}
}
