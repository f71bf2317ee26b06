package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type LoginRequest struct {
	Password string `json:"password" validate:"required,max=128"`
}

func ValidateLogin(req LoginRequest) error {
	return validate.Struct(req)
}
