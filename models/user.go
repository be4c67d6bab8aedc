package models

import (
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/leebenson/conform"
)

// User represents a user of the application. Users are created on first
// sight of an external identity and never deleted in-band.
type User struct {
	Model
	Email         string         `json:"email" gorm:"unique;not null" binding:"required,email"`
	Name          string         `json:"name"`
	Notifications []Notification `json:"-" gorm:"foreignKey:UserID"`
}

// Blacklist holds revoked access tokens so logout invalidates a session
// before its expiry.
type Blacklist struct {
	Model
	Token string `json:"token" gorm:"index"`
}

// SessionRequest is the contract with the external identity provider: it
// hands the core an email and display name after its own auth ceremony.
type SessionRequest struct {
	Email string `json:"email" binding:"required,email" conform:"trim,lower"`
	Name  string `json:"name" conform:"trim"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SessionResponse struct {
	UserResponse
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ValidateStruct conforms the request in place, then validates it and
// returns the failures as translated, human-readable errors.
func ValidateStruct(req interface{}) []error {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	if err := validateWhiteSpaces(req); err != nil {
		return []error{err}
	}
	return translateError(validate.Struct(req), trans)
}

func validateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}
