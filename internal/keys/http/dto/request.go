// Package dto provides data transfer objects for the credential store API.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/xchat/internal/validation"
)

// StoreAPIKeyRequest contains the parameters for storing a credential.
type StoreAPIKeyRequest struct {
	UserIdentifier string `json:"userIdentifier"`
	APIKey         string `json:"apiKey"`
}

// Validate checks if the store request is valid.
// The credential gets a minimal shape check only (trimmed, at least 10
// characters); the upstream API is the authority on whether it works.
func (r *StoreAPIKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserIdentifier,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.APIKey,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(10, 0),
		),
	)
}
