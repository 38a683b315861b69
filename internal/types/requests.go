//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// SearchRequest is the /jobs request body.
type SearchRequest struct {
	Skills []string `json:"skills" validate:"required,min=1,dive,required"`
}

// DetailsRequest is the /job_details request body.
type DetailsRequest struct {
	JobIDs     []JobID  `json:"job_ids" validate:"required,min=1,dive,required"`
	UserSkills []string `json:"user_skills"`
}

// Validate validates the SearchRequest using the validator.
func (r *SearchRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the DetailsRequest using the validator.
func (r *DetailsRequest) Validate() error {
	return validate.Struct(r)
}
