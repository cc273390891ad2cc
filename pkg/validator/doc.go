// Package validator wraps go-playground/validator with the rules carrier
// forms need: Spanish government IDs (govid), activation tokens (token),
// passwords (password) and UTF-8 checks (utf8).
//
//	type Signup struct {
//		GovID    string `json:"gov-id" validate:"required,govid"`
//		Password string `json:"password" validate:"required,password"`
//	}
//
//	if err := validator.ValidateStruct(&form); err != nil {
//		if ve := validator.ExtractValidationErrors(err); ve != nil {
//			return ajaxform.NewError(http.StatusBadRequest, ve.Messages()...)
//		}
//		return err
//	}
package validator
