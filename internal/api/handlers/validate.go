package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sajidalishaik45/coauthor-network/internal/apierr"
)

// maxBodyBytes caps request bodies on the control endpoints.
const maxBodyBytes = 16 << 10

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// decodeAndValidate reads a JSON body into dst and checks its struct tags.
// It returns nil when the request is usable.
func decodeAndValidate(r *http.Request, dst any) *apierr.Error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierr.ValidationInvalidJSON()
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) *apierr.Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apierr.ValidationInvalidValue("body", err.Error())
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return apierr.ValidationMissingField(fe.Field())
	}
	return apierr.ValidationInvalidValue(fe.Field(),
		"Invalid value for field "+fe.Field()+": must satisfy "+fe.Tag()+"="+fe.Param())
}
