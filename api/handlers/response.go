package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/config"
	"github.com/nyayasankalan/case-api/models"
	"github.com/nyayasankalan/case-api/services"
)

const msgInvalidBody = "Invalid request body"

// validate checks decoded request bodies. Errors name fields by their json tag.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// decodeBody decodes the json body of r into dst and validates it. The
// returned message is safe to send to the client.
func decodeBody(r *http.Request, dst interface{}) (string, error) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return msgInvalidBody, err
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return validationMessage(verrs[0]), err
		}
		return msgInvalidBody, err
	}
	return "", nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// getQueryInt returns the positive integer query parameter key, or 0 so the
// services apply their default
func getQueryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		zap.S().Debugw("ignoring invalid query parameter", "key", key, "value", raw)
		return 0
	}
	return v
}

// respondJSON writes data wrapped in a success envelope
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	b, err := json.Marshal(models.Response{Success: true, Data: data})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// respondError maps err to a status code and writes the error envelope. Errors
// that are not service errors are logged and reported as 500.
func respondError(w http.ResponseWriter, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		config.ErrorStatus("Internal server error", http.StatusInternalServerError, w, err)
		return
	}
	config.ErrorStatus(svcErr.Message, statusFor(svcErr.Kind), w, err)
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindBadRequest:
		return http.StatusBadRequest
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
