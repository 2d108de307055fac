package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/legal-sheba/legal-sheba-api/middleware"
	"github.com/legal-sheba/legal-sheba-api/models"
	"github.com/legal-sheba/legal-sheba-api/services"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags and reports field
// names by their JSON key. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		if err := v.RegisterValidation("role", validateRole); err != nil {
			slog.Error("failed to register role validator", "error", err)
		}
	})
}

func validateRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

// statusFor maps a service error kind to its HTTP status.
// Conflicts are reported as 400.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindBadRequest, services.KindConflict:
		return http.StatusBadRequest
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message","code"}. Errors that are not domain
// errors are logged and hidden behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		c.JSON(statusFor(svcErr.Kind), gin.H{
			"message": svcErr.Message,
			"code":    svcErr.Code,
		})
		return
	}

	_ = c.Error(err)
	slog.Error(fallback,
		"error", err,
		"path", c.Request.URL.Path,
		"request_id", middleware.GetRequestID(c),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": fallback,
		"code":    "DATABASE_ERROR",
	})
}

// respondBindError reports a malformed or invalid request body
func respondBindError(c *gin.Context, err error) {
	message := "Invalid request data"

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fe.Field())
		case "role":
			message = "role must be Client or Lawyer"
		default:
			message = fmt.Sprintf("%s is invalid", fe.Field())
		}
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"message": message,
		"code":    "VALIDATION_ERROR",
	})
}

// principal returns the caller set by the authorization gate
func principal(c *gin.Context) (models.Principal, bool) {
	p, err := middleware.GetPrincipal(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": services.ErrTokenInvalid.Message,
			"code":    services.ErrTokenInvalid.Code,
		})
		return models.Principal{}, false
	}
	return p, true
}

// idParam parses a numeric path parameter. Anything else is answered with
// notFound, since no such entity can exist.
func idParam(c *gin.Context, name string, notFound *services.Error) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, notFound, "")
		return 0, false
	}
	return uint(id), true
}
