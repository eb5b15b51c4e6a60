package api

import (
	"errors"   // Error inspection
	"net/http" // Request inspection
	"reflect"  // Struct tag lookup
	"strings"  // String manipulation

	"github.com/gin-gonic/gin"                                       // Gin web framework
	"github.com/gin-gonic/gin/binding"                               // Validator engine access
	"github.com/go-playground/validator/v10"                         // Validation errors
	"github.com/go-playground/validator/v10/non-standard/validators" // notblank
	"github.com/google/uuid"                                         // Identifiers
)

// ErrorResponse is the body of every failed application request
type ErrorResponse struct {
	Errors []string `json:"errors"` // Human readable messages
}

// MessageResponse is the body of a successful request that returns no entity
type MessageResponse struct {
	Message string `json:"message"`
}

func init() {
	// Register custom validation rules and report json field names in messages
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	}
}

// respondError writes status with the given messages
func respondError(c *gin.Context, status int, messages ...string) {
	c.JSON(status, ErrorResponse{Errors: messages})
}

// respondBindingError turns a gin binding failure into a 400 with one message per field
func respondBindingError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	messages := make([]string, 0, len(ve))
	for _, fe := range ve {
		messages = append(messages, fieldMessage(fe))
	}
	respondError(c, http.StatusBadRequest, messages...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "uuid":
		return fe.Field() + " must be a valid identifier"
	case "url":
		return fe.Field() + " must be a valid URL"
	default:
		return fe.Field() + " is invalid"
	}
}

// parseIDParam reads a non-nil UUID path parameter
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// baseURL is the scheme and host the current request was addressed to
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	} else if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// locationOf builds the URL of a newly created child resource of the current path
func locationOf(c *gin.Context, id uuid.UUID) string {
	return strings.TrimSuffix(c.Request.URL.Path, "/") + "/" + id.String()
}
