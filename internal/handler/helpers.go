package handler

import (
	"errors"
	"net/http"
	"reflect"

	"batchtrace/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Let validator see decimals as floats so numeric tags work on them.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindAndValidate binds the JSON body into req and runs struct validation,
// writing the 400 response itself on failure.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("malformed request body"))
		return false
	}
	return runValidation(c, req)
}

// bindQueryAndValidate is the query-string counterpart for filter structs.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("malformed query parameters"))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			c.JSON(http.StatusBadRequest, apierror.NewFieldValidation(fields))
			return false
		}
		c.JSON(http.StatusBadRequest, apierror.New("validation error"))
		return false
	}
	return true
}

// pathUUID parses a uuid path parameter, writing the 400 response itself on
// failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(name+" is not a valid uuid"))
		return uuid.Nil, false
	}
	return id, true
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses:
// NotFoundError 404, ValidationError and InvalidTransitionError 400,
// InsufficientStockError 409 carrying both figures. Anything else is a 500
// with the detail suppressed.
func writeDomainError(c *gin.Context, err error) {
	var notFound *apierror.NotFoundError
	var invalid *apierror.ValidationError
	var transition *apierror.InvalidTransitionError
	var stock *apierror.InsufficientStockError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, apierror.New(notFound.Error()))
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, apierror.New(invalid.Error()))
	case errors.As(err, &transition):
		c.JSON(http.StatusBadRequest, apierror.New(transition.Error()))
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, gin.H{
			"detail":    stock.Error(),
			"available": stock.Available,
			"requested": stock.Requested,
		})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
