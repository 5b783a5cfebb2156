package server

import (
	"errors"
	"net/http"
	"strings"

	cashcutdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/cashcut/domain"
	deliverydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/delivery/domain"
	inventorydomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/inventory/domain"
	pricingdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/pricing/domain"
	resellerdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/reseller/domain"
	stockdomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/stock/domain"
	tickettypedomain "github.com/MiguelAngelCruzVargas/inventario-fichas/internal/tickettype/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(err, code),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isUnprocessableError(err):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "unprocessable",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	var soldRange *inventorydomain.SoldRangeError
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, tickettypedomain.ErrInvalidName),
		errors.Is(err, tickettypedomain.ErrInvalidDuration),
		errors.Is(err, tickettypedomain.ErrInvalidPrice),
		errors.Is(err, tickettypedomain.ErrInvalidID),
		errors.Is(err, resellerdomain.ErrInvalidBusinessName),
		errors.Is(err, resellerdomain.ErrInvalidCommission),
		errors.Is(err, resellerdomain.ErrInvalidID),
		errors.Is(err, stockdomain.ErrInvalidQuantity),
		errors.Is(err, stockdomain.ErrQuantityTooLarge),
		errors.Is(err, stockdomain.ErrInvalidTicketType),
		errors.Is(err, deliverydomain.ErrInvalidQuantity),
		errors.Is(err, deliverydomain.ErrInvalidID),
		errors.Is(err, inventorydomain.ErrInvalidField),
		errors.Is(err, inventorydomain.ErrInvalidDelta),
		errors.Is(err, inventorydomain.ErrDeltaTooLarge),
		errors.Is(err, inventorydomain.ErrInvalidID),
		errors.Is(err, pricingdomain.ErrInvalidPrice),
		errors.Is(err, pricingdomain.ErrInvalidPercent),
		errors.Is(err, pricingdomain.ErrInvalidID),
		errors.Is(err, cashcutdomain.ErrInvalidID),
		errors.Is(err, cashcutdomain.ErrInvalidCutDate),
		errors.Is(err, cashcutdomain.ErrLineOutOfRange),
		errors.Is(err, cashcutdomain.ErrDuplicateLine),
		errors.Is(err, cashcutdomain.ErrTooManyLines):
		return true
	case errors.As(err, &soldRange):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	var insufficient *deliverydomain.InsufficientStockError
	var stale *cashcutdomain.StaleInventoryError
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, tickettypedomain.ErrNameTaken),
		errors.Is(err, tickettypedomain.ErrInUse),
		errors.Is(err, tickettypedomain.ErrHasHistory),
		errors.Is(err, inventorydomain.ErrInvariantViolation),
		errors.Is(err, deliverydomain.ErrResellerInactive),
		errors.Is(err, pricingdomain.ErrVersionConflict),
		errors.Is(err, cashcutdomain.ErrCommitBusy):
		return true
	case errors.As(err, &insufficient), errors.As(err, &stale):
		return true
	default:
		return false
	}
}

func isUnprocessableError(err error) bool {
	return errors.Is(err, cashcutdomain.ErrEmptyCut) ||
		errors.Is(err, cashcutdomain.ErrUnpriceableType)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, tickettypedomain.ErrNotFound),
		errors.Is(err, resellerdomain.ErrNotFound),
		errors.Is(err, stockdomain.ErrNotFound),
		errors.Is(err, deliverydomain.ErrUnknownReseller),
		errors.Is(err, inventorydomain.ErrNotFound),
		errors.Is(err, pricingdomain.ErrNotFound),
		errors.Is(err, cashcutdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	var insufficient *deliverydomain.InsufficientStockError
	var stale *cashcutdomain.StaleInventoryError
	if errors.As(err, &insufficient) {
		return insufficient.Error()
	}
	if errors.As(err, &stale) {
		return stale.Error()
	}
	return err.Error()
}

func validationErrorCode(err error) string {
	var soldRange *inventorydomain.SoldRangeError
	if errors.As(err, &soldRange) {
		return "sold_count_out_of_range"
	}
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == "sold_count_out_of_range" {
		return "sold_count"
	}
	return ""
}

func validationErrorMessage(err error, code string) string {
	var soldRange *inventorydomain.SoldRangeError
	if errors.As(err, &soldRange) {
		return soldRange.Error()
	}
	if code == "invalid_request" {
		return "invalid request"
	}
	return "invalid value"
}

// classifyErrorForLog feeds the request logger with a coarse error type
// and the domain code, without leaking internals into the log stream.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal", payload.Type
	case status == http.StatusConflict:
		return "conflict", conflictCode(err)
	case status == http.StatusNotFound:
		return "not_found", "not_found"
	default:
		return "client", payload.Type
	}
}

func conflictCode(err error) string {
	var insufficient *deliverydomain.InsufficientStockError
	var stale *cashcutdomain.StaleInventoryError
	if errors.As(err, &insufficient) {
		return "insufficient_stock"
	}
	if errors.As(err, &stale) {
		return "stale_inventory"
	}
	return err.Error()
}
