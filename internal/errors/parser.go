package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a code plus a caller-safe message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts persistence errors into an ErrorInfo without leaking
// driver text. context names the resource being handled ("order", "cart item").
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicateKeyInfo(err.Error())
	}

	errLower := strings.ToLower(err.Error())

	// postgres 23505 when TranslateError is off
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return duplicateKeyInfo(err.Error())
	}

	// postgres 23503
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceNotFound, Message: "Referenced resource does not exist"}
	}

	// postgres 23502
	if strings.Contains(errLower, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errLower, "connection refused") || strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: InternalDatabaseError, Message: "Database is unavailable, please retry later"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
}

func duplicateKeyInfo(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email already registered"}
	case strings.Contains(errLower, "wishlist"):
		return ErrorInfo{Code: WishlistAlreadyAdded, Message: "Product already in wishlist"}
	case strings.Contains(errLower, "order_number"):
		return ErrorInfo{Code: ResourceConflict, Message: "Order number conflict, please retry"}
	}

	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Resource already exists"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "cart item"):
		return "Cart item not found"
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "wishlist"):
		return "Wishlist item not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}

	return "Resource not found"
}

// ParseAndRespond parses err and writes it with statusCode.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
