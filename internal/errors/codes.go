package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to localized text.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthWeakPassword       = "AUTH_WEAK_PASSWORD"
	AuthIncorrectPassword  = "AUTH_INCORRECT_PASSWORD"
	AuthAccountInactive    = "AUTH_ACCOUNT_INACTIVE"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== PRODUCT_ ====================
	ProductNotFound      = "PRODUCT_NOT_FOUND"
	ProductSizeNotFound  = "PRODUCT_SIZE_NOT_FOUND"
	ProductColorNotFound = "PRODUCT_COLOR_NOT_FOUND"

	// ==================== CART_ ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartOutOfStock   = "CART_OUT_OF_STOCK"
	CartEmpty        = "CART_EMPTY"

	// ==================== ORDER_ ====================
	OrderNotFound     = "ORDER_NOT_FOUND"
	OrderNoValidItems = "ORDER_NO_VALID_ITEMS"

	// ==================== WISHLIST_ ====================
	WishlistItemNotFound = "WISHLIST_ITEM_NOT_FOUND"
	WishlistAlreadyAdded = "WISHLIST_ALREADY_ADDED"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
