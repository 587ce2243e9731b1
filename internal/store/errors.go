package store

import "github.com/01moynul/autoparts-golang/internal/apperrors"

var (
	ErrMakeNotFound          = apperrors.ErrNotFound.New("car make not found")
	ErrModelNotFound         = apperrors.ErrNotFound.New("car model not found")
	ErrYearNotFound          = apperrors.ErrNotFound.New("car year not found")
	ErrBodyTypeNotFound      = apperrors.ErrNotFound.New("car body type not found")
	ErrEngineNotFound        = apperrors.ErrNotFound.New("car engine not found")
	ErrCompatibilityNotFound = apperrors.ErrNotFound.New("compatibility not found")
	ErrProductNotFound       = apperrors.ErrNotFound.New("product not found")
	ErrCategoryNotFound      = apperrors.ErrNotFound.New("category not found")
	ErrManufacturerNotFound  = apperrors.ErrNotFound.New("manufacturer not found")
	ErrUserNotFound          = apperrors.ErrNotFound.New("user not found")
	ErrOrderNotFound         = apperrors.ErrNotFound.New("order not found")
	ErrReviewNotFound        = apperrors.ErrNotFound.New("review not found")
	ErrCartItemNotFound      = apperrors.ErrNotFound.New("product is not in the cart")

	ErrDuplicateName   = apperrors.ErrAlreadyExists.New("name already exists")
	ErrDuplicateEmail  = apperrors.ErrAlreadyExists.New("email already registered")
	ErrDuplicateReview = apperrors.ErrAlreadyExists.New("you have already reviewed this product")

	ErrNotReviewAuthor = apperrors.ErrForbidden.New("you can only delete your own reviews")

	ErrInsufficientStock  = apperrors.ErrInUse.New("insufficient stock")
	ErrEmptyCart          = apperrors.ErrInvalidInput.New("cart is empty")
	ErrInvalidCredentials = apperrors.ErrUnauthorized.New("invalid email or password")
)
