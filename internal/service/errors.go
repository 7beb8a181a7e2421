// Package service holds the inventory business rules on top of the store.
package service

import (
	"errors"
	"fmt"

	"inventory-service/internal/validation"
)

// Kind classifies a service failure. The HTTP layer maps each kind to one status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInvalidReference
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidReference:
		return "invalid_reference"
	default:
		return "internal"
	}
}

// Client-facing messages.
const (
	MsgValidationFailed      = "Validation failed"
	MsgCategoryNotFound      = "Category not found"
	MsgCategoryNameExists    = "Category name already exists"
	MsgCategoryHasProducts   = "Cannot delete category with active products"
	MsgProductNotFound       = "Product not found"
	MsgInvalidCategoryID     = "Invalid category ID"
	MsgFetchCategoriesFailed = "Failed to fetch categories"
	MsgFetchCategoryFailed   = "Failed to fetch category"
	MsgCreateCategoryFailed  = "Failed to create category"
	MsgUpdateCategoryFailed  = "Failed to update category"
	MsgDeleteCategoryFailed  = "Failed to delete category"
	MsgFetchProductsFailed   = "Failed to fetch products"
	MsgFetchProductFailed    = "Failed to fetch product"
	MsgCreateProductFailed   = "Failed to create product"
	MsgUpdateProductFailed   = "Failed to update product"
	MsgDeleteProductFailed   = "Failed to delete product"
)

// Error is the error type returned by every service operation.
// Message is safe to show to clients; Detail is an optional client-facing
// explanation; Err is the underlying cause and is never shown verbatim in production.
type Error struct {
	Kind       Kind
	Message    string
	Detail     string
	Violations validation.Violations
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError wraps field violations.
func ValidationError(v validation.Violations) *Error {
	return &Error{Kind: KindValidation, Message: MsgValidationFailed, Violations: v, Err: v}
}

func notFound(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

func conflict(msg, detail string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Detail: detail, Err: err}
}

func invalidReference(err error) *Error {
	return &Error{Kind: KindInvalidReference, Message: MsgInvalidCategoryID, Err: err}
}

func internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
