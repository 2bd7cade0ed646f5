// Package apperrors defines the error taxonomy shared by the service and
// handler layers. Handlers match these with errors.As and map them to HTTP
// status codes; anything else is treated as an internal error.
package apperrors

import "errors"

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// InvalidArgumentError means malformed or out-of-range input, including
// enum codes that resolve to nothing.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

// DuplicateActionError means a uniqueness constraint was violated: a second
// click or report from the same user, or a taken signup field.
type DuplicateActionError struct {
	Message string
}

func (e *DuplicateActionError) Error() string { return e.Message }

// HiddenPostError means the operation is blocked because the post is
// hidden. Distinct from NotFoundError: the post exists.
type HiddenPostError struct {
	Message string
}

func (e *HiddenPostError) Error() string { return e.Message }

// InvalidTokenError means a token failed signature, expiry, structure or
// type-claim checks.
type InvalidTokenError struct {
	Message string
}

func (e *InvalidTokenError) Error() string { return e.Message }

// ForbiddenError means the caller is authenticated but not allowed to
// perform the operation, e.g. hiding someone else's post.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func IsNotFound(err error) bool {
	var t *NotFoundError
	return errors.As(err, &t)
}

func IsInvalidArgument(err error) bool {
	var t *InvalidArgumentError
	return errors.As(err, &t)
}

func IsDuplicateAction(err error) bool {
	var t *DuplicateActionError
	return errors.As(err, &t)
}

func IsHiddenPost(err error) bool {
	var t *HiddenPostError
	return errors.As(err, &t)
}

func IsInvalidToken(err error) bool {
	var t *InvalidTokenError
	return errors.As(err, &t)
}

func IsForbidden(err error) bool {
	var t *ForbiddenError
	return errors.As(err, &t)
}
