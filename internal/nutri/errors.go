package nutri

import (
	"errors"
	"fmt"
)

// Sentinel errors. Backends wrap ErrNotFound and ErrConflict so the service
// can classify them; the rest are produced by the service itself.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrNotSignedIn         = errors.New("not signed in")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrDuplicateAccount    = errors.New("an account with this email already exists")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrDuplicateSubmission = errors.New("request already submitted")
)

// ErrorKind classifies failures at the service boundary.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuth
	KindStore
	KindStorage
	KindExternalAPI
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindStore:
		return "store"
	case KindStorage:
		return "storage"
	case KindExternalAPI:
		return "external api"
	default:
		return "unknown"
	}
}

// Error is the single error shape returned by NutriService operations.
// Op names the operation ("CreateMeal", "AttachPhoto", ...).
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool { return KindOf(err) == KindAuth }

// IsStoreError reports whether err is a table store failure.
func IsStoreError(err error) bool { return KindOf(err) == KindStore }

// IsStorageError reports whether err is an object storage failure.
func IsStorageError(err error) bool { return KindOf(err) == KindStorage }

// IsExternalAPIError reports whether err came from the recipe service.
func IsExternalAPIError(err error) bool { return KindOf(err) == KindExternalAPI }

func validationErr(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

func authErr(op string, err error) error {
	return &Error{Kind: KindAuth, Op: op, Err: err}
}

func storeErr(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

func storageErr(op string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

func externalErr(op string, err error) error {
	return &Error{Kind: KindExternalAPI, Op: op, Err: err}
}
