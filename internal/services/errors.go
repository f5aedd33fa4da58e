// Package services defines the business logic for recipe generation,
// pairings, chat, images, social posts, and the upload-and-edit flow.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Provider exhaustion and incomplete extraction surface as the typed errors
// from the provider and extract packages (errors.As against
// *provider.ExhaustedError and *extract.IncompleteError); the values below
// cover the predictable validation cases.
package services

import "errors"

var (
	// ErrRecipeNotFound indicates that the named recipe does not exist in
	// the caller's session.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrReservedName is returned when a caller tries to save a recipe under
	// a name reserved for internal use.
	ErrReservedName = errors.New("recipe name is reserved")

	// ErrEmptySpecification is returned when a generation request carries no
	// specification text.
	ErrEmptySpecification = errors.New("specification is empty")

	// ErrEmptyMessage is returned when a chat turn contains no content.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrUnknownPairingType is returned for pairing types outside the
	// supported set (wine, beer, cocktail).
	ErrUnknownPairingType = errors.New("unknown pairing type")

	// ErrUploadState is returned when an upload-flow transition is requested
	// from a state that does not allow it.
	ErrUploadState = errors.New("invalid upload state for this action")

	// ErrNoUpload is returned when the session has no upload in progress.
	ErrNoUpload = errors.New("no upload in progress")
)
