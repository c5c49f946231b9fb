// Package services enthält die Fachlogik: Validierung, Publizieren,
// Mechanismus-Updates, Merges und den Metadaten-Refresh.
package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Fehlerklassen, auf die Handler ihre HTTP-Antwort abbilden.
const (
	KindValidation = "validation"
	KindConflict   = "conflict"
	KindPermission = "permission"
	KindNotFound   = "not_found"
	KindExternal   = "external"
)

// DomainError ist ein klassifizierter Fachfehler. Details trägt
// maschinenlesbare Zusatzinfos, z.B. die fehlenden Felder oder den
// StableID eines kollidierenden Records.
type DomainError struct {
	Kind    string         `json:"kind"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implementiert das error-Interface.
func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// HTTPStatus gibt den Status-Code zur Fehlerklasse zurück.
func (e *DomainError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AsDomainError entpackt einen DomainError aus einer Fehlerkette.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

func validationErr(msg string, details map[string]any) *DomainError {
	return &DomainError{Kind: KindValidation, Message: msg, Details: details}
}

func conflictErr(msg string, details map[string]any) *DomainError {
	return &DomainError{Kind: KindConflict, Message: msg, Details: details}
}

func permissionErr(msg string) *DomainError {
	return &DomainError{Kind: KindPermission, Message: msg}
}

func notFoundErr(msg string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: msg}
}

func externalErr(msg string, cause error) *DomainError {
	de := &DomainError{Kind: KindExternal, Message: msg}
	if cause != nil {
		de.Details = map[string]any{"cause": cause.Error()}
	}
	return de
}
