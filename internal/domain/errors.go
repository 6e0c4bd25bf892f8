// Package domain holds the error taxonomy shared by the booking core and its adapters.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// InvalidTransitionError rejects an action that the booking's current status does not allow.
type InvalidTransitionError struct {
	From   string
	Action string
}

func (e InvalidTransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("invalid transition: unknown action %q", e.Action)
	}
	return fmt.Sprintf("invalid transition: action %q is not allowed from status %q", e.Action, e.From)
}

type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource != "" && e.ID != "":
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	case e.Resource != "":
		return fmt.Sprintf("%s not found", e.Resource)
	default:
		return "not found"
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError carries field -> message pairs.
type ValidationError struct {
	Fields map[string]string
	Msg    string
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Msg == "" {
			return "validation failed"
		}
		return "validation failed: " + e.Msg
	}

	parts := make([]string, 0, len(e.Fields))
	for _, field := range sortedKeys(e.Fields) {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) ValidationError {
	return ValidationError{Fields: map[string]string{field: msg}}
}

// SideEffect names an external call made after a status write.
type SideEffect string

const (
	SideEffectCalendar     SideEffect = "calendar"
	SideEffectNotification SideEffect = "notification"
)

// SideEffectError reports a calendar or notification failure. It never undoes the
// status write that preceded it.
type SideEffectError struct {
	Effect SideEffect
	Detail string
	Err    error
}

func (e SideEffectError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Effect, e.Detail, e.Err)
}

func (e SideEffectError) Unwrap() error { return e.Err }

func IsInvalidTransition(err error) bool {
	var target InvalidTransitionError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsSideEffect(err error) bool {
	var target SideEffectError
	return errors.As(err, &target)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
