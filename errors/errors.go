/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrStorage is returned when the backend cannot be reached or reports a failure
	ErrStorage = errors.New("storage failure")

	// ErrAuthentication is returned when the backend rejects the configured credentials
	ErrAuthentication = errors.New("authentication failed")

	// ErrUnsupportedCapability is returned when a dialect does not implement a requested capability
	ErrUnsupportedCapability = errors.New("capability not supported by backend")

	// ErrMappingConfiguration is returned when the mapping configuration cannot be resolved
	ErrMappingConfiguration = errors.New("invalid mapping configuration")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// StorageError represents a connectivity or backend-reported failure.
// It is generally retryable at the unit-of-work level.
type StorageError struct {
	Backend   string
	Operation string
	// Status is the backend status code, when the backend reports one
	Status string
	// Reason is the backend-reported reason, when the backend reports one
	Reason string
	Err    error
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("%s: %s failed", e.Backend, e.Operation)
	if e.Status != "" {
		msg += fmt.Sprintf(" (status %s)", e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// AuthenticationError represents rejected credentials. It is not retryable
// without a credential change.
type AuthenticationError struct {
	Backend  string
	Username string
	Err      error
}

func (e *AuthenticationError) Error() string {
	msg := fmt.Sprintf("%s: authentication failed for user %q", e.Backend, e.Username)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// UnsupportedCapabilityError signals a configuration/backend mismatch, not a transient fault
type UnsupportedCapabilityError struct {
	Backend    string
	Capability string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Backend, e.Capability)
}

func (e *UnsupportedCapabilityError) Is(target error) bool {
	return target == ErrUnsupportedCapability
}

// MappingConfigurationError represents an invalid association storage resolution
type MappingConfigurationError struct {
	Entity  string
	Role    string
	Message string
}

func (e *MappingConfigurationError) Error() string {
	switch {
	case e.Entity != "" && e.Role != "":
		return fmt.Sprintf("invalid mapping for %s.%s: %s", e.Entity, e.Role, e.Message)
	case e.Entity != "":
		return fmt.Sprintf("invalid mapping for %s: %s", e.Entity, e.Message)
	default:
		return fmt.Sprintf("invalid mapping: %s", e.Message)
	}
}

func (e *MappingConfigurationError) Is(target error) bool {
	return target == ErrMappingConfiguration
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewStorageError creates a new StorageError wrapping err
func NewStorageError(backend, operation string, err error) error {
	return &StorageError{Backend: backend, Operation: operation, Err: err}
}

// NewStorageStatusError creates a new StorageError carrying a backend status and reason
func NewStorageStatusError(backend, operation, status, reason string) error {
	return &StorageError{Backend: backend, Operation: operation, Status: status, Reason: reason}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(backend, username string, err error) error {
	return &AuthenticationError{Backend: backend, Username: username, Err: err}
}

// NewUnsupportedCapabilityError creates a new UnsupportedCapabilityError
func NewUnsupportedCapabilityError(backend, capability string) error {
	return &UnsupportedCapabilityError{Backend: backend, Capability: capability}
}

// NewMappingConfigurationError creates a new MappingConfigurationError
func NewMappingConfigurationError(entity, role, message string) error {
	return &MappingConfigurationError{Entity: entity, Role: role, Message: message}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsStorageError checks if an error is a storage error
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsUnsupportedCapability checks if an error is an unsupported capability error
func IsUnsupportedCapability(err error) bool {
	return errors.Is(err, ErrUnsupportedCapability)
}

// IsMappingConfigurationError checks if an error is a mapping configuration error
func IsMappingConfigurationError(err error) bool {
	return errors.Is(err, ErrMappingConfiguration)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
