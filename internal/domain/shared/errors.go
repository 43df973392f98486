package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Facility errors

type FacilityError struct {
	*DomainError
	BuildingID string
}

func NewFacilityError(buildingID, message string) *FacilityError {
	return &FacilityError{
		DomainError: &DomainError{Message: fmt.Sprintf("building %s: %s", buildingID, message)},
		BuildingID:  buildingID,
	}
}

type MissingFunctionError struct {
	*FacilityError
	Function string
}

func NewMissingFunctionError(buildingID, function string) *MissingFunctionError {
	return &MissingFunctionError{
		FacilityError: NewFacilityError(buildingID, fmt.Sprintf("no %s function", function)),
		Function:      function,
	}
}

type InsufficientResourceError struct {
	*DomainError
	Resource  string
	Required  float64
	Available float64
}

func NewInsufficientResourceError(resource string, required, available float64) *InsufficientResourceError {
	return &InsufficientResourceError{
		DomainError: NewDomainError(fmt.Sprintf("insufficient %s: need %.3f, have %.3f", resource, required, available)),
		Resource:    resource,
		Required:    required,
		Available:   available,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
