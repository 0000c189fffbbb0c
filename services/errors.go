package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/AveGamers/HolySMP-Website/providers"
)

// ValidationError reports malformed caller input. It is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Step names a stage of basket assembly.
type Step string

const (
	StepCreateBasket Step = "create_basket"
	StepAddPackage   Step = "add_package"
	StepFetchBasket  Step = "fetch_basket"
)

// WorkflowError is a gateway failure that aborted basket assembly.
// Index and PackageID are only meaningful for StepAddPackage.
type WorkflowError struct {
	Step        Step
	Index       int
	PackageID   int
	BasketIdent string
	Err         error
}

func (e *WorkflowError) Error() string {
	if e.Step == StepAddPackage {
		return fmt.Sprintf("basket %s: %s #%d (package %d): %v", e.BasketIdent, e.Step, e.Index, e.PackageID, e.Err)
	}
	if e.BasketIdent != "" {
		return fmt.Sprintf("basket %s: %s: %v", e.BasketIdent, e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *WorkflowError) Unwrap() error { return e.Err }

// StatusCode maps any error of this package or the provider to an HTTP status.
func StatusCode(err error) int {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	var gwErr *providers.GatewayError
	if errors.As(err, &gwErr) && gwErr.HasStatus() {
		return gwErr.StatusCode
	}
	return http.StatusInternalServerError
}
