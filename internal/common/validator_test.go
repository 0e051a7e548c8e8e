package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

type sampleRequest struct {
	ID   int64  `validate:"gt=0"`
	Name string `validate:"required"`
}

func TestGenericEchoValidator(t *testing.T) {
	gv := &GenericEchoValidator{}

	if err := gv.Validate(&sampleRequest{ID: 1, Name: "a"}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	err := gv.Validate(&sampleRequest{ID: 0, Name: "a"})
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", httpErr.Code)
	}
}
