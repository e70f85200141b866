package http

import (
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	headerSessionID      = "X-Session-ID"
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromString(id.String())
}

func pathString(c echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

func sessionID(c echo.Context) (string, error) {
	session := strings.TrimSpace(c.Request().Header.Get(headerSessionID))
	if session == "" {
		return "", errs.NewValueIsRequiredError(headerSessionID)
	}
	return session, nil
}

func idempotencyKey(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(headerIdempotencyKey))
}

func bind(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}
