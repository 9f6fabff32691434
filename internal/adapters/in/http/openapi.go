package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// OpenAPI parses and validates the document describing /api/v1.
func OpenAPI(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// apiRouter panics when the embedded document does not load.
var apiRouter = sync.OnceValue(func() routers.Router {
	doc, err := OpenAPI(context.Background())
	if err != nil {
		panic(err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		panic(err)
	}
	return router
})

// ServeOpenAPI handles GET /openapi.yaml.
func (s *Server) ServeOpenAPI(ctx echo.Context) error {
	return ctx.Blob(http.StatusOK, "application/yaml", openAPIDocument)
}

// validateRequest rejects requests whose parameters or body do not match the
// document with 400. Routes the document does not know are left to echo.
func (s *Server) validateRequest(router routers.Router) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if !errors.Is(err, routers.ErrPathNotFound) && !errors.Is(err, routers.ErrMethodNotAllowed) {
					s.logger.WarnContext(req.Context(), "openapi route lookup failed", "error", err)
				}
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return badRequest(ctx, err.Error())
			}
			return next(ctx)
		}
	}
}

// pathID binds the :id path parameter.
func pathID(ctx echo.Context) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return kernel.UUIDFromString(id.String())
}

// queryID binds an optional UUID query parameter; nil means it was absent.
func queryID(ctx echo.Context, name string) (*kernel.UUID, error) {
	var raw *openapi_types.UUID
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), &raw); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(raw.String())
	if err != nil {
		return nil, err
	}
	return &id, nil
}
