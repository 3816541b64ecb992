package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport"
)

// OpenAPIValidator checks request parameters and bodies against an OpenAPI 3
// document. Routes the document does not describe pass through untouched.
type OpenAPIValidator struct {
	router routers.Router
	logger *slog.Logger
}

// NewOpenAPIValidator loads the document at path.
func NewOpenAPIValidator(path string, logger *slog.Logger) (*OpenAPIValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	return newOpenAPIValidator(loader, doc, logger)
}

// NewOpenAPIValidatorFromData builds a validator from an in-memory document.
func NewOpenAPIValidatorFromData(data []byte, logger *slog.Logger) (*OpenAPIValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	return newOpenAPIValidator(loader, doc, logger)
}

func newOpenAPIValidator(loader *openapi3.Loader, doc *openapi3.T, logger *slog.Logger) (*OpenAPIValidator, error) {
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	// paths in the document are absolute, so server prefixes must not be matched
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return &OpenAPIValidator{router: router, logger: logger}, nil
}

func (v *OpenAPIValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			if !errors.Is(err, routers.ErrPathNotFound) && !errors.Is(err, routers.ErrMethodNotAllowed) {
				v.logger.Warn("openapi route lookup failed", "error", err, "path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			appErr := internal.NewValidationError("Request does not match the API contract", internal.ErrCodeRequestValidation).
				WithDetails(err.Error()).
				WithCause(err)
			transport.NewBaseHandler(v.logger).WriteAppError(w, appErr)
			return
		}

		next.ServeHTTP(w, r)
	})
}
