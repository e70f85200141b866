// Package catalogsource fetches the canonical catalog payload from a local file or an
// HTTP endpoint.
package catalogsource

import (
	"net/http"
	"strings"
	"time"

	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

const defaultHTTPTimeout = 10 * time.Second

// New picks the source for location: http:// and https:// URLs are fetched over HTTP,
// anything else is read as a file path.
func New(location string) (ports.CatalogSource, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, errs.NewValueIsRequiredError("location")
	}

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, &http.Client{Timeout: defaultHTTPTimeout}), nil
	}
	return NewFileSource(location), nil
}
