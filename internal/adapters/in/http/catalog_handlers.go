package http

import (
	"net/http"
	"strings"

	"orderhub/internal/core/domain/model/catalog"

	"github.com/labstack/echo/v4"
)

// GetCatalog handles GET /catalog. The version doubles as the ETag.
func (s *Server) GetCatalog(c echo.Context) error {
	snapshot := s.catalog.Snapshot()
	if snapshot == nil {
		return c.JSON(http.StatusOK, Catalog{Categories: []Category{}})
	}

	etag := `"` + snapshot.Version() + `"`
	if match := c.Request().Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		return c.NoContent(http.StatusNotModified)
	}

	c.Response().Header().Set("ETag", etag)
	return c.JSON(http.StatusOK, toCatalog(snapshot.Version(), snapshot.Categories()))
}

// PutCatalog handles PUT /catalog by loading the pushed payload.
func (s *Server) PutCatalog(c echo.Context) error {
	var payload catalog.Payload
	if err := bind(c, &payload); err != nil {
		return err
	}

	version, err := s.catalog.Load(payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CatalogVersion{Version: version})
}

// GetCatalogItem handles GET /catalog/items/{itemId}.
func (s *Server) GetCatalogItem(c echo.Context) error {
	itemID, err := pathString(c, "itemId")
	if err != nil {
		return err
	}

	item, err := s.catalog.Item(itemID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItem(item))
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
