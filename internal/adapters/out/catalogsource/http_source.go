package catalogsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"orderhub/internal/core/domain/model/catalog"
)

const maxCatalogBytes = 8 << 20

// HTTPSource GETs the catalog as JSON from a fixed URL.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{url: url, client: client}
}

func (s *HTTPSource) Name() string {
	return s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) (catalog.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return catalog.Payload{}, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return catalog.Payload{}, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return catalog.Payload{}, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	var payload catalog.Payload
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxCatalogBytes)).Decode(&payload); err != nil {
		return catalog.Payload{}, fmt.Errorf("decode catalog response: %w", err)
	}
	return payload, nil
}
