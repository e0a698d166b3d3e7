package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/Skotchmaster/storefront/internal/models"
)

// ProductIndex resolves product ids against an Elasticsearch index whose
// document ids are the product ids.
type ProductIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func (p *ProductIndex) FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"ids": map[string]any{"values": ids},
		},
		"size": len(ids),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode ids query: %w", err)
	}

	es := p.Client
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(p.Index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search products: %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	for _, hit := range r.Hits.Hits {
		prod := hit.Source
		prod.ID = hit.ID
		out[hit.ID] = prod
	}
	return out, nil
}
