// Package retriever adapts a Weaviate instance as the vector memory behind
// the retrieval-augmented context strategy: past exchanges are indexed as
// documents and fetched back by semantic similarity.
package retriever

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
)

const contentProperty = "content"

// WeaviateRetriever implements domain.Retriever and domain.MemoryIndexer
// over one Weaviate class holding a single text property.
type WeaviateRetriever struct {
	client    *weaviate.Client
	className string
}

func NewWeaviateRetriever(host, scheme, className string) (*WeaviateRetriever, error) {
	if host == "" || className == "" {
		return nil, fmt.Errorf("weaviate host and class name are required")
	}
	if scheme == "" {
		scheme = "http"
	}

	client, err := weaviate.NewClient(weaviate.Config{Host: host, Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("creating weaviate client: %w", err)
	}

	return &WeaviateRetriever{client: client, className: className}, nil
}

// Retrieve returns the content of the topK documents nearest to the query,
// best match first.
func (r *WeaviateRetriever) Retrieve(ctx context.Context, query string, topK int) ([]string, error) {
	nearText := r.client.GraphQL().NearTextArgBuilder().
		WithConcepts([]string{query})

	resp, err := r.client.GraphQL().Get().
		WithClassName(r.className).
		WithFields(graphql.Field{Name: contentProperty}).
		WithNearText(nearText).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate query: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("weaviate query error: %s", resp.Errors[0].Message)
	}

	get, ok := resp.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("weaviate response missing Get payload")
	}
	items, ok := get[r.className].([]interface{})
	if !ok {
		// No matches for the class yields no entry rather than an empty list.
		return nil, nil
	}

	var out []string
	for _, item := range items {
		props, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if text, ok := props[contentProperty].(string); ok {
			out = append(out, text)
		}
	}
	return out, nil
}

// Index stores one exchange document.
func (r *WeaviateRetriever) Index(ctx context.Context, document string) error {
	_, err := r.client.Data().Creator().
		WithClassName(r.className).
		WithProperties(map[string]interface{}{contentProperty: document}).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate index: %w", err)
	}
	return nil
}
