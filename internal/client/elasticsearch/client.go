package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog"

	"github.com/commhub/message-service/internal/config"
	"github.com/commhub/message-service/internal/model"
)

// indexMapping defines exact-match keyword fields for the identity columns and
// an analyzed content field with an n-gram sub-field for substring matching.
const indexMapping = `{
  "settings": {
    "index": {
      "max_ngram_diff": 13
    },
    "analysis": {
      "tokenizer": {
        "message_ngram_tokenizer": {
          "type": "ngram",
          "min_gram": 2,
          "max_gram": 15,
          "token_chars": ["letter", "digit"]
        }
      },
      "analyzer": {
        "message_ngram": {
          "type": "custom",
          "tokenizer": "message_ngram_tokenizer",
          "filter": ["lowercase"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id": {"type": "keyword"},
      "conversationId": {"type": "keyword"},
      "senderId": {"type": "keyword"},
      "tenantId": {"type": "keyword"},
      "content": {
        "type": "text",
        "fields": {
          "ngram": {"type": "text", "analyzer": "message_ngram"}
        }
      },
      "timestamp": {"type": "date"},
      "metadata": {"type": "object", "dynamic": true}
    }
  }
}`

type Client struct {
	es    *elasticsearch.Client
	index string
}

func New(cfg *config.Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Elastic.URL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &Client{
		es:    es,
		index: cfg.Elastic.Index,
	}, nil
}

// EnsureIndex creates the messages index with its mapping unless it already
// exists. Safe to call on every startup.
func (c *Client) EnsureIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck // .

	if res.StatusCode == http.StatusOK {
		return nil
	}

	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unexpected status checking index: %d", res.StatusCode)
	}

	createRes, err := c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close() //nolint:errcheck // .

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	zerolog.Ctx(ctx).Info().Str("index", c.index).Msg("created search index")

	return nil
}

func (c *Client) IndexDocument(ctx context.Context, message *model.Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	res, err := c.es.Index(
		c.index,
		bytes.NewReader(data),
		c.es.Index.WithDocumentID(message.ID),
		c.es.Index.WithRefresh("true"),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck // .

	if res.IsError() {
		return fmt.Errorf("failed to index document %s: %s", message.ID, res.String())
	}

	return nil
}

func (c *Client) UpdateDocument(ctx context.Context, id string, fields map[string]interface{}) error {
	body, err := json.Marshal(map[string]interface{}{"doc": fields})
	if err != nil {
		return fmt.Errorf("failed to marshal partial update: %w", err)
	}

	res, err := c.es.Update(
		c.index,
		id,
		bytes.NewReader(body),
		c.es.Update.WithRefresh("true"),
		c.es.Update.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck // .

	if res.IsError() {
		return fmt.Errorf("failed to update document %s: %s", id, res.String())
	}

	return nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	res, err := c.es.Delete(
		c.index,
		id,
		c.es.Delete.WithRefresh("true"),
		c.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck // .

	if res.StatusCode == http.StatusNotFound {
		zerolog.Ctx(ctx).Warn().Str("document_id", id).Msg("delete matched no document")
		return nil
	}

	if res.IsError() {
		return fmt.Errorf("failed to delete document %s: %s", id, res.String())
	}

	return nil
}

// Search runs a fuzzy multi-field match over content constrained to one
// conversation and tenant, newest first.
func (c *Client) Search(ctx context.Context, conversationID, tenantID, term string, page, limit int) (*model.MessagePage, error) {
	query := map[string]interface{}{
		"from": (page - 1) * limit,
		"size": limit,
		"sort": []interface{}{
			map[string]interface{}{"timestamp": map[string]interface{}{"order": "desc"}},
		},
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"conversationId": conversationID}},
					map[string]interface{}{"term": map[string]interface{}{"tenantId": tenantID}},
				},
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     term,
						"fields":    []string{"content", "content.ngram"},
						"fuzziness": "AUTO",
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close() //nolint:errcheck // .

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	return decodeSearchResponse(res)
}

func decodeSearchResponse(res *esapi.Response) (*model.MessagePage, error) {
	var body struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source model.Message `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	messages := make(model.MessageList, len(body.Hits.Hits))
	for i, hit := range body.Hits.Hits {
		messages[i] = hit.Source
	}

	return &model.MessagePage{
		Messages: messages,
		Total:    body.Hits.Total.Value,
	}, nil
}
