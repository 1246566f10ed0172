package content

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const poolSchemaURL = "schema://candidate-pool.json"

// PoolSchema is the JSON schema a candidate pool document must satisfy.
var PoolSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"questionId": map[string]any{"type": "string", "minLength": 1},
					"subjectId":  map[string]any{"type": "string"},
					"subSkills": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string", "minLength": 1},
					},
					"difficulty": map[string]any{
						"type":    "number",
						"minimum": 1,
						"maximum": 10,
					},
					"distractorSimilarity": map[string]any{
						"type":    "number",
						"minimum": 0,
						"maximum": 1,
					},
					"topicId": map[string]any{"type": "string"},
				},
				"required": []any{"questionId", "subSkills", "difficulty"},
			},
		},
	},
	"required": []any{"items"},
}

// Pool is the document shape a content source hands over.
type Pool struct {
	Items []Item `json:"items"`
}

// ErrInvalidPool indicates a pool document that does not match PoolSchema.
type ErrInvalidPool struct {
	Err error
}

func (e *ErrInvalidPool) Error() string {
	return fmt.Sprintf("invalid candidate pool: %v", e.Err)
}

func (e *ErrInvalidPool) Unwrap() error { return e.Err }

var compiledPoolSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The compiler wants a decoded JSON value, not Go literals.
	b, err := json.Marshal(PoolSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal pool schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse pool schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(poolSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(poolSchemaURL)
})

// DecodePool reads a candidate pool document, validates it and returns its
// items. An empty pool is valid.
func DecodePool(r io.Reader) ([]Item, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ErrInvalidPool{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledPoolSchema()
	if err != nil {
		return nil, fmt.Errorf("compile pool schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &ErrInvalidPool{Err: err}
	}

	var pool Pool
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, &ErrInvalidPool{Err: err}
	}
	if pool.Items == nil {
		pool.Items = []Item{}
	}
	return pool.Items, nil
}
