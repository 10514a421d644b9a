package aisdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// ──────────────────────────────────────────────
// Model client — OpenAI Responses API wrapper
// ──────────────────────────────────────────────

// CompletionRequest describes one model call.
// When Schema is non-nil the model is constrained to strict JSON output
// matching the schema; otherwise free text is returned.
type CompletionRequest struct {
	Instructions string
	Input        string
	Temperature  float64
	MaxTokens    int
	SchemaName   string
	Schema       map[string]interface{}
}

// Completer is the minimal contract components need from the LLM
// provider. Tests inject fakes; production uses ModelClient.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ModelConfig configures the OpenAI-backed Completer.
type ModelConfig struct {
	APIKey  string
	Model   string        // default "gpt-4o-mini"
	Timeout time.Duration // per-call bound, default 20s
}

// DefaultModelConfig returns production defaults.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Model:   "gpt-4o-mini",
		Timeout: 20 * time.Second,
	}
}

// ModelClient is a Completer backed by the OpenAI Responses API.
// Each call is a single best-effort attempt with a bounded timeout;
// retry policy belongs to callers that can afford it (none of the core
// paths can — they degrade instead).
type ModelClient struct {
	client openai.Client
	config ModelConfig
}

// NewModelClient creates a client from config. Zero-value fields fall
// back to DefaultModelConfig.
func NewModelClient(config ModelConfig) *ModelClient {
	def := DefaultModelConfig()
	if config.Model == "" {
		config.Model = def.Model
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	return &ModelClient{
		client: openai.NewClient(option.WithAPIKey(config.APIKey)),
		config: config,
	}
}

// Complete performs one model call and returns the raw output text.
func (c *ModelClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	params := responses.ResponseNewParams{
		Model:        c.config.Model,
		Instructions: openai.String(req.Instructions),
		Temperature:  openai.Float(req.Temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Input, responses.EasyInputMessageRoleUser),
			},
		},
	}
	if req.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Schema != nil {
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		}
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}
	return resp.OutputText(), nil
}

// ──────────────────────────────────────────────
// Schema generation & output parsing
// ──────────────────────────────────────────────

// GenerateSchema reflects T into a strict JSON schema accepted by the
// OpenAI structured-output API (additionalProperties:false, all
// properties required, recursively).
func GenerateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	ensureStrictSchema(m)
	return m
}

func ensureStrictSchema(schema map[string]interface{}) {
	if t, ok := schema["type"].(string); ok && t == "object" {
		schema["additionalProperties"] = false
		if props, ok := schema["properties"].(map[string]interface{}); ok {
			var required []string
			for name := range props {
				required = append(required, name)
			}
			if len(required) > 0 {
				schema["required"] = required
			}
		}
	}
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]interface{}); ok {
				ensureStrictSchema(pm)
			}
		}
	}
	if items, ok := schema["items"].(map[string]interface{}); ok {
		ensureStrictSchema(items)
	}
}

// decodeModelJSON parses model output into v, salvaging the first
// top-level JSON object when the model wrapped it in prose.
func decodeModelJSON(output string, v interface{}) error {
	s := strings.TrimSpace(output)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object in model output (len=%d)", len(s))
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("unmarshal extracted JSON: %w", err)
	}
	return nil
}
