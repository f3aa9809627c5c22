package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/organizer-agent/internal/domain"
	"github.com/PabloGalante/organizer-agent/internal/observability"
)

// GenAIConfig selects the backend. An APIKey means the Gemini API;
// otherwise Project and Location select Vertex AI.
type GenAIConfig struct {
	APIKey      string
	Project     string
	Location    string
	Model       string
	Temperature float32
}

type GenAIClient struct {
	client      *genai.Client
	modelName   string
	temperature *float32
}

// NewGenAIClient creates a domain.ModelClient backed by Gemini.
func NewGenAIClient(ctx context.Context, cfg GenAIConfig) (*GenAIClient, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.Project != "" && cfg.Location != "":
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, errors.New("genai: either an API key or a project and location must be set")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	c := &GenAIClient{client: client, modelName: modelName}
	if cfg.Temperature > 0 {
		c.temperature = genai.Ptr(cfg.Temperature)
	}
	return c, nil
}

// Generate implements domain.ModelClient.
func (c *GenAIClient) Generate(ctx context.Context, req domain.ModelRequest) (*domain.ModelResponse, error) {
	log := observability.LoggerFromContext(ctx)

	cfg := &genai.GenerateContentConfig{
		Temperature: c.temperature,
		Tools:       toGenAITools(req.Tools),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	contents := toGenAIContents(req.History)

	log.Log(ctx, observability.LevelTrace, "model request",
		"model", c.modelName, "turns", len(contents), "tools", len(req.Tools))

	res, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai generate content: %w", err)
	}

	out, err := fromGenAIResponse(res)
	if err != nil {
		return nil, err
	}
	log.Log(ctx, observability.LevelTrace, "model response",
		"calls", len(out.Calls), "text_len", len(out.Text))
	return out, nil
}

func toGenAITools(specs []domain.ToolSpec) []*genai.Tool {
	if len(specs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, s := range specs {
		decls = append(decls, toFunctionDeclaration(s))
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func toFunctionDeclaration(s domain.ToolSpec) *genai.FunctionDeclaration {
	decl := &genai.FunctionDeclaration{Name: s.Name, Description: s.Description}
	if len(s.Params) == 0 {
		return decl
	}

	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(s.Params)),
	}
	for _, p := range s.Params {
		prop := &genai.Schema{Type: schemaType(p.Type), Description: p.Description}
		if p.Type == domain.ParamArray {
			prop.Items = &genai.Schema{Type: schemaType(p.Items)}
		}
		schema.Properties[p.Name] = prop
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	decl.Parameters = schema
	return decl
}

func schemaType(t domain.ParamType) genai.Type {
	switch t {
	case domain.ParamNumber:
		return genai.TypeNumber
	case domain.ParamInteger:
		return genai.TypeInteger
	case domain.ParamBoolean:
		return genai.TypeBoolean
	case domain.ParamArray:
		return genai.TypeArray
	default:
		return genai.TypeString
	}
}

// toGenAIContents maps turns one to one. Function responses go out under
// the user role.
func toGenAIContents(turns []domain.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		var role genai.Role = genai.RoleUser
		if t.Role == domain.WireModel {
			role = genai.RoleModel
		}

		switch {
		case t.Call != nil:
			part := genai.NewPartFromFunctionCall(t.Call.Name, t.Call.Args)
			part.FunctionCall.ID = t.Call.ID
			part.ThoughtSignature = t.Call.Signature
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleModel))
		case t.Result != nil:
			part := genai.NewPartFromFunctionResponse(t.Result.Name, map[string]any{"result": t.Result.Content})
			part.FunctionResponse.ID = t.Result.CallID
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))
		default:
			contents = append(contents, genai.NewContentFromText(t.Text, role))
		}
	}
	return contents
}

// fromGenAIResponse reads the first candidate. Thought parts are skipped;
// the signature of a call part travels with the call.
func fromGenAIResponse(res *genai.GenerateContentResponse) (*domain.ModelResponse, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return nil, fmt.Errorf("genai: %w", domain.ErrEmptyResponse)
	}

	out := &domain.ModelResponse{}
	for _, part := range res.Candidates[0].Content.Parts {
		switch {
		case part == nil || part.Thought:
		case part.FunctionCall != nil:
			out.Calls = append(out.Calls, domain.ToolCall{
				ID:        part.FunctionCall.ID,
				Name:      part.FunctionCall.Name,
				Args:      part.FunctionCall.Args,
				Signature: part.ThoughtSignature,
			})
		default:
			out.Text += part.Text
		}
	}
	return out, nil
}
