package assist

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bayassist/models"

	genai "github.com/google/generative-ai-go/genai"
)

// ParamSpec describes one function parameter in JSON-Schema terms.
type ParamSpec struct {
	Name        string
	Type        string // "string", "integer", "number", "boolean"
	Description string
	Enum        []string
	Required    bool
}

// FunctionSpec declares one callable action: name, parameter schema, and
// free-text trigger hints. Hints are advisory prompt material, never enforced
// programmatically; they are tuned via the evaluation harness.
type FunctionSpec struct {
	Name         string
	Description  string
	Parameters   []ParamSpec
	TriggerHints string
}

// Executor performs one catalog action against the backend. Implementations
// must be side-effect-free when dryRun is set and must validate business
// constraints beyond schema shape.
type Executor interface {
	Execute(ctx context.Context, args map[string]any, dryRun bool) models.FunctionResult
}

// Catalog is the typed registry mapping function names to executors. Adding an
// action is one Register call.
type Catalog struct {
	specs     []FunctionSpec
	executors map[string]Executor
}

func NewCatalog() *Catalog {
	return &Catalog{executors: make(map[string]Executor)}
}

func (c *Catalog) Register(spec FunctionSpec, exec Executor) {
	c.specs = append(c.specs, spec)
	c.executors[spec.Name] = exec
}

// Specs returns the declared functions in registration order.
func (c *Catalog) Specs() []FunctionSpec {
	return c.specs
}

func (c *Catalog) Executor(name string) (Executor, bool) {
	exec, ok := c.executors[name]
	return exec, ok
}

func (c *Catalog) spec(name string) (FunctionSpec, bool) {
	for _, s := range c.specs {
		if s.Name == name {
			return s, true
		}
	}
	return FunctionSpec{}, false
}

// ValidateArgs checks a model-proposed call against the declared schema.
// Unknown functions, missing required parameters, and type mismatches are all
// rejected; the orchestrator then falls back to a plain reply rather than
// fabricating a valid call.
func (c *Catalog) ValidateArgs(name string, args map[string]any) error {
	spec, ok := c.spec(name)
	if !ok {
		return fmt.Errorf("unknown function %q", name)
	}
	for _, p := range spec.Parameters {
		val, present := args[p.Name]
		if !present || val == nil || val == "" {
			if p.Required {
				return fmt.Errorf("missing required parameter %q for %s", p.Name, name)
			}
			continue
		}
		if err := checkType(p, val); err != nil {
			return fmt.Errorf("parameter %q of %s: %w", p.Name, name, err)
		}
	}
	for k := range args {
		if _, declared := c.paramNames(spec)[k]; !declared {
			return fmt.Errorf("undeclared parameter %q for %s", k, name)
		}
	}
	return nil
}

func (c *Catalog) paramNames(spec FunctionSpec) map[string]struct{} {
	names := make(map[string]struct{}, len(spec.Parameters))
	for _, p := range spec.Parameters {
		names[p.Name] = struct{}{}
	}
	return names
}

func checkType(p ParamSpec, val any) error {
	switch p.Type {
	case "string":
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", val)
		}
		if len(p.Enum) > 0 && !containsString(p.Enum, s) {
			return fmt.Errorf("value %q not in %v", s, p.Enum)
		}
	case "integer", "number":
		switch val.(type) {
		case float64, float32, int, int64:
		default:
			return fmt.Errorf("expected number, got %T", val)
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", val)
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// GeminiTools renders the catalog as Gemini function declarations.
func (c *Catalog) GeminiTools() []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(c.specs))
	for _, spec := range c.specs {
		props := make(map[string]*genai.Schema, len(spec.Parameters))
		var required []string
		for _, p := range spec.Parameters {
			props[p.Name] = &genai.Schema{
				Type:        geminiType(p.Type),
				Description: p.Description,
				Enum:        p.Enum,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			},
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func geminiType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// TriggerHintText flattens every spec's trigger hints for the system prompt.
func (c *Catalog) TriggerHintText() string {
	var sb strings.Builder
	for _, spec := range c.specs {
		if spec.TriggerHints == "" {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", spec.Name, spec.TriggerHints)
	}
	return sb.String()
}

// Names returns the action vocabulary sorted ascending, for the evaluation
// harness's judge prompt.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.specs))
	for _, s := range c.specs {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}
