package completion

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ResponseSchema 结构化输出使用的命名 JSON Schema。
type ResponseSchema struct {
	Name        string
	Description string
	Schema      map[string]any
}

// NewResponseSchema 由 T 反射出 OpenAI 接受的严格 Schema。
func NewResponseSchema[T any](name, description string) (*ResponseSchema, error) {
	schemaObj, err := GenerateSchema[T]()
	if err != nil {
		return nil, err
	}
	return &ResponseSchema{Name: name, Description: description, Schema: schemaObj}, nil
}

// GenerateSchema 反射 T，所有字段必填且不允许额外字段。
func GenerateSchema[T any]() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	reflected := reflector.Reflect(v)

	b, err := reflected.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	delete(m, "$schema")
	delete(m, "$id")
	ensureStrict(m)
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

// ensureStrict 递归关闭所有对象并把全部属性设为必填。
func ensureStrict(node map[string]any) {
	if nodeType, ok := node[typeKey].(string); ok && nodeType == "object" {
		node[additionalPropertiesKey] = false

		if properties, ok := node[propertiesKey].(map[string]any); ok {
			required := make([]string, 0, len(properties))
			for name := range properties {
				required = append(required, name)
			}
			if len(required) > 0 {
				node[requiredKey] = required
			}
		}
	}

	if properties, ok := node[propertiesKey].(map[string]any); ok {
		for _, prop := range properties {
			if child, ok := prop.(map[string]any); ok {
				ensureStrict(child)
			}
		}
	}

	if items, ok := node[itemsKey].(map[string]any); ok {
		ensureStrict(items)
	}
}
