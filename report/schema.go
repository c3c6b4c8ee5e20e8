package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
)

// Schema 返回 Layout 的 JSON Schema。
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(Layout))
	schema.Title = "texpack atlas layout"
	schema.Description = "Sprite placements of a multi page texture atlas"
	return schema
}

// WriteSchema 把 Schema 以缩进 JSON 写入 w。
func WriteSchema(w io.Writer) error {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
