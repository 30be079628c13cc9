package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/xeipuuv/gojsonschema"
)

// rootField is how gojsonschema names the document itself.
const rootField = "(root)"

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator checks request bodies against the embedded JSON schemas, keyed
// by file name without extension.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	files, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, err
	}

	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(files))}
	for _, f := range files {
		b, err := schemaFS.ReadFile("schemas/" + f.Name())
		if err != nil {
			return nil, err
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", f.Name(), err)
		}
		v.schemas[strings.TrimSuffix(f.Name(), ".json")] = s
	}
	return v, nil
}

// MustValidator is like NewValidator but panics; the schemas are compiled in.
func MustValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Check validates body against the named schema.
func (v *Validator) Check(schema string, body []byte) error {
	s, ok := v.schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema %q", schema)
	}

	res, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return common.NewError(common.ErrorValidation, "Invalid JSON body")
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		if e.Field() == rootField {
			msgs = append(msgs, e.Description())
			continue
		}
		msgs = append(msgs, e.Field()+": "+e.Description())
	}
	return common.NewError(common.ErrorValidation, "%s", strings.Join(msgs, "; "))
}

// bind validates the request body and decodes it into dst. An empty body
// is treated as an empty object.
func (v *Validator) bind(c *fiber.Ctx, schema string, dst any) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := v.Check(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return common.NewError(common.ErrorValidation, "Invalid JSON body")
	}
	return nil
}
