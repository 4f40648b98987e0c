package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Besher-Hamze/real-estate-frontend-sub002/internal/core/domain"
	"github.com/Besher-Hamze/real-estate-frontend-sub002/schemas"
)

// Ключи сообщений об ошибках полей. Переводятся в веб-слое.
const (
	MsgRequired      = "form.required"
	MsgInvalidChoice = "form.invalid_choice"
	MsgTooSmall      = "form.too_small"
	MsgTooLarge      = "form.too_large"
	MsgTooShort      = "form.too_short"
	MsgTooLong       = "form.too_long"
	MsgInvalidFormat = "form.invalid_format"
	MsgInvalidNumber = "form.invalid_number"
	MsgInvalid       = "form.invalid"
)

var quotedName = regexp.MustCompile(`['"]([^'"]+)['"]`)

// FormValidator проверяет payload формы по JSON-схеме ресурса.
type FormValidator struct {
	schemas map[string]*jsonschema.Schema
}

// NewFormValidator компилирует все схемы forms/*.json. Ключ схемы - имя файла без расширения.
func NewFormValidator() (*FormValidator, error) {
	return newFormValidator(schemas.SchemasFS)
}

func newFormValidator(schemaFS fs.FS) (*FormValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	paths, err := fs.Glob(schemaFS, "forms/*.json")
	if err != nil {
		return nil, fmt.Errorf("glob form schemas: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no form schemas found")
	}

	// Сначала регистрируем все схемы как ресурсы, потом компилируем.
	for _, p := range paths {
		file, err := schemaFS.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open schema %s: %w", p, err)
		}
		err = compiler.AddResource(schemaURL(p), file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("add schema resource %s: %w", p, err)
		}
	}

	validator := &FormValidator{schemas: make(map[string]*jsonschema.Schema, len(paths))}
	for _, p := range paths {
		schema, err := compiler.Compile(schemaURL(p))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", p, err)
		}
		validator.schemas[strings.TrimSuffix(path.Base(p), ".json")] = schema
	}
	return validator, nil
}

func schemaURL(p string) string {
	return "mem://" + p
}

// Validate возвращает *domain.ValidationError со списком неверных полей.
func (v *FormValidator) Validate(resource string, payload map[string]any) error {
	schema, ok := v.schemas[resource]
	if !ok {
		return fmt.Errorf("schema for form '%s' not found", resource)
	}

	// Приводим payload к виду, который дает json.Unmarshal (float64, []interface{} и т.д.).
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal form payload: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal form payload: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var schemaErr *jsonschema.ValidationError
	if !errors.As(err, &schemaErr) {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	verr := domain.NewValidationError()
	collect(schemaErr, verr)
	if verr.Empty() {
		verr.Add("_form", MsgInvalid)
	}
	return verr
}

// collect обходит дерево причин и складывает ошибки листьев по полям.
func collect(e *jsonschema.ValidationError, verr *domain.ValidationError) {
	if len(e.Causes) > 0 {
		for _, cause := range e.Causes {
			collect(cause, verr)
		}
		return
	}

	keyword := path.Base(e.KeywordLocation)
	field := strings.TrimPrefix(e.InstanceLocation, "/")
	if i := strings.Index(field, "/"); i >= 0 {
		// ошибка элемента массива относится ко всему полю
		field = field[:i]
	}

	if keyword == "required" {
		for _, m := range quotedName.FindAllStringSubmatch(e.Message, -1) {
			verr.Add(m[1], MsgRequired)
		}
		return
	}
	if field == "" {
		field = "_form"
	}
	verr.Add(field, messageFor(keyword))
}

func messageFor(keyword string) string {
	switch keyword {
	case "enum", "const":
		return MsgInvalidChoice
	case "minimum", "exclusiveMinimum", "minItems":
		return MsgTooSmall
	case "maximum", "exclusiveMaximum", "maxItems":
		return MsgTooLarge
	case "minLength":
		return MsgTooShort
	case "maxLength":
		return MsgTooLong
	case "format", "pattern":
		return MsgInvalidFormat
	case "type":
		return MsgInvalidNumber
	default:
		return MsgInvalid
	}
}
