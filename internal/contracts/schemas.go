package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"listings-service/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Registry - скомпилированные схемы событий, ключ вида "ListingCreatedEvent/1.0.0"
type Registry struct {
	schemas map[string]*jsonschema.Schema
}

// LoadRegistry компилирует все схемы из встроенной файловой системы.
// Вызывается один раз при старте, ошибка любой схемы - ошибка старта.
func LoadRegistry() (*Registry, error) {
	return loadRegistry(schemas.SchemasFS, "events")
}

func loadRegistry(fsys fs.FS, root string) (*Registry, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		// Ресурсы добавляем заранее, чтобы схемы могли ссылаться друг на друга через $ref
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	reg := &Registry{schemas: make(map[string]*jsonschema.Schema, len(paths))}
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		key := keyFromPath(root, path)
		if key == "" {
			return nil, fmt.Errorf("schema path %s does not follow <event-name>/v<N>.json", path)
		}
		reg.schemas[key] = schema
	}
	return reg, nil
}

// keyFromPath превращает "events/listing-created/v1.json" в "ListingCreatedEvent/1.0.0"
func keyFromPath(root, path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, root+"/"), ".json")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[1], "v"))
}

// ValidateEvent проверяет тело события по схеме его типа и версии
func (r *Registry) ValidateEvent(eventType, eventVersion string, body []byte) error {
	key := fmt.Sprintf("%s/%s", eventType, eventVersion)
	schema, ok := r.schemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("event body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// Keys возвращает зарегистрированные ключи схем
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		keys = append(keys, k)
	}
	return keys
}
