package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// SchemaVersion is the version written by [NewSchema].
const SchemaVersion = "1.0.0"

// Type descriptors of values that are not structures.
const (
	TypeString   = "String"
	TypeInteger  = "Integer"
	TypeFunction = "Function"
	TypeObject   = "Object"
)

// structPrefix marks a type descriptor that names a structure.
const structPrefix = "#"

// StructRef returns the type descriptor that refers to structure name.
func StructRef(name string) string { return structPrefix + name }

// structName returns the structure named by a type descriptor.
func structName(typ string) (string, bool) {
	name, ok := strings.CutPrefix(typ, structPrefix)

	return name, ok && name != ""
}

// Global is a top-level name of the host context.
type Global struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Field is a member of a structure. The first element of Types is the
// field's type descriptor; any further elements describe the field.
type Field struct {
	Name  string   `json:"name"  yaml:"name"`
	Types []string `json:"types" yaml:"types"`
}

// Type returns the type descriptor of f, or "" if none is declared.
func (f Field) Type() string {
	if len(f.Types) == 0 {
		return ""
	}

	return f.Types[0]
}

// Description returns the descriptive lines of f.
func (f Field) Description() []string {
	if len(f.Types) < 2 {
		return nil
	}

	return f.Types[1:]
}

// Schema describes the shape of the host context to the editor services.
//
// A type descriptor beginning with '#' names an entry of Structs;
// [TypeFunction] marks a callable.
type Schema struct {
	Version string             `json:"version" yaml:"version"`
	Globals []Global           `json:"globals" yaml:"globals"`
	Structs map[string][]Field `json:"structs" yaml:"structs"`
}

// NewSchema returns an empty schema at [SchemaVersion].
func NewSchema() *Schema {
	return &Schema{
		Version: SchemaVersion,
		Structs: map[string][]Field{},
	}
}

// LoadSchema decodes a schema from YAML or JSON.
func LoadSchema(ctx context.Context, r io.Reader) (*Schema, error) {
	s := NewSchema()

	if err := yaml.NewDecoder(r).DecodeContext(ctx, s); err != nil {
		if errors.Is(err, io.EOF) {
			return s, nil
		}

		return nil, err
	}

	if s.Structs == nil {
		s.Structs = map[string][]Field{}
	}

	return s, nil
}

// Encode writes the schema as YAML.
func (s *Schema) Encode(ctx context.Context, w io.Writer) error {
	data, err := yaml.MarshalContext(ctx, s, yaml.IndentSequence(true))
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// InsertGlobal appends a global, replacing any global of the same name.
func (s *Schema) InsertGlobal(name, typ string) {
	for i := range s.Globals {
		if s.Globals[i].Name == name {
			s.Globals[i].Type = typ

			return
		}
	}

	s.Globals = append(s.Globals, Global{Name: name, Type: typ})
}

// InsertStruct sets the fields of structure name.
func (s *Schema) InsertStruct(name string, fields ...Field) {
	if s.Structs == nil {
		s.Structs = map[string][]Field{}
	}

	s.Structs[name] = fields
}

// Global returns the global with the given name.
func (s *Schema) Global(name string) (Global, bool) {
	if s == nil {
		return Global{}, false
	}

	for _, g := range s.Globals {
		if g.Name == name {
			return g, true
		}
	}

	return Global{}, false
}

// Struct returns the fields of the structure a type descriptor refers to.
func (s *Schema) Struct(typ string) ([]Field, bool) {
	name, ok := structName(typ)
	if !ok || s == nil {
		return nil, false
	}

	fields, ok := s.Structs[name]

	return fields, ok
}

// member is a resolved name: a global or a structure field.
type member struct {
	name  string
	types []string
}

func (m member) typ() string {
	if len(m.types) == 0 {
		return ""
	}

	return m.types[0]
}

// members returns the names available under a path: the globals for an
// empty path, otherwise the fields of the structure the path resolves to.
// It reports false if the path does not resolve to a structure.
func (s *Schema) members(path []string) ([]member, bool) {
	if s == nil {
		return nil, false
	}

	if len(path) == 0 {
		out := make([]member, len(s.Globals))
		for i, g := range s.Globals {
			out[i] = member{name: g.Name, types: []string{g.Type}}
		}

		return out, true
	}

	m, ok := s.lookup(path)
	if !ok {
		return nil, false
	}

	fields, ok := s.Struct(m.typ())
	if !ok {
		return nil, false
	}

	out := make([]member, len(fields))
	for i, f := range fields {
		out[i] = member{name: f.Name, types: f.Types}
	}

	return out, true
}

// lookup resolves a non-empty path: the first segment against the globals,
// each further segment against the fields of the structure named by the
// previous one.
func (s *Schema) lookup(path []string) (member, bool) {
	g, ok := s.Global(path[0])
	if !ok {
		return member{}, false
	}

	cur := member{name: g.Name, types: []string{g.Type}}

	for _, seg := range path[1:] {
		fields, ok := s.Struct(cur.typ())
		if !ok {
			return member{}, false
		}

		found := false

		for _, f := range fields {
			if f.Name == seg {
				cur = member{name: f.Name, types: f.Types}
				found = true

				break
			}
		}

		if !found {
			return member{}, false
		}
	}

	return cur, true
}
