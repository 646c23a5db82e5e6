package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns lists the "db" tags of T in field order, descending into
// embedded structs such as entity.BaseEntity and entity.Address.
func ExtractDBColumns[T any]() []string {
	var zero T
	return columnsOf(reflect.TypeOf(zero))
}

func columnsOf(t reflect.Type) []string {
	meta := metadataFor(t)
	if meta == nil {
		return nil
	}
	cols := make([]string, 0, len(meta.fields))
	for _, f := range meta.fields {
		if f.embedded != nil {
			cols = append(cols, columnsOf(f.embedded)...)
			continue
		}
		cols = append(cols, f.column)
	}
	return cols
}

// Qualify prefixes every column with a table alias.
func Qualify(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}

type field struct {
	index    int
	column   string
	embedded reflect.Type
}

type typeMetadata struct {
	fields []field
}

// typeCache maps reflect.Type to *typeMetadata.
var typeCache sync.Map

func metadataFor(t reflect.Type) *typeMetadata {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous {
			meta.fields = append(meta.fields, field{index: i, embedded: sf.Type})
			continue
		}
		tag := sf.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		meta.fields = append(meta.fields, field{index: i, column: tag})
	}

	typeCache.Store(t, meta)
	return meta
}

// StructToMap converts a struct into column -> value using "db" tags.
// Fields of embedded structs are flattened into the same map.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	meta := metadataFor(rv.Type())
	if meta == nil {
		return nil
	}

	res := make(map[string]any, len(meta.fields))
	fill(rv, meta, res)
	return res
}

func fill(rv reflect.Value, meta *typeMetadata, res map[string]any) {
	for _, f := range meta.fields {
		fv := rv.Field(f.index)
		if f.embedded != nil {
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if inner := metadataFor(fv.Type()); inner != nil {
				fill(fv, inner, res)
			}
			continue
		}
		res[f.column] = fv.Interface()
	}
}

// Without returns a copy of m minus the given columns.
func Without(m map[string]any, cols ...string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, c := range cols {
		delete(out, c)
	}
	return out
}
