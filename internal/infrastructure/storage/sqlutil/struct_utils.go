// Package sqlutil holds helpers shared by the SQL storage backends.
package sqlutil

import (
	"reflect"
	"sync"
)

// ExtractDBColumns extracts all column names from struct "db" tags, in field order.
// Embedded structs are flattened recursively.
//
// Usage:
//
//	columns := ExtractDBColumns[product.Record]()
//	// Returns: ["id", "name", "encrypted_price", "created_at", "updated_at"]
func ExtractDBColumns[T any]() []string {
	var zero T
	return columnsOf(reflect.TypeOf(zero))
}

func columnsOf(t reflect.Type) []string {
	meta := metadataFor(t)
	cols := make([]string, 0, len(meta.fields))
	for _, fi := range meta.fields {
		if fi.embedded {
			cols = append(cols, columnsOf(t.Field(fi.index).Type)...)
			continue
		}
		cols = append(cols, fi.column)
	}
	return cols
}

type fieldInfo struct {
	index    int
	column   string
	embedded bool
}

type typeMetadata struct {
	fields []fieldInfo
}

// typeCache maps reflect.Type to *typeMetadata.
var typeCache sync.Map

func metadataFor(t reflect.Type) *typeMetadata {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				meta.fields = append(meta.fields, fieldInfo{index: i, embedded: true})
				continue
			}
			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.fields = append(meta.fields, fieldInfo{index: i, column: tag})
		}
	}

	typeCache.Store(t, meta)
	return meta
}

// StructToMap converts a struct to a column -> value map using "db" tags.
// Columns listed in exclude are left out.
func StructToMap(v any, exclude ...string) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	res := make(map[string]any)
	collect(rv, res)
	for _, col := range exclude {
		delete(res, col)
	}
	return res
}

func collect(rv reflect.Value, into map[string]any) {
	meta := metadataFor(rv.Type())
	for _, fi := range meta.fields {
		fv := rv.Field(fi.index)
		if fi.embedded {
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			collect(fv, into)
			continue
		}
		into[fi.column] = fv.Interface()
	}
}
