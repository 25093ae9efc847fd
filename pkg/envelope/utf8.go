package envelope

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"unicode/utf8"
)

var (
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// checkUTF8 returns the path of the first string under v that is not valid
// UTF-8, or "" when every string is valid. encoding/json would silently
// replace such bytes with U+FFFD. Types with their own JSON or text encoding
// are not inspected. v must already be known to marshal, so it has no cycles.
func checkUTF8(v reflect.Value, path string) string {
	if !v.IsValid() {
		return ""
	}
	if v.Type().Implements(jsonMarshalerType) || v.Type().Implements(textMarshalerType) {
		return ""
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return checkUTF8(v.Elem(), path)
	case reflect.String:
		if !utf8.ValidString(v.String()) {
			return path
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			k := iter.Key()
			elem := fmt.Sprintf("%s[%v]", path, k)
			if k.Kind() == reflect.String {
				if !utf8.ValidString(k.String()) {
					return path + "[key]"
				}
				elem = fmt.Sprintf("%s[%q]", path, k.String())
			}
			if p := checkUTF8(iter.Value(), elem); p != "" {
				return p
			}
		}
	case reflect.Slice, reflect.Array:
		// byte slices and arrays hold no strings
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return ""
		}
		for i := range v.Len() {
			if p := checkUTF8(v.Index(i), fmt.Sprintf("%s[%d]", path, i)); p != "" {
				return p
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("json") == "-" {
				continue
			}
			if p := checkUTF8(v.Field(i), path+"."+f.Name); p != "" {
				return p
			}
		}
	}
	return ""
}
