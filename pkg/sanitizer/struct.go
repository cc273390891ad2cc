package sanitizer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/dmitrymomot/carrier/pkg/validator"
)

// ErrNotStructPointer is returned by SanitizeStruct for anything but a non-nil struct pointer.
var ErrNotStructPointer = errors.New("sanitizer: target must be a non-nil pointer to a struct")

// TagName is the struct tag read by SanitizeStruct.
const TagName = "sanitize"

var rules = map[string]func(string) string{
	"trim":  strings.TrimSpace,
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"utf8":  validator.EnsureUTF8,
	"strip": StripHTML,
	"html":  SanitizeHTML,
	"email": func(s string) string { return strings.ToLower(strings.TrimSpace(s)) },
	"name":  collapseSpaces,
	"digits": func(s string) string {
		return strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return r
			}
			return -1
		}, s)
	},
}

// SanitizeStruct rewrites string fields of the struct v points to, applying
// the comma separated rules of their `sanitize` tag from left to right.
// Nested structs and string slices are visited too.
//
//	type Contact struct {
//		Name  string `sanitize:"trim,name"`
//		Email string `sanitize:"email"`
//	}
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	return walk(rv.Elem())
}

func walk(rv reflect.Value) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := rv.Field(i)
		tag := sf.Tag.Get(TagName)

		switch {
		case fv.Kind() == reflect.Struct:
			if err := walk(fv); err != nil {
				return err
			}
		case fv.Kind() == reflect.Pointer && !fv.IsNil() && fv.Elem().Kind() == reflect.Struct:
			if err := walk(fv.Elem()); err != nil {
				return err
			}
		case tag == "" || tag == "-":
		case fv.Kind() == reflect.String:
			out, err := apply(tag, fv.String())
			if err != nil {
				return fmt.Errorf("field %s: %w", sf.Name, err)
			}
			fv.SetString(out)
		case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String:
			for j := range fv.Len() {
				out, err := apply(tag, fv.Index(j).String())
				if err != nil {
					return fmt.Errorf("field %s[%d]: %w", sf.Name, j, err)
				}
				fv.Index(j).SetString(out)
			}
		}
	}
	return nil
}

func apply(tag, s string) (string, error) {
	for name := range strings.SplitSeq(tag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		fn, ok := rules[name]
		if !ok {
			return "", fmt.Errorf("sanitizer: unknown rule %q", name)
		}
		s = fn(s)
	}
	return s, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
