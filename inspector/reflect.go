// Package inspector shows the components of a picked entity, laid out
// from their inspect struct tags.
package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Spec is a parsed inspect tag: `inspect:"widget[,fmt:%.2f][,max:0.5]"`.
type Spec struct {
	Widget Widget
	Format string
	Max    float64
}

// ParseTag parses an inspect struct tag. Unknown widgets and options are
// ignored; Max defaults to 1.
func ParseTag(tag string) Spec {
	spec := Spec{Max: 1}
	if tag == "" {
		return spec
	}
	parts := strings.Split(tag, ",")
	spec.Widget = widgetNames[strings.TrimSpace(parts[0])]

	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		switch key {
		case "fmt":
			spec.Format = value
		case "max":
			if m, err := strconv.ParseFloat(value, 64); err == nil && m > 0 {
				spec.Max = m
			}
		}
	}
	return spec
}

// Field is one exported component field ready for display.
type Field struct {
	Name  string
	Value any
	Spec  Spec
}

// Float returns the field as a number, if it is one.
func (f Field) Float() (float64, bool) {
	v := reflect.ValueOf(f.Value)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	}
	return 0, false
}

// Text formats the field value, using the tag format when present.
func (f Field) Text() string {
	if f.Spec.Format != "" {
		return fmt.Sprintf(f.Spec.Format, f.Value)
	}
	if s, ok := f.Value.(fmt.Stringer); ok {
		return s.String()
	}
	if v, ok := f.Float(); ok && isFloat(f.Value) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	if s, ok := f.Value.(string); ok && s == "" {
		return "-"
	}
	return fmt.Sprint(f.Value)
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// Fields extracts the displayable fields of a component struct (or a
// pointer to one). Skipped and unexported fields are left out.
func Fields(component any) []Field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		spec := ParseTag(sf.Tag.Get("inspect"))
		if spec.Widget == WidgetSkip {
			continue
		}
		fv := v.Field(i)
		if spec.Widget == WidgetAuto {
			spec.Widget = detect(fv.Kind())
		}
		fields = append(fields, Field{Name: sf.Name, Value: fv.Interface(), Spec: spec})
	}
	return fields
}

func detect(k reflect.Kind) Widget {
	if k == reflect.Bool {
		return WidgetBool
	}
	return WidgetLabel
}

// Section is one component of the inspected entity.
type Section struct {
	Title  string
	Fields []Field
}
