package payload

import (
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Encoder serializes a nested parameter object into the bracket-notation
// query string the Payload REST API expects, e.g.
// where[or][0][title][equals]=foo. It is independent of the builders: any
// JSON-like value of maps, slices, and primitives can be encoded.
//
// Configuration is fixed at construction. By default the output is prefixed
// with "?" and the structural characters "[", "]", and "," stay literal after
// percent-encoding, matching the API's filter syntax. Strict encoding keeps
// every reserved character percent-encoded.
type Encoder struct {
	addQueryPrefix bool
	strictEncoding bool
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithoutQueryPrefix disables the leading "?".
func WithoutQueryPrefix() EncoderOption {
	return func(e *Encoder) {
		e.addQueryPrefix = false
	}
}

// WithStrictEncoding percent-encodes brackets and commas instead of leaving
// them literal.
func WithStrictEncoding() EncoderOption {
	return func(e *Encoder) {
		e.strictEncoding = true
	}
}

// NewEncoder creates an encoder with the given options.
func NewEncoder(opts ...EncoderOption) *Encoder {
	encoder := &Encoder{addQueryPrefix: true}

	for _, opt := range opts {
		opt(encoder)
	}

	return encoder
}

// Stringify encodes value into a query string. Nil entries and values with no
// query representation (functions, channels, complex numbers) are skipped
// silently. The result is empty for a non-container root or when everything
// was skipped; the "?" prefix is only added to a non-empty result.
//
// Sibling map keys are emitted in sorted order: Go maps do not preserve
// insertion order, and sibling order carries no meaning in the wire format.
// Array element order is preserved because it becomes the bracket index.
func (e *Encoder) Stringify(value any) string {
	root := reflect.ValueOf(value)
	for root.Kind() == reflect.Pointer || root.Kind() == reflect.Interface {
		root = root.Elem()
	}

	if root.Kind() != reflect.Map && root.Kind() != reflect.Slice && root.Kind() != reflect.Array {
		return ""
	}

	var segments []string

	e.walk("", root, &segments)

	if len(segments) == 0 {
		return ""
	}

	result := strings.Join(segments, "&")
	if e.addQueryPrefix {
		result = "?" + result
	}

	return result
}

// walk appends key=value segments for value under the given compound key
// prefix, depth first.
func (e *Encoder) walk(prefix string, value reflect.Value, segments *[]string) {
	for value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return
		}

		value = value.Elem()
	}

	if !value.IsValid() {
		return
	}

	if text, ok := e.primitive(value); ok {
		if prefix != "" {
			*segments = append(*segments, prefix+"="+e.escape(text))
		}

		return
	}

	switch value.Kind() {
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return
		}

		keys := make([]string, 0, value.Len())
		for _, key := range value.MapKeys() {
			keys = append(keys, key.String())
		}

		sort.Strings(keys)

		for _, key := range keys {
			entry := value.MapIndex(reflect.ValueOf(key))
			if isAbsent(entry) {
				continue
			}

			e.walk(e.compound(prefix, key), entry, segments)
		}

	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			entry := value.Index(i)
			if isAbsent(entry) {
				continue
			}

			e.walk(e.compound(prefix, strconv.Itoa(i)), entry, segments)
		}

	default:
		// Functions, channels, complex numbers, and other unencodable
		// kinds contribute nothing.
	}
}

// primitive renders scalar leaves, including time values as ISO 8601.
func (e *Encoder) primitive(value reflect.Value) (string, bool) {
	if value.Type() == reflect.TypeOf(time.Time{}) {
		t, _ := value.Interface().(time.Time)

		return t.Format(time.RFC3339), true
	}

	switch value.Kind() {
	case reflect.String:
		return value.String(), true
	case reflect.Bool:
		return strconv.FormatBool(value.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(value.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(value.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(value.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(value.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}

// compound builds the bracketed key for a child under a parent prefix.
func (e *Encoder) compound(prefix, key string) string {
	encoded := e.escape(key)
	if prefix == "" {
		return encoded
	}

	if e.strictEncoding {
		return prefix + "%5B" + encoded + "%5D"
	}

	return prefix + "[" + encoded + "]"
}

var literalReplacer = strings.NewReplacer("%5B", "[", "%5D", "]", "%2C", ",")

// escape percent-encodes a key or value, restoring the structural characters
// unless strict encoding is enabled.
func (e *Encoder) escape(s string) string {
	escaped := url.QueryEscape(s)
	if !e.strictEncoding {
		escaped = literalReplacer.Replace(escaped)
	}

	return escaped
}

// isAbsent reports whether a container entry should be skipped entirely, the
// way JSON serialization drops null and undefined members.
func isAbsent(value reflect.Value) bool {
	for value.Kind() == reflect.Interface || value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return true
		}

		value = value.Elem()
	}

	return !value.IsValid()
}
