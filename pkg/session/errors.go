package session

import (
	"sort"
	"strconv"
	"strings"
)

// FormErrorKey holds messages that could not be tied to a single field. It
// sits outside the ErrorKeyPrefix namespace so no field name can collide with
// it.
const FormErrorKey = "validator_form_error"

// messageSeparator joins multiple messages recorded for the same field.
const messageSeparator = "; "

// ErrorMapping splits an error payload into field-level and form-level
// messages. Field keys are the names the builder uses for its elements.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// RecordErrors maps payload onto field names and writes one
// validator_error_<field> entry per field into store. Payload keys may be plain
// field names or go-errors style paths ("/body/email", "$.body.tags[0]",
// "request.payload.owner.email"). When knownFields is not empty, paths are
// matched against it and unknown paths fall back to form-level messages.
func RecordErrors(store Writer, payload map[string][]string, knownFields ...string) ErrorMapping {
	mapping := MapErrors(payload, knownFields...)
	if store == nil {
		return mapping
	}

	for field, messages := range mapping.Fields {
		store.Set(ErrorKey(field), strings.Join(messages, messageSeparator))
	}
	if len(mapping.Form) > 0 {
		store.Set(FormErrorKey, strings.Join(mapping.Form, messageSeparator))
	}
	return mapping
}

// ClearErrors drops every recorded validation message from store, field and
// form level alike.
func ClearErrors(store *Store) int {
	return store.Clear(ErrorKeyPrefix) + store.Clear(FormErrorKey)
}

// MapErrors normalises payload without touching a store.
func MapErrors(payload map[string][]string, knownFields ...string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	known := make(map[string]struct{}, len(knownFields))
	for _, field := range knownFields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			known[trimmed] = struct{}{}
		}
	}

	// Sorted iteration keeps message order stable when several paths collapse
	// onto the same field.
	paths := make([]string, 0, len(payload))
	for path := range payload {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, rawPath := range paths {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}

		field, formLevel := mapErrorPath(rawPath, known)
		if formLevel || field == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[field] = normalizeMessages(append(mapping.Fields[field], messages...))
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, known map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}
	if _, ok := known[trimmed]; ok {
		return trimmed, false
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", true
	}

	variants := [][]string{
		segments,
		dropWrapperSegments(segments),
		stripNumericSegments(segments),
		stripNumericSegments(dropWrapperSegments(segments)),
	}

	if len(known) == 0 {
		// Without a field list the most specific cleaned-up variant wins.
		last := variants[len(variants)-1]
		if len(last) == 0 {
			return "", true
		}
		return strings.Join(last, "."), false
	}

	best := ""
	for _, variant := range variants {
		if path := longestMatchingPath(variant, known); len(path) > len(best) {
			best = path
		}
	}
	if best != "" {
		return best, false
	}
	return "", true
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestMatchingPath(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
