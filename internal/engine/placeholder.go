package engine

import (
	"encoding/json"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Context maps an alias to the data its check produced.
type Context map[string]map[string]any

func (c Context) Set(alias string, data map[string]any) {
	if alias == "" || data == nil {
		return
	}
	c[alias] = data
}

// lookup finds property inside the aliased data. Exact key wins, otherwise
// the first case-insensitive match in key order.
func (c Context) lookup(alias, property string) (any, bool) {
	data, ok := c[alias]
	if !ok {
		return nil, false
	}
	if v, ok := data[property]; ok {
		return v, v != nil
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if strings.EqualFold(k, property) {
			v := data[k]
			return v, v != nil
		}
	}
	return nil, false
}

// Resolve returns a fresh copy of params with every resolvable
// {{alias.property}} token substituted, plus the resolved tokens in the
// order they were first seen. Unresolvable tokens stay literal.
func Resolve(params map[string]any, ctx Context) (map[string]any, []string) {
	r := resolver{ctx: ctx}
	out, _ := r.value(params).(map[string]any)
	return out, r.tokens
}

type resolver struct {
	ctx    Context
	tokens []string
}

func (r *resolver) value(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = r.value(x)
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = r.value(x)
		}
		return out
	case string:
		return r.str(t)
	default:
		return v
	}
}

func (r *resolver) str(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(token string) string {
		path := strings.TrimSpace(token[2 : len(token)-2])
		alias, property, ok := strings.Cut(path, ".")
		if !ok {
			return token
		}
		alias, property = strings.TrimSpace(alias), strings.TrimSpace(property)
		v, found := r.ctx.lookup(alias, property)
		if !found {
			return token
		}
		if !slices.Contains(r.tokens, token) {
			r.tokens = append(r.tokens, token)
		}
		return stringify(v)
	})
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, 0, len(t))
		for _, x := range t {
			if x == nil {
				parts = append(parts, "")
				continue
			}
			parts = append(parts, stringify(x))
		}
		return strings.Join(parts, ",")
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// annotate records which placeholders fed an assertion.
func annotate(expected string, tokens []string) string {
	if len(tokens) == 0 {
		return expected
	}
	return expected + " (resolved from " + strings.Join(tokens, ", ") + ")"
}
