package query

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Defaults and bounds for pagination. MaxLimit caps what a caller can request
// in a single page; the upstream behaviour left this unbounded.
const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 100

	defaultSortField = "createdAt"
)

// Keys that steer the query instead of filtering documents. They are stripped
// before the filter is built and must never appear as filter fields.
var controlKeys = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Comparison operator tokens accepted in bracketed parameter keys, mapped to
// their mongo counterparts.
var operatorTokens = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// SortField is one (field, direction) pair of a sort order.
type SortField struct {
	Field string
	Desc  bool
}

// Spec is the compiled form of a list request: everything Execute needs to
// run a bounded, ordered, projected query.
type Spec struct {
	Filter     bson.M
	Projection []string
	Sort       []SortField
	Page       int
	Limit      int
	Populate   *Populate
}

// Compile translates a flat request-parameter map into a Spec.
//
// Control keys (select, sort, page, limit) are stripped; the remaining keys
// become filter terms. A key of the form "field[op]" with a recognised
// operator token becomes a mongo comparison on that field; "in" splits its
// value on commas. Unrecognised bracketed tokens are left alone and match as
// literal equality on the raw key. Values that parse as numbers or booleans
// are typed accordingly so comparisons are numeric, not lexicographic.
//
// page and limit fall back to their defaults when absent, unparseable or
// non-positive; limit is clamped to MaxLimit.
func Compile(raw map[string]string) *Spec {
	spec := &Spec{
		Filter: bson.M{},
		Sort:   []SortField{{Field: defaultSortField, Desc: true}},
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}

	for key, value := range raw {
		if controlKeys[key] {
			continue
		}
		field, op, ok := splitOperator(key)
		if !ok {
			spec.Filter[key] = typedValue(value)
			continue
		}
		var term bson.M
		if existing, isM := spec.Filter[field].(bson.M); isM {
			term = existing
		} else {
			term = bson.M{}
			spec.Filter[field] = term
		}
		if op == "$in" {
			term[op] = typedList(value)
		} else {
			term[op] = typedValue(value)
		}
	}

	if sel := raw["select"]; sel != "" {
		spec.Projection = splitFields(sel)
	}

	if srt := raw["sort"]; srt != "" {
		spec.Sort = spec.Sort[:0]
		for _, f := range splitFields(srt) {
			if name, isDesc := strings.CutPrefix(f, "-"); isDesc {
				spec.Sort = append(spec.Sort, SortField{Field: name, Desc: true})
			} else {
				spec.Sort = append(spec.Sort, SortField{Field: f})
			}
		}
		if len(spec.Sort) == 0 {
			spec.Sort = append(spec.Sort, SortField{Field: defaultSortField, Desc: true})
		}
	}

	if n, err := strconv.Atoi(raw["page"]); err == nil && n > 0 {
		spec.Page = n
	}
	if n, err := strconv.Atoi(raw["limit"]); err == nil && n > 0 {
		spec.Limit = min(n, MaxLimit)
	}

	return spec
}

// splitOperator breaks "field[op]" into its parts when op is a recognised
// comparison token. Anything else is reported as a plain equality key.
func splitOperator(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	token := key[open+1 : len(key)-1]
	mongoOp, known := operatorTokens[token]
	if !known {
		return "", "", false
	}
	return key[:open], mongoOp, true
}

func splitFields(csv string) []string {
	parts := strings.Split(csv, ",")
	fields := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// typedValue parses a raw query-string value into the most specific literal
// it can represent so mongo compares numbers as numbers.
func typedValue(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func typedList(s string) []interface{} {
	parts := strings.Split(s, ",")
	list := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, typedValue(p))
		}
	}
	return list
}
