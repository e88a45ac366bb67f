package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// memCollection is an in-memory Collection fake supporting the filter
// shapes the compiler emits: equality, $gt/$gte/$lt/$lte and $in.
type memCollection struct {
	docs    []bson.M
	findErr error
	cntErr  error
}

func (m *memCollection) Count(_ context.Context, filter bson.M) (int64, error) {
	if m.cntErr != nil {
		return 0, m.cntErr
	}
	var n int64
	for _, d := range m.docs {
		if matches(d, filter) {
			n++
		}
	}
	return n, nil
}

func (m *memCollection) Find(_ context.Context, filter bson.M, opts FindOptions) ([]bson.M, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []bson.M
	for _, d := range m.docs {
		if matches(d, filter) {
			out = append(out, copyDoc(d))
		}
	}
	if len(opts.Sort) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, s := range opts.Sort {
				a, b := fmt.Sprint(out[i][s.Field]), fmt.Sprint(out[j][s.Field])
				if a == b {
					continue
				}
				if s.Desc {
					return a > b
				}
				return a < b
			}
			return false
		})
	}
	if opts.Skip > 0 {
		if opts.Skip >= int64(len(out)) {
			return nil, nil
		}
		out = out[opts.Skip:]
	}
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	if len(opts.Projection) > 0 {
		keep := map[string]bool{"_id": true}
		for _, f := range opts.Projection {
			keep[f] = true
		}
		for _, d := range out {
			for k := range d {
				if !keep[k] {
					delete(d, k)
				}
			}
		}
	}
	return out, nil
}

func matches(doc bson.M, filter bson.M) bool {
	for field, cond := range filter {
		ops, isOps := cond.(bson.M)
		if !isOps {
			if fmt.Sprint(doc[field]) != fmt.Sprint(cond) {
				return false
			}
			continue
		}
		for op, want := range ops {
			got := toFloat(doc[field])
			switch op {
			case "$gt":
				if !(got > toFloat(want)) {
					return false
				}
			case "$gte":
				if !(got >= toFloat(want)) {
					return false
				}
			case "$lt":
				if !(got < toFloat(want)) {
					return false
				}
			case "$lte":
				if !(got <= toFloat(want)) {
					return false
				}
			case "$in":
				found := false
				for _, v := range want.([]interface{}) {
					if fmt.Sprint(v) == fmt.Sprint(doc[field]) {
						found = true
					}
				}
				if !found {
					return false
				}
			}
		}
	}
	return true
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func copyDoc(d bson.M) bson.M {
	out := bson.M{}
	for k, v := range d {
		out[k] = v
	}
	return out
}

func seedDocs(n int) []bson.M {
	docs := make([]bson.M, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, bson.M{
			"_id":     i,
			"name":    fmt.Sprintf("bootcamp-%02d", i),
			"tuition": 1000 * (i + 1),
		})
	}
	return docs
}

func TestExecuteMiddlePage(t *testing.T) {
	col := &memCollection{docs: seedDocs(25)}
	spec := Compile(map[string]string{"page": "2", "limit": "10"})

	res, err := Execute(context.Background(), col, spec)
	require.NoError(t, err)

	assert.Len(t, res.Items, 10)
	assert.Equal(t, int64(25), res.Total)
	assert.True(t, res.HasNext())
	assert.True(t, res.HasPrev())

	p := res.Pagination()
	require.NotNil(t, p.Next)
	require.NotNil(t, p.Prev)
	assert.Equal(t, &PageRef{Page: 3, Limit: 10}, p.Next)
	assert.Equal(t, &PageRef{Page: 1, Limit: 10}, p.Prev)
}

func TestExecuteExactFit(t *testing.T) {
	col := &memCollection{docs: seedDocs(25)}
	spec := Compile(map[string]string{"page": "1", "limit": "25"})

	res, err := Execute(context.Background(), col, spec)
	require.NoError(t, err)

	assert.Len(t, res.Items, 25)
	assert.False(t, res.HasNext())
	assert.False(t, res.HasPrev())
	assert.Nil(t, res.Pagination().Next)
	assert.Nil(t, res.Pagination().Prev)
}

func TestExecuteTotalIgnoresPaginationButRespectsFilter(t *testing.T) {
	col := &memCollection{docs: seedDocs(25)}
	spec := Compile(map[string]string{"tuition[gt]": "20000", "limit": "2"})

	res, err := Execute(context.Background(), col, spec)
	require.NoError(t, err)

	// tuition ranges 1000..25000, five docs exceed 20000
	assert.Equal(t, int64(5), res.Total)
	assert.Len(t, res.Items, 2)
	assert.True(t, res.HasNext())
}

func TestExecuteProjection(t *testing.T) {
	col := &memCollection{docs: seedDocs(3)}
	spec := Compile(map[string]string{"select": "name"})

	res, err := Execute(context.Background(), col, spec)
	require.NoError(t, err)
	for _, item := range res.Items {
		assert.Contains(t, item, "name")
		assert.NotContains(t, item, "tuition")
	}
}

func TestExecutePopulateExpandsReferences(t *testing.T) {
	bootcamps := &memCollection{docs: []bson.M{
		{"_id": "b1", "name": "Devworks", "description": "desc", "housing": true},
		{"_id": "b2", "name": "ModernTech", "description": "other", "housing": false},
	}}
	courses := &memCollection{docs: []bson.M{
		{"_id": "c1", "title": "Go", "bootcamp": "b1"},
		{"_id": "c2", "title": "Node", "bootcamp": "b2"},
		{"_id": "c3", "title": "Rust", "bootcamp": "missing"},
	}}

	spec := Compile(map[string]string{"sort": "title"})
	spec.Populate = &Populate{Field: "bootcamp", Select: []string{"name", "description"}, Col: bootcamps}

	res, err := Execute(context.Background(), courses, spec)
	require.NoError(t, err)
	require.Len(t, res.Items, 3)

	byTitle := map[string]bson.M{}
	for _, item := range res.Items {
		byTitle[item["title"].(string)] = item
	}

	ref, ok := byTitle["Go"]["bootcamp"].(bson.M)
	require.True(t, ok, "reference should be expanded into a document")
	assert.Equal(t, "Devworks", ref["name"])
	assert.NotContains(t, ref, "housing", "populate must honor its select list")

	// unresolvable references stay as raw ids
	assert.Equal(t, "missing", byTitle["Rust"]["bootcamp"])
}

func TestExecuteSurfacesStorageErrors(t *testing.T) {
	boom := errors.New("connection reset")

	_, err := Execute(context.Background(), &memCollection{cntErr: boom}, Compile(nil))
	assert.ErrorIs(t, err, boom)

	_, err = Execute(context.Background(), &memCollection{findErr: boom}, Compile(nil))
	assert.ErrorIs(t, err, boom)
}
