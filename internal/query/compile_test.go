package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCompileStripsControlKeys(t *testing.T) {
	spec := Compile(map[string]string{
		"select":  "name,description",
		"sort":    "name",
		"page":    "3",
		"limit":   "5",
		"housing": "true",
	})

	for _, key := range []string{"select", "sort", "page", "limit"} {
		assert.NotContains(t, spec.Filter, key)
	}
	assert.Equal(t, bson.M{"housing": true}, spec.Filter)
}

func TestCompileOperatorRewrite(t *testing.T) {
	spec := Compile(map[string]string{"age[gt]": "18"})
	require.Equal(t, bson.M{"age": bson.M{"$gt": int64(18)}}, spec.Filter)
}

func TestCompileMergesOperatorsOnSameField(t *testing.T) {
	spec := Compile(map[string]string{
		"averageCost[gte]": "1000",
		"averageCost[lte]": "10000",
	})
	require.Equal(t, bson.M{
		"averageCost": bson.M{"$gte": int64(1000), "$lte": int64(10000)},
	}, spec.Filter)
}

func TestCompileInOperatorSplitsList(t *testing.T) {
	spec := Compile(map[string]string{"careers[in]": "Business, Other"})
	require.Equal(t, bson.M{
		"careers": bson.M{"$in": []interface{}{"Business", "Other"}},
	}, spec.Filter)
}

func TestCompileUnknownOperatorIsLiteralEquality(t *testing.T) {
	spec := Compile(map[string]string{"name[regex]": "camp"})
	require.Equal(t, bson.M{"name[regex]": "camp"}, spec.Filter)
}

func TestCompileValueTyping(t *testing.T) {
	spec := Compile(map[string]string{
		"tuition[lte]": "4500.5",
		"weeks":        "10",
		"housing":      "false",
		"city":         "Boston",
	})
	assert.Equal(t, bson.M{"$lte": 4500.5}, spec.Filter["tuition"])
	assert.Equal(t, int64(10), spec.Filter["weeks"])
	assert.Equal(t, false, spec.Filter["housing"])
	assert.Equal(t, "Boston", spec.Filter["city"])
}

func TestCompileProjection(t *testing.T) {
	spec := Compile(map[string]string{"select": "name, description ,housing"})
	require.Equal(t, []string{"name", "description", "housing"}, spec.Projection)

	assert.Empty(t, Compile(map[string]string{}).Projection)
}

func TestCompileSort(t *testing.T) {
	spec := Compile(map[string]string{"sort": "name,-averageCost"})
	require.Equal(t, []SortField{
		{Field: "name"},
		{Field: "averageCost", Desc: true},
	}, spec.Sort)
}

func TestCompileDefaultSort(t *testing.T) {
	spec := Compile(map[string]string{})
	require.Equal(t, []SortField{{Field: "createdAt", Desc: true}}, spec.Sort)
}

func TestCompilePagination(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]string
		wantPage  int
		wantLimit int
	}{
		{"defaults", map[string]string{}, 1, 25},
		{"explicit", map[string]string{"page": "3", "limit": "5"}, 3, 5},
		{"unparseable", map[string]string{"page": "abc", "limit": "xyz"}, 1, 25},
		{"non-positive", map[string]string{"page": "0", "limit": "-2"}, 1, 25},
		{"clamped", map[string]string{"limit": "100000"}, 1, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Compile(tt.raw)
			assert.Equal(t, tt.wantPage, spec.Page)
			assert.Equal(t, tt.wantLimit, spec.Limit)
		})
	}
}
