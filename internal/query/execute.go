package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// FindOptions narrows a Find call. Projection and Sort mirror the Spec; Skip
// and Limit bound the window.
type FindOptions struct {
	Projection []string
	Sort       []SortField
	Skip       int64
	Limit      int64
}

// Collection is the slice of a document store the executor needs: bounded
// reads and filter-scoped counts. The mongo repository implements it; tests
// use an in-memory fake.
type Collection interface {
	Find(ctx context.Context, filter bson.M, opts FindOptions) ([]bson.M, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
}

// Populate expands a reference field on each listed document into a partial
// copy of the referenced document. It is supplied by route code, never by the
// query string.
type Populate struct {
	Field  string     // reference field on the listed documents
	Select []string   // sub-fields kept from the referenced document
	Col    Collection // collection holding the referenced documents
}

// PageResult is one page of documents plus the totals needed for the
// pagination envelope. Total counts every document matching the filter,
// independent of the page window.
type PageResult struct {
	Items []bson.M
	Total int64
	Page  int
	Limit int
}

func (r *PageResult) HasNext() bool { return int64(r.Page)*int64(r.Limit) < r.Total }
func (r *PageResult) HasPrev() bool { return r.Page > 1 }

// PageRef points at an adjacent page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination is the next/prev fragment of the list response envelope.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

func (r *PageResult) Pagination() Pagination {
	var p Pagination
	if r.HasNext() {
		p.Next = &PageRef{Page: r.Page + 1, Limit: r.Limit}
	}
	if r.HasPrev() {
		p.Prev = &PageRef{Page: r.Page - 1, Limit: r.Limit}
	}
	return p
}

// Execute runs a compiled Spec against col. It is read-only; storage errors
// are returned unchanged.
func Execute(ctx context.Context, col Collection, spec *Spec) (*PageResult, error) {
	total, err := col.Count(ctx, spec.Filter)
	if err != nil {
		return nil, err
	}

	items, err := col.Find(ctx, spec.Filter, FindOptions{
		Projection: spec.Projection,
		Sort:       spec.Sort,
		Skip:       int64(spec.Page-1) * int64(spec.Limit),
		Limit:      int64(spec.Limit),
	})
	if err != nil {
		return nil, err
	}

	if spec.Populate != nil {
		if err := expand(ctx, items, spec.Populate); err != nil {
			return nil, err
		}
	}

	return &PageResult{Items: items, Total: total, Page: spec.Page, Limit: spec.Limit}, nil
}

// ExpandOne applies a populate directive to a single document, for the
// single-resource endpoints that expand a reference outside a list query.
func ExpandOne(ctx context.Context, item bson.M, p *Populate) error {
	return expand(ctx, []bson.M{item}, p)
}

// expand replaces each document's reference field with the matching partial
// document from the populate collection, fetched in a single batched query.
// References with no match are left as-is.
func expand(ctx context.Context, items []bson.M, p *Populate) error {
	seen := map[interface{}]bool{}
	ids := make([]interface{}, 0, len(items))
	for _, item := range items {
		id, ok := item[p.Field]
		if !ok || id == nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	refs, err := p.Col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, FindOptions{
		Projection: p.Select,
		Limit:      int64(len(ids)),
	})
	if err != nil {
		return err
	}

	byID := make(map[interface{}]bson.M, len(refs))
	for _, ref := range refs {
		byID[ref["_id"]] = ref
	}
	for _, item := range items {
		if ref, ok := byID[item[p.Field]]; ok {
			item[p.Field] = ref
		}
	}
	return nil
}
