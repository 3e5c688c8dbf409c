package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

// StoredDocument is what can be read back from the index for a hit.
type StoredDocument struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	Preview  string  `json:"preview"`
	Language string  `json:"language"`
	MetaTags string  `json:"meta_tags"`
	NSFW     bool    `json:"nsfw"`
}

// Query describes a search over a crawl index.
type Query struct {
	// Text is a bleve query string; empty matches everything.
	Text string
	// Language restricts hits to an exact language tag when set.
	Language string
	// SafeOnly excludes documents flagged NSFW.
	SafeOnly bool
	Limit    int
	Offset   int
}

// Results is one page of hits.
type Results struct {
	Total uint64           `json:"total"`
	Hits  []StoredDocument `json:"hits"`
}

// Searcher runs queries against an open index.
type Searcher struct {
	index bleve.Index
	path  string
}

// OpenSearcher opens an existing index read-only.
func OpenSearcher(path string) (*Searcher, error) {
	idx, err := bleve.OpenUsing(path, map[string]interface{}{"read_only": true})
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeIndexNotFound,
			fmt.Sprintf("cannot open index %s", path), err)
	}
	return &Searcher{index: idx, path: path}, nil
}

// Path returns the index directory.
func (s *Searcher) Path() string {
	return s.path
}

// Close closes the underlying index.
func (s *Searcher) Close() error {
	return s.index.Close()
}

// DocCount returns the number of documents in the index.
func (s *Searcher) DocCount() (uint64, error) {
	return s.index.DocCount()
}

// Search runs q and returns stored fields for each hit.
func (s *Searcher) Search(ctx context.Context, q Query) (*Results, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q), limit, q.Offset, false)
	req.Fields = StoredFields

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeSearchFailed, "search failed", err)
	}

	out := &Results{Total: res.Total, Hits: make([]StoredDocument, 0, len(res.Hits))}
	for _, hit := range res.Hits {
		out.Hits = append(out.Hits, convertHit(hit))
	}
	return out, nil
}

// Get returns the stored fields of the document with the given ID.
func (s *Searcher) Get(ctx context.Context, id string) (*StoredDocument, error) {
	req := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{id}))
	req.Fields = StoredFields

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeSearchFailed, "lookup failed", err)
	}
	if len(res.Hits) == 0 {
		return nil, nil
	}
	doc := convertHit(res.Hits[0])
	return &doc, nil
}

func buildQuery(q Query) query.Query {
	var text query.Query
	if strings.TrimSpace(q.Text) == "" {
		text = bleve.NewMatchAllQuery()
	} else {
		text = bleve.NewQueryStringQuery(q.Text)
	}

	if q.Language == "" && !q.SafeOnly {
		return text
	}

	must := []query.Query{text}
	if q.Language != "" {
		lang := bleve.NewTermQuery(q.Language)
		lang.SetField(FieldLanguage)
		must = append(must, lang)
	}

	bq := bleve.NewBooleanQuery()
	bq.AddMust(must...)
	if q.SafeOnly {
		flagged := bleve.NewBoolFieldQuery(true)
		flagged.SetField(FieldNSFW)
		bq.AddMustNot(flagged)
	}
	return bq
}

func convertHit(hit *search.DocumentMatch) StoredDocument {
	doc := StoredDocument{ID: hit.ID, Score: hit.Score}
	doc.URL = stringField(hit.Fields, FieldURL)
	doc.Title = stringField(hit.Fields, FieldTitle)
	doc.Preview = stringField(hit.Fields, FieldPreview)
	doc.Language = stringField(hit.Fields, FieldLanguage)
	doc.MetaTags = stringField(hit.Fields, FieldMetaTags)
	if v, ok := hit.Fields[FieldNSFW].(bool); ok {
		doc.NSFW = v
	}
	return doc
}

func stringField(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}
