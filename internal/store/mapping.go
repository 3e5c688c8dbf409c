package store

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Field names of the crawl document schema.
const (
	FieldURL      = "url"
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldPreview  = "preview"
	FieldLanguage = "language"
	FieldMetaTags = "meta_tags"
	FieldNSFW     = "nsfw"
)

// StoredFields lists the fields that can be read back from a hit.
// content is searchable only.
var StoredFields = []string{FieldURL, FieldTitle, FieldPreview, FieldLanguage, FieldMetaTags, FieldNSFW}

// tokenizedField is indexed with the standard analyzer.
func tokenizedField(store bool) *mapping.FieldMapping {
	fm := mapping.NewTextFieldMapping()
	fm.Analyzer = standard.Name
	fm.Store = store
	fm.IncludeTermVectors = store
	fm.DocValues = false
	return fm
}

// exactField is indexed as a single untokenized term.
func exactField(fast bool) *mapping.FieldMapping {
	fm := mapping.NewTextFieldMapping()
	fm.Analyzer = keyword.Name
	fm.Store = true
	fm.IncludeInAll = false
	fm.IncludeTermVectors = false
	fm.DocValues = fast
	return fm
}

// NewDocumentMapping builds the index mapping for crawl documents:
//
//	url, title, meta_tags  tokenized, stored
//	content                tokenized, not stored
//	preview                exact, stored
//	language               exact, stored, doc values
//	nsfw                   boolean, stored, doc values
func NewDocumentMapping() *mapping.IndexMappingImpl {
	doc := bleve.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(FieldURL, tokenizedField(true))
	doc.AddFieldMappingsAt(FieldTitle, tokenizedField(true))
	doc.AddFieldMappingsAt(FieldContent, tokenizedField(false))
	doc.AddFieldMappingsAt(FieldPreview, exactField(false))
	doc.AddFieldMappingsAt(FieldLanguage, exactField(true))
	doc.AddFieldMappingsAt(FieldMetaTags, tokenizedField(true))

	nsfw := mapping.NewBooleanFieldMapping()
	nsfw.Store = true
	nsfw.IncludeInAll = false
	nsfw.DocValues = true
	doc.AddFieldMappingsAt(FieldNSFW, nsfw)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	im.DefaultAnalyzer = standard.Name
	im.StoreDynamic = false
	im.IndexDynamic = false
	im.DocValuesDynamic = false
	return im
}
