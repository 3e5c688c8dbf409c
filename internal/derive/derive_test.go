package derive

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/pulse/internal/blocklist"
	"github.com/Aman-CERP/pulse/internal/record"
)

func strPtr(s string) *string { return &s }

func TestPreview_ShortContentUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n\t", ""},
		{"trimmed", "  hello world \n", "hello world"},
		{"exactly 500 ascii", strings.Repeat("a", 500), strings.Repeat("a", 500)},
		{"500 multibyte", strings.Repeat("é", 500), strings.Repeat("é", 500)},
		{"500 emoji", strings.Repeat("😀", 500), strings.Repeat("😀", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.content, 500))
		})
	}
}

func TestPreview_LongContentTruncatedByCharacters(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"ascii", strings.Repeat("a", 501)},
		{"multibyte", strings.Repeat("ж", 1200)},
		{"mixed", strings.Repeat("aé😀", 400)},
		{"padded", "   " + strings.Repeat("b", 700) + "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Preview(tt.content, 500)
			trimmed := strings.TrimSpace(tt.content)

			require.True(t, strings.HasSuffix(got, Ellipsis))
			head := strings.TrimSuffix(got, Ellipsis)
			assert.Equal(t, 500, utf8.RuneCountInString(head))
			assert.True(t, strings.HasPrefix(trimmed, head))
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestPreview_MultibyteUnderLimitByCharsButOverByBytes(t *testing.T) {
	// 300 two-byte runes: 600 bytes but only 300 characters
	content := strings.Repeat("ö", 300)
	assert.Equal(t, content, Preview(content, 500))
}

func TestLanguage_Defaults(t *testing.T) {
	assert.Equal(t, "en", Language(nil, DefaultLanguage))
	assert.Equal(t, "en", Language(strPtr(""), DefaultLanguage))
	assert.Equal(t, "fr", Language(strPtr("fr"), DefaultLanguage))
	assert.Equal(t, "xx", Language(nil, "xx"))
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://www.Bad.Example/page", "bad.example"},
		{"https://bad.example", "bad.example"},
		{"https://bad.example/a/b?q=1", "bad.example"},
		{"www.bad.example", "bad.example"},
		{"bad.example/x", "bad.example"},
		{"BAD.EXAMPLE", "bad.example"},
		{"", ""},
		{"http://", ""},
		{"/leading/slash", ""},
		{"http://https://bad.example", "https:"},
		{"some free text about bad.example", "some free text about bad.example"},
		{"ftp://bad.example", "ftp:"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomain(tt.in))
		})
	}
}

func TestExtractDomain_IdempotentOnPlainHosts(t *testing.T) {
	inputs := []string{
		"http://www.bad.example/page",
		"https://Good.Example/",
		"plain.example",
		"text with spaces",
		"",
		"MiXeD/Path",
	}
	for _, in := range inputs {
		once := ExtractDomain(in)
		if strings.HasPrefix(once, "www.") || strings.HasPrefix(once, "http://") || strings.HasPrefix(once, "https://") {
			continue
		}
		assert.Equal(t, once, ExtractDomain(once), "input %q", in)
	}
}

func TestIsNSFW_URLClassification(t *testing.T) {
	bl := blocklist.New("bad.example")

	bad := &record.Record{URL: "http://www.bad.example/page"}
	good := &record.Record{URL: "http://good.example/page", Title: strPtr("hello"), ContentText: strPtr("bad.example is mentioned here")}

	assert.True(t, IsNSFW(bad, bl))
	assert.False(t, IsNSFW(good, bl))
}

func TestIsNSFW_FreeTextOnlyMatchesBareDomain(t *testing.T) {
	bl := blocklist.New("bad.example")

	tests := []struct {
		name string
		rec  *record.Record
		want bool
	}{
		{"title is bare domain", &record.Record{URL: "http://ok.example", Title: strPtr("bad.example")}, true},
		{"meta is domain with path", &record.Record{URL: "http://ok.example", MetaContent: strPtr("www.bad.example/tags")}, true},
		{"content is url", &record.Record{URL: "http://ok.example", ContentText: strPtr("https://bad.example")}, true},
		{"title mentions domain", &record.Record{URL: "http://ok.example", Title: strPtr("visit bad.example")}, false},
		{"no fields", &record.Record{URL: "http://ok.example"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNSFW(tt.rec, bl))
		})
	}
}

func TestIsNSFW_EmptyBlocklistNeverMatches(t *testing.T) {
	assert.False(t, IsNSFW(&record.Record{URL: "http://bad.example"}, blocklist.Empty()))
}

func TestIsNSFW_EmptyEntryDoesNotMatchEmptyFields(t *testing.T) {
	// A blank line in the blocklist file becomes the "" entry.
	bl := blocklist.New("", "bad.example")
	assert.False(t, IsNSFW(&record.Record{URL: "http://good.example"}, bl))
}

func TestDeriver_Derive(t *testing.T) {
	// Given: a record missing most optional fields
	d := NewDeriver(blocklist.New("bad.example"))
	rec := &record.Record{
		URL:         "https://bad.example/x",
		ContentText: strPtr("  " + strings.Repeat("z", 600)),
	}

	// When: deriving
	doc := d.Derive(rec)

	// Then: defaults are applied and raw content is kept
	assert.Equal(t, "https://bad.example/x", doc.URL)
	assert.Equal(t, "", doc.Title)
	assert.Equal(t, "", doc.MetaTags)
	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, *rec.ContentText, doc.Content)
	assert.Equal(t, strings.Repeat("z", 500)+"...", doc.Preview)
	assert.True(t, doc.NSFW)
}

func TestDeriver_ZeroValuesFallBackToDefaults(t *testing.T) {
	d := &Deriver{Blocklist: blocklist.Empty()}
	doc := d.Derive(&record.Record{URL: "http://a.example", ContentText: strPtr(strings.Repeat("q", 501))})

	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, strings.Repeat("q", 500)+"...", doc.Preview)
}

func BenchmarkDeriver_Derive(b *testing.B) {
	d := NewDeriver(blocklist.New("bad.example", "adult.example", "casino.example"))
	rec := &record.Record{
		URL:         "https://www.news.example/2024/05/harbor-festival",
		Title:       strPtr("Harbor festival draws record crowds"),
		ContentText: strPtr(strings.Repeat("river market concert ", 200)),
		MetaContent: strPtr("festival, harbor, music"),
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = d.Derive(rec)
	}
}
