package generate_test

import (
	"testing"

	"github.com/docindex/docindex-mcp/internal/generate"
	"github.com/docindex/docindex-mcp/internal/searchindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const introHTML = `<!DOCTYPE html>
<html><head><title>Introduction · CovarianceMatrices.jl</title></head>
<body>
<nav><p>navigation</p></nav>
<article id="docs">
<h1><a class="nav-anchor" id="Introduction-1" href="#Introduction-1">Introduction</a></h1>
<p>Three classes of <em>estimators</em>
   are considered:</p>
<ul><li><p>HAC</p></li><li>HC</li></ul>
<h2 id="Api-1">Api</h2>
<h2>Api</h2>
<pre><code>Vhat = lrvar(Uncorrelated(), X)</code></pre>
<p>   </p>
</article>
</body></html>`

func TestHTMLParser_ParsePage(t *testing.T) {
	t.Parallel()

	records, err := generate.HTMLParser{}.ParsePage("introduction.html", []byte(introHTML), "")
	require.NoError(t, err)

	section := func(loc, title string) searchindex.Record {
		return searchindex.Record{Location: loc, Page: "Introduction", Title: title, Category: searchindex.CategorySection}
	}
	para := func(text string) searchindex.Record {
		return searchindex.Record{Location: "introduction.html#", Page: "Introduction", Title: "Introduction", Text: text, Category: searchindex.CategoryPage}
	}

	assert.Equal(t, []searchindex.Record{
		section("introduction.html#Introduction-1", "Introduction"),
		para("Three classes of estimators are considered:"),
		para("HAC\nHC"),
		section("introduction.html#Api-1", "Api"),
		section("introduction.html#Api-2", "Api"),
		para("Vhat = lrvar(Uncorrelated(), X)"),
	}, records)
}

func TestHTMLParser_PageNameFromTitle(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>Reference · Pkg</title></head><body><p>Body text</p></body></html>`
	records, err := generate.HTMLParser{}.ParsePage("ref/index.html", []byte(html), "")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "Reference", records[0].Page)
	assert.Equal(t, "ref/index.html#", records[0].Location)
	assert.Equal(t, "Body text", records[0].Text)
}
