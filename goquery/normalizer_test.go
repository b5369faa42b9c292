package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Normalizer implements refbook.Normalizer at compile time.
var _ refbook.Normalizer = (*goquery.Normalizer)(nil)

const page = `<!DOCTYPE html>
<html>
<head>
<title>std::midpoint - cppreference.com</title>
<link rel="stylesheet" href="/mwiki/load.php?modules=site&amp;only=styles">
<script>var wgPageName = "cpp/numeric/midpoint";</script>
</head>
<body>
<div id="cpp-head-first-base"><a href="/w/Main_Page">cppreference.com</a></div>
<div id="content">
<h1 id="firstHeading">std::midpoint</h1>
<div id="siteSub">From cppreference.com</div>
<div class="t-navbar"><a href="/w/cpp">C++</a></div>
<p>Defined in header <code>&lt;numeric&gt;</code></p>
<div dir="ltr" class="mw-geshi" style="text-align: left;"><div class="cpp source-cpp"><pre class="de1"><span class="kw4">int</span> m <span class="sy1">=</span> std<span class="sy4">::</span><span class="me2">midpoint</span><span class="br0">(</span>a, b<span class="br0">)</span><span class="sy4">;</span></pre></div></div>
<p>Returns <span class="t-c"><span class="mw-geshi cpp source-cpp">a <span class="sy2">+</span> <span class="br0">(</span>b <span class="sy2">-</span> a<span class="br0">)</span> <span class="sy2">/</span> <span class="nu0">2</span></span></span>.</p>
<span class="editsection">[edit]</span>
<div class="printfooter">Retrieved from cppreference</div>
<div id="catlinks">Categories</div>
</div>
<div id="cpp-footer-base">footer</div>
<noscript><img src="/tracker.gif"></noscript>
</body>
</html>`

func TestNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("removes page furniture", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer()

		out, err := n.Normalize(page, false)

		require.NoError(t, err)
		for _, gone := range []string{
			"cpp-head-first-base", "siteSub", "t-navbar", "editsection",
			"printfooter", "catlinks", "cpp-footer-base", "<script", "<noscript", "wgPageName",
		} {
			assert.NotContains(t, out, gone)
		}
		assert.Contains(t, out, `<h1 id="firstHeading">std::midpoint</h1>`)
		assert.Contains(t, out, `rel="stylesheet"`)
	})

	t.Run("removes the wiki page tabs", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer()
		withTabs := strings.Replace(page, "<body>\n",
			`<body>
<div id="mw-head"><div id="p-namespaces"><ul><li>Page</li><li>Discussion</li></ul></div><div id="p-views"><ul><li>View</li><li>Edit</li><li>History</li></ul></div></div>
`, 1)
		require.Contains(t, withTabs, "mw-head")

		out, err := n.Normalize(withTabs, true)

		require.NoError(t, err)
		assert.NotContains(t, out, "mw-head")
		assert.NotContains(t, out, "Discussion")
		assert.Contains(t, out, `<h1 id="firstHeading">std::midpoint</h1>`)
	})

	t.Run("keeps highlighting unless flattening", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer()

		out, err := n.Normalize(page, false)

		require.NoError(t, err)
		assert.Contains(t, out, `<span class="kw4">int</span>`)
		assert.Contains(t, out, `class="mw-geshi"`)
	})

	t.Run("flattens highlighted code to plain text", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer()

		out, err := n.Normalize(page, true)

		require.NoError(t, err)
		assert.Contains(t, out, `<pre>int m = std::midpoint(a, b);</pre>`)
		assert.Contains(t, out, `a + (b - a) / 2`)
		assert.NotContains(t, out, "kw4")
		assert.NotContains(t, out, "source-cpp")
		assert.NotContains(t, out, "text-align")
		assert.Contains(t, out, `<code>&lt;numeric&gt;</code>`)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer()

		for _, flatten := range []bool{false, true} {
			first, err := n.Normalize(page, flatten)
			require.NoError(t, err)
			second, err := n.Normalize(page, flatten)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		}
	})

	t.Run("flattening is idempotent", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer()

		once, err := n.Normalize(page, true)
		require.NoError(t, err)
		twice, err := n.Normalize(once, true)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	})

	t.Run("flattening a stored page equals flattening the raw page", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer()

		stored, err := n.Normalize(page, false)
		require.NoError(t, err)
		fromStored, err := n.Normalize(stored, true)
		require.NoError(t, err)
		fromRaw, err := n.Normalize(page, true)
		require.NoError(t, err)

		assert.Equal(t, fromRaw, fromStored)
	})

	t.Run("honors custom selectors", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer(
			goquery.WithFurniture([]string{".ad"}),
			goquery.WithHighlight([]string{".hl"}),
		)
		markup := `<html><body><div class="ad">buy</div><nav>menu</nav>` +
			`<div class="hl"><span class="k">x</span></div><pre><span class="k">y</span></pre></body></html>`

		out, err := n.Normalize(markup, true)

		require.NoError(t, err)
		assert.NotContains(t, out, "buy")
		assert.Contains(t, out, "<nav>menu</nav>")
		assert.Contains(t, out, "<div>x</div>")
		assert.Contains(t, out, `<pre><span class="k">y</span></pre>`)
	})

	t.Run("rejects empty markup", func(t *testing.T) {
		t.Parallel()

		n := goquery.NewNormalizer()

		_, err := n.Normalize("  \n", false)

		assert.Equal(t, refbook.EINVALID, refbook.ErrorCode(err))
	})
}
