package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts entry headings and source links", func(t *testing.T) {
		t.Parallel()

		html := `<section class="refbook-entry" id="ref-std%3A%3Asort">
<h1 class="refbook-heading">std::sort</h1>
<p class="refbook-source"><a href="https://en.cppreference.com/w/cpp/algorithm/sort">https://en.cppreference.com/w/cpp/algorithm/sort</a></p>
</section>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# std::sort")
		assert.Contains(t, md, "(https://en.cppreference.com/w/cpp/algorithm/sort)")
	})

	t.Run("converts flattened code blocks", func(t *testing.T) {
		t.Parallel()

		html := `<pre>std::vector&lt;int&gt; v{3, 1, 2};
std::sort(v.begin(), v.end());</pre>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "```")
		assert.Contains(t, md, "std::vector<int> v{3, 1, 2};")
		assert.Contains(t, md, "std::sort(v.begin(), v.end());")
	})

	t.Run("converts inline code", func(t *testing.T) {
		t.Parallel()

		html := `<p>Sorts the elements in <code>[first, last)</code> in non-descending order.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "`[first, last)`")
	})

	t.Run("converts declaration tables", func(t *testing.T) {
		t.Parallel()

		html := `<table class="t-dcl-begin">
<tr><th>Defined in header</th><th>Version</th></tr>
<tr><td><code>template&lt; class RandomIt &gt; void sort( RandomIt first, RandomIt last );</code></td><td>(constexpr since C++20)</td></tr>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Defined in header")
		assert.Contains(t, md, "(constexpr since C++20)")
		assert.Contains(t, md, "|")
		assert.Contains(t, md, "---")
	})

	t.Run("mirrors spanned cells", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<thead><tr><th>Overload</th><th>Notes</th></tr></thead>
<tbody><tr><td colspan="2">execution policy overloads</td></tr></tbody>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, strings.Count(md, "execution policy overloads"), 2)
	})

	t.Run("converts unordered lists without end comments", func(t *testing.T) {
		t.Parallel()

		html := `<ul><li>std::sort</li><li>std::stable_sort</li></ul><ul><li>std::partial_sort</li></ul>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "- std::sort")
		assert.Contains(t, md, "- std::partial_sort")
		assert.NotContains(t, md, "<!--")
	})

	t.Run("ends with a single newline", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("<p>Complexity</p>\n\n\n")

		require.NoError(t, err)
		assert.Equal(t, "Complexity\n", md)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  \n")

		require.Error(t, err)
		assert.Equal(t, refbook.EINVALID, refbook.ErrorCode(err))
	})
}
