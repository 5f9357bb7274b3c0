package mock

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate(t *testing.T) {
	data := seq(25)

	t.Run("last partial page", func(t *testing.T) {
		p := Paginate(data, 2, 10)
		assert.Equal(t, []int{21, 22, 23, 24, 25}, p.Content)
		assert.Equal(t, 25, p.TotalElements)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, 10, p.Size)
		assert.Equal(t, 2, p.Number)
		assert.Equal(t, 5, p.NumberOfElements)
		assert.False(t, p.First)
		assert.True(t, p.Last)
	})

	t.Run("first page", func(t *testing.T) {
		p := Paginate(data, 0, 10)
		assert.Equal(t, seq(10), p.Content)
		assert.True(t, p.First)
		assert.False(t, p.Last)
	})

	t.Run("exact boundary is last", func(t *testing.T) {
		p := Paginate(seq(20), 1, 10)
		assert.True(t, p.Last)
		assert.Equal(t, 2, p.TotalPages)
	})

	t.Run("past the end", func(t *testing.T) {
		p := Paginate(data, 5, 10)
		assert.Empty(t, p.Content)
		assert.NotNil(t, p.Content)
		assert.Equal(t, 0, p.NumberOfElements)
		assert.True(t, p.Last)
	})

	t.Run("defaults", func(t *testing.T) {
		p := Paginate(data, -3, 0)
		assert.Equal(t, 0, p.Number)
		assert.Equal(t, 10, p.Size)
		assert.True(t, p.First)
	})

	t.Run("huge page is empty", func(t *testing.T) {
		for _, page := range []int{1 << 62, 922337203685477581, math.MaxInt} {
			p := Paginate([]int{1, 2, 3}, page, 10)
			assert.Empty(t, p.Content)
			assert.NotNil(t, p.Content)
			assert.Equal(t, 3, p.TotalElements)
			assert.Equal(t, 1, p.TotalPages)
			assert.Equal(t, page, p.Number)
			assert.True(t, p.Last)
		}
	})

	t.Run("huge size holds only the data", func(t *testing.T) {
		p := Paginate(data, 0, 2_000_000_000)
		assert.Equal(t, data, p.Content)
		assert.Equal(t, 25, cap(p.Content))
		assert.Equal(t, 1, p.TotalPages)
		assert.True(t, p.Last)

		p = Paginate(data, 1, math.MaxInt)
		assert.Empty(t, p.Content)
		assert.Equal(t, 1, p.TotalPages)
	})

	t.Run("empty input", func(t *testing.T) {
		p := Paginate([]int{}, 0, 10)
		assert.Equal(t, 0, p.TotalPages)
		assert.True(t, p.First)
		assert.True(t, p.Last)
	})
}

func TestFilter(t *testing.T) {
	data := []Record{
		{"id": "1", "name": "Zhang San", "city": "Beijing", "stock": 12.0},
		{"id": "2", "name": "Li Si", "city": "Shanghai", "stock": 3.0},
		{"id": "3", "name": "zhangwei", "city": "Beijing", "stock": 120.0},
	}

	ids := func(rs []Record) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.String("id"))
		}
		return out
	}

	t.Run("case insensitive contains", func(t *testing.T) {
		assert.Equal(t, []string{"1", "3"}, ids(Filter(data, map[string]string{"name": "zhang"})))
	})

	t.Run("empty filters return input", func(t *testing.T) {
		assert.Equal(t, data, Filter(data, map[string]string{}))
		assert.Equal(t, data, Filter(data, nil))
	})

	t.Run("blank value and unknown key are ignored", func(t *testing.T) {
		got := Filter(data, map[string]string{"name": "  ", "nope": "x"})
		assert.Equal(t, []string{"1", "2", "3"}, ids(got))
	})

	t.Run("value is trimmed", func(t *testing.T) {
		assert.Equal(t, []string{"2"}, ids(Filter(data, map[string]string{"city": " shang "})))
	})

	t.Run("every filter must match", func(t *testing.T) {
		got := Filter(data, map[string]string{"name": "zhang", "city": "beijing", "stock": "12"})
		assert.Equal(t, []string{"1", "3"}, ids(got))
	})

	t.Run("numbers are stringified", func(t *testing.T) {
		assert.Equal(t, []string{"3"}, ids(Filter(data, map[string]string{"stock": "120"})))
	})
}

func TestGenerateID(t *testing.T) {
	a := GenerateID("SO")
	b := GenerateID("SO")
	assert.True(t, strings.HasPrefix(a, "SO-"))
	assert.NotEqual(t, a, b)
	assert.NotContains(t, GenerateID(""), "-")
}

func TestPageQuery(t *testing.T) {
	page, size, filters := pageQuery(map[string]string{"page": "2", "size": "5", "name": "x"})
	assert.Equal(t, 2, page)
	assert.Equal(t, 5, size)
	assert.Equal(t, map[string]string{"name": "x"}, filters)

	page, size, _ = pageQuery(map[string]string{"page": "abc", "size": "1e3"})
	assert.Zero(t, page)
	assert.Zero(t, size)

	page, _, _ = pageQuery(map[string]string{"page": "99999999999999999999"})
	assert.Zero(t, page)
}

func TestCollection(t *testing.T) {
	c := NewCollection("测试", "t", "T", Record{"id": "t-1", "name": "a", "tags": []any{"x"}})

	rec, ok := c.Find("t-1")
	require.True(t, ok)
	rec["name"] = "changed"
	rec["tags"].([]any)[0] = "y"

	again, _ := c.Find("t-1")
	assert.Equal(t, "a", again["name"], "Find returns a copy")
	assert.Equal(t, []any{"x"}, again["tags"])

	inserted := c.Insert(Record{"name": "b"})
	assert.True(t, strings.HasPrefix(inserted.String("id"), "t-"))
	assert.True(t, strings.HasPrefix(inserted.String("orderNo"), "T"))
	assert.NotEmpty(t, inserted["createdAt"])
	assert.Equal(t, 2, c.Len())

	env := c.Detail("missing")
	assert.Equal(t, 404, env.Code)
	assert.Equal(t, "测试不存在", env.Message)

	require.NoError(t, c.Remove("t-1", nil))
	assert.Error(t, c.Remove("t-1", nil))
}

func TestApplyTotals(t *testing.T) {
	rec := Record{"items": []any{
		map[string]any{"quantity": 3.0, "unitPrice": 19.99},
		map[string]any{"quantity": "2", "unitPrice": 0.1},
	}}
	applyTotals(rec, "items")

	items := lineItems(rec, "items")
	assert.Equal(t, 59.97, items[0]["amount"])
	assert.Equal(t, 0.2, items[1]["amount"])
	assert.Equal(t, 60.17, rec["totalAmount"])
	assert.Equal(t, 5.0, rec["totalQuantity"])
}
