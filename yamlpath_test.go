package yamlpath_test

import (
	"testing"

	"github.com/go-yamlpath/yamlpath"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustDoc(t *testing.T, src string) *yamlpath.Document {
	t.Helper()
	var root yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &root))
	return yamlpath.NewDocument(&root)
}

func values(t *testing.T, nodes []*yaml.Node) []string {
	t.Helper()
	var out []string
	for _, n := range nodes {
		out = append(out, n.Value)
	}
	return out
}

// Table of representative path-evaluation scenarios.
func TestScenarios(t *testing.T) {
	cases := []struct {
		name     string
		doc      string
		path     string
		expected []string
	}{
		{
			name:     "comma of siblings",
			doc:      "a: 1\nb: 2\nc: 3\n",
			path:     "/a,b,c",
			expected: []string{"1", "2", "3"},
		},
		{
			name:     "slice",
			doc:      "items: [10, 20, 30, 40]\n",
			path:     "/items/1:3",
			expected: []string{"20", "30"},
		},
		{
			name:     "negative index never matches",
			doc:      "items: [10, 20, 30]\n",
			path:     "/items/-1",
			expected: nil,
		},
		{
			name:     "nested mapping chain",
			doc:      "a: {b: {c: 7}}\n",
			path:     "/a/b/c",
			expected: []string{"7"},
		},
		{
			name:     "every leaf, pre-order",
			doc:      "a: {b: 1, c: [ {d: 2}, {d: 3} ] }\n",
			path:     "/**$",
			expected: []string{"1", "2", "3"},
		},
		{
			name:     "alias start",
			doc:      "x: &A {k: 9}\n",
			path:     "*A/k",
			expected: []string{"9"},
		},
		{
			name:     "scalar filter",
			doc:      "a: 1\n",
			path:     "/a$",
			expected: []string{"1"},
		},
		{
			name:     "missing key yields empty, not an error",
			doc:      "a: 1\nb: 2\n",
			path:     "/missing_key",
			expected: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := mustDoc(t, tc.doc)
			expr, err := yamlpath.Compile(tc.path)
			require.NoError(t, err)
			results, err := yamlpath.Eval(expr, doc, doc.Root())
			require.NoError(t, err)
			require.Equal(t, tc.expected, values(t, results.Nodes()))
		})
	}
}

func TestRootAlone(t *testing.T) {
	doc := mustDoc(t, "root: {a: 1}\n")
	expr, err := yamlpath.Compile("/")
	require.NoError(t, err)
	results, err := yamlpath.Eval(expr, doc, doc.Root())
	require.NoError(t, err)
	require.Equal(t, 1, results.Len())
	require.Equal(t, yaml.MappingNode, results.Nodes()[0].Kind)
}

func TestCollectionFilter(t *testing.T) {
	doc := mustDoc(t, "a: {b: 1}\n")
	expr, err := yamlpath.Compile("/a%")
	require.NoError(t, err)
	results, err := yamlpath.Eval(expr, doc, doc.Root())
	require.NoError(t, err)
	require.Equal(t, 1, results.Len())
	require.Equal(t, yaml.MappingNode, results.Nodes()[0].Kind)
}

func TestSiblingLookup(t *testing.T) {
	doc := mustDoc(t, "a: 1\nb: 2\n")
	expr, err := yamlpath.Compile("/a")
	require.NoError(t, err)
	first, err := yamlpath.Eval(expr, doc, doc.Root())
	require.NoError(t, err)
	require.Equal(t, 1, first.Len())

	sib, err := yamlpath.Compile(":b")
	require.NoError(t, err)
	second, err := yamlpath.Eval(sib, doc, first.Nodes()[0])
	require.NoError(t, err)
	require.Equal(t, []string{"2"}, values(t, second.Nodes()))
}

func TestFlowMapKey(t *testing.T) {
	doc := mustDoc(t, "? {x: 1}\n: answer\n")
	expr, err := yamlpath.Compile(`/{x: 1}`)
	require.NoError(t, err)
	results, err := yamlpath.Eval(expr, doc, doc.Root())
	require.NoError(t, err)
	require.Equal(t, []string{"answer"}, values(t, results.Nodes()))
}

func TestDedupAcrossMulti(t *testing.T) {
	doc := mustDoc(t, "a: &v 1\nb: *v\n")
	expr, err := yamlpath.Compile("/a,b")
	require.NoError(t, err)
	results, err := yamlpath.Eval(expr, doc, doc.Root())
	require.NoError(t, err)
	// a and b alias the same scalar node; dedup keeps first occurrence only.
	require.Equal(t, []string{"1"}, values(t, results.Nodes()))
}

func TestParentInverse(t *testing.T) {
	doc := mustDoc(t, "a: {b: 1}\n")
	expr, err := yamlpath.Compile("/a/b/..")
	require.NoError(t, err)
	results, err := yamlpath.Eval(expr, doc, doc.Root())
	require.NoError(t, err)
	require.Equal(t, 1, results.Len())
	require.Equal(t, yaml.MappingNode, results.Nodes()[0].Kind)
}

func TestCompileErrors(t *testing.T) {
	cases := []string{
		"/a,",    // comma missing right operand
		"/:$",    // sibling with no operand (a filter follows, not a key)
		"/items/-9999999999999999", // overflows int32
	}
	for _, p := range cases {
		_, err := yamlpath.Compile(p)
		require.Error(t, err, p)
	}
}
