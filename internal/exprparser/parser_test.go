package exprparser_test

import (
	"testing"

	"github.com/go-yamlpath/yamlpath/internal/exprparser"
	"github.com/go-yamlpath/yamlpath/internal/pathh"
	"github.com/stretchr/testify/require"
)

func TestParseShapes(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{path: "/", want: "^"},
		{path: "/a", want: "^/a"},
		{path: "/a/b/c", want: "^/a/b/c"},
		{path: "/a,b,c", want: "^/a,b,c"},
		{path: "/a$", want: "^/a/$"},
		{path: "/a%", want: "^/a/%"},
		{path: ":b", want: "../b"},
		{path: "/a/b/..", want: "^/a/b/.."},
		{path: "*A/k", want: "*A/k"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			expr, err := exprparser.Parse(tc.path)
			require.NoError(t, err)
			require.Equal(t, tc.want, expr.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		path     string
		wantKind pathh.ErrorKind
	}{
		{path: "/a,", wantKind: pathh.PathUnsupported},
		{path: "/:$", wantKind: pathh.PathUnsupported},
		{path: "/items/-9999999999999999", wantKind: pathh.Overflow},
		{path: "/@", wantKind: pathh.PathSyntax},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			_, err := exprparser.Parse(tc.path)
			require.Error(t, err)
			perr, ok := err.(*pathh.Error)
			require.True(t, ok)
			require.Equal(t, tc.wantKind, perr.Kind)
		})
	}
}

func TestParseSeqSliceAndIndex(t *testing.T) {
	expr, err := exprparser.Parse("/items/1:3")
	require.NoError(t, err)
	require.Equal(t, "^/items/1:3", expr.String())

	expr, err = exprparser.Parse("/items/2")
	require.NoError(t, err)
	require.Equal(t, "^/items/2", expr.String())
}
