package lexer_test

import (
	"testing"

	"github.com/go-yamlpath/yamlpath/internal/lexer"
	"github.com/go-yamlpath/yamlpath/internal/pathh"
	"github.com/stretchr/testify/require"
)

func tokenTypes(t *testing.T, path string) []pathh.TokenType {
	t.Helper()
	lx := lexer.New(path)
	var types []pathh.TokenType
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		types = append(types, tok.Type)
		if tok.Type == pathh.StreamEnd {
			return types
		}
	}
}

func TestTokenSequence(t *testing.T) {
	cases := []struct {
		path string
		want []pathh.TokenType
	}{
		{
			path: "/a",
			want: []pathh.TokenType{pathh.StreamStart, pathh.Slash, pathh.MapKeySimple, pathh.StreamEnd},
		},
		{
			path: "/a,b,c",
			want: []pathh.TokenType{
				pathh.StreamStart, pathh.Slash, pathh.MapKeySimple, pathh.Comma,
				pathh.MapKeySimple, pathh.Comma, pathh.MapKeySimple, pathh.StreamEnd,
			},
		},
		{
			path: "/items/1:3",
			want: []pathh.TokenType{
				pathh.StreamStart, pathh.Slash, pathh.MapKeySimple, pathh.Slash,
				pathh.SeqSliceTok, pathh.StreamEnd,
			},
		},
		{
			path: "*A/k",
			want: []pathh.TokenType{pathh.StreamStart, pathh.AliasTok, pathh.Slash, pathh.MapKeySimple, pathh.StreamEnd},
		},
		{
			path: "/**$",
			want: []pathh.TokenType{pathh.StreamStart, pathh.Slash, pathh.EveryChildR, pathh.ScalarFilter, pathh.StreamEnd},
		},
		{
			path: "/a%",
			want: []pathh.TokenType{pathh.StreamStart, pathh.Slash, pathh.MapKeySimple, pathh.CollectionFilter, pathh.StreamEnd},
		},
		{
			path: "/[]",
			want: []pathh.TokenType{pathh.StreamStart, pathh.Slash, pathh.SeqFilter, pathh.StreamEnd},
		},
		{
			path: "/{}",
			want: []pathh.TokenType{pathh.StreamStart, pathh.Slash, pathh.MapFilter, pathh.StreamEnd},
		},
		{
			path: ":b",
			want: []pathh.TokenType{pathh.StreamStart, pathh.Sibling, pathh.MapKeySimple, pathh.StreamEnd},
		},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			require.Equal(t, tc.want, tokenTypes(t, tc.path))
		})
	}
}

func TestStreamEndIsIdempotent(t *testing.T) {
	lx := lexer.New("/a")
	for i := 0; i < 3; i++ {
		_, err := lx.Next()
		require.NoError(t, err)
	}
	first, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, pathh.StreamEnd, first.Type)
	second, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, pathh.StreamEnd, second.Type)
}

func TestSeqIndexNegative(t *testing.T) {
	lx := lexer.New("/items/-1")
	var last *pathh.TokenType
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		if tok.Type == pathh.SeqIndexTok {
			require.Equal(t, -1, tok.Int)
		}
		last = &tok.Type
		if tok.Type == pathh.StreamEnd {
			break
		}
	}
	require.Equal(t, pathh.StreamEnd, *last)
}

func TestSeqSliceOpenEnded(t *testing.T) {
	lx := lexer.New("/items/2:")
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		if tok.Type == pathh.SeqSliceTok {
			require.Equal(t, 2, tok.SliceStart)
			require.True(t, tok.SliceEnd.IsInf)
		}
		if tok.Type == pathh.StreamEnd {
			break
		}
	}
}

func TestFlowMapKeyParsesFragment(t *testing.T) {
	lx := lexer.New(`/{x: 1}`)
	var frag bool
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		if tok.Type == pathh.MapKeyFlow {
			require.NotNil(t, tok.Frag)
			frag = true
		}
		if tok.Type == pathh.StreamEnd {
			break
		}
	}
	require.True(t, frag)
}

func TestOverflowingIndexIsError(t *testing.T) {
	lx := lexer.New("/items/-9999999999999999")
	var sawErr bool
	for {
		tok, err := lx.Next()
		if err != nil {
			sawErr = true
			perr, ok := err.(*pathh.Error)
			require.True(t, ok)
			require.Equal(t, pathh.Overflow, perr.Kind)
			break
		}
		if tok.Type == pathh.StreamEnd {
			break
		}
	}
	require.True(t, sawErr)
}

func TestUnterminatedQuotedKeyIsTruncated(t *testing.T) {
	lx := lexer.New(`/"unterminated`)
	var sawErr bool
	for {
		tok, err := lx.Next()
		if err != nil {
			sawErr = true
			perr, ok := err.(*pathh.Error)
			require.True(t, ok)
			require.Equal(t, pathh.Truncated, perr.Kind)
			break
		}
		if tok.Type == pathh.StreamEnd {
			break
		}
	}
	require.True(t, sawErr)
}
