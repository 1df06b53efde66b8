package ast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFile(t *testing.T) {
	src := `{
	  "path": "cyl.on",
	  "decls": [
	    {
	      "kind": "parameter",
	      "span": {"start": 0, "end": 20},
	      "parameter": {
	        "id": "D",
	        "name": "Diameter",
	        "value": {"kind": "number", "span": {"start": 13, "end": 16}, "number": 0.5},
	        "unit": [{"name": "km", "exp": 1, "span": {"start": 17, "end": 19}}]
	      }
	    },
	    {
	      "kind": "import-use",
	      "span": {"start": 21, "end": 40},
	      "target": "battery.on",
	      "with": [{"name": "margin", "alias": "delta", "span": {"start": 30, "end": 39}}]
	    }
	  ]
	}`

	f, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "cyl.on", f.Path)
	require.Len(t, f.Decls, 2)

	p := f.Decls[0].Parameter
	require.NotNil(t, p)
	assert.Equal(t, "D", p.ID)
	assert.Equal(t, 0.5, p.Value.Number)
	require.Len(t, p.Unit, 1)
	assert.Equal(t, "km", p.Unit[0].Name)

	use := f.Decls[1]
	assert.Equal(t, DeclImportUse, use.Kind)
	assert.Equal(t, "battery.on", use.Target)
	require.Len(t, use.With, 1)
	assert.Equal(t, "delta", use.With[0].Alias)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"path": "x", "bogus": 1}`))
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := &File{
		Path: "m.on",
		Decls: []Decl{
			{Kind: DeclParameter, Parameter: &ParameterDecl{
				ID:   "x",
				Name: "x",
				Value: &Expr{Kind: ExprBinary, Op: "|",
					Left:  &Expr{Kind: ExprNumber, Number: 1},
					Right: &Expr{Kind: ExprNumber, Number: 3},
				},
			}},
			{Kind: DeclTest, Test: &TestDecl{
				Expr:   &Expr{Kind: ExprCompare, Left: &Expr{Kind: ExprIdent, Ident: []string{"x"}}, Links: []CompareLink{{Op: "<", Expr: &Expr{Kind: ExprNumber, Number: 10}}}},
				Inputs: []string{"budget"},
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f))

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}
