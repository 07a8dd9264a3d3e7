package koord_test

import (
	"errors"
	"testing"

	"koord"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const records = `
- adt:
    name: Point
    fields:
      - {type: float, name: x}
      - {type: float, name: y}
- adt:
    name: Segment
    fields:
      - {type: Point, name: from}
      - {type: Point, name: to}
      - {type: int, dims: 1, name: marks}
- module:
    name: Motion
    body:
      - actuators:
          - {type: Point, name: home}
- local:
    - {type: Point, name: p}
    - {type: Segment, name: seg}
    - {type: int, name: n}
`

type resolveTest struct {
	text     string
	expected koord.Type
}

var resolveTests = []resolveTest{
	{"n", koord.IntType},
	{"p", &koord.CustomType{Name: "Point"}},
	{"p.x", koord.FloatType},
	{"seg.from", &koord.CustomType{Name: "Point"}},
	{"seg.to.y", koord.FloatType},
	{"seg.marks", koord.ArrayOf(koord.IntType)},
	{"Motion.home", &koord.CustomType{Name: "Point"}},
}

var unresolvedTests = []string{
	"q",
	"p.z",
	"n.x",
	"seg.to.z",
	"seg.marks.x",
	"seg.from.x.y",
	"Motion",
	"Motion.away",
	"Motion.home.x",
	"Motion.home.z",
}

func TestResolve(t *testing.T) {
	table := analyze(t, records)
	require.True(t, table.IsValid())
	for _, tt := range resolveTests {
		typ, err := table.Resolve(tt.text)
		if assert.NoError(t, err, tt.text) {
			assert.Equal(t, tt.expected, typ, tt.text)
		}
	}
	for _, text := range unresolvedTests {
		_, err := table.Resolve(text)
		var unresolved *koord.UnresolvedError
		if assert.True(t, errors.As(err, &unresolved), text) {
			assert.Equal(t, text, unresolved.Text)
		}
	}
}

func TestResolveWithModuleHeads(t *testing.T) {
	conf := koord.DefaultConfig()
	conf.ModuleHeads = true
	table := analyze(t, records, koord.WithConfig(conf))
	typ, err := table.Resolve("Motion.home.x")
	require.NoError(t, err)
	assert.Equal(t, koord.FloatType, typ)
	_, err = table.Resolve("Motion.home.z")
	assert.Error(t, err)
	_, err = table.Resolve("Motion.away.x")
	assert.Error(t, err)
}

func TestModuleQualifiedChainHead(t *testing.T) {
	src := records + `
- event:
    name: e
    eff:
      - assign: {target: Motion.home.x, value: 1.0}
`
	table := analyze(t, src)
	assert.Equal(t, []string{"Motion.home.x"}, koord.Names(table.Diagnostics.Unresolved))
	assert.Contains(t, table.Diagnostics.Unresolved[0].Msg, "Motion is not declared")
	assert.False(t, table.IsValid())

	conf := koord.DefaultConfig()
	conf.ModuleHeads = true
	table = analyze(t, src, koord.WithConfig(conf))
	assert.True(t, table.IsValid())
}

func TestUndeclaredBareName(t *testing.T) {
	table := analyze(t, records+`
- event:
    name: e
    eff:
      - assign: {target: n, value: ghost}
`)
	require.Len(t, table.Diagnostics.Unresolved, 1)
	diag := table.Diagnostics.Unresolved[0]
	assert.Equal(t, "ghost", diag.Name)
	assert.Equal(t, koord.UnresolvedSymbol, diag.Kind)
	assert.IsType(t, &koord.VarExpr{}, diag.Node)
	assert.Empty(t, table.Diagnostics.TypeMismatches)
}

func TestUnresolvedReferenceSites(t *testing.T) {
	table := analyze(t, records+`
- local:
    - {type: int, name: m, init: {op: "+", left: n, right: a1}}
- event:
    name: e
    pre: {op: and, args: [b1, {op: "<", left: c1, right: 1}]}
    eff:
      - assign: {target: d1, value: 1}
      - assign: {target: seg.marks, index: e1, value: 1}
      - if:
          cond: f1
          else:
            - call: {name: undeclaredFunction, args: [p.w]}
      - atomic:
          - stream: {args: [g1]}
`)
	assert.Equal(t, []string{"a1", "b1", "c1", "d1", "e1", "f1", "p.w", "g1"},
		koord.Names(table.Diagnostics.Unresolved))
}

func TestUnresolvedFieldChain(t *testing.T) {
	table := analyze(t, records+`
- event:
    name: e
    eff:
      - assign: {target: p.z, value: 1.0}
      - assign: {target: n.x, value: 1}
`)
	assert.Equal(t, []string{"p.z", "n.x"}, koord.Names(table.Diagnostics.Unresolved))
	assert.Contains(t, table.Diagnostics.Unresolved[0].Msg, "record type Point has no field z")
}
