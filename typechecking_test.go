package koord_test

import (
	"testing"

	"koord"

	"github.com/stretchr/testify/assert"
)

const typedLocals = `
- adt:
    name: Point
    fields:
      - {type: float, name: x}
- local:
    - {type: int, name: a}
    - {type: int, name: b}
    - {type: int, name: r}
    - {type: float, name: fl}
    - {type: bool, name: flag}
    - {type: string, name: s}
    - {type: pos, name: where}
    - {type: int, dims: 1, name: arr}
    - {type: int, dims: 2, name: grid}
    - {type: stream, name: out}
    - {type: Point, name: p}
    - {type: Point, dims: 1, name: pts}
`

type checkTest struct {
	name       string
	stmts      string
	mismatches int
}

var checkTests = []checkTest{
	{"int plus int", `assign: {target: r, value: {op: "+", left: a, right: b}}`, 0},
	{"int plus string", `assign: {target: s, value: {op: "+", left: a, right: s}}`, 0},
	{"string plus bool", `assign: {target: s, value: {op: "+", left: s, right: flag}}`, 0},
	{"bool plus string", `assign: {target: s, value: {op: "+", left: flag, right: s}}`, 0},
	{"int plus bool", `assign: {target: r, value: {op: "+", left: a, right: flag}}`, 1},
	{"int minus string", `assign: {target: r, value: {op: "-", left: a, right: s}}`, 1},
	{"mismatch keeps left type", `assign: {target: fl, value: {op: "*", left: {op: "*", left: fl, right: a}, right: 2.0}}`, 1},
	{"float literal", `assign: {target: fl, value: 2.5}`, 0},
	{"int literal to float", `assign: {target: fl, value: 2}`, 1},
	{"pid is int", `assign: {target: r, value: pid}`, 0},
	{"numAgents is int", `assign: {target: r, value: {op: "-", left: numAgents, right: 1}}`, 0},
	{"string literal", `assign: {target: s, value: {str: hello}}`, 0},
	{"string to int", `assign: {target: r, value: {str: hello}}`, 1},
	{"grouped", `assign: {target: r, value: {group: {op: "+", left: a, right: 1}}}`, 0},
	{"index array", `assign: {target: r, value: {var: arr, index: a}}`, 0},
	{"index non-array", `assign: {target: r, value: {var: a, index: b}}`, 1},
	{"index with float", `assign: {target: r, value: {var: arr, index: fl}}`, 1},
	{"index with float into non-array", `assign: {target: r, value: {var: a, index: fl}}`, 2},
	{"index nested array", `assign: {target: arr, value: {var: grid, index: 0}}`, 0},
	{"index record array field", `assign: {target: fl, value: {var: pts, index: 0}}`, 1},
	{"index then add", `assign: {target: r, value: {op: "+", left: {var: arr, index: 1}, right: 2}}`, 0},
	{"assign element", `assign: {target: arr, index: a, value: 3}`, 0},
	{"assign element wrong type", `assign: {target: arr, index: a, value: 3.5}`, 1},
	{"assign element of non-array", `assign: {target: r, index: a, value: 3}`, 1},
	{"assign whole array", `assign: {target: arr, value: 3}`, 1},
	{"assign record field", `assign: {target: p.x, value: 1.0}`, 0},
	{"assign record field wrong type", `assign: {target: p.x, value: 1}`, 1},
	{"assign record", `assign: {target: p, value: p}`, 0},
	{"assign pos", `assign: {target: where, value: where}`, 0},
	{"call result is unknown", `assign: {target: r, value: {call: {name: f, args: [fl, s]}}}`, 0},
	{"call result in expression", `assign: {target: r, value: {op: "+", left: flag, right: {call: {name: f}}}}`, 0},
	{"call result as index", `assign: {target: r, value: {var: arr, index: {call: {name: f}}}}`, 0},
	{"comparison is bool", `assign: {target: flag, value: {op: "<", left: a, right: fl}}`, 0},
	{"bool to int", `assign: {target: r, value: {op: and, args: [flag, true]}}`, 1},
	{"bool literal", `assign: {target: flag, value: false}`, 0},
	{"stream to stream", `stream: {var: out, args: [a, s]}`, 0},
	{"stream to int", `stream: {var: a, args: [s]}`, 1},
	{"default stream", `stream: {args: [a]}`, 0},
	{"call statement", `call: {name: f, args: [{op: "+", left: a, right: flag}]}`, 1},
	{"if condition", `if: {cond: {op: or, args: [flag, {op: "==", left: a, right: b}]}, then: [{assign: {target: r, value: fl}}]}`, 1},
}

func TestCheckTypes(t *testing.T) {
	for _, tt := range checkTests {
		t.Run(tt.name, func(t *testing.T) {
			table := analyze(t, typedLocals+`
- event:
    name: e
    eff:
      - `+tt.stmts+`
`)
			assert.Empty(t, table.Diagnostics.Unresolved)
			assert.Len(t, table.Diagnostics.TypeMismatches, tt.mismatches)
			for _, d := range table.Diagnostics.TypeMismatches {
				assert.Empty(t, d.Name)
				assert.NotNil(t, d.Node)
			}
		})
	}
}

func TestMismatchAttributedToNode(t *testing.T) {
	table := analyze(t, typedLocals+`
- event:
    name: e
    eff:
      - assign: {target: r, value: {op: "+", left: a, right: flag}}
      - assign: {target: r, value: 1.5}
      - stream: {var: a}
`)
	nodes := []koord.Node{}
	for _, d := range table.Diagnostics.TypeMismatches {
		nodes = append(nodes, d.Node)
	}
	if assert.Len(t, nodes, 3) {
		assert.IsType(t, &koord.BinaryExpr{}, nodes[0])
		assert.IsType(t, &koord.AssignStmt{}, nodes[1])
		assert.IsType(t, &koord.StreamStmt{}, nodes[2])
	}
}

func TestStackClearedBetweenStatements(t *testing.T) {
	table := analyze(t, typedLocals+`
- event:
    name: e
    eff:
      - stream: {var: out, args: [s, fl, flag]}
      - call: {name: f, args: [a]}
      - assign: {target: r, value: {call: {name: g}}}
      - if:
          cond: {op: "<", left: a, right: b}
          then:
            - assign: {target: r, value: a}
      - assign: {target: arr, index: {op: "+", left: a, right: 1}, value: b}
`)
	assert.True(t, table.IsValid())
}

func TestInitializers(t *testing.T) {
	table := analyze(t, `
- local:
    - {type: int, name: tries, init: 1}
    - {type: float, name: speed, init: 1}
    - {type: bool, name: ready, init: {op: ">", left: tries, right: 0}}
    - {type: string, name: label, init: {op: "+", left: {str: "try "}, right: tries}}
    - {type: int, name: guess, init: {call: {name: rand}}}
`)
	if assert.Len(t, table.Diagnostics.TypeMismatches, 1) {
		d := table.Diagnostics.TypeMismatches[0]
		assert.IsType(t, &koord.Decl{}, d.Node)
		assert.Equal(t, "speed", d.Node.(*koord.Decl).Name.Text)
	}
}
