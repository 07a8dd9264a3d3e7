package koord

import "fmt"

type TokenKind int

const (
	ILLEGAL TokenKind = iota
	VARNAME
	UPPER
	INUM
	FNUM
	PID
	NUMAGENTS
	STRING
	TRUE
	FALSE

	// types
	INT
	FLOAT
	BOOL
	POS
	STRINGTYPE
	STREAM

	// operators
	PLUS
	MINUS
	STAR
	SLASH
	LT
	GT
	LE
	GE
	EQ
	NE
	AND
	OR
	NOT

	// declaration groups
	SENSORS
	ACTUATORS
	ALLREAD
	ALLWRITE
	LOCAL
)

func (t TokenKind) String() string {
	switch t {
	case ILLEGAL:
		return "ILLEGAL"
	case VARNAME:
		return "VARNAME"
	case UPPER:
		return "UPPER"
	case INUM:
		return "INUM"
	case FNUM:
		return "FNUM"
	case PID:
		return "pid"
	case NUMAGENTS:
		return "numAgents"
	case STRING:
		return "STRING"
	case TRUE:
		return "true"
	case FALSE:
		return "false"
	case INT:
		return "int"
	case FLOAT:
		return "float"
	case BOOL:
		return "bool"
	case POS:
		return "pos"
	case STRINGTYPE:
		return "string"
	case STREAM:
		return "stream"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case LT:
		return "<"
	case GT:
		return ">"
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "=="
	case NE:
		return "!="
	case AND:
		return "and"
	case OR:
		return "or"
	case NOT:
		return "not"
	case SENSORS:
		return "sensors"
	case ACTUATORS:
		return "actuators"
	case ALLREAD:
		return "allread"
	case ALLWRITE:
		return "allwrite"
	case LOCAL:
		return "local"
	}
	panic("unreachable")
}

var typeKeywords = map[string]TokenKind{
	"int":    INT,
	"float":  FLOAT,
	"bool":   BOOL,
	"pos":    POS,
	"string": STRINGTYPE,
	"stream": STREAM,
}

var operators = map[string]TokenKind{
	"+":   PLUS,
	"-":   MINUS,
	"*":   STAR,
	"/":   SLASH,
	"<":   LT,
	">":   GT,
	"<=":  LE,
	">=":  GE,
	"==":  EQ,
	"!=":  NE,
	"and": AND,
	"&&":  AND,
	"or":  OR,
	"||":  OR,
	"not": NOT,
	"!":   NOT,
}

var groups = map[string]TokenKind{
	"sensors":   SENSORS,
	"actuators": ACTUATORS,
	"allread":   ALLREAD,
	"allwrite":  ALLWRITE,
	"local":     LOCAL,
}

// LookupType classifies the type token of a declaration. Names starting
// with an upper case letter denote record types.
func LookupType(s string) TokenKind {
	if kind, ok := typeKeywords[s]; ok {
		return kind
	}
	if isUpper(s) {
		return UPPER
	}
	return ILLEGAL
}

func LookupOperator(s string) TokenKind {
	if kind, ok := operators[s]; ok {
		return kind
	}
	return ILLEGAL
}

func LookupGroup(s string) TokenKind {
	if kind, ok := groups[s]; ok {
		return kind
	}
	return ILLEGAL
}

func isUpper(s string) bool {
	if len(s) == 0 || !('A' <= s[0] && s[0] <= 'Z') {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isId(s[i]) && !isNum(s[i]) {
			return false
		}
	}
	return true
}

func isId(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') || c == '_'
}

func isNum(c byte) bool {
	return '0' <= c && c <= '9'
}

type Pos struct {
	Filename string
	Line     int
	Column   int
}

func (p Pos) String() string {
	if p.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

type Token struct {
	Pos
	Kind TokenKind
	Text string
}
