package lexer

import "testing"

func TestReadChar(t *testing.T) {
	input := "class\npoint"
	l := New(input)

	if l.ch != 'c' {
		t.Errorf("first char wrong. expected='c', got='%c'", l.ch)
	}

	if l.line != 1 {
		t.Errorf("line number wrong. expected=1 got=%d", l.line)
	}

	for i := 0; i < 5; i++ {
		l.readChar()
	}

	if l.line != 1 {
		t.Errorf("line number after reading a newline char wrong (readChar does not count lines). expected=1 got=%d", l.line)
	}

	if l.column != 0 {
		t.Errorf("column after newline wrong. expected=0, got=%d", l.column)
	}
}

func TestNextToken(t *testing.T) {
	input := `class Point
	private x: number`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{CLASS, "class", 1},
		{IDENT, "Point", 1},
		{PRIVATE, "private", 2},
		{IDENT, "x", 2},
		{COLON, ":", 2},
		{IDENT, "number", 2},
		{EOF, "", 2},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype is wrong, expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal is wrong, expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line is wrong, expected=%d, got=%d",
				i, tt.expectedLine, tok.Line)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `=== !== == != && || ?? ++ -- += -= <= >= => ...`

	tests := []TokenType{
		EQ, NOT_EQ, LOOSE_EQ, LOOSE_NEQ, AND, OR, NULLISH,
		PLUS_PLUS, MINUS_MINUS, PLUS_EQ, MINUS_EQ, LT_EQ, GT_EQ, ARROW, SPREAD, EOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestStringTokens(t *testing.T) {
	input := `"simple string"
    "string with \"quotes\""
    "string with \n newline"
    'single quoted'`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{STRING, "simple string"},
		{STRING, "string with \"quotes\""},
		{STRING, "string with \n newline"},
		{STRING, "single quoted"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTemplateLiteral(t *testing.T) {
	l := New("`hi ${name}!`")

	head := l.NextToken()
	if head.Type != TEMPLATE_HEAD || head.Literal != "hi " {
		t.Fatalf("expected TEMPLATE_HEAD %q, got %q %q", "hi ", head.Type, head.Literal)
	}

	ident := l.NextToken()
	if ident.Type != IDENT || ident.Literal != "name" {
		t.Fatalf("expected identifier name, got %q %q", ident.Type, ident.Literal)
	}

	// The caller consumes the `}` closing the span before asking for the
	// next quasi, as the parser does.
	rbrace := l.NextToken()
	if rbrace.Type != RBRACE {
		t.Fatalf("expected RBRACE closing the span, got %q %q", rbrace.Type, rbrace.Literal)
	}

	tail := l.ReadTemplateContinuation()
	if tail.Type != TEMPLATE_TAIL || tail.Literal != "!" {
		t.Fatalf("expected TEMPLATE_TAIL %q, got %q %q", "!", tail.Type, tail.Literal)
	}
}

func TestComments(t *testing.T) {
	input := `// single line comment
let x = 5 // inline comment
/* multi
line
comment */
let y = 10`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{LET, "let", 2},
		{IDENT, "x", 2},
		{ASSIGN, "=", 2},
		{NUMBER, "5", 2},
		{LET, "let", 6},
		{IDENT, "y", 6},
		{ASSIGN, "=", 6},
		{NUMBER, "10", 6},
		{EOF, "", 6},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Errorf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Errorf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
		if tok.Line != tt.expectedLine {
			t.Errorf("tests[%d] - line number wrong. expected=%d, got=%d", i, tt.expectedLine, tok.Line)
		}
	}
}
