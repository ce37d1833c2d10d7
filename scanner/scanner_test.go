package scanner

import (
	"reflect"
	"testing"

	"github.com/gregor-rust/loxwalk/token"
)

func kinds(toks []token.Token) []token.TokenKind {
	out := make([]token.TokenKind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func wantKinds(t *testing.T, source string, want []token.TokenKind) []token.Token {
	t.Helper()
	toks, errs := ScanTokens(source)
	if len(errs) != 0 {
		t.Fatalf("unexpected scan errors for %q: %v", source, errs)
	}
	got := kinds(toks)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("source %q:\nwant %v\ngot  %v", source, want, got)
	}
	return toks
}

func TestScanTokens_Punctuation(t *testing.T) {
	wantKinds(t, "(){},.-+;*/", []token.TokenKind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.STAR, token.SLASH, token.END_OF_FILE,
	})
}

func TestScanTokens_TwoCharOperators(t *testing.T) {
	wantKinds(t, "! != = == < <= > >=", []token.TokenKind{
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.END_OF_FILE,
	})
}

func TestScanTokens_Keywords(t *testing.T) {
	toks := wantKinds(t, "class fun", []token.TokenKind{token.CLASS, token.FUN, token.END_OF_FILE})
	if toks[0].Lexeme != "class" {
		t.Fatalf("want lexeme 'class', got %q", toks[0].Lexeme)
	}
}

func TestScanTokens_IdentifierNotKeyword(t *testing.T) {
	toks := wantKinds(t, "classroom", []token.TokenKind{token.IDENTIFIER, token.END_OF_FILE})
	if toks[0].Lexeme != "classroom" {
		t.Fatalf("want lexeme 'classroom', got %q", toks[0].Lexeme)
	}
}

func TestScanTokens_StringLiteral(t *testing.T) {
	toks := wantKinds(t, `"hello world"`, []token.TokenKind{token.STRING, token.END_OF_FILE})
	if toks[0].Literal != "hello world" {
		t.Fatalf("want literal %q, got %#v", "hello world", toks[0].Literal)
	}
}

func TestScanTokens_UnterminatedString(t *testing.T) {
	_, errs := ScanTokens(`"unterminated`)
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestScanTokens_NumberLiteral(t *testing.T) {
	toks := wantKinds(t, "3.14", []token.TokenKind{token.NUMBER, token.END_OF_FILE})
	if toks[0].Literal != 3.14 {
		t.Fatalf("want literal 3.14, got %#v", toks[0].Literal)
	}
}

func TestScanTokens_IntegerLiteralHasNoTrailingDot(t *testing.T) {
	toks := wantKinds(t, "42.", []token.TokenKind{token.NUMBER, token.DOT, token.END_OF_FILE})
	if toks[0].Literal != 42.0 {
		t.Fatalf("want literal 42, got %#v", toks[0].Literal)
	}
}

func TestScanTokens_LineComment(t *testing.T) {
	wantKinds(t, "var x = 1; // a trailing remark\nvar y = 2;", []token.TokenKind{
		token.VAR, token.IDENTIFIER, token.EQUAL, token.NUMBER, token.SEMICOLON,
		token.VAR, token.IDENTIFIER, token.EQUAL, token.NUMBER, token.SEMICOLON,
		token.END_OF_FILE,
	})
}

func TestScanTokens_BlockCommentDoesNotNest(t *testing.T) {
	// The inner "/*" is just text inside the outer comment; the first "*/"
	// closes it, leaving `x` and a stray "*" and "/" afterward.
	toks, errs := ScanTokens("/* outer /* inner */ x */")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	got := kinds(toks)
	want := []token.TokenKind{token.IDENTIFIER, token.STAR, token.SLASH, token.END_OF_FILE}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestScanTokens_UnterminatedBlockComment(t *testing.T) {
	_, errs := ScanTokens("/* never closed")
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
}

func TestScanTokens_LineNumbersAdvanceAcrossNewlines(t *testing.T) {
	toks, errs := ScanTokens("var a = 1;\nvar b = 2;\nvar c = 3;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var lines []int
	for _, tok := range toks {
		if tok.Kind == token.VAR {
			lines = append(lines, tok.Line)
		}
	}
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("want var lines %v, got %v", want, lines)
	}
}

func TestScanTokens_UnexpectedCharacterIsRecordedAndSkipped(t *testing.T) {
	toks, errs := ScanTokens("var a = 1; @ var b = 2;")
	if len(errs) != 1 {
		t.Fatalf("want 1 error, got %d: %v", len(errs), errs)
	}
	// Scanning continues past the bad character instead of aborting.
	last := toks[len(toks)-1]
	if last.Kind != token.END_OF_FILE {
		t.Fatalf("want scan to reach EOF, last token was %v", last.Kind)
	}
}
