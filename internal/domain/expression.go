package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// exprTokenType identifies a lexical token of an arithmetic expression
type exprTokenType int

const (
	tokenEOF exprTokenType = iota
	tokenIllegal
	tokenNumber
	tokenPlus      // +
	tokenMinus     // -
	tokenStar      // *
	tokenSlash     // /
	tokenPercent   // %
	tokenPower     // **
	tokenIncrement // ++ (never valid)
	tokenDecrement // -- (never valid)
	tokenLeftParen
	tokenRightParen
)

type exprToken struct {
	Type  exprTokenType
	Value string
	Pos   int
}

func (t exprToken) describe() string {
	switch t.Type {
	case tokenEOF:
		return "end of expression"
	case tokenNumber:
		return fmt.Sprintf("number %q", t.Value)
	default:
		return fmt.Sprintf("token %q", t.Value)
	}
}

var (
	errExprDivisionByZero = errors.New("division by zero")
	errExprModuloByZero   = errors.New("modulo by zero")
)

// exprSyntaxError describes a malformed expression
type exprSyntaxError struct {
	Pos int
	Msg string
}

func (e *exprSyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos+1)
}

// exprLexer splits an expression into tokens. Whitespace must already be stripped.
type exprLexer struct {
	input string
	pos   int
}

func (l *exprLexer) next() exprToken {
	if l.pos >= len(l.input) {
		return exprToken{Type: tokenEOF, Pos: l.pos}
	}

	start := l.pos
	ch := l.input[l.pos]

	twoChar := func(second byte, double, single exprTokenType) exprToken {
		if l.pos+1 < len(l.input) && l.input[l.pos+1] == second {
			l.pos += 2
			return exprToken{Type: double, Value: l.input[start:l.pos], Pos: start}
		}
		l.pos++
		return exprToken{Type: single, Value: string(ch), Pos: start}
	}

	switch {
	case ch == '+':
		return twoChar('+', tokenIncrement, tokenPlus)
	case ch == '-':
		return twoChar('-', tokenDecrement, tokenMinus)
	case ch == '*':
		return twoChar('*', tokenPower, tokenStar)
	case ch == '/':
		l.pos++
		return exprToken{Type: tokenSlash, Value: "/", Pos: start}
	case ch == '%':
		l.pos++
		return exprToken{Type: tokenPercent, Value: "%", Pos: start}
	case ch == '(':
		l.pos++
		return exprToken{Type: tokenLeftParen, Value: "(", Pos: start}
	case ch == ')':
		l.pos++
		return exprToken{Type: tokenRightParen, Value: ")", Pos: start}
	case isDigit(ch) || ch == '.':
		return l.readNumber()
	default:
		l.pos++
		return exprToken{Type: tokenIllegal, Value: string(ch), Pos: start}
	}
}

// readNumber reads digits with at most one decimal point ("1", "1.5", ".5", "1.")
func (l *exprLexer) readNumber() exprToken {
	start := l.pos
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if !isDigit(ch) {
			break
		}
		l.pos++
	}

	value := l.input[start:l.pos]
	if value == "." {
		return exprToken{Type: tokenIllegal, Value: value, Pos: start}
	}
	return exprToken{Type: tokenNumber, Value: value, Pos: start}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// exprParser is a recursive-descent evaluator over float64.
//
// Grammar, lowest precedence first:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "**" unary ]
//	primary = number | "(" expr ")"
type exprParser struct {
	lexer *exprLexer
	tok   exprToken
}

// evaluateExpression evaluates a whitespace-free arithmetic expression.
// It returns *exprSyntaxError for malformed input and errExprDivisionByZero or
// errExprModuloByZero for a zero divisor.
func evaluateExpression(input string) (float64, error) {
	p := &exprParser{lexer: &exprLexer{input: input}}
	p.advance()

	if p.tok.Type == tokenEOF {
		return 0, &exprSyntaxError{Pos: 0, Msg: "empty expression"}
	}

	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}

	if p.tok.Type != tokenEOF {
		return 0, p.unexpected()
	}

	return result, nil
}

func (p *exprParser) advance() {
	p.tok = p.lexer.next()
}

func (p *exprParser) unexpected() error {
	return &exprSyntaxError{Pos: p.tok.Pos, Msg: "unexpected " + p.tok.describe()}
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}

	for p.tok.Type == tokenPlus || p.tok.Type == tokenMinus {
		op := p.tok.Type
		p.advance()

		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}

		if op == tokenPlus {
			left += right
		} else {
			left -= right
		}
	}

	return left, nil
}

// parseTerm handles * / and %.
// % is the floating-point remainder (math.Mod) with the sign of the dividend:
// 7.5 % 2 is 1.5, not the integer remainder 1, since operands are never truncated.
func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for p.tok.Type == tokenStar || p.tok.Type == tokenSlash || p.tok.Type == tokenPercent {
		op := p.tok.Type
		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}

		switch op {
		case tokenStar:
			left *= right
		case tokenSlash:
			if right == 0 {
				return 0, errExprDivisionByZero
			}
			left /= right
		case tokenPercent:
			if right == 0 {
				return 0, errExprModuloByZero
			}
			left = math.Mod(left, right)
		}
	}

	return left, nil
}

func (p *exprParser) parseUnary() (float64, error) {
	switch p.tok.Type {
	case tokenMinus:
		p.advance()
		v, err := p.parseUnary()
		return -v, err
	case tokenPlus:
		p.advance()
		return p.parseUnary()
	default:
		return p.parsePower()
	}
}

func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}

	if p.tok.Type != tokenPower {
		return base, nil
	}
	p.advance()

	// right associative: 2**3**2 == 2**(3**2)
	exp, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	return math.Pow(base, exp), nil
}

func (p *exprParser) parsePrimary() (float64, error) {
	switch p.tok.Type {
	case tokenNumber:
		v, err := strconv.ParseFloat(p.tok.Value, 64)
		if err != nil {
			return 0, &exprSyntaxError{Pos: p.tok.Pos, Msg: fmt.Sprintf("invalid number %q", p.tok.Value)}
		}
		p.advance()
		return v, nil

	case tokenLeftParen:
		p.advance()
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.tok.Type != tokenRightParen {
			return 0, &exprSyntaxError{Pos: p.tok.Pos, Msg: "unexpected " + p.tok.describe() + ", expecting \")\""}
		}
		p.advance()
		return v, nil

	default:
		return 0, p.unexpected()
	}
}
