package elaborate

import (
	"strconv"
	"strings"

	"github.com/VeriOpen/slang/internal/lexer"
	"github.com/VeriOpen/slang/internal/syntax"
)

// evalConstant evaluates a constant-expression subtree to an int64,
// supporting the subset of the expression grammar elaboration actually
// needs: integer literals (plain and based), unary +/-/~, and the
// arithmetic/logical/bitwise binary operators (spec's `$static_assert`
// condition, parameter/genvar initializers, and packed-dimension bounds
// are all constant-evaluable integer expressions in practice).
func (c *Compilation) evalConstant(tree *syntax.Tree, h nodeHandle) (int64, bool) {
	if h.IsNil() {
		return 0, false
	}
	n := tree.Get(h)
	switch n.Kind {
	case syntax.KindLiteralExpression:
		return c.evalLiteral(n.Children[0].Tok)
	case syntax.KindParenthesizedExpression:
		for _, ch := range n.Children {
			if !ch.IsToken {
				return c.evalConstant(tree, ch.Node)
			}
		}
	case syntax.KindUnaryExpression:
		op := n.Children[0].Tok.Kind
		v, ok := c.evalConstant(tree, n.Children[1].Node)
		if !ok {
			return 0, false
		}
		switch op {
		case lexer.TokenMinus:
			return -v, true
		case lexer.TokenPlus:
			return v, true
		case lexer.TokenTilde:
			return ^v, true
		case lexer.TokenBang:
			if v == 0 {
				return 1, true
			}
			return 0, true
		}
		return 0, false
	case syntax.KindBinaryExpression:
		lhs, ok := c.evalConstant(tree, n.Children[0].Node)
		if !ok {
			return 0, false
		}
		rhs, ok := c.evalConstant(tree, n.Children[2].Node)
		if !ok {
			return 0, false
		}
		return evalBinary(n.Children[1].Tok.Kind, lhs, rhs)
	}
	return 0, false
}

func evalBinary(op lexer.TokenKind, a, b int64) (int64, bool) {
	switch op {
	case lexer.TokenPlus:
		return a + b, true
	case lexer.TokenMinus:
		return a - b, true
	case lexer.TokenStar:
		return a * b, true
	case lexer.TokenSlash:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case lexer.TokenPercent:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case lexer.TokenAmp:
		return a & b, true
	case lexer.TokenPipe:
		return a | b, true
	case lexer.TokenCaret:
		return a ^ b, true
	case lexer.TokenLessLess, lexer.TokenLessLessLess:
		return a << uint(b), true
	case lexer.TokenGreaterGreater, lexer.TokenGreaterGreaterGreater:
		return a >> uint(b), true
	case lexer.TokenAmpAmp:
		return boolInt(a != 0 && b != 0), true
	case lexer.TokenPipePipe:
		return boolInt(a != 0 || b != 0), true
	case lexer.TokenEqualEqual, lexer.TokenEqualEqualEqual:
		return boolInt(a == b), true
	case lexer.TokenBangEqual, lexer.TokenBangEqualEqual:
		return boolInt(a != b), true
	case lexer.TokenLess:
		return boolInt(a < b), true
	case lexer.TokenLessEqual:
		return boolInt(a <= b), true
	case lexer.TokenGreater:
		return boolInt(a > b), true
	case lexer.TokenGreaterEqual:
		return boolInt(a >= b), true
	}
	return 0, false
}

func boolInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func (c *Compilation) evalLiteral(tok syntax.Token) (int64, bool) {
	lit := tok.Literal
	if lit == nil {
		raw := strings.ReplaceAll(c.text(tok), "_", "")
		v, err := strconv.ParseInt(raw, 10, 64)
		return v, err == nil
	}
	switch lit.Kind {
	case lexer.TokenIntLiteral:
		raw := strings.ReplaceAll(c.text(tok), "_", "")
		v, err := strconv.ParseInt(raw, 10, 64)
		return v, err == nil
	case lexer.TokenBasedIntLiteral:
		return parseBasedDigits(lit.Base, lit.Digits)
	case lexer.TokenUnbasedUnsizedLiteral:
		switch lit.UnsizedBit {
		case '0':
			return 0, true
		case '1':
			return 1, true
		default:
			return 0, false
		}
	}
	return 0, false
}

func parseBasedDigits(base byte, digits string) (int64, bool) {
	digits = strings.ReplaceAll(digits, "_", "")
	if digits == "" {
		return 0, false
	}
	var radix int
	switch base {
	case 'b':
		radix = 2
	case 'o':
		radix = 8
	case 'd', 0:
		radix = 10
	case 'h':
		radix = 16
	default:
		return 0, false
	}
	v, err := strconv.ParseInt(digits, radix, 64)
	if err != nil {
		v2, err2 := strconv.ParseUint(digits, radix, 64)
		if err2 != nil {
			return 0, false
		}
		return int64(v2), true
	}
	return v, true
}
