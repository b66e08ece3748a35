package prepare

import (
	"strconv"
	"strings"

	"github.com/LEQO-Framework/leqo-backend/compiler/ast"
)

// evalConstInt evaluates e if it is a literal or a +, - or * combination of
// literals, the only constant expressions S3 needs to resolve sizes and
// slice bounds without a full classical evaluator.
func evalConstInt(e ast.Expr) (int, bool) {
	switch x := e.(type) {
	case *ast.IntLiteral:
		return int(x.Value), true
	case *ast.BinOp:
		l, ok1 := evalConstInt(x.Left)
		if x.Op == "u-" {
			return -l, ok1
		}

		r, ok2 := evalConstInt(x.Right)
		if !ok1 || !ok2 {
			return 0, false
		}

		switch x.Op {
		case "+":
			return l + r, true
		case "-":
			return l - r, true
		case "*":
			return l * r, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

// parseIndexArg parses the integer index out of an annotation's
// argument text, e.g. "@leqo.input 2" -> 2.
func parseIndexArg(args string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(args))
}
