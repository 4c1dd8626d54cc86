package sq

import (
	"math"
	"strings"

	"github.com/sq-lang/sq/dataset"
)

// cell is a single evaluated value produced while walking the engine
// expression tree against a loaded DataSet (or, for the no-FROM branch,
// against no data at all).
type cell struct {
	Kind dataset.Kind
	F64  float64
	Bool bool
	Str  string
	Null bool
}

// exprKind statically determines the column kind an expression produces,
// without evaluating any row — needed to size a projection column's
// builder before its values are computed.
func exprKind(e Expr, ds *dataset.DataSet) (dataset.Kind, error) {
	switch v := e.(type) {
	case Column:
		idx, ok := ds.ColumnIndex(v.Name)
		if !ok {
			return 0, EngineError("no such column %q", v.Name)
		}
		return ds.Fields()[idx].Kind, nil
	case Literal:
		return literalKind(v.Kind), nil
	case BinaryExpr:
		if isArithmetic(v.Op) {
			return dataset.KindFloat64, nil
		}
		return dataset.KindBool, nil
	default:
		return 0, EngineError("cannot determine type of %T", e)
	}
}

func literalKind(k LiteralKind) dataset.Kind {
	switch k {
	case LitBool:
		return dataset.KindBool
	case LitUtf8:
		return dataset.KindString
	default:
		return dataset.KindFloat64
	}
}

func isArithmetic(op Operator) bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return true
	default:
		return false
	}
}

func isLogical(op Operator) bool {
	switch op {
	case OpAnd, OpOr, OpXor:
		return true
	default:
		return false
	}
}

// evalRow evaluates e against row of ds.
func evalRow(e Expr, ds *dataset.DataSet, row int) (cell, error) {
	switch v := e.(type) {
	case Column:
		idx, ok := ds.ColumnIndex(v.Name)
		if !ok {
			return cell{}, EngineError("no such column %q", v.Name)
		}
		kind := ds.Fields()[idx].Kind
		switch kind {
		case dataset.KindFloat64:
			f, ok := ds.Float64At(idx, row)
			return cell{Kind: kind, F64: f, Null: !ok}, nil
		case dataset.KindBool:
			b, ok := ds.BoolAt(idx, row)
			return cell{Kind: kind, Bool: b, Null: !ok}, nil
		default:
			s, ok := ds.StringAt(idx, row)
			return cell{Kind: kind, Str: s, Null: !ok}, nil
		}
	case Literal:
		return evalLiteral(v), nil
	case BinaryExpr:
		l, err := evalRow(v.Left, ds, row)
		if err != nil {
			return cell{}, err
		}
		r, err := evalRow(v.Right, ds, row)
		if err != nil {
			return cell{}, err
		}
		return applyOp(v.Op, l, r)
	default:
		return cell{}, EngineError("cannot evaluate %T", e)
	}
}

// evalConst evaluates e with no row context at all, for the no-FROM
// branch: only literals and binary operations over literals make sense
// without a source table.
func evalConst(e Expr) (cell, error) {
	switch v := e.(type) {
	case Literal:
		return evalLiteral(v), nil
	case BinaryExpr:
		l, err := evalConst(v.Left)
		if err != nil {
			return cell{}, err
		}
		r, err := evalConst(v.Right)
		if err != nil {
			return cell{}, err
		}
		return applyOp(v.Op, l, r)
	default:
		return cell{}, AstError("%T requires a FROM clause", e)
	}
}

func evalLiteral(l Literal) cell {
	switch l.Kind {
	case LitBool:
		return cell{Kind: dataset.KindBool, Bool: l.Bool}
	case LitUtf8:
		return cell{Kind: dataset.KindString, Str: l.Str}
	default:
		return cell{Kind: dataset.KindFloat64, F64: l.F64}
	}
}

func applyOp(op Operator, l, r cell) (cell, error) {
	if l.Null || r.Null {
		return cell{Null: true}, nil
	}
	switch {
	case isArithmetic(op):
		if l.Kind != dataset.KindFloat64 || r.Kind != dataset.KindFloat64 {
			return cell{}, EngineError("operator %s requires numeric operands", op)
		}
		var f float64
		switch op {
		case OpAdd:
			f = l.F64 + r.F64
		case OpSub:
			f = l.F64 - r.F64
		case OpMul:
			f = l.F64 * r.F64
		case OpDiv:
			f = l.F64 / r.F64
		case OpMod:
			f = math.Mod(l.F64, r.F64)
		}
		return cell{Kind: dataset.KindFloat64, F64: f}, nil
	case isLogical(op):
		if l.Kind != dataset.KindBool || r.Kind != dataset.KindBool {
			return cell{}, EngineError("operator %s requires boolean operands", op)
		}
		var b bool
		switch op {
		case OpAnd:
			b = l.Bool && r.Bool
		case OpOr:
			b = l.Bool || r.Bool
		case OpXor:
			b = l.Bool != r.Bool
		}
		return cell{Kind: dataset.KindBool, Bool: b}, nil
	default:
		cmp, err := compareCells(l, r)
		if err != nil {
			return cell{}, err
		}
		var b bool
		switch op {
		case OpGt:
			b = cmp > 0
		case OpLt:
			b = cmp < 0
		case OpGe:
			b = cmp >= 0
		case OpLe:
			b = cmp <= 0
		case OpEq:
			b = cmp == 0
		case OpNe:
			b = cmp != 0
		}
		return cell{Kind: dataset.KindBool, Bool: b}, nil
	}
}

func compareCells(l, r cell) (int, error) {
	if l.Kind != r.Kind {
		return 0, EngineError("cannot compare mismatched column kinds")
	}
	switch l.Kind {
	case dataset.KindFloat64:
		switch {
		case l.F64 < r.F64:
			return -1, nil
		case l.F64 > r.F64:
			return 1, nil
		default:
			return 0, nil
		}
	case dataset.KindString:
		return strings.Compare(l.Str, r.Str), nil
	default: // KindBool
		if l.Bool == r.Bool {
			return 0, nil
		}
		if !l.Bool && r.Bool {
			return -1, nil
		}
		return 1, nil
	}
}
