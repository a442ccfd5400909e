package rules

import (
	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/solidity"
)

func isIdent(e solidity.Expression, name string) bool {
	id, ok := extract.Unwrap(e).(*solidity.Identifier)
	return ok && id.Name == name
}

// isMember matches `obj.member`.
func isMember(e solidity.Expression, obj, member string) bool {
	ma, ok := extract.Unwrap(e).(*solidity.MemberAccess)
	return ok && ma.Member == member && isIdent(ma.Expr, obj)
}

// callName returns the function name a call targets: `f` for `f(...)`,
// `m` for `x.m(...)` and `x.m{value: v}(...)`.
func callName(c *solidity.FunctionCall) string {
	callee := c.Callee
	if opts, ok := callee.(*solidity.FunctionCallOptions); ok {
		callee = opts.Callee
	}
	switch fn := callee.(type) {
	case *solidity.Identifier:
		return fn.Name
	case *solidity.MemberAccess:
		return fn.Member
	}
	return ""
}

// calleeTarget returns x for `x.m(...)`, or nil.
func calleeTarget(c *solidity.FunctionCall) solidity.Expression {
	callee := c.Callee
	if opts, ok := callee.(*solidity.FunctionCallOptions); ok {
		callee = opts.Callee
	}
	if ma, ok := callee.(*solidity.MemberAccess); ok {
		return ma.Expr
	}
	return nil
}

// isCallTo matches a direct call of a free function or builtin named name.
func isCallTo(c *solidity.FunctionCall, name string) bool {
	return isIdent(c.Callee, name)
}

// isAddressCast matches `address(arg)`.
func isAddressCast(e solidity.Expression, arg func(solidity.Expression) bool) bool {
	c, ok := extract.Unwrap(e).(*solidity.FunctionCall)
	if !ok || len(c.Args) != 1 {
		return false
	}
	t, ok := c.Callee.(*solidity.ElementaryTypeExpression)
	if !ok || t.Type.Name != "address" {
		return false
	}
	return arg(c.Args[0])
}

func isZero(e solidity.Expression) bool {
	lit, ok := extract.Unwrap(e).(*solidity.Literal)
	return ok && (lit.Kind == solidity.LitNumber || lit.Kind == solidity.LitHexNumber) && isZeroDigits(lit.Value)
}

func isZeroDigits(s string) bool {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '_' {
			return false
		}
	}
	return s != ""
}

func isBoolLiteral(e solidity.Expression) bool {
	lit, ok := extract.Unwrap(e).(*solidity.Literal)
	return ok && lit.Kind == solidity.LitBool
}

func isComparison(b *solidity.BinaryOperation) bool {
	return b.Op == "==" || b.Op == "!="
}

// isPrivate reports internal or private visibility. Solidity defaults state
// variables to internal.
func isPrivate(visibility string) bool {
	return visibility == "" || visibility == "private" || visibility == "internal"
}
