// Package extract pulls constructs of one kind out of parsed Solidity trees.
// Rules use it instead of walking trees themselves.
package extract

import (
	"fmt"
	"reflect"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

// Visitor is called for every node in pre-order. Returning false skips the
// node's children.
type Visitor func(n solidity.Node) bool

// Walk visits every node of unit in source order. It fails only when the
// tree is structurally broken, which a successful parse never produces.
func Walk(unit *solidity.SourceUnit, visit Visitor) error {
	if unit == nil {
		return fmt.Errorf("%w: nil source unit", model.ErrExtraction)
	}
	return walk(unit, visit)
}

// Inspect visits n and its descendants.
func Inspect(n solidity.Node, visit Visitor) error {
	if n == nil || isNilNode(n) {
		return fmt.Errorf("%w: nil node", model.ErrExtraction)
	}
	return walk(n, visit)
}

type walker struct {
	visit Visitor
	err   error
}

func walk(n solidity.Node, visit Visitor) error {
	w := &walker{visit: visit}
	w.node(n)
	return w.err
}

func (w *walker) fail(format string, args ...any) {
	if w.err == nil {
		w.err = fmt.Errorf("%w: %s", model.ErrExtraction, fmt.Sprintf(format, args...))
	}
}

// required walks a child that the grammar always provides.
func (w *walker) required(parent string, n solidity.Node) {
	if n == nil || isNilNode(n) {
		w.fail("%s is missing a required child", parent)
		return
	}
	w.node(n)
}

// optional walks a child that may be absent.
func (w *walker) optional(n solidity.Node) {
	if n == nil || isNilNode(n) {
		return
	}
	w.node(n)
}

func (w *walker) node(n solidity.Node) {
	if w.err != nil || !w.visit(n) {
		return
	}
	switch n := n.(type) {
	case *solidity.SourceUnit:
		for _, part := range n.Parts {
			w.required("source unit", part)
		}
	case *solidity.PragmaDirective, *solidity.ImportDirective, *solidity.UsingDirective,
		*solidity.Identifier, *solidity.Literal, *solidity.ElementaryTypeName,
		*solidity.UserDefinedTypeName, *solidity.BreakStatement, *solidity.ContinueStatement,
		*solidity.PlaceholderStatement, *solidity.AssemblyStatement:
	case *solidity.ContractDefinition:
		w.required("contract name", n.Name)
		for _, b := range n.Bases {
			w.required("inheritance list", b)
		}
		w.optional(n.Layout)
		for _, part := range n.Parts {
			w.required("contract body", part)
		}
	case *solidity.InheritanceSpecifier:
		w.required("inheritance specifier", n.Name)
		w.exprs(n.Args)
	case *solidity.StructDefinition:
		w.required("struct name", n.Name)
		w.decls("struct", n.Fields)
	case *solidity.EnumDefinition:
		w.required("enum name", n.Name)
		for _, v := range n.Values {
			w.required("enum", v)
		}
	case *solidity.EventDefinition:
		w.required("event name", n.Name)
		w.decls("event", n.Params)
	case *solidity.ErrorDefinition:
		w.required("error name", n.Name)
		w.decls("error", n.Params)
	case *solidity.UserDefinedValueType:
		w.required("type name", n.Name)
		w.required("underlying type", n.Underlying)
	case *solidity.FunctionDefinition:
		w.optional(n.Name)
		w.decls("parameter list", n.Params)
		for _, m := range n.Modifiers {
			w.required("modifier list", m)
		}
		w.decls("return list", n.Returns)
		w.optional(n.Body)
	case *solidity.ModifierDefinition:
		w.required("modifier name", n.Name)
		w.decls("parameter list", n.Params)
		w.optional(n.Body)
	case *solidity.ModifierInvocation:
		w.required("modifier invocation", n.Name)
		w.exprs(n.Args)
	case *solidity.StateVariableDeclaration:
		w.required("state variable type", n.Type)
		w.required("state variable name", n.Name)
		w.optional(n.Initial)
	case *solidity.VariableDeclaration:
		w.required("declaration type", n.Type)
		w.optional(n.Name)
	case *solidity.MappingTypeName:
		w.required("mapping key", n.Key)
		w.required("mapping value", n.Value)
	case *solidity.ArrayTypeName:
		w.required("array base type", n.Base)
		w.optional(n.Length)
	case *solidity.FunctionTypeName:
		w.decls("parameter list", n.Params)
		w.decls("return list", n.Returns)
	case *solidity.Block:
		for _, s := range n.Statements {
			w.required("block", s)
		}
	case *solidity.VariableDeclarationStatement:
		for _, d := range n.Declarations {
			if d != nil {
				w.node(d)
			}
		}
		w.optional(n.Initial)
	case *solidity.ExpressionStatement:
		w.required("expression statement", n.Expression)
	case *solidity.IfStatement:
		w.required("if condition", n.Cond)
		w.required("if body", n.Then)
		w.optional(n.Else)
	case *solidity.ForStatement:
		w.optional(n.Init)
		w.optional(n.Cond)
		w.optional(n.Update)
		w.required("for body", n.Body)
	case *solidity.WhileStatement:
		w.required("while condition", n.Cond)
		w.required("while body", n.Body)
	case *solidity.DoWhileStatement:
		w.required("do body", n.Body)
		w.required("do condition", n.Cond)
	case *solidity.ReturnStatement:
		w.optional(n.Value)
	case *solidity.EmitStatement:
		w.required("emit", n.Call)
	case *solidity.RevertStatement:
		w.required("revert", n.Call)
	case *solidity.TryStatement:
		w.required("try call", n.Call)
		w.decls("return list", n.Returns)
		w.required("try body", n.Body)
		for _, c := range n.Catches {
			w.required("catch list", c)
		}
	case *solidity.CatchClause:
		w.decls("catch parameters", n.Params)
		w.required("catch body", n.Body)
	case *solidity.MemberAccess:
		w.required("member access", n.Expr)
	case *solidity.IndexAccess:
		w.required("index base", n.Base)
		w.optional(n.Index)
	case *solidity.IndexRangeAccess:
		w.required("range base", n.Base)
		w.optional(n.Start)
		w.optional(n.End)
	case *solidity.FunctionCall:
		w.required("call", n.Callee)
		w.exprs(n.Args)
	case *solidity.FunctionCallOptions:
		w.required("call options", n.Callee)
		w.exprs(n.Values)
	case *solidity.UnaryOperation:
		w.required("unary operand", n.Operand)
	case *solidity.BinaryOperation:
		w.required("binary operand", n.Left)
		w.required("binary operand", n.Right)
	case *solidity.Assignment:
		w.required("assignment target", n.Left)
		w.required("assignment value", n.Right)
	case *solidity.Conditional:
		w.required("conditional", n.Cond)
		w.required("conditional", n.True)
		w.required("conditional", n.False)
	case *solidity.TupleExpression:
		for _, c := range n.Components {
			w.optional(c)
		}
	case *solidity.NewExpression:
		w.required("new expression", n.Type)
	case *solidity.ElementaryTypeExpression:
		w.required("type expression", n.Type)
	default:
		w.fail("unknown node %T", n)
	}
}

func (w *walker) exprs(es []solidity.Expression) {
	for _, e := range es {
		w.required("argument list", e)
	}
}

func (w *walker) decls(parent string, ds []*solidity.VariableDeclaration) {
	for _, d := range ds {
		if d == nil {
			w.fail("%s holds a nil declaration", parent)
			return
		}
		w.node(d)
	}
}

// isNilNode reports typed nil pointers stored in a Node interface.
func isNilNode(n solidity.Node) bool {
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
