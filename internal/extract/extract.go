package extract

import (
	"fmt"
	"sort"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

// Nodes returns every node of type T in unit, at any depth, ordered by
// where it starts in the source. Enclosing nodes come before the nodes they
// contain.
func Nodes[T solidity.Node](unit *solidity.SourceUnit) ([]T, error) {
	if unit == nil {
		return nil, fmt.Errorf("%w: nil source unit", model.ErrExtraction)
	}
	return Within[T](unit)
}

// Within is Nodes scoped to the subtree rooted at n.
func Within[T solidity.Node](n solidity.Node) ([]T, error) {
	out := []T{}
	err := Inspect(n, func(n solidity.Node) bool {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Location().Start < out[j].Location().Start
	})
	return out, nil
}

func Pragmas(unit *solidity.SourceUnit) ([]*solidity.PragmaDirective, error) {
	return Nodes[*solidity.PragmaDirective](unit)
}

func Contracts(unit *solidity.SourceUnit) ([]*solidity.ContractDefinition, error) {
	return Nodes[*solidity.ContractDefinition](unit)
}

func Events(unit *solidity.SourceUnit) ([]*solidity.EventDefinition, error) {
	return Nodes[*solidity.EventDefinition](unit)
}

func Functions(unit *solidity.SourceUnit) ([]*solidity.FunctionDefinition, error) {
	return Nodes[*solidity.FunctionDefinition](unit)
}

func Modifiers(unit *solidity.SourceUnit) ([]*solidity.ModifierDefinition, error) {
	return Nodes[*solidity.ModifierDefinition](unit)
}

func StateVariables(unit *solidity.SourceUnit) ([]*solidity.StateVariableDeclaration, error) {
	return Nodes[*solidity.StateVariableDeclaration](unit)
}

func Calls(unit *solidity.SourceUnit) ([]*solidity.FunctionCall, error) {
	return Nodes[*solidity.FunctionCall](unit)
}

func MemberAccesses(unit *solidity.SourceUnit) ([]*solidity.MemberAccess, error) {
	return Nodes[*solidity.MemberAccess](unit)
}

func BinaryOps(unit *solidity.SourceUnit) ([]*solidity.BinaryOperation, error) {
	return Nodes[*solidity.BinaryOperation](unit)
}

func UnaryOps(unit *solidity.SourceUnit) ([]*solidity.UnaryOperation, error) {
	return Nodes[*solidity.UnaryOperation](unit)
}

func Assignments(unit *solidity.SourceUnit) ([]*solidity.Assignment, error) {
	return Nodes[*solidity.Assignment](unit)
}

// Parameters returns every variable declaration in unit: parameters, return
// values, struct fields and locals.
func Parameters(unit *solidity.SourceUnit) ([]*solidity.VariableDeclaration, error) {
	return Nodes[*solidity.VariableDeclaration](unit)
}

func ForLoops(unit *solidity.SourceUnit) ([]*solidity.ForStatement, error) {
	return Nodes[*solidity.ForStatement](unit)
}

func Literals(unit *solidity.SourceUnit) ([]*solidity.Literal, error) {
	return Nodes[*solidity.Literal](unit)
}

// ContractParts returns the direct members of c that have type T, in
// declaration order. Nested definitions are not included.
func ContractParts[T solidity.Node](c *solidity.ContractDefinition) []T {
	var out []T
	if c == nil {
		return out
	}
	for _, part := range c.Parts {
		if t, ok := part.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// FunctionsIn returns the functions declared directly in c.
func FunctionsIn(c *solidity.ContractDefinition) []*solidity.FunctionDefinition {
	return ContractParts[*solidity.FunctionDefinition](c)
}

func StateVariablesIn(c *solidity.ContractDefinition) []*solidity.StateVariableDeclaration {
	return ContractParts[*solidity.StateVariableDeclaration](c)
}

// Unwrap strips parentheses around a single expression.
func Unwrap(e solidity.Expression) solidity.Expression {
	for {
		t, ok := e.(*solidity.TupleExpression)
		if !ok || t.IsArray || len(t.Components) != 1 || t.Components[0] == nil {
			return e
		}
		e = t.Components[0]
	}
}
