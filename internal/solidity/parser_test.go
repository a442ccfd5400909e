package solidity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenContract = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.0;

import "./IERC20.sol";

contract Token is IERC20 {
    event Transfer(address indexed from, address indexed to, uint256 value);

    mapping(address => uint256) public balances;
    uint256 constant CAP = 1_000 ether;

    function transfer(address to, uint256 amount) external returns (bool) {
        require(balances[msg.sender] >= amount, "balance");
        balances[msg.sender] -= amount;
        emit Transfer(msg.sender, to, amount);
        return true;
    }
}
`

func TestParseSourceUnit(t *testing.T) {
	unit, err := Parse("Token.sol", []byte(tokenContract))
	require.NoError(t, err)
	require.Len(t, unit.Parts, 3)

	pragma, ok := unit.Parts[0].(*PragmaDirective)
	require.True(t, ok)
	assert.Equal(t, "solidity", pragma.Name)
	assert.Equal(t, "^0.8.0", pragma.Value)
	assert.Equal(t, "pragma solidity ^0.8.0;", unit.Text(pragma))
	assert.Equal(t, 2, pragma.Loc.StartLine)
	assert.Equal(t, 1, pragma.Loc.StartCol)

	imp, ok := unit.Parts[1].(*ImportDirective)
	require.True(t, ok)
	assert.Equal(t, "./IERC20.sol", imp.Path)

	c, ok := unit.Parts[2].(*ContractDefinition)
	require.True(t, ok)
	assert.Equal(t, KindContract, c.Kind)
	assert.Equal(t, "Token", c.Name.Name)
	require.Len(t, c.Bases, 1)
	require.Len(t, c.Parts, 4)

	ev := c.Parts[0].(*EventDefinition)
	assert.Equal(t, "event Transfer(address indexed from, address indexed to, uint256 value);", unit.Text(ev))
	require.Len(t, ev.Params, 3)
	assert.True(t, ev.Params[0].Indexed)
	assert.False(t, ev.Params[2].Indexed)
	assert.Equal(t, 7, ev.Loc.StartLine)
	assert.Equal(t, 7, ev.Loc.EndLine)

	bal := c.Parts[1].(*StateVariableDeclaration)
	assert.Equal(t, "public", bal.Visibility)
	_, isMapping := bal.Type.(*MappingTypeName)
	assert.True(t, isMapping)

	limit := c.Parts[2].(*StateVariableDeclaration)
	assert.True(t, limit.Constant)
	lit, ok := limit.Initial.(*Literal)
	require.True(t, ok)
	assert.Equal(t, LitNumber, lit.Kind)
	assert.Equal(t, "ether", lit.Unit)

	fn := c.Parts[3].(*FunctionDefinition)
	assert.Equal(t, FuncFunction, fn.Kind)
	assert.Equal(t, "transfer", fn.Name.Name)
	assert.Equal(t, "external", fn.Visibility)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Returns, 1)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Statements, 4)
	assert.IsType(t, &ExpressionStatement{}, fn.Body.Statements[0])
	assert.IsType(t, &ExpressionStatement{}, fn.Body.Statements[1])
	assert.IsType(t, &EmitStatement{}, fn.Body.Statements[2])
	assert.IsType(t, &ReturnStatement{}, fn.Body.Statements[3])
	assert.Equal(t, 12, fn.Loc.StartLine)
	assert.Equal(t, 17, fn.Loc.EndLine)
}

func TestParseSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("A.sol", []byte("contract A {\n  uint256 x = ;\n}\n"))
	require.Error(t, err)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "A.sol", se.File)
	assert.Equal(t, 2, se.Line)
	assert.Equal(t, 15, se.Col)
}

func TestLexerErrorCarriesFile(t *testing.T) {
	_, err := Parse("B.sol", []byte("contract B {\n string s = \"abc\n}\n"))
	require.Error(t, err)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "B.sol", se.File)
	assert.Equal(t, 2, se.Line)
	assert.Contains(t, se.Msg, "string literal")
}

func TestParseExpression(t *testing.T) {
	e, err := ParseExpression("a + b * c")
	require.NoError(t, err)
	sum, ok := e.(*BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, "+", sum.Op)
	prod, ok := sum.Right.(*BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, "*", prod.Op)

	e, err = ParseExpression("token.transfer(to, 1)")
	require.NoError(t, err)
	call, ok := e.(*FunctionCall)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
	member, ok := call.Callee.(*MemberAccess)
	require.True(t, ok)
	assert.Equal(t, "transfer", member.Member)

	e, err = ParseExpression("ok ? x : y")
	require.NoError(t, err)
	assert.IsType(t, &Conditional{}, e)

	e, err = ParseExpression("(a)")
	require.NoError(t, err)
	tuple, ok := e.(*TupleExpression)
	require.True(t, ok)
	assert.Len(t, tuple.Components, 1)
	assert.False(t, tuple.IsArray)

	e, err = ParseExpression("0x100")
	require.NoError(t, err)
	assert.Equal(t, LitHexNumber, e.(*Literal).Kind)

	_, err = ParseExpression("a b")
	assert.Error(t, err)
}

func TestParseStatement(t *testing.T) {
	s, err := ParseStatement("for (uint256 i = 0; i < n; i++) { total += i; }")
	require.NoError(t, err)
	loop, ok := s.(*ForStatement)
	require.True(t, ok)
	assert.IsType(t, &VariableDeclarationStatement{}, loop.Init)
	assert.IsType(t, &BinaryOperation{}, loop.Cond)
	inc, ok := loop.Update.(*UnaryOperation)
	require.True(t, ok)
	assert.Equal(t, "++", inc.Op)
	assert.False(t, inc.Prefix)

	s, err = ParseStatement(`revert("nope");`)
	require.NoError(t, err)
	assert.IsType(t, &ExpressionStatement{}, s)

	s, err = ParseStatement("revert Unauthorized(msg.sender);")
	require.NoError(t, err)
	assert.IsType(t, &RevertStatement{}, s)
}

func TestParseContractPart(t *testing.T) {
	n, err := ParseContractPart("event E(address a, address indexed b);")
	require.NoError(t, err)
	ev, ok := n.(*EventDefinition)
	require.True(t, ok)
	assert.Equal(t, "E", ev.Name.Name)
	assert.Equal(t, 0, ev.Loc.Start)

	_, err = ParseContractPart("event E(address a)")
	assert.Error(t, err)
}

func TestParseFreeFunction(t *testing.T) {
	unit, err := Parse("F.sol", []byte("function helper(uint256 x) pure returns (uint256) { return x; }\n"))
	require.NoError(t, err)
	require.Len(t, unit.Parts, 1)
	fn, ok := unit.Parts[0].(*FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, "helper", fn.Name.Name)
}

func TestParseStorageLayout(t *testing.T) {
	unit, err := Parse("L.sol", []byte("pragma solidity ^0.8.29;\n"+
		"contract A layout at 0x1234 { uint256 x; }\n"+
		"contract B is A layout at 2**64 {}\n"+
		"contract C layout at 10 is A, B {}\n"))
	require.NoError(t, err)
	require.Len(t, unit.Parts, 4)

	a := unit.Parts[1].(*ContractDefinition)
	require.NotNil(t, a.Layout)
	assert.Equal(t, "0x1234", unit.Text(a.Layout))
	assert.Len(t, a.Parts, 1)

	b := unit.Parts[2].(*ContractDefinition)
	require.Len(t, b.Bases, 1)
	assert.Equal(t, "2**64", unit.Text(b.Layout))

	c := unit.Parts[3].(*ContractDefinition)
	assert.Len(t, c.Bases, 2)
	assert.Equal(t, "10", unit.Text(c.Layout))

	_, err = Parse("D.sol", []byte("contract D layout at 1 layout at 2 {}\n"))
	assert.Error(t, err)
}
