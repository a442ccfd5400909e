package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

const pool = `pragma solidity ^0.8.0;

contract Pool {
    event Deposit(address indexed who, uint256 amount);
    uint256 total;

    function deposit(uint256 amount) external {
        total = total + amount;
        emit Deposit(msg.sender, amount);
    }

    function peek() external view returns (uint256) {
        return f(g(total));
    }
}

function free(uint256 x) pure returns (uint256) {
    return x;
}
`

func parse(t *testing.T, src string) *solidity.SourceUnit {
	t.Helper()
	unit, err := solidity.Parse("Pool.sol", []byte(src))
	require.NoError(t, err)
	return unit
}

func TestNodesInSourceOrder(t *testing.T) {
	unit := parse(t, pool)

	fns, err := Functions(unit)
	require.NoError(t, err)
	var names []string
	for _, fn := range fns {
		names = append(names, fn.Name.Name)
	}
	assert.Equal(t, []string{"deposit", "peek", "free"}, names)

	calls, err := Calls(unit)
	require.NoError(t, err)
	var texts []string
	for _, c := range calls {
		texts = append(texts, unit.Text(c))
	}
	assert.Equal(t, []string{"Deposit(msg.sender, amount)", "f(g(total))", "g(total)"}, texts)

	events, err := Events(unit)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "event Deposit(address indexed who, uint256 amount);", unit.Text(events[0]))
}

func TestNodesEmptyIsNotNil(t *testing.T) {
	unit := parse(t, "pragma solidity 0.8.19;\ncontract Empty {}\n")
	loops, err := ForLoops(unit)
	require.NoError(t, err)
	assert.NotNil(t, loops)
	assert.Empty(t, loops)
}

func TestNilUnit(t *testing.T) {
	_, err := Events(nil)
	assert.True(t, errors.Is(err, model.ErrExtraction))
	assert.True(t, errors.Is(Walk(nil, func(solidity.Node) bool { return true }), model.ErrExtraction))
}

func TestWalkBrokenTree(t *testing.T) {
	unit := &solidity.SourceUnit{Parts: []solidity.Node{&solidity.EventDefinition{}}}
	_, err := Events(unit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrExtraction))

	var missing *solidity.ContractDefinition
	unit = &solidity.SourceUnit{Parts: []solidity.Node{missing}}
	assert.True(t, errors.Is(Walk(unit, func(solidity.Node) bool { return true }), model.ErrExtraction))
}

func TestWalkSkipsChildren(t *testing.T) {
	unit := parse(t, pool)
	var seen int
	err := Walk(unit, func(n solidity.Node) bool {
		if _, ok := n.(*solidity.FunctionDefinition); ok {
			seen++
		}
		_, isContract := n.(*solidity.ContractDefinition)
		return !isContract
	})
	require.NoError(t, err)
	assert.Equal(t, 1, seen, "only the free function is outside the contract")
}

func TestContractParts(t *testing.T) {
	unit := parse(t, pool)
	cs, err := Contracts(unit)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Len(t, FunctionsIn(cs[0]), 2)
	assert.Len(t, StateVariablesIn(cs[0]), 1)
	assert.Empty(t, FunctionsIn(nil))
}

func TestWithin(t *testing.T) {
	unit := parse(t, pool)
	fns, err := Functions(unit)
	require.NoError(t, err)
	ids, err := Within[*solidity.Identifier](fns[1])
	require.NoError(t, err)
	var names []string
	for _, id := range ids {
		names = append(names, id.Name)
	}
	assert.Equal(t, []string{"peek", "f", "g", "total"}, names)
}

func TestUnwrap(t *testing.T) {
	e, err := solidity.ParseExpression("((a))")
	require.NoError(t, err)
	id, ok := Unwrap(e).(*solidity.Identifier)
	require.True(t, ok)
	assert.Equal(t, "a", id.Name)

	e, err = solidity.ParseExpression("(a, b)")
	require.NoError(t, err)
	assert.IsType(t, &solidity.TupleExpression{}, Unwrap(e))
}
