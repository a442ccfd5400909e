package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
	"github.com/0x0918/sstan/internal/source"
)

func collection(t *testing.T, files map[string]string) *source.Collection {
	t.Helper()
	col, err := source.ParseFiles(files)
	require.NoError(t, err)
	return col
}

func run(t *testing.T, rule Rule, files map[string]string) *model.Outcome {
	t.Helper()
	out, err := rule.Find(collection(t, files))
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

func snippets(o *model.Outcome) []string {
	out := []string{}
	for _, f := range o.All() {
		out = append(out, f.Snippet)
	}
	return out
}

const eventsFixture = `
pragma solidity >= 0.8.0;
contract Contract {

    event IsNotOptimized(address addr1, address indexed addr2);
    event IsOptimized(address indexed addr1, address indexed addr2, address indexed addr3);
    event AlsoIsNotOptimized(address addr1, address indexed addr2, address indexed addr3);

}
`

func TestEventIndexing(t *testing.T) {
	out := run(t, &eventIndexing{}, map[string]string{"event_indexing.sol": eventsFixture})

	require.Equal(t, []string{"event_indexing.sol"}, out.FileNames())
	require.Equal(t, 2, out.Len())
	want := []string{
		"event IsNotOptimized(address addr1, address indexed addr2);",
		"event AlsoIsNotOptimized(address addr1, address indexed addr2, address indexed addr3);",
	}
	if diff := cmp.Diff(want, snippets(out)); diff != "" {
		t.Errorf("snippets mismatch (-want +got):\n%s", diff)
	}
	findings := out.FindingsFor("event_indexing.sol")
	assert.Less(t, findings[0].Loc.Start, findings[1].Loc.Start)
	assert.Equal(t, 5, findings[0].Loc.StartLine)
	assert.Equal(t, 7, findings[1].Loc.StartLine)
}

func TestEventIndexingArrays(t *testing.T) {
	src := `contract C {
    event Batch(uint256[] ids, address indexed who);
    event Full(uint256 indexed a, uint256 indexed b, uint256 indexed c, uint256 d);
    event Short(uint256 a, uint256 b, uint256 c, uint256 d);
}`
	out := run(t, &eventIndexing{}, map[string]string{"a.sol": src})
	assert.Equal(t, []string{"event Short(uint256 a, uint256 b, uint256 c, uint256 d);"}, snippets(out))

	out = run(t, &eventIndexing{maxTopics: 4}, map[string]string{"a.sol": src})
	assert.Equal(t, []string{
		"event Full(uint256 indexed a, uint256 indexed b, uint256 indexed c, uint256 d);",
		"event Short(uint256 a, uint256 b, uint256 c, uint256 d);",
	}, snippets(out))
}

func TestRuleFixtures(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		src  string
		want []string
	}{
		{
			name: "floating pragma",
			rule: &floatingPragma{},
			src:  "pragma solidity ^0.8.0;\npragma solidity 0.8.20;\npragma abicoder v2;\npragma solidity >=0.7.0 <0.9.0;\n",
			want: []string{"pragma solidity ^0.8.0;", "pragma solidity >=0.7.0 <0.9.0;"},
		},
		{
			name: "unprotected selfdestruct",
			rule: &unprotectedSelfdestruct{},
			src: `contract C {
    address owner;
    function kill() external { selfdestruct(payable(msg.sender)); }
    function guarded() external onlyOwner { selfdestruct(payable(owner)); }
    function checked() external { require(msg.sender == owner); selfdestruct(payable(owner)); }
}`,
			want: []string{"selfdestruct(payable(msg.sender))"},
		},
		{
			name: "unsafe erc20",
			rule: &unsafeERC20{},
			src: `contract C {
    function f(IERC20 token, address to, uint256 amount) external {
        token.transfer(to, amount);
        token.transferFrom(msg.sender, to, amount);
        token.approve(to, amount);
        payable(to).transfer(amount);
        token.safeTransfer(to, amount);
    }
}`,
			want: []string{
				"token.transfer(to, amount)",
				"token.transferFrom(msg.sender, to, amount)",
				"token.approve(to, amount)",
			},
		},
		{
			name: "tx origin",
			rule: &txOrigin{},
			src: `contract C {
    address owner;
    function f() external {
        require(tx.origin == owner, "not owner");
        if (owner != tx.origin) { revert(); }
        emit Seen(tx.origin);
    }
}`,
			want: []string{"tx.origin == owner", "owner != tx.origin"},
		},
		{
			name: "divide before multiply",
			rule: &divideBeforeMultiply{},
			src: `contract C {
    function f(uint a, uint b, uint c) external pure returns (uint) {
        uint x = (a / b) * c;
        uint y = a / b * c;
        return a * b / c + x + y;
    }
}`,
			want: []string{"(a / b) * c", "a / b * c"},
		},
		{
			name: "delegatecall to parameter",
			rule: &controlledDelegatecall{},
			src: `contract C {
    address impl;
    function forward(address target, bytes calldata data) external {
        target.delegatecall(data);
        impl.delegatecall(data);
    }
}`,
			want: []string{"target.delegatecall(data)"},
		},
		{
			name: "address balance",
			rule: &addressBalance{},
			src: `contract C {
    function f(address a) external view returns (uint, uint) {
        return (address(this).balance, a.balance);
    }
}`,
			want: []string{"address(this).balance"},
		},
		{
			name: "address zero",
			rule: &addressZero{},
			src: `contract C {
    function f(address a) external pure {
        require(a != address(0));
        if (address(0x0) == a) {}
        require(a != address(1));
    }
}`,
			want: []string{"a != address(0)", "address(0x0) == a"},
		},
		{
			name: "bool equals bool",
			rule: &boolEqualsBool{},
			src: `contract C {
    function f(bool a, bool b) external pure {
        require(a == true);
        require(false != b);
        require(a == b);
    }
}`,
			want: []string{"a == true", "false != b"},
		},
		{
			name: "cache array length",
			rule: &cacheArrayLength{},
			src: `contract C {
    uint[] items;
    function f() external view {
        for (uint i; i < items.length; ++i) {}
        uint n = items.length;
        for (uint j; j < n; ++j) {}
    }
}`,
			want: []string{"items.length"},
		},
		{
			name: "postfix increment",
			rule: &postfixIncrement{},
			src: `contract C {
    function f() external pure {
        for (uint i; i < 10; i++) {}
        for (uint j = 10; j > 0; j--) {}
        for (uint k; k < 10; ++k) {}
    }
}`,
			want: []string{"i++", "j--"},
		},
		{
			name: "multiple require",
			rule: &multipleRequire{},
			src: `contract C {
    function f(uint a, uint b) external pure {
        require(a > 0 && b > 0, "zero");
        require(a > 0);
        require((a > 1 && b > 1));
    }
}`,
			want: []string{`require(a > 0 && b > 0, "zero")`, "require((a > 1 && b > 1))"},
		},
		{
			name: "public constant",
			rule: &publicConstant{},
			src: `contract C {
    uint256 public constant MAX = 10;
    uint256 private constant MIN = 1;
    uint256 public total;
}`,
			want: []string{"uint256 public constant MAX = 10;"},
		},
		{
			name: "shift math",
			rule: &shiftMath{},
			src: `contract C {
    function f(uint a) external pure returns (uint) {
        uint x = a * 2;
        uint y = a / 0x100;
        uint z = 8 * a;
        uint w = a * 3 + a / 1 + 16 / a;
        return x + y + z + w + a * 1e3 + a * 1_024;
    }
}`,
			want: []string{"a * 2", "a / 0x100", "8 * a", "a * 1_024"},
		},
		{
			name: "short revert string",
			rule: &shortRevertString{},
			src: `contract C {
    function f(uint a) external pure {
        require(a > 0, "short");
        require(a > 1, "this revert reason is definitely longer than 32 bytes");
        revert("another reason that does not fit in a single word");
    }
}`,
			want: []string{
				`"this revert reason is definitely longer than 32 bytes"`,
				`"another reason that does not fit in a single word"`,
			},
		},
		{
			name: "memory to calldata",
			rule: &memoryToCalldata{},
			src: `contract C {
    function f(bytes memory data, uint[] calldata ids) external {}
    function g(bytes memory data) public {}
}`,
			want: []string{"bytes memory data"},
		},
		{
			name: "keccak",
			rule: &solidityKeccak{},
			src: `contract C {
    function f(bytes calldata b) external pure returns (bytes32) {
        return keccak256(abi.encodePacked(b));
    }
}`,
			want: []string{"keccak256(abi.encodePacked(b))"},
		},
		{
			name: "constructor order",
			rule: &constructorOrder{},
			src: `contract A {
    function f() external {}
    constructor() {}
}
contract B {
    uint x;
    constructor() {}
    function g() external {}
}`,
			want: []string{"constructor() {}"},
		},
		{
			name: "private vars underscore",
			rule: &privateVarsUnderscore{},
			src: `contract C {
    uint256 internal count;
    uint256 private _ok;
    uint256 implicit;
    uint256 public visible;
    uint256 private constant LIMIT = 1;
    address private immutable owner;
}`,
			want: []string{"uint256 internal count;", "uint256 implicit;"},
		},
		{
			name: "private func underscore",
			rule: &privateFuncUnderscore{},
			src: `function free() pure {}
contract C {
    function helper() internal {}
    function _ok() private {}
    function api() external {}
}`,
			want: []string{"function helper() internal {}"},
		},
		{
			name: "public func underscore",
			rule: &publicFuncUnderscore{},
			src: `contract C {
    function _exposed() public {}
    function _hidden() internal {}
    function api() external {}
}`,
			want: []string{"function _exposed() public {}"},
		},
		{
			name: "empty block",
			rule: &emptyBlock{},
			src: `contract C {
    function todo() external {}
    function hook() internal virtual {}
    function decl() external;
    receive() external payable {}
    constructor() {}
    function used() external { todo(); }
}`,
			want: []string{"function todo() external {}"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, tt.rule, map[string]string{"fixture.sol": tt.src})
			if diff := cmp.Diff(tt.want, snippets(out)); diff != "" {
				t.Errorf("snippets mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.rule.Meta(), out.Rule)
		})
	}
}

func TestFindingsProperties(t *testing.T) {
	files := map[string]string{
		"b/events.sol": eventsFixture,
		"a/clean.sol":  "pragma solidity 0.8.20;\ncontract Clean { uint256 private _x; }\n",
		"c/loops.sol": `pragma solidity ^0.8.0;
contract L {
    uint[] xs;
    function f() external view { for (uint i; i < xs.length; i++) { require(xs[i] == 0 && i > 0, "no"); } }
}`,
	}
	col := collection(t, files)
	for _, rule := range Builtin(DefaultThresholds()).Rules() {
		t.Run(rule.Meta().ID, func(t *testing.T) {
			first, err := rule.Find(col)
			require.NoError(t, err)
			second, err := rule.Find(col)
			require.NoError(t, err)
			if diff := cmp.Diff(first.Files, second.Files); diff != "" {
				t.Errorf("non-deterministic outcome (-first +second):\n%s", diff)
			}
			for _, name := range first.FileNames() {
				require.True(t, col.Has(name), "outcome key %q not in collection", name)
				unit := col.Unit(name)
				for _, f := range first.FindingsFor(name) {
					assert.Equal(t, name, f.File)
					assert.GreaterOrEqual(t, f.Loc.Start, 0)
					assert.LessOrEqual(t, f.Loc.Start, f.Loc.End)
					assert.LessOrEqual(t, f.Loc.End, len(unit.Source))
					assert.Equal(t, unit.Source[f.Loc.Start:f.Loc.End], f.Snippet)
				}
			}
		})
	}
}

func TestSnippetRoundTrip(t *testing.T) {
	out := run(t, &eventIndexing{}, map[string]string{"e.sol": eventsFixture})
	for _, f := range out.All() {
		n, err := solidity.ParseContractPart(f.Snippet)
		require.NoError(t, err)
		_, ok := n.(*solidity.EventDefinition)
		assert.True(t, ok, "snippet %q parsed as %T", f.Snippet, n)
	}

	out = run(t, &addressZero{}, map[string]string{"z.sol": `contract C { function f(address a) external { require(a != address(0)); } }`})
	for _, f := range out.All() {
		e, err := solidity.ParseExpression(f.Snippet)
		require.NoError(t, err)
		_, ok := e.(*solidity.BinaryOperation)
		assert.True(t, ok)
	}
}

func TestEmptyExtraction(t *testing.T) {
	col := collection(t, map[string]string{"empty.sol": "pragma solidity 0.8.20;\n"})
	for _, rule := range Builtin(DefaultThresholds()).Rules() {
		out, err := rule.Find(col)
		require.NoError(t, err, rule.Meta().ID)
		assert.True(t, out.Empty(), rule.Meta().ID)
		assert.Empty(t, out.FileNames(), rule.Meta().ID)
	}
}

func TestFloatingPragmaBadPattern(t *testing.T) {
	col := collection(t, map[string]string{"p.sol": "pragma solidity ^0.8.0;"})
	out, err := (&floatingPragma{pattern: "(["}).Find(col)
	require.ErrorIs(t, err, model.ErrPattern)
	assert.Nil(t, out)
}

func TestShiftMathBadLiteral(t *testing.T) {
	_, err := isPowerOfTwo(&solidity.Literal{Kind: solidity.LitNumber, Value: "12abc"})
	require.ErrorIs(t, err, model.ErrNumericParse)

	for value, want := range map[string]bool{"2": true, "1": false, "0": false, "0x80": true, "6": false, "1e3": false, "1.5": false, "2.0": true} {
		kind := solidity.LitNumber
		if len(value) > 1 && value[1] == 'x' {
			kind = solidity.LitHexNumber
		}
		got, err := isPowerOfTwo(&solidity.Literal{Kind: kind, Value: value})
		require.NoError(t, err, value)
		assert.Equal(t, want, got, value)
	}
}

type missingUnits struct{}

func (missingUnits) Paths() []string                  { return []string{"ghost.sol"} }
func (missingUnits) Unit(string) *solidity.SourceUnit { return nil }

func TestMissingTreeFails(t *testing.T) {
	out, err := (&eventIndexing{}).Find(missingUnits{})
	require.ErrorIs(t, err, model.ErrExtraction)
	assert.Nil(t, out)
}

func TestRegistry(t *testing.T) {
	reg := Builtin(Thresholds{})
	ids := map[string]bool{}
	for _, rule := range reg.Rules() {
		id := rule.Meta().ID
		assert.False(t, ids[id], "duplicate id %s", id)
		ids[id] = true
	}
	total := 0
	for _, c := range model.Categories {
		rules := reg.Category(c)
		assert.NotEmpty(t, rules, c)
		for _, r := range rules {
			assert.Equal(t, c, r.Meta().Category)
		}
		total += len(rules)
	}
	assert.Equal(t, len(reg.Rules()), total)

	r, ok := reg.Lookup("OPT-EVENT-INDEXING")
	require.True(t, ok)
	assert.Equal(t, DefaultMaxIndexedTopics, r.(*eventIndexing).maxTopics)
	_, ok = reg.Lookup("NOPE")
	assert.False(t, ok)
}
