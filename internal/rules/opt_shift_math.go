package rules

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

type shiftMath struct{}

func (d *shiftMath) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "OPT-SHIFT-MATH",
		Title:       "Use shifts for power-of-two multiply and divide",
		Category:    model.CategoryOptimization,
		Severity:    model.SeverityInfo,
		Description: "SHL and SHR cost 3 gas, MUL and DIV cost 5.",
		Remediation: "Replace `x * 2**n` with `x << n` and `x / 2**n` with `x >> n`.",
	}
}

func (d *shiftMath) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		ops, err := extract.BinaryOps(f.unit)
		if err != nil {
			return err
		}
		for _, op := range ops {
			var operands []solidity.Expression
			switch op.Op {
			case "*":
				operands = []solidity.Expression{op.Left, op.Right}
			case "/":
				operands = []solidity.Expression{op.Right}
			default:
				continue
			}
			for _, e := range operands {
				lit, ok := extract.Unwrap(e).(*solidity.Literal)
				if !ok || lit.Unit != "" || (lit.Kind != solidity.LitNumber && lit.Kind != solidity.LitHexNumber) {
					continue
				}
				pow, err := isPowerOfTwo(lit)
				if err != nil {
					return err
				}
				if pow {
					f.flag(op)
					break
				}
			}
		}
		return nil
	})
}

// isPowerOfTwo reports whether lit is 2**n for some n >= 1.
func isPowerOfTwo(lit *solidity.Literal) (bool, error) {
	text := strings.ReplaceAll(lit.Value, "_", "")
	var n *big.Int
	if lit.Kind == solidity.LitHexNumber {
		v, ok := new(big.Int).SetString(text, 0)
		if !ok {
			return false, fmt.Errorf("%w: %q", model.ErrNumericParse, lit.Value)
		}
		n = v
	} else {
		r, ok := new(big.Rat).SetString(text)
		if !ok {
			return false, fmt.Errorf("%w: %q", model.ErrNumericParse, lit.Value)
		}
		if !r.IsInt() {
			return false, nil
		}
		n = r.Num()
	}
	if n.Sign() <= 0 || n.BitLen() < 2 {
		return false, nil
	}
	return n.TrailingZeroBits() == uint(n.BitLen()-1), nil
}
