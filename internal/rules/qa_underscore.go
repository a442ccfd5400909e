package rules

import (
	"strings"

	"github.com/0x0918/sstan/internal/extract"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/solidity"
)

// Naming rules for the leading-underscore convention: non-public members
// carry one, public ones don't.

type privateVarsUnderscore struct{}

func (d *privateVarsUnderscore) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "QA-PRIVATE-VARS-UNDERSCORE",
		Title:       "Private and internal state variables should start with an underscore",
		Category:    model.CategoryQuality,
		Severity:    model.SeverityInfo,
		Description: "A leading underscore marks state that is not part of the contract's external interface.",
		Remediation: "Prefix the variable name with `_`.",
	}
}

func (d *privateVarsUnderscore) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		vars, err := extract.StateVariables(f.unit)
		if err != nil {
			return err
		}
		for _, v := range vars {
			if v.Constant || v.Immutable || v.Name == nil || !isPrivate(v.Visibility) {
				continue
			}
			if !strings.HasPrefix(v.Name.Name, "_") {
				f.flag(v)
			}
		}
		return nil
	})
}

type privateFuncUnderscore struct{}

func (d *privateFuncUnderscore) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "QA-PRIVATE-FUNC-UNDERSCORE",
		Title:       "Private and internal functions should start with an underscore",
		Category:    model.CategoryQuality,
		Severity:    model.SeverityInfo,
		Description: "A leading underscore tells readers the function cannot be called from outside.",
		Remediation: "Prefix the function name with `_`.",
	}
}

func (d *privateFuncUnderscore) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		return eachMemberFunction(f, func(fn *solidity.FunctionDefinition) {
			if fn.Visibility == "private" || fn.Visibility == "internal" {
				if !strings.HasPrefix(fn.Name.Name, "_") {
					f.flag(fn)
				}
			}
		})
	})
}

type publicFuncUnderscore struct{}

func (d *publicFuncUnderscore) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:          "QA-PUBLIC-FUNC-UNDERSCORE",
		Title:       "Public and external functions should not start with an underscore",
		Category:    model.CategoryQuality,
		Severity:    model.SeverityInfo,
		Description: "A leading underscore suggests an internal helper, which misleads callers of a public function.",
		Remediation: "Drop the leading `_` or reduce the function's visibility.",
	}
}

func (d *publicFuncUnderscore) Find(src Source) (*model.Outcome, error) {
	return scan(d.Meta(), src, func(f *file) error {
		return eachMemberFunction(f, func(fn *solidity.FunctionDefinition) {
			if fn.Visibility == "public" || fn.Visibility == "external" {
				if strings.HasPrefix(fn.Name.Name, "_") {
					f.flag(fn)
				}
			}
		})
	})
}

// eachMemberFunction visits the named functions declared inside contracts,
// skipping free functions.
func eachMemberFunction(f *file, visit func(*solidity.FunctionDefinition)) error {
	contracts, err := extract.Contracts(f.unit)
	if err != nil {
		return err
	}
	for _, c := range contracts {
		for _, fn := range extract.FunctionsIn(c) {
			if fn.Kind == solidity.FuncFunction && fn.Name != nil {
				visit(fn)
			}
		}
	}
	return nil
}
