package model

import (
	"errors"
	"fmt"
)

// Failure causes a rule can report.
var (
	ErrExtraction   = errors.New("extraction failed")
	ErrPattern      = errors.New("invalid match pattern")
	ErrNumericParse = errors.New("invalid numeric literal")
)

// RuleError attributes a failure to one rule of one category.
type RuleError struct {
	RuleID   string
	Category Category
	Err      error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s in category %s failed: %v", e.RuleID, e.Category, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }
