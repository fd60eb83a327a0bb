package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching
var (
	ErrMissingInput    = errors.New("missing input")
	ErrMissingColumn   = errors.New("missing column")
	ErrMalformedRow    = errors.New("malformed row")
	ErrIncompleteGroup = errors.New("incomplete group")
)

// MissingInputError 입력 테이블을 어떤 후보 경로에서도 찾지 못함 (치명적)
type MissingInputError struct {
	Candidates []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input table not found, checked: %s", strings.Join(e.Candidates, ", "))
}

func (e *MissingInputError) Is(target error) bool { return target == ErrMissingInput }

// MissingColumnError 필수 컬럼 또는 opening/closing 쌍이 없음 (치명적)
type MissingColumnError struct {
	Columns []string
	Reason  string
}

func (e *MissingColumnError) Error() string {
	if len(e.Columns) == 0 {
		return fmt.Sprintf("missing column: %s", e.Reason)
	}
	return fmt.Sprintf("missing column: %s: %s", e.Reason, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// MalformedRowError describes a skipped (company, date) observation.
// Never fatal: extraction logs it and continues.
type MalformedRowError struct {
	Company string
	Token   string
	Reason  string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("skip %s@%s: %s", e.Company, e.Token, e.Reason)
}

func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }

// IncompleteGroupError a grouped label cannot be placed in the weekday columns
type IncompleteGroupError struct {
	Sector  string
	Weekday Weekday
}

func (e *IncompleteGroupError) Error() string {
	return fmt.Sprintf("group (%s, %s) has no weekday column", e.Sector, e.Weekday)
}

func (e *IncompleteGroupError) Is(target error) bool { return target == ErrIncompleteGroup }
