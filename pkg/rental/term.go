package rental

import "library_rental/pkg/errs"

// Term is one of the fixed rental periods offered on the rent form.
type Term string

const (
	Term3Days  Term = "3_days"
	Term5Days  Term = "5_days"
	TermWeek   Term = "week"
	Term2Weeks Term = "2_week"
	TermMonth  Term = "month"
)

var termDays = map[Term]int{
	Term3Days:  3,
	Term5Days:  5,
	TermWeek:   7,
	Term2Weeks: 14,
	TermMonth:  30,
}

// Terms lists the terms in ascending length.
func Terms() []Term {
	return []Term{Term3Days, Term5Days, TermWeek, Term2Weeks, TermMonth}
}

func ParseTerm(s string) (Term, error) {
	t := Term(s)
	if _, ok := termDays[t]; !ok {
		return "", errs.Invalid("unknown rent term %q", s)
	}
	return t, nil
}

// Days is the offset of the end date from the start date.
func (t Term) Days() (int, bool) {
	d, ok := termDays[t]
	return d, ok
}
