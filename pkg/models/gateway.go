package models

// SplitType defines how a split activates its outgoing branches.
type SplitType int

const (
	// SplitTypeAnd activates every outgoing branch.
	SplitTypeAnd SplitType = iota + 1
	// SplitTypeXor evaluates constraints by priority; the first satisfied one wins and the
	// default constraint is the fallback.
	SplitTypeXor
	// SplitTypeOr activates every branch whose constraint holds.
	SplitTypeOr
	// SplitTypeXand waits for the first of several competing events and cancels the others.
	SplitTypeXand
)

func (t SplitType) String() string {
	switch t {
	case SplitTypeAnd:
		return "and"
	case SplitTypeXor:
		return "xor"
	case SplitTypeOr:
		return "or"
	case SplitTypeXand:
		return "xand"
	}

	return "unknown"
}

// JoinType defines when a join activates its outgoing connection. The number of incoming
// branches is a property of the surrounding graph.
type JoinType int

const (
	// JoinTypeAnd waits for all incoming branches.
	JoinTypeAnd JoinType = iota + 1
	// JoinTypeXor activates once any single incoming branch completes.
	JoinTypeXor
	// JoinTypeDiscriminator activates on the first branch and ignores the rest.
	JoinTypeDiscriminator
	// JoinTypeNOfM activates once N incoming branches have completed.
	JoinTypeNOfM
)

func (t JoinType) String() string {
	switch t {
	case JoinTypeAnd:
		return "and"
	case JoinTypeXor:
		return "xor"
	case JoinTypeDiscriminator:
		return "discriminator"
	case JoinTypeNOfM:
		return "n_of_m"
	}

	return "unknown"
}

// JoinTypeFor returns the join type that converges the branches of a split.
func JoinTypeFor(split SplitType) JoinType {
	switch split {
	case SplitTypeAnd:
		return JoinTypeAnd
	case SplitTypeXor, SplitTypeXand:
		return JoinTypeXor
	case SplitTypeOr:
		return JoinTypeDiscriminator
	}

	return JoinTypeXor
}

const (
	ConstraintTypeCode = "code"
	ConstraintTypeRule = "rule"

	DialectJQ = "jq"
)

// Constraint is a branch condition attached to a split. The expression is evaluated by the
// runtime; the compiler only records it.
type Constraint struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Dialect    string `json:"dialect"`
	Expression string `json:"expression"`
	Priority   int    `json:"priority"`
	Default    bool   `json:"default"`
}

// BranchConstraint binds a constraint to the outgoing connection towards To.
type BranchConstraint struct {
	To         int64      `json:"to"`
	Constraint Constraint `json:"constraint"`
}

type SplitNode struct {
	Type        SplitType          `json:"type"`
	Constraints []BranchConstraint `json:"constraints,omitempty"`
}

// SetConstraint attaches c to the branch towards to, replacing any previous one.
func (s *SplitNode) SetConstraint(to int64, c Constraint) {
	for i := range s.Constraints {
		if s.Constraints[i].To == to {
			s.Constraints[i].Constraint = c

			return
		}
	}

	s.Constraints = append(s.Constraints, BranchConstraint{To: to, Constraint: c})
}

// Constraint returns the constraint of the branch towards to.
func (s *SplitNode) Constraint(to int64) (Constraint, bool) {
	for _, bc := range s.Constraints {
		if bc.To == to {
			return bc.Constraint, true
		}
	}

	return Constraint{}, false
}

type JoinNode struct {
	Type JoinType `json:"type"`
	// N is the number of completed branches a JoinTypeNOfM join waits for.
	N int `json:"n,omitempty"`
}
