package service

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/rekanalumni/outreach/cmd/outreach/models"
)

// SegmentFilter restricts a preview run to a slice of the unlinked
// members, expressed as a CEL boolean over the member row, e.g.
//
//	member.cohort >= 8 && member.contact_status == "uncontacted"
type SegmentFilter struct {
	expr string
	prg  cel.Program
}

// CompileSegmentFilter compiles a CEL member filter. A bad expression is
// a validation error; an empty expression returns nil (no filter).
func CompileSegmentFilter(expr string) (*SegmentFilter, error) {
	if expr == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("member", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, ErrValidation(fmt.Sprintf("invalid segment filter: %v", issues.Err()))
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, ErrValidation(fmt.Sprintf("invalid segment filter: %v", err))
	}

	return &SegmentFilter{expr: expr, prg: prg}, nil
}

// Match evaluates the filter against one member
func (f *SegmentFilter) Match(m *models.Member) (bool, error) {
	out, _, err := f.prg.Eval(map[string]interface{}{
		"member": map[string]interface{}{
			"full_name":         m.FullName,
			"cohort":            m.Cohort,
			"contact_status":    m.ContactStatus,
			"group_status":      m.GroupStatus,
			"commitment_status": m.CommitmentStatus,
		},
	})
	if err != nil {
		return false, ErrValidation(fmt.Sprintf("segment filter evaluation failed: %v", err))
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, ErrValidation(fmt.Sprintf("segment filter did not return a boolean, got %T", out.Value()))
	}

	return result, nil
}
