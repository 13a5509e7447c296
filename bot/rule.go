// Package bot is the offline intent provider: each class gets a persona —
// continuous weights compiled into a prioritized expr rule set — evaluated
// against a read-only battle view to produce one Intent per epoch. It stands
// in for the LLM collaborator during CLI runs and tests.
package bot

import "github.com/expr-lang/expr/vm"

// ActionFunc mutates the intent being assembled for this epoch.
type ActionFunc func(env Env, intent *IntentDraft) error

// Rule pairs a compiled boolean condition with an intent-shaping action.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source (preserved for inspection)
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}

// Rule categories. One exclusive rule firing per category keeps a persona
// from issuing conflicting orders in the same epoch.
const (
	CategoryCombat     = "combat"
	CategoryMovement   = "movement"
	CategoryPrediction = "prediction"
	CategoryAlliance   = "alliance"
)
