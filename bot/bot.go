package bot

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/hungernads/nads-core/model"
)

// Bot owns the decision-making for a single agent. Rules fire in priority
// order; an exclusive rule blocks lower-priority rules in the same category,
// preventing conflicting orders in one intent.
type Bot struct {
	AgentID int
	Class   model.Class
	persona Persona
	rules   []*Rule
}

// New compiles the class persona's rule set for one agent.
func New(agentID int, class model.Class) (*Bot, error) {
	persona := PersonaFor(class)
	compiled, err := compileRules(CompilePersona(persona))
	if err != nil {
		return nil, err
	}
	return &Bot{AgentID: agentID, Class: class, persona: persona, rules: compiled}, nil
}

// Decide evaluates the rule set against the view and assembles the epoch's
// intent. Identical views produce identical intents.
func (b *Bot) Decide(view View) model.Intent {
	view.SelfID = b.AgentID
	env := Env{View: view}
	intent := model.DefaultIntent(b.AgentID)
	fired := make(map[string]bool) // category → exclusive rule already fired

	for _, r := range b.rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "agent", b.AgentID, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		if err := r.Action(env, &intent); err != nil {
			slog.Debug("rule action skipped", "rule", r.Name, "agent", b.AgentID, "reason", err)
			continue
		}
		slog.Debug("rule fired", "rule", r.Name, "agent", b.AgentID, "priority", r.Priority)

		if r.Exclusive {
			fired[r.Category] = true
		}
	}
	return intent
}

// Roster drives one bot per agent and yields the epoch's intent batch.
type Roster struct {
	bots map[int]*Bot
	ids  []int
}

// NewRoster builds a bot per (agentID, class) pair.
func NewRoster(agents []model.Agent) (*Roster, error) {
	r := &Roster{bots: make(map[int]*Bot, len(agents))}
	for _, a := range agents {
		b, err := New(a.ID, a.Class)
		if err != nil {
			return nil, fmt.Errorf("bot for agent %d: %w", a.ID, err)
		}
		r.bots[a.ID] = b
		r.ids = append(r.ids, a.ID)
	}
	sort.Ints(r.ids)
	return r, nil
}

// Intents produces one intent per living agent in the view.
func (r *Roster) Intents(view View) []model.Intent {
	alive := make(map[int]bool, len(view.Agents))
	for _, a := range view.Agents {
		alive[a.ID] = a.Alive
	}
	var out []model.Intent
	for _, id := range r.ids {
		if !alive[id] {
			continue
		}
		out = append(out, r.bots[id].Decide(view))
	}
	return out
}

// compileRules compiles every condition into expr bytecode and sorts by
// priority, descending.
func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
