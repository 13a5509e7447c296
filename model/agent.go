package model

// MaxHP is the hit-point ceiling for every agent. Combat moves HP between
// agents rather than destroying it, so the ceiling is also the betting unit
// for stakes.
const MaxHP = 1000

// Class is an agent's combat archetype. Per-class behavior is dispatched by
// switching on the variant, never by embedding.
type Class string

const (
	Warrior  Class = "WARRIOR"
	Trader   Class = "TRADER"
	Survivor Class = "SURVIVOR"
	Parasite Class = "PARASITE"
	Gambler  Class = "GAMBLER"
)

// Classes lists every archetype in roster order.
var Classes = []Class{Warrior, Trader, Survivor, Parasite, Gambler}

// Valid reports whether c is one of the five defined archetypes.
func (c Class) Valid() bool {
	switch c {
	case Warrior, Trader, Survivor, Parasite, Gambler:
		return true
	}
	return false
}

// Skill returns the class's automatic skill name.
func (c Class) Skill() string {
	switch c {
	case Warrior:
		return "RECKLESS"
	case Trader:
		return "INSIDER_INFO"
	case Survivor:
		return "FORTIFY"
	case Parasite:
		return "MIMIC"
	case Gambler:
		return "ALL_IN"
	}
	return ""
}

// Agent is one battle participant. The arena owns every Agent; subsystems
// receive them by reference scoped to a single epoch call.
type Agent struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Class    Class    `json:"class"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"maxHp"`
	Alive    bool     `json:"alive"`
	Kills    int      `json:"kills"`
	Position HexCoord `json:"position"`
	Buffs    []Buff   `json:"buffs,omitempty"`
}

// NewAgent returns a full-health agent with no position assigned yet.
func NewAgent(id int, name string, class Class) *Agent {
	return &Agent{
		ID:    id,
		Name:  name,
		Class: class,
		HP:    MaxHP,
		MaxHP: MaxHP,
		Alive: true,
	}
}

// Heal raises HP by amount, capped at MaxHP, and returns the HP actually
// gained.
func (a *Agent) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	gained := min(amount, a.MaxHP-a.HP)
	a.HP += gained
	return gained
}

// Damage lowers HP by amount, floored at zero, and returns the HP actually
// removed. The alive flag is never touched here — death detection compares
// end-of-epoch HP against the alive set captured at epoch start.
func (a *Agent) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}
	removed := min(amount, a.HP)
	a.HP -= removed
	return removed
}

// HPPercent returns current HP as a fraction of MaxHP.
func (a *Agent) HPPercent() float64 {
	if a.MaxHP == 0 {
		return 0
	}
	return float64(a.HP) / float64(a.MaxHP)
}

// Buff finds the agent's buff of the given type, or nil.
func (a *Agent) Buff(t BuffType) *Buff {
	for i := range a.Buffs {
		if a.Buffs[i].Type == t {
			return &a.Buffs[i]
		}
	}
	return nil
}

// AddBuff stacks magnitude additively onto an existing buff of the same type
// (duration refreshed, magnitude capped per type) or appends a new one.
func (a *Agent) AddBuff(b Buff) {
	if cur := a.Buff(b.Type); cur != nil {
		cur.Magnitude = minf(cur.Magnitude+b.Magnitude, b.Type.StackCap())
		if b.Duration > cur.Duration {
			cur.Duration = b.Duration
		}
		return
	}
	b.Magnitude = minf(b.Magnitude, b.Type.StackCap())
	a.Buffs = append(a.Buffs, b)
}

// RemoveBuff drops the agent's buff of the given type, if present.
func (a *Agent) RemoveBuff(t BuffType) {
	for i := range a.Buffs {
		if a.Buffs[i].Type == t {
			a.Buffs = append(a.Buffs[:i], a.Buffs[i+1:]...)
			return
		}
	}
}

// AttackBonus is the summed damage multiplier contribution from buffs.
func (a *Agent) AttackBonus() float64 {
	if b := a.Buff(BuffAttack); b != nil {
		return b.Magnitude
	}
	return 0
}

// DefenseBonus is the summed defense-effectiveness contribution from buffs.
func (a *Agent) DefenseBonus() float64 {
	if b := a.Buff(BuffDefense); b != nil {
		return b.Magnitude
	}
	return 0
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
