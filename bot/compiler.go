package bot

import "fmt"

// CompilePersona generates a complete rule set from a persona's weights.
// All conditions are built via fmt.Sprintf with interpolated values — the
// compiler never generates invalid expr.
func CompilePersona(p Persona) []*Rule {
	p.Validate()
	var rules []*Rule

	// --- Survival rules (highest priority; back-away only for Caution > 0.5) ---

	fleeHP := 0.15 + 0.25*p.Caution
	rules = append(rules, &Rule{
		Name:         "flee-storm",
		Priority:     1000,
		Category:     CategoryMovement,
		Exclusive:    true,
		ConditionSrc: `OnLethalTile() || StormClosingIn()`,
		Action:       actionFleeStorm,
	})

	rules = append(rules, &Rule{
		Name:         "defend-when-hurt",
		Priority:     900,
		Category:     CategoryCombat,
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`EnemyAdjacent() && HPPct() <= %.2f`, fleeHP),
		Action:       actionDefend,
	})

	if p.Caution > 0.5 {
		rules = append(rules, &Rule{
			Name:         "back-away-outnumbered",
			Priority:     850,
			Category:     CategoryMovement,
			Exclusive:    true,
			ConditionSrc: `AdjacentEnemies() >= 2`,
			Action:       actionKeepDistance,
		})
	}

	// --- Combat rules (parameterized by Aggression) ---

	attackStake := lerp(100, 400, p.Aggression)
	attackHP := 0.25 + 0.35*(1-p.Aggression) // bolder personas swing while hurt
	rules = append(rules, &Rule{
		Name:         "attack-weakest-adjacent",
		Priority:     lerp(500, 800, p.Aggression),
		Category:     CategoryCombat,
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`EnemyAdjacent() && HPPct() > %.2f`, attackHP),
		Action:       actionAttackWeakest(attackStake),
	})

	if p.Aggression > 0.5 {
		rules = append(rules, &Rule{
			Name:         "hunt-nearest",
			Priority:     lerp(300, 500, p.Aggression),
			Category:     CategoryMovement,
			Exclusive:    true,
			ConditionSrc: `!EnemyAdjacent() && NearestEnemy() != nil && ItemsOnBoard() == 0`,
			Action:       actionCloseOnEnemy,
		})
	}

	// --- Loot rules (parameterized by Greed) ---

	if p.Greed > 0.2 {
		rules = append(rules, &Rule{
			Name:         "chase-item",
			Priority:     lerp(300, 600, p.Greed),
			Category:     CategoryMovement,
			Exclusive:    true,
			ConditionSrc: `ItemsOnBoard() > 0 && !OnItemTile()`,
			Action:       actionChaseItem,
		})
	}

	// --- Alliance rules (gated on Loyalty) ---

	if p.Loyalty > 0.4 {
		rules = append(rules, &Rule{
			Name:         "court-strongest",
			Priority:     400,
			Category:     CategoryAlliance,
			Exclusive:    true,
			ConditionSrc: `!HasAlly() && AliveEnemies() >= 2`,
			Action:       actionProposeAlliance,
		})
	}

	// --- Prediction rules (always present; stake scales with Greed) ---

	stakePct := lerp(5, 50, p.Greed)
	if p.Greed > 0.6 {
		// High-conviction personas size up when the tape is moving.
		rules = append(rules, &Rule{
			Name:         "bet-momentum-hot",
			Priority:     250,
			Category:     CategoryPrediction,
			Exclusive:    true,
			ConditionSrc: `BestMomentum() >= 1.0`,
			Action:       actionBetMomentum(stakePct),
		})
	}
	rules = append(rules, &Rule{
		Name:         "bet-momentum",
		Priority:     200,
		Category:     CategoryPrediction,
		Exclusive:    true,
		ConditionSrc: `BestMomentum() > 0.0`,
		Action:       actionBetMomentum(lerp(5, 30, p.Greed)),
	})
	rules = append(rules, &Rule{
		Name:         "bet-quiet-tape",
		Priority:     100,
		Category:     CategoryPrediction,
		Exclusive:    true,
		ConditionSrc: `BestMomentum() == 0.0`,
		Action:       actionBetContrarian(5),
	})

	// --- Fallback movement ---

	rules = append(rules, &Rule{
		Name:         "patrol",
		Priority:     50,
		Category:     CategoryMovement,
		Exclusive:    true,
		ConditionSrc: `AliveEnemies() > 0`,
		Action:       actionPatrol,
	})

	return rules
}
