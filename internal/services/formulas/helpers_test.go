package formulas_test

import (
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
)

func namesOf(recipes []*formula.Recipe) []string {
	if len(recipes) == 0 {
		return nil
	}
	return formula.Names(recipes)
}
