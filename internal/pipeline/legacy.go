package pipeline

import (
	"context"
	"net/http"

	"github.com/moamenhredeen/relcheck/internal/models"
	"github.com/moamenhredeen/relcheck/internal/tester"
)

// LegacyOutcome is the verdict of the legacy categoryId check
type LegacyOutcome int

const (
	// LegacyFailure means the product could not be created
	LegacyFailure LegacyOutcome = iota
	// LegacyPartial means the product was created but no category was echoed
	LegacyPartial
	// LegacySuccess means the product was created with a populated category
	LegacySuccess
)

func (o LegacyOutcome) String() string {
	switch o {
	case LegacySuccess:
		return "SUCCESS"
	case LegacyPartial:
		return "PARTIAL SUCCESS"
	default:
		return "FAILURE"
	}
}

// LegacyResult is the outcome of the legacy categoryId check
type LegacyResult struct {
	Outcome LegacyOutcome
	Check   models.CheckResult
	Product map[string]any
	Err     error
}

// OK reports whether the service accepted the legacy field and echoed the relation
func (r LegacyResult) OK() bool {
	return r.Outcome == LegacySuccess
}

// RunLegacy creates a product with the singular categoryId field and verifies
// that the response carries a populated category object. It is not scored.
func RunLegacy(ctx context.Context, env *Env) LegacyResult {
	cfg := env.Config.Legacy
	payload := env.Generator.LegacyProduct(cfg.UserID, cfg.CategoryID)

	r := env.Tester.Execute(ctx, "Create product with legacy categoryId", env.API.CreateProduct(payload),
		http.StatusOK, http.StatusCreated)
	result := LegacyResult{Outcome: LegacyFailure, Check: r}
	if !r.Passed {
		result.Err = tester.Err(r)
		return result
	}

	product, err := tester.DecodeObject(r)
	if err != nil {
		result.Err = err
		return result
	}
	result.Product = product

	if env.Validator.HasPopulated("category", product) {
		result.Outcome = LegacySuccess
	} else {
		result.Outcome = LegacyPartial
	}
	return result
}
