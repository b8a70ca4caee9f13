package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"github.com/moamenhredeen/relcheck/internal/config"
	"github.com/moamenhredeen/relcheck/internal/tester"
)

// Step names
const (
	StepSetup           = "setup"
	StepCreate          = "create product with relations"
	StepFetchByID       = "fetch product by id"
	StepFetchByUser     = "fetch products by user"
	StepFetchByCategory = "fetch products by category"
	StepUpdate          = "update product"
	StepSequentialCount = "sequential validation"
	StepCleanup         = "cleanup"
)

// DefaultSteps returns the standard eight-step pipeline scored with w
func DefaultSteps(w config.Weights) []Step {
	return []Step{
		{
			Name:   StepSetup,
			Points: w.InitialCount + w.UserSelected,
			Gate:   true,
			Run:    setupStep(w),
		},
		{
			Name:     StepCreate,
			Points:   w.OwnerRelation + w.CategoryRelation,
			Requires: []Input{InputUserID, InputCategoryID},
			Run:      createStep(w),
		},
		{
			Name:     StepFetchByID,
			Points:   w.FetchRelations,
			Requires: []Input{InputProductID},
			Run:      fetchByIDStep(w),
		},
		{
			Name:     StepFetchByUser,
			Points:   w.ByUser,
			Requires: []Input{InputUserID},
			Run:      fetchByUserStep(w),
		},
		{
			Name:     StepFetchByCategory,
			Points:   w.ByCategory,
			Requires: []Input{InputCategoryID},
			Run:      fetchByCategoryStep(w),
		},
		{
			Name:     StepUpdate,
			Points:   w.Update,
			Requires: []Input{InputProductID, InputCategoryID},
			Run:      updateStep(w),
		},
		{
			Name:   StepSequentialCount,
			Points: w.CountIncreased,
			Run:    sequentialStep(w),
		},
		{
			Name:     StepCleanup,
			Points:   w.Cleanup,
			Requires: []Input{InputProductID},
			Always:   true,
			Run:      cleanupStep(w),
		},
	}
}

func setupStep(w config.Weights) func(context.Context, *StepContext) bool {
	return func(ctx context.Context, sc *StepContext) bool {
		env, state := sc.Env(), sc.State()

		r := sc.Check(ctx, "Count initial products", env.API.ListProducts())
		if r.Passed {
			if products, err := tester.DecodeArray(r); err != nil {
				sc.Errorf("%v", err)
			} else {
				state.InitialCount = len(products)
				state.InitialCounted = true
				sc.Infof("Initial products: %d", state.InitialCount)
				sc.Award(w.InitialCount, "Initial product count obtained")
			}
		}

		if env.Config.Setup.CreateFixtures {
			createFixtures(ctx, sc, w)
		} else {
			selectExistingUser(ctx, sc, w)
			useConfiguredCategory(ctx, sc)
		}

		return state.Has(InputUserID) && state.Has(InputCategoryID)
	}
}

func selectExistingUser(ctx context.Context, sc *StepContext, w config.Weights) {
	r := sc.Check(ctx, "Fetch existing users", sc.Env().API.ListUsers())
	if !r.Passed {
		return
	}
	users, err := tester.DecodeArray(r)
	if err != nil {
		sc.Errorf("%v", err)
		return
	}
	if len(users) == 0 {
		sc.Errorf("No existing users found")
		return
	}
	first, ok := users[0].(map[string]any)
	if !ok {
		sc.Errorf("First user is not an object")
		return
	}
	id, ok := tester.IDOf(first)
	if !ok {
		sc.Errorf("First user has no usable id")
		return
	}
	sc.State().Set(InputUserID, id)
	sc.Infof("User found with ID: %d - Name: %s", id, tester.StringField(first, "name", "N/A"))
	sc.Award(w.UserSelected, "Existing user selected")
}

// useConfiguredCategory takes the category id from configuration. With
// setup.verify_category the id is only used when the service lists it.
func useConfiguredCategory(ctx context.Context, sc *StepContext) {
	env := sc.Env()
	id := env.Config.Setup.CategoryID

	if env.Config.Setup.VerifyCategory {
		r := sc.Check(ctx, "Fetch existing categories", env.API.ListCategories())
		if !r.Passed {
			return
		}
		categories, err := tester.DecodeArray(r)
		if err != nil {
			sc.Errorf("%v", err)
			return
		}
		if !containsID(categories, id) {
			sc.Errorf("Category with ID %d not found", id)
			return
		}
	}

	sc.State().Set(InputCategoryID, id)
	if id, ok := sc.State().ID(InputCategoryID); ok {
		sc.Infof("Using category with ID: %d", id)
	}
}

func containsID(items []any, id int64) bool {
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			if got, ok := tester.IDOf(obj); ok && got == id {
				return true
			}
		}
	}
	return false
}

func createFixtures(ctx context.Context, sc *StepContext, w config.Weights) {
	env, state := sc.Env(), sc.State()

	r := sc.Check(ctx, "Create test user", env.API.CreateUser(env.Generator.User()), http.StatusCreated, http.StatusOK)
	if r.Passed {
		if user, err := tester.DecodeObject(r); err != nil {
			sc.Errorf("%v", err)
		} else if id, ok := tester.IDOf(user); ok {
			state.Set(InputUserID, id)
			sc.Infof("Test user created with ID: %d", id)
			sc.Award(w.UserSelected, "Test user created")
		} else {
			sc.Errorf("Created user has no usable id")
		}
	}

	r = sc.Check(ctx, "Create test category", env.API.CreateCategory(env.Generator.Category()), http.StatusCreated, http.StatusOK)
	if r.Passed {
		if category, err := tester.DecodeObject(r); err != nil {
			sc.Errorf("%v", err)
		} else if id, ok := tester.IDOf(category); ok {
			state.Set(InputCategoryID, id)
			sc.Infof("Test category created with ID: %d", id)
		} else {
			sc.Errorf("Created category has no usable id")
		}
	}
}

func createStep(w config.Weights) func(context.Context, *StepContext) bool {
	return func(ctx context.Context, sc *StepContext) bool {
		env, state := sc.Env(), sc.State()
		userID, _ := state.ID(InputUserID)
		categoryID, _ := state.ID(InputCategoryID)

		payload := env.Generator.Product(userID, categoryID)
		r := sc.Check(ctx, "Create product with userId and categoryIds", env.API.CreateProduct(payload),
			http.StatusCreated, http.StatusOK)
		if !r.Passed {
			return false
		}
		product, err := tester.DecodeObject(r)
		if err != nil {
			sc.Errorf("%v", err)
			return false
		}

		if id, ok := tester.IDOf(product); ok {
			state.Set(InputProductID, id)
		}

		if env.Validator.HasRelation(tester.RuleOwner, product) {
			sc.Award(w.OwnerRelation, "Product created with user relation")
		}
		if env.Validator.HasRelation(tester.RuleCategory, product) {
			sc.Award(w.CategoryRelation, "Product created with category relation")
		}

		id, ok := state.ID(InputProductID)
		if !ok {
			sc.Warnf("Created product has no usable id")
			return false
		}
		sc.Infof("Product created with ID: %d", id)
		return true
	}
}

func fetchByIDStep(w config.Weights) func(context.Context, *StepContext) bool {
	return func(ctx context.Context, sc *StepContext) bool {
		env := sc.Env()
		id, _ := sc.State().ID(InputProductID)

		r := sc.Check(ctx, "Fetch product by ID", env.API.GetProduct(id))
		if !r.Passed {
			return false
		}
		product, err := tester.DecodeObject(r)
		if err != nil {
			sc.Errorf("%v", err)
			return false
		}

		if env.Validator.HasRelation(tester.RuleOwner, product) && env.Validator.HasRelation(tester.RuleCategory, product) {
			sc.Award(w.FetchRelations, "Product includes relation information")
			return true
		}
		sc.Warnf("The product does not include complete relation information")
		return false
	}
}

func fetchByUserStep(w config.Weights) func(context.Context, *StepContext) bool {
	return func(ctx context.Context, sc *StepContext) bool {
		id, _ := sc.State().ID(InputUserID)
		return nonEmptyList(ctx, sc, "Fetch products of user", sc.Env().API.ProductsByUser(id),
			w.ByUser, "product(s) of the user", "No products found for the user")
	}
}

func fetchByCategoryStep(w config.Weights) func(context.Context, *StepContext) bool {
	return func(ctx context.Context, sc *StepContext) bool {
		id, _ := sc.State().ID(InputCategoryID)
		return nonEmptyList(ctx, sc, "Fetch products of category", sc.Env().API.ProductsByCategory(id),
			w.ByCategory, "product(s) of the category", "No products found for the category")
	}
}

func nonEmptyList(ctx context.Context, sc *StepContext, description string, fn tester.RequestFunc, points float64, found, empty string) bool {
	r := sc.Check(ctx, description, fn)
	if !r.Passed {
		return false
	}
	items, err := tester.DecodeArray(r)
	if err != nil {
		sc.Errorf("%v", err)
		return false
	}
	if len(items) == 0 {
		sc.Warnf("%s", empty)
		return false
	}
	sc.Award(points, fmt.Sprintf("Found %d %s", len(items), found))
	return true
}

func updateStep(w config.Weights) func(context.Context, *StepContext) bool {
	return func(ctx context.Context, sc *StepContext) bool {
		env, state := sc.Env(), sc.State()
		id, _ := state.ID(InputProductID)
		categoryID, _ := state.ID(InputCategoryID)
		name := env.Config.Rules.UpdatedName

		r := sc.Check(ctx, "Update product", env.API.UpdateProduct(id, env.Generator.ProductUpdate(name, categoryID)))
		if !r.Passed {
			return false
		}
		product, err := tester.DecodeObject(r)
		if err != nil {
			sc.Errorf("%v", err)
			return false
		}
		if !env.Validator.NameMatches(name, product) {
			sc.Warnf("Updated name was not echoed back, got %q", tester.StringField(product, "name", ""))
			return false
		}
		sc.Award(w.Update, "Product updated correctly")
		return true
	}
}

func sequentialStep(w config.Weights) func(context.Context, *StepContext) bool {
	return func(ctx context.Context, sc *StepContext) bool {
		state := sc.State()

		r := sc.Check(ctx, "Count final products", sc.Env().API.ListProducts())
		if !r.Passed {
			return false
		}
		products, err := tester.DecodeArray(r)
		if err != nil {
			sc.Errorf("%v", err)
			return false
		}
		state.FinalCount = len(products)
		state.FinalCounted = true
		sc.Infof("Initial products: %d", state.InitialCount)
		sc.Infof("Final products: %d", state.FinalCount)

		if state.FinalCount > state.InitialCount {
			sc.Award(w.CountIncreased, "Product count increased")
			return true
		}
		sc.Warnf("The product count did not increase as expected")
		return false
	}
}

func cleanupStep(w config.Weights) func(context.Context, *StepContext) bool {
	return func(ctx context.Context, sc *StepContext) bool {
		id, _ := sc.State().ID(InputProductID)

		r := sc.Check(ctx, "Delete test product", sc.Env().API.DeleteProduct(id), http.StatusNoContent, http.StatusOK)
		if !r.Passed {
			return false
		}
		sc.Infof("Test product deleted")
		sc.Award(w.Cleanup, "Test product deleted")
		return true
	}
}
