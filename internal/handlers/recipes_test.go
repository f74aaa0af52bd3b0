package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marmitaria/models"
)

func seedRecipeWithItems(t *testing.T) (models.Recipe, models.Ingredient) {
	t.Helper()

	ingredient := models.Ingredient{Name: "Molho", PurchaseUnit: models.UnitLiter, PricePaid: 9, PackageQty: 2, PurchasedAt: time.Now().UTC()}
	if err := database.Create(&ingredient).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}

	recipe := models.Recipe{Name: "Recheio"}
	if err := database.Create(&recipe).Error; err != nil {
		t.Fatalf("seed recipe: %v", err)
	}

	item := models.RecipeItem{RecipeID: recipe.ID, IngredientID: ingredient.ID, BatchQty: 1500, Unit: models.UnitLiter}
	if err := database.Create(&item).Error; err != nil {
		t.Fatalf("seed recipe item: %v", err)
	}

	return recipe, ingredient
}

func TestRecipeUpsertCreatesAndUpdates(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodPost, "/app/api/recipes", strings.NewReader(`{"name":"Montagem"}`))
	rec := httptest.NewRecorder()
	RecipeResource(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created recipeResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == 0 || created.Name != "Montagem" {
		t.Fatalf("unexpected recipe %+v", created)
	}

	body := `{"id":` + uintString(created.ID) + `,"name":"Montagem Final"}`
	req = httptest.NewRequest(http.MethodPost, "/app/api/recipes", strings.NewReader(body))
	rec = httptest.NewRecorder()
	RecipeResource(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for update, got %d: %s", rec.Code, rec.Body.String())
	}

	var stored models.Recipe
	if err := database.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("reload recipe: %v", err)
	}
	if stored.Name != "Montagem Final" {
		t.Fatalf("update not applied: %+v", stored)
	}
}

func TestRecipeListIncludesBatchCost(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	recipe, _ := seedRecipeWithItems(t)

	req := httptest.NewRequest(http.MethodGet, "/app/api/recipes", nil)
	rec := httptest.NewRecorder()
	RecipeResource(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var results []recipeResponse
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 1 || results[0].ID != recipe.ID {
		t.Fatalf("unexpected recipes %+v", results)
	}

	// 9 / (2 * 1000) per mL, 1500 mL in the batch.
	want := 9.0 / 2000 * 1500
	if results[0].BatchCost != want {
		t.Fatalf("expected batch cost %v, got %v", want, results[0].BatchCost)
	}
}

func TestRecipeItemsListing(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	recipe, ingredient := seedRecipeWithItems(t)

	req := httptest.NewRequest(http.MethodGet, "/app/api/recipes/"+uintString(recipe.ID)+"/items", nil)
	rec := httptest.NewRecorder()
	RecipeResource(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var items []recipeItemResponse
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Ingredient != ingredient.Name {
		t.Fatalf("expected ingredient name %q, got %q", ingredient.Name, items[0].Ingredient)
	}
	if items[0].UnitCost != 9.0/2000 {
		t.Fatalf("unexpected unit cost %v", items[0].UnitCost)
	}
	if items[0].BatchCost != 9.0/2000*1500 {
		t.Fatalf("unexpected batch cost %v", items[0].BatchCost)
	}
}

func TestRecipeDeleteCascades(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	recipe, ingredient := seedRecipeWithItems(t)

	combo := models.Combo{Name: "Lasanha Completa"}
	if err := database.Create(&combo).Error; err != nil {
		t.Fatalf("seed combo: %v", err)
	}
	if err := database.Create(&models.ComboRecipe{ComboID: combo.ID, RecipeID: recipe.ID}).Error; err != nil {
		t.Fatalf("seed combo link: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/app/api/recipes/"+uintString(recipe.ID), nil)
	rec := httptest.NewRecorder()
	RecipeResource(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	var itemCount, linkCount, comboCount, ingredientCount int64
	if err := database.Model(&models.RecipeItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if err := database.Model(&models.ComboRecipe{}).Count(&linkCount).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	if err := database.Model(&models.Combo{}).Count(&comboCount).Error; err != nil {
		t.Fatalf("count combos: %v", err)
	}
	if err := database.Model(&models.Ingredient{}).Where("id = ?", ingredient.ID).Count(&ingredientCount).Error; err != nil {
		t.Fatalf("count ingredients: %v", err)
	}

	if itemCount != 0 || linkCount != 0 {
		t.Fatalf("expected items and links to be removed, got %d items %d links", itemCount, linkCount)
	}
	if comboCount != 1 || ingredientCount != 1 {
		t.Fatalf("expected combo and ingredient to survive, got %d combos %d ingredients", comboCount, ingredientCount)
	}
}

func TestRecipeDeleteUnknownID(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodDelete, "/app/api/recipes/123", nil)
	rec := httptest.NewRecorder()
	RecipeResource(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
