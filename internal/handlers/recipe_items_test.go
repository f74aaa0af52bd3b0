package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marmitaria/models"
)

func TestRecipeItemUpsertCreates(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	recipe, ingredient := seedRecipeWithItems(t)

	body := `{"recipe_id":` + uintString(recipe.ID) + `,"ingredient_id":` + uintString(ingredient.ID) + `,"batch_qty":250,"unit":"L"}`
	req := httptest.NewRequest(http.MethodPost, "/app/api/recipe-items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	RecipeItemResource(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp recipeItemResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == 0 || resp.BatchQty != 250 {
		t.Fatalf("unexpected item %+v", resp)
	}
	if resp.Ingredient != ingredient.Name {
		t.Fatalf("expected ingredient name %q, got %q", ingredient.Name, resp.Ingredient)
	}
}

func TestRecipeItemUpsertUpdates(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	recipe, ingredient := seedRecipeWithItems(t)

	var existing models.RecipeItem
	if err := database.Where("recipe_id = ?", recipe.ID).First(&existing).Error; err != nil {
		t.Fatalf("load seeded item: %v", err)
	}

	body := `{"id":` + uintString(existing.ID) + `,"recipe_id":` + uintString(recipe.ID) + `,"ingredient_id":` + uintString(ingredient.ID) + `,"batch_qty":900,"unit":"L"}`
	req := httptest.NewRequest(http.MethodPost, "/app/api/recipe-items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	RecipeItemResource(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var stored models.RecipeItem
	if err := database.First(&stored, existing.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if stored.BatchQty != 900 {
		t.Fatalf("update not applied: %+v", stored)
	}
}

func TestRecipeItemUpsertValidatesReferences(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	recipe, ingredient := seedRecipeWithItems(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "missing recipe", body: `{"recipe_id":9999,"ingredient_id":` + uintString(ingredient.ID) + `,"batch_qty":1,"unit":"L"}`},
		{name: "missing ingredient", body: `{"recipe_id":` + uintString(recipe.ID) + `,"ingredient_id":9999,"batch_qty":1,"unit":"L"}`},
		{name: "zero recipe id", body: `{"recipe_id":0,"ingredient_id":1,"batch_qty":1,"unit":"L"}`},
		{name: "negative quantity", body: `{"recipe_id":` + uintString(recipe.ID) + `,"ingredient_id":` + uintString(ingredient.ID) + `,"batch_qty":-1,"unit":"L"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/app/api/recipe-items", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			RecipeItemResource(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRecipeItemDelete(t *testing.T) {
	_, cleanup := withTestDatabase(t)
	t.Cleanup(cleanup)

	recipe, _ := seedRecipeWithItems(t)

	var existing models.RecipeItem
	if err := database.Where("recipe_id = ?", recipe.ID).First(&existing).Error; err != nil {
		t.Fatalf("load seeded item: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/app/api/recipe-items/"+uintString(existing.ID), nil)
	rec := httptest.NewRecorder()
	RecipeItemResource(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	var count int64
	if err := database.Model(&models.RecipeItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected item to be removed, %d remain", count)
	}
}
