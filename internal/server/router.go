package server

import (
	"context"
	"net/http"

	"marmitaria/internal/handlers"
	applog "marmitaria/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/logout", handlers.Logout)

	protect := func(h http.HandlerFunc) http.Handler {
		return handlers.RequireAuthentication(h)
	}

	mux.Handle("/app/api/dashboard", protect(handlers.Dashboard))
	mux.Handle("/app/api/sales", protect(handlers.SaleResource))
	mux.Handle("/app/api/settings", protect(handlers.SettingsResource))
	mux.Handle("/app/api/settings/", protect(handlers.SettingsResource))
	mux.Handle("/app/api/ingredients", protect(handlers.IngredientResource))
	mux.Handle("/app/api/ingredients/", protect(handlers.IngredientResource))
	mux.Handle("/app/api/recipes", protect(handlers.RecipeResource))
	mux.Handle("/app/api/recipes/", protect(handlers.RecipeResource))
	mux.Handle("/app/api/recipe-items", protect(handlers.RecipeItemResource))
	mux.Handle("/app/api/recipe-items/", protect(handlers.RecipeItemResource))
	mux.Handle("/app/api/combos", protect(handlers.ComboResource))
	mux.Handle("/app/api/combos/", protect(handlers.ComboResource))
	mux.Handle("/app/api/combo-recipes", protect(handlers.ComboRecipeResource))
	mux.Handle("/app/api/combo-recipes/", protect(handlers.ComboRecipeResource))

	mux.HandleFunc("/", handlers.Root)

	return mux
}
