package seed

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"marmitaria/internal/db"
	applog "marmitaria/internal/log"
	"marmitaria/models"
)

// New returns an in-memory sqlite database seeded with representative
// kitchen data: the bootstrap account, default settings and a complete
// lasagna combo.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising seeded database")

	database, err := gorm.Open(sqlite.Open("file:marmitaria-seed?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := Apply(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "seeded database ready")
	return database, nil
}

// ApplyIfEmpty seeds the database only when no account exists yet, so
// restarting with seeding enabled does not duplicate data.
func ApplyIfEmpty(ctx context.Context, database *gorm.DB) error {
	var count int64
	if err := database.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		applog.Debug(ctx, "database already populated, skipping seed")
		return nil
	}
	return Apply(ctx, database)
}

// Apply inserts the seed records into an already-migrated database.
func Apply(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding database")

	password, err := bcrypt.GenerateFromPassword([]byte("123elane321"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:     "elayne",
		PasswordHash: string(password),
	}
	if err := database.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	settings := models.DefaultSettings()
	if err := database.WithContext(ctx).Create(&settings).Error; err != nil {
		return err
	}

	massa := models.Ingredient{
		Name:         "Massa de lasanha",
		PurchaseUnit: models.UnitKilogram,
		PricePaid:    12.0,
		PackageQty:   1.0,
		PurchasedAt:  time.Now().UTC(),
	}

	molho := models.Ingredient{
		Name:         "Molho de tomate",
		PurchaseUnit: models.UnitLiter,
		PricePaid:    9.0,
		PackageQty:   2.0,
		PurchasedAt:  time.Now().UTC(),
	}

	queijo := models.Ingredient{
		Name:         "Queijo mussarela",
		PurchaseUnit: models.UnitKilogram,
		PricePaid:    38.0,
		PackageQty:   1.0,
		PurchasedAt:  time.Now().UTC(),
	}

	embalagem := models.Ingredient{
		Name:         "Embalagem",
		PurchaseUnit: models.UnitCount,
		PricePaid:    25.0,
		PackageQty:   50.0,
		PurchasedAt:  time.Now().UTC(),
	}

	ingredients := []*models.Ingredient{&massa, &molho, &queijo, &embalagem}
	for _, ingredient := range ingredients {
		if err := database.WithContext(ctx).Create(ingredient).Error; err != nil {
			return err
		}
	}

	recheio := models.Recipe{Name: "Recheio"}
	montagem := models.Recipe{Name: "Montagem"}

	if err := database.WithContext(ctx).Create(&recheio).Error; err != nil {
		return err
	}
	if err := database.WithContext(ctx).Create(&montagem).Error; err != nil {
		return err
	}

	items := []models.RecipeItem{
		{RecipeID: recheio.ID, IngredientID: molho.ID, BatchQty: 1500, Unit: "ml"},
		{RecipeID: recheio.ID, IngredientID: queijo.ID, BatchQty: 800, Unit: "g"},
		{RecipeID: montagem.ID, IngredientID: massa.ID, BatchQty: 1000, Unit: "g"},
		{RecipeID: montagem.ID, IngredientID: embalagem.ID, BatchQty: 10, Unit: "un"},
	}

	for _, item := range items {
		itemCopy := item
		if err := database.WithContext(ctx).Create(&itemCopy).Error; err != nil {
			return err
		}
	}

	combo := models.Combo{Name: models.DefaultComboName}
	if err := database.WithContext(ctx).Create(&combo).Error; err != nil {
		return err
	}

	links := []models.ComboRecipe{
		{ComboID: combo.ID, RecipeID: recheio.ID},
		{ComboID: combo.ID, RecipeID: montagem.ID},
	}

	for _, link := range links {
		linkCopy := link
		if err := database.WithContext(ctx).Create(&linkCopy).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "database seeded")
	return nil
}
