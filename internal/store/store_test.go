package store

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/apperrors"
	"github.com/01moynul/autoparts-golang/internal/compat"
	"github.com/01moynul/autoparts-golang/internal/models"
	"github.com/01moynul/autoparts-golang/internal/testutil"
)

var ctx = context.Background()

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(testutil.NewDB(t)).WithClock(func() time.Time {
		return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	})
}

func ptr(v uint) *uint { return &v }

// vehicle is one full branch of the hierarchy.
type vehicle struct {
	Make     *models.CarMake
	Model    *models.CarModel
	Year     *models.CarYear
	BodyType *models.CarBodyType
	Engine   *models.CarEngine
}

func (v vehicle) tuple() compat.Vehicle {
	return compat.Vehicle{MakeID: v.Make.ID, ModelID: v.Model.ID, YearID: v.Year.ID, BodyTypeID: v.BodyType.ID, EngineID: v.Engine.ID}
}

func mustVehicle(t *testing.T, s *Store, makeName, modelName string, year int) vehicle {
	t.Helper()
	var v vehicle
	var err error

	makes, err := s.ListMakes(ctx)
	require.NoError(t, err)
	for i := range makes {
		if makes[i].Name == makeName {
			v.Make = &makes[i]
		}
	}
	if v.Make == nil {
		v.Make, err = s.CreateMake(ctx, models.CarMakeInput{Name: makeName})
		require.NoError(t, err)
	}
	v.Model, err = s.CreateModel(ctx, models.CarModelInput{Name: modelName, MakeID: v.Make.ID})
	require.NoError(t, err)
	v.Year, err = s.CreateYear(ctx, models.CarYearInput{Year: year, ModelID: v.Model.ID})
	require.NoError(t, err)
	v.BodyType, err = s.CreateBodyType(ctx, models.CarBodyTypeInput{Name: "Sedan", YearID: v.Year.ID})
	require.NoError(t, err)
	v.Engine, err = s.CreateEngine(ctx, models.CarEngineInput{Name: "1.6 MPI", BodyTypeID: v.BodyType.ID})
	require.NoError(t, err)
	return v
}

type catalog struct {
	Category     *models.Category
	Sub          *models.Category
	Manufacturer *models.Manufacturer
}

func mustCatalog(t *testing.T, s *Store) catalog {
	t.Helper()
	var c catalog
	var err error
	c.Category, err = s.CreateCategory(ctx, models.CategoryInput{Name: "Brakes"})
	require.NoError(t, err)
	c.Sub, err = s.CreateCategory(ctx, models.CategoryInput{Name: "Brake Pads", ParentID: &c.Category.ID})
	require.NoError(t, err)
	c.Manufacturer, err = s.CreateManufacturer(ctx, models.ManufacturerInput{Name: "Bosch", Country: "Germany"})
	require.NoError(t, err)
	return c
}

func mustProduct(t *testing.T, s *Store, c catalog, name string, price string, stock int) *models.Product {
	t.Helper()
	p, err := s.CreateProduct(ctx, models.ProductInput{
		Name:           name,
		Price:          decimal.RequireFromString(price),
		StockQuantity:  stock,
		CategoryID:     c.Sub.ID,
		ManufacturerID: c.Manufacturer.ID,
	})
	require.NoError(t, err)
	return p
}

func countRows(t *testing.T, s *Store, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB().Model(model).Count(&n).Error)
	return n
}

func TestDeleteMakeCascades(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	p := mustProduct(t, s, c, "Front pads", "25.00", 10)

	logan := mustVehicle(t, s, "Renault", "Logan", 2015)
	mustVehicle(t, s, "Renault", "Duster", 2018)
	golf := mustVehicle(t, s, "Volkswagen", "Golf", 2016)

	_, err := s.CreateCompatibility(ctx, models.CompatibilityInput{ProductID: p.ID, CarMakeID: logan.Make.ID})
	require.NoError(t, err)
	_, err = s.CreateCompatibility(ctx, models.CompatibilityInput{
		ProductID: p.ID, CarMakeID: logan.Make.ID, CarModelID: &logan.Model.ID,
		CarYearID: &logan.Year.ID, CarBodyTypeID: &logan.BodyType.ID, CarEngineID: &logan.Engine.ID,
	})
	require.NoError(t, err)
	kept, err := s.CreateCompatibility(ctx, models.CompatibilityInput{ProductID: p.ID, CarMakeID: golf.Make.ID, CarModelID: &golf.Model.ID})
	require.NoError(t, err)

	sum, err := s.DeleteMake(ctx, logan.Make.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeleteSummary{Makes: 1, Models: 2, Years: 2, BodyTypes: 2, Engines: 2, Compatibilities: 2}, sum)

	assert.Equal(t, int64(1), countRows(t, s, &models.CarMake{}))
	assert.Equal(t, int64(1), countRows(t, s, &models.CarModel{}))
	assert.Equal(t, int64(1), countRows(t, s, &models.CarYear{}))
	assert.Equal(t, int64(1), countRows(t, s, &models.CarBodyType{}))
	assert.Equal(t, int64(1), countRows(t, s, &models.CarEngine{}))

	rows, err := s.ListCompatibilities(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, kept.ID, rows[0].ID)

	_, err = s.DeleteMake(ctx, logan.Make.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteYearCascades(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	p := mustProduct(t, s, c, "Oil filter", "7.50", 5)
	v := mustVehicle(t, s, "Skoda", "Octavia", 2012)

	_, err := s.CreateCompatibility(ctx, models.CompatibilityInput{
		ProductID: p.ID, CarMakeID: v.Make.ID, CarModelID: &v.Model.ID, CarYearID: &v.Year.ID, CarBodyTypeID: &v.BodyType.ID,
	})
	require.NoError(t, err)
	_, err = s.CreateCompatibility(ctx, models.CompatibilityInput{ProductID: p.ID, CarMakeID: v.Make.ID, CarModelID: &v.Model.ID})
	require.NoError(t, err)

	sum, err := s.DeleteYear(ctx, v.Year.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeleteSummary{Years: 1, BodyTypes: 1, Engines: 1, Compatibilities: 1}, sum)
	assert.Equal(t, int64(1), countRows(t, s, &models.CarModel{}))
	assert.Equal(t, int64(1), countRows(t, s, &models.Compatibility{}))
}

func TestCreateYearRange(t *testing.T) {
	s := newStore(t)
	v := mustVehicle(t, s, "Lada", "Niva", 1977)

	for _, year := range []int{1969, 2025, 0} {
		_, err := s.CreateYear(ctx, models.CarYearInput{Year: year, ModelID: v.Model.ID})
		require.Error(t, err, "year %d", year)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	}

	for _, year := range []int{1970, 2024} {
		_, err := s.CreateYear(ctx, models.CarYearInput{Year: year, ModelID: v.Model.ID})
		assert.NoError(t, err, "year %d", year)
	}

	_, err := s.CreateYear(ctx, models.CarYearInput{Year: 2024, ModelID: v.Model.ID})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	_, err = s.UpdateYear(ctx, v.Year.ID, models.CarYearInput{Year: 1950, ModelID: v.Model.ID})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	years, err := s.ListYears(ctx, v.Model.ID)
	require.NoError(t, err)
	require.Len(t, years, 3)
	assert.Equal(t, []int{1970, 1977, 2024}, []int{years[0].Year, years[1].Year, years[2].Year})
}

func TestNameUniqueness(t *testing.T) {
	s := newStore(t)

	reno, err := s.CreateMake(ctx, models.CarMakeInput{Name: "  Рено "})
	require.NoError(t, err)
	assert.Equal(t, "Рено", reno.Name)

	_, err = s.CreateMake(ctx, models.CarMakeInput{Name: "рено"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))

	_, err = s.CreateMake(ctx, models.CarMakeInput{Name: "Reno"})
	assert.NoError(t, err)

	citroen, err := s.CreateMake(ctx, models.CarMakeInput{Name: "Citroën"})
	require.NoError(t, err)
	_, err = s.CreateMake(ctx, models.CarMakeInput{Name: "CITROEN"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	// renaming to its own name is not a conflict
	_, err = s.UpdateMake(ctx, citroen.ID, models.CarMakeInput{Name: "citroën"})
	assert.NoError(t, err)
	_, err = s.UpdateMake(ctx, citroen.ID, models.CarMakeInput{Name: "РЕНО"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	// model names are unique per make only
	_, err = s.CreateModel(ctx, models.CarModelInput{Name: "C4", MakeID: citroen.ID})
	require.NoError(t, err)
	_, err = s.CreateModel(ctx, models.CarModelInput{Name: "c4", MakeID: citroen.ID})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	_, err = s.CreateModel(ctx, models.CarModelInput{Name: "C4", MakeID: reno.ID})
	assert.NoError(t, err)
}

func TestNameKeysKeepCyrillicLetters(t *testing.T) {
	s := newStore(t)

	// letters that differ only by a Cyrillic diacritic are different names
	for _, pair := range [][2]string{{"Иота", "Йота"}, {"Інтер", "Їнтер"}, {"Ели", "Ёли"}} {
		_, err := s.CreateMake(ctx, models.CarMakeInput{Name: pair[0]})
		require.NoError(t, err, pair[0])
		_, err = s.CreateMake(ctx, models.CarMakeInput{Name: pair[1]})
		assert.NoError(t, err, pair[1])
	}

	_, err := s.CreateManufacturer(ctx, models.ManufacturerInput{Name: "Хюндаи"})
	require.NoError(t, err)
	_, err = s.CreateManufacturer(ctx, models.ManufacturerInput{Name: "Хюндай"})
	assert.NoError(t, err)
	_, err = s.CreateManufacturer(ctx, models.ManufacturerInput{Name: "ХЮНДАЙ"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestSKUUniqueness(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	in := func(name, sku string) models.ProductInput {
		return models.ProductInput{
			Name: name, SKU: sku, Price: decimal.RequireFromString("1.00"),
			CategoryID: c.Sub.ID, ManufacturerID: c.Manufacturer.ID,
		}
	}

	first, err := s.CreateProduct(ctx, in("Filter A", "OF-100"))
	require.NoError(t, err)
	assert.Equal(t, "OF-100", first.SKU)

	_, err = s.CreateProduct(ctx, in("Filter B", " of-100 "))
	assert.ErrorIs(t, err, ErrDuplicateSKU)
	assert.Equal(t, http.StatusConflict, apperrors.StatusCode(err))

	// products without a SKU never collide
	_, err = s.CreateProduct(ctx, in("Filter C", ""))
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, in("Filter D", ""))
	assert.NoError(t, err)

	_, err = s.UpdateProduct(ctx, first.ID, in("Filter A", "of-100"))
	assert.NoError(t, err)
}

func TestParentMustExist(t *testing.T) {
	s := newStore(t)

	_, err := s.CreateModel(ctx, models.CarModelInput{Name: "Ghost", MakeID: 42})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = s.CreateYear(ctx, models.CarYearInput{Year: 2010, ModelID: 42})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = s.CreateBodyType(ctx, models.CarBodyTypeInput{Name: "Coupe", YearID: 42})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = s.CreateEngine(ctx, models.CarEngineInput{Name: "V8", BodyTypeID: 42})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = s.UpdateModel(ctx, 42, models.CarModelInput{Name: "Ghost", MakeID: 1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// misses keep the driver error as their cause
	_, err = s.GetProduct(ctx, 42)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestUpdateModelMovesCompatibilities(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	p := mustProduct(t, s, c, "Spark plug", "4.20", 50)
	v := mustVehicle(t, s, "Dacia", "Logan", 2010)
	renault, err := s.CreateMake(ctx, models.CarMakeInput{Name: "Renault"})
	require.NoError(t, err)

	row, err := s.CreateCompatibility(ctx, models.CompatibilityInput{
		ProductID: p.ID, CarMakeID: v.Make.ID, CarModelID: &v.Model.ID, CarYearID: &v.Year.ID,
	})
	require.NoError(t, err)

	_, err = s.UpdateModel(ctx, v.Model.ID, models.CarModelInput{Name: "Logan", MakeID: renault.ID})
	require.NoError(t, err)

	row, err = s.GetCompatibility(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, renault.ID, row.CarMakeID)
	assert.Equal(t, v.Model.ID, *row.CarModelID)
}

func TestCompatibilityValidation(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	p := mustProduct(t, s, c, "Wiper blade", "9.99", 3)
	a := mustVehicle(t, s, "Audi", "A4", 2015)
	b := mustVehicle(t, s, "BMW", "X5", 2019)

	tests := []struct {
		name string
		in   models.CompatibilityInput
	}{
		{"unknown product", models.CompatibilityInput{ProductID: 999, CarMakeID: a.Make.ID}},
		{"unknown make", models.CompatibilityInput{ProductID: p.ID, CarMakeID: 999}},
		{"gap in the chain", models.CompatibilityInput{ProductID: p.ID, CarMakeID: a.Make.ID, CarYearID: &a.Year.ID}},
		{"model of another make", models.CompatibilityInput{ProductID: p.ID, CarMakeID: a.Make.ID, CarModelID: &b.Model.ID}},
		{"engine of another body type", models.CompatibilityInput{
			ProductID: p.ID, CarMakeID: a.Make.ID, CarModelID: &a.Model.ID, CarYearID: &a.Year.ID,
			CarBodyTypeID: &a.BodyType.ID, CarEngineID: &b.Engine.ID,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateCompatibility(ctx, tt.in)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	row, err := s.CreateCompatibility(ctx, models.CompatibilityInput{ProductID: p.ID, CarMakeID: a.Make.ID, CarModelID: ptr(0)})
	require.NoError(t, err)
	assert.Nil(t, row.CarModelID)
	require.NotNil(t, row.CarMake)
	assert.Equal(t, "Audi", row.CarMake.Name)

	_, err = s.CreateCompatibility(ctx, models.CompatibilityInput{ProductID: p.ID, CarMakeID: a.Make.ID})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	updated, err := s.UpdateCompatibility(ctx, row.ID, models.CompatibilityInput{ProductID: p.ID, CarMakeID: a.Make.ID, CarModelID: &a.Model.ID})
	require.NoError(t, err)
	assert.Equal(t, a.Model.ID, *updated.CarModelID)

	require.NoError(t, s.DeleteCompatibility(ctx, row.ID))
	assert.ErrorIs(t, s.DeleteCompatibility(ctx, row.ID), apperrors.ErrNotFound)
}

func TestProductFits(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	p := mustProduct(t, s, c, "Cabin filter", "12.00", 8)
	a4 := mustVehicle(t, s, "Audi", "A4", 2015)
	a6 := mustVehicle(t, s, "Audi", "A6", 2017)
	x5 := mustVehicle(t, s, "BMW", "X5", 2019)

	_, err := s.CreateCompatibility(ctx, models.CompatibilityInput{ProductID: p.ID, CarMakeID: a4.Make.ID})
	require.NoError(t, err)

	for _, v := range []vehicle{a4, a6} {
		ok, err := s.ProductFits(ctx, p.Slug, v.tuple())
		require.NoError(t, err)
		assert.True(t, ok, "make-only row should fit %s", v.Model.Name)
	}
	ok, err := s.ProductFits(ctx, "1", x5.tuple())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.ProductFits(ctx, "no-such-product", x5.tuple())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListProducts(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	other, err := s.CreateCategory(ctx, models.CategoryInput{Name: "Filters"})
	require.NoError(t, err)

	pads := mustProduct(t, s, c, "Brake pads 50% off", "30.00", 4)
	disc := mustProduct(t, s, c, "Brake disc", "80.00", 2)
	_, err = s.CreateProduct(ctx, models.ProductInput{
		Name: "Oil filter", Price: decimal.RequireFromString("8.00"), StockQuantity: 20,
		CategoryID: other.ID, ManufacturerID: c.Manufacturer.ID, SKU: "OF-100",
	})
	require.NoError(t, err)
	variant, err := s.CreateProduct(ctx, models.ProductInput{
		Name: "Brake disc vented", Price: decimal.RequireFromString("95.00"), StockQuantity: 1,
		CategoryID: c.Sub.ID, ManufacturerID: c.Manufacturer.ID, IsVariant: true, BaseProductID: &disc.ID, VariantLabel: "vented",
	})
	require.NoError(t, err)

	golf := mustVehicle(t, s, "Volkswagen", "Golf", 2016)
	polo := mustVehicle(t, s, "Volkswagen", "Polo", 2016)
	_, err = s.CreateCompatibility(ctx, models.CompatibilityInput{ProductID: disc.ID, CarMakeID: golf.Make.ID, CarModelID: &golf.Model.ID})
	require.NoError(t, err)
	_, err = s.CreateCompatibility(ctx, models.CompatibilityInput{ProductID: pads.ID, CarMakeID: polo.Make.ID, CarModelID: &polo.Model.ID})
	require.NoError(t, err)

	names := func(page *models.ProductPage) []string {
		var out []string
		for _, p := range page.Items {
			out = append(out, p.Name)
		}
		return out
	}
	list := func(f models.ProductFilter, v compat.Vehicle) *models.ProductPage {
		t.Helper()
		page, err := s.ListProducts(ctx, f, v)
		require.NoError(t, err)
		return page
	}

	page := list(models.ProductFilter{}, compat.Vehicle{})
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, []string{"Brake disc", "Brake pads 50% off", "Oil filter"}, names(page))
	assert.NotNil(t, page.Items[0].Category)

	assert.Equal(t, []string{"Brake disc", "Brake disc vented", "Brake pads 50% off", "Oil filter"},
		names(list(models.ProductFilter{IncludeVariants: true}, compat.Vehicle{})))

	assert.Equal(t, []string{"Brake pads 50% off"}, names(list(models.ProductFilter{Query: "50%"}, compat.Vehicle{})))
	assert.Equal(t, []string{"Oil filter"}, names(list(models.ProductFilter{Query: "of-1"}, compat.Vehicle{})))
	assert.Equal(t, []string{"Brake disc", "Brake pads 50% off"}, names(list(models.ProductFilter{CategoryID: c.Category.ID}, compat.Vehicle{})))

	minPrice, maxPrice := decimal.RequireFromString("10"), decimal.RequireFromString("50")
	assert.Equal(t, []string{"Brake pads 50% off"}, names(list(models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}, compat.Vehicle{})))

	fitsGolf := list(models.ProductFilter{IncludeVariants: true}, golf.tuple())
	assert.Equal(t, []string{"Brake disc", "Brake disc vented"}, names(fitsGolf))
	assert.Equal(t, []string{"Brake pads 50% off"}, names(list(models.ProductFilter{}, compat.Vehicle{MakeID: polo.Make.ID, ModelID: polo.Model.ID})))
	assert.Equal(t, []string{"Brake disc", "Brake pads 50% off"}, names(list(models.ProductFilter{}, compat.Vehicle{MakeID: golf.Make.ID})))

	paged := list(models.ProductFilter{Page: 2, Limit: 2}, compat.Vehicle{})
	assert.Equal(t, int64(3), paged.Total)
	assert.Equal(t, []string{"Oil filter"}, names(paged))

	ok, err := s.ProductFits(ctx, variant.Slug, golf.tuple())
	require.NoError(t, err)
	assert.True(t, ok, "variant fits through its base product")
}

func TestProductVariantRules(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	base := mustProduct(t, s, c, "Engine oil 5W-30", "10.00", 10)
	assert.Equal(t, "engine-oil-5w-30-1", base.Slug)

	in := func(isVariant bool, baseID *uint) models.ProductInput {
		return models.ProductInput{
			Name: "Engine oil 5W-30 4L", Price: decimal.RequireFromString("35.00"),
			CategoryID: c.Sub.ID, ManufacturerID: c.Manufacturer.ID,
			IsVariant: isVariant, BaseProductID: baseID, VariantLabel: "4L",
		}
	}

	_, err := s.CreateProduct(ctx, in(true, nil))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = s.CreateProduct(ctx, in(false, &base.ID))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = s.CreateProduct(ctx, in(true, ptr(999)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	variant, err := s.CreateProduct(ctx, in(true, &base.ID))
	require.NoError(t, err)
	assert.Equal(t, "4L", variant.VariantLabel)

	_, err = s.CreateProduct(ctx, in(true, &variant.ID))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "variant of a variant")

	_, err = s.UpdateProduct(ctx, base.ID, in(true, &base.ID))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "own base")

	detail, err := s.GetProductDetail(ctx, base.Slug)
	require.NoError(t, err)
	require.Len(t, detail.Variants, 1)
	assert.Equal(t, variant.ID, detail.Variants[0].ID)
	assert.Equal(t, "Bosch", detail.Manufacturer.Name)

	err = s.DeleteProduct(ctx, base.ID)
	assert.ErrorIs(t, err, apperrors.ErrInUse)

	require.NoError(t, s.DeleteProduct(ctx, variant.ID))
	require.NoError(t, s.DeleteProduct(ctx, base.ID))
	assert.ErrorIs(t, s.DeleteProduct(ctx, base.ID), apperrors.ErrNotFound)
}

func TestDeleteProductRemovesDependents(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	p := mustProduct(t, s, c, "Air filter", "15.00", 10)
	v := mustVehicle(t, s, "Ford", "Focus", 2014)
	u, err := s.Register(ctx, models.RegisterInput{FullName: "Ivan", Email: "ivan@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = s.CreateCompatibility(ctx, models.CompatibilityInput{ProductID: p.ID, CarMakeID: v.Make.ID})
	require.NoError(t, err)
	_, err = s.CreateReview(ctx, u, models.ReviewInput{ProductID: p.ID, Rating: 5})
	require.NoError(t, err)
	require.NoError(t, s.AddToCart(ctx, u.ID, models.AddToCartInput{ProductID: p.ID, Quantity: 1}))

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	assert.Zero(t, countRows(t, s, &models.Compatibility{}))
	assert.Zero(t, countRows(t, s, &models.Review{}))
	assert.Zero(t, countRows(t, s, &models.CartItem{}))
}

func TestCategories(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)

	_, err := s.CreateCategory(ctx, models.CategoryInput{Name: "Too deep", ParentID: &c.Sub.ID})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = s.CreateCategory(ctx, models.CategoryInput{Name: "brakes"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	_, err = s.CreateCategory(ctx, models.CategoryInput{Name: "Brake pads"})
	assert.NoError(t, err, "same name under another parent")

	tree, err := s.CategoryTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Brake pads", tree[0].Name)
	assert.Empty(t, tree[0].Children)
	assert.Equal(t, "Brakes", tree[1].Name)
	require.Len(t, tree[1].Children, 1)
	assert.Equal(t, "brake-pads", tree[1].Children[0].Slug)

	assert.ErrorIs(t, s.DeleteCategory(ctx, c.Category.ID), apperrors.ErrInUse)
	mustProduct(t, s, c, "Pads", "1.00", 1)
	assert.ErrorIs(t, s.DeleteCategory(ctx, c.Sub.ID), apperrors.ErrInUse)
	assert.ErrorIs(t, s.DeleteManufacturer(ctx, c.Manufacturer.ID), apperrors.ErrInUse)

	_, err = s.CreateManufacturer(ctx, models.ManufacturerInput{Name: "BOSCH"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestCheckout(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	pads := mustProduct(t, s, c, "Pads", "19.99", 5)
	disc := mustProduct(t, s, c, "Disc", "45.50", 1)
	u, err := s.Register(ctx, models.RegisterInput{FullName: "Olena", Email: "olena@example.com", Password: "password1"})
	require.NoError(t, err)
	checkout := models.CheckoutInput{ContactName: "Olena", ContactPhone: "+380501112233", ShippingAddress: "Kyiv"}

	_, err = s.Checkout(ctx, u.ID, checkout)
	assert.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, s.AddToCart(ctx, u.ID, models.AddToCartInput{ProductID: pads.ID, Quantity: 2}))
	require.NoError(t, s.AddToCart(ctx, u.ID, models.AddToCartInput{ProductID: pads.ID, Quantity: 1}))
	require.NoError(t, s.AddToCart(ctx, u.ID, models.AddToCartInput{ProductID: disc.ID, Quantity: 1}))
	err = s.AddToCart(ctx, u.ID, models.AddToCartInput{ProductID: disc.ID, Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrInUse)

	cart, err := s.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.TotalItems)
	assert.Equal(t, "105.47", cart.Subtotal.StringFixed(2))

	// another shopper buys the last disc first
	require.NoError(t, s.DB().Model(&models.Product{}).Where("id = ?", disc.ID).Update("stock_quantity", 0).Error)
	_, err = s.Checkout(ctx, u.ID, checkout)
	assert.ErrorIs(t, err, apperrors.ErrInUse)
	require.NoError(t, s.SetCartQuantity(ctx, u.ID, disc.ID, 0))

	order, err := s.Checkout(ctx, u.ID, checkout)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "59.97", order.Total.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Pads", order.Items[0].ProductName)

	p, err := s.GetProduct(ctx, pads.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.StockQuantity)

	cart, err = s.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestOrderStatus(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	pads := mustProduct(t, s, c, "Pads", "10.00", 5)
	u, err := s.Register(ctx, models.RegisterInput{FullName: "Taras", Email: "taras@example.com", Password: "password1"})
	require.NoError(t, err)
	other, err := s.Register(ctx, models.RegisterInput{FullName: "Petro", Email: "petro@example.com", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, s.AddToCart(ctx, u.ID, models.AddToCartInput{ProductID: pads.ID, Quantity: 3}))
	order, err := s.Checkout(ctx, u.ID, models.CheckoutInput{ContactName: "Taras", ContactPhone: "1", ShippingAddress: "Lviv"})
	require.NoError(t, err)

	_, err = s.GetOrder(ctx, order.ID, other)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	got, err := s.GetOrder(ctx, order.ID, u)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = s.UpdateOrderStatus(ctx, order.ID, models.OrderDelivered)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = s.UpdateOrderStatus(ctx, order.ID, models.OrderProcessing)
	require.NoError(t, err)
	cancelled, err := s.UpdateOrderStatus(ctx, order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	p, err := s.GetProduct(ctx, pads.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StockQuantity)

	orders, err := s.ListOrders(ctx, models.OrderCancelled)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	mine, err := s.ListUserOrders(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestReviews(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	p := mustProduct(t, s, c, "Pads", "10.00", 5)
	u, err := s.Register(ctx, models.RegisterInput{FullName: "Anna", Email: "anna@example.com", Password: "password1"})
	require.NoError(t, err)
	v, err := s.Register(ctx, models.RegisterInput{FullName: "Oleh", Email: "oleh@example.com", Password: "password1"})
	require.NoError(t, err)

	r, err := s.CreateReview(ctx, u, models.ReviewInput{ProductID: p.ID, Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Equal(t, "Anna", r.AuthorName)
	_, err = s.CreateReview(ctx, u, models.ReviewInput{ProductID: p.ID, Rating: 1})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	_, err = s.CreateReview(ctx, v, models.ReviewInput{ProductID: p.ID, Rating: 4})
	require.NoError(t, err)

	rating, err := s.RatingSummary(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RatingSummary{Average: 4.5, Count: 2}, rating)

	assert.ErrorIs(t, s.DeleteReview(ctx, r.ID, v), apperrors.ErrForbidden)
	require.NoError(t, s.DeleteReview(ctx, r.ID, u))

	reviews, err := s.ListReviews(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestUsers(t *testing.T) {
	s := newStore(t)

	u, err := s.Register(ctx, models.RegisterInput{FullName: "Maria", Email: " Maria@Example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", u.Email)
	assert.Equal(t, models.RoleCustomer, u.Role)

	_, err = s.Register(ctx, models.RegisterInput{FullName: "M", Email: "maria@example.com", Password: "password2"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	_, err = s.Authenticate(ctx, "maria@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = s.Authenticate(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	got, err := s.Authenticate(ctx, "MARIA@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	updated, err := s.UpdateProfile(ctx, u.ID, models.ProfileInput{FullName: "Maria  K", Phone: "123"})
	require.NoError(t, err)
	assert.Equal(t, "Maria K", updated.FullName)

	admin, err := s.EnsureAdmin(ctx, "maria@example.com", "new-password")
	require.NoError(t, err)
	assert.Equal(t, u.ID, admin.ID)
	assert.True(t, admin.IsAdmin())
	_, err = s.Authenticate(ctx, "maria@example.com", "new-password")
	assert.NoError(t, err)
}

func TestSearch(t *testing.T) {
	s := newStore(t)
	c := mustCatalog(t, s)
	mustProduct(t, s, c, "Brake fluid DOT4", "6.00", 5)
	_, err := s.CreateMake(ctx, models.CarMakeInput{Name: "Škoda"})
	require.NoError(t, err)

	res, err := s.Search(ctx, "BRAKE")
	require.NoError(t, err)
	assert.Len(t, res.Products, 1)
	assert.Len(t, res.Categories, 2)
	assert.Empty(t, res.Manufacturers)

	res, err = s.Search(ctx, "skoda")
	require.NoError(t, err)
	require.Len(t, res.Makes, 1)
	assert.Equal(t, "Škoda", res.Makes[0].Name)

	res, err = s.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, res.Products)
}
