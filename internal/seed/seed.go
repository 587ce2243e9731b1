// Package seed wipes the database and loads a small static catalog.
// It is destructive and meant for development and demos.
package seed

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/01moynul/autoparts-golang/internal/config"
	"github.com/01moynul/autoparts-golang/internal/database"
	"github.com/01moynul/autoparts-golang/internal/models"
	"github.com/01moynul/autoparts-golang/internal/store"
)

// --- Static data ---

type category struct {
	name     string
	children []string
}

var categories = []category{
	{"Brakes", []string{"Brake pads", "Brake discs"}},
	{"Engine", []string{"Oil filters", "Spark plugs", "Timing belts"}},
	{"Suspension", []string{"Shock absorbers"}},
	{"Oils and fluids", nil},
}

var manufacturers = []models.ManufacturerInput{
	{Name: "Bosch", Country: "Germany"},
	{Name: "Brembo", Country: "Italy"},
	{Name: "Mann-Filter", Country: "Germany"},
	{Name: "NGK", Country: "Japan"},
	{Name: "Castrol", Country: "United Kingdom"},
}

// vehicle is one make with its models; each model lists years, each year
// the same body types and engines.
type vehicle struct {
	make   string
	models []vehicleModel
}

type vehicleModel struct {
	name    string
	years   []int
	bodies  []string
	engines []string
}

var vehicles = []vehicle{
	{"Audi", []vehicleModel{
		{"A4", []int{2015, 2016}, []string{"Sedan", "Avant"}, []string{"2.0 TFSI", "2.0 TDI"}},
		{"Q5", []int{2018}, []string{"SUV"}, []string{"2.0 TFSI"}},
	}},
	{"BMW", []vehicleModel{
		{"3 Series", []int{2012, 2019}, []string{"Sedan", "Touring"}, []string{"320i", "320d"}},
	}},
	{"Toyota", []vehicleModel{
		{"Corolla", []int{2014, 2020}, []string{"Sedan", "Hatchback"}, []string{"1.6 VVT-i"}},
		{"RAV4", []int{2019}, []string{"SUV"}, []string{"2.0", "2.5 Hybrid"}},
	}},
	{"Лада", []vehicleModel{
		{"Веста", []int{2016, 2021}, []string{"Седан", "Универсал"}, []string{"1.6 16V"}},
	}},
}

type product struct {
	name, sku, category, manufacturer string
	price                             string
	stock                             int
	variants                          []string
	// fits lists vehicle paths; each is a prefix of make/model/year/body/engine.
	fits [][]string
}

var products = []product{
	{name: "Front brake pads P85", sku: "BRM-P85", category: "Brake pads", manufacturer: "Brembo",
		price: "54.90", stock: 40, fits: [][]string{{"Audi", "A4"}, {"Audi", "Q5", "2018"}}},
	{name: "Brake disc 320mm", sku: "BRM-D320", category: "Brake discs", manufacturer: "Brembo",
		price: "89.00", stock: 12, fits: [][]string{{"BMW", "3 Series", "2019", "Sedan"}}},
	{name: "Oil filter W712", sku: "MF-W712", category: "Oil filters", manufacturer: "Mann-Filter",
		price: "9.50", stock: 200, fits: [][]string{{"Audi"}, {"Лада"}}},
	{name: "Spark plug Iridium", sku: "NGK-IR7", category: "Spark plugs", manufacturer: "NGK",
		price: "12.30", stock: 150,
		fits: [][]string{{"Toyota", "Corolla", "2014", "Sedan", "1.6 VVT-i"}, {"BMW", "3 Series", "2012", "Sedan", "320i"}}},
	{name: "Timing belt kit", sku: "BSH-TB1", category: "Timing belts", manufacturer: "Bosch",
		price: "119.00", stock: 8, fits: [][]string{{"Лада", "Веста", "2016"}}},
	{name: "Shock absorber rear", sku: "BSH-SA2", category: "Shock absorbers", manufacturer: "Bosch",
		price: "74.00", stock: 20, fits: [][]string{{"Toyota", "RAV4"}}},
	{name: "Engine oil 5W-30", sku: "CAS-5W30", category: "Oils and fluids", manufacturer: "Castrol",
		price: "39.99", stock: 60, variants: []string{"1 L", "4 L", "5 L"},
		fits: [][]string{{"Audi"}, {"BMW"}, {"Toyota"}}},
}

// Summary counts what Run created.
type Summary struct {
	Categories      int `json:"categories"`
	Manufacturers   int `json:"manufacturers"`
	Nodes           int `json:"nodes"`
	Products        int `json:"products"`
	Compatibilities int `json:"compatibilities"`
}

// seeder resolves names to the ids created during the run.
type seeder struct {
	s     *store.Store
	cats  map[string]uint
	mfrs  map[string]uint
	nodes map[string]uint // "make/model/year/body/engine" prefixes
	sum   Summary
}

// Run migrates, deletes every row (children first) and loads the static
// catalog plus the admin account.
func Run(ctx context.Context, s *store.Store, admin config.AdminConfig, log *zap.Logger) (*Summary, error) {
	// 1. --- Schema ---
	if err := database.Migrate(s.DB().WithContext(ctx)); err != nil {
		return nil, err
	}

	// 2. --- Wipe ---
	if err := wipe(s.DB().WithContext(ctx)); err != nil {
		return nil, err
	}

	sd := &seeder{
		s:     s,
		cats:  map[string]uint{},
		mfrs:  map[string]uint{},
		nodes: map[string]uint{},
	}

	// 3. --- Catalog ---
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"categories", sd.categories},
		{"manufacturers", sd.manufacturers},
		{"vehicles", sd.vehicles},
		{"products", sd.products},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return nil, errors.Wrapf(err, "seed %s", step.name)
		}
		log.Info("seeded", zap.String("step", step.name))
	}

	// 4. --- Admin ---
	if _, err := s.EnsureAdmin(ctx, admin.Email, admin.Password); err != nil {
		return nil, errors.Wrap(err, "seed admin")
	}
	log.Info("seed complete",
		zap.Int("categories", sd.sum.Categories),
		zap.Int("manufacturers", sd.sum.Manufacturers),
		zap.Int("hierarchy_nodes", sd.sum.Nodes),
		zap.Int("products", sd.sum.Products),
		zap.Int("compatibilities", sd.sum.Compatibilities),
		zap.String("admin", admin.Email))
	return &sd.sum, nil
}

func wipe(db *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error
		if err != nil {
			return errors.Wrapf(err, "wipe %T", all[i])
		}
	}
	return nil
}

func (sd *seeder) categories(ctx context.Context) error {
	for _, c := range categories {
		root, err := sd.s.CreateCategory(ctx, models.CategoryInput{Name: c.name})
		if err != nil {
			return err
		}
		sd.cats[c.name] = root.ID
		sd.sum.Categories++
		for _, name := range c.children {
			parent := root.ID
			child, err := sd.s.CreateCategory(ctx, models.CategoryInput{Name: name, ParentID: &parent})
			if err != nil {
				return err
			}
			sd.cats[name] = child.ID
			sd.sum.Categories++
		}
	}
	return nil
}

func (sd *seeder) manufacturers(ctx context.Context) error {
	for _, in := range manufacturers {
		m, err := sd.s.CreateManufacturer(ctx, in)
		if err != nil {
			return err
		}
		sd.mfrs[in.Name] = m.ID
		sd.sum.Manufacturers++
	}
	return nil
}

func (sd *seeder) vehicles(ctx context.Context) error {
	for _, v := range vehicles {
		mk, err := sd.s.CreateMake(ctx, models.CarMakeInput{Name: v.make})
		if err != nil {
			return err
		}
		sd.node(mk.ID, v.make)
		for _, vm := range v.models {
			md, err := sd.s.CreateModel(ctx, models.CarModelInput{Name: vm.name, MakeID: mk.ID})
			if err != nil {
				return err
			}
			sd.node(md.ID, v.make, vm.name)
			for _, year := range vm.years {
				yr, err := sd.s.CreateYear(ctx, models.CarYearInput{Year: year, ModelID: md.ID})
				if err != nil {
					return err
				}
				ys := strconv.Itoa(year)
				sd.node(yr.ID, v.make, vm.name, ys)
				for _, body := range vm.bodies {
					bt, err := sd.s.CreateBodyType(ctx, models.CarBodyTypeInput{Name: body, YearID: yr.ID})
					if err != nil {
						return err
					}
					sd.node(bt.ID, v.make, vm.name, ys, body)
					for _, engine := range vm.engines {
						en, err := sd.s.CreateEngine(ctx, models.CarEngineInput{Name: engine, BodyTypeID: bt.ID})
						if err != nil {
							return err
						}
						sd.node(en.ID, v.make, vm.name, ys, body, engine)
					}
				}
			}
		}
	}
	return nil
}

func (sd *seeder) node(id uint, path ...string) {
	sd.nodes[key(path)] = id
	sd.sum.Nodes++
}

func key(path []string) string {
	return strings.Join(path, "/")
}

func (sd *seeder) products(ctx context.Context) error {
	for _, p := range products {
		in := models.ProductInput{
			Name:           p.name,
			SKU:            p.sku,
			Description:    p.name + " by " + p.manufacturer + ".",
			Price:          decimal.RequireFromString(p.price),
			StockQuantity:  p.stock,
			CategoryID:     sd.cats[p.category],
			ManufacturerID: sd.mfrs[p.manufacturer],
		}
		base, err := sd.s.CreateProduct(ctx, in)
		if err != nil {
			return err
		}
		sd.sum.Products++

		for i, label := range p.variants {
			variant := in
			variant.IsVariant = true
			variant.BaseProductID = &base.ID
			variant.VariantLabel = label
			variant.SKU = p.sku + "-" + strconv.Itoa(i+1)
			variant.Price = in.Price.Mul(decimal.NewFromInt(int64(i + 1)))
			if _, err := sd.s.CreateProduct(ctx, variant); err != nil {
				return err
			}
			sd.sum.Products++
		}

		for _, path := range p.fits {
			if err := sd.compatibility(ctx, base.ID, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// compatibility creates one row whose depth is len(path).
func (sd *seeder) compatibility(ctx context.Context, productID uint, path []string) error {
	ids := make([]*uint, len(path))
	for i := range path {
		id, ok := sd.nodes[key(path[:i+1])]
		if !ok {
			return errors.Errorf("unknown vehicle %q", key(path[:i+1]))
		}
		ids[i] = &id
	}
	in := models.CompatibilityInput{ProductID: productID, CarMakeID: *ids[0]}
	fields := []**uint{&in.CarModelID, &in.CarYearID, &in.CarBodyTypeID, &in.CarEngineID}
	for i, id := range ids[1:] {
		*fields[i] = id
	}
	if _, err := sd.s.CreateCompatibility(ctx, in); err != nil {
		return err
	}
	sd.sum.Compatibilities++
	return nil
}
