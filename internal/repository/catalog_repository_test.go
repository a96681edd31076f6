package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"stitchpress/internal/database"
	"stitchpress/internal/domain"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// Bring the schema up with the real migrations.
	if err := database.RunMigrations(testDB, "../../migrations", zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

type seedVariant struct {
	styleCode   string
	styleName   string
	brand       string
	productType string
	sizeName    string
	colorName   string
	price       string
	fabricText  string
	gender      string
	retailDesc  string
}

func resetCatalog(t *testing.T, variants []seedVariant) {
	t.Helper()

	if _, err := testDB.Exec("TRUNCATE product_variants RESTART IDENTITY"); err != nil {
		t.Fatalf("failed to truncate catalog: %v", err)
	}

	for _, v := range variants {
		_, err := testDB.Exec(`
			INSERT INTO product_variants
				(style_code, style_name, brand, product_type, size_name, color_name, price, fabric_text, gender, retail_description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, v.styleCode, v.styleName, v.brand, v.productType, v.sizeName, v.colorName, v.price, v.fabricText, v.gender, v.retailDesc)
		if err != nil {
			t.Fatalf("failed to seed variant: %v", err)
		}
	}
}

func standardCatalog() []seedVariant {
	return []seedVariant{
		{"JH001", "College Hoodie", "AWDis", "Hoodies", "M", "Navy", "12.50", "80% Cotton 20% Polyester", "Unisex", "Classic college hoodie"},
		{"JH001", "College Hoodie", "AWDis", "Hoodies", "L", "Navy", "12.50", "80% Cotton 20% Polyester", "Unisex", "Classic college hoodie"},
		{"JH001", "College Hoodie", "AWDis", "Hoodies", "M", "Red", "13.00", "80% Cotton 20% Polyester", "Unisex", "Classic college hoodie"},
		{"GD067", "Softstyle Tee", "Gildan", "T-Shirts", "S", "White", "3.20", "100% Ring-spun Cotton", "Mens", "Softstyle adult t-shirt"},
		{"GD067", "Softstyle Tee", "Gildan", "T-Shirts", "M", "White", "POA", "100% Ring-spun Cotton", "Mens", "Softstyle adult t-shirt"},
		{"PC401", "Work Polo", "Portwest", "Polos", "XL", "Red", "9.99", "Polyester Pique", "Unisex", "Durable red work polo shirt"},
	}
}

func TestSearch_AndAcrossFacetsOrWithinFacet(t *testing.T) {
	resetCatalog(t, standardCatalog())
	repo := NewCatalogRepository(testDB)
	ctx := context.Background()

	// OR within a facet: Navy or Red matches hoodie and polo rows.
	variants, total, err := repo.Search(ctx, domain.ProductFilters{
		Colors: []string{"Navy", "Red"},
	}, 1, 50)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 4 || len(variants) != 4 {
		t.Errorf("expected 4 navy/red variants, got total=%d len=%d", total, len(variants))
	}

	// AND across facets: Red AND Hoodies narrows to one row.
	variants, total, err = repo.Search(ctx, domain.ProductFilters{
		Colors:       []string{"Red"},
		ProductTypes: []string{"Hoodies"},
	}, 1, 50)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || variants[0].StyleCode != "JH001" {
		t.Errorf("expected single red hoodie, got total=%d %+v", total, variants)
	}
}

func TestSearch_EmptyFiltersReturnEverything(t *testing.T) {
	resetCatalog(t, standardCatalog())
	repo := NewCatalogRepository(testDB)

	_, total, err := repo.Search(context.Background(), domain.ProductFilters{}, 1, 50)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 6 {
		t.Errorf("expected all 6 variants, got %d", total)
	}
}

func TestSearch_TokensMatchAcrossTextFields(t *testing.T) {
	resetCatalog(t, standardCatalog())
	repo := NewCatalogRepository(testDB)

	// "red" matches the polo's description and "polo" its product type; both
	// tokens must hold, so only the polo comes back.
	_, total, err := repo.Search(context.Background(), domain.ProductFilters{
		SearchQuery: "I need the red polo shirts",
	}, 1, 50)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 0 {
		// "need" and "shirts" must also match; the polo's description
		// carries neither, so nothing satisfies all four tokens.
		t.Errorf("expected no rows to satisfy every token, got %d", total)
	}

	_, total, err = repo.Search(context.Background(), domain.ProductFilters{
		SearchQuery: "red polo",
	}, 1, 50)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected exactly the red work polo, got %d", total)
	}
}

func TestSearch_PriceGuardExcludesUnparseableRows(t *testing.T) {
	resetCatalog(t, standardCatalog())
	repo := NewCatalogRepository(testDB)

	min := 1.0
	_, total, err := repo.Search(context.Background(), domain.ProductFilters{
		PriceMin: &min,
	}, 1, 50)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// The POA row can never satisfy a numeric bound, however permissive.
	if total != 5 {
		t.Errorf("expected 5 priced variants, got %d", total)
	}

	max := 10.0
	_, total, err = repo.Search(context.Background(), domain.ProductFilters{
		PriceMax: &max,
	}, 1, 50)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 variants at or under 10.00, got %d", total)
	}
}

func TestSearch_MaterialSubstringMatch(t *testing.T) {
	resetCatalog(t, standardCatalog())
	repo := NewCatalogRepository(testDB)

	_, total, err := repo.Search(context.Background(), domain.ProductFilters{
		Materials: []string{"Pique"},
	}, 1, 50)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected one pique variant, got %d", total)
	}
}

// Pagination slices variant rows, not styles: a style straddling a page
// boundary arrives truncated on both pages.
func TestSearch_PageBoundarySplitsStyles(t *testing.T) {
	resetCatalog(t, standardCatalog())
	repo := NewCatalogRepository(testDB)

	variants, total, err := repo.Search(context.Background(), domain.ProductFilters{}, 1, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 6 {
		t.Errorf("expected total 6, got %d", total)
	}
	if len(variants) != 2 {
		t.Fatalf("expected 2 rows on page 1, got %d", len(variants))
	}
	// GD067 sorts first and has 2 rows, so page 1 is all GD067; page 2
	// starts with JH001's first row.
	for _, v := range variants {
		if v.StyleCode != "GD067" {
			t.Errorf("expected page 1 to hold GD067 rows, got %q", v.StyleCode)
		}
	}

	variants, _, err = repo.Search(context.Background(), domain.ProductFilters{}, 2, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(variants) != 2 || variants[0].StyleCode != "JH001" {
		t.Errorf("expected page 2 to start JH001, got %+v", variants)
	}
}

func TestDistinctValues(t *testing.T) {
	resetCatalog(t, standardCatalog())
	repo := NewCatalogRepository(testDB)
	ctx := context.Background()

	brands, err := repo.DistinctValues(ctx, "brand", 100)
	if err != nil {
		t.Fatalf("distinct fetch failed: %v", err)
	}
	want := []string{"AWDis", "Gildan", "Portwest"}
	if len(brands) != len(want) {
		t.Fatalf("expected %v, got %v", want, brands)
	}
	for i := range want {
		if brands[i] != want[i] {
			t.Errorf("expected sorted distinct brands %v, got %v", want, brands)
			break
		}
	}

	if _, err := repo.DistinctValues(ctx, "price; DROP TABLE product_variants", 100); err == nil {
		t.Error("expected unknown column to be rejected")
	}
}

func TestSizeNames_ScopedToProductTypes(t *testing.T) {
	resetCatalog(t, standardCatalog())
	repo := NewCatalogRepository(testDB)

	sizes, err := repo.SizeNames(context.Background(), []string{"Hoodies"})
	if err != nil {
		t.Fatalf("size name fetch failed: %v", err)
	}
	if len(sizes) != 2 || sizes[0] != "L" || sizes[1] != "M" {
		t.Errorf("expected hoodie sizes [L M], got %v", sizes)
	}

	sizes, err = repo.SizeNames(context.Background(), nil)
	if err != nil {
		t.Fatalf("size name fetch failed: %v", err)
	}
	if len(sizes) != 4 {
		t.Errorf("expected 4 distinct sizes unscoped, got %v", sizes)
	}
}

func TestPricesAndSample(t *testing.T) {
	resetCatalog(t, standardCatalog())
	repo := NewCatalogRepository(testDB)

	prices, err := repo.Prices(context.Background())
	if err != nil {
		t.Fatalf("price fetch failed: %v", err)
	}
	if len(prices) != 6 {
		t.Errorf("expected every non-empty price string, got %v", prices)
	}

	samples, err := repo.Sample(context.Background(), 3)
	if err != nil {
		t.Fatalf("sample fetch failed: %v", err)
	}
	if len(samples) != 3 {
		t.Errorf("expected sample capped at 3 rows, got %d", len(samples))
	}
	if samples[0].FabricText == "" {
		t.Error("expected fabric text in sample rows")
	}
}
