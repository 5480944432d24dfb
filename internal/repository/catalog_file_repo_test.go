package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SplendidSupplies/shop_api/internal/models"
)

func TestFileRepoRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	repo := NewCatalogFileRepository(path)

	in := models.Catalog{
		Products: []models.Product{
			{ID: "1", Name: "Drill", Price: 50, Category: "Tools", Stock: 10, InStock: true, Active: true},
		},
		Categories: []string{"Tools"},
	}
	if err := repo.Save(context.Background(), in); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(out.Products) != 1 || out.Products[0].Name != "Drill" {
		t.Fatalf("round trip lost data: %+v", out)
	}
	if len(out.Categories) != 1 || out.Categories[0] != "Tools" {
		t.Fatalf("round trip lost categories: %+v", out)
	}
}

func TestFileRepoLoadMissingFileErrors(t *testing.T) {
	repo := NewCatalogFileRepository(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing catalog file")
	}
}

func TestFileRepoLoadMalformedErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	repo := NewCatalogFileRepository(path)
	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("expected error for malformed catalog file")
	}
}

func TestFileRepoSaveNormalizesNilSlices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	repo := NewCatalogFileRepository(path)

	if err := repo.Save(context.Background(), models.Catalog{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if strings.Contains(string(raw), "null") {
		t.Fatalf("empty catalog must serialize arrays, got: %s", raw)
	}
}

func TestFileRepoCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "products.json")
	repo := NewCatalogFileRepository(path)

	if err := repo.Save(context.Background(), models.EmptyCatalog()); err != nil {
		t.Fatalf("save into missing dir failed: %v", err)
	}
	if _, err := repo.Load(context.Background()); err != nil {
		t.Fatalf("load after save failed: %v", err)
	}
}
