package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Catalog is the seed file layout: owners with the items they rent out.
type Catalog struct {
	Owners []CatalogOwner `yaml:"owners"`
}

type CatalogOwner struct {
	Name  string        `yaml:"name"`
	Email string        `yaml:"email"`
	Items []CatalogItem `yaml:"items"`
}

type CatalogItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   *bool  `yaml:"available"`
}

type seedResult struct {
	usersCreated int
	itemsCreated int
	itemsUpdated int
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		catalogPath = flag.String("catalog", "configs/catalog.yaml", "path to catalog.yaml")
		dbPath      = flag.String("db", "./data/shareit.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*catalogPath)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var catalog Catalog
	if err = yaml.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	if len(catalog.Owners) == 0 {
		return fmt.Errorf("no owners in yaml")
	}

	db, err := database.NewDB(config.DriverSQLite, *dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, nil, &logger)
	res, err := seed(ctx, catalog, users, items)
	if err != nil {
		return err
	}

	fmt.Printf("done: users_created=%d items_created=%d items_updated=%d\n",
		res.usersCreated, res.itemsCreated, res.itemsUpdated)
	return nil
}

// seed creates missing owners (matched by email) and their items (matched by
// name per owner); existing items get the catalog description and availability.
func seed(ctx context.Context, catalog Catalog, users *service.UserService, items *service.ItemService) (seedResult, error) {
	var res seedResult

	existing, err := users.ListAll(ctx)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}
	byEmail := make(map[string]*models.User, len(existing))
	for _, u := range existing {
		byEmail[strings.ToLower(u.Email)] = u
	}

	for _, o := range catalog.Owners {
		// сервисы хранят имена и почту без пробелов по краям
		email := strings.TrimSpace(o.Email)
		owner, ok := byEmail[strings.ToLower(email)]
		if !ok {
			owner, err = users.Create(ctx, &models.User{Name: o.Name, Email: email})
			if err != nil {
				return res, fmt.Errorf("create owner %s: %w", email, err)
			}
			byEmail[strings.ToLower(owner.Email)] = owner
			res.usersCreated++
		}

		owned, err := items.ListForOwner(ctx, owner.ID)
		if err != nil {
			return res, fmt.Errorf("list items of %s: %w", email, err)
		}
		byName := make(map[string]int64, len(owned))
		for _, it := range owned {
			byName[it.Name] = it.ID
		}

		for _, it := range o.Items {
			name := strings.TrimSpace(it.Name)
			if name == "" {
				continue
			}
			available := true
			if it.Available != nil {
				available = *it.Available
			}

			if id, ok := byName[name]; ok {
				description := it.Description
				patch := models.ItemPatch{ID: id, Description: &description, Available: &available}
				if _, err := items.Update(ctx, patch, owner.ID); err != nil {
					return res, fmt.Errorf("update %s: %w", name, err)
				}
				res.itemsUpdated++
				continue
			}

			draft := models.ItemDraft{Name: name, Description: it.Description, Available: &available}
			if _, err := items.Create(ctx, draft, owner.ID); err != nil {
				return res, fmt.Errorf("create %s: %w", name, err)
			}
			res.itemsCreated++
		}
	}

	return res, nil
}
