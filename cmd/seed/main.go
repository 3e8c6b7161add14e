package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tcnr01/storefront-backend/config"
	"github.com/tcnr01/storefront-backend/internal/catalog"
	"github.com/tcnr01/storefront-backend/internal/db"
	"github.com/tcnr01/storefront-backend/internal/storage"
	"github.com/tcnr01/storefront-backend/pkg/logger"
)

const imageFolder = "products"

func main() {
	uploadDir := flag.String("upload-images", "", "upload local image files from this directory to S3")
	assumeYes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: seed [-upload-images dir] [-yes] <catalog.xlsx>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      "console",
		EnableColor: true,
	})

	file, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("Failed to open workbook", err, map[string]interface{}{
			"path": filePath,
		})
	}
	products, err := catalog.ReadWorkbook(file)
	file.Close()
	if err != nil {
		logger.Fatal("Failed to read workbook", err)
	}

	logger.Info("Workbook parsed", map[string]interface{}{
		"path":     filePath,
		"products": len(products),
	})

	if *uploadDir != "" {
		ctx := context.Background()
		store, err := storage.NewS3Storage(ctx, &cfg.S3)
		if err != nil {
			logger.Fatal("Failed to configure S3", err)
		}

		err = catalog.ResolveImages(products, func(ref string) (string, error) {
			path := filepath.Join(*uploadDir, filepath.Clean("/"+ref))
			url, err := store.UploadFile(ctx, path, imageFolder)
			if err != nil {
				return "", err
			}
			logger.Info("Image uploaded", map[string]interface{}{
				"file": ref,
				"url":  url,
			})
			return url, nil
		})
		if err != nil {
			logger.Fatal("Failed to upload images", err)
		}
	}

	if !*assumeYes {
		fmt.Printf("Import %d products into %s? (yes/no): ", len(products), cfg.Database.DBName)
		var confirm string
		fmt.Scanln(&confirm)
		if c := strings.ToLower(strings.TrimSpace(confirm)); c != "yes" && c != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	result, err := catalog.Import(db.GetDB(), products)
	if err != nil {
		logger.Fatal("Catalog import failed", err)
	}

	fmt.Printf("Import completed: %d created, %d skipped\n", result.Created, result.Skipped)
}
