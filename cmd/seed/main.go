package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/bookshelf-backend/config"
	"github.com/ikkim/bookshelf-backend/internal/app/repository"
	"github.com/ikkim/bookshelf-backend/internal/app/service"
	"github.com/ikkim/bookshelf-backend/internal/db"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Expected header: title | author | description | year | ratings | image_placeholder
const minColumns = 3

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [--yes]")
	}

	filePath := os.Args[1]
	skipConfirm := len(os.Args) > 2 && os.Args[2] == "--yes"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	inputs, skipped, err := readBooksFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Books to import: %d (skipped rows: %d)\n", len(inputs), skipped)

	if len(inputs) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	if !skipConfirm {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	bookService := service.NewBookService(repository.NewBookRepository(db.GetDB()), nil, nil)
	count, err := bookService.ImportBooks(context.Background(), inputs)
	if err != nil {
		log.Fatal("Failed to import books:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total books imported: %d\n", count)
}

// readBooksFromXLSX reads the first sheet and skips the header row along with
// rows missing a title or author.
func readBooksFromXLSX(filePath string) ([]service.BookInput, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var inputs []service.BookInput
	skipped := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}

		input, ok := parseBookRow(row)
		if !ok {
			skipped++
			continue
		}
		inputs = append(inputs, input)
	}

	return inputs, skipped, nil
}

func parseBookRow(row []string) (service.BookInput, bool) {
	if len(row) < minColumns {
		return service.BookInput{}, false
	}

	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	input := service.BookInput{
		Title:            cell(0),
		Author:           cell(1),
		Description:      cell(2),
		ImagePlaceholder: cell(5),
	}
	if input.Title == "" || input.Author == "" {
		return service.BookInput{}, false
	}
	if input.Description == "" {
		input.Description = input.Title
	}
	// Rows without an image get a generated placeholder so the import is not rejected.
	if input.ImagePlaceholder == "" {
		input.ImagePlaceholder = "https://placehold.co/300x450?text=" + url.QueryEscape(input.Title)
	}

	if year, err := strconv.Atoi(cell(3)); err == nil {
		input.Year = &year
	}
	if ratings, err := strconv.ParseFloat(cell(4), 64); err == nil {
		input.Ratings = &ratings
	}

	return input, true
}
