package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"auction-ai/internal/config"
	"auction-ai/internal/database"
	"auction-ai/internal/store"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
)

// Exports the market price cache to an xlsx workbook for offline review.
func main() {
	output := flag.String("o", "market_prices.xlsx", "output xlsx path")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	entries, err := store.New(db).ListMarketPrices(context.Background())
	if err != nil {
		log.Fatal("Failed to load market prices:", err)
	}

	f := excelize.NewFile()
	sheet := "MarketPrices"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Keyword", "Platform", "AvgPrice", "MinPrice", "MaxPrice", "SampleCount", "CrawledAt"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, entry := range entries {
		values := []interface{}{
			entry.Keyword,
			entry.Platform,
			entry.AvgPrice,
			entry.MinPrice,
			entry.MaxPrice,
			entry.SampleCount,
			entry.CrawledAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	if err := f.SaveAs(*output); err != nil {
		log.Fatal("Failed to save workbook:", err)
	}
	fmt.Printf("Exported %d cache rows to %s\n", len(entries), *output)
}
