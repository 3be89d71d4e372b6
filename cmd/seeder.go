package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hasinarivo/expense-tracker/internal/expense"
	expenseDatabase "github.com/hasinarivo/expense-tracker/internal/expense/database"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample expenses for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, gormDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		repo := expenseDatabase.NewExpenseRepository(gormDB)

		if clearData {
			if err := repo.DeleteAll(ctx); err != nil {
				log.Fatalf("failed to clear expenses: %v", err)
			}
			fmt.Println("Cleared existing expenses")
		}

		now := time.Now().UTC()
		samples := []expense.Expense{
			{Title: "Groceries", Amount: 18500, Category: "Food", Date: now.AddDate(0, 0, -1).Format(expense.DateLayout)},
			{Title: "Taxi-be", Amount: 2000, Category: "Transport", Date: now.AddDate(0, 0, -2).Format(expense.DateLayout)},
			{Title: "Coffee", Amount: 3500, Category: "Food", Date: now.AddDate(0, 0, -3).Format(expense.DateLayout)},
			{Title: "Mobile data", Amount: 10000, Category: "Utilities", Date: now.AddDate(0, -1, 0).Format(expense.DateLayout)},
			{Title: "Cinema", Amount: 12000, Category: "Leisure", Date: now.AddDate(0, -2, 5).Format(expense.DateLayout)},
			{Title: "Rent", Amount: 450000, Category: "Housing", Date: now.AddDate(0, 0, -10).Format(expense.DateLayout)},
		}

		for i := range samples {
			if err := repo.Insert(ctx, &samples[i]); err != nil {
				log.Fatalf("failed to seed expense %q: %v", samples[i].Title, err)
			}
		}

		fmt.Printf("Seeded %d expenses\n", len(samples))
	},
}
