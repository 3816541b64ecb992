package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/auth"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin account and sample employees for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		defer deps.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		if clearData {
			for _, table := range []string{"sessions", "employees", "blobs", "users"} {
				if err := deps.Gorm.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		adminEmail := "admin@mail.com"
		password := "password"
		var adminExists bool
		if err := deps.DB.GetContext(ctx, &adminExists, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", adminEmail); err != nil {
			log.Fatalf("failed to look up admin user: %v", err)
		}
		if adminExists {
			fmt.Println("admin user already exists:", adminEmail)
		} else {
			if _, err := deps.Auth.Register(ctx, auth.RegisterDTO{Email: adminEmail, Password: password, ConfirmPassword: password}); err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		}

		samples := []*employee.Draft{
			{
				FirstName:     "Ana",
				LastName:      "Silva",
				JobTitle:      "Analyst",
				Department:    "Sales",
				Email:         "ana.silva@mail.com",
				Phone:         "+55 11 98888-0000",
				Address:       "Rua das Flores, 100, São Paulo",
				Nationality:   "Brazilian",
				BirthDate:     "1992-04-18",
				AdmissionDate: "2024-01-10",
				Salary:        "3000",
			},
			{
				FirstName:     "Bruno",
				LastName:      "Costa",
				JobTitle:      "Developer",
				Department:    "Engineering",
				Email:         "bruno.costa@mail.com",
				AdmissionDate: "2023-08-01",
				Salary:        "5200",
			},
		}
		for _, d := range samples {
			name := d.FirstName + " " + d.LastName
			var exists bool
			if err := deps.DB.GetContext(ctx, &exists,
				"SELECT EXISTS (SELECT 1 FROM employees WHERE first_name = $1 AND last_name = $2)", d.FirstName, d.LastName); err != nil {
				log.Fatalf("failed to look up employee %s: %v", name, err)
			}
			if exists {
				fmt.Println("employee already exists:", name)
				continue
			}
			id, err := deps.Employees.Create(ctx, d)
			if err != nil {
				log.Fatalf("failed to insert employee %s: %v", name, err)
			}
			fmt.Printf("Seeded employee: %s (%s)\n", name, id)
		}

		fmt.Println("Employees seeded successfully")
	},
}
