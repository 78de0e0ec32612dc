package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/motorbook/dealerledger/internal/domain"
)

var (
	baseURL   string
	timeout   time.Duration
	authToken string
)

// bcryptGenerate is swappable in tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "dealerledger-cli",
		Short: "DealerLedger CLI tool",
		Long:  `A command line interface for the vehicle dealership payment ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the DealerLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Bearer token for authenticated endpoints")

	rootCmd.AddCommand(vehicleCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func vehicleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicle",
		Short: "Vehicle record operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a vehicle record with its settlement ledger",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body := apiGet("/api/v1/vehicles/" + url.PathEscape(args[0]))
			printRawJSON(body)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List vehicle records, most recent sale first",
		Run: func(cmd *cobra.Command, args []string) {
			body := apiGet("/api/v1/vehicles/")
			printRawJSON(body)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "history <id>",
		Short: "Show a vehicle's settlement history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body := apiGet("/api/v1/vehicles/" + url.PathEscape(args[0]) + "/settlements")
			printRawJSON(body)
		},
	})

	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Profitability reports",
	}

	var from, to, company, fuelType, sign string

	profitCmd := &cobra.Command{
		Use:   "profit",
		Short: "Aggregate profit report over sold vehicles",
		Run: func(cmd *cobra.Command, args []string) {
			q := url.Values{}
			for key, val := range map[string]string{
				"from": from, "to": to, "company": company,
				"fuel_type": fuelType, "sign": sign,
			} {
				if val != "" {
					q.Set(key, val)
				}
			}

			body := apiGet("/api/v1/reports/profit?" + q.Encode())
			printProfitReport(body)
		},
	}
	profitCmd.Flags().StringVar(&from, "from", "", "Start of sale date range (YYYY-MM-DD)")
	profitCmd.Flags().StringVar(&to, "to", "", "End of sale date range (YYYY-MM-DD)")
	profitCmd.Flags().StringVar(&company, "company", "", "Filter by manufacturer")
	profitCmd.Flags().StringVar(&fuelType, "fuel-type", "", "Filter by fuel type")
	profitCmd.Flags().StringVar(&sign, "sign", "", "Filter by profit sign (profit|loss)")

	cmd.AddCommand(profitCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List sold vehicles with an open balance",
		Run: func(cmd *cobra.Command, args []string) {
			body := apiGet("/api/v1/reports/pending")
			printPendingReport(body)
		},
	})

	return cmd
}

// hashPasswordCmd hashes a password for seeding the first admin user by hand.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func apiGet(path string) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

type profitReportView struct {
	Summary struct {
		Vehicles     int             `json:"Vehicles"`
		TotalRevenue decimal.Decimal `json:"TotalRevenue"`
		TotalCost    decimal.Decimal `json:"TotalCost"`
		NetProfit    decimal.Decimal `json:"NetProfit"`
		Margin       decimal.Decimal `json:"Margin"`
	} `json:"summary"`
	Vehicles []struct {
		VehicleID string          `json:"vehicle_id"`
		NetProfit decimal.Decimal `json:"net_profit"`
		Margin    decimal.Decimal `json:"margin"`
		Settled   bool            `json:"settled"`
	} `json:"vehicles"`
}

func printProfitReport(body []byte) {
	var report profitReportView
	if err := json.Unmarshal(body, &report); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Vehicles sold: %d\n", report.Summary.Vehicles)
	fmt.Printf("Revenue:       %s\n", domain.FormatINR(report.Summary.TotalRevenue))
	fmt.Printf("Cost:          %s\n", domain.FormatINR(report.Summary.TotalCost))
	fmt.Printf("Net profit:    %s\n", domain.FormatINR(report.Summary.NetProfit))
	fmt.Printf("Margin:        %s%%\n", report.Summary.Margin.String())

	for _, v := range report.Vehicles {
		status := "open"
		if v.Settled {
			status = "settled"
		}
		fmt.Printf("  %-28s profit %-14s margin %6s%%  %s\n",
			truncate(v.VehicleID, 28), domain.FormatINR(v.NetProfit), v.Margin.String(), status)
	}
}

type pendingReportView struct {
	Vehicles []struct {
		ID                      string          `json:"id"`
		RegistrationNumber      string          `json:"registration_number"`
		RemainingAmount         decimal.Decimal `json:"remaining_amount"`
		RemainingAmountToSeller decimal.Decimal `json:"remaining_amount_to_seller"`
		PendingPaymentType      string          `json:"pending_payment_type"`
	} `json:"vehicles"`
	Total int64 `json:"total"`
}

func printPendingReport(body []byte) {
	var report pendingReportView
	if err := json.Unmarshal(body, &report); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pending settlements: %d\n", report.Total)
	for _, v := range report.Vehicles {
		fmt.Printf("  %-28s %-12s customer %-14s seller %-14s %s\n",
			truncate(v.ID, 28),
			truncate(v.RegistrationNumber, 12),
			domain.FormatINR(v.RemainingAmount),
			domain.FormatINR(v.RemainingAmountToSeller),
			v.PendingPaymentType)
	}
}

func printRawJSON(body []byte) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}
	printJSON(data)
}

func printJSON(data any) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render response: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
