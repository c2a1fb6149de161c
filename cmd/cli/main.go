package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/obiano/walletpay/internal/domain"
	"github.com/obiano/walletpay/internal/infrastructure/auth"
)

var (
	baseURL string
	timeout time.Duration
	ownerID string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "walletpay-cli",
		Short: "WalletPay CLI tool",
		Long:  `A command line interface for interacting with the WalletPay API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the WalletPay API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "", "Owner ID to act as")

	// Wallet commands
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the owner's wallet balance",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/payment/wallet")
		},
	}

	transactionsCmd := &cobra.Command{
		Use:   "transactions",
		Short: "List the owner's ledger entries",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/payment/transactions")
		},
	}

	walletCmd.AddCommand(balanceCmd, transactionsCmd)
	rootCmd.AddCommand(walletCmd)

	// Admin commands
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Operational commands",
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one sweep pass over stale pending top-ups",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/admin/sweep")
		},
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency [ownerID]",
		Short: "Check wallet/ledger consistency for an owner",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency(args[0])
		},
	}

	adminCmd.AddCommand(sweepCmd, consistencyCmd)
	rootCmd.AddCommand(adminCmd)

	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// tokenCmd mints a JWT for local testing against an auth-enabled server.
func tokenCmd() *cobra.Command {
	var secret, email string
	var expiration time.Duration

	cmd := &cobra.Command{
		Use:   "token [ownerID]",
		Short: "Generate a JWT for an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := auth.NewJWTManager(secret, expiration)
			token, err := manager.Generate(domain.Owner{ID: args[0], Email: email})
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "JWT signing secret")
	cmd.Flags().StringVar(&email, "email", "", "Owner email claim")
	cmd.Flags().DurationVar(&expiration, "expiration", 24*time.Hour, "Token lifetime")

	return cmd
}

func checkConsistency(owner string) {
	result, status, err := request(http.MethodGet, "/api/v1/admin/consistency/"+owner)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	if status != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\n", status)
		printJSON(result)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && consistent {
		fmt.Printf("Consistency check PASSED\n")
	} else {
		fmt.Printf("Consistency check FAILED: ledger and balance disagree\n")
	}
	printJSON(result)
}

func getJSON(path string) {
	result, status, err := request(http.MethodGet, path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\n", status)
		printJSON(result)
		os.Exit(1)
	}
	printJSON(result)
}

func postJSON(path string) {
	result, status, err := request(http.MethodPost, path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\n", status)
		printJSON(result)
		os.Exit(1)
	}
	printJSON(result)
}

func request(method, path string) (map[string]any, int, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	if ownerID != "" {
		req.Header.Set("X-Owner-ID", ownerID)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var result map[string]any
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return result, resp.StatusCode, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
