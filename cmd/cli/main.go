package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "splitledger-cli",
		Short: "SplitLedger CLI tool",
		Long:  `A command line interface for interacting with the SplitLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the SplitLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	balancesCmd := &cobra.Command{
		Use:   "balances <user-id>",
		Short: "Show a user's net position per counterparty",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showBalances(args[0])
		},
	}

	settleUpCmd := &cobra.Command{
		Use:   "settle-up <user-id> <other-user-id>",
		Short: "Settle all open transfers between two users",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			settleUp(args[0], args[1])
		},
	}

	var after string
	unsettledCmd := &cobra.Command{
		Use:   "unsettled <user-id>",
		Short: "List expenses with open transfers for a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			listUnsettled(args[0], after)
		},
	}
	unsettledCmd.Flags().StringVar(&after, "after", "", "Only expenses created after this RFC 3339 timestamp")

	expensesCmd := &cobra.Command{
		Use:   "expenses",
		Short: "List all expenses with their transfers",
		Run: func(cmd *cobra.Command, args []string) {
			listExpenses()
		},
	}

	rootCmd.AddCommand(balancesCmd, settleUpCmd, unsettledCmd, expensesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func showBalances(userID string) {
	body := get("/api/v1/users/" + url.PathEscape(userID) + "/balances")

	var balances []struct {
		CounterpartyID string `json:"counterparty_id"`
		Currency       string `json:"currency"`
		Balance        string `json:"balance"`
	}
	if err := json.Unmarshal(body, &balances); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(balances) == 0 {
		fmt.Println("All settled up.")
		return
	}

	for _, b := range balances {
		fmt.Printf("%s  %s %s\n", b.CounterpartyID, b.Balance, b.Currency)
	}
}

func settleUp(userID, otherUserID string) {
	payload, _ := json.Marshal(map[string]string{
		"user_id":       userID,
		"other_user_id": otherUserID,
	})

	body := post("/api/v1/expenses/settle-up", payload)

	var result struct {
		Message          string `json:"message"`
		SettledExpenses  int    `json:"settled_expenses"`
		SettledTransfers int    `json:"settled_transfers"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.Message)
	fmt.Printf("Settled transfers: %d\n", result.SettledTransfers)
	fmt.Printf("Closed expenses: %d\n", result.SettledExpenses)
}

func listUnsettled(userID, after string) {
	path := "/api/v1/expenses/unsettled/" + url.PathEscape(userID)
	if after != "" {
		path += "?after=" + url.QueryEscape(after)
	}

	body := get(path)

	var expenses []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		Amount      string `json:"amount"`
		Currency    string `json:"currency"`
		CreatedAt   string `json:"created_at"`
	}
	if err := json.Unmarshal(body, &expenses); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, e := range expenses {
		fmt.Printf("%s  %s %s  %s  (%s)\n", e.ID, e.Amount, e.Currency, e.Description, e.CreatedAt)
	}
	fmt.Printf("%d unsettled expense(s)\n", len(expenses))
}

func listExpenses() {
	body := get("/api/v1/expenses/")

	var expenses []struct {
		Expense struct {
			ID          string `json:"id"`
			Description string `json:"description"`
			Amount      string `json:"amount"`
			Currency    string `json:"currency"`
			SplitMethod string `json:"split_method"`
			Settled     bool   `json:"settled"`
		} `json:"expense"`
		Transfers []struct {
			FromUserID string `json:"from_user_id"`
			ToUserID   string `json:"to_user_id"`
			Amount     string `json:"amount"`
			Settled    bool   `json:"settled"`
		} `json:"transfers"`
	}
	if err := json.Unmarshal(body, &expenses); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, e := range expenses {
		status := "open"
		if e.Expense.Settled {
			status = "settled"
		}
		fmt.Printf("%s  %s %s  %s  [%s, %s]\n",
			e.Expense.ID, e.Expense.Amount, e.Expense.Currency,
			e.Expense.Description, e.Expense.SplitMethod, status)
		for _, t := range e.Transfers {
			mark := " "
			if t.Settled {
				mark = "x"
			}
			fmt.Printf("  [%s] %s -> %s  %s\n", mark, t.FromUserID, t.ToUserID, t.Amount)
		}
	}
}

func get(path string) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
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

func post(path string, payload []byte) []byte {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}
