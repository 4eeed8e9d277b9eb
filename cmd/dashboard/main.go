// Copyright (c) 2026 Moneta. All rights reserved.
// Author: contact@moneta.app

/*
Dashboard is the terminal companion for the Moneta API.

It drives the same auth flow the web dashboard uses: sessions persist under
the user config directory, so sign-in survives between invocations.

Usage:

	dashboard login -username tuan -password secret
	dashboard register -username tuan -password secret -name "Tuấn" -email tuan@example.com
	dashboard overview
	dashboard status
	dashboard logout

The API base URL comes from the API_URL environment variable.
*/
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/moneta-app/moneta/internal/finance"
	"github.com/moneta-app/moneta/pkg/authclient"
	"github.com/moneta-app/moneta/pkg/currency"
)

type config struct {
	APIURL string `env:"API_URL" envDefault:"http://localhost:8000"`
}

// printNavigator surfaces navigation signals as terminal hints.
type printNavigator struct{}

func (printNavigator) Navigate(path string) {
	switch path {
	case authclient.PathDashboard:
		fmt.Println("→ run `dashboard overview` to see your finances")
	case authclient.PathLogin:
		fmt.Println("→ run `dashboard login` to sign in again")
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("missing command: login, register, logout, status or overview")
	}

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	controller := authclient.NewController(
		authclient.NewClient(cfg.APIURL),
		authclient.NewStore(),
		printNavigator{},
	)
	controller.Restore()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch command := args[0]; command {
	case "login":
		return runLogin(ctx, controller, args[1:])
	case "register":
		return runRegister(ctx, controller, args[1:])
	case "logout":
		return controller.Logout()
	case "status":
		return runStatus(controller)
	case "overview":
		return runOverview(ctx, cfg, controller)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runLogin(ctx context.Context, controller *authclient.Controller, args []string) error {
	flags := flag.NewFlagSet("login", flag.ExitOnError)
	username := flags.String("username", "", "account username")
	password := flags.String("password", "", "account password")
	if err := flags.Parse(args); err != nil {
		return err
	}

	response, err := controller.Login(ctx, authclient.Credentials{
		Username: *username,
		Password: *password,
	})
	if err != nil {
		return describeAuthError(err)
	}

	fmt.Println(response.Message)
	return nil
}

func runRegister(ctx context.Context, controller *authclient.Controller, args []string) error {
	flags := flag.NewFlagSet("register", flag.ExitOnError)
	username := flags.String("username", "", "account username")
	password := flags.String("password", "", "account password")
	fullName := flags.String("name", "", "display name")
	email := flags.String("email", "", "email address (optional when a phone number is given)")
	phone := flags.String("phone", "", "phone number (optional when an email is given)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	response, err := controller.Register(ctx, authclient.RegisterData{
		Username:    *username,
		Password:    *password,
		FullName:    *fullName,
		Email:       *email,
		PhoneNumber: *phone,
	})
	if err != nil {
		return describeAuthError(err)
	}

	fmt.Println(response.Message)
	return nil
}

func runStatus(controller *authclient.Controller) error {
	if !controller.IsAuthenticated() {
		fmt.Println("not signed in")
		return nil
	}

	user := controller.CurrentUser()
	fmt.Printf("signed in as %s (%s %s)\n", user.Username, user.FirstName, user.LastName)
	if user.Email != nil {
		fmt.Println("email:", *user.Email)
	}
	if user.PhoneNumber != nil {
		fmt.Println("phone:", *user.PhoneNumber)
	}
	return nil
}

func runOverview(ctx context.Context, cfg config, controller *authclient.Controller) error {
	token, ok := controller.AccessToken()
	if !ok {
		return errors.New("not signed in: run `dashboard login` first")
	}

	summary, err := fetchSummary(ctx, cfg.APIURL, token)
	if err != nil {
		return err
	}

	fmt.Println("Tổng số dư:", currency.VND(summary.TotalBalance))
	fmt.Println("Thu nhập:  ", currency.VND(summary.TotalIncome))
	fmt.Println("Chi tiêu:  ", currency.VND(summary.TotalExpense))
	fmt.Println("Tài khoản: ", currency.VND(summary.AccountBalance))
	fmt.Println("Tiết kiệm: ", currency.VND(summary.Savings))

	fmt.Println("\nGiao dịch gần đây:")
	for _, transaction := range summary.Transactions {
		fmt.Printf("  %-20s %12s  %s\n", transaction.Description, currency.SignedVND(transaction.Amount), transaction.Date)
	}

	fmt.Println("\nNgân sách:")
	for _, budget := range summary.Budgets {
		fmt.Printf("  %-12s %s / %s (%d%%)\n", budget.Category, currency.VND(budget.Used), currency.VND(budget.Limit), budget.Percentage)
	}

	fmt.Println("\nMục tiêu:")
	for _, goal := range summary.Goals {
		fmt.Printf("  %-12s %s / %s (%d%%)\n", goal.Name, currency.VND(goal.Current), currency.VND(goal.Target), goal.Percentage)
	}

	fmt.Println("\nCông nợ:")
	for _, debt := range summary.Debts {
		fmt.Printf("  %-16s %s (%d khoản)\n", debt.Type, currency.VND(debt.Amount), debt.Count)
	}
	return nil
}

// fetchSummary calls the dashboard endpoint with the stored access token.
func fetchSummary(ctx context.Context, baseURL, token string) (*finance.Summary, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/dashboard/summary/", nil)
	if err != nil {
		return nil, fmt.Errorf("build summary request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch summary: %w", err)
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, errors.New("session expired: run `dashboard login` again")
	default:
		return nil, fmt.Errorf("fetch summary: unexpected status %d", response.StatusCode)
	}

	var summary finance.Summary
	if err := json.NewDecoder(response.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &summary, nil
}

// describeAuthError flattens a normalized auth failure into terminal output,
// listing per-field problems when the backend reported any.
func describeAuthError(err error) error {
	var authErr *authclient.AuthError
	if !errors.As(err, &authErr) {
		return err
	}

	for field, problems := range authErr.FieldErrors() {
		for _, problem := range problems {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, problem)
		}
	}
	return errors.New(authErr.Error())
}
