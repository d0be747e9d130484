package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/client"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/config"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/web"
	"github.com/joho/godotenv"
)

type Issue struct {
	ReportID int64  `json:"reportId"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Details  string `json:"details"`
}

// LinkChecker returns the HTTP status a storage URL answers with.
type LinkChecker func(ctx context.Context, url string) (int, error)

func main() {
	_ = godotenv.Load()

	workers := flag.Int("workers", 10, "Number of parallel workers")
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "Administrator email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "Administrator password")
	outputFile := flag.String("output", "audit_results.json", "Output file for results")
	flag.Parse()
	if err := validateWorkers(*workers); err != nil {
		log.Fatal(err)
	}

	cfg := config.Load()
	ctx := context.Background()

	api := client.New(cfg.BackendURL, cfg.BackendTimeout)
	au, err := api.Login(ctx, model.Credentials{Email: *email, Password: *password})
	if err != nil {
		log.Fatalf("Failed to log in: %v", err)
	}
	if !au.User.IsAdmin() {
		log.Fatalf("%s is not an administrator", *email)
	}
	admin := api.WithToken(au.Token)

	reports, err := admin.ListReports(ctx)
	if err != nil {
		log.Fatalf("Failed to list reports: %v", err)
	}
	total := len(reports)
	fmt.Printf("Auditing %d reports with %d workers...\n", total, *workers)

	httpClient := &http.Client{Timeout: 15 * time.Second}
	check := headChecker(httpClient)

	reportChan := make(chan model.Report, *workers*2)
	issueChan := make(chan Issue, 100)

	var processed int64
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for report := range reportChan {
				for _, issue := range auditReport(ctx, report, cfg.StorageURL, check) {
					issueChan <- issue
				}
				if p := atomic.AddInt64(&processed, 1); p%50 == 0 {
					fmt.Printf("Progress: %d/%d\n", p, total)
				}
			}
		}()
	}

	var issues []Issue
	done := make(chan struct{})
	go func() {
		for issue := range issueChan {
			issues = append(issues, issue)
		}
		close(done)
	}()

	startTime := time.Now()
	for _, report := range reports {
		reportChan <- report
	}
	close(reportChan)
	wg.Wait()
	close(issueChan)
	<-done
	elapsed := time.Since(startTime)

	issuesByType := make(map[string][]Issue)
	for _, issue := range issues {
		issuesByType[issue.Type] = append(issuesByType[issue.Type], issue)
	}

	fmt.Printf("\n=== Audit Complete ===\n")
	fmt.Printf("Total reports: %d\n", total)
	fmt.Printf("Issues found: %d\n", len(issues))
	fmt.Printf("Time elapsed: %v\n", elapsed)
	for typ, typeIssues := range issuesByType {
		fmt.Printf("%s: %d\n", typ, len(typeIssues))
	}

	output := map[string]any{
		"summary": map[string]any{
			"total":   total,
			"issues":  len(issues),
			"elapsed": elapsed.String(),
		},
		"issuesByType": issuesByType,
		"issues":       issues,
	}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	if err := os.WriteFile(*outputFile, jsonData, 0644); err != nil {
		log.Printf("Failed to write output file: %v", err)
	} else {
		fmt.Printf("\nResults saved to %s\n", *outputFile)
	}
}

// validateWorkers rejects pool sizes that would leave nobody reading the
// report queue.
func validateWorkers(n int) error {
	if n < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", n)
	}
	return nil
}

func headChecker(hc *http.Client) LinkChecker {
	return func(ctx context.Context, url string) (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return 0, err
		}
		resp, err := hc.Do(req)
		if err != nil {
			return 0, err
		}
		resp.Body.Close()
		return resp.StatusCode, nil
	}
}

// auditReport lists what is wrong with one archived report: missing or
// unreachable files and missing metadata.
func auditReport(ctx context.Context, r model.Report, storageURL string, check LinkChecker) []Issue {
	var issues []Issue
	add := func(typ, details string) {
		issues = append(issues, Issue{ReportID: r.ID, Title: r.Title, Type: typ, Details: details})
	}

	files := []struct {
		kind, path string
	}{
		{"PDF", r.URL},
		{"PREVIEW", r.Preview},
	}
	for _, f := range files {
		if f.path == "" {
			add("MISSING_"+f.kind, "No file recorded")
			continue
		}
		url := web.StorageURL(storageURL, f.path)
		status, err := check(ctx, url)
		switch {
		case err != nil:
			add("UNREACHABLE_"+f.kind, fmt.Sprintf("%s: %v", url, err))
		case status >= 400:
			add("BROKEN_"+f.kind, fmt.Sprintf("%s answered %d", url, status))
		}
	}

	if r.User == nil {
		add("NO_AUTHOR", "Report has no author")
	}
	if len(r.Tags) == 0 {
		add("NO_TAGS", "Report has no tags")
	}
	return issues
}
