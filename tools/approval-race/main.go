// approval-race fires concurrent APPROVE transitions at one PENDING
// submission. Exactly one should succeed and the rest should see 409.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"timesheet.service/internal/api/middleware"
	"timesheet.service/internal/core/model"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080/api/v1", "API base URL")
	secret := flag.String("secret", "local-dev-secret", "JWT signing secret")
	concurrency := flag.Int("n", 50, "number of concurrent approvals")
	flag.Parse()

	contractor := model.Actor{ID: "race-contractor", Role: model.RoleContractor}
	manager := model.Actor{ID: "race-manager", Role: model.RoleManager}

	contractorToken, err := middleware.IssueToken(*secret, contractor, time.Hour)
	if err != nil {
		fail(err)
	}
	managerToken, err := middleware.IssueToken(*secret, manager, time.Hour)
	if err != nil {
		fail(err)
	}

	// Create the submission everyone will race on.
	created, status, err := post(*baseURL+"/submissions", contractorToken, map[string]any{
		"contractorName": "Race Contractor",
		"managerId":      manager.ID,
		"periodStart":    "2026-01-01",
		"periodEnd":      "2026-01-31",
		"regularHours":   160,
		"description":    "approval race",
		"hourlyRate":     50,
	})
	if err != nil || status != http.StatusCreated {
		fail(fmt.Errorf("create submission: status %d: %v", status, err))
	}
	id, _ := created["id"].(string)
	fmt.Printf("Racing %d approvals on submission %s\n", *concurrency, id)

	var wg sync.WaitGroup
	var succeeded, conflicts, other int64
	start := make(chan struct{})
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, status, err := post(*baseURL+"/submissions/"+id+"/transitions", managerToken, map[string]string{"action": "APPROVE"})
			switch {
			case err != nil:
				atomic.AddInt64(&other, 1)
			case status == http.StatusOK:
				atomic.AddInt64(&succeeded, 1)
			case status == http.StatusConflict:
				atomic.AddInt64(&conflicts, 1)
			default:
				atomic.AddInt64(&other, 1)
			}
		}()
	}

	startTime := time.Now()
	close(start)
	wg.Wait()

	fmt.Println("\n--- Approval Race Results ---")
	fmt.Printf("Duration:   %v\n", time.Since(startTime))
	fmt.Printf("Succeeded:  %d\n", succeeded)
	fmt.Printf("Conflicts:  %d\n", conflicts)
	fmt.Printf("Other:      %d\n", other)

	if succeeded != 1 {
		fmt.Println("FAIL: expected exactly one successful approval")
		os.Exit(1)
	}
}

func post(url, token string, body any) (map[string]any, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return out, resp.StatusCode, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
