package main

import (
	"context"
	"testing"

	"timesheet.service/internal/config"
)

func TestMemoryStoresHaveLocalUsers(t *testing.T) {
	st, closeStores, err := openStores(context.Background(), config.Config{StorageDriver: config.StorageMemory})
	if err != nil {
		t.Fatalf("openStores returned error: %v", err)
	}
	defer closeStores()

	users, err := st.users.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != len(localUsers) {
		t.Fatalf("expected %d seeded users, got %d", len(localUsers), len(users))
	}
}
