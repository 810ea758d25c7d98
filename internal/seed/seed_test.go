package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/branch-messaging/backend/internal/db"
	"github.com/branch-messaging/backend/internal/model"
	"github.com/branch-messaging/backend/internal/repository"
)

func TestSeedPopulatesEmptyDatabase(t *testing.T) {
	testDB, err := db.NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer testDB.Close()

	seeder := New(testDB)
	ctx := context.Background()

	if err := seeder.Seed(ctx); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	agents := repository.NewAgentRepository(testDB)
	customers := repository.NewCustomerRepository(testDB)
	conversations := repository.NewConversationRepository(testDB)
	canned := repository.NewCannedMessageRepository(testDB)

	agentCount, err := agents.Count(ctx)
	if err != nil {
		t.Fatalf("failed to count agents: %v", err)
	}
	if agentCount != 4 {
		t.Errorf("expected 4 agents, got %d", agentCount)
	}

	customerCount, err := customers.Count(ctx)
	if err != nil {
		t.Fatalf("failed to count customers: %v", err)
	}
	if customerCount != 3 {
		t.Errorf("expected 3 customers, got %d", customerCount)
	}

	items, err := conversations.List(ctx, "", "")
	if err != nil {
		t.Fatalf("failed to list conversations: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 conversations, got %d", len(items))
	}
	for _, item := range items {
		if item.Customer == nil {
			t.Errorf("expected joined customer on conversation %d", item.ID)
		}
	}

	templates, err := canned.List(ctx)
	if err != nil {
		t.Fatalf("failed to list canned messages: %v", err)
	}
	if len(templates) != 12 {
		t.Errorf("expected 12 canned messages, got %d", len(templates))
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	testDB, err := db.NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer testDB.Close()

	seeder := New(testDB)
	ctx := context.Background()

	if err := seeder.Seed(ctx); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	if err := seeder.Seed(ctx); err != nil {
		t.Fatalf("failed to re-seed: %v", err)
	}

	agents := repository.NewAgentRepository(testDB)
	count, err := agents.Count(ctx)
	if err != nil {
		t.Fatalf("failed to count agents: %v", err)
	}
	if count != 4 {
		t.Errorf("expected seeding to run once, got %d agents", count)
	}
}

func TestImportCSV(t *testing.T) {
	testDB, err := db.NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer testDB.Close()

	csvPath := filepath.Join(t.TempDir(), "messages.csv")
	content := `User ID,Timestamp (UTC),Message Body
101,2024-01-15 10:30:00,My payment failed and money deducted
101,2024-01-15 09:00:00,Hello there
202,2024-01-16 08:00:00,Thanks for the great service
`
	if err := os.WriteFile(csvPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}

	seeder := New(testDB)
	ctx := context.Background()
	if err := seeder.ImportCSV(ctx, csvPath); err != nil {
		t.Fatalf("failed to import csv: %v", err)
	}

	customers := repository.NewCustomerRepository(testDB)
	conversations := repository.NewConversationRepository(testDB)
	messages := repository.NewMessageRepository(testDB)

	first, err := customers.GetByEmail(ctx, "customer101@example.com")
	if err != nil {
		t.Fatalf("failed to get imported customer: %v", err)
	}
	if first.Name != "Customer 101" {
		t.Errorf("unexpected customer name %q", first.Name)
	}

	items, err := conversations.List(ctx, "", "")
	if err != nil {
		t.Fatalf("failed to list conversations: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(items))
	}

	var userConv *model.ConversationListItem
	for _, item := range items {
		if item.CustomerID == first.ID {
			userConv = item
		}
	}
	if userConv == nil {
		t.Fatal("expected a conversation for customer 101")
	}

	// Messages are ordered by timestamp, so the earlier greeting becomes
	// the first message and sets the subject and priority.
	if userConv.Subject != "Hello there" {
		t.Errorf("expected subject from earliest message, got %q", userConv.Subject)
	}
	if userConv.Priority != model.PriorityLow {
		t.Errorf("expected low priority from greeting, got %s", userConv.Priority)
	}

	listed, err := messages.ListByConversation(ctx, userConv.ID)
	if err != nil {
		t.Fatalf("failed to list messages: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(listed))
	}
	if listed[0].Content != "Hello there" || listed[1].Content != "My payment failed and money deducted" {
		t.Errorf("unexpected message order: %q, %q", listed[0].Content, listed[1].Content)
	}
	if listed[1].Priority != model.PriorityUrgent {
		t.Errorf("expected urgent classification, got %s", listed[1].Priority)
	}
	if !listed[0].IsFromCustomer {
		t.Error("expected imported messages to be from the customer")
	}
}

func TestImportCSVMissingColumn(t *testing.T) {
	testDB, err := db.NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer testDB.Close()

	csvPath := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(csvPath, []byte("User ID,Message Body\n1,hello\n"), 0644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}

	if err := New(testDB).ImportCSV(context.Background(), csvPath); err == nil {
		t.Fatal("expected error for missing timestamp column")
	}
}
