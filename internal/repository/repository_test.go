package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/branch-messaging/backend/internal/db"
	"github.com/branch-messaging/backend/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	testDB, err := db.NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })
	return testDB
}

func createTestCustomer(t *testing.T, repo *CustomerRepository, name, email string) *model.Customer {
	t.Helper()
	customer := &model.Customer{
		Name:          name,
		Email:         email,
		Phone:         "+254712345678",
		AccountStatus: "active",
	}
	if err := repo.Create(context.Background(), customer); err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	return customer
}

func createTestConversation(t *testing.T, repo *ConversationRepository, customerID int64) *model.Conversation {
	t.Helper()
	conv := &model.Conversation{
		CustomerID: customerID,
		Subject:    "Test conversation",
	}
	if err := repo.Create(context.Background(), conv); err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}
	return conv
}

func TestCustomerCreateAndGet(t *testing.T) {
	testDB := newTestDB(t)
	repo := NewCustomerRepository(testDB)
	ctx := context.Background()

	amount := 50000.0
	customer := &model.Customer{
		Name:          "Sarah Mwangi",
		Email:         "sarah@example.com",
		Phone:         "+254700000001",
		AccountStatus: "active",
		LoanStatus:    "active",
		LoanAmount:    &amount,
		ProfileNotes:  "Repeat borrower",
	}
	if err := repo.Create(ctx, customer); err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	if customer.ID == 0 {
		t.Fatal("expected generated customer ID")
	}

	got, err := repo.GetByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("failed to get customer: %v", err)
	}
	if got.Name != customer.Name || got.Email != customer.Email || got.Phone != customer.Phone {
		t.Errorf("retrieved customer does not match: %+v", got)
	}
	if got.LoanAmount == nil || *got.LoanAmount != amount {
		t.Errorf("expected loan amount %v, got %v", amount, got.LoanAmount)
	}

	byEmail, err := repo.GetByEmail(ctx, "sarah@example.com")
	if err != nil {
		t.Fatalf("failed to get customer by email: %v", err)
	}
	if byEmail.ID != customer.ID {
		t.Errorf("expected customer %d, got %d", customer.ID, byEmail.ID)
	}
}

func TestCustomerGetNotFound(t *testing.T) {
	testDB := newTestDB(t)
	repo := NewCustomerRepository(testDB)

	_, err := repo.GetByID(context.Background(), 999)
	if !errors.Is(err, model.ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
	_, err = repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, model.ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCustomerSearch(t *testing.T) {
	testDB := newTestDB(t)
	repo := NewCustomerRepository(testDB)
	ctx := context.Background()

	createTestCustomer(t, repo, "Amina Hassan", "amina@example.com")
	createTestCustomer(t, repo, "John Otieno", "john@example.com")

	matches, err := repo.Search(ctx, "amina")
	if err != nil {
		t.Fatalf("failed to search customers: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Amina Hassan" {
		t.Errorf("expected Amina Hassan, got %+v", matches)
	}

	// Phone is searchable too; the fixture phone is shared.
	matches, err = repo.Search(ctx, "2547123")
	if err != nil {
		t.Fatalf("failed to search customers: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 phone matches, got %d", len(matches))
	}
}

func TestAgentCreateAndSetOnline(t *testing.T) {
	testDB := newTestDB(t)
	repo := NewAgentRepository(testDB)
	ctx := context.Background()

	agent := &model.Agent{Name: "Grace Wanjiru", Email: "grace@branch.co"}
	if err := repo.Create(ctx, agent); err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}

	if err := repo.SetOnline(ctx, agent.ID, true); err != nil {
		t.Fatalf("failed to set agent online: %v", err)
	}
	got, err := repo.GetByID(ctx, agent.ID)
	if err != nil {
		t.Fatalf("failed to get agent: %v", err)
	}
	if !got.IsOnline {
		t.Error("expected agent to be online")
	}

	if err := repo.SetOnline(ctx, 999, true); !errors.Is(err, model.ErrAgentNotFound) {
		t.Errorf("expected ErrAgentNotFound, got %v", err)
	}
}

func TestConversationCreateDefaults(t *testing.T) {
	testDB := newTestDB(t)
	customers := NewCustomerRepository(testDB)
	conversations := NewConversationRepository(testDB)
	ctx := context.Background()

	customer := createTestCustomer(t, customers, "Test Customer", "test@example.com")
	conv := createTestConversation(t, conversations, customer.ID)

	if conv.Status != model.ConversationStatusOpen {
		t.Errorf("expected open status, got %s", conv.Status)
	}
	if conv.Priority != model.PriorityMedium {
		t.Errorf("expected medium priority, got %s", conv.Priority)
	}

	got, err := conversations.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("failed to get conversation: %v", err)
	}
	if got.Customer == nil || got.Customer.ID != customer.ID {
		t.Errorf("expected joined customer %d, got %+v", customer.ID, got.Customer)
	}
	if got.AgentID != nil || got.AssignedAgent != nil {
		t.Error("expected unassigned conversation")
	}
}

func TestConversationGetNotFound(t *testing.T) {
	testDB := newTestDB(t)
	conversations := NewConversationRepository(testDB)

	_, err := conversations.GetByID(context.Background(), 42)
	if !errors.Is(err, model.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestConversationListWithLastMessageAndUnread(t *testing.T) {
	testDB := newTestDB(t)
	customers := NewCustomerRepository(testDB)
	conversations := NewConversationRepository(testDB)
	messages := NewMessageRepository(testDB)
	ctx := context.Background()

	customer := createTestCustomer(t, customers, "Test Customer", "test@example.com")
	conv := createTestConversation(t, conversations, customer.ID)

	for i := 0; i < 3; i++ {
		msg := &model.Message{
			ConversationID: conv.ID,
			CustomerID:     &customer.ID,
			Content:        fmt.Sprintf("message %d", i),
			IsFromCustomer: true,
			Priority:       model.PriorityMedium,
			Confidence:     0.5,
		}
		if err := messages.Create(ctx, msg); err != nil {
			t.Fatalf("failed to create message: %v", err)
		}
	}

	items, err := conversations.List(ctx, "", "")
	if err != nil {
		t.Fatalf("failed to list conversations: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(items))
	}
	item := items[0]
	if item.UnreadCount != 3 {
		t.Errorf("expected 3 unread, got %d", item.UnreadCount)
	}
	if item.LastMessage == nil || item.LastMessage.Content != "message 2" {
		t.Errorf("expected last message 'message 2', got %+v", item.LastMessage)
	}

	if err := messages.MarkConversationRead(ctx, conv.ID); err != nil {
		t.Fatalf("failed to mark read: %v", err)
	}
	items, err = conversations.List(ctx, "", "")
	if err != nil {
		t.Fatalf("failed to list conversations: %v", err)
	}
	if items[0].UnreadCount != 0 {
		t.Errorf("expected 0 unread after marking read, got %d", items[0].UnreadCount)
	}
}

func TestConversationListFilters(t *testing.T) {
	testDB := newTestDB(t)
	customers := NewCustomerRepository(testDB)
	conversations := NewConversationRepository(testDB)
	ctx := context.Background()

	customer := createTestCustomer(t, customers, "Test Customer", "test@example.com")

	open := &model.Conversation{CustomerID: customer.ID, Status: model.ConversationStatusOpen, Priority: model.PriorityUrgent}
	resolved := &model.Conversation{CustomerID: customer.ID, Status: model.ConversationStatusResolved, Priority: model.PriorityLow}
	for _, conv := range []*model.Conversation{open, resolved} {
		if err := conversations.Create(ctx, conv); err != nil {
			t.Fatalf("failed to create conversation: %v", err)
		}
	}

	items, err := conversations.List(ctx, "open", "")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(items) != 1 || items[0].ID != open.ID {
		t.Errorf("expected only the open conversation, got %+v", items)
	}

	items, err = conversations.List(ctx, "", "low")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(items) != 1 || items[0].ID != resolved.ID {
		t.Errorf("expected only the low priority conversation, got %+v", items)
	}

	items, err = conversations.List(ctx, "open", "low")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no matches, got %+v", items)
	}
}

func TestConversationUpdatePartial(t *testing.T) {
	testDB := newTestDB(t)
	customers := NewCustomerRepository(testDB)
	agents := NewAgentRepository(testDB)
	conversations := NewConversationRepository(testDB)
	ctx := context.Background()

	customer := createTestCustomer(t, customers, "Test Customer", "test@example.com")
	agent := &model.Agent{Name: "Grace Wanjiru", Email: "grace@branch.co"}
	if err := agents.Create(ctx, agent); err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}
	conv := createTestConversation(t, conversations, customer.ID)

	status := model.ConversationStatusInProgress
	updated, err := conversations.Update(ctx, conv.ID, &model.UpdateConversationRequest{
		Status:  &status,
		AgentID: &agent.ID,
	})
	if err != nil {
		t.Fatalf("failed to update conversation: %v", err)
	}
	if updated.Status != model.ConversationStatusInProgress {
		t.Errorf("expected in_progress, got %s", updated.Status)
	}
	if updated.AgentID == nil || *updated.AgentID != agent.ID {
		t.Errorf("expected agent %d, got %v", agent.ID, updated.AgentID)
	}
	if updated.AssignedAgent == nil || updated.AssignedAgent.Name != agent.Name {
		t.Errorf("expected joined agent, got %+v", updated.AssignedAgent)
	}
	// Untouched fields survive the partial update.
	if updated.Priority != model.PriorityMedium {
		t.Errorf("expected priority unchanged, got %s", updated.Priority)
	}

	_, err = conversations.Update(ctx, 999, &model.UpdateConversationRequest{Status: &status})
	if !errors.Is(err, model.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestConversationUpdatePriority(t *testing.T) {
	testDB := newTestDB(t)
	customers := NewCustomerRepository(testDB)
	conversations := NewConversationRepository(testDB)
	ctx := context.Background()

	customer := createTestCustomer(t, customers, "Test Customer", "test@example.com")
	conv := createTestConversation(t, conversations, customer.ID)

	if err := conversations.UpdatePriority(ctx, conv.ID, model.PriorityUrgent); err != nil {
		t.Fatalf("failed to update priority: %v", err)
	}
	got, err := conversations.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("failed to get conversation: %v", err)
	}
	if got.Priority != model.PriorityUrgent {
		t.Errorf("expected urgent, got %s", got.Priority)
	}

	if err := conversations.UpdatePriority(ctx, 999, model.PriorityHigh); !errors.Is(err, model.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
}

func TestConversationSearch(t *testing.T) {
	testDB := newTestDB(t)
	customers := NewCustomerRepository(testDB)
	conversations := NewConversationRepository(testDB)
	messages := NewMessageRepository(testDB)
	ctx := context.Background()

	customer := createTestCustomer(t, customers, "Test Customer", "test@example.com")

	bySubject := &model.Conversation{CustomerID: customer.ID, Subject: "Loan disbursement delay"}
	byContent := &model.Conversation{CustomerID: customer.ID, Subject: "General question"}
	for _, conv := range []*model.Conversation{bySubject, byContent} {
		if err := conversations.Create(ctx, conv); err != nil {
			t.Fatalf("failed to create conversation: %v", err)
		}
	}
	msg := &model.Message{
		ConversationID: byContent.ID,
		CustomerID:     &customer.ID,
		Content:        "My repayment schedule looks wrong",
		IsFromCustomer: true,
		Priority:       model.PriorityMedium,
		Confidence:     0.5,
	}
	if err := messages.Create(ctx, msg); err != nil {
		t.Fatalf("failed to create message: %v", err)
	}

	items, err := conversations.Search(ctx, "disbursement")
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(items) != 1 || items[0].ID != bySubject.ID {
		t.Errorf("expected subject match, got %+v", items)
	}

	items, err = conversations.Search(ctx, "repayment")
	if err != nil {
		t.Fatalf("failed to search: %v", err)
	}
	if len(items) != 1 || items[0].ID != byContent.ID {
		t.Errorf("expected content match, got %+v", items)
	}
}

func TestConversationStats(t *testing.T) {
	testDB := newTestDB(t)
	customers := NewCustomerRepository(testDB)
	agents := NewAgentRepository(testDB)
	conversations := NewConversationRepository(testDB)
	ctx := context.Background()

	customer := createTestCustomer(t, customers, "Test Customer", "test@example.com")
	agent := &model.Agent{Name: "Grace Wanjiru", Email: "grace@branch.co"}
	if err := agents.Create(ctx, agent); err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}

	fixtures := []*model.Conversation{
		{CustomerID: customer.ID, Status: model.ConversationStatusOpen, Priority: model.PriorityUrgent},
		{CustomerID: customer.ID, Status: model.ConversationStatusOpen, Priority: model.PriorityMedium, AgentID: &agent.ID},
		{CustomerID: customer.ID, Status: model.ConversationStatusResolved, Priority: model.PriorityMedium},
	}
	for _, conv := range fixtures {
		if err := conversations.Create(ctx, conv); err != nil {
			t.Fatalf("failed to create conversation: %v", err)
		}
	}

	stats, err := conversations.Stats(ctx)
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if stats.ByStatus["open"] != 2 || stats.ByStatus["resolved"] != 1 {
		t.Errorf("unexpected status counts: %+v", stats.ByStatus)
	}
	if stats.ByPriority["medium"] != 2 || stats.ByPriority["urgent"] != 1 {
		t.Errorf("unexpected priority counts: %+v", stats.ByPriority)
	}
	if stats.Unassigned != 2 {
		t.Errorf("expected 2 unassigned, got %d", stats.Unassigned)
	}
}

func TestMessageListOrder(t *testing.T) {
	testDB := newTestDB(t)
	customers := NewCustomerRepository(testDB)
	conversations := NewConversationRepository(testDB)
	messages := NewMessageRepository(testDB)
	ctx := context.Background()

	customer := createTestCustomer(t, customers, "Test Customer", "test@example.com")
	conv := createTestConversation(t, conversations, customer.ID)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		msg := &model.Message{
			ConversationID: conv.ID,
			CustomerID:     &customer.ID,
			Content:        fmt.Sprintf("message %d", i),
			IsFromCustomer: true,
			Priority:       model.PriorityMedium,
			Confidence:     0.5,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		if err := messages.Create(ctx, msg); err != nil {
			t.Fatalf("failed to create message: %v", err)
		}
	}

	listed, err := messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("failed to list messages: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(listed))
	}
	for i, msg := range listed {
		if want := fmt.Sprintf("message %d", i); msg.Content != want {
			t.Errorf("expected %q at position %d, got %q", want, i, msg.Content)
		}
	}

	count, err := messages.CountByConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("failed to count messages: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 messages, got %d", count)
	}
}

func TestMessageGetNotFound(t *testing.T) {
	testDB := newTestDB(t)
	messages := NewMessageRepository(testDB)

	_, err := messages.GetByID(context.Background(), 999)
	if !errors.Is(err, model.ErrMessageNotFound) {
		t.Errorf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestCannedMessageUsageOrdering(t *testing.T) {
	testDB := newTestDB(t)
	canned := NewCannedMessageRepository(testDB)
	ctx := context.Background()

	first := &model.CannedMessage{Title: "Greeting", Content: "Hello! How can I help?", Shortcut: "/hello"}
	second := &model.CannedMessage{Title: "Loan status", Content: "Let me check your loan status.", Shortcut: "/loan"}
	for _, cm := range []*model.CannedMessage{first, second} {
		if err := canned.Create(ctx, cm); err != nil {
			t.Fatalf("failed to create canned message: %v", err)
		}
	}

	for i := 0; i < 2; i++ {
		if err := canned.IncrementUsage(ctx, second.ID); err != nil {
			t.Fatalf("failed to increment usage: %v", err)
		}
	}

	listed, err := canned.List(ctx)
	if err != nil {
		t.Fatalf("failed to list canned messages: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 canned messages, got %d", len(listed))
	}
	if listed[0].ID != second.ID || listed[0].UsageCount != 2 {
		t.Errorf("expected most used first, got %+v", listed[0])
	}

	if err := canned.IncrementUsage(ctx, 999); !errors.Is(err, model.ErrCannedMessageNotFound) {
		t.Errorf("expected ErrCannedMessageNotFound, got %v", err)
	}
}
