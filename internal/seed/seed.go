// Package seed populates an empty database with sample agents, customers,
// conversations, and canned replies, and imports historical customer
// messages from CSV exports.
package seed

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/branch-messaging/backend/internal/classifier"
	"github.com/branch-messaging/backend/internal/model"
	"github.com/branch-messaging/backend/internal/repository"
)

// Seeder seeds initial data and imports message history.
type Seeder struct {
	customers     *repository.CustomerRepository
	agents        *repository.AgentRepository
	conversations *repository.ConversationRepository
	messages      *repository.MessageRepository
	canned        *repository.CannedMessageRepository
}

// New creates a Seeder over the given database.
func New(db *sql.DB) *Seeder {
	return &Seeder{
		customers:     repository.NewCustomerRepository(db),
		agents:        repository.NewAgentRepository(db),
		conversations: repository.NewConversationRepository(db),
		messages:      repository.NewMessageRepository(db),
		canned:        repository.NewCannedMessageRepository(db),
	}
}

// Seed inserts sample data if the database is empty. Safe to call on every
// startup.
func (s *Seeder) Seed(ctx context.Context) error {
	count, err := s.agents.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if count > 0 {
		log.Println("seed: database already has data, skipping")
		return nil
	}

	log.Println("seed: seeding database with initial data")

	agents := []*model.Agent{
		{Name: "Alex Thompson", Email: "alex.t@branch.com", AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Alex", IsOnline: true},
		{Name: "Maria Garcia", Email: "maria.g@branch.com", AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Maria", IsOnline: true},
		{Name: "James Chen", Email: "james.c@branch.com", AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=James", IsOnline: false},
		{Name: "Sophie Wilson", Email: "sophie.w@branch.com", AvatarURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Sophie", IsOnline: true},
	}
	for _, agent := range agents {
		if err := s.agents.Create(ctx, agent); err != nil {
			return err
		}
	}

	loan := func(amount float64) *float64 { return &amount }
	customers := []*model.Customer{
		{Name: "John Smith", Email: "john.smith@email.com", Phone: "+1234567890", AccountStatus: "active", LoanStatus: "approved", LoanAmount: loan(5000)},
		{Name: "Sarah Johnson", Email: "sarah.j@email.com", Phone: "+0987654321", AccountStatus: "active", LoanStatus: "pending", LoanAmount: loan(3000)},
		{Name: "Mike Williams", Email: "mike.w@email.com", Phone: "+1122334455", AccountStatus: "active"},
	}
	for _, customer := range customers {
		if err := s.customers.Create(ctx, customer); err != nil {
			return err
		}
	}

	conversations := []*model.Conversation{
		{CustomerID: customers[0].ID, AgentID: &agents[0].ID, Status: model.ConversationStatusOpen, Priority: model.PriorityHigh, Subject: "Loan disbursement inquiry"},
		{CustomerID: customers[1].ID, AgentID: &agents[1].ID, Status: model.ConversationStatusInProgress, Priority: model.PriorityMedium, Subject: "Account verification"},
		{CustomerID: customers[2].ID, Status: model.ConversationStatusOpen, Priority: model.PriorityLow, Subject: "General inquiry"},
	}
	for _, conv := range conversations {
		if err := s.conversations.Create(ctx, conv); err != nil {
			return err
		}
	}

	messages := []*model.Message{
		{ConversationID: conversations[0].ID, CustomerID: &customers[0].ID, Content: "Hi, when will my loan be disbursed?", IsFromCustomer: true, Priority: model.PriorityHigh},
		{ConversationID: conversations[0].ID, AgentID: &agents[0].ID, Content: "Hello! Let me check your loan status.", Priority: model.PriorityHigh},
		{ConversationID: conversations[1].ID, CustomerID: &customers[1].ID, Content: "I need to verify my account details", IsFromCustomer: true, Priority: model.PriorityMedium},
		{ConversationID: conversations[2].ID, CustomerID: &customers[2].ID, Content: "Hello, I have a question about your services", IsFromCustomer: true, Priority: model.PriorityLow},
	}
	for _, msg := range messages {
		if err := s.messages.Create(ctx, msg); err != nil {
			return err
		}
	}

	canned := []*model.CannedMessage{
		{Title: "Greeting", Content: "Hello! Thank you for contacting Branch support. How can I help you today?", Category: "General", Shortcut: "/hello"},
		{Title: "Loan Status Check", Content: "I'd be happy to check the status of your loan application. Please give me a moment to look into this for you.", Category: "Loan", Shortcut: "/loanstatus"},
		{Title: "Loan Approval Timeline", Content: "Loan applications are typically processed within 24-48 hours. If it's been longer than that, I can escalate this for you.", Category: "Loan", Shortcut: "/timeline"},
		{Title: "Disbursement Info", Content: "Once your loan is approved, disbursement typically takes 1-2 business days. The funds will be sent directly to your registered bank account.", Category: "Loan", Shortcut: "/disburse"},
		{Title: "Account Recovery", Content: "I understand you're having trouble accessing your account. Let me help you reset your password. Please verify your registered email address.", Category: "Account", Shortcut: "/recovery"},
		{Title: "KYC Documents", Content: "For KYC verification, we require: 1) A valid government ID (passport, driver's license, or national ID), 2) Proof of address (utility bill or bank statement), 3) A recent selfie holding your ID.", Category: "Account", Shortcut: "/kyc"},
		{Title: "Payment Issue", Content: "I'm sorry to hear about the payment issue. Let me investigate this for you. Can you please provide the transaction reference number or date of the transaction?", Category: "Payment", Shortcut: "/payment"},
		{Title: "Refund Process", Content: "I've initiated the refund process for you. Please allow 5-7 business days for the amount to reflect in your account. You'll receive an email confirmation shortly.", Category: "Payment", Shortcut: "/refund"},
		{Title: "Escalation", Content: "I understand this is urgent. I'm escalating your case to our senior support team who will contact you within the next 2 hours.", Category: "General", Shortcut: "/escalate"},
		{Title: "Closing", Content: "Is there anything else I can help you with today? If not, thank you for contacting Branch support. Have a great day!", Category: "General", Shortcut: "/close"},
		{Title: "Security Alert Response", Content: "Thank you for reporting this. We take security very seriously. I've flagged your account for a security review. Please do not share your PIN, password, or OTP with anyone. Branch will never ask for these details.", Category: "Security", Shortcut: "/security"},
		{Title: "Interest Rate Info", Content: "Our interest rates range from 5% to 15% depending on your credit history, loan amount, and tenure. I can help you calculate the exact rate for your specific case.", Category: "Loan", Shortcut: "/interest"},
	}
	for _, c := range canned {
		if err := s.canned.Create(ctx, c); err != nil {
			return err
		}
	}

	log.Printf("seed: created %d agents, %d customers, %d conversations, %d canned messages",
		len(agents), len(customers), len(conversations), len(canned))
	return nil
}

// csvTimeLayout matches the timestamp format of the message export.
const csvTimeLayout = "2006-01-02 15:04:05"

type csvMessage struct {
	timestamp time.Time
	body      string
}

// ImportCSV loads historical customer messages from a CSV export with
// columns "User ID", "Timestamp (UTC)", and "Message Body". One customer
// and one conversation are created per user ID; every message is run
// through the classifier, and the first message sets the conversation's
// priority and subject.
func (s *Seeder) ImportCSV(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	byUser, order, err := readMessagesByUser(f)
	if err != nil {
		return err
	}

	imported := 0
	for _, userID := range order {
		userMessages := byUser[userID]
		sort.Slice(userMessages, func(i, j int) bool {
			return userMessages[i].timestamp.Before(userMessages[j].timestamp)
		})

		if err := s.importUser(ctx, userID, userMessages); err != nil {
			return err
		}
		imported++
	}

	log.Printf("seed: imported %d customer conversations from %s", imported, path)
	return nil
}

func readMessagesByUser(f io.Reader) (map[string][]csvMessage, []string, error) {
	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"User ID", "Timestamp (UTC)", "Message Body"} {
		if _, ok := col[required]; !ok {
			return nil, nil, fmt.Errorf("csv missing required column %q", required)
		}
	}

	byUser := make(map[string][]csvMessage)
	var order []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		userID := record[col["User ID"]]
		ts, err := time.Parse(csvTimeLayout, record[col["Timestamp (UTC)"]])
		if err != nil {
			log.Printf("seed: skipping record with bad timestamp %q: %v", record[col["Timestamp (UTC)"]], err)
			continue
		}

		if _, ok := byUser[userID]; !ok {
			order = append(order, userID)
		}
		byUser[userID] = append(byUser[userID], csvMessage{
			timestamp: ts,
			body:      record[col["Message Body"]],
		})
	}
	return byUser, order, nil
}

func (s *Seeder) importUser(ctx context.Context, userID string, userMessages []csvMessage) error {
	customer := &model.Customer{
		Name:          "Customer " + userID,
		Email:         fmt.Sprintf("customer%s@example.com", userID),
		AccountStatus: "active",
		ProfileNotes:  fmt.Sprintf("Customer ID: %s. Contact via app messaging.", userID),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return err
	}

	// The first message typically sets the tone for the conversation.
	first := userMessages[0]
	priority, _ := classifier.Classify(first.body)

	subject := first.body
	if runes := []rune(subject); len(runes) > 100 {
		subject = string(runes[:100])
	}

	conv := &model.Conversation{
		CustomerID: customer.ID,
		Status:     model.ConversationStatusOpen,
		Priority:   priority,
		Subject:    subject,
		CreatedAt:  first.timestamp,
		UpdatedAt:  first.timestamp,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return err
	}

	for _, m := range userMessages {
		msgPriority, confidence := classifier.Classify(m.body)
		msg := &model.Message{
			ConversationID: conv.ID,
			CustomerID:     &customer.ID,
			Content:        m.body,
			IsFromCustomer: true,
			Priority:       msgPriority,
			Confidence:     confidence,
			CreatedAt:      m.timestamp,
		}
		if err := s.messages.Create(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}
