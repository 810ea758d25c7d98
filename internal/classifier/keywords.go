package classifier

// Keyword tiers for priority detection. Matching is case-insensitive
// substring matching; tiers are evaluated independently, so a phrase may
// match inside a longer phrase ("loan" inside "loan rejection").
// The tables and weights are hand-tuned constants. Changing an entry or
// the precedence of the tiers changes classification outcomes.

var urgentKeywords = []string{
	// Loan-related urgent terms
	"loan approval", "loan disbursement", "disburse", "disbursed", "when will my loan",
	"loan status", "waiting for loan", "need loan urgently", "urgent loan",
	"loan pending", "loan delay", "delayed loan", "loan rejection", "rejected loan",
	"appeal", "reapply",

	// Account access issues
	"cannot login", "can't login", "locked out", "account blocked", "suspended",
	"frozen account", "cannot access", "can't access", "password reset", "otp not received",
	"verification failed",

	// Financial distress
	"emergency", "urgent", "asap", "immediately", "right now", "desperate",
	"need money", "financial emergency", "medical emergency", "hospital",

	// Payment issues
	"payment failed", "transaction failed", "money deducted", "double charged",
	"wrong amount", "refund", "reversal", "missing payment", "payment stuck",

	// Fraud/Security
	"fraud", "scam", "hacked", "unauthorized", "stolen", "suspicious activity",
	"security breach", "identity theft",

	// Deadline related
	"deadline", "due date", "overdue", "late fee", "penalty", "expires today",
	"last day",
}

// urgentOverrides force an URGENT classification on a single match,
// regardless of how many other tier keywords are present.
var urgentOverrides = []string{"emergency", "fraud", "scam", "hacked", "urgent"}

var highKeywords = []string{
	// Loan inquiries
	"loan", "borrow", "credit", "emi", "repayment", "interest rate",
	"loan amount", "eligibility", "apply for loan",

	// Account issues
	"account problem", "update details", "change phone", "change email",
	"kyc", "verification", "document upload",

	// Payment related
	"payment", "transfer", "send money", "receive money", "transaction",
	"balance", "statement",

	// Complaints
	"complaint", "issue", "problem", "not working", "error", "bug", "glitch",
	"disappointed", "frustrated", "angry", "unhappy",
}

var mediumKeywords = []string{
	// General inquiries
	"how to", "help", "guide", "tutorial", "information", "details",
	"question", "query", "inquiry",

	// Feature related
	"feature", "option", "setting", "preference", "notification",

	// Account management
	"profile", "update", "change", "modify",
}

var lowKeywords = []string{
	// Feedback
	"feedback", "suggestion", "recommend", "improve",
	"thank you", "thanks", "appreciate", "great service",
	"good", "excellent", "wonderful",

	// General
	"hi", "hello", "hey", "good morning", "good evening",
}

// Word lists for sentiment analysis.
var positiveWords = []string{
	"thank", "thanks", "appreciate", "great", "excellent", "wonderful",
	"good", "happy", "satisfied", "helpful", "amazing", "love",
}

var negativeWords = []string{
	"angry", "frustrated", "disappointed", "upset", "terrible", "worst",
	"horrible", "hate", "annoying", "useless", "pathetic", "disgusting",
}

var urgencyWords = []string{
	"urgent", "asap", "immediately", "emergency", "desperate", "help",
}
