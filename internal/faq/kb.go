package faq

// Topic is one fixed FAQ category: a canned answer plus the keywords that
// select it.
type Topic struct {
	Name     string
	Answer   string
	Keywords []string
}

// topics is the knowledge base. Order matters: when two topics score
// equally, the earlier one wins.
var topics = []Topic{
	{
		Name:     "hours",
		Answer:   "Our business hours are Monday-Friday, 9 AM - 6 PM EST. Weekends: Closed.",
		Keywords: []string{"hours", "open", "close", "time", "available"},
	},
	{
		Name:     "shipping",
		Answer:   "Standard shipping takes 5-7 business days. Express shipping available in 2-3 days.",
		Keywords: []string{"ship", "delivery", "deliver", "send", "arrive"},
	},
	{
		Name:     "returns",
		Answer:   "We accept returns within 30 days of purchase. Item must be unused and in original packaging.",
		Keywords: []string{"return", "refund", "exchange", "back"},
	},
	{
		Name:     "payment",
		Answer:   "We accept all major credit cards, PayPal, and Apple Pay.",
		Keywords: []string{"pay", "card", "payment", "method", "accept"},
	},
	{
		Name:     "account",
		Answer:   "You can reset your password on the login page using 'Forgot Password' option.",
		Keywords: []string{"account", "password", "login", "reset"},
	},
	{
		Name:     "contact",
		Answer:   "You can reach our support team at support@example.com or call 1-800-SUPPORT.",
		Keywords: []string{"contact", "support", "help", "call", "email"},
	},
	{
		Name:     "tracking",
		Answer:   "Enter your order number at checkout to track your shipment in real-time.",
		Keywords: []string{"track", "order", "where", "status"},
	},
	{
		Name:     "price",
		Answer:   "We offer competitive pricing and regular discounts. Subscribe to our newsletter for deals.",
		Keywords: []string{"price", "cost", "cheap", "discount", "sale"},
	},
	{
		Name:     "products",
		Answer:   "Browse our full catalog at our website or contact support for personalized recommendations.",
		Keywords: []string{"product", "item", "catalog", "recommend"},
	},
	{
		Name:     "security",
		Answer:   "Your data is encrypted with 256-bit SSL security. We never share personal information.",
		Keywords: []string{"secure", "safe", "encrypt", "privacy"},
	},
}

// genericResponses are the fallback replies used when no FAQ topic clears
// the confidence threshold. Selection is deterministic per input.
var genericResponses = [4]string{
	"Thank you for reaching out! How can I assist you further?",
	"I understand your inquiry. Could you provide more details?",
	"That's a great question! Our support team can help with that.",
	"Thank you for your interest. Is there anything specific I can help with?",
}

// Topics returns the knowledge base in match-priority order.
func Topics() []Topic {
	return topics
}
