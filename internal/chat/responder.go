package chat

import (
	"strings"
	"unicode"
)

// cannedReply pairs keywords with the scripted answer served when any of them
// appear in the visitor's message. Order matters: first match wins.
type cannedReply struct {
	keywords []string
	answer   string
}

var cannedReplies = []cannedReply{
	{
		keywords: []string{"hello", "hi"},
		answer:   "Hello! How can I help you with your shopping today?",
	},
	{
		keywords: []string{"help"},
		answer:   "I'd be happy to help! You can ask me about products, shipping, returns, or any other questions you have.",
	},
	{
		keywords: []string{"shipping", "delivery"},
		answer:   "We offer standard shipping (3-5 business days) and express shipping (1-2 business days). Free shipping on orders over $50!",
	},
	{
		keywords: []string{"return", "refund"},
		answer:   "Our return policy allows returns within 30 days of purchase. Just visit your order history to start a return.",
	},
	{
		keywords: []string{"payment", "pay"},
		answer:   "We accept all major credit cards, PayPal, and Apple Pay.",
	},
	{
		keywords: []string{"track", "order status"},
		answer:   "You can track your order in the 'My Orders' section of your account.",
	},
}

const fallbackReply = "I'm not sure I understand. Could you please rephrase your question?"

// Reply picks the scripted answer for a visitor message. Single-word keywords
// match on word prefix so "returns" still hits "return"; a plain substring
// match would make "shipping" trigger the "hi" greeting. Multi-word keywords
// match as phrases.
func Reply(message string) string {
	lowered := strings.ToLower(message)
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, canned := range cannedReplies {
		for _, keyword := range canned.keywords {
			if strings.Contains(keyword, " ") {
				if strings.Contains(lowered, keyword) {
					return canned.answer
				}
				continue
			}
			for _, word := range words {
				if strings.HasPrefix(word, keyword) {
					return canned.answer
				}
			}
		}
	}
	return fallbackReply
}
