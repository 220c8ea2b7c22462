package faq

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// Reply types returned by the engine.
const (
	TypeFAQMatch        = "faq_match"
	TypeGeneric         = "generic_response"
	TypeValidationError = "validation_error"
)

// faqThreshold is the minimum confidence for an FAQ answer to be used.
// Any topic overlap boosts confidence to at least 0.5, so the fallback
// fires only when no topic matches at all.
const faqThreshold = 0.3

// genericConfidence is the fixed confidence of fallback replies.
const genericConfidence = 0.4

// Reply is the engine's answer to a single user message.
type Reply struct {
	Response   string
	Confidence float64
	Type       string
}

// Engine matches user messages against the FAQ knowledge base. It is pure
// and stateless; a single instance is safe for concurrent use.
type Engine struct {
	topics []Topic
}

// NewEngine creates an Engine over the built-in knowledge base.
func NewEngine() *Engine {
	return &Engine{topics: topics}
}

// Normalize collapses whitespace, strips everything but alphanumerics,
// spaces, '.' and '?', and lowercases the result.
func Normalize(text string) string {
	fields := strings.Fields(text)
	joined := strings.Join(fields, " ")

	var sb strings.Builder
	sb.Grow(len(joined))
	for _, r := range joined {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '.' || r == '?' || r == '_' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(strings.ToLower(sb.String()))
}

// Keywords extracts significant tokens from normalized text: split on
// non-alphanumeric runes, drop stopwords and tokens of length <= 2,
// dedupe preserving order.
func Keywords(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool)
	var keywords []string
	for _, w := range words {
		if len(w) <= 2 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

// Match scores the text against every topic and returns the best one
// with its raw overlap score. A keyword matches a topic keyword when
// either contains the other. Score per topic is matched keywords over
// total keywords. ok is false when nothing scored above zero.
func (e *Engine) Match(text string) (Topic, float64, bool) {
	keywords := Keywords(text)

	var best Topic
	bestScore := 0.0
	found := false

	for _, topic := range e.topics {
		matches := 0
		for _, kw := range keywords {
			for _, tkw := range topic.Keywords {
				if strings.Contains(kw, tkw) || strings.Contains(tkw, kw) {
					matches++
					break
				}
			}
		}

		score := float64(matches) / float64(max(len(keywords), 1))
		if score > bestScore {
			bestScore = score
			best = topic
			found = true
		}
	}

	if !found {
		return Topic{}, 0, false
	}
	return best, bestScore, true
}

// Reply generates the answer for a raw user message: FAQ answer when a
// topic clears the threshold, otherwise a deterministic generic fallback.
// Messages that normalize to fewer than 2 characters get a validation
// error reply at confidence 0.
func (e *Engine) Reply(message string) Reply {
	if message == "" {
		return Reply{
			Response:   "Please provide a valid message.",
			Confidence: 0,
			Type:       TypeValidationError,
		}
	}

	cleaned := Normalize(message)
	if len(cleaned) < 2 {
		return Reply{
			Response:   "Your message is too short. Please provide more details.",
			Confidence: 0,
			Type:       TypeValidationError,
		}
	}

	if topic, score, ok := e.Match(cleaned); ok {
		if confidence := min(score+0.5, 1.0); confidence > faqThreshold {
			return Reply{
				Response:   topic.Answer,
				Confidence: confidence,
				Type:       TypeFAQMatch,
			}
		}
	}

	return Reply{
		Response:   genericResponses[genericIndex(cleaned)],
		Confidence: genericConfidence,
		Type:       TypeGeneric,
	}
}

// genericIndex hashes the normalized text so the same input always gets
// the same fallback reply.
func genericIndex(cleaned string) int {
	h := fnv.New32a()
	h.Write([]byte(cleaned))
	return int(h.Sum32() % uint32(len(genericResponses)))
}
