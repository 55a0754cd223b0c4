// Package intent implements a deterministic rule-based classifier that
// maps a user message onto a fixed set of shopping intents and extracts
// entities such as product names, colors, and price bounds.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent labels, in evaluation order. When two intents score equally,
// the one defined first wins.
const (
	IntentSearchProduct   = "search_product"
	IntentAskPrice        = "ask_price"
	IntentAskStock        = "ask_stock"
	IntentOrderQuery      = "order_query"
	IntentReturnRefund    = "return_refund"
	IntentAskUsage        = "ask_usage"
	IntentCompare         = "compare"
	IntentComplaint       = "complaint"
	IntentGeneralInquiry  = "general_inquiry"
	IntentConfirmPurchase = "confirm_purchase"
	IntentConfirmReturn   = "confirm_return"
)

// fallbackConfidence is reported when no pattern matches at all.
const fallbackConfidence = 0.5

// HistoryTurn is the slice of conversation history the classifier needs:
// who said what. Roles are "user" and "assistant".
type HistoryTurn struct {
	Role    string
	Content string
}

// Result is a single classification outcome.
type Result struct {
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   map[string]any `json:"entities"`
}

// intentRule pairs an intent label with the patterns that vote for it.
// The score of an intent is the number of its patterns that match, not
// just whether any of them does.
type intentRule struct {
	label    string
	patterns []*regexp.Regexp
}

// entityRule pairs an entity type with its extraction pattern.
type entityRule struct {
	name    string
	pattern *regexp.Regexp
}

var intentRules = []intentRule{
	{IntentSearchProduct, compileAll(
		`looking for|search|find|recommend|want to buy|show me`,
		`any good|suggest|which .*(should|would) i`,
	)},
	{IntentAskPrice, compileAll(
		`how much|price|cost|expensive|cheap`,
		`pricing|fees?\b`,
	)},
	{IntentAskStock, compileAll(
		`in stock|stock|availab|can i (still )?buy`,
		`when .*(restock|back in)`,
	)},
	{IntentOrderQuery, compileAll(
		`\border\b|tracking|shipping|delivery|package`,
		`when .*arrive|track my`,
	)},
	{IntentReturnRefund, compileAll(
		`return|refund|exchange|don't want`,
		`quality (issue|problem)|not satisfied|defective`,
	)},
	{IntentAskUsage, compileAll(
		`how to use|instructions|manual|tutorial`,
		`how (do|can) i\b`,
	)},
	{IntentCompare, compileAll(
		`compare|comparison|difference|versus|\bvs\b`,
		`which (one )?is (better|best)`,
	)},
	{IntentComplaint, compileAll(
		`complain|complaint|awful|terrible|scam`,
		`(bad|poor|rude) (service|attitude)`,
	)},
}

var entityRules = []entityRule{
	{"product_name", regexp.MustCompile(`(?i)\b(iPhone|MacBook|AirPods|iPad|Kindle|PlayStation|Nike|Adidas|Dyson)\b`)},
	{"color", regexp.MustCompile(`(?i)\b(red|blue|black|white|gold|silver|pink|green)\b`)},
	{"size", regexp.MustCompile(`\b(XS|S|M|L|XL|XXL)\b`)},
	{"price_range", regexp.MustCompile(`(?i)(\d+)\s*(?:to|and|through|-)\s*\$?(\d+)|\$?(\d+)\s*(?:or|and)\s*(?:less|below|under)|\$?(\d+)\s*(?:or|and)\s*(?:more|above|over)`)},
	{"order_number", regexp.MustCompile(`(?i)order\s*(?:number|no\.?|#)\s*:?\s*([A-Z0-9]{10,})`)},
}

// confirmationWords signal the user is agreeing with the assistant's
// previous suggestion.
var confirmationWords = []string{"yes", "yeah", "yep", "sure", "ok", "okay", "correct", "go ahead", "please do"}

var (
	purchaseCue = regexp.MustCompile(`purchase|buy|place (the |an )?order|checkout`)
	returnCue   = regexp.MustCompile(`return|refund`)
	belowCue    = regexp.MustCompile(`(?i)below|under|less`)
	aboveCue    = regexp.MustCompile(`(?i)above|over|more`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// Classifier evaluates the static rule tables. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify determines the intent of message, extracts entities, and
// applies the confirmation override against recent history. It never
// fails: any internal fault degrades to the fallback intent with zero
// confidence and no entities.
func (c *Classifier) Classify(message string, history []HistoryTurn) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Intent:     IntentGeneralInquiry,
				Confidence: 0,
				Entities:   map[string]any{},
			}
		}
	}()

	label, confidence := c.classifyIntent(message)
	entities := c.extractEntities(message)

	if len(history) > 0 {
		if override := c.inferFromContext(message, history); override != "" {
			label = override
		}
	}

	return Result{
		Intent:     label,
		Confidence: confidence,
		Entities:   entities,
	}
}

// classifyIntent scores every intent against the lowercased message and
// picks the best one. Ties resolve to the intent defined first.
func (c *Classifier) classifyIntent(message string) (string, float64) {
	lower := strings.ToLower(message)

	bestLabel := ""
	bestScore := 0
	for _, rule := range intentRules {
		score := 0
		for _, pattern := range rule.patterns {
			if pattern.MatchString(lower) {
				score++
			}
		}
		if score > bestScore {
			bestLabel = rule.label
			bestScore = score
		}
	}

	if bestScore == 0 {
		return IntentGeneralInquiry, fallbackConfidence
	}

	confidence := float64(bestScore)*0.3 + 0.4
	if confidence > 1.0 {
		confidence = 1.0
	}
	return bestLabel, confidence
}

// extractEntities runs every entity rule against the original-case
// message. The price-range rule emits numeric bounds instead of the
// raw capture.
func (c *Classifier) extractEntities(message string) map[string]any {
	entities := make(map[string]any)

	for _, rule := range entityRules {
		match := rule.pattern.FindStringSubmatch(message)
		if match == nil {
			continue
		}

		if rule.name == "price_range" {
			c.extractPriceRange(message, match[1:], entities)
			continue
		}

		for _, group := range match[1:] {
			if group != "" {
				entities[rule.name] = group
				break
			}
		}
	}

	return entities
}

// extractPriceRange interprets the captured numeric groups. Two groups
// give explicit bounds; a single group becomes an upper bound when the
// message reads "or below" and a lower bound when it reads "or above".
func (c *Classifier) extractPriceRange(message string, groups []string, entities map[string]any) {
	var numbers []int
	for _, g := range groups {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}

	switch {
	case len(numbers) >= 2:
		entities["min_price"] = numbers[0]
		entities["max_price"] = numbers[1]
	case len(numbers) == 1:
		if belowCue.MatchString(message) {
			entities["max_price"] = numbers[0]
		} else if aboveCue.MatchString(message) {
			entities["min_price"] = numbers[0]
		}
	}
}

// inferFromContext detects a confirmation of the assistant's previous
// suggestion. When the user agrees, the intent follows whatever the
// assistant last proposed: a purchase or a return.
func (c *Classifier) inferFromContext(message string, history []HistoryTurn) string {
	lower := strings.ToLower(message)
	confirmed := false
	for _, word := range confirmationWords {
		if strings.Contains(lower, word) {
			confirmed = true
			break
		}
	}
	if !confirmed {
		return ""
	}

	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != "assistant" {
			continue
		}
		content := strings.ToLower(history[i].Content)
		if purchaseCue.MatchString(content) {
			return IntentConfirmPurchase
		}
		if returnCue.MatchString(content) {
			return IntentConfirmReturn
		}
		break
	}
	return ""
}
