package assist

import (
	"fmt"
	"strings"

	"bayassist/models"
)

// BuildSystemInstructions composes the system prompt for one assist run.
// Trigger hints ride along as advisory text; the model owns function choice.
func BuildSystemInstructions(catalog *Catalog, bundle *models.ContextBundle) string {
	var sb strings.Builder

	sb.WriteString("You are an assistant helping the staff of an indoor golf bay venue answer customer chat messages. ")
	sb.WriteString("Customers write in Thai or English; answer in the customer's language. ")
	sb.WriteString("Your reply is a draft for staff review and is never sent automatically.\n\n")

	sb.WriteString("Rules:\n")
	sb.WriteString("- Use the knowledge entries below when they answer the question; do not invent venue facts.\n")
	sb.WriteString("- Call at most one function per turn, and only when the message clearly warrants it.\n")
	sb.WriteString("- Never claim a booking was made unless a function call succeeded.\n")
	sb.WriteString("- If a function fails, apologize briefly and offer an alternative rather than relaying the raw error.\n\n")

	if hints := catalog.TriggerHintText(); hints != "" {
		sb.WriteString("When to use each function:\n")
		sb.WriteString(hints)
		sb.WriteString("\n")
	}

	if bundle.Customer != nil {
		sb.WriteString("Customer context:\n")
		if bundle.Customer.DisplayName != "" {
			fmt.Fprintf(&sb, "- Name: %s\n", bundle.Customer.DisplayName)
		}
		fmt.Fprintf(&sb, "- Reference: %s\n", bundle.Customer.CustomerRef)
		if rb := bundle.Customer.RecentBooking; rb != nil {
			fmt.Fprintf(&sb, "- Most recent booking: %s on %s %s-%s (%s)\n",
				rb.ID, rb.Date, rb.StartTime, rb.EndTime, rb.Status)
		}
		sb.WriteString("\n")
	}

	if len(bundle.KnowledgeMatches) > 0 {
		sb.WriteString("Relevant knowledge entries:\n")
		for _, m := range bundle.KnowledgeMatches {
			question := ""
			for _, q := range m.Entry.QuestionsByLanguage {
				if q != "" {
					question = q
					break
				}
			}
			fmt.Fprintf(&sb, "- [%s] Q: %s A: %s\n", m.Entry.Category, question, m.Entry.Answer)
		}
	}

	return sb.String()
}

// SummarizeContext produces the short human-readable context summary returned
// to the staff UI alongside the suggestion.
func SummarizeContext(bundle *models.ContextBundle) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d prior messages", len(bundle.History)))
	if bundle.Customer != nil {
		if bundle.Customer.RecentBooking != nil {
			parts = append(parts, fmt.Sprintf("known customer %s with booking %s",
				bundle.Customer.CustomerRef, bundle.Customer.RecentBooking.ID))
		} else {
			parts = append(parts, "known customer "+bundle.Customer.CustomerRef)
		}
	}
	if len(bundle.KnowledgeMatches) > 0 {
		names := make([]string, 0, len(bundle.KnowledgeMatches))
		for _, m := range bundle.KnowledgeMatches {
			names = append(names, fmt.Sprintf("%s (%.2f)", m.Entry.Category, m.Score))
		}
		parts = append(parts, "knowledge: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "; ")
}
