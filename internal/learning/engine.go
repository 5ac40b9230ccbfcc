package learning

import (
	"fmt"
	"strings"
)

// Engine derives analytics and learning context from the rated message
// history. Everything is computed on demand, never cached.
type Engine struct {
	messages *MessageStore
}

// NewEngine creates an Engine over the given message store.
func NewEngine(messages *MessageStore) *Engine {
	return &Engine{messages: messages}
}

// Stats computes feedback statistics over all rated messages in stored
// order.
func (e *Engine) Stats() Stats {
	return Compute(ratingsOf(e.messages.List()))
}

// Summary renders the learning context block injected into agent system
// prompts: a performance overview, example high and low rated responses
// and guidance lines. Empty when nothing has been rated yet.
func (e *Engine) Summary() string {
	rated := e.messages.List()
	if len(rated) == 0 {
		return ""
	}

	stats := Compute(ratingsOf(rated))

	trend := "stable"
	if stats.ImprovementRate > 0 {
		trend = "improving"
	} else if stats.ImprovementRate < 0 {
		trend = "declining"
	}

	var high, low []Message
	for _, m := range rated {
		if m.Rating >= 4 {
			high = append(high, m)
		}
		if m.Rating <= 2 {
			low = append(low, m)
		}
	}

	var b strings.Builder
	b.WriteString("LEARNING CONTEXT FROM USER FEEDBACK:\n")
	b.WriteString("==========================================\n\n")
	b.WriteString("Performance Overview:\n")
	fmt.Fprintf(&b, "- Total rated responses: %d\n", stats.TotalRatings)
	fmt.Fprintf(&b, "- Average rating: %.1f/5.0\n", stats.AverageRating)
	fmt.Fprintf(&b, "- Performance trend: %s (%.1f%%)\n\n", trend, stats.ImprovementRate)

	if len(high) > 0 {
		b.WriteString("Examples of HIGHLY RATED responses (4+ stars):\n")
		b.WriteString("---------------------------------------------\n")
		for i, m := range high[:min(3, len(high))] {
			fmt.Fprintf(&b, "%d. [Rating: %g/5] %s\n\n", i+1, m.Rating, preview(m.Content))
		}
	}

	if len(low) > 0 {
		b.WriteString("Examples of POORLY RATED responses (2 stars or less):\n")
		b.WriteString("----------------------------------------------------\n")
		for i, m := range low[:min(2, len(low))] {
			fmt.Fprintf(&b, "%d. [Rating: %g/5] %s\n\n", i+1, m.Rating, preview(m.Content))
		}
	}

	b.WriteString("LEARNING GUIDANCE:\n")
	b.WriteString("- Emulate the style and approach of highly rated responses\n")
	b.WriteString("- Avoid patterns found in poorly rated responses\n")
	b.WriteString("- Focus on being helpful, accurate, and comprehensive\n")
	b.WriteString("- Pay attention to user preferences shown through ratings\n\n")

	return b.String()
}

func ratingsOf(messages []Message) []float64 {
	ratings := make([]float64, 0, len(messages))
	for _, m := range messages {
		ratings = append(ratings, m.Rating)
	}
	return ratings
}

func preview(content string) string {
	if len(content) > 200 {
		return content[:200] + "..."
	}
	return content
}
