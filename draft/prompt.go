// Package draft builds generation prompts from a session's answers, sends them
// to exactly one LLM provider and classifies provider failures.
package draft

import (
	"fmt"
	"strings"
)

// Format is the kind of prose to produce.
type Format string

const (
	FormatAcademic Format = "academic"
	FormatBlog     Format = "blog"
	FormatPersonal Format = "personal"
	FormatCustom   Format = "custom"
)

// Formats lists the formats in display order.
var Formats = []Format{FormatAcademic, FormatBlog, FormatPersonal, FormatCustom}

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	switch f {
	case FormatAcademic, FormatBlog, FormatPersonal, FormatCustom:
		return true
	}
	return false
}

// Pair is one question with the transcript used as its answer.
type Pair struct {
	Question string `json:"questionText"`
	Response string `json:"transcription"`
}

// Settings are the optional advanced settings. Zero values are omitted from
// the prompt.
type Settings struct {
	// Length is the target length in words.
	Length             int    `json:"length,omitempty"`
	Tone               string `json:"tone,omitempty"`
	Audience           string `json:"audience,omitempty"`
	CustomInstructions string `json:"customInstructions,omitempty"`
}

const (
	maxTokenBudget = 4000
)

// TokenBudget returns the output token cap for a requested length.
func TokenBudget(length int) int {
	if length <= 0 {
		return maxTokenBudget
	}
	return min(maxTokenBudget, length*2)
}

func formatDescription(format Format, custom string) string {
	switch format {
	case FormatAcademic:
		return "an academic essay with proper citations and formal language"
	case FormatBlog:
		return "a blog post with engaging, conversational tone and clear sections"
	case FormatPersonal:
		return "a personal reflection that maintains an introspective and authentic voice"
	}
	if custom = strings.TrimSpace(custom); custom != "" {
		return custom
	}
	return "a well-structured piece"
}

// BuildPrompt renders the prompt for the given answers. It is a pure
// function: identical inputs yield identical output.
func BuildPrompt(pairs []Pair, format Format, customFormat string, settings Settings) string {
	blocks := make([]string, 0, len(pairs))
	for _, p := range pairs {
		blocks = append(blocks, fmt.Sprintf("Question: %s\nResponse: %s", p.Question, p.Response))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on the following responses to questions, create %s. ", formatDescription(format, customFormat))
	sb.WriteString("Maintain the original ideas and insights while improving the structure and flow.\n\n")
	sb.WriteString(strings.Join(blocks, "\n\n"))
	sb.WriteString("\n\nGuidelines:\n")
	sb.WriteString("1. Organize the content logically and maintain a coherent narrative\n")
	sb.WriteString("2. Preserve the personal voice and key insights from the responses\n")
	sb.WriteString("3. Expand on important points while maintaining clarity")

	if settings.Length > 0 {
		fmt.Fprintf(&sb, "\n4. Target length: approximately %d words", settings.Length)
	}
	if tone := strings.TrimSpace(settings.Tone); tone != "" {
		fmt.Fprintf(&sb, "\n5. Maintain a %s tone throughout", tone)
	}
	if audience := strings.TrimSpace(settings.Audience); audience != "" {
		fmt.Fprintf(&sb, "\n6. Write for %s", audience)
	}
	if extra := strings.TrimSpace(settings.CustomInstructions); extra != "" {
		fmt.Fprintf(&sb, "\n\nAdditional Instructions:\n%s", extra)
	}
	return sb.String()
}
