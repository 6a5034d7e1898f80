package llm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
)

// BuildAnalysisPrompt composes the document-analysis instruction. The model
// must return only one JSON object; anything around it is handled by
// ExtractJSONObject.
func BuildAnalysisPrompt(text string, pageCount int) string {
	parts := []string{
		"You are a legal document analyst reviewing a contract on behalf of the signing party.",
		"Identify risks, vague obligations, and clauses that favor the counterparty.",
		"Explain each section in plain language a non-lawyer can follow.",
		"Suggest concrete protections the signing party should ask for.",
		fmt.Sprintf("The document has %d page(s). For each page, write a short one-line summary.", pageCount),
		"Return ONLY a single JSON object with exactly these fields:",
		`"summary" (string), "clauses" (array of strings), "risks" (array of strings), "suggestions" (array of strings), "pageMetadata" (object mapping page number strings to short page summaries).`,
		"Do not include any text before or after the JSON object.",
		"",
		"Document text:",
		text,
	}
	return strings.Join(parts, "\n")
}

// BuildChatPrompt composes the grounded QA instruction: the question, the
// lexically matched page summaries, and the (truncated) full text.
func BuildChatPrompt(query, groundingContext, fullText string) string {
	if groundingContext == "" {
		groundingContext = "None detected."
	}
	parts := []string{
		"You are answering a question about a legal document on behalf of its reader.",
		"Answer in plain professional language without markdown formatting.",
		"Quote matched passages verbatim with page citations when applicable.",
		"If an answer requires an assumption, state the assumption explicitly.",
		"",
		"Question: " + query,
		"",
		"Relevant page summaries:",
		groundingContext,
		"",
		"Full document text:",
		fullText,
	}
	return strings.Join(parts, "\n")
}

// BuildAssistPrompt composes the non-grounded consultation instruction with
// prior turns joined as plain context.
func BuildAssistPrompt(query string, history []models.ChatTurn) string {
	parts := []string{
		"You are a legal information assistant. Answer in plain professional language without markdown formatting.",
		"You do not give formal legal advice; recommend consulting a lawyer for binding decisions.",
	}

	if len(history) > 0 {
		parts = append(parts, "", "Conversation so far:")
		for _, turn := range history {
			parts = append(parts, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
		}
	}

	parts = append(parts, "", "Question: "+query)
	return strings.Join(parts, "\n")
}

// BuildGroundingContext joins matched page summaries as "Page {n}: {summary}"
// lines in ascending page order. Metadata keys are resolved by their trimmed
// numeric value, the same way the page pre-filter reads them.
func BuildGroundingContext(pages []int, pageMetadata map[string]string) string {
	summaries := make(map[int]string, len(pageMetadata))
	for key, summary := range pageMetadata {
		if n, err := strconv.Atoi(strings.TrimSpace(key)); err == nil {
			summaries[n] = summary
		}
	}

	sorted := append([]int(nil), pages...)
	sort.Ints(sorted)

	lines := make([]string, 0, len(sorted))
	for _, n := range sorted {
		lines = append(lines, fmt.Sprintf("Page %d: %s", n, summaries[n]))
	}
	return strings.Join(lines, "\n")
}
