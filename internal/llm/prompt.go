package llm

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/contracts-tracker/constants"
)

var edgeCases = []string{
	"Obfuscated, redacted, or partially obscured text (e.g., blurred, watermarked, encoded, or with OCR errors).",
	"Poor quality inputs (e.g., low-resolution scans, faded text, typos, abbreviations, or incomplete content).",
	"Ambiguous or conflicting information (e.g., multiple similar fields, context-dependent meanings, or variations in terminology).",
	"Missing or absent details (report as null with no explanation in the JSON).",
	"Varied document structures (e.g., tables, lists, paragraphs, forms, non-linear layouts, or multilingual content).",
	"Large or truncated documents (focus on relevant sections; infer from available context).",
	"Non-text elements (e.g., interpret logos, signatures, or images if they contain extractable info).",
	"Potential errors in input (e.g., formatting artifacts, line breaks, extra noise, or rotated content).",
}

var steps = []string{
	`Analyze the entire document carefully. Identify key sections, headings, patterns, and synonyms (e.g., "Contract ID" could be "Agreement Number", "Ref #", or similar).`,
	"Match requested fields exhaustively using fuzzy matching for variations.",
	"Handle ambiguities: If multiple values exist, select the most relevant one based on context (e.g., prioritize explicit renewal dates over effective dates). If uncertain, use the first occurrence.",
	"Verify accuracy: Cross-reference details for consistency. Ignore inconsistencies unless they directly affect a field.",
	`For dates: Normalize to YYYY-MM-DD. If only month/year, assume day 01. If relative (e.g., "one year from now"), calculate based on document dates or current date if provided.`,
	"Output strictly as valid JSON: Only the object, no additional text, explanations, or wrappers. Use null for not found or unextractable fields.",
}

var rules = []string{
	"If a field is not found or cannot be confidently extracted due to edge cases, use null.",
	"Be precise: Extract exact values, but clean minor formatting issues (e.g., remove extra spaces).",
	"If multiple dates are present, prioritize the renewal/expiration/continuation date; fall back to effective date if none.",
	`For names and emails, handle variations like "Customer: Alexandra Reed" or embedded in signatures.`,
	"Do not fabricate information; stick to the document content.",
}

// BuildExtractionPrompt renders the contract extraction instructions around
// the document text. It is pure: identical inputs give identical output.
func BuildExtractionPrompt(documentText, fileName string) string {
	var b strings.Builder

	b.WriteString("You are an expert document extraction AI specialized in contracts. ")
	b.WriteString("Your task is to extract specific details from any provided document, regardless of its format, structure, or quality. ")
	b.WriteString("Handle all edge cases gracefully, including but not limited to:\n\n")
	for _, c := range edgeCases {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}

	b.WriteString("\nAlways follow these steps:\n")
	writeNumbered(&b, steps)

	b.WriteString("\nContract Text:\n")
	b.WriteString(documentText)
	b.WriteString("\n\nExtract and return ONLY the following fields in valid JSON format:\n\n{\n")
	fields := constants.Fields()
	for i, f := range fields {
		fmt.Fprintf(&b, "  %q: %q", string(f), f.Description())
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n\nAdditional Rules:\n")
	writeNumbered(&b, rules)

	b.WriteString("\nFile: ")
	b.WriteString(fileName)
	b.WriteString("\n")
	return b.String()
}

func writeNumbered(b *strings.Builder, items []string) {
	for i, s := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, s)
	}
}
