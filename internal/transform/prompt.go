package transform

import (
	"strings"

	"github.com/dgallion1/doctransform/internal/config"
)

const PunctuatePrompt = `Add punctuation marks to the text.

Guidelines:
- Insert commas, periods, question marks, exclamation points, colons, semicolons, quotation marks and dashes according to the grammar of the text's language.
- Do NOT change wording, spelling, capitalization or sentence structure. Only add or adjust punctuation and the spacing that punctuation requires.
- Keep every line break exactly where it is.
- The text contains sentence numbers in double quotes such as "1". Leave them out of your answer.

Output:
- Provide ONLY the punctuated text. No explanations or comments.`

const SplitPrompt = `Divide the text into topics.

Topic naming:
- Use broad, descriptive titles that capture the essence of each thematic cluster.
- Prefer names that could cover several detailed points over narrow labels.
- Write topic names in the same language as the input text.

Notes:
- Every sentence starts with its number in double quotes, for example "12".
- A topic should cover a paragraph or a coherent block of sentences. Do NOT create a topic for every sentence.
- Generate at least 1 and no more than 5 topics.
- The topic name will be placed before the sentence number where that topic starts.

Output format (one topic per line):
<sentence number where the topic starts>: <Topic name>

Output example:
1: Cars
15: Planes
23: Ships`

const SummarizePrompt = `Create a short summary of the text.
The summary must be plain text only. Remove all headings.`

const CosmeticPrompt = `You are a careful copy editor. Perform a light cosmetic cleanup of the input text.

Your tasks:
1) Spelling: fix typos and obvious spelling mistakes.
2) Proper names: make sure brands, games, people and places are spelled in their official form.
3) Duplicates: remove accidental word or text duplications.
4) Punctuation: a light check of commas, periods, dashes, quotation marks and spacing. Do not restructure sentences.
5) Dictionary: if a dictionary is provided, strictly apply its mappings (key -> value) to normalize words and terms.

Rules:
- Do not change the meaning or tone of the text.
- Do not rewrite or paraphrase sentences.
- Preserve all line breaks.
- Do not add comments or explanations to the output.
- If you are unsure about a word, leave it exactly as it is.

Dictionary:`

// Prompts holds the system prompt of each feature.
type Prompts struct {
	Punctuate string
	Split     string
	Summarize string
	Cosmetic  string
}

// DefaultPrompts returns the built-in prompts.
func DefaultPrompts() Prompts {
	return Prompts{
		Punctuate: PunctuatePrompt,
		Split:     SplitPrompt,
		Summarize: SummarizePrompt,
		Cosmetic:  CosmeticPrompt,
	}
}

// PromptsFrom applies the prompt overrides in cfg to the defaults and appends
// the cosmetic dictionary to the cosmetic prompt.
func PromptsFrom(cfg config.Config) Prompts {
	p := DefaultPrompts()
	if cfg.Punctuate.Prompt != "" {
		p.Punctuate = cfg.Punctuate.Prompt
	}
	if cfg.Split.Prompt != "" {
		p.Split = cfg.Split.Prompt
	}
	if cfg.Summarize.Prompt != "" {
		p.Summarize = cfg.Summarize.Prompt
	}
	if cfg.Cosmetic.Prompt != "" {
		p.Cosmetic = cfg.Cosmetic.Prompt
	}
	p.Cosmetic = WithDictionary(p.Cosmetic, cfg.CosmeticDictionary)
	return p
}

// WithDictionary appends one "key: value" line per entry to prompt. Entries
// with an empty key are skipped.
func WithDictionary(prompt string, dict []config.DictEntry) string {
	var sb strings.Builder
	sb.WriteString(prompt)
	for _, e := range dict {
		key := strings.TrimSpace(e.Key)
		if key == "" {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(e.Value))
	}
	return sb.String()
}
