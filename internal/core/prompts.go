package core

import (
	"fmt"
	"strings"
)

// AnalyzeSystemPrompt is the system instruction for prompt analysis.
// It enforces JSON-only output with questions, variables, and a master command.
const AnalyzeSystemPrompt = `You are a prompt engineering assistant. You receive a rough prompt and output ONLY valid JSON. No explanations, no commentary, no markdown - just the JSON object.

CRITICAL: Output ONLY the JSON object. Do NOT explain what you're doing. Do NOT ask questions outside the JSON. Start your response with { and end with }.

You analyze a user's rough prompt and produce the material for refining it.

## OUTPUT STRUCTURE

{
  "questions": [
    {"id": "q1", "text": "...", "answer": "", "prefilled": false, "source": ""}
  ],
  "variables": [
    {"name": "Topic", "value": "", "category": "Task"}
  ],
  "master_command": "one-line imperative summary of what the final prompt should do"
}

## QUESTIONS

Generate 3-6 clarifying questions that would most improve the prompt:
- Missing audience, tone, format, length, or constraints
- Ambiguous references the model would have to guess at
- If supplementary context (image notes, website text, background) answers a
  question, prefill the answer, set "prefilled": true, and set "source" to
  the context kind that answered it: "image", "website", or "context".
- Leave "source" empty for answers inferred from the prompt alone.

## VARIABLES

Extract 2-6 named slots the user is likely to vary between uses:
- "name" is a 1-3 word label (e.g. "Target Audience", "Topic")
- "value" is the current value if the prompt states one, otherwise ""
- "category" is one of: Task, Persona, Conditions, Instructions - or a
  short custom label if none fits
- Do NOT emit the bare category names themselves as variables

## ANTI-PATTERNS TO AVOID

1. Questions the prompt already answers
2. Variables nobody would ever change (articles, verbs)
3. More than 6 of either - quality over quantity`

// EnhanceSystemPrompt is the system instruction for prompt enhancement.
const EnhanceSystemPrompt = `You are a prompt engineering assistant. You receive a rough prompt plus the user's answers and variables, and output ONLY valid JSON with one field:

{"enhanced_prompt": "the improved prompt text"}

## RULES

- Rewrite the prompt to be specific, well-structured, and self-contained.
- Work every answered question into the prompt naturally.
- PRESERVE placeholder tokens of the form {{value::<id>}} EXACTLY as they
  appear in the input - character for character. They are variable slots the
  user fills in later. Never expand, rename, or drop them.
- If a template is named, structure the prompt in that template's style
  (sections for Task, Persona, Conditions, Instructions where they apply).
- Keep the user's language and intent; improve clarity, not meaning.
- No commentary, no markdown fences - just the JSON object.`

// BuildAnalyzeUserPrompt renders the analyze user message.
func BuildAnalyzeUserPrompt(req AnalyzeRequest) string {
	var sb strings.Builder
	sb.WriteString("Analyze this prompt and return questions, variables, and a master command.\n\n")
	sb.WriteString("## PROMPT\n")
	sb.WriteString(req.PromptText)
	sb.WriteString("\n")

	if req.Toggles.UseImage && req.ImageNotes != "" {
		sb.WriteString("\n## ATTACHED IMAGE (notes)\n")
		sb.WriteString(req.ImageNotes)
		sb.WriteString("\n")
	}
	if req.Toggles.UseWebsite && req.WebsiteText != "" {
		sb.WriteString("\n## REFERENCE WEBSITE\n")
		sb.WriteString(req.WebsiteText)
		sb.WriteString("\n")
	}
	if req.Toggles.UseContext && req.ContextText != "" {
		sb.WriteString("\n## BACKGROUND CONTEXT\n")
		sb.WriteString(req.ContextText)
		sb.WriteString("\n")
	}

	sb.WriteString("\nReturn ONLY the JSON object with questions, variables, and master_command.")
	return sb.String()
}

// BuildEnhanceUserPrompt renders the enhance user message.
func BuildEnhanceUserPrompt(req EnhanceRequest) string {
	var sb strings.Builder
	sb.WriteString("Enhance this prompt using the answers and variables below.\n\n")
	sb.WriteString("## CURRENT PROMPT\n")
	sb.WriteString(req.PromptText)
	sb.WriteString("\n")

	if len(req.AnsweredQuestions) > 0 {
		sb.WriteString("\n## ANSWERED QUESTIONS\n")
		for _, q := range req.AnsweredQuestions {
			sb.WriteString(fmt.Sprintf("- %s -> %s\n", q.Text, q.Answer))
		}
	}

	if len(req.RelevantVariables) > 0 {
		sb.WriteString("\n## VARIABLES (placeholder tokens must survive verbatim)\n")
		for _, v := range req.RelevantVariables {
			sb.WriteString(fmt.Sprintf("- %s = %q (token %s)\n", v.Name, v.Value, PlaceholderToken(v.ID)))
		}
	}

	if req.Template != "" {
		sb.WriteString(fmt.Sprintf("\n## TEMPLATE\n%s\n", req.Template))
	}

	sb.WriteString("\nReturn ONLY the JSON object with enhanced_prompt.")
	return sb.String()
}
