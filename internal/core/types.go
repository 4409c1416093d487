package core

// Question is a single clarifying question produced by prompt analysis.
// Answers feed the enhancement step alongside relevant variables.
type Question struct {
	ID        string `json:"id"`                  // Stable within a session
	Text      string `json:"text"`                // The question shown to the user
	Answer    string `json:"answer,omitempty"`    // User-supplied or prefilled answer
	Prefilled bool   `json:"prefilled,omitempty"` // Answer was suggested by analysis
	Source    string `json:"source,omitempty"`    // Context source that prefilled it (image/website/context)
}

// Toggles control which optional context sources feed analysis.
type Toggles struct {
	UseImage   bool `json:"use_image"`   // Include image notes
	UseWebsite bool `json:"use_website"` // Include scraped website text
	UseContext bool `json:"use_context"` // Include free-form context
}

// Active reports whether the named source is enabled.
func (t Toggles) Active(source string) bool {
	switch source {
	case "image":
		return t.UseImage
	case "website":
		return t.UseWebsite
	case "context":
		return t.UseContext
	}
	return false
}

// AnalyzeRequest is the input to the analysis service.
type AnalyzeRequest struct {
	PromptText  string  // The raw prompt typed by the user
	Toggles     Toggles // Which optional sources are active
	ImageNotes  string  // Optional description of an attached image
	WebsiteText string  // Optional text pulled from a reference website
	ContextText string  // Optional free-form background context
}

// VariableSeed is a variable candidate proposed by analysis, before the
// Store assigns it an id and code.
type VariableSeed struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Category string `json:"category"`
}

// AnalysisResult is what the analysis service returns.
type AnalysisResult struct {
	Questions      []Question     `json:"questions"`
	Variables      []VariableSeed `json:"variables"`
	MasterCommand  string         `json:"master_command,omitempty"`
	EnhancedPrompt string         `json:"enhanced_prompt,omitempty"` // Optional early draft
}

// EnhanceRequest is the input to the enhancement service.
type EnhanceRequest struct {
	PromptText        string     // Current prompt text (may contain placeholder tokens)
	AnsweredQuestions []Question // Questions with non-empty answers
	RelevantVariables []Variable // Variables with isRelevant == true
	Toggles           Toggles
	Template          string // System-prefix template name (optional)
}

// EnhanceResult is what the enhancement service returns.
type EnhanceResult struct {
	EnhancedPrompt string `json:"enhanced_prompt"`
}
