package core

import (
	"fmt"
	"strings"
	"time"
)

// Stage is one of the three wizard phases.
type Stage int

const (
	StageCapture Stage = iota // Type the raw prompt
	StageRefine               // Answer questions, curate variables
	StageFinalize             // Review, copy, export, save
)

func (s Stage) String() string {
	switch s {
	case StageCapture:
		return "capture"
	case StageRefine:
		return "refine"
	case StageFinalize:
		return "finalize"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// DeriveInterval throttles manual re-derivations (e.g. "refresh JSON") so
// repeated keypresses don't hammer the AI service.
const DeriveInterval = 3 * time.Second

var (
	// ErrRequestInFlight is returned when an analyze/enhance request is
	// already outstanding. Callers coalesce: the second request is ignored.
	ErrRequestInFlight = fmt.Errorf("request already in flight")

	// ErrReadOnly is returned for mutations on a viewer session.
	ErrReadOnly = fmt.Errorf("session is read-only")
)

// Session is the state of one wizard run: the canonical prompt text, the
// variable store, the clarifying questions, and the stage machine that
// decides what is editable and when external calls fire.
//
// Sessions are single-threaded: all mutation happens on the UI event loop.
// The correctness discipline for async responses is "stale response dropped,
// last write wins", enforced by a monotonically increasing request token.
type Session struct {
	RawText       string    // Stage 1 input
	Prompt        string    // Canonical prompt text with placeholder tokens
	Vars          *Store    // Variable records for this prompt
	Questions     []Question
	MasterCommand string
	Template      string // Selected system-prefix template
	Toggles       Toggles
	Warning       string // Last non-fatal failure, shown non-blocking

	stage    Stage
	readOnly bool

	loading    bool
	reqToken   uint64
	lastDerive time.Time

	now func() time.Time // Overridden in tests
}

// NewSession creates an empty session at the Capture stage.
func NewSession() *Session {
	return &Session{
		Vars: NewStore(),
		now:  time.Now,
	}
}

// NewViewerSession creates a read-only session for viewing a previously
// saved prompt. Only the Finalize stage is enterable.
func NewViewerSession(prompt string, vars []Variable, masterCommand string) *Session {
	s := NewSession()
	s.Prompt = prompt
	s.MasterCommand = masterCommand
	s.stage = StageFinalize
	s.readOnly = true
	for _, v := range vars {
		vc := v
		s.Vars.vars = append(s.Vars.vars, &vc)
		s.Vars.byID[vc.ID] = &vc
		s.Vars.seq++
	}
	return s
}

// Stage returns the current wizard stage.
func (s *Session) Stage() Stage { return s.stage }

// Loading reports whether an analyze/enhance request is outstanding.
func (s *Session) Loading() bool { return s.loading }

// ReadOnly reports whether this is a viewer session.
func (s *Session) ReadOnly() bool { return s.readOnly }

// ---- Stage transitions ----

// BeginAnalysis moves Capture -> Refine and reserves a request token for the
// asynchronous analyze call. The prompt text is seeded from the raw text so
// the Refine stage always has something to show while loading.
func (s *Session) BeginAnalysis() (uint64, error) {
	if s.readOnly {
		return 0, ErrReadOnly
	}
	if err := ValidatePromptText(s.RawText); err != nil {
		return 0, err
	}
	if s.loading {
		return 0, ErrRequestInFlight
	}

	s.reqToken++
	s.loading = true
	s.Warning = ""
	s.Prompt = s.RawText
	s.stage = StageRefine
	return s.reqToken, nil
}

// ApplyAnalysis installs an analysis response. Returns false without
// mutating state when the response is stale: superseded by a newer request,
// or arriving for a stage the user has navigated away from.
func (s *Session) ApplyAnalysis(token uint64, res *AnalysisResult) bool {
	if token != s.reqToken || !s.loading {
		return false
	}
	s.loading = false
	if s.stage != StageRefine {
		return false
	}

	s.Vars.ImportSeeds(res.Variables)
	s.Questions = s.filterPrefills(res.Questions)
	s.MasterCommand = res.MasterCommand
	if res.EnhancedPrompt != "" {
		s.Prompt = res.EnhancedPrompt
	}
	return true
}

// ApplyAnalysisFailure handles a failed analyze call: previously-good state
// stays untouched, a fixed default question set is installed so the user is
// never blocked, and a warning is surfaced.
func (s *Session) ApplyAnalysisFailure(token uint64) bool {
	if token != s.reqToken || !s.loading {
		return false
	}
	s.loading = false
	if s.stage != StageRefine {
		return false
	}

	if len(s.Questions) == 0 {
		s.Questions = DefaultQuestions()
	}
	if s.Vars.Len() == 0 {
		s.Vars.ImportSeeds(DefaultVariableSeeds())
	}
	s.Warning = "analysis unavailable - using default questions"
	return true
}

// BeginEnhancement reserves a request token for the asynchronous enhance
// call. The stage stays at Refine until the response (or its failure)
// arrives; both advance to Finalize so the user is never stranded loading.
func (s *Session) BeginEnhancement() (uint64, error) {
	if s.readOnly {
		return 0, ErrReadOnly
	}
	if s.stage != StageRefine {
		return 0, fmt.Errorf("enhancement starts from the refine stage, not %s", s.stage)
	}
	if s.loading {
		return 0, ErrRequestInFlight
	}

	s.reqToken++
	s.loading = true
	s.Warning = ""
	return s.reqToken, nil
}

// ApplyEnhancement installs the enhanced prompt and advances to Finalize.
// Stale responses are dropped. An empty enhancement is treated as a failure.
func (s *Session) ApplyEnhancement(token uint64, enhanced string) bool {
	if token != s.reqToken || !s.loading {
		return false
	}
	if strings.TrimSpace(enhanced) == "" {
		return s.ApplyEnhancementFailure(token)
	}
	s.loading = false
	if s.stage != StageRefine {
		return false
	}

	s.Prompt = enhanced
	s.stage = StageFinalize
	return true
}

// ApplyEnhancementFailure fails soft: the pre-enhancement text is kept, the
// stage still advances, and a visible warning is recorded.
func (s *Session) ApplyEnhancementFailure(token uint64) bool {
	if token != s.reqToken || !s.loading {
		return false
	}
	s.loading = false
	if s.stage != StageRefine {
		return false
	}

	s.stage = StageFinalize
	s.Warning = "enhancement unavailable - keeping your original prompt"
	return true
}

// GoTo navigates directly to a stage. Backward jumps are always allowed in a
// normal session; a viewer session only permits Finalize. An in-flight
// response for the departed stage will be dropped by the stage guard.
func (s *Session) GoTo(target Stage) error {
	if s.readOnly && target != StageFinalize {
		return ErrReadOnly
	}
	s.stage = target
	return nil
}

// Reset starts a new prompt: always allowed from Finalize, clears the
// variable store and prompt text. Request token is not reset so responses
// from the previous prompt can never land in the new one.
func (s *Session) Reset() error {
	if s.readOnly {
		return ErrReadOnly
	}
	s.RawText = ""
	s.Prompt = ""
	s.Vars = NewStore()
	s.Questions = nil
	s.MasterCommand = ""
	s.Warning = ""
	s.loading = false
	s.stage = StageCapture
	return nil
}

// ---- Prompt and variable mutations ----

// SetPromptText replaces the whole canonical prompt string (manual inline
// edit). Existing placeholder tokens survive verbatim; a token referencing
// an unknown id degrades to empty output at render time.
func (s *Session) SetPromptText(text string) error {
	if s.readOnly {
		return ErrReadOnly
	}
	s.Prompt = text
	return nil
}

// CreateVariable splices a placeholder over the rune range [start, end) of
// the prompt and creates a variable whose initial value is the selected
// text. The selection must not overlap an existing token.
func (s *Session) CreateVariable(start, end int, name, category string) (*Variable, error) {
	if s.readOnly {
		return nil, ErrReadOnly
	}
	runes := []rune(s.Prompt)
	if start < 0 || end < start || end > len(runes) {
		return nil, fmt.Errorf("invalid selection [%d, %d)", start, end)
	}
	selected := string(runes[start:end])
	if OverlapsToken(s.Prompt, start, end) {
		return nil, &ValidationError{Field: "selection", Message: "selection overlaps a placeholder"}
	}

	v, err := s.Vars.Create(name, selected, category)
	if err != nil {
		return nil, err
	}
	spliced, err := SplicePlaceholder(s.Prompt, start, end, v.ID)
	if err != nil {
		return nil, err
	}
	s.Prompt = spliced
	return v, nil
}

// RemoveVariable demotes a variable to irrelevant and restores its last
// known value in place of every one of its placeholders. The record is kept
// so removal is reversible.
func (s *Session) RemoveVariable(id string) error {
	if s.readOnly {
		return ErrReadOnly
	}
	v, ok := s.Vars.Get(id)
	if !ok {
		return fmt.Errorf("unknown variable id %s", id)
	}
	if err := s.Vars.SetRelevance(id, false); err != nil {
		return err
	}
	s.Prompt = RestoreLiteral(s.Prompt, id, v.Value)
	return nil
}

// AnswerQuestion records an answer. Answering clears the prefilled flag.
func (s *Session) AnswerQuestion(id, answer string) error {
	if s.readOnly {
		return ErrReadOnly
	}
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			s.Questions[i].Answer = answer
			s.Questions[i].Prefilled = false
			return nil
		}
	}
	return fmt.Errorf("unknown question id %s", id)
}

// AnsweredQuestions returns the questions with non-empty answers.
func (s *Session) AnsweredQuestions() []Question {
	var out []Question
	for _, q := range s.Questions {
		if strings.TrimSpace(q.Answer) != "" {
			out = append(out, q)
		}
	}
	return out
}

// ---- Derivation throttle ----

// CanDerive reports whether a manual re-derivation is allowed now.
func (s *Session) CanDerive() bool {
	return s.now().Sub(s.lastDerive) >= DeriveInterval
}

// MarkDerived records that a derivation just ran.
func (s *Session) MarkDerived() {
	s.lastDerive = s.now()
}

// filterPrefills drops prefilled answers whose originating context source
// was not active for this analysis. Prefills without a named source are
// kept. With several sources active, all their prefills display.
func (s *Session) filterPrefills(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		if q.Prefilled && q.Source != "" && !s.Toggles.Active(q.Source) {
			q.Answer = ""
			q.Prefilled = false
		}
		out[i] = q
	}
	return out
}

// ---- Failure fallbacks ----

// DefaultQuestions is the fixed question set substituted when analysis
// fails, so the wizard never blocks on the AI service.
func DefaultQuestions() []Question {
	return []Question{
		{ID: "default-1", Text: "Who is the intended audience for this prompt?"},
		{ID: "default-2", Text: "What tone or style should the response use?"},
		{ID: "default-3", Text: "What output format do you expect (list, essay, code, ...)?"},
		{ID: "default-4", Text: "Are there constraints the response must respect?"},
	}
}

// DefaultVariableSeeds is the fixed variable set substituted when analysis
// fails.
func DefaultVariableSeeds() []VariableSeed {
	return []VariableSeed{
		{Name: "Audience", Category: "Persona"},
		{Name: "Tone", Category: "Conditions"},
		{Name: "Format", Category: "Instructions"},
	}
}
