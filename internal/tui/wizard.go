package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhabedank/promptsmith/internal/core"
	"github.com/dhabedank/promptsmith/internal/library"
	"github.com/dhabedank/promptsmith/internal/llm"
)

// clipboardWrite is swappable for tests.
var clipboardWrite = clipboard.WriteAll

// llmTimeout bounds each analysis and enhancement call. A stuck backend
// surfaces as an error message instead of leaving the spinner up forever.
var llmTimeout = 2 * time.Minute

// Options configures a wizard run.
type Options struct {
	Adapter llm.Adapter
	Config  llm.Config

	// Store is the prompt library. Nil disables save/draft features.
	Store  *library.Store
	UserID string

	// InitialText pre-fills the capture textarea (e.g. a restored draft).
	InitialText string

	// Template is the system-prefix template name, if any.
	Template string

	// Optional analysis context. Toggles decide which of these feed the
	// analysis request.
	Toggles     core.Toggles
	ImageNotes  string
	WebsiteText string
	ContextText string

	// Viewer, when set, opens the wizard in read-only mode on a saved
	// prompt instead of starting a new session.
	Viewer *library.SavedPrompt
}

// refine-stage input modes
type refineMode int

const (
	modeBrowse refineMode = iota
	modeAnswer
	modeVarSelect
	modeVarName
	modeVarCategory
	modeVarValue
	modeSaveTitle
)

type rowKind int

const (
	rowQuestion rowKind = iota
	rowVariable
)

// refineRow is one selectable line in the refine view.
type refineRow struct {
	kind  rowKind
	qIdx  int    // index into session.Questions
	varID string // set for variable rows
}

// Wizard is the Bubble Tea model for the three-stage prompt wizard.
type Wizard struct {
	session *core.Session
	opts    Options

	textarea textarea.Model
	input    textinput.Model
	spinner  spinner.Model

	cursor int
	mode   refineMode

	// pending variable creation state
	pendingSelection string
	pendingName      string

	// cached projection JSON for the finalize preview
	projectionJSON string

	status   string
	errMsg   string
	width    int
	height   int
	quitting bool
}

// async result messages
type analysisMsg struct {
	token  uint64
	result *core.AnalysisResult
	err    error
}

type enhanceMsg struct {
	token  uint64
	result *core.EnhanceResult
	err    error
}

type clipboardMsg struct{ err error }

type saveMsg struct {
	id  string
	err error
}

type exportMsg struct {
	path string
	err  error
}

type draftMsg struct{ err error }

// NewWizard creates the wizard model.
func NewWizard(opts Options) *Wizard {
	ta := textarea.New()
	ta.Placeholder = "Describe what you want the prompt to do..."
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(10)
	ta.Focus()
	if opts.InitialText != "" {
		ta.SetValue(opts.InitialText)
	}

	ti := textinput.New()
	ti.CharLimit = core.FieldValueMaxLen

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	var sess *core.Session
	if opts.Viewer != nil {
		sess = core.NewViewerSession(opts.Viewer.PromptText, opts.Viewer.Variables, opts.Viewer.MasterCommand)
	} else {
		sess = core.NewSession()
		sess.Template = opts.Template
		sess.Toggles = opts.Toggles
	}

	w := &Wizard{
		session:  sess,
		opts:     opts,
		textarea: ta,
		input:    ti,
		spinner:  sp,
	}
	if sess.Stage() == core.StageFinalize {
		w.refreshProjection()
	}
	return w
}

// Session exposes the underlying session, mainly for tests.
func (w *Wizard) Session() *core.Session {
	return w.session
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, w.spinner.Tick)
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		w.textarea.SetWidth(min(msg.Width-4, 100))
		return w, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case analysisMsg:
		return w.handleAnalysis(msg)

	case enhanceMsg:
		return w.handleEnhance(msg)

	case clipboardMsg:
		if msg.err != nil {
			w.errMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			w.status = "Copied to clipboard"
		}
		return w, nil

	case saveMsg:
		if msg.err != nil {
			w.errMsg = fmt.Sprintf("save failed: %v", msg.err)
		} else {
			w.status = fmt.Sprintf("Saved to library (%s)", msg.id)
		}
		return w, nil

	case exportMsg:
		if msg.err != nil {
			w.errMsg = fmt.Sprintf("export failed: %v", msg.err)
		} else {
			w.status = fmt.Sprintf("Exported to %s", msg.path)
		}
		return w, nil

	case draftMsg:
		// Draft saves are best-effort; failures stay silent.
		return w, nil

	case tea.KeyMsg:
		return w.handleKey(msg)
	}

	return w, nil
}

func (w *Wizard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		w.quitting = true
		return w, tea.Quit
	}

	w.errMsg = ""

	switch w.session.Stage() {
	case core.StageCapture:
		return w.updateCapture(msg)
	case core.StageRefine:
		return w.updateRefine(msg)
	case core.StageFinalize:
		return w.updateFinalize(msg)
	}
	return w, nil
}

// --- Capture stage ---

func (w *Wizard) updateCapture(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		w.session.RawText = w.textarea.Value()
		token, err := w.session.BeginAnalysis()
		if err != nil {
			w.errMsg = err.Error()
			return w, nil
		}
		cmds := []tea.Cmd{w.analyzeCmd(token), w.spinner.Tick}
		if cmd := w.saveDraftCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return w, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	w.textarea, cmd = w.textarea.Update(msg)
	return w, cmd
}

func (w *Wizard) analyzeCmd(token uint64) tea.Cmd {
	req := core.AnalyzeRequest{
		PromptText:  w.session.RawText,
		Toggles:     w.session.Toggles,
		ImageNotes:  w.opts.ImageNotes,
		WebsiteText: w.opts.WebsiteText,
		ContextText: w.opts.ContextText,
	}
	adapter := w.opts.Adapter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), llmTimeout)
		defer cancel()
		res, err := llm.AnalyzeWithRetry(ctx, adapter, req)
		return analysisMsg{token: token, result: res, err: err}
	}
}

func (w *Wizard) saveDraftCmd() tea.Cmd {
	if w.opts.Store == nil {
		return nil
	}
	store, userID, text := w.opts.Store, w.opts.UserID, w.session.RawText
	return func() tea.Msg {
		return draftMsg{err: store.SaveDraft(context.Background(), userID, text)}
	}
}

func (w *Wizard) handleAnalysis(msg analysisMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if w.session.ApplyAnalysisFailure(msg.token) {
			w.cursor = 0
		}
		return w, nil
	}
	if w.session.ApplyAnalysis(msg.token, msg.result) {
		w.cursor = 0
	}
	return w, nil
}

// --- Refine stage ---

func (w *Wizard) refineRows() []refineRow {
	var rows []refineRow
	for i := range w.session.Questions {
		rows = append(rows, refineRow{kind: rowQuestion, qIdx: i})
	}
	for _, group := range w.session.Vars.ByCategory() {
		for _, v := range group.Variables {
			rows = append(rows, refineRow{kind: rowVariable, varID: v.ID})
		}
	}
	return rows
}

func (w *Wizard) updateRefine(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if w.session.Loading() {
		return w, nil // Input frozen while a request is in flight
	}

	if w.mode != modeBrowse {
		return w.updateRefineInput(msg)
	}

	rows := w.refineRows()

	switch msg.String() {
	case "up", "k":
		if w.cursor > 0 {
			w.cursor--
		}
	case "down", "j":
		if w.cursor < len(rows)-1 {
			w.cursor++
		}

	case "enter":
		if w.cursor < len(rows) && rows[w.cursor].kind == rowQuestion {
			q := w.session.Questions[rows[w.cursor].qIdx]
			w.input.SetValue(q.Answer)
			w.input.CharLimit = core.FieldValueMaxLen
			w.input.Placeholder = "Answer..."
			w.input.Focus()
			w.mode = modeAnswer
			return w, textinput.Blink
		}

	case " ":
		if w.cursor < len(rows) && rows[w.cursor].kind == rowVariable {
			if v, ok := w.session.Vars.Get(rows[w.cursor].varID); ok {
				_ = w.session.Vars.SetRelevance(v.ID, !v.Relevant())
			}
		}

	case "e":
		if w.cursor < len(rows) && rows[w.cursor].kind == rowVariable {
			if v, ok := w.session.Vars.Get(rows[w.cursor].varID); ok {
				w.input.SetValue(v.Value)
				w.input.CharLimit = core.InlineValueMaxLen
				w.input.Placeholder = "Value..."
				w.input.Focus()
				w.mode = modeVarValue
				return w, textinput.Blink
			}
		}

	case "d":
		if w.cursor < len(rows) && rows[w.cursor].kind == rowVariable {
			if err := w.session.RemoveVariable(rows[w.cursor].varID); err != nil {
				w.errMsg = err.Error()
			}
		}

	case "v":
		w.input.SetValue("")
		w.input.CharLimit = core.FieldValueMaxLen
		w.input.Placeholder = "Exact text from the prompt to turn into a variable..."
		w.input.Focus()
		w.mode = modeVarSelect
		return w, textinput.Blink

	case "ctrl+s":
		token, err := w.session.BeginEnhancement()
		if err != nil {
			w.errMsg = err.Error()
			return w, nil
		}
		return w, tea.Batch(w.enhanceCmd(token), w.spinner.Tick)
	}

	return w, nil
}

func (w *Wizard) updateRefineInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		w.mode = modeBrowse
		w.input.Blur()
		return w, nil

	case "enter":
		value := strings.TrimSpace(w.input.Value())
		return w.commitInput(value)
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *Wizard) commitInput(value string) (tea.Model, tea.Cmd) {
	rows := w.refineRows()

	switch w.mode {
	case modeAnswer:
		if w.cursor < len(rows) && rows[w.cursor].kind == rowQuestion {
			q := w.session.Questions[rows[w.cursor].qIdx]
			if err := w.session.AnswerQuestion(q.ID, value); err != nil {
				w.errMsg = err.Error()
			}
		}
		w.mode = modeBrowse

	case modeVarSelect:
		if _, _, err := findSelection(w.session.Prompt, value); err != nil {
			w.errMsg = err.Error()
			w.mode = modeBrowse
			break
		}
		w.pendingSelection = value
		w.input.SetValue("")
		w.input.Placeholder = "Variable name (1-3 words)..."
		w.mode = modeVarName
		return w, textinput.Blink

	case modeVarName:
		if err := core.ValidateName(value); err != nil {
			w.errMsg = err.Error()
			return w, nil // Stay in naming mode
		}
		w.pendingName = value
		w.input.SetValue("")
		w.input.Placeholder = "Category (Task/Persona/Conditions/Instructions or custom)..."
		w.mode = modeVarCategory
		return w, textinput.Blink

	case modeVarCategory:
		start, end, err := findSelection(w.session.Prompt, w.pendingSelection)
		if err == nil {
			_, err = w.session.CreateVariable(start, end, w.pendingName, value)
		}
		if err != nil {
			w.errMsg = err.Error()
		} else {
			w.status = fmt.Sprintf("Variable %q created", w.pendingName)
		}
		w.pendingSelection = ""
		w.pendingName = ""
		w.mode = modeBrowse

	case modeVarValue:
		if w.cursor < len(rows) && rows[w.cursor].kind == rowVariable {
			if err := w.session.Vars.SetValue(rows[w.cursor].varID, value); err != nil {
				w.errMsg = err.Error()
			}
		}
		w.mode = modeBrowse

	case modeSaveTitle:
		w.mode = modeBrowse
		w.input.Blur()
		return w, w.saveCmd(value)
	}

	w.input.Blur()
	return w, nil
}

// findSelection locates the first occurrence of needle in the prompt text
// and returns its rune offsets.
func findSelection(text, needle string) (start, end int, err error) {
	if needle == "" {
		return 0, 0, fmt.Errorf("selection is empty")
	}
	byteStart := strings.Index(text, needle)
	if byteStart == -1 {
		return 0, 0, fmt.Errorf("text not found in prompt")
	}
	start = len([]rune(text[:byteStart]))
	end = start + len([]rune(needle))
	return start, end, nil
}

func (w *Wizard) enhanceCmd(token uint64) tea.Cmd {
	req := core.EnhanceRequest{
		PromptText:        w.session.Prompt,
		AnsweredQuestions: w.session.AnsweredQuestions(),
		RelevantVariables: w.session.Vars.RelevantOnly(),
		Toggles:           w.session.Toggles,
		Template:          w.session.Template,
	}
	adapter := w.opts.Adapter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), llmTimeout)
		defer cancel()
		res, err := llm.EnhanceWithRetry(ctx, adapter, req)
		return enhanceMsg{token: token, result: res, err: err}
	}
}

func (w *Wizard) handleEnhance(msg enhanceMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if w.session.ApplyEnhancementFailure(msg.token) {
			w.refreshProjection()
		}
		return w, nil
	}
	if w.session.ApplyEnhancement(msg.token, msg.result.EnhancedPrompt) {
		w.refreshProjection()
	}
	return w, nil
}

// --- Finalize stage ---

func (w *Wizard) refreshProjection() {
	data, err := w.session.ProjectionJSON()
	if err != nil {
		w.errMsg = err.Error()
		return
	}
	w.projectionJSON = string(data)
}

func (w *Wizard) updateFinalize(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if w.mode == modeSaveTitle {
		return w.updateRefineInput(msg)
	}

	switch msg.String() {
	case "c":
		text := w.session.ClipboardText()
		return w, func() tea.Msg {
			return clipboardMsg{err: clipboardWrite(text)}
		}

	case "x":
		data, err := w.session.ProjectionJSON()
		if err != nil {
			w.errMsg = err.Error()
			return w, nil
		}
		path := fmt.Sprintf("prompt-%s.json", time.Now().Format("20060102-150405"))
		return w, func() tea.Msg {
			return exportMsg{path: path, err: os.WriteFile(path, data, 0644)}
		}

	case "s":
		if w.opts.Store == nil {
			w.errMsg = "no library database configured"
			return w, nil
		}
		if w.session.ReadOnly() {
			w.errMsg = core.ErrReadOnly.Error()
			return w, nil
		}
		w.input.SetValue("")
		w.input.Placeholder = "Title for the library..."
		w.input.Focus()
		w.mode = modeSaveTitle
		return w, textinput.Blink

	case "r":
		if !w.session.CanDerive() {
			w.status = "Preview refreshed recently; try again in a moment"
			return w, nil
		}
		w.session.MarkDerived()
		w.refreshProjection()
		w.status = "Preview refreshed"

	case "b":
		if err := w.session.GoTo(core.StageRefine); err != nil {
			w.errMsg = err.Error()
		}

	case "n":
		if err := w.session.Reset(); err != nil {
			w.errMsg = err.Error()
			return w, nil
		}
		w.textarea.SetValue("")
		w.textarea.Focus()
		w.cursor = 0
		w.projectionJSON = ""
		w.status = ""
		return w, textarea.Blink

	case "q":
		w.quitting = true
		return w, tea.Quit
	}

	return w, nil
}

func (w *Wizard) saveCmd(title string) tea.Cmd {
	if title == "" {
		title = "Untitled prompt"
	}
	saved := &library.SavedPrompt{
		UserID:        w.opts.UserID,
		Title:         title,
		PromptText:    w.session.Prompt,
		MasterCommand: w.session.MasterCommand,
		Variables:     w.session.Vars.All(),
	}
	store := w.opts.Store
	return func() tea.Msg {
		err := store.Save(context.Background(), saved)
		return saveMsg{id: saved.ID, err: err}
	}
}

// --- View ---

// View implements tea.Model.
func (w *Wizard) View() string {
	if w.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(w.headerView())
	b.WriteString("\n\n")

	switch w.session.Stage() {
	case core.StageCapture:
		b.WriteString(w.captureView())
	case core.StageRefine:
		b.WriteString(w.refineView())
	case core.StageFinalize:
		b.WriteString(w.finalizeView())
	}

	if warn := w.session.Warning; warn != "" {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render("! " + warn))
	}
	if w.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("✗ " + w.errMsg))
	}
	if w.status != "" {
		b.WriteString("\n")
		b.WriteString(SuccessStyle.Render(w.status))
	}

	b.WriteString("\n\n")
	b.WriteString(w.helpView())
	return b.String()
}

func (w *Wizard) headerView() string {
	title := TitleStyle.Render("promptsmith")
	if w.session.ReadOnly() {
		return title + "  " + SubtitleStyle.Render("(read-only)")
	}

	stages := []core.Stage{core.StageCapture, core.StageRefine, core.StageFinalize}
	var parts []string
	for _, st := range stages {
		name := st.String()
		if st == w.session.Stage() {
			parts = append(parts, StageStyle.Render(name))
		} else {
			parts = append(parts, UnselectedStyle.Render(name))
		}
	}
	return title + "  " + strings.Join(parts, UnselectedStyle.Render(" > "))
}

func (w *Wizard) captureView() string {
	var b strings.Builder
	b.WriteString(SubtitleStyle.Render("What should this prompt do?"))
	b.WriteString("\n\n")
	b.WriteString(w.textarea.View())

	chars := len(w.textarea.Value())
	if chars > 0 {
		model := w.opts.Config.ModelForTask("analyze")
		tokens := EstimateTokens(chars + len(core.AnalyzeSystemPrompt))
		cost := EstimateCost(model, tokens, EstimateTokens(4000))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render(fmt.Sprintf("~%s tokens, est. %s per analysis",
			FormatTokens(tokens), FormatCost(cost))))
	}
	return b.String()
}

func (w *Wizard) refineView() string {
	var b strings.Builder

	if w.session.Loading() {
		b.WriteString(fmt.Sprintf("%s Analyzing your prompt with %s...",
			w.spinner.View(),
			ModelStyle.Render(w.opts.Config.ModelForTask("analyze"))))
		return b.String()
	}

	if mc := w.session.MasterCommand; mc != "" {
		b.WriteString(SubtitleStyle.Render("Master command: "))
		b.WriteString(mc)
		b.WriteString("\n\n")
	}

	rowIdx := 0

	if len(w.session.Questions) > 0 {
		b.WriteString(SubtitleStyle.Render("Questions"))
		b.WriteString("\n")
		for _, q := range w.session.Questions {
			b.WriteString(w.renderQuestionRow(q, rowIdx == w.cursor))
			rowIdx++
		}
		b.WriteString("\n")
	}

	if w.session.Vars.Len() > 0 {
		b.WriteString(SubtitleStyle.Render("Variables"))
		b.WriteString("\n")
		for _, group := range w.session.Vars.ByCategory() {
			b.WriteString("  " + PillarStyle.Render(group.Category) + "\n")
			for _, v := range group.Variables {
				b.WriteString(w.renderVariableRow(v, rowIdx == w.cursor))
				rowIdx++
			}
		}
	}

	if w.mode != modeBrowse {
		b.WriteString("\n")
		b.WriteString(w.input.View())
	}

	return b.String()
}

func (w *Wizard) renderQuestionRow(q core.Question, selected bool) string {
	marker := "  "
	if selected {
		marker = SelectedStyle.Render("> ")
	}

	answer := q.Answer
	switch {
	case answer == "":
		answer = HelpStyle.Render("(unanswered)")
	case q.Prefilled:
		answer = PrefilledStyle.Render(answer + " (from " + q.Source + ")")
	}

	return fmt.Sprintf("%s%s\n    %s\n", marker, q.Text, answer)
}

func (w *Wizard) renderVariableRow(v core.Variable, selected bool) string {
	marker := "  "
	if selected {
		marker = SelectedStyle.Render("> ")
	}

	var box string
	switch {
	case v.IsRelevant == nil:
		box = "[?]"
	case *v.IsRelevant:
		box = SuccessStyle.Render("[x]")
	default:
		box = ExcludedStyle.Render("[ ]")
	}

	name := v.Name
	if !v.Relevant() && v.IsRelevant != nil {
		name = ExcludedStyle.Render(name)
	}

	return fmt.Sprintf("  %s%s %s %s = %q\n", marker, box, HelpStyle.Render(v.Code), name, v.Value)
}

func (w *Wizard) finalizeView() string {
	var b strings.Builder

	if w.session.Loading() {
		b.WriteString(fmt.Sprintf("%s Enhancing your prompt with %s...",
			w.spinner.View(),
			ModelStyle.Render(w.opts.Config.ModelForTask("enhance"))))
		return b.String()
	}

	b.WriteString(SubtitleStyle.Render("Final prompt"))
	b.WriteString("\n\n")
	b.WriteString(BoxStyle.Render(RenderPrompt(w.session.Prompt, w.session.Vars)))
	b.WriteString("\n")

	if vars := w.session.Vars.RelevantOnly(); len(vars) > 0 {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Render("Variables"))
		b.WriteString("\n")
		for _, v := range vars {
			b.WriteString(fmt.Sprintf("  %s %s = %q\n", HelpStyle.Render(v.Code), v.Name, v.Value))
		}
	}

	if w.mode == modeSaveTitle {
		b.WriteString("\n")
		b.WriteString(w.input.View())
	}

	return b.String()
}

func (w *Wizard) helpView() string {
	if w.mode != modeBrowse {
		return HelpStyle.Render("enter confirm · esc cancel")
	}

	switch w.session.Stage() {
	case core.StageCapture:
		return HelpStyle.Render("ctrl+s analyze · ctrl+c quit")
	case core.StageRefine:
		return HelpStyle.Render("↑/↓ move · enter answer · space toggle · v new variable · e edit value · d remove · ctrl+s enhance · ctrl+c quit")
	case core.StageFinalize:
		if w.session.ReadOnly() {
			return HelpStyle.Render("c copy · x export · q quit")
		}
		return HelpStyle.Render("c copy · x export · s save · r refresh · b back · n new · q quit")
	}
	return ""
}
