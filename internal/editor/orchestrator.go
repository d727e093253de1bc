package editor

import (
	"context"
	"sync"

	"banner-editor/internal/aiclient"
	"banner-editor/internal/domain"
	"banner-editor/internal/geom"
)

// Inpainter is the slice of the edit service the orchestrator needs.
type Inpainter interface {
	Inpaint(ctx context.Context, req aiclient.InpaintRequest) (aiclient.EditResult, error)
}

// TextFixer is the slice of the text-replace service the text-fix flow
// needs.
type TextFixer interface {
	ReplaceText(ctx context.Context, req aiclient.TextReplaceRequest) (aiclient.EditResult, error)
}

// EditOptions carries everything one execute action needs: either a raw
// instruction or a structured triple, plus the optional pass-through
// fields forwarded to the service untouched.
type EditOptions struct {
	Instruction    string
	Triple         *EditTriple
	Locale         string
	ReferenceImage string
	Design         *aiclient.ReferenceDesign
	OutputSize     aiclient.OutputSize
}

// ContextOutcome reports how one context's request settled.
type ContextOutcome struct {
	Context      Context  `json:"context"`
	OK           bool     `json:"ok"`
	Error        string   `json:"error,omitempty"`
	Err          error    `json:"-"`
	Image        ImageRef `json:"image,omitempty"`
	CostEstimate float64  `json:"cost_estimate,omitempty"`
	DurationMS   int64    `json:"duration_ms,omitempty"`
}

// EditOutcome aggregates the independently settled per-context results
// of one execute action.
type EditOutcome struct {
	Prompt     string                      `json:"prompt"`
	Outcomes   map[Context]*ContextOutcome `json:"outcomes"`
	AnySuccess bool                        `json:"any_success"`
}

type dispatchTarget struct {
	context Context
	request aiclient.InpaintRequest
}

// ExecuteEdit converts the current selections into normalized masks and
// dispatches one inpaint request per context with a non-empty selection.
// Dual-mode requests run in parallel and settle independently; one
// failure never cancels or rolls back the other context. The current
// image of each dispatched context is pushed to its history before the
// request goes out and rolled back again if that request fails.
func (s *Session) ExecuteEdit(ctx context.Context, svc Inpainter, opts EditOptions) (*EditOutcome, error) {
	prompt := BuildInstruction(opts.Instruction, opts.Triple, opts.Locale)
	if prompt == "" {
		return nil, domain.ErrNoInstruction
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	if s.editing {
		s.mu.Unlock()
		return nil, domain.ErrEditInFlight
	}
	targets := s.collectTargets(prompt, opts)
	if len(targets) == 0 {
		s.mu.Unlock()
		return nil, domain.ErrNoSelection
	}
	// Speculative pushes happen synchronously before dispatch so a
	// failed request can compensate with a rollback.
	for _, t := range targets {
		s.contexts[t.context].History.Push(s.contexts[t.context].Image)
	}
	s.editing = true
	s.mu.Unlock()

	outcome := &EditOutcome{Prompt: prompt, Outcomes: make(map[Context]*ContextOutcome, len(targets))}
	results := make([]*ContextOutcome, len(targets))

	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t dispatchTarget) {
			defer wg.Done()
			res, err := svc.Inpaint(ctx, t.request)
			if err != nil {
				results[i] = &ContextOutcome{Context: t.context, Err: err, Error: err.Error()}
				return
			}
			results[i] = &ContextOutcome{
				Context:      t.context,
				OK:           true,
				Image:        ImageRef{URL: res.ImageURL, AssetID: res.ImageID},
				CostEstimate: res.CostEstimate,
				DurationMS:   res.DurationMS,
			}
		}(i, t)
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = false
	for _, res := range results {
		outcome.Outcomes[res.Context] = res
		vs := s.contexts[res.Context]
		if s.closed {
			// Results arriving after close are discarded; the
			// speculative push still has to go.
			vs.History.RollbackLastPush()
			continue
		}
		if res.OK {
			vs.Image = res.Image
			vs.Selection.Clear()
			outcome.AnySuccess = true
		} else {
			vs.History.RollbackLastPush()
		}
	}
	return outcome, nil
}

// collectTargets builds one inpaint request per context with committed
// selections, each carrying only its own masks and dimensions. Caller
// holds the session lock.
func (s *Session) collectTargets(prompt string, opts EditOptions) []dispatchTarget {
	order := []Context{ContextDesktop}
	if s.dualMode {
		order = append(order, ContextMobile)
	}
	var targets []dispatchTarget
	for _, name := range order {
		vs, ok := s.contexts[name]
		if !ok || vs.Selection.Len() == 0 {
			continue
		}
		targets = append(targets, dispatchTarget{
			context: name,
			request: aiclient.InpaintRequest{
				SourceImage:    vs.Image.URL,
				Masks:          vs.Selection.Masks(vs.ImageSize),
				Prompt:         prompt,
				OriginalWidth:  int(vs.ImageSize.Width),
				OriginalHeight: int(vs.ImageSize.Height),
				ReferenceImage: opts.ReferenceImage,
				Design:         opts.Design,
				OutputSize:     opts.OutputSize,
			},
		})
	}
	return targets
}

// ExecuteTextFix runs the text-replace service over the current
// selection of one context with the same push/rollback and in-flight
// exclusion semantics as a regular edit. The editing flag keeps the
// rollback paired with its own speculative push: without it a
// concurrent successful edit could slide an entry on top of the stack
// and the failing text-fix would pop that instead.
func (s *Session) ExecuteTextFix(ctx context.Context, svc TextFixer, target Context, originalText, correctedText string) (*ContextOutcome, error) {
	if correctedText == "" {
		return nil, domain.ErrNoInstruction
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	if s.editing {
		s.mu.Unlock()
		return nil, domain.ErrEditInFlight
	}
	vs, ok := s.contexts[target]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	if vs.Selection.Len() == 0 {
		s.mu.Unlock()
		return nil, domain.ErrNoSelection
	}
	req := aiclient.TextReplaceRequest{
		SourceImage:   vs.Image.URL,
		Masks:         vs.Selection.Masks(vs.ImageSize),
		OriginalText:  originalText,
		CorrectedText: correctedText,
	}
	vs.History.Push(vs.Image)
	s.editing = true
	s.mu.Unlock()

	res, err := svc.ReplaceText(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = false
	if err != nil || s.closed {
		vs.History.RollbackLastPush()
		if err == nil {
			err = domain.ErrSessionClosed
		}
		return &ContextOutcome{Context: target, Err: err, Error: err.Error()}, nil
	}
	vs.Image = ImageRef{URL: res.ImageURL, AssetID: res.ImageID}
	vs.Selection.Clear()
	return &ContextOutcome{
		Context:      target,
		OK:           true,
		Image:        vs.Image,
		CostEstimate: res.CostEstimate,
		DurationMS:   res.DurationMS,
	}, nil
}

// Masks exposes the normalized masks of a context's current selection,
// used by the OCR step of the text-fix flow.
func (s *Session) Masks(ctx Context) ([]geom.NormalizedRect, ImageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return nil, ImageRef{}, err
	}
	return vs.Selection.Masks(vs.ImageSize), vs.Image, nil
}
