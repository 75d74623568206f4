package convo

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"solstis/internal/classify"
	"solstis/internal/kit"
)

// State is where the machine is in a session.
type State int

const (
	StateWaitingForWakeWord State = iota
	StateOpening
	StateActiveAssistance
	StateWaitingForStepComplete
)

func (s State) String() string {
	switch s {
	case StateWaitingForWakeWord:
		return "waiting_for_wake_word"
	case StateOpening:
		return "opening"
	case StateActiveAssistance:
		return "active_assistance"
	case StateWaitingForStepComplete:
		return "waiting_for_step_complete"
	default:
		return "unknown"
	}
}

// Config holds the per-deployment knobs the machine needs.
type Config struct {
	UserName     string
	SystemPrompt string

	// Listening windows: how long to wait for speech to begin after a
	// short question, a normal exchange, and an open-ended wait.
	ShortTimeout  time.Duration
	NormalTimeout time.Duration
	LongTimeout   time.Duration

	// MaxUtterance caps one captured utterance; a listen is abandoned
	// as silence once wait+MaxUtterance passes, even if the capture
	// backend misbehaves and never returns.
	MaxUtterance time.Duration
}

// lidPollInterval is how often a blocking listen re-checks the lid.
const lidPollInterval = 200 * time.Millisecond

// errInterrupted aborts a blocking listen when the lid moved or a reset
// was requested; the main loop re-evaluates and carries on.
var errInterrupted = errors.New("convo: listen interrupted")

// Machine drives one conversation session at a time.
type Machine struct {
	cfg    Config
	log    *slog.Logger
	mic    WakeListener
	speech SpeechServices
	out    AudioOut
	leds   Illuminator
	lid    LidSensor

	history History

	// skipOpening suppresses the lid-open greeting after a session has
	// already been running (wake word resume, emergency standby).
	skipOpening    bool
	lidWasOpen     bool
	pendingUser    string
	openingRetried bool
	clarifiedOnce  bool
	emergencyTurn  bool

	resetRequested atomic.Bool

	mu      sync.Mutex
	state   State
	lastLit []string
}

func NewMachine(cfg Config, log *slog.Logger, mic WakeListener, speech SpeechServices, out AudioOut, leds Illuminator, lid LidSensor) *Machine {
	if cfg.ShortTimeout <= 0 {
		cfg.ShortTimeout = 7 * time.Second
	}
	if cfg.NormalTimeout <= 0 {
		cfg.NormalTimeout = 15 * time.Second
	}
	if cfg.LongTimeout <= 0 {
		cfg.LongTimeout = 30 * time.Second
	}
	if cfg.MaxUtterance <= 0 {
		cfg.MaxUtterance = 30 * time.Second
	}
	return &Machine{
		cfg:    cfg,
		log:    log,
		mic:    mic,
		speech: speech,
		out:    out,
		leds:   leds,
		lid:    lid,
		state:  StateWaitingForWakeWord,
	}
}

// State reports the current state; safe to call from the IPC server.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LitItems reports the IDs of the items currently highlighted.
func (m *Machine) LitItems() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lastLit))
	copy(out, m.lastLit)
	return out
}

// RequestReset asks the machine to drop the session at the next
// opportunity, including mid-listen.
func (m *Machine) RequestReset() {
	m.resetRequested.Store(true)
}

func (m *Machine) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
	m.log.Debug("state change", "state", s.String())
}

// Run loops until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.resetRequested.Swap(false) {
			m.log.Info("reset requested")
			m.resetSession()
		}
		m.checkLid(ctx)

		var err error
		switch m.State() {
		case StateWaitingForWakeWord:
			err = m.stepWaiting(ctx)
		case StateOpening:
			err = m.stepOpening(ctx)
		case StateActiveAssistance:
			err = m.stepActive(ctx)
		case StateWaitingForStepComplete:
			err = m.stepStepComplete(ctx)
		}
		switch {
		case err == nil, errors.Is(err, errInterrupted):
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			m.log.Error("step failed", "state", m.State().String(), "err", err)
		}
	}
}

// checkLid runs lid-driven transitions: closing the lid ends the
// session, opening it greets the user unless one is already underway.
func (m *Machine) checkLid(ctx context.Context) {
	open := m.lid.IsOpen()
	if !open {
		// Level check, not just the close edge: no state other than
		// waiting may survive a closed lid.
		if m.lidWasOpen || m.State() != StateWaitingForWakeWord {
			m.log.Info("lid closed, session over")
			m.resetSession()
		}
		m.lidWasOpen = false
		return
	}
	if !m.lidWasOpen {
		m.lidWasOpen = true
		if !m.skipOpening {
			m.log.Info("lid opened")
			m.speak(ctx, openingPrompt(m.cfg.UserName))
			m.setState(StateOpening)
		}
	}
}

func (m *Machine) resetSession() {
	m.history.Reset()
	m.pendingUser = ""
	m.skipOpening = false
	m.openingRetried = false
	m.clarifiedOnce = false
	m.emergencyTurn = false
	m.leds.StopSpeakPulse()
	if err := m.leds.Clear(); err != nil {
		m.log.Warn("led clear failed", "err", err)
	}
	m.mu.Lock()
	m.lastLit = nil
	m.mu.Unlock()
	m.setState(StateWaitingForWakeWord)
}

// stepWaiting blocks on the wake word. SOLSTIS resumes assistance
// directly, but only while the lid is open; the step-complete keyword
// is meaningless here and ignored.
func (m *Machine) stepWaiting(ctx context.Context) error {
	w, err := m.waitWake(ctx)
	if err != nil {
		return err
	}
	if w != WakeSolstis || !m.lid.IsOpen() {
		return nil
	}
	m.log.Info("wake word heard")
	m.speak(ctx, continueHelpPrompt(m.cfg.UserName))
	m.skipOpening = true
	m.pendingUser = ""
	m.setState(StateActiveAssistance)
	return nil
}

// stepOpening handles the answer to the lid-open greeting.
func (m *Machine) stepOpening(ctx context.Context) error {
	utt, err := m.capture(ctx, m.cfg.ShortTimeout)
	if err != nil {
		return err
	}
	if isNoise(utt) {
		// Silence after the clarifying question means help, not a
		// no-show; carry the earlier unclear utterance forward.
		if m.clarifiedOnce {
			m.setState(StateActiveAssistance)
			return nil
		}
		if !m.openingRetried {
			m.openingRetried = true
			m.speak(ctx, openingPrompt(m.cfg.UserName))
			return nil
		}
		m.speak(ctx, noResponsePrompt)
		m.skipOpening = true
		m.setState(StateWaitingForWakeWord)
		return nil
	}

	intent, conf := classify.DetectYesNo(utt)
	m.log.Debug("opening answer", "intent", intent.String(), "confidence", conf)
	switch intent {
	case classify.IntentNo:
		m.pendingUser = ""
		m.speak(ctx, wakeHintPrompt)
		m.skipOpening = true
		m.setState(StateWaitingForWakeWord)
	case classify.IntentYes:
		m.pendingUser = utt
		m.setState(StateActiveAssistance)
	default:
		if !m.clarifiedOnce {
			m.clarifiedOnce = true
			m.pendingUser = utt
			m.speak(ctx, clarifyHelpPrompt)
			return nil
		}
		// Still unclear after one clarification: assume they want help.
		m.pendingUser = utt
		m.setState(StateActiveAssistance)
	}
	return nil
}

// stepActive runs one full exchange: user turn in, model reply out,
// LEDs for any mentioned items, next state from the reply outcome.
func (m *Machine) stepActive(ctx context.Context) error {
	utt := m.pendingUser
	m.pendingUser = ""
	if utt == "" {
		got, err := m.capture(ctx, m.cfg.NormalTimeout)
		if err != nil {
			return err
		}
		if isNoise(got) {
			// After an emergency reply the stand-down line fits better
			// than the generic no-response nag.
			if m.emergencyTurn {
				m.speak(ctx, emergencyStandbyPrompt)
			} else {
				m.speak(ctx, noResponsePrompt)
			}
			m.skipOpening = true
			m.setState(StateWaitingForWakeWord)
			return nil
		}
		utt = got
	}

	m.history.Append(RoleUser, utt)
	reply, err := m.speech.Chat(ctx, m.cfg.SystemPrompt, m.history.Turns())
	chatFailed := err != nil
	if chatFailed {
		m.log.Error("chat failed", "err", err)
		reply = fallbackReply
	}
	m.history.Append(RoleAssistant, reply)

	if err := m.leds.Clear(); err != nil {
		m.log.Warn("led clear failed", "err", err)
	}
	m.speak(ctx, reply)
	m.lightMentioned(reply)

	if chatFailed {
		// Treat the apology as a question so the user can retry.
		return nil
	}

	outcome, conf := classify.ClassifyOutcome(reply, m.history.RecentAssistant(4))
	m.log.Info("reply classified", "outcome", outcome.String(), "confidence", conf)
	m.emergencyTurn = outcome == classify.OutcomeEmergency

	switch outcome {
	case classify.OutcomeUserActionRequired:
		m.speak(ctx, stepCompletePrompt)
		m.setState(StateWaitingForStepComplete)
	case classify.OutcomeProcedureDone:
		return m.confirmDone(ctx)
	default:
		// A pending question, or an emergency where the user may still
		// need guidance while help is on the way. Stay active and
		// capture the next utterance.
	}
	return nil
}

// confirmDone double-checks that the user is finished before closing
// the session.
func (m *Machine) confirmDone(ctx context.Context) error {
	m.speak(ctx, doneConfirmPrompt)
	ans, err := m.capture(ctx, m.cfg.NormalTimeout)
	if err != nil {
		return err
	}
	switch {
	case isNoise(ans):
		m.speak(ctx, closingPrompt)
		m.skipOpening = true
		m.setState(StateWaitingForWakeWord)
	case containsPhrase(ans, completionPhrases):
		m.speak(ctx, closingPrompt)
		m.skipOpening = true
		m.setState(StateWaitingForWakeWord)
	case containsPhrase(ans, continuationPhrases):
		m.pendingUser = ans
	default:
		m.speak(ctx, doneClarifyPrompt)
		again, err := m.capture(ctx, m.cfg.NormalTimeout)
		if err != nil {
			return err
		}
		if isNoise(again) || containsPhrase(again, completionPhrases) {
			m.speak(ctx, closingPrompt)
			m.skipOpening = true
			m.setState(StateWaitingForWakeWord)
		} else {
			m.pendingUser = again
		}
	}
	return nil
}

// stepStepComplete waits for the user to finish a physical step. The
// item LEDs stay lit the whole time.
func (m *Machine) stepStepComplete(ctx context.Context) error {
	w, err := m.waitWake(ctx)
	if err != nil {
		return err
	}
	switch w {
	case WakeStepComplete:
		m.log.Info("step complete heard")
		m.pendingUser = stepDoneTurn
		m.setState(StateActiveAssistance)
	case WakeSolstis:
		m.speak(ctx, continueHelpPrompt(m.cfg.UserName))
		m.pendingUser = ""
		m.setState(StateActiveAssistance)
	}
	return nil
}

func (m *Machine) lightMentioned(reply string) {
	items := kit.Mentions(reply)
	if err := m.leds.Light(items); err != nil {
		m.log.Warn("led light failed", "err", err)
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	m.mu.Lock()
	m.lastLit = ids
	m.mu.Unlock()
	if len(ids) > 0 {
		m.log.Info("items highlighted", "items", ids)
	}
}

// capture listens for one utterance and transcribes it. Returns "" when
// nothing was said inside the window.
func (m *Machine) capture(ctx context.Context, wait time.Duration) (string, error) {
	pcm, err := m.listen(ctx, wait)
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", nil
	}
	text, err := m.speech.Transcribe(ctx, pcm)
	if err != nil {
		m.log.Error("transcription failed", "err", err)
		return "", nil
	}
	m.log.Debug("heard", "text", text)
	return text, nil
}

// listen wraps ListenForSpeech so a lid close or reset request breaks
// the block.
func (m *Machine) listen(ctx context.Context, wait time.Duration) ([]byte, error) {
	lctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		pcm []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		pcm, err := m.mic.ListenForSpeech(lctx, wait)
		ch <- result{pcm, err}
	}()

	// Backstop deadline: treat a capture that outlives its window as
	// silence instead of hanging the turn loop.
	deadline := time.NewTimer(wait + m.cfg.MaxUtterance)
	defer deadline.Stop()

	tick := time.NewTicker(lidPollInterval)
	defer tick.Stop()
	for {
		select {
		case r := <-ch:
			return r.pcm, r.err
		case <-deadline.C:
			cancel()
			m.log.Warn("capture overran its window, treating as silence")
			return nil, nil
		case <-tick.C:
			if !m.lid.IsOpen() || m.resetRequested.Load() {
				cancel()
				return nil, errInterrupted
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// waitWake wraps WaitForWakeWord the same way.
func (m *Machine) waitWake(ctx context.Context) (WakeWord, error) {
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		w   WakeWord
		err error
	}
	ch := make(chan result, 1)
	go func() {
		w, err := m.mic.WaitForWakeWord(wctx)
		ch <- result{w, err}
	}()

	wasOpen := m.lid.IsOpen()
	tick := time.NewTicker(lidPollInterval)
	defer tick.Stop()
	for {
		select {
		case r := <-ch:
			return r.w, r.err
		case <-tick.C:
			if m.lid.IsOpen() != wasOpen || m.resetRequested.Load() {
				cancel()
				return WakeNone, errInterrupted
			}
		case <-ctx.Done():
			return WakeNone, ctx.Err()
		}
	}
}

// speak synthesizes text and plays it, pulsing the speak LEDs while
// audio is out. Playback gets a few retries; a synth failure is logged
// and dropped so the conversation can limp on.
func (m *Machine) speak(ctx context.Context, text string) {
	pcm, err := m.speech.Synthesize(ctx, text)
	if err != nil {
		m.log.Error("synthesis failed", "err", err)
		return
	}
	m.leds.StartSpeakPulse()
	defer m.leds.StopSpeakPulse()

	for attempt := 0; attempt < 3; attempt++ {
		if err = m.out.Play(ctx, pcm); err == nil {
			return
		}
		m.log.Warn("playback failed", "attempt", attempt+1, "err", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt+1) * 200 * time.Millisecond):
		}
	}
	m.log.Error("playback gave up", "err", err)
}
