package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/starfield-labs/quizdeck/internal/board"
	"github.com/starfield-labs/quizdeck/internal/llm"
	"github.com/starfield-labs/quizdeck/internal/logging"
)

// State is the session phase. Transitions are NoBoard -> BoardReady on game
// start, BoardReady -> ClueActive on clue selection, and ClueActive ->
// BoardReady on submit or give-up.
type State int

const (
	StateNoBoard State = iota
	StateBoardReady
	StateClueActive
)

func (s State) String() string {
	switch s {
	case StateNoBoard:
		return "no-board"
	case StateBoardReady:
		return "board-ready"
	case StateClueActive:
		return "clue-active"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrNoBoard           = errors.New("no board loaded")
	ErrInvalidTransition = errors.New("operation not valid in current state")
	ErrAlreadyAnswered   = errors.New("clue already answered")
	ErrClueOutOfRange    = errors.New("clue position out of range")
	ErrStaleBoard        = errors.New("board belongs to a superseded game")
)

// MaxTeams bounds the number of competing teams.
const MaxTeams = 4

// boardOptionCount is how many wrong options are sampled from the rest of the
// board when model distractors are not (yet) available.
const boardOptionCount = 3

// ClueKey addresses one cell on the board.
type ClueKey struct {
	Category int
	Clue     int
}

// CurrentClue is the transient view of the active cell, including the
// shuffled multiple-choice options shown when hints are on.
type CurrentClue struct {
	Key          ClueKey
	CategoryName string
	Value        int
	Clue         string
	Answer       string
	Options      []string
}

// BoardSource produces one validated board per call.
type BoardSource interface {
	Generate(ctx context.Context) (board.Result, error)
}

// Session is the single source of truth for one running game. It is not safe
// for concurrent use; the UI event loop is its only caller.
type Session struct {
	source BoardSource
	eval   *Evaluator
	rng    *rand.Rand
	teams  int

	state       State
	epoch       uint64
	result      board.Result
	answered    map[ClueKey]struct{}
	scores      []int
	currentTeam int
	current     *CurrentClue
	showHints   bool
	usage       llm.Usage
}

// NewSession builds an idle session for the given number of teams, clamped to
// [1, MaxTeams]. rng drives option shuffling and may be seeded for tests.
func NewSession(source BoardSource, eval *Evaluator, teams int, rng *rand.Rand) *Session {
	if teams < 1 {
		teams = 1
	}
	if teams > MaxTeams {
		teams = MaxTeams
	}
	return &Session{
		source: source,
		eval:   eval,
		rng:    rng,
		teams:  teams,
		state:  StateNoBoard,
	}
}

// NewGame generates a fresh board and resets all per-game state. On failure
// the previous board and scores are left untouched.
func (s *Session) NewGame(ctx context.Context) error {
	epoch := s.BeginGeneration()
	result, err := s.source.Generate(ctx)
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	return s.Install(epoch, result)
}

// BeginGeneration stamps a new generation epoch and returns it. A board
// generated under an older epoch is rejected by Install, so a rapid second
// "new game" cleanly discards the first one's late result.
func (s *Session) BeginGeneration() uint64 {
	s.epoch++
	return s.epoch
}

// Install adopts a generated board produced under the given epoch and resets
// scores, the answered set and the active clue.
func (s *Session) Install(epoch uint64, result board.Result) error {
	if epoch != s.epoch {
		logging.LogEvent("discarding stale board (epoch %d, current %d)", epoch, s.epoch)
		return ErrStaleBoard
	}
	if result.Board == nil {
		return ErrNoBoard
	}

	s.result = result
	s.answered = make(map[ClueKey]struct{}, result.Board.TotalClues())
	s.scores = make([]int, s.teams)
	s.currentTeam = 0
	s.current = nil
	s.state = StateBoardReady
	s.usage = s.usage.Add(result.Usage)
	if result.Warning != "" {
		logging.LogEvent("board installed with warning: %s", result.Warning)
	}
	return nil
}

// SelectClue activates an unanswered cell and builds its option list from the
// other answers on the board.
func (s *Session) SelectClue(key ClueKey) (CurrentClue, error) {
	switch s.state {
	case StateNoBoard:
		return CurrentClue{}, ErrNoBoard
	case StateClueActive:
		return CurrentClue{}, fmt.Errorf("%w: a clue is already active", ErrInvalidTransition)
	}

	b := s.result.Board
	if key.Category < 0 || key.Category >= len(b.Categories) {
		return CurrentClue{}, ErrClueOutOfRange
	}
	category := b.Categories[key.Category]
	if key.Clue < 0 || key.Clue >= len(category.Clues) {
		return CurrentClue{}, ErrClueOutOfRange
	}
	if _, done := s.answered[key]; done {
		return CurrentClue{}, ErrAlreadyAnswered
	}

	clue := category.Clues[key.Clue]
	current := CurrentClue{
		Key:          key,
		CategoryName: category.Name,
		Value:        clue.Value,
		Clue:         clue.Clue,
		Answer:       clue.Answer,
		Options:      s.sampleOptions(key, clue.Answer),
	}
	s.current = &current
	s.state = StateClueActive
	return current, nil
}

// Outcome records how one clue resolved and which team it was scored against.
type Outcome struct {
	Correct bool
	GaveUp  bool
	Answer  string
	Delta   int
	Team    int
}

// SubmitAnswer judges the active clue, applies the score delta to the current
// team, marks the cell answered and returns to BoardReady.
func (s *Session) SubmitAnswer(text string) (Outcome, error) {
	if s.state != StateClueActive {
		return Outcome{}, fmt.Errorf("%w: no active clue", ErrInvalidTransition)
	}

	correct := s.eval.IsCorrect(text, s.current.Answer)
	delta := s.current.Value
	if !correct {
		delta = -delta
	}
	return s.resolve(Outcome{
		Correct: correct,
		Answer:  s.current.Answer,
		Delta:   delta,
	}), nil
}

// GiveUp resolves the active clue with no score change and reveals the answer.
func (s *Session) GiveUp() (Outcome, error) {
	if s.state != StateClueActive {
		return Outcome{}, fmt.Errorf("%w: no active clue", ErrInvalidTransition)
	}
	return s.resolve(Outcome{
		GaveUp: true,
		Answer: s.current.Answer,
	}), nil
}

func (s *Session) resolve(outcome Outcome) Outcome {
	outcome.Team = s.currentTeam
	s.scores[s.currentTeam] += outcome.Delta
	s.answered[s.current.Key] = struct{}{}
	s.current = nil
	s.state = StateBoardReady
	s.currentTeam = (s.currentTeam + 1) % s.teams
	return outcome
}

// sampleOptions draws wrong answers from elsewhere on the board, mixes in the
// correct answer and shuffles. Without an rng the options keep board order.
func (s *Session) sampleOptions(key ClueKey, answer string) []string {
	pool := s.result.Board.Answers(key.Category, key.Clue)
	if s.rng != nil {
		s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}
	seen := map[string]struct{}{answer: {}}
	options := make([]string, 0, boardOptionCount+1)
	for _, candidate := range pool {
		if len(options) == boardOptionCount {
			break
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		options = append(options, candidate)
	}
	options = append(options, answer)
	if s.rng != nil {
		s.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	}
	return options
}

// ApplyDistractors replaces the active clue's options with model-generated
// ones. A late arrival for a clue that is no longer active is ignored.
func (s *Session) ApplyDistractors(key ClueKey, distractors []string) {
	if s.state != StateClueActive || s.current == nil || s.current.Key != key {
		return
	}
	options := append(append([]string(nil), distractors...), s.current.Answer)
	if s.rng != nil {
		s.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	}
	s.current.Options = options
}

// State returns the current session phase.
func (s *Session) State() State { return s.state }

// Board returns the active board, or nil before the first game.
func (s *Session) Board() *board.Board { return s.result.Board }

// GroundedIndex returns the corpus-grounded category position, or -1 with no
// board.
func (s *Session) GroundedIndex() int {
	if s.result.Board == nil {
		return -1
	}
	return s.result.GroundedIndex
}

// Warning returns the retrieval-degradation note for the current board, if any.
func (s *Session) Warning() string { return s.result.Warning }

// GroundedFromCorpus reports whether the grounded category really came from
// the course notes.
func (s *Session) GroundedFromCorpus() bool { return s.result.GroundedFromCorpus }

// Current returns the active clue, or nil outside ClueActive.
func (s *Session) Current() *CurrentClue { return s.current }

// Teams returns the configured team count.
func (s *Session) Teams() int { return s.teams }

// CurrentTeam returns the index of the team answering next.
func (s *Session) CurrentTeam() int { return s.currentTeam }

// Scores returns a copy of the per-team scores.
func (s *Session) Scores() []int {
	return append([]int(nil), s.scores...)
}

// Score returns team 0's score, the whole score in a single-team game.
func (s *Session) Score() int {
	if len(s.scores) == 0 {
		return 0
	}
	return s.scores[0]
}

// Answered reports whether the cell has already been played.
func (s *Session) Answered(key ClueKey) bool {
	_, done := s.answered[key]
	return done
}

// AnsweredCount returns how many cells have been played.
func (s *Session) AnsweredCount() int { return len(s.answered) }

// Finished reports whether every cell on the board has been played.
func (s *Session) Finished() bool {
	return s.result.Board != nil && len(s.answered) == s.result.Board.TotalClues()
}

// ShowHints reports whether multiple-choice options are displayed.
func (s *Session) ShowHints() bool { return s.showHints }

// ToggleHints flips hint display and returns the new setting.
func (s *Session) ToggleHints() bool {
	s.showHints = !s.showHints
	return s.showHints
}

// Usage returns accumulated token usage across all boards this session.
func (s *Session) Usage() llm.Usage { return s.usage }
