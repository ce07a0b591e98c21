package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"autodocgen/internal/trello"
)

// EmptyDataNotice is the document produced when the board has no cards to
// document. It short-circuits the generation call.
const EmptyDataNotice = "No project data was fetched; nothing to document."

// boardIDLength is the length of a canonical board id token. A project
// identifier of exactly this length is used verbatim; anything else is
// treated as a board name to resolve.
const boardIDLength = 24

// BoardFetcher is the slice of the board client the fetch stage needs.
type BoardFetcher interface {
	ListBoards(ctx context.Context, creds trello.Credentials) ([]trello.Board, error)
	BoardCards(ctx context.Context, boardID string, creds trello.Credentials) (map[string][]trello.Card, error)
}

// DocGenerator is the external generation collaborator: one opaque call
// from structured project text plus heading hints to document text.
type DocGenerator interface {
	Generate(ctx context.Context, projectText string, fullHeadings, selectedHeadings []string) (string, error)
}

// Pipeline wires the two stages to their collaborators.
type Pipeline struct {
	Boards BoardFetcher
	Docs   DocGenerator
}

func NewPipeline(boards BoardFetcher, docs DocGenerator) *Pipeline {
	return &Pipeline{Boards: boards, Docs: docs}
}

// Run drives the state machine from FETCH to a terminal stage and returns
// the final State. On failure the returned error is a *Error carrying the
// retry classification; the caller decides whether to rerun.
func (p *Pipeline) Run(ctx context.Context, st State) (State, error) {
	st.Stage = StageFetch
	for !st.Stage.Terminal() {
		var err error
		st, err = p.step(ctx, st)
		if err != nil {
			return st, err
		}
	}
	return st, nil
}

// step performs exactly one stage transition.
func (p *Pipeline) step(ctx context.Context, st State) (State, error) {
	switch st.Stage {
	case StageFetch:
		return p.fetch(ctx, st)
	case StageGenerate:
		return p.generate(ctx, st)
	default:
		return failed(st, st.Stage, KindPermanent, fmt.Errorf("no transition from stage %s", st.Stage))
	}
}

func (p *Pipeline) fetch(ctx context.Context, st State) (State, error) {
	if st.Credentials.Key == "" || st.Credentials.Token == "" {
		return failed(st, StageFetch, KindPermanent, errors.New("missing board credentials"))
	}
	if st.ProjectID == "" && st.ProjectName == "" {
		return failed(st, StageFetch, KindPermanent, errors.New("project id and project name are both missing"))
	}

	boardID, err := p.resolveBoardID(ctx, st)
	if err != nil {
		kind := KindRetryable
		if errors.Is(err, ErrBoardNotFound) || errors.Is(err, ErrAmbiguousBoard) || unauthorized(err) {
			kind = KindPermanent
		}
		return failed(st, StageFetch, kind, err)
	}

	cards, err := p.Boards.BoardCards(ctx, boardID, st.Credentials)
	if err != nil {
		kind := KindRetryable
		if unauthorized(err) {
			kind = KindPermanent
		}
		return failed(st, StageFetch, kind, err)
	}

	st.BoardID = boardID
	st.PMData = cards
	st.Stage = StageGenerate
	return st, nil
}

// unauthorized reports whether err is the board API rejecting the
// credentials themselves. Retrying with the same token cannot succeed, so
// the failure joins the missing-credentials check in the permanent bucket.
func unauthorized(err error) bool {
	var apiErr *trello.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// resolveBoardID applies the resolution rule: an identifier that already
// looks like a canonical board id is used directly; otherwise the project
// name must match exactly one of the user's boards, case-insensitively.
func (p *Pipeline) resolveBoardID(ctx context.Context, st State) (string, error) {
	if len(st.ProjectID) == boardIDLength {
		return st.ProjectID, nil
	}

	name := st.ProjectName
	if name == "" {
		name = st.ProjectID
	}

	boards, err := p.Boards.ListBoards(ctx, st.Credentials)
	if err != nil {
		return "", err
	}

	var matches []trello.Board
	for _, b := range boards {
		if strings.EqualFold(strings.TrimSpace(b.Name), strings.TrimSpace(name)) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrBoardNotFound, name)
	case 1:
		return matches[0].ID, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrAmbiguousBoard, name)
	}
}

func (p *Pipeline) generate(ctx context.Context, st State) (State, error) {
	if len(st.PMData) == 0 {
		st.GeneratedDocs = EmptyDataNotice
		st.Stage = StageDone
		return st, nil
	}

	docs, err := p.Docs.Generate(ctx, ProjectText(st.ProjectName, st.PMData), st.PDFHeadings, st.SelectedHeadings)
	if err != nil {
		return failed(st, StageGenerate, KindRetryable, err)
	}

	st.GeneratedDocs = docs
	st.Stage = StageDone
	return st, nil
}

// ProjectText renders fetched board data as the structured text handed to
// the generation collaborator. Lists are emitted in name order so the same
// board state always produces the same prompt.
func ProjectText(projectName string, pmData map[string][]trello.Card) string {
	names := make([]string, 0, len(pmData))
	for name := range pmData {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", projectName)
	for _, name := range names {
		fmt.Fprintf(&b, "\nList: %s\n", name)
		for _, card := range pmData[name] {
			fmt.Fprintf(&b, "- %s", card.Name)
			if card.Desc != "" {
				fmt.Fprintf(&b, ": %s", card.Desc)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
