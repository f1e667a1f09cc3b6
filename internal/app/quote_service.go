// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/ports"
)

// QuoteService orchestrates quote use cases: creation and moderation, the
// filtered listings of both route families, and voting.
// It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	quotes  ports.QuoteRepository
	votes   ports.VoteRepository
	members *MemberService
	auth    *AuthService
	now     func() time.Time
	logger  *slog.Logger
}

// QuoteServiceConfig contains the dependencies of a QuoteService.
type QuoteServiceConfig struct {
	Quotes  ports.QuoteRepository
	Votes   ports.VoteRepository
	Members *MemberService
	Auth    *AuthService

	// Clock defaults to time.Now.
	Clock func() time.Time

	Logger *slog.Logger
}

// QuoteUpdate holds the fields of a quote edit. Nil fields are left unchanged.
type QuoteUpdate struct {
	Quote   *string
	Speaker *string
}

// NewQuoteService creates a new quote service with the provided dependencies.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Quotes == nil || cfg.Votes == nil {
		panic("quote service requires quote and vote repositories")
	}

	if cfg.Members == nil || cfg.Auth == nil {
		panic("quote service requires member and auth services")
	}

	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &QuoteService{
		quotes:  cfg.Quotes,
		votes:   cfg.Votes,
		members: cfg.Members,
		auth:    cfg.Auth,
		now:     cfg.Clock,
		logger:  cfg.Logger,
	}
}

// Create validates and stores a new quote. Rules are checked in a fixed order
// and the first one broken is reported as a domain.ValidationError carrying its rule tag.
func (s *QuoteService) Create(ctx context.Context, submitter, speaker, text string) (*domain.QuoteView, error) {
	err := s.validateNew(ctx, submitter, speaker, text)
	if err != nil {
		return nil, err
	}

	q := &domain.Quote{
		Submitter: submitter,
		Text:      text,
		Speaker:   speaker,
		QuoteTime: s.now().UTC(),
	}

	err = s.quotes.Create(ctx, q)
	if err != nil {
		if domain.IsConflict(err) {
			return nil, duplicateQuote()
		}

		return nil, fmt.Errorf("storing quote: %w", err)
	}

	s.logger.InfoContext(ctx, "quote created",
		slog.Int64("quote_id", q.ID),
		slog.String("submitter", submitter),
		slog.String("speaker", speaker),
	)

	view := domain.AssembleView(q, nil, submitter)

	return &view, nil
}

func (s *QuoteService) validateNew(ctx context.Context, submitter, speaker, text string) error {
	if strings.TrimSpace(speaker) == "" {
		return domain.NewRuleViolation("speaker", domain.RuleMissingSpeaker, "missing speaker")
	}

	if strings.TrimSpace(text) == "" {
		return domain.NewRuleViolation("quote", domain.RuleMissingQuote, "missing quote")
	}

	if submitter == speaker {
		return domain.NewRuleViolation("speaker", domain.RuleSelfQuote, "you can't quote yourself")
	}

	exists, err := s.quotes.ExistsByText(ctx, text)
	if err != nil {
		return fmt.Errorf("checking for duplicate quote: %w", err)
	}

	if exists {
		return duplicateQuote()
	}

	err = s.checkSpeaker(ctx, speaker)
	if err != nil {
		return err
	}

	return checkLength(text)
}

// Update edits the text or speaker of a quote on behalf of actor.
// Edited text is not checked against other quotes for uniqueness.
func (s *QuoteService) Update(ctx context.Context, actor string, id int64, upd QuoteUpdate) (*domain.QuoteView, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.authorize(ctx, actor, q, "edit quote")
	if err != nil {
		return nil, err
	}

	if upd.Speaker != nil {
		speaker := *upd.Speaker

		switch {
		case strings.TrimSpace(speaker) == "":
			return nil, domain.NewRuleViolation("speaker", domain.RuleMissingSpeaker, "missing speaker")
		case speaker == q.Submitter:
			return nil, domain.NewRuleViolation("speaker", domain.RuleSelfQuote, "you can't quote yourself")
		}

		err = s.checkSpeaker(ctx, speaker)
		if err != nil {
			return nil, err
		}

		q.Speaker = speaker
	}

	if upd.Quote != nil {
		text := *upd.Quote
		if strings.TrimSpace(text) == "" {
			return nil, domain.NewRuleViolation("quote", domain.RuleMissingQuote, "missing quote")
		}

		err = checkLength(text)
		if err != nil {
			return nil, err
		}

		q.Text = text
	}

	err = s.quotes.Update(ctx, q)
	if err != nil {
		if domain.IsConflict(err) {
			return nil, duplicateQuote()
		}

		return nil, err
	}

	s.logger.InfoContext(ctx, "quote updated",
		slog.Int64("quote_id", id),
		slog.String("actor", actor),
	)

	return s.view(ctx, q, actor)
}

// Delete removes a quote on behalf of actor. Votes on it are kept.
func (s *QuoteService) Delete(ctx context.Context, actor string, id int64) error {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.authorize(ctx, actor, q, "delete quote")
	if err != nil {
		return err
	}

	err = s.quotes.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "quote deleted",
		slog.Int64("quote_id", id),
		slog.String("actor", actor),
	)

	return nil
}

// Get returns the view of one quote, loading the quote and its votes
// concurrently. The quote is selected with an ID filter so that every read
// route goes through the same query builder.
func (s *QuoteService) Get(ctx context.Context, id int64, viewer string) (*domain.QuoteView, error) {
	found, votes, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.Quote, error) { return s.quotes.Find(ctx, domain.ByID(id), nil) },
		func(ctx context.Context) ([]domain.Vote, error) { return s.votes.ForQuotes(ctx, []int64{id}) },
	)
	if err != nil {
		return nil, fmt.Errorf("loading quote %d: %w", id, err)
	}

	if len(found) == 0 {
		return nil, domain.NewNotFoundError("quote", domain.FormatID(id))
	}

	view := domain.AssembleView(&found[0], votes, viewer)

	return &view, nil
}

// Find returns the views of every quote matching filter, newest first.
func (s *QuoteService) Find(ctx context.Context, filter domain.QuoteFilter, viewer string) ([]domain.QuoteView, error) {
	return s.list(ctx, filter, nil, viewer)
}

// List returns one page of the views matching filter, newest first.
func (s *QuoteService) List(
	ctx context.Context,
	filter domain.QuoteFilter,
	page domain.Page,
	viewer string,
) ([]domain.QuoteView, error) {
	return s.list(ctx, filter, &page, viewer)
}

func (s *QuoteService) list(
	ctx context.Context,
	filter domain.QuoteFilter,
	page *domain.Page,
	viewer string,
) ([]domain.QuoteView, error) {
	quotes, err := s.quotes.Find(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("finding quotes: %w", err)
	}

	if len(quotes) == 0 {
		return []domain.QuoteView{}, nil
	}

	votes, err := s.votes.ForQuotes(ctx, domain.QuoteIDs(quotes))
	if err != nil {
		return nil, fmt.Errorf("loading votes: %w", err)
	}

	return domain.AssembleViews(quotes, votes, viewer), nil
}

// Random returns a uniformly chosen quote matching filter.
// It returns a domain.NotFoundError when nothing matches.
func (s *QuoteService) Random(ctx context.Context, filter domain.QuoteFilter) (*domain.QuoteView, error) {
	quotes, err := s.quotes.Find(ctx, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("finding quotes: %w", err)
	}

	if len(quotes) == 0 {
		return nil, domain.NewNotFoundError("quote", "")
	}

	return s.view(ctx, &quotes[rand.IntN(len(quotes))], "")
}

// Newest returns the most recent quote matching filter.
// It returns a domain.NotFoundError when nothing matches.
func (s *QuoteService) Newest(ctx context.Context, filter domain.QuoteFilter) (*domain.QuoteView, error) {
	quotes, err := s.quotes.Find(ctx, filter, &domain.Page{ID: 0, Size: 1})
	if err != nil {
		return nil, fmt.Errorf("finding quotes: %w", err)
	}

	if len(quotes) == 0 {
		return nil, domain.NewNotFoundError("quote", "")
	}

	return s.view(ctx, &quotes[0], "")
}

// Vote records voter's opinion of a quote, replacing any earlier vote.
func (s *QuoteService) Vote(ctx context.Context, voter string, id int64, direction int) (*domain.QuoteView, error) {
	if !domain.ValidDirection(direction) {
		return nil, &domain.ValidationError{
			Field:   "direction",
			Rule:    domain.RuleBadDirection,
			Message: "must be -1, 0 or 1",
			Value:   direction,
		}
	}

	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.votes.Upsert(ctx, &domain.Vote{
		QuoteID:     id,
		Voter:       voter,
		Direction:   direction,
		UpdatedTime: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("recording vote: %w", err)
	}

	s.logger.DebugContext(ctx, "vote recorded",
		slog.Int64("quote_id", id),
		slog.String("voter", voter),
		slog.Int("direction", direction),
	)

	return s.view(ctx, q, voter)
}

// Markov generates count sentences from a chain trained on the quotes matching filter.
// It returns a domain.NotFoundError when nothing matches.
func (s *QuoteService) Markov(ctx context.Context, filter domain.QuoteFilter, count int) ([]string, error) {
	if count < 1 || count > domain.MaxMarkovCount {
		return nil, domain.NewValidationErrorWithValue("count",
			fmt.Sprintf("must be between 1 and %d", domain.MaxMarkovCount), count)
	}

	quotes, err := s.quotes.Find(ctx, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("finding quotes: %w", err)
	}

	chain := domain.NewChain(nil)
	for i := range quotes {
		chain.Train(quotes[i].Text)
	}

	if chain.Empty() {
		return nil, domain.NewNotFoundError("quote", "")
	}

	return chain.GenerateN(count), nil
}

func (s *QuoteService) view(ctx context.Context, q *domain.Quote, viewer string) (*domain.QuoteView, error) {
	votes, err := s.votes.ForQuotes(ctx, []int64{q.ID})
	if err != nil {
		return nil, fmt.Errorf("loading votes: %w", err)
	}

	view := domain.AssembleView(q, votes, viewer)

	return &view, nil
}

func (s *QuoteService) authorize(ctx context.Context, actor string, q *domain.Quote, operation string) error {
	ok, err := s.auth.CanModify(ctx, actor, q)
	if err != nil {
		return err
	}

	if !ok {
		return domain.NewForbiddenError(operation, "only the submitter or a moderator may do this")
	}

	return nil
}

func (s *QuoteService) checkSpeaker(ctx context.Context, speaker string) error {
	known, err := s.members.IsKnownMember(ctx, speaker)
	if err != nil {
		return err
	}

	if !known {
		return domain.NewRuleViolation("speaker", domain.RuleUnknownSpeaker, "speaker doesn't exist")
	}

	return nil
}

func checkLength(text string) error {
	if utf8.RuneCountInString(text) > domain.MaxQuoteLength {
		return domain.NewRuleViolation("quote", domain.RuleQuoteTooLong, "quote is too long")
	}

	return nil
}

func duplicateQuote() error {
	return domain.NewRuleViolation("quote", domain.RuleDuplicateQuote, "quote already exists")
}
