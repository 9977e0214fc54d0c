package faq

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	apperrors "github.com/yanqian/semantic-faq/pkg/errors"
)

// Service exposes the semantic FAQ capabilities to transports.
type Service interface {
	// Load replaces the in-memory entries with the persisted ones.
	Load(ctx context.Context) error
	// AddEntry reports false when the question already exists ignoring case.
	AddEntry(ctx context.Context, question, answer string) (bool, error)
	// UpdateEntry reports false when no entry matches the question.
	UpdateEntry(ctx context.Context, question, answer string) (bool, error)
	// RemoveEntry reports false when no entry matches the question.
	RemoveEntry(ctx context.Context, question string) (bool, error)
	// Answer reports false when the message has no sufficiently similar entry.
	Answer(ctx context.Context, message string) (Result, bool, error)
	Entries() []Entry
	Suggest(query string, limit int) []string
}

// AnswerRewriter post-processes a matched answer before it is returned.
type AnswerRewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

type service struct {
	cfg      Config
	store    *Store
	repo     Repository
	encoder  Encoder
	rewriter AnswerRewriter
	logger   *slog.Logger

	// persistMu keeps each mutation and its save in the same order on disk
	persistMu sync.Mutex
}

// NewService wires up the FAQ domain. rewriter may be nil.
func NewService(cfg Config, repo Repository, encoder Encoder, rewriter AnswerRewriter, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg.withDefaults(),
		store:    NewStore(encoder),
		repo:     repo,
		encoder:  encoder,
		rewriter: rewriter,
		logger:   logger.With("component", "faq.service"),
	}
}

func (s *service) Load(ctx context.Context) error {
	entries, err := s.repo.LoadAll(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "load faq entries", err)
	}
	skipped, err := s.store.Load(ctx, entries)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeEncoder, "embed faq entries", err)
	}
	if skipped > 0 {
		s.logger.Warn("duplicate faq questions skipped on load", "skipped", skipped)
	}
	s.logger.Info("faq entries loaded", "entries", s.store.Len())
	return nil
}

func (s *service) AddEntry(ctx context.Context, question, answer string) (bool, error) {
	if err := validateEntry(question, answer); err != nil {
		return false, err
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	added, err := s.store.Add(ctx, question, answer)
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeEncoder, "embed question", err)
	}
	if !added {
		return false, nil
	}
	return true, s.persist(ctx, "add", question)
}

func (s *service) UpdateEntry(ctx context.Context, question, answer string) (bool, error) {
	if err := validateEntry(question, answer); err != nil {
		return false, err
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if !s.store.Update(question, answer) {
		return false, nil
	}
	return true, s.persist(ctx, "update", question)
}

func (s *service) RemoveEntry(ctx context.Context, question string) (bool, error) {
	if strings.TrimSpace(question) == "" {
		return false, apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if !s.store.Remove(question) {
		return false, nil
	}
	return true, s.persist(ctx, "remove", question)
}

// persist writes the whole collection. A failure keeps the in-memory change.
func (s *service) persist(ctx context.Context, op, question string) error {
	if err := s.repo.SaveAll(ctx, s.store.Entries()); err != nil {
		s.logger.Error("faq persist failed", "op", op, "question", question, "error", err)
		return apperrors.Wrap(apperrors.CodeStorage, "persist faq entries", err)
	}
	s.logger.Info("faq entries persisted", "op", op, "question", question, "entries", s.store.Len())
	return nil
}

func (s *service) Answer(ctx context.Context, message string) (Result, bool, error) {
	if utf8.RuneCountInString(message) > s.cfg.MaxMessageLength {
		s.logger.Debug("faq message too long, ignoring", "length", utf8.RuneCountInString(message))
		return Result{}, false, nil
	}
	if s.shouldIgnore(message) {
		return Result{}, false, nil
	}
	sentences := SplitSentences(message)
	if len(sentences) == 0 {
		return Result{}, false, nil
	}

	vectors, err := encodeAll(ctx, s.encoder, sentences, 0)
	if err != nil {
		return Result{}, false, apperrors.Wrap(apperrors.CodeEncoder, "embed message", err)
	}

	var (
		best     Match
		sentence string
	)
	for i, vec := range vectors {
		match := s.store.Search(vec, s.cfg.SimilarityThreshold)
		if i == 0 || match.Score > best.Score {
			best = match
			sentence = sentences[i]
		}
	}
	if !best.Found {
		s.logger.Debug("faq no match", "sentences", len(sentences))
		return Result{}, false, nil
	}

	answer := s.rewrite(ctx, best.Entry.Answer)
	s.logger.Info("faq answer matched",
		"message", message,
		"sentence", sentence,
		"matched_question", best.Entry.Question,
		"score", best.Score,
	)
	return Result{
		Answer:          answer,
		MatchedQuestion: best.Entry.Question,
		Sentence:        sentence,
		Score:           best.Score,
	}, true, nil
}

func (s *service) Entries() []Entry {
	return s.store.Entries()
}

func (s *service) Suggest(query string, limit int) []string {
	return s.store.Suggest(query, limit)
}

func (s *service) shouldIgnore(message string) bool {
	for _, pattern := range s.cfg.IgnorePatterns {
		if pattern != "" && strings.Contains(message, pattern) {
			return true
		}
	}
	return false
}

// rewrite falls back to the stored answer when the rewriter fails.
func (s *service) rewrite(ctx context.Context, answer string) string {
	if s.rewriter == nil {
		return answer
	}
	rewritten, err := s.rewriter.Rewrite(ctx, answer)
	if err != nil {
		s.logger.Warn("faq answer rewrite failed", "error", err)
		return answer
	}
	return rewritten
}

func validateEntry(question, answer string) error {
	if strings.TrimSpace(question) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "question cannot be empty", nil)
	}
	if strings.TrimSpace(answer) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "answer cannot be empty", nil)
	}
	return nil
}
