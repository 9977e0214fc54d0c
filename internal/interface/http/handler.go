package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

const defaultSuggestLimit = 25

// Handler wires the HTTP transport to the FAQ service.
type Handler struct {
	faqSvc faq.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(faqSvc faq.Service, logger *slog.Logger) *Handler {
	return &Handler{
		faqSvc: faqSvc,
		logger: logger.With("component", "http.handler"),
	}
}

// AnswerRequest carries a free-text message to answer.
type AnswerRequest struct {
	Message string `json:"message"`
}

// AnswerResponse reports whether an entry matched and, if so, which.
type AnswerResponse struct {
	Answered bool `json:"answered"`
	*faq.Result
}

// EntryRequest is the payload of the entry mutation endpoints.
type EntryRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Answer returns the best matching answer for a message, if any.
func (h *Handler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest(err))
		return
	}

	result, ok, err := h.faqSvc.Answer(c.Request.Context(), req.Message)
	if err != nil {
		abortWithError(c, domainError(err, "answer_failed"))
		return
	}
	if !ok {
		c.JSON(http.StatusOK, AnswerResponse{Answered: false})
		return
	}
	c.JSON(http.StatusOK, AnswerResponse{Answered: true, Result: &result})
}

// ListEntries returns every entry in store order.
func (h *Handler) ListEntries(c *gin.Context) {
	entries := h.faqSvc.Entries()
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// SuggestEntries autocompletes questions for admin tooling.
func (h *Handler) SuggestEntries(c *gin.Context) {
	limit := defaultSuggestLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, codeInvalidRequest, "limit must be a positive integer", err))
			return
		}
		limit = parsed
	}
	suggestions := h.faqSvc.Suggest(c.Query("q"), limit)
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// ExportEntries downloads the entries as the JSON document used for storage.
func (h *Handler) ExportEntries(c *gin.Context) {
	payload, err := json.MarshalIndent(h.faqSvc.Entries(), "", "  ")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "export_failed", "failed to encode entries", err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="faq_entries.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// AddEntry creates a new entry; duplicates ignoring case are rejected with 409.
func (h *Handler) AddEntry(c *gin.Context) {
	req, ok := bindEntry(c)
	if !ok {
		return
	}
	added, err := h.faqSvc.AddEntry(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		abortWithError(c, domainError(err, "add_failed"))
		return
	}
	if !added {
		abortWithError(c, NewHTTPError(http.StatusConflict, codeAlreadyExists, "question already exists", nil))
		return
	}
	h.logger.Info("faq entry added", "question", req.Question, "admin", adminSubject(c))
	c.JSON(http.StatusCreated, faq.Entry{Question: req.Question, Answer: req.Answer})
}

// UpdateEntry replaces the answer of an existing entry.
func (h *Handler) UpdateEntry(c *gin.Context) {
	req, ok := bindEntry(c)
	if !ok {
		return
	}
	updated, err := h.faqSvc.UpdateEntry(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		abortWithError(c, domainError(err, "update_failed"))
		return
	}
	if !updated {
		abortWithError(c, questionNotFound())
		return
	}
	h.logger.Info("faq entry updated", "question", req.Question, "admin", adminSubject(c))
	c.JSON(http.StatusOK, faq.Entry{Question: req.Question, Answer: req.Answer})
}

// RemoveEntry deletes an entry by question, from the body or ?question=.
func (h *Handler) RemoveEntry(c *gin.Context) {
	var req EntryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, badRequest(err))
			return
		}
	}
	if strings.TrimSpace(req.Question) == "" {
		req.Question = c.Query("question")
	}
	removed, err := h.faqSvc.RemoveEntry(c.Request.Context(), req.Question)
	if err != nil {
		abortWithError(c, domainError(err, "remove_failed"))
		return
	}
	if !removed {
		abortWithError(c, questionNotFound())
		return
	}
	h.logger.Info("faq entry removed", "question", req.Question, "admin", adminSubject(c))
	c.Status(http.StatusNoContent)
}

// Health reports liveness and the loaded entry count.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "entries": len(h.faqSvc.Entries())})
}

func bindEntry(c *gin.Context) (EntryRequest, bool) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, badRequest(err))
		return EntryRequest{}, false
	}
	return req, true
}

func adminSubject(c *gin.Context) string {
	claims, ok := getClaims(c)
	if !ok {
		return ""
	}
	return claims.Subject
}
