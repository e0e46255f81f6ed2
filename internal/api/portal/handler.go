// Package portal provides REST API handlers over the moderation workflow and
// gamification reads. Handlers only translate transport to service calls;
// authentication is owned by the surrounding deployment, which passes the
// acting user through the X-User-ID header.
package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hfarooqi/tarikh-portal/internal/i18n"
	"github.com/hfarooqi/tarikh-portal/internal/models"
	"github.com/hfarooqi/tarikh-portal/internal/repository"
	"github.com/hfarooqi/tarikh-portal/internal/service/gamification"
	"github.com/hfarooqi/tarikh-portal/internal/service/moderation"
	"github.com/hfarooqi/tarikh-portal/pkg/logger"
)

// WorkflowService interface for moderation operations.
type WorkflowService interface {
	SubmitEvent(ctx context.Context, sub moderation.EventSubmission, submitterID uint) (*models.Event, error)
	SubmitHadith(ctx context.Context, sub moderation.HadithSubmission, submitterID uint) (*models.Hadith, error)
	Approve(ctx context.Context, kind string, id, actorID uint) error
	Reject(ctx context.Context, kind string, id, actorID uint) error
	Delete(ctx context.Context, kind string, id, actorID uint) error
	PendingEvents(ctx context.Context, actorID uint, limit, offset int) ([]models.Event, error)
	PendingHadiths(ctx context.Context, actorID uint, limit, offset int) ([]models.Hadith, error)
	ApprovedEvents(ctx context.Context, limit, offset int) ([]models.Event, error)
	ApprovedHadiths(ctx context.Context, limit, offset int) ([]models.Hadith, error)
	GetApprovedEvent(ctx context.Context, id uint) (*models.Event, []models.ContentLink, error)
	GetApprovedHadith(ctx context.Context, id uint) (*models.Hadith, error)
	VersesBySurah(ctx context.Context, surah int) ([]models.Ayah, error)
	AddBookmark(ctx context.Context, userID uint, itemKind string, itemID uint) error
	RemoveBookmark(ctx context.Context, userID uint, itemKind string, itemID uint) error
	ListBookmarks(ctx context.Context, userID uint) ([]models.Bookmark, error)
	LinkEvent(ctx context.Context, eventID uint, targetKind string, targetID uint) (*models.ContentLink, error)
}

// GamificationService interface for point and badge reads.
type GamificationService interface {
	GetPoints(ctx context.Context, userID uint) (int, error)
	ListBadges(ctx context.Context, userID uint) ([]models.UserBadge, error)
	BadgeCatalog(ctx context.Context) ([]models.Badge, error)
}

// Handler handles portal API requests.
type Handler struct {
	workflow    WorkflowService
	engine      GamificationService
	defaultLang string
	log         *logger.Logger
}

// NewHandler creates a new portal handler. defaultLang is the display
// language used when a request does not pass ?lang.
func NewHandler(workflow *moderation.Service, engine *gamification.Service, defaultLang string, log *logger.Logger) *Handler {
	return NewHandlerWithInterfaces(workflow, engine, defaultLang, log)
}

// NewHandlerWithInterfaces creates a new portal handler with interface
// dependencies (useful for testing).
func NewHandlerWithInterfaces(workflow WorkflowService, engine GamificationService, defaultLang string, log *logger.Logger) *Handler {
	if defaultLang == "" {
		defaultLang = i18n.LangEnglish
	}
	return &Handler{workflow: workflow, engine: engine, defaultLang: defaultLang, log: log}
}

// RegisterRoutes attaches all portal routes under /api/v1.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/events", h.SubmitEvent)
		v1.POST("/hadiths", h.SubmitHadith)
		v1.GET("/events", h.ListEvents)
		v1.GET("/events/:id", h.GetEvent)
		v1.GET("/hadiths", h.ListHadiths)
		v1.GET("/hadiths/:id", h.GetHadith)
		v1.GET("/verses/:surah", h.ListVerses)
		v1.POST("/content/:kind/:id/approve", h.Approve)
		v1.POST("/content/:kind/:id/reject", h.Reject)
		v1.DELETE("/content/:kind/:id", h.Delete)
		v1.GET("/moderation/events", h.PendingEvents)
		v1.GET("/moderation/hadiths", h.PendingHadiths)
		v1.GET("/users/:id/points", h.GetPoints)
		v1.GET("/users/:id/badges", h.GetUserBadges)
		v1.GET("/badges", h.GetBadgeCatalog)
		v1.POST("/bookmarks", h.AddBookmark)
		v1.DELETE("/bookmarks/:kind/:id", h.RemoveBookmark)
		v1.GET("/bookmarks", h.ListBookmarks)
		v1.POST("/events/:id/links", h.LinkEvent)
	}
}

type eventRequest struct {
	TitleEn   string   `json:"title_en" binding:"required"`
	TitleUr   string   `json:"title_ur" binding:"required"`
	DetailEn  string   `json:"detail_en" binding:"required"`
	DetailUr  string   `json:"detail_ur" binding:"required"`
	EventDate string   `json:"event_date" binding:"required"` // RFC 3339
	Category  string   `json:"category" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type hadithRequest struct {
	TitleEn    string `json:"title_en" binding:"required"`
	TitleUr    string `json:"title_ur" binding:"required"`
	TextEn     string `json:"text_en" binding:"required"`
	TextUr     string `json:"text_ur" binding:"required"`
	SourceEn   string `json:"source_en"`
	SourceUr   string `json:"source_ur"`
	NarratorEn string `json:"narrator_en"`
	NarratorUr string `json:"narrator_ur"`
}

type bookmarkRequest struct {
	ItemKind string `json:"item_kind" binding:"required"`
	ItemID   uint   `json:"item_id" binding:"required"`
}

type linkRequest struct {
	TargetKind string `json:"target_kind" binding:"required"`
	TargetID   uint   `json:"target_id" binding:"required"`
}

// SubmitEvent handles POST /api/v1/events.
func (h *Handler) SubmitEvent(c *gin.Context) {
	actorID, err := h.actorID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "event_date must be RFC 3339")
		return
	}

	event, err := h.workflow.SubmitEvent(c.Request.Context(), moderation.EventSubmission{
		TitleEn:   req.TitleEn,
		TitleUr:   req.TitleUr,
		DetailEn:  req.DetailEn,
		DetailUr:  req.DetailUr,
		EventDate: eventDate,
		Category:  req.Category,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}, actorID)
	if err != nil {
		h.serviceError(c, err, "Failed to submit event")
		return
	}

	c.JSON(http.StatusCreated, event)
}

// SubmitHadith handles POST /api/v1/hadiths.
func (h *Handler) SubmitHadith(c *gin.Context) {
	actorID, err := h.actorID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req hadithRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	hadith, err := h.workflow.SubmitHadith(c.Request.Context(), moderation.HadithSubmission{
		TitleEn:    req.TitleEn,
		TitleUr:    req.TitleUr,
		TextEn:     req.TextEn,
		TextUr:     req.TextUr,
		SourceEn:   req.SourceEn,
		SourceUr:   req.SourceUr,
		NarratorEn: req.NarratorEn,
		NarratorUr: req.NarratorUr,
	}, actorID)
	if err != nil {
		h.serviceError(c, err, "Failed to submit hadith")
		return
	}

	c.JSON(http.StatusCreated, hadith)
}

type eventView struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	EventDate time.Time `json:"event_date"`
	Category  string    `json:"category"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Language  string    `json:"language"`
}

type hadithView struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Source   string `json:"source,omitempty"`
	Narrator string `json:"narrator,omitempty"`
	Language string `json:"language"`
}

func newEventView(e *models.Event, lang string) eventView {
	return eventView{
		ID:        e.ID,
		Title:     i18n.Resolve(e.TitleEn, e.TitleUr, lang),
		Detail:    i18n.Resolve(e.DetailEn, e.DetailUr, lang),
		EventDate: e.EventDate,
		Category:  e.Category,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
		Language:  lang,
	}
}

func newHadithView(h *models.Hadith, lang string) hadithView {
	return hadithView{
		ID:       h.ID,
		Title:    i18n.Resolve(h.TitleEn, h.TitleUr, lang),
		Text:     i18n.Resolve(h.TextEn, h.TextUr, lang),
		Source:   i18n.Resolve(h.SourceEn, h.SourceUr, lang),
		Narrator: i18n.Resolve(h.NarratorEn, h.NarratorUr, lang),
		Language: lang,
	}
}

func (h *Handler) langParam(c *gin.Context) (string, error) {
	lang := c.DefaultQuery("lang", h.defaultLang)
	if lang != i18n.LangEnglish && lang != i18n.LangUrdu {
		return "", fmt.Errorf("unsupported language %q", lang)
	}
	return lang, nil
}

// ListEvents handles GET /api/v1/events. Approved events only, resolved to
// the requested display language.
func (h *Handler) ListEvents(c *gin.Context) {
	lang, err := h.langParam(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, offset := h.pageParams(c)

	events, err := h.workflow.ApprovedEvents(c.Request.Context(), limit, offset)
	if err != nil {
		h.serviceError(c, err, "Failed to list events")
		return
	}

	views := make([]eventView, 0, len(events))
	for i := range events {
		views = append(views, newEventView(&events[i], lang))
	}

	c.JSON(http.StatusOK, gin.H{"events": views, "count": len(views)})
}

// GetEvent handles GET /api/v1/events/:id.
func (h *Handler) GetEvent(c *gin.Context) {
	lang, err := h.langParam(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.paramID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	event, links, err := h.workflow.GetApprovedEvent(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "Failed to get event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": newEventView(event, lang), "links": links})
}

// ListHadiths handles GET /api/v1/hadiths.
func (h *Handler) ListHadiths(c *gin.Context) {
	lang, err := h.langParam(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, offset := h.pageParams(c)

	hadiths, err := h.workflow.ApprovedHadiths(c.Request.Context(), limit, offset)
	if err != nil {
		h.serviceError(c, err, "Failed to list hadiths")
		return
	}

	views := make([]hadithView, 0, len(hadiths))
	for i := range hadiths {
		views = append(views, newHadithView(&hadiths[i], lang))
	}

	c.JSON(http.StatusOK, gin.H{"hadiths": views, "count": len(views)})
}

// GetHadith handles GET /api/v1/hadiths/:id.
func (h *Handler) GetHadith(c *gin.Context) {
	lang, err := h.langParam(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.paramID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	hadith, err := h.workflow.GetApprovedHadith(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "Failed to get hadith")
		return
	}

	c.JSON(http.StatusOK, gin.H{"hadith": newHadithView(hadith, lang)})
}

// ListVerses handles GET /api/v1/verses/:surah.
func (h *Handler) ListVerses(c *gin.Context) {
	surah, err := strconv.Atoi(c.Param("surah"))
	if err != nil || surah <= 0 {
		h.errorResponse(c, http.StatusBadRequest, "invalid surah parameter")
		return
	}

	verses, err := h.workflow.VersesBySurah(c.Request.Context(), surah)
	if err != nil {
		h.serviceError(c, err, "Failed to list verses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"surah": surah, "verses": verses, "count": len(verses)})
}

// Approve handles POST /api/v1/content/:kind/:id/approve.
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.workflow.Approve)
}

// Reject handles POST /api/v1/content/:kind/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.workflow.Reject)
}

func (h *Handler) decide(c *gin.Context, op func(ctx context.Context, kind string, id, actorID uint) error) {
	actorID, err := h.actorID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	kind, id, err := h.contentParams(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := op(c.Request.Context(), kind, id, actorID); err != nil {
		h.serviceError(c, err, "Moderation decision failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"kind": kind, "id": id})
}

// Delete handles DELETE /api/v1/content/:kind/:id.
func (h *Handler) Delete(c *gin.Context) {
	actorID, err := h.actorID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	kind, id, err := h.contentParams(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workflow.Delete(c.Request.Context(), kind, id, actorID); err != nil {
		h.serviceError(c, err, "Failed to delete content")
		return
	}

	c.Status(http.StatusNoContent)
}

// PendingEvents handles GET /api/v1/moderation/events.
func (h *Handler) PendingEvents(c *gin.Context) {
	actorID, err := h.actorID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, offset := h.pageParams(c)

	events, err := h.workflow.PendingEvents(c.Request.Context(), actorID, limit, offset)
	if err != nil {
		h.serviceError(c, err, "Failed to list pending events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// PendingHadiths handles GET /api/v1/moderation/hadiths.
func (h *Handler) PendingHadiths(c *gin.Context) {
	actorID, err := h.actorID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, offset := h.pageParams(c)

	hadiths, err := h.workflow.PendingHadiths(c.Request.Context(), actorID, limit, offset)
	if err != nil {
		h.serviceError(c, err, "Failed to list pending hadiths")
		return
	}

	c.JSON(http.StatusOK, gin.H{"hadiths": hadiths, "count": len(hadiths)})
}

// GetPoints handles GET /api/v1/users/:id/points.
func (h *Handler) GetPoints(c *gin.Context) {
	userID, err := h.paramID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	points, err := h.engine.GetPoints(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err, "Failed to get points")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "points": points})
}

// GetUserBadges handles GET /api/v1/users/:id/badges.
func (h *Handler) GetUserBadges(c *gin.Context) {
	userID, err := h.paramID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	badges, err := h.engine.ListBadges(c.Request.Context(), userID)
	if err != nil {
		h.serviceError(c, err, "Failed to get user badges")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "badges": badges, "total_badges": len(badges)})
}

// GetBadgeCatalog handles GET /api/v1/badges.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	badges, err := h.engine.BadgeCatalog(c.Request.Context())
	if err != nil {
		h.serviceError(c, err, "Failed to get badge catalog")
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

// AddBookmark handles POST /api/v1/bookmarks.
func (h *Handler) AddBookmark(c *gin.Context) {
	actorID, err := h.actorID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workflow.AddBookmark(c.Request.Context(), actorID, req.ItemKind, req.ItemID); err != nil {
		h.serviceError(c, err, "Failed to add bookmark")
		return
	}

	c.Status(http.StatusCreated)
}

// RemoveBookmark handles DELETE /api/v1/bookmarks/:kind/:id.
func (h *Handler) RemoveBookmark(c *gin.Context) {
	actorID, err := h.actorID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	kind, id, err := h.contentParams(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workflow.RemoveBookmark(c.Request.Context(), actorID, kind, id); err != nil {
		h.serviceError(c, err, "Failed to remove bookmark")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListBookmarks handles GET /api/v1/bookmarks.
func (h *Handler) ListBookmarks(c *gin.Context) {
	actorID, err := h.actorID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	bookmarks, err := h.workflow.ListBookmarks(c.Request.Context(), actorID)
	if err != nil {
		h.serviceError(c, err, "Failed to list bookmarks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks, "count": len(bookmarks)})
}

// LinkEvent handles POST /api/v1/events/:id/links.
func (h *Handler) LinkEvent(c *gin.Context) {
	eventID, err := h.paramID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	link, err := h.workflow.LinkEvent(c.Request.Context(), eventID, req.TargetKind, req.TargetID)
	if err != nil {
		h.serviceError(c, err, "Failed to link event")
		return
	}

	c.JSON(http.StatusCreated, link)
}

// actorID reads the acting user from the X-User-ID header.
func (h *Handler) actorID(c *gin.Context) (uint, error) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		return 0, fmt.Errorf("X-User-ID header is required")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid X-User-ID %q", raw)
	}
	return uint(id), nil
}

func (h *Handler) paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return uint(id), nil
}

func (h *Handler) contentParams(c *gin.Context) (string, uint, error) {
	kind := c.Param("kind")
	if kind != models.KindEvent && kind != models.KindHadith {
		return "", 0, fmt.Errorf("unknown content kind %q", kind)
	}
	id, err := h.paramID(c, "id")
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

func (h *Handler) pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// serviceError maps workflow and storage errors to HTTP status codes.
func (h *Handler) serviceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, moderation.ErrForbidden):
		h.errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, moderation.ErrInvalidTransition):
		h.errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrConflict):
		h.errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, moderation.ErrInvalidSubmission):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg(message)
		h.errorResponse(c, http.StatusInternalServerError, message)
	}
}

func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
