// Package moderation implements the content lifecycle state machine with
// role-gated transitions. Every mutating operation runs in one database
// transaction spanning the status change and, where applicable, the
// gamification recompute.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	prommetrics "github.com/hfarooqi/tarikh-portal/internal/metrics"
	"github.com/hfarooqi/tarikh-portal/internal/models"
	"github.com/hfarooqi/tarikh-portal/internal/repository"
	"github.com/hfarooqi/tarikh-portal/internal/service/gamification"
	"github.com/hfarooqi/tarikh-portal/pkg/logger"
)

var (
	// ErrForbidden is returned when the actor lacks the capability for an
	// operation. Nothing is mutated.
	ErrForbidden = errors.New("actor is not allowed to perform this operation")

	// ErrInvalidTransition is returned when an operation is illegal in the
	// item's current lifecycle state.
	ErrInvalidTransition = errors.New("operation not legal in current status")

	// ErrInvalidSubmission is returned when submitted content fails field
	// validation.
	ErrInvalidSubmission = errors.New("invalid submission")
)

// PointsRecomputer is the gamification surface the workflow invokes on
// approval and on deletion of approved content.
type PointsRecomputer interface {
	RecomputeIn(tx *repository.DB, userID uint) (int, error)
	InvalidateUser(ctx context.Context, userID uint)
}

// Service drives the moderation workflow.
type Service struct {
	db         *repository.DB
	recomputer PointsRecomputer
	log        *logger.Logger
}

// NewService creates a new moderation service.
func NewService(db *repository.DB, engine *gamification.Service, log *logger.Logger) *Service {
	return &Service{db: db, recomputer: engine, log: log}
}

// NewServiceWithInterfaces creates a new moderation service with interface
// dependencies (useful for testing).
func NewServiceWithInterfaces(db *repository.DB, recomputer PointsRecomputer, log *logger.Logger) *Service {
	return &Service{db: db, recomputer: recomputer, log: log}
}

// EventSubmission carries the caller-supplied fields of a new event.
type EventSubmission struct {
	TitleEn   string
	TitleUr   string
	DetailEn  string
	DetailUr  string
	EventDate time.Time
	Category  string
	Latitude  *float64
	Longitude *float64
}

func (s EventSubmission) validate() error {
	if s.TitleEn == "" || s.TitleUr == "" || s.DetailEn == "" || s.DetailUr == "" {
		return fmt.Errorf("both language variants of title and detail are required: %w", ErrInvalidSubmission)
	}
	if s.Category != models.CategoryIslamic && s.Category != models.CategoryGeneral {
		return fmt.Errorf("unknown category %q: %w", s.Category, ErrInvalidSubmission)
	}
	if s.EventDate.IsZero() {
		return fmt.Errorf("event date is required: %w", ErrInvalidSubmission)
	}
	if (s.Latitude == nil) != (s.Longitude == nil) {
		return fmt.Errorf("coordinates require both latitude and longitude: %w", ErrInvalidSubmission)
	}
	return nil
}

// HadithSubmission carries the caller-supplied fields of a new hadith.
type HadithSubmission struct {
	TitleEn    string
	TitleUr    string
	TextEn     string
	TextUr     string
	SourceEn   string
	SourceUr   string
	NarratorEn string
	NarratorUr string
}

func (s HadithSubmission) validate() error {
	if s.TitleEn == "" || s.TitleUr == "" || s.TextEn == "" || s.TextUr == "" {
		return fmt.Errorf("both language variants of title and text are required: %w", ErrInvalidSubmission)
	}
	return nil
}

// SubmitEvent creates a pending event on behalf of the submitter. Any
// registered user may submit.
func (s *Service) SubmitEvent(ctx context.Context, sub EventSubmission, submitterID uint) (*models.Event, error) {
	_ = ctx
	if err := sub.validate(); err != nil {
		return nil, err
	}

	if _, err := repository.NewUserRepository(s.db).GetByID(submitterID); err != nil {
		return nil, err
	}

	event := &models.Event{
		TitleEn:   sub.TitleEn,
		TitleUr:   sub.TitleUr,
		DetailEn:  sub.DetailEn,
		DetailUr:  sub.DetailUr,
		EventDate: sub.EventDate,
		Category:  sub.Category,
		Latitude:  sub.Latitude,
		Longitude: sub.Longitude,
		Moderation: models.Moderation{
			Status:      models.StatusPending,
			SubmittedBy: submitterID,
		},
	}
	if err := repository.NewContentRepository(s.db).CreateEvent(event); err != nil {
		return nil, err
	}

	prommetrics.RecordSubmission(models.KindEvent)
	s.log.Info().
		Uint("event_id", event.ID).
		Uint("submitted_by", submitterID).
		Msg("Event submitted")

	return event, nil
}

// SubmitHadith creates a pending hadith on behalf of the submitter.
func (s *Service) SubmitHadith(ctx context.Context, sub HadithSubmission, submitterID uint) (*models.Hadith, error) {
	_ = ctx
	if err := sub.validate(); err != nil {
		return nil, err
	}

	if _, err := repository.NewUserRepository(s.db).GetByID(submitterID); err != nil {
		return nil, err
	}

	hadith := &models.Hadith{
		TitleEn:    sub.TitleEn,
		TitleUr:    sub.TitleUr,
		TextEn:     sub.TextEn,
		TextUr:     sub.TextUr,
		SourceEn:   sub.SourceEn,
		SourceUr:   sub.SourceUr,
		NarratorEn: sub.NarratorEn,
		NarratorUr: sub.NarratorUr,
		Moderation: models.Moderation{
			Status:      models.StatusPending,
			SubmittedBy: submitterID,
		},
	}
	if err := repository.NewContentRepository(s.db).CreateHadith(hadith); err != nil {
		return nil, err
	}

	prommetrics.RecordSubmission(models.KindHadith)
	s.log.Info().
		Uint("hadith_id", hadith.ID).
		Uint("submitted_by", submitterID).
		Msg("Hadith submitted")

	return hadith, nil
}

// Approve moves a pending item to approved and recomputes the submitter's
// points in the same transaction.
func (s *Service) Approve(ctx context.Context, kind string, id, actorID uint) error {
	return s.decide(ctx, kind, id, actorID, models.StatusApproved)
}

// Reject moves a pending item to rejected. Rejected contributions never
// count toward points, so no recompute happens.
func (s *Service) Reject(ctx context.Context, kind string, id, actorID uint) error {
	return s.decide(ctx, kind, id, actorID, models.StatusRejected)
}

func (s *Service) decide(ctx context.Context, kind string, id, actorID uint, decision string) error {
	action := ActionApprove
	if decision == models.StatusRejected {
		action = ActionReject
	}

	var submitterID uint
	err := s.db.Transaction(func(tx *repository.DB) error {
		actor, err := repository.NewUserRepository(tx).GetByID(actorID)
		if err != nil {
			return err
		}

		contentRepo := repository.NewContentRepository(tx)
		item, err := contentRepo.GetModeration(kind, id)
		if err != nil {
			return err
		}

		if !Can(actor, action, item) {
			return fmt.Errorf("%s %d by user %d: %w", action, id, actorID, ErrForbidden)
		}
		if item.Status != models.StatusPending {
			return fmt.Errorf("cannot %s %s %d in status %s: %w", action, kind, id, item.Status, ErrInvalidTransition)
		}

		now := time.Now()
		if err := contentRepo.SetModeration(kind, id, decision, &actor.ID, &now); err != nil {
			return err
		}

		submitterID = item.SubmittedBy
		if decision == models.StatusApproved {
			if _, err := s.recomputer.RecomputeIn(tx, item.SubmittedBy); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if decision == models.StatusApproved {
		s.recomputer.InvalidateUser(ctx, submitterID)
	}
	prommetrics.RecordModerationDecision(kind, decision)
	s.log.Info().
		Str("kind", kind).
		Uint("item_id", id).
		Uint("actor_id", actorID).
		Str("decision", decision).
		Msg("Moderation decision recorded")

	return nil
}

// Delete removes an item in any state. Moderators may delete anything; a
// submitter may only retract their own still-pending item. Deleting an
// approved item recomputes the submitter's points in the same transaction;
// badges already held survive the decrease.
func (s *Service) Delete(ctx context.Context, kind string, id, actorID uint) error {
	var (
		submitterID uint
		wasApproved bool
	)
	err := s.db.Transaction(func(tx *repository.DB) error {
		actor, err := repository.NewUserRepository(tx).GetByID(actorID)
		if err != nil {
			return err
		}

		contentRepo := repository.NewContentRepository(tx)
		item, err := contentRepo.GetModeration(kind, id)
		if err != nil {
			return err
		}

		if !Can(actor, ActionDelete, item) {
			return fmt.Errorf("delete %s %d by user %d: %w", kind, id, actorID, ErrForbidden)
		}

		if err := contentRepo.Delete(kind, id); err != nil {
			return err
		}

		submitterID = item.SubmittedBy
		wasApproved = item.Status == models.StatusApproved
		if wasApproved {
			if _, err := s.recomputer.RecomputeIn(tx, item.SubmittedBy); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if wasApproved {
		s.recomputer.InvalidateUser(ctx, submitterID)
	}
	prommetrics.RecordModerationDecision(kind, "deleted")
	s.log.Info().
		Str("kind", kind).
		Uint("item_id", id).
		Uint("actor_id", actorID).
		Msg("Content item deleted")

	return nil
}

// PendingEvents lists events awaiting moderation. Moderators only.
func (s *Service) PendingEvents(ctx context.Context, actorID uint, limit, offset int) ([]models.Event, error) {
	_ = ctx
	if err := s.requireModerator(actorID); err != nil {
		return nil, err
	}

	contentRepo := repository.NewContentRepository(s.db)
	events, err := contentRepo.ListEventsByStatus(models.StatusPending, limit, offset)
	if err != nil {
		return nil, err
	}
	s.refreshPendingGauge(contentRepo, models.KindEvent)
	return events, nil
}

// PendingHadiths lists hadiths awaiting moderation. Moderators only.
func (s *Service) PendingHadiths(ctx context.Context, actorID uint, limit, offset int) ([]models.Hadith, error) {
	_ = ctx
	if err := s.requireModerator(actorID); err != nil {
		return nil, err
	}

	contentRepo := repository.NewContentRepository(s.db)
	hadiths, err := contentRepo.ListHadithsByStatus(models.StatusPending, limit, offset)
	if err != nil {
		return nil, err
	}
	s.refreshPendingGauge(contentRepo, models.KindHadith)
	return hadiths, nil
}

func (s *Service) requireModerator(actorID uint) error {
	actor, err := repository.NewUserRepository(s.db).GetByID(actorID)
	if err != nil {
		return err
	}
	if !Can(actor, ActionApprove, nil) {
		return fmt.Errorf("pending queue for user %d: %w", actorID, ErrForbidden)
	}
	return nil
}

func (s *Service) refreshPendingGauge(contentRepo *repository.ContentRepository, kind string) {
	count, err := contentRepo.CountByStatus(kind, models.StatusPending)
	if err != nil {
		s.log.Warn().Err(err).Str("kind", kind).Msg("Failed to refresh pending gauge")
		return
	}
	prommetrics.SetPendingContentItems(kind, int(count))
}

// ApprovedEvents lists approved events for public reading, newest first.
func (s *Service) ApprovedEvents(ctx context.Context, limit, offset int) ([]models.Event, error) {
	_ = ctx
	return repository.NewContentRepository(s.db).ListEventsByStatus(models.StatusApproved, limit, offset)
}

// ApprovedHadiths lists approved hadiths for public reading, newest first.
func (s *Service) ApprovedHadiths(ctx context.Context, limit, offset int) ([]models.Hadith, error) {
	_ = ctx
	return repository.NewContentRepository(s.db).ListHadithsByStatus(models.StatusApproved, limit, offset)
}

// GetApprovedEvent returns one approved event with its content links.
// Non-approved items are invisible to readers. Links whose hadith target has
// since been deleted are dropped from the result.
func (s *Service) GetApprovedEvent(ctx context.Context, id uint) (*models.Event, []models.ContentLink, error) {
	_ = ctx
	contentRepo := repository.NewContentRepository(s.db)

	event, err := contentRepo.GetEvent(id)
	if err != nil {
		return nil, nil, err
	}
	if event.Status != models.StatusApproved {
		return nil, nil, fmt.Errorf("event %d: %w", id, repository.ErrNotFound)
	}

	links, err := contentRepo.ListLinksByEvent(id)
	if err != nil {
		return nil, nil, err
	}

	live := links[:0]
	for _, link := range links {
		if link.TargetKind == models.LinkTargetHadith {
			exists, err := contentRepo.HadithExists(link.TargetID)
			if err != nil {
				return nil, nil, err
			}
			if !exists {
				continue
			}
		}
		live = append(live, link)
	}

	return event, live, nil
}

// GetApprovedHadith returns one approved hadith. Non-approved items are
// invisible to readers.
func (s *Service) GetApprovedHadith(ctx context.Context, id uint) (*models.Hadith, error) {
	_ = ctx
	hadith, err := repository.NewContentRepository(s.db).GetHadith(id)
	if err != nil {
		return nil, err
	}
	if hadith.Status != models.StatusApproved {
		return nil, fmt.Errorf("hadith %d: %w", id, repository.ErrNotFound)
	}
	return hadith, nil
}

// VersesBySurah returns the ingested verses of one surah in recitation order.
func (s *Service) VersesBySurah(ctx context.Context, surah int) ([]models.Ayah, error) {
	_ = ctx
	return repository.NewVerseRepository(s.db).ListBySurah(surah)
}

// AddBookmark saves an item for a user. Duplicate bookmarks conflict.
func (s *Service) AddBookmark(ctx context.Context, userID uint, itemKind string, itemID uint) error {
	_ = ctx
	if itemKind != models.KindEvent && itemKind != models.KindHadith {
		return fmt.Errorf("unknown bookmark kind %q: %w", itemKind, ErrInvalidSubmission)
	}

	if _, err := repository.NewContentRepository(s.db).GetModeration(itemKind, itemID); err != nil {
		return err
	}

	bookmark := &models.Bookmark{UserID: userID, ItemKind: itemKind, ItemID: itemID}
	return repository.NewBookmarkRepository(s.db).Create(bookmark)
}

// RemoveBookmark drops a user's bookmark on an item.
func (s *Service) RemoveBookmark(ctx context.Context, userID uint, itemKind string, itemID uint) error {
	_ = ctx
	return repository.NewBookmarkRepository(s.db).Delete(userID, itemKind, itemID)
}

// ListBookmarks returns a user's bookmarks, newest first.
func (s *Service) ListBookmarks(ctx context.Context, userID uint) ([]models.Bookmark, error) {
	_ = ctx
	return repository.NewBookmarkRepository(s.db).ListByUser(userID)
}

// LinkEvent attaches an ayah or hadith reference to an event. The target must
// exist at link time; there is no foreign key, so later target deletions
// leave the link dangling and readers skip it.
func (s *Service) LinkEvent(ctx context.Context, eventID uint, targetKind string, targetID uint) (*models.ContentLink, error) {
	_ = ctx
	contentRepo := repository.NewContentRepository(s.db)

	if _, err := contentRepo.GetModeration(models.KindEvent, eventID); err != nil {
		return nil, err
	}

	switch targetKind {
	case models.LinkTargetAyah:
		exists, err := repository.NewVerseRepository(s.db).Exists(targetID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("ayah %d: %w", targetID, repository.ErrNotFound)
		}
	case models.LinkTargetHadith:
		exists, err := contentRepo.HadithExists(targetID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("hadith %d: %w", targetID, repository.ErrNotFound)
		}
	default:
		return nil, fmt.Errorf("unknown link target kind %q: %w", targetKind, ErrInvalidSubmission)
	}

	link := &models.ContentLink{EventID: eventID, TargetKind: targetKind, TargetID: targetID}
	if err := contentRepo.CreateLink(link); err != nil {
		return nil, err
	}
	return link, nil
}
