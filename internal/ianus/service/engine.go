package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ianus-labs/ianus/server/internal/ianus/matcher"
	"github.com/ianus-labs/ianus/server/internal/ianus/store"
	"github.com/ianus-labs/ianus/server/internal/ianus/types"
	"github.com/ianus-labs/ianus/server/internal/logger"
)

var (
	ErrInvalidDeviceID = errors.New("hardware_id is required")
	ErrInvalidSlot     = errors.New("finger_slot must name a finger")
	ErrEmptyCapture    = errors.New("capture is empty")

	// ErrTemplateCreation — the capture was unusable; the caller should
	// rescan.  No audit record is written.
	ErrTemplateCreation = errors.New("template creation failed")

	// ErrIdentification — the matcher could not run identification, or a
	// winning candidate could not be resolved to a user.  No audit
	// record is written.
	ErrIdentification = errors.New("identification failed")

	// ErrInternal — a persistence failure below the engine.  Nothing
	// implementation-specific leaks past this.
	ErrInternal = errors.New("internal error")
)

// Engine turns one fingerprint capture into an authorization decision.
//
// One attempt walks: template extraction → 1:N identification against the
// claimed-slot gallery → authorization check against the room bound to the
// presenting device → exactly one audit write for attempts that reach a
// terminal authorization outcome.  Attempts that die earlier (unusable
// capture, matcher failure, no match) write nothing.
type Engine struct {
	sessions        *matcher.SessionGuard
	directory       store.Directory
	enrollmentStore store.EnrollmentStore
	registry        *DeviceRegistry
	logger          *logger.Logger
}

func NewEngine(
	sessions *matcher.SessionGuard,
	directory store.Directory,
	es store.EnrollmentStore,
	registry *DeviceRegistry,
	log *logger.Logger,
) *Engine {
	return &Engine{
		sessions:        sessions,
		directory:       directory,
		enrollmentStore: es,
		registry:        registry,
		logger:          log,
	}
}

// Decide runs a single access attempt.  Denials are decisions, not
// errors; the error return carries only the engine taxonomy
// (ErrTemplateCreation, ErrIdentification, ErrInternal, invalid input).
func (e *Engine) Decide(ctx context.Context, capture []byte, slot types.FingerSlot, hardwareID string) (types.Decision, error) {
	now := time.Now().UTC()

	hardwareID = strings.TrimSpace(hardwareID)
	if hardwareID == "" {
		return types.Decision{}, ErrInvalidDeviceID
	}
	if !slot.Valid() {
		return types.Decision{}, ErrInvalidSlot
	}
	if len(capture) == 0 {
		return types.Decision{}, ErrEmptyCapture
	}

	// Liveness bookkeeping; never blocks the decision.
	known, _ := e.registry.IsKnown(ctx, hardwareID)
	_ = e.registry.NoteSeen(ctx, hardwareID, known)

	result, err := e.identify(ctx, capture, slot)
	if err != nil {
		return types.Decision{}, err
	}

	if result.Status == matcher.StatusNoMatch {
		// Not recognized.  No user was resolved, so there is nothing to
		// attach an audit record to — the attempt ends here.
		return types.Decision{
			Granted: false,
			Reason:  types.ReasonNoMatch,
			Message: "fingerprint not recognized",
		}, nil
	}

	winner := bestMatch(result.Matches)

	user, ok, err := e.directory.UserByID(ctx, winner.UserID)
	if err != nil {
		return types.Decision{}, fmt.Errorf("%w: user lookup: %w", ErrInternal, err)
	}
	if !ok {
		// A template matched but its owner is gone from the directory.
		return types.Decision{}, fmt.Errorf("%w: matched user %s not found", ErrIdentification, winner.UserID)
	}

	room, bound, err := e.directory.RoomForDevice(ctx, hardwareID)
	if err != nil {
		return types.Decision{}, fmt.Errorf("%w: room lookup: %w", ErrInternal, err)
	}

	authorized := false
	if bound {
		authorized, err = e.directory.IsUserAuthorizedForRoom(ctx, user.ID, room.ID)
		if err != nil {
			return types.Decision{}, fmt.Errorf("%w: authorization lookup: %w", ErrInternal, err)
		}
	}

	rec := store.EnrollmentRecord{
		ID:            uuid.New(),
		UserID:        &user.ID,
		HardwareID:    hardwareID,
		Slot:          slot,
		Confirmed:     authorized,
		UserFirstName: user.FirstName,
		UserLastName:  user.LastName,
		DecidedAt:     now,
	}

	// Attach the user's stored template for this slot.  Its absence is
	// tolerated — the audit record is still written.
	if fp, found, fpErr := e.directory.FingerprintBySlotAndUser(ctx, slot, user.ID); fpErr == nil && found {
		rec.FingerprintID = &fp.ID
	}

	switch {
	case authorized:
		rec.Reason = types.ReasonAuthorized
		rec.RoomID = &room.ID
		rec.RoomNumber = &room.Number
		rec.BuildingNumber = &room.BuildingNumber
	case bound:
		rec.Reason = types.ReasonNoPermission
	default:
		rec.Reason = types.ReasonDeviceUnbound
	}

	e.recordEnrollment(ctx, rec)

	name := user.DisplayName()
	decision := types.Decision{
		Granted:  authorized,
		Reason:   rec.Reason,
		UserName: &name,
	}
	if authorized {
		decision.Message = fmt.Sprintf("access granted to room %d", room.Number)
	} else {
		decision.Message = "access denied: no permission for this room"
	}
	return decision, nil
}

// identify holds the matcher session for the capture→extract→identify
// span.  The session guard clears session state before and after, so
// nothing leaks between attempts and two attempts never interleave.
func (e *Engine) identify(ctx context.Context, capture []byte, slot types.FingerSlot) (matcher.IdentifyResult, error) {
	var result matcher.IdentifyResult

	err := e.sessions.With(ctx, func(m matcher.Matcher) error {
		probe, err := m.ExtractTemplate(ctx, capture)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTemplateCreation, err)
		}

		fps, err := e.directory.FingerprintsBySlot(ctx, slot)
		if err != nil {
			return fmt.Errorf("%w: gallery read: %w", ErrInternal, err)
		}

		gallery := make([]matcher.GalleryEntry, 0, len(fps))
		for _, fp := range fps {
			gallery = append(gallery, matcher.GalleryEntry{
				FingerprintID: fp.ID,
				UserID:        fp.UserID,
				Template:      fp.Template,
			})
		}

		result, err = m.Identify(ctx, probe, gallery)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIdentification, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTemplateCreation) || errors.Is(err, ErrIdentification) || errors.Is(err, ErrInternal) {
			return matcher.IdentifyResult{}, err
		}
		// Session acquisition/clear failures.
		return matcher.IdentifyResult{}, fmt.Errorf("%w: %w", ErrIdentification, err)
	}

	if result.Status == matcher.StatusError {
		return matcher.IdentifyResult{}, ErrIdentification
	}
	if result.Status == matcher.StatusOK && len(result.Matches) == 0 {
		// Matcher contract violation; treat the same as a failed run.
		return matcher.IdentifyResult{}, ErrIdentification
	}
	return result, nil
}

// bestMatch picks the single highest score.  Ties break by first-seen
// order, which makes duplicate-score galleries deterministic for tests.
func bestMatch(matches []matcher.ScoredMatch) matcher.ScoredMatch {
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Score > best.Score {
			best = m
		}
	}
	return best
}

// recordEnrollment persists the audit record.  Errors are logged, not
// returned — a failed audit write should not prevent the scanner from
// receiving its access decision.
func (e *Engine) recordEnrollment(ctx context.Context, rec store.EnrollmentRecord) {
	if err := e.enrollmentStore.RecordEnrollment(ctx, rec); err != nil {
		e.logger.Error("enrollment write failed",
			"hardware_id", rec.HardwareID,
			"reason", string(rec.Reason),
			"error", err.Error())
	}
}
