package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/visibility"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned by Repository.Insert when another record
	// holding the same natural key landed first.
	ErrDuplicateKey = errors.New("a record with this key already exists")
)

// ConflictError reports a record whose natural key kept colliding even
// after the insert was retried as an update.
type ConflictError struct {
	Key Key
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting record for student %s on %s", e.Key.StudentID, e.Key.Date.Format("2006-01-02"))
}

type (
	Repository interface {
		// FindByKey returns the record holding the natural key, or ErrNotFound.
		FindByKey(ctx context.Context, key Key) (Record, error)
		// Insert stores a new record. It returns ErrDuplicateKey when the
		// key is already taken.
		Insert(ctx context.Context, rec Record) (Record, error)
		UpdateRecord(ctx context.Context, rec Record) (Record, error)
		// Query returns the records of the kind matching the predicate,
		// ordered by date descending then student.
		Query(ctx context.Context, kind visibility.RecordKind, pred visibility.Predicate) ([]Record, error)
		DeleteRecordsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo     Repository
		resolver *visibility.Resolver
		logger   core.Logger
	}

	// Result summarizes one registration batch. Counts refer to items, not
	// batches; a resubmitted unchanged roster yields all Updated.
	Result struct {
		Created int           `json:"created"`
		Updated int           `json:"updated"`
		Skipped []SkippedItem `json:"skipped,omitempty"`
	}

	SkippedItem struct {
		StudentID string `json:"student_id"`
		Reason    string `json:"reason"`
	}
)

func NewService(repo Repository, resolver *visibility.Resolver, logger core.Logger) *Service {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Service{repo: repo, resolver: resolver, logger: logger}
}

// Register upserts the roster against the batch context. Each item lands
// on its natural key: existing records are updated in place, new ones
// inserted, invalid values skipped. The roster is processed in order; a
// store failure aborts the batch and returns the partial result alongside
// the error, so callers can tell what already landed.
func (svc *Service) Register(ctx context.Context, ident visibility.Identity, rctx Context, roster Roster) (Result, error) {
	var res Result

	if len(roster) == 0 {
		return res, core.NewValidationError(nil, core.FieldError{Field: "roster", Error: "roster is empty"})
	}
	if err := rctx.Validate(); err != nil {
		return res, err
	}
	if err := svc.resolver.AuthorizeWrite(ctx, ident, rctx.Kind, visibility.WriteContext{
		InstitutionID: rctx.InstitutionID,
		TeacherID:     rctx.TeacherID,
		GradeLevel:    rctx.GradeLevel,
		Section:       rctx.Section,
		CommissionID:  rctx.CommissionID,
	}); err != nil {
		return res, err
	}

	for _, item := range roster {
		if item.StudentID == "" {
			res.Skipped = append(res.Skipped, SkippedItem{Reason: "missing student id"})
			continue
		}
		if !validValue(rctx.Kind, item.Value) {
			svc.logger.Warn("skipping roster item with invalid value",
				"student", item.StudentID, "kind", rctx.Kind, "value", item.Value)
			res.Skipped = append(res.Skipped, SkippedItem{StudentID: item.StudentID, Reason: "invalid value"})
			continue
		}

		created, err := svc.registerItem(ctx, rctx, item)
		if err != nil {
			var conflict *ConflictError
			if errors.As(err, &conflict) {
				res.Skipped = append(res.Skipped, SkippedItem{StudentID: item.StudentID, Reason: conflict.Error()})
				continue
			}
			return res, pkgerrors.Wrapf(err, "registering record for student %s", item.StudentID)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

// registerItem lands one roster item on its natural key. The returned
// bool is true when a new record was inserted.
func (svc *Service) registerItem(ctx context.Context, rctx Context, item Item) (bool, error) {
	rec := newRecord(rctx, item)
	key := rec.Key()

	existing, err := svc.repo.FindByKey(ctx, key)
	switch {
	case err == nil:
		_, err = svc.repo.UpdateRecord(ctx, restamp(existing, rec))
		return false, err
	case errors.Is(err, ErrNotFound):
	default:
		return false, err
	}

	if _, err = svc.repo.Insert(ctx, rec); err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrDuplicateKey) {
		return false, err
	}

	// someone inserted the same key between our lookup and the insert;
	// retry once as an update
	existing, err = svc.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, &ConflictError{Key: key}
		}
		return false, err
	}
	if _, err = svc.repo.UpdateRecord(ctx, restamp(existing, rec)); err != nil {
		return false, err
	}
	return false, nil
}

func newRecord(rctx Context, item Item) Record {
	now := time.Now().UTC()
	rec := Record{
		Kind:          rctx.Kind,
		InstitutionID: rctx.InstitutionID,
		StudentID:     item.StudentID,
		TeacherID:     rctx.TeacherID,
		Course:        rctx.Course,
		GradeLevel:    rctx.GradeLevel,
		Section:       rctx.Section,
		CommissionID:  rctx.CommissionID,
		Date:          core.StartOfDay(rctx.Date),
		Comment:       item.Comment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if rctx.Kind == visibility.KindGrade {
		rec.ExamType = rctx.ExamType
		rec.Score = item.Value
	} else {
		rec.Status = item.Value
	}
	return rec
}

// restamp carries the new value and authorship onto the stored record.
// Identity and creation metadata stay put.
func restamp(existing, incoming Record) Record {
	existing.TeacherID = incoming.TeacherID
	existing.Status = incoming.Status
	existing.Score = incoming.Score
	existing.Comment = incoming.Comment
	existing.ExamType = incoming.ExamType
	existing.UpdatedAt = time.Now().UTC()
	return existing
}

// Existing summarizes a record already stored for the batch context, so a
// client can warn before overwriting.
type Existing struct {
	StudentID string    `json:"student_id"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckExisting returns the records that a registration with this context
// would overwrite, one per student already recorded.
func (svc *Service) CheckExisting(ctx context.Context, ident visibility.Identity, rctx Context) ([]Existing, error) {
	if err := rctx.Validate(); err != nil {
		return nil, err
	}
	if err := svc.resolver.AuthorizeWrite(ctx, ident, rctx.Kind, visibility.WriteContext{
		InstitutionID: rctx.InstitutionID,
		TeacherID:     rctx.TeacherID,
		GradeLevel:    rctx.GradeLevel,
		Section:       rctx.Section,
		CommissionID:  rctx.CommissionID,
	}); err != nil {
		return nil, err
	}

	key := newRecord(rctx, Item{}).Key()
	pred := visibility.All(
		visibility.Eq(visibility.FieldInstitution, key.InstitutionID),
		visibility.Eq(visibility.FieldCourse, key.Course),
		visibility.Eq(visibility.FieldGradeLevel, key.GradeLevel),
		visibility.Eq(visibility.FieldSection, key.Section),
		visibility.Eq(visibility.FieldCommission, key.CommissionID),
		visibility.Eq(visibility.FieldExamType, key.ExamType),
		visibility.Gte(visibility.FieldDate, key.Date),
		visibility.Lte(visibility.FieldDate, core.EndOfDay(key.Date)),
	)
	recs, err := svc.repo.Query(ctx, rctx.Kind, pred)
	if err != nil {
		return nil, err
	}

	out := make([]Existing, 0, len(recs))
	for _, rec := range recs {
		val := rec.Status
		if rctx.Kind == visibility.KindGrade {
			val = rec.Score
		}
		out = append(out, Existing{StudentID: rec.StudentID, Value: val, UpdatedAt: rec.UpdatedAt})
	}
	return out, nil
}

// Query returns the records of the kind the identity may see, narrowed by
// the filters.
func (svc *Service) Query(ctx context.Context, ident visibility.Identity, kind visibility.RecordKind, filters visibility.Filters) ([]Record, error) {
	pred, err := svc.resolver.Resolve(ctx, ident, kind, filters)
	if err != nil {
		return nil, err
	}
	return svc.repo.Query(ctx, kind, pred)
}
