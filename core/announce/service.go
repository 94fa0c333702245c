package announce

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/qori-edu/backend/core"
	"github.com/qori-edu/backend/core/user"
	"github.com/qori-edu/backend/core/visibility"
)

var ErrNotFound = errors.New("announcement not found")

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, ann Announcement) (Announcement, error)
		GetAnnouncementByID(ctx context.Context, id string) (Announcement, error)
		// QueryAnnouncements returns announcements matching the predicate,
		// newest first.
		QueryAnnouncements(ctx context.Context, pred visibility.Predicate) ([]Announcement, error)
		DeleteAnnouncementByID(ctx context.Context, id string) error

		CreateTutoringAnnouncement(ctx context.Context, ann TutoringAnnouncement) (TutoringAnnouncement, error)
		GetTutoringAnnouncementByID(ctx context.Context, id string) (TutoringAnnouncement, error)
		QueryTutoringAnnouncements(ctx context.Context, pred visibility.Predicate) ([]TutoringAnnouncement, error)
		DeleteTutoringAnnouncementByID(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		resolver *visibility.Resolver
		users    user.Repository
		mailer   core.EmailService
		logger   core.Logger
	}
)

// NewService wires the announcement service. mailer may be nil, in which
// case directly addressed students are not notified by email.
func NewService(repo Repository, resolver *visibility.Resolver, users user.Repository, mailer core.EmailService, logger core.Logger) *Service {
	if logger == nil {
		logger = core.NopLogger()
	}
	return &Service{repo: repo, resolver: resolver, users: users, mailer: mailer, logger: logger}
}

func (svc *Service) Create(ctx context.Context, ident visibility.Identity, na NewAnnouncement) (Announcement, error) {
	if err := na.Validate(); err != nil {
		return Announcement{}, err
	}
	if na.SenderID != ident.ID {
		return Announcement{}, core.NewPermissionError("announcements may only be sent as oneself")
	}
	if err := svc.resolver.AuthorizeWrite(ctx, ident, visibility.KindAnnouncement, visibility.WriteContext{
		InstitutionID: na.InstitutionID,
	}); err != nil {
		return Announcement{}, err
	}

	now := time.Now().UTC()
	ann, err := svc.repo.CreateAnnouncement(ctx, Announcement{
		InstitutionID: na.InstitutionID,
		SenderID:      na.SenderID,
		Subject:       na.Subject,
		Message:       na.Message,
		GradeLevel:    na.GradeLevel,
		Section:       na.Section,
		Course:        na.Course,
		StudentID:     na.StudentID,
		CommissionID:  na.CommissionID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return Announcement{}, err
	}

	svc.notify(ctx, ann)
	return ann, nil
}

// notify emails the directly addressed student, best effort. Broadcast
// announcements are read in-app only.
func (svc *Service) notify(ctx context.Context, ann Announcement) {
	if svc.mailer == nil || ann.StudentID == "" {
		return
	}
	std, err := svc.users.GetUser(ctx, user.GetFilter{ID: ann.StudentID})
	if err != nil {
		svc.logger.Warn("announcement recipient lookup failed", "student", ann.StudentID, "err", err)
		return
	}
	if std.Email == "" {
		return
	}
	svc.mailer.SendMessages(&core.EmailMessage{
		Bcc:     []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: ann.Subject,
		Body:    ann.Message,
	})
}

func (svc *Service) Query(ctx context.Context, ident visibility.Identity, filters visibility.Filters) ([]Announcement, error) {
	pred, err := svc.resolver.Resolve(ctx, ident, visibility.KindAnnouncement, filters)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryAnnouncements(ctx, pred)
}

// Delete removes an announcement. Only its sender or an administrator of
// the same institution may do so.
func (svc *Service) Delete(ctx context.Context, ident visibility.Identity, id string) error {
	ann, err := svc.repo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return err
	}
	if ann.InstitutionID != ident.InstitutionID {
		return core.NewPermissionError("cannot delete announcements of another institution")
	}
	if ann.SenderID != ident.ID && ident.Role != user.RoleAdmin {
		return core.NewPermissionError("only the sender or an administrator may delete an announcement")
	}
	return svc.repo.DeleteAnnouncementByID(ctx, id)
}

func (svc *Service) CreateTutoring(ctx context.Context, ident visibility.Identity, na NewTutoringAnnouncement) (TutoringAnnouncement, error) {
	if err := na.Validate(); err != nil {
		return TutoringAnnouncement{}, err
	}
	if na.SenderID != ident.ID {
		return TutoringAnnouncement{}, core.NewPermissionError("announcements may only be sent as oneself")
	}
	if err := svc.resolver.AuthorizeWrite(ctx, ident, visibility.KindTutoringAnnouncement, visibility.WriteContext{
		InstitutionID: na.InstitutionID,
		GradeLevel:    na.GradeLevel,
		Section:       na.Section,
	}); err != nil {
		return TutoringAnnouncement{}, err
	}

	now := time.Now().UTC()
	return svc.repo.CreateTutoringAnnouncement(ctx, TutoringAnnouncement{
		InstitutionID: na.InstitutionID,
		SenderID:      na.SenderID,
		Subject:       na.Subject,
		Message:       na.Message,
		GradeLevel:    na.GradeLevel,
		Section:       na.Section,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (svc *Service) QueryTutoring(ctx context.Context, ident visibility.Identity, filters visibility.Filters) ([]TutoringAnnouncement, error) {
	pred, err := svc.resolver.Resolve(ctx, ident, visibility.KindTutoringAnnouncement, filters)
	if err != nil {
		return nil, err
	}
	return svc.repo.QueryTutoringAnnouncements(ctx, pred)
}

func (svc *Service) DeleteTutoring(ctx context.Context, ident visibility.Identity, id string) error {
	ann, err := svc.repo.GetTutoringAnnouncementByID(ctx, id)
	if err != nil {
		return err
	}
	if ann.InstitutionID != ident.InstitutionID {
		return core.NewPermissionError("cannot delete announcements of another institution")
	}
	if ann.SenderID != ident.ID && ident.Role != user.RoleAdmin {
		return core.NewPermissionError("only the sender or an administrator may delete an announcement")
	}
	return svc.repo.DeleteTutoringAnnouncementByID(ctx, id)
}
