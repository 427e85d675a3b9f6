package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
)

var (
	ErrReportNotFound     = errors.New("report not found")
	ErrNotAdmin           = errors.New("admin access required")
	ErrEmptyReason        = errors.New("report reason cannot be empty")
	ErrInvalidReportState = errors.New("report status must be resolved or dismissed")
)

// ReportMailer notifies the support inbox about new reports. Failures are
// logged and never fail the report itself.
type ReportMailer interface {
	SendReportNotification(ctx context.Context, listingID, reporterID uuid.UUID, reason string) error
}

type ReportService struct {
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
	mailer     ReportMailer
}

func NewReportService(reportRepo repository.ReportRepository, userRepo repository.UserRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
	}
}

// SetMailer sets the support-inbox mailer (optional dependency).
func (s *ReportService) SetMailer(m ReportMailer) {
	s.mailer = m
}

func (s *ReportService) ReportListing(ctx context.Context, reporterID, listingID uuid.UUID, reason string) (*domain.Report, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyReason
	}

	report := &domain.Report{
		ID:         uuid.New(),
		ReporterID: reporterID,
		ListingID:  listingID,
		Reason:     reason,
		Status:     domain.ReportStatusPending,
		CreatedAt:  time.Now(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendReportNotification(ctx, listingID, reporterID, reason); err != nil {
			log.Printf("report: failed to send notification email: %v", err)
		}
	}

	return report, nil
}

func (s *ReportService) ListAll(ctx context.Context, viewerID uuid.UUID) ([]domain.Report, error) {
	if err := s.requireAdmin(ctx, viewerID); err != nil {
		return nil, err
	}

	reports, err := s.reportRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return reports, nil
}

func (s *ReportService) UpdateStatus(ctx context.Context, viewerID, reportID uuid.UUID, status string) error {
	if err := s.requireAdmin(ctx, viewerID); err != nil {
		return err
	}
	if status != domain.ReportStatusResolved && status != domain.ReportStatusDismissed {
		return ErrInvalidReportState
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report == nil {
		return ErrReportNotFound
	}

	return s.reportRepo.UpdateStatus(ctx, reportID, status)
}

func (s *ReportService) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsAdmin {
		return ErrNotAdmin
	}
	return nil
}
