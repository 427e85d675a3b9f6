package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umelife/marketplace/internal/domain"
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

func (r *ReportRepo) Create(ctx context.Context, report *domain.Report) error {
	query := `
		INSERT INTO reports (id, reporter_id, listing_id, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		report.ID, report.ReporterID, report.ListingID, report.Reason, report.Status, report.CreatedAt,
	)
	return err
}

func (r *ReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	query := `
		SELECT id, reporter_id, listing_id, reason, status, created_at
		FROM reports
		WHERE id = $1`
	var rep domain.Report
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rep.ID, &rep.ReporterID, &rep.ListingID, &rep.Reason, &rep.Status, &rep.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &rep, err
}

func (r *ReportRepo) ListAll(ctx context.Context) ([]domain.Report, error) {
	query := `
		SELECT rp.id, rp.reporter_id, rp.listing_id, rp.reason, rp.status, rp.created_at,
			u.display_name,
			l.id, l.title, COALESCE(l.image_urls[1], '')
		FROM reports rp
		JOIN users u ON rp.reporter_id = u.id
		LEFT JOIN listings l ON rp.listing_id = l.id
		ORDER BY rp.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var (
			rep          domain.Report
			reporterName string
			listingID    *uuid.UUID
			title, img   *string
		)
		if err := rows.Scan(
			&rep.ID, &rep.ReporterID, &rep.ListingID, &rep.Reason, &rep.Status, &rep.CreatedAt,
			&reporterName, &listingID, &title, &img,
		); err != nil {
			return nil, err
		}
		rep.Reporter = &domain.UserSummary{ID: rep.ReporterID, DisplayName: reporterName}
		if listingID != nil {
			summary := &domain.ListingSummary{ID: *listingID}
			if title != nil {
				summary.Title = *title
			}
			if img != nil {
				summary.ImageURL = *img
			}
			rep.Listing = summary
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE reports SET status = $1 WHERE id = $2`, status, id)
	return err
}
