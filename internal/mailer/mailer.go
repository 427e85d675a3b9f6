package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/config"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
	"github.com/wneessen/go-mail"
)

// Mailer sends transactional email over SMTP. It implements
// service.ReportMailer and service.OrderMailer; callers treat failures as
// log-only, so nothing here must ever block a primary action.
type Mailer struct {
	client       *mail.Client
	userRepo     repository.UserRepository
	fromEmail    string
	supportEmail string
}

func New(cfg *config.Config, userRepo repository.UserRepository) (*Mailer, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &Mailer{
		client:       client,
		userRepo:     userRepo,
		fromEmail:    cfg.FromEmail,
		supportEmail: cfg.SupportEmail,
	}, nil
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.fromEmail); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}

// SendReportNotification alerts the support inbox about a new listing report.
func (m *Mailer) SendReportNotification(ctx context.Context, listingID, reporterID uuid.UUID, reason string) error {
	body := fmt.Sprintf(
		"A listing was reported.\n\nListing: %s\nReporter: %s\nReason: %s\n",
		listingID, reporterID, reason,
	)
	return m.send(ctx, m.supportEmail, "New listing report", body)
}

// SendBuyerConfirmation emails the buyer after a successful payment.
func (m *Mailer) SendBuyerConfirmation(ctx context.Context, order *domain.Order) error {
	to := ""
	if order.BuyerEmail != nil {
		to = *order.BuyerEmail
	}
	if to == "" {
		buyer, err := m.userRepo.GetByID(ctx, order.BuyerID)
		if err != nil {
			return err
		}
		if buyer == nil {
			return nil
		}
		to = buyer.Email
	}

	body := fmt.Sprintf(
		"Thanks for your purchase!\n\nOrder: %s\nAmount: %.2f %s\n",
		order.ID, float64(order.AmountCents)/100, order.Currency,
	)
	return m.send(ctx, to, "Your order is confirmed", body)
}

// SendSellerNotification emails the seller that their listing sold.
func (m *Mailer) SendSellerNotification(ctx context.Context, order *domain.Order) error {
	seller, err := m.userRepo.GetByID(ctx, order.SellerID)
	if err != nil {
		return err
	}
	if seller == nil {
		return nil
	}

	body := fmt.Sprintf(
		"Your listing sold!\n\nOrder: %s\nYour payout: %.2f %s\n",
		order.ID, float64(order.SellerAmountCents)/100, order.Currency,
	)
	return m.send(ctx, seller.Email, "Your item sold", body)
}
