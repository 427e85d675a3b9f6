package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
	"unicode/utf8"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"github.com/umelife/marketplace/internal/domain"
	"github.com/umelife/marketplace/internal/repository"
)

var ErrMissingEndpoint = errors.New("subscription endpoint is required")

// PushPayload is the JSON document handed to the service worker.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

type PushService struct {
	pushRepo        repository.PushSubscriptionRepository
	vapidPublicKey  string
	vapidPrivateKey string
	vapidSubject    string
}

func NewPushService(pushRepo repository.PushSubscriptionRepository, vapidPublicKey, vapidPrivateKey, vapidSubject string) *PushService {
	return &PushService{
		pushRepo:        pushRepo,
		vapidPublicKey:  vapidPublicKey,
		vapidPrivateKey: vapidPrivateKey,
		vapidSubject:    vapidSubject,
	}
}

func (s *PushService) VAPIDPublicKey() string {
	return s.vapidPublicKey
}

type SubscribeInput struct {
	Endpoint  string  `json:"endpoint"`
	P256dh    string  `json:"p256dh"`
	Auth      string  `json:"auth"`
	UserAgent *string `json:"user_agent,omitempty"`
}

// Subscribe upserts the (user, endpoint) pair; resubscribing from the same
// browser refreshes the keys instead of failing.
func (s *PushService) Subscribe(ctx context.Context, userID uuid.UUID, input SubscribeInput) error {
	if input.Endpoint == "" {
		return ErrMissingEndpoint
	}

	sub := &domain.PushSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		Endpoint:  input.Endpoint,
		P256dh:    input.P256dh,
		Auth:      input.Auth,
		UserAgent: input.UserAgent,
		CreatedAt: time.Now(),
	}

	if err := s.pushRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("saving push subscription: %w", err)
	}
	return nil
}

func (s *PushService) Unsubscribe(ctx context.Context, userID uuid.UUID, endpoint string) error {
	if endpoint == "" {
		return ErrMissingEndpoint
	}
	return s.pushRepo.Delete(ctx, userID, endpoint)
}

// SendMessagePush notifies all of the receiver's devices about a new chat
// message. Satisfies MessagePusher.
func (s *PushService) SendMessagePush(ctx context.Context, receiverID uuid.UUID, senderName, listingTitle, body string) {
	title := "New message"
	if senderName != "" {
		title = "New message from " + senderName
	}
	preview := truncatePreview(body)
	payload := PushPayload{
		Title: title,
		Body:  preview,
		URL:   "/messages",
		Tag:   "message",
	}
	if listingTitle != "" {
		payload.Body = listingTitle + ": " + preview
	}
	s.sendToUser(ctx, receiverID, payload)
}

// truncatePreview caps the notification body, cutting on a rune boundary
// so a multi-byte character is never split.
func truncatePreview(body string) string {
	if len(body) <= 120 {
		return body
	}
	cut := 120
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "…"
}

// SendOrderPush satisfies OrderPusher.
func (s *PushService) SendOrderPush(ctx context.Context, userID uuid.UUID, title, body string) {
	s.sendToUser(ctx, userID, PushPayload{Title: title, Body: body, URL: "/orders", Tag: "order"})
}

// sendToUser delivers the payload to every device subscription the user
// has, pruning endpoints the transport reports as gone.
func (s *PushService) sendToUser(ctx context.Context, userID uuid.UUID, payload PushPayload) {
	if s.vapidPublicKey == "" || s.vapidPrivateKey == "" {
		return
	}

	subs, err := s.pushRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("push: listing subscriptions for %s: %v", userID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("push: marshal payload: %v", err)
		return
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotificationWithContext(ctx, data, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      s.vapidSubject,
			VAPIDPublicKey:  s.vapidPublicKey,
			VAPIDPrivateKey: s.vapidPrivateKey,
			TTL:             3600,
			Urgency:         webpush.UrgencyHigh,
		})
		if err != nil {
			log.Printf("push: send to %s failed: %v", sub.Endpoint, err)
			continue
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			// Endpoint expired; drop the subscription.
			if err := s.pushRepo.Delete(ctx, userID, sub.Endpoint); err != nil {
				log.Printf("push: pruning expired subscription: %v", err)
			}
		default:
			if err := s.pushRepo.TouchLastUsed(ctx, userID, sub.Endpoint); err != nil {
				log.Printf("push: updating last_used_at: %v", err)
			}
		}
	}
}
