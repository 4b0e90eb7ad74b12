// Package businessflow contains the business logic for the application.
package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/app/services"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/models"
	"github.com/appesteticaprohub/EsteticaProAdmin-sub001/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var broadcastDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "broadcast_deliveries_total",
		Help: "Broadcast delivery attempts by channel and outcome",
	},
	[]string{"channel", "outcome"},
)

// BroadcastContent is the unrendered message content for one tick
type BroadcastContent struct {
	Title     string
	Body      string
	CTAText   *string
	CTAURL    *string
	Category  string
	ExpiresAt *time.Time
}

// DeliveryOutcome reports how one adapter handled a page of recipients
type DeliveryOutcome struct {
	Created int
	Failed  int
}

// InAppDeliverer writes one notification row per recipient in a single bulk
// insert. The insert is all-or-nothing: on failure the whole page counts as
// failed for this channel.
type InAppDeliverer struct {
	notificationRepo repository.NotificationRepository
}

func NewInAppDeliverer(notificationRepo repository.NotificationRepository) *InAppDeliverer {
	return &InAppDeliverer{notificationRepo: notificationRepo}
}

func (d *InAppDeliverer) Deliver(ctx context.Context, content *BroadcastContent, recipients []*models.User) DeliveryOutcome {
	if len(recipients) == 0 {
		return DeliveryOutcome{}
	}

	rows := make([]*models.Notification, 0, len(recipients))
	for _, user := range recipients {
		rows = append(rows, &models.Notification{
			UserID:    user.ID,
			Type:      models.NotificationTypeBroadcast,
			Category:  content.Category,
			Title:     RenderTemplate(content.Title, user),
			Message:   RenderTemplate(content.Body, user),
			CTAText:   content.CTAText,
			CTAURL:    content.CTAURL,
			ExpiresAt: content.ExpiresAt,
		})
	}

	if err := d.notificationRepo.SaveBatch(ctx, rows); err != nil {
		log.Printf("in-app delivery failed for %d recipients: %v", len(rows), err)
		broadcastDeliveriesTotal.WithLabelValues(models.BroadcastChannelInApp, "failed").Add(float64(len(rows)))
		return DeliveryOutcome{Failed: len(rows)}
	}

	broadcastDeliveriesTotal.WithLabelValues(models.BroadcastChannelInApp, "created").Add(float64(len(rows)))
	return DeliveryOutcome{Created: len(rows)}
}

// EmailDeliverer sends one email per recipient, strictly sequentially, pacing
// sends with a token bucket so concurrent ticks of the same process share the
// provider budget. Per-recipient failures are counted and logged, never
// retried, and never abort the rest of the page.
type EmailDeliverer struct {
	emailService services.EmailService
	limiter      *rate.Limiter
}

func NewEmailDeliverer(emailService services.EmailService, ratePerMinute int) *EmailDeliverer {
	if ratePerMinute <= 0 {
		ratePerMinute = 600
	}
	return &EmailDeliverer{
		emailService: emailService,
		limiter:      rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), 1),
	}
}

func (d *EmailDeliverer) Deliver(ctx context.Context, content *BroadcastContent, recipients []*models.User) DeliveryOutcome {
	var outcome DeliveryOutcome

	for _, user := range recipients {
		if err := d.limiter.Wait(ctx); err != nil {
			// Context cancelled; remaining recipients count as failed.
			remaining := len(recipients) - outcome.Created - outcome.Failed
			log.Printf("email delivery aborted with %d recipients remaining: %v", remaining, err)
			broadcastDeliveriesTotal.WithLabelValues(models.BroadcastChannelEmail, "failed").Add(float64(remaining))
			outcome.Failed += remaining
			return outcome
		}

		subject := RenderTemplate(content.Title, user)
		body := RenderTemplate(content.Body, user)

		if _, err := d.emailService.Send(ctx, user.Email, subject, body); err != nil {
			log.Printf("email delivery failed for user %d: %v", user.ID, err)
			broadcastDeliveriesTotal.WithLabelValues(models.BroadcastChannelEmail, "failed").Inc()
			outcome.Failed++
			continue
		}

		broadcastDeliveriesTotal.WithLabelValues(models.BroadcastChannelEmail, "created").Inc()
		outcome.Created++
	}

	return outcome
}
