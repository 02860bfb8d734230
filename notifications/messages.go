package notifications

import (
	"fmt"
	"html"
	"time"

	"github.com/anjiri1684/spacehub/models"
	"github.com/google/uuid"
)

const (
	EventVerifyEmail          = "account.verify_email"
	EventPasswordReset        = "account.password_reset"
	EventBookingConfirmed     = "booking.confirmed"
	EventBookingReceived      = "booking.received"
	EventBookingFailed        = "booking.failed"
	EventBookingRefundPending = "booking.refund_pending"
	EventBookingReminder      = "booking.reminder"
	EventSubscriptionActive   = "subscription.activated"
	EventSubscriptionFailed   = "subscription.failed"
	EventSubscriptionExpired  = "subscription.expired"
	EventPayoutSucceeded      = "payout.succeeded"
	EventPayoutFailed         = "payout.failed"
	EventSpaceApproved        = "space.approved"
	EventSpaceRejected        = "space.rejected"
	EventWelcome              = "account.welcome"
)

// Recipient is whoever a notification is addressed to.
type Recipient struct {
	ID    uuid.UUID
	Email string
	Name  string
}

func build(to Recipient, event, dedupKey, subject, body string) models.Notification {
	return models.Notification{
		RecipientID:    to.ID,
		RecipientEmail: to.Email,
		RecipientName:  to.Name,
		Event:          event,
		Subject:        subject,
		Body:           body,
		DedupKey:       dedupKey,
	}
}

func greeting(name string) string {
	return fmt.Sprintf("<p>Hi %s,</p>", html.EscapeString(name))
}

func VerifyEmail(to Recipient, link string) models.Notification {
	body := fmt.Sprintf("<h1>Verify your email</h1>%s<p>Confirm your address to start using SpaceHub:</p><p><a href='%s'>Verify email</a></p><p>The link expires in 15 minutes.</p>",
		greeting(to.Name), html.EscapeString(link))
	return build(to, EventVerifyEmail, fmt.Sprintf("verify:%s:%s", to.ID, uuid.NewString()), "Verify your SpaceHub email", body)
}

func PasswordReset(to Recipient, link string) models.Notification {
	body := fmt.Sprintf("<h1>Reset your password</h1>%s<p>Use the link below to choose a new password. It expires in 15 minutes.</p><p><a href='%s'>Reset password</a></p>",
		greeting(to.Name), html.EscapeString(link))
	return build(to, EventPasswordReset, fmt.Sprintf("reset:%s:%s", to.ID, uuid.NewString()), "Reset your SpaceHub password", body)
}

func Welcome(to Recipient) models.Notification {
	body := fmt.Sprintf("<h1>Welcome!</h1>%s<p>Your email is verified. Thank you for joining SpaceHub.</p>", greeting(to.Name))
	return build(to, EventWelcome, fmt.Sprintf("welcome:%s", to.ID), "Welcome to SpaceHub", body)
}

func BookingConfirmed(to Recipient, b *models.Booking) models.Notification {
	end := ""
	if b.EndDate != nil {
		end = b.EndDate.Format("Jan 2, 2006 15:04")
	}
	body := fmt.Sprintf("<h1>Booking Confirmed</h1>%s<p>Your booking for <b>%s</b> is confirmed.</p><p>Starts: %s<br>Ends: %s<br>Amount: %.2f %s<br>Reference: %s</p>",
		greeting(to.Name), html.EscapeString(b.SpaceName), b.StartsAt().Format("Jan 2, 2006 15:04"), end, b.Amount, b.Currency, b.Reference)
	return build(to, EventBookingConfirmed, fmt.Sprintf("booking:%s:confirmed", b.ID), "Your Booking is Confirmed!", body)
}

func BookingReceived(to Recipient, b *models.Booking) models.Notification {
	body := fmt.Sprintf("<h1>New Booking</h1>%s<p>%s booked <b>%s</b> starting %s. %.2f %s has been added to your balance.</p>",
		greeting(to.Name), html.EscapeString(b.UserName), html.EscapeString(b.SpaceName), b.StartsAt().Format("Jan 2, 2006 15:04"), b.Amount, b.Currency)
	return build(to, EventBookingReceived, fmt.Sprintf("booking:%s:host", b.ID), "You Have a New Booking!", body)
}

func BookingFailed(to Recipient, b *models.Booking) models.Notification {
	body := fmt.Sprintf("<h1>Payment Failed</h1>%s<p>We could not confirm your payment for <b>%s</b> (reference %s). No booking was made.</p>",
		greeting(to.Name), html.EscapeString(b.SpaceName), b.Reference)
	return build(to, EventBookingFailed, fmt.Sprintf("booking:%s:failed", b.ID), "Your booking payment failed", body)
}

func BookingRefundPending(to Recipient, b *models.Booking) models.Notification {
	body := fmt.Sprintf("<h1>Space Fully Booked</h1>%s<p>Your payment for <b>%s</b> (reference %s) was received, but the space filled up before it could be confirmed. A refund of %.2f %s will follow.</p>",
		greeting(to.Name), html.EscapeString(b.SpaceName), b.Reference, b.Amount, b.Currency)
	return build(to, EventBookingRefundPending, fmt.Sprintf("booking:%s:refund", b.ID), "Your booking could not be confirmed", body)
}

func BookingReminder(to Recipient, b *models.Booking) models.Notification {
	body := fmt.Sprintf("<h1>Booking Reminder</h1>%s<p>This is a friendly reminder that your booking at <b>%s</b> starts at %s.</p>",
		greeting(to.Name), html.EscapeString(b.SpaceName), b.StartsAt().Format(time.Kitchen))
	return build(to, EventBookingReminder, fmt.Sprintf("booking:%s:reminder", b.ID), "Reminder: Your Booking Starts in 1 Hour!", body)
}

func SubscriptionActivated(to Recipient, s *models.Subscription) models.Notification {
	end := ""
	if s.EndDate != nil {
		end = s.EndDate.Format("Jan 2, 2006")
	}
	body := fmt.Sprintf("<h1>Subscription Active</h1>%s<p>Your <b>%s</b> plan is active until %s.</p>",
		greeting(to.Name), html.EscapeString(s.PlanName), end)
	return build(to, EventSubscriptionActive, fmt.Sprintf("subscription:%s:active", s.ID), "Your subscription is active", body)
}

func SubscriptionFailed(to Recipient, s *models.Subscription) models.Notification {
	body := fmt.Sprintf("<h1>Subscription Payment Failed</h1>%s<p>We could not confirm your payment for the <b>%s</b> plan (reference %s).</p>",
		greeting(to.Name), html.EscapeString(s.PlanName), s.Reference)
	return build(to, EventSubscriptionFailed, fmt.Sprintf("subscription:%s:failed", s.ID), "Your subscription payment failed", body)
}

func SubscriptionExpired(to Recipient, s *models.Subscription) models.Notification {
	body := fmt.Sprintf("<h1>Subscription Expired</h1>%s<p>Your <b>%s</b> plan has expired and your account is back on the free tier. Renew to keep all your listings.</p>",
		greeting(to.Name), html.EscapeString(s.PlanName))
	return build(to, EventSubscriptionExpired, fmt.Sprintf("subscription:%s:expired", s.ID), "Your subscription has expired", body)
}

func PayoutSucceeded(to Recipient, p *models.Payment) models.Notification {
	body := fmt.Sprintf("<h1>Payout Sent</h1>%s<p>Your payout of %.2f %s (reference %s) has been sent to your bank account.</p>",
		greeting(to.Name), p.Amount, p.Currency, p.Reference)
	return build(to, EventPayoutSucceeded, fmt.Sprintf("payout:%s:success", p.ID), "Your payout was successful", body)
}

func PayoutFailed(to Recipient, p *models.Payment) models.Notification {
	body := fmt.Sprintf("<h1>Payout Failed</h1>%s<p>Your payout of %.2f %s (reference %s) did not go through. Your balance is unchanged.</p>",
		greeting(to.Name), p.Amount, p.Currency, p.Reference)
	return build(to, EventPayoutFailed, fmt.Sprintf("payout:%s:failed", p.ID), "Your payout failed", body)
}

func SpaceApproved(to Recipient, s *models.Space) models.Notification {
	body := fmt.Sprintf("<h1>Listing Approved</h1>%s<p>Your space <b>%s</b> is now live.</p>", greeting(to.Name), html.EscapeString(s.Name))
	return build(to, EventSpaceApproved, fmt.Sprintf("space:%s:approved:%d", s.ID, s.UpdatedAt.Unix()), "Your space has been approved", body)
}

func SpaceRejected(to Recipient, s *models.Space, reason string) models.Notification {
	body := fmt.Sprintf("<h1>Listing Rejected</h1>%s<p>Your space <b>%s</b> was not approved.</p><p>Reason: %s</p>",
		greeting(to.Name), html.EscapeString(s.Name), html.EscapeString(reason))
	return build(to, EventSpaceRejected, fmt.Sprintf("space:%s:rejected:%d", s.ID, s.UpdatedAt.Unix()), "Your space was not approved", body)
}
