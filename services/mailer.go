package services

import (
	"fmt"
	"log"
	"strings"

	"rentify-server/models"
	"rentify-server/utils"
)

// MailerService builds and sends the booking lifecycle emails. Handlers call
// its methods in a goroutine so email delivery never blocks a response.
type MailerService struct{}

func NewMailerService() *MailerService {
	return &MailerService{}
}

const emailDateLayout = "January 2, 2006"

// SendBookingRequestEmail notifies an item's owner about a new rental
// request. The booking must have Item (with Owner) and Renter preloaded.
func (ms *MailerService) SendBookingRequestEmail(booking *models.Booking) {
	if booking.Item == nil || booking.Item.Owner == nil || booking.Renter == nil {
		log.Printf("booking request email: booking %d missing preloaded relations", booking.ID)
		return
	}

	owner := booking.Item.Owner
	renterName := displayName(booking.Renter)

	subject := fmt.Sprintf("New Rental Request for %s", booking.Item.Name)
	html := fmt.Sprintf(`
	<p>Hello %s,</p>
	<p>You have a new rental request from %s for your item: '%s'.</p>
	<p>Booking Details:</p>
	<ul>
		<li>Renter's Email: %s</li>
		<li>Requested Dates: %s to %s</li>
		<li>Total Price: $%.2f</li>
	</ul>
	<p>Please log in to your Rentify account to approve or deny this request.</p>
	<p>Thank you,<br />The Rentify Team</p>`,
		displayName(owner),
		renterName,
		booking.Item.Name,
		booking.Renter.Email,
		booking.StartDate.Format(emailDateLayout),
		booking.EndDate.Format(emailDateLayout),
		booking.TotalPrice)

	if _, err := utils.SendMail(owner.Email, subject, html); err != nil {
		log.Printf("booking request email to %s failed: %v", owner.Email, err)
	}
}

// SendBookingApprovalEmail notifies the renter that the owner confirmed
// their booking, including the pickup address.
func (ms *MailerService) SendBookingApprovalEmail(booking *models.Booking) {
	if booking.Item == nil || booking.Item.Owner == nil || booking.Renter == nil {
		log.Printf("booking approval email: booking %d missing preloaded relations", booking.ID)
		return
	}

	owner := booking.Item.Owner

	subject := fmt.Sprintf("Your Booking for %s has been Confirmed!", booking.Item.Name)
	html := fmt.Sprintf(`
	<p>Hello %s,</p>
	<p>Great news! Your rental request for '%s' has been approved by %s.</p>
	<p>Booking Details:</p>
	<ul>
		<li>Rental Dates: %s to %s</li>
		<li>Total Price: $%.2f</li>
		<li>Owner's Email: %s</li>
	</ul>
	<p>Pickup Address:<br />%s</p>
	<p>Please coordinate with the owner for pickup details.</p>
	<p>Thank you,<br />The Rentify Team</p>`,
		displayName(booking.Renter),
		booking.Item.Name,
		displayName(owner),
		booking.StartDate.Format(emailDateLayout),
		booking.EndDate.Format(emailDateLayout),
		booking.TotalPrice,
		owner.Email,
		pickupAddress(booking.Item))

	if _, err := utils.SendMail(booking.Renter.Email, subject, html); err != nil {
		log.Printf("booking approval email to %s failed: %v", booking.Renter.Email, err)
	}
}

// SendBookingDeclinedEmail tells the renter their request was not accepted.
func (ms *MailerService) SendBookingDeclinedEmail(booking *models.Booking) {
	if booking.Item == nil || booking.Renter == nil {
		log.Printf("booking declined email: booking %d missing preloaded relations", booking.ID)
		return
	}

	subject := fmt.Sprintf("Update on Your Booking Request for %s", booking.Item.Name)
	html := fmt.Sprintf(`
	<p>Hello %s,</p>
	<p>Unfortunately your rental request for '%s' (%s to %s) was declined by the owner.</p>
	<p>The dates are still open for other listings, so feel free to keep browsing.</p>
	<p>Thank you,<br />The Rentify Team</p>`,
		displayName(booking.Renter),
		booking.Item.Name,
		booking.StartDate.Format(emailDateLayout),
		booking.EndDate.Format(emailDateLayout))

	if _, err := utils.SendMail(booking.Renter.Email, subject, html); err != nil {
		log.Printf("booking declined email to %s failed: %v", booking.Renter.Email, err)
	}
}

func displayName(user *models.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

func pickupAddress(item *models.Item) string {
	parts := []string{item.Address, item.City, item.State, item.Zip}
	nonEmpty := parts[:0]
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
