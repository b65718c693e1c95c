package domain

import "time"

type NotificationType string

const (
	NotificationDonationRequest NotificationType = "donation_request"
	NotificationRequestStatus   NotificationType = "request_status"
	NotificationBooking         NotificationType = "booking"
	NotificationChat            NotificationType = "chat"
	NotificationTaxi            NotificationType = "taxi"
	NotificationAccount         NotificationType = "account"
)

type Notification struct {
	Id        NotificationId
	UserId    UserId
	Type      NotificationType
	Title     string
	Message   string
	Link      string
	IsRead    bool
	CreatedAt time.Time
}
