package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
)

const (
	ReminderTitle   = "Medication reminder"
	ReminderMessage = "Remember to take your medication as prescribed by your doctor."
)

type Notification struct {
	Base
	PatientID uuid.UUID          `json:"patientId"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	Date      time.Time          `json:"date"`
	Status    NotificationStatus `json:"status"`
}

type SendNotificationRequest struct {
	PatientDUI string `json:"patientDui" binding:"required,dui"`
	Title      string `json:"title" binding:"required"`
	Message    string `json:"message" binding:"required"`
}
