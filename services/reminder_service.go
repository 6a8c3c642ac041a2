// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"fieldpro-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 8 AM
	if _, err := c.AddFunc("0 8 * * *", s.SendDailyReminders); err != nil {
		log.Printf("Failed to schedule daily reminders: %v", err)
		return
	}

	c.Start()
	log.Println("Maintenance reminder scheduler started")
}

// SendDailyReminders notifies customers whose units come due for
// maintenance within the next 7 days.
func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily maintenance reminder processing...")

	units, err := s.getUpcomingUnits()
	if err != nil {
		log.Printf("Failed to fetch units due for maintenance: %v", err)
		return
	}

	for _, unit := range units {
		s.sendReminder(unit)
	}

	log.Println("Daily maintenance reminder processing completed")
}

func (s *ReminderService) getUpcomingUnits() ([]models.Unit, error) {
	now := time.Now()
	until := now.AddDate(0, 0, 7)

	var units []models.Unit
	err := s.db.Preload("Customer").
		Where("status = ? AND next_maintenance_date BETWEEN ? AND ?", models.UnitActive, now, until).
		Find(&units).Error
	return units, err
}

func (s *ReminderService) sendReminder(unit models.Unit) {
	if unit.Customer.ID == uuid.Nil || unit.Customer.Phone == "" || !unit.Customer.IsActive {
		return
	}

	message := fmt.Sprintf(
		"Hello %s, your %s %s (serial %s) is due for maintenance on %s. We will contact you to confirm the appointment.",
		unit.Customer.Name, unit.Brand, unit.ModelName, unit.SerialNumber,
		unit.NextMaintenanceDate.Format("02 Jan 2006"),
	)

	// Determine channel (WhatsApp if available, else SMS)
	channel := "sms"
	var to string
	if strings.HasPrefix(unit.Customer.Phone, "+") {
		to = "whatsapp:" + unit.Customer.Phone
		channel = "whatsapp"
	} else {
		to = unit.Customer.Phone
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)

	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", unit.Customer.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", unit.Customer.Phone, *resp.Sid)
	} else {
		log.Printf("Reminder sent to %s, but no SID returned", unit.Customer.Phone)
	}

	reminderLog := models.ReminderLog{
		CustomerID:   unit.CustomerID,
		UnitID:       unit.ID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for unit %s: %v", unit.ID, err)
	}
}
