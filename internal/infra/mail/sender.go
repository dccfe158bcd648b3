package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

const fromAddr = "no-reply@apexbridge.io"

func NewEmailSender(host string, port int, user, password, salesAddr string) *EmailSender {
	return &EmailSender{
		Host:      host,
		Port:      port,
		User:      user,
		Password:  password,
		SalesAddr: salesAddr,
	}
}

// SendSalesAlert tells the sales inbox a new lead landed.
func (s *EmailSender) SendSalesAlert(kind, name, email, serviceType, message string) error {
	body, err := s.render("sales_alert.html", SalesAlertData{
		Kind:        kind,
		Name:        name,
		Email:       email,
		ServiceType: serviceType,
		Message:     message,
	})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fromAddr)
	m.SetHeader("To", s.SalesAddr)
	m.SetHeader("Subject", fmt.Sprintf("New %s lead: %s", kind, name))
	m.SetBody("text/html", body)

	return s.dialAndSend(m)
}

// SendBookingConfirmation sends the prospect their slot and meeting link.
func (s *EmailSender) SendBookingConfirmation(to, name, date, timeSlot, meetingLink string) error {
	body, err := s.render("booking_confirmation.html", BookingConfirmationData{
		Name:        name,
		Date:        date,
		TimeSlot:    timeSlot,
		MeetingLink: meetingLink,
	})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fromAddr)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Your ApexBridge consultation is booked, %s", name))
	m.SetBody("text/html", body)

	return s.dialAndSend(m)
}

func (s *EmailSender) render(name string, data any) (string, error) {
	tmplPath := filepath.Join("templates", name)
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return "", fmt.Errorf("failed to read email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return body.String(), nil
}

func (s *EmailSender) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}
