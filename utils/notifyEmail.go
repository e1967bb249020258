package utils

import (
	"CarePoint/models"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email over SMTP. It satisfies the scheduler's
// notifier dependency.
type Mailer struct {
	host string
	port int
	user string
	pass string
}

// NewMailer builds a Mailer from SMTP settings.
func NewMailer(host string, port int, user, pass string) (*Mailer, error) {
	if host == "" {
		return nil, errors.New("SMTP host is not configured")
	}
	return &Mailer{
		host: host,
		port: port,
		user: user,
		pass: pass,
	}, nil
}

// AppointmentBooked emails a booking confirmation to the patient.
func (m *Mailer) AppointmentBooked(patientEmail string, apt *models.Appointment) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf("Your appointment on %s at %s has been booked.\nReason: %s\n",
		apt.AppointmentDate, apt.AppointmentTime, apt.Reason)
	return m.send(patientEmail, subject, body)
}

// AppointmentCancelled emails a cancellation notice to the patient.
func (m *Mailer) AppointmentCancelled(patientEmail string, apt *models.Appointment) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf("Your appointment on %s at %s has been cancelled.\nReason: %s\n",
		apt.AppointmentDate, apt.AppointmentTime, apt.CancellationReason)
	return m.send(patientEmail, subject, body)
}

// SendResetCodeEmail emails a password reset code.
func (m *Mailer) SendResetCodeEmail(email, code string) error {
	return m.send(email, "Password Reset Code", "Your password reset code is: "+code)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(msg)
}
