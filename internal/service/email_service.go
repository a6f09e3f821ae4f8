package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	log "github.com/sirupsen/logrus"

	"churchadmin/internal/listquery"
	"churchadmin/internal/models"
)

// SESClient is the part of the SES v2 API the email service uses
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends notification emails via Amazon SES
type EmailService struct {
	client     SESClient
	fromEmail  string
	fromName   string
	teamEmail  string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. It is disabled, and every
// send is a no-op, unless both a sender and the prayer team address are set.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, teamEmail, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" || teamEmail == "" {
		log.Info("Email service disabled: SES_FROM_EMAIL or PRAYER_TEAM_EMAIL not configured")
		return &EmailService{}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.WithFields(log.Fields{"from": fromEmail, "region": awsRegion}).Info("Email service enabled")
	return NewEmailServiceWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, teamEmail, appBaseURL), nil
}

// NewEmailServiceWithClient creates an enabled email service around client
func NewEmailServiceWithClient(client SESClient, fromEmail, fromName, teamEmail, appBaseURL string) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		teamEmail:  teamEmail,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		enabled:    true,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

type prayerEmailData struct {
	Requester   string
	Title       string
	Description string
	DateToPray  string
	Link        string
}

var prayerHTMLTemplate = template.Must(template.New("prayer").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #5b4a8b; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>New Prayer Request</h1>
		</div>
		<div class="content">
			<p><strong>From:</strong> {{.Requester}}</p>
			<h2>{{.Title}}</h2>
			<p style="white-space: pre-wrap;">{{.Description}}</p>
			{{if .DateToPray}}<p><strong>Pray on:</strong> {{.DateToPray}}</p>{{end}}
			{{if .Link}}<p><a href="{{.Link}}">Open in church admin</a></p>{{end}}
		</div>
		<div class="footer">
			<p>This is an automated email from the church admin. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`))

var prayerTextTemplate = texttemplate.Must(texttemplate.New("prayer").Parse(`New prayer request from {{.Requester}}

{{.Title}}

{{.Description}}
{{if .DateToPray}}
Pray on: {{.DateToPray}}
{{end}}{{if .Link}}
Open in church admin: {{.Link}}
{{end}}
---
This is an automated email from the church admin. Please do not reply.
`))

// SendPrayerRequestNotification tells the prayer team about a new request.
// Requests tied to a member show the member's name, others show "Guest".
func (s *EmailService) SendPrayerRequestNotification(ctx context.Context, p *models.PrayerRequest) error {
	if !s.enabled {
		log.WithField("prayer_request_id", p.ID).Debug("Skipping email send (service disabled)")
		return nil
	}

	data := prayerEmailData{
		Requester:   "Guest",
		Title:       p.Title,
		Description: p.Description,
	}
	if p.Member != nil {
		data.Requester = strings.TrimSpace(p.Member.FirstName + " " + p.Member.LastName)
	}
	if p.DateToPray != nil {
		data.DateToPray = p.DateToPray.Format(listquery.DateLayout)
	}
	if s.appBaseURL != "" {
		data.Link = fmt.Sprintf("%s/prayer-requests/%d", s.appBaseURL, p.ID)
	}

	var html, text bytes.Buffer
	if err := prayerHTMLTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render prayer request email: %w", err)
	}
	if err := prayerTextTemplate.Execute(&text, data); err != nil {
		return fmt.Errorf("failed to render prayer request email: %w", err)
	}

	subject := "New prayer request: " + p.Title
	return s.sendEmail(ctx, s.teamEmail, subject, html.String(), text.String())
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	entry := log.WithFields(log.Fields{"to": toEmail, "subject": subject})
	if result != nil && result.MessageId != nil {
		entry = entry.WithField("message_id", *result.MessageId)
	}
	entry.Info("Email sent")
	return nil
}
