package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/example/svijeca/internal/models"
)

// EmailService dispatches transactional HTML email through SendGrid.
// Delivery is best effort: when no API key is configured every send is a
// logged no-op, and failures never propagate into request handling.
type EmailService struct {
	apiKey   string
	from     string
	fromName string
	baseURL  string
}

// NewEmailService creates an EmailService.
func NewEmailService(apiKey, from, fromName, baseURL string) *EmailService {
	return &EmailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (s *EmailService) send(toEmail, toName, subject, html string) error {
	if s.apiKey == "" {
		log.Printf("[Email] API key not configured, skipping mail to %s (%s)", toEmail, subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, stripTags(html), html)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[Email] send failed for %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("[Email] unexpected status %d for %s", resp.StatusCode, toEmail)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// stripTags produces a crude plain-text alternative from the HTML body.
func stripTags(html string) string {
	replacer := strings.NewReplacer("<br>", "\n", "<br/>", "\n", "</p>", "\n")
	text := replacer.Replace(html)
	var b strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

type emailTexts struct {
	VerifySubject  string
	VerifyBody     string
	OrderSubject   string
	OrderIntro     string
	OrderTotal     string
	InvoiceSubject string
	InvoiceBody    string
	WelcomeSubject string
	WelcomeBody    string
	ResetSubject   string
	ResetBody      string
}

var emailCatalog = map[string]emailTexts{
	LanguageCroatian: {
		VerifySubject:  "Potvrdite svoju e-mail adresu",
		VerifyBody:     "<p>Dobrodošli! Kliknite na poveznicu za potvrdu računa:</p><p><a href=\"%s\">%s</a></p>",
		OrderSubject:   "Potvrda narudžbe #%d",
		OrderIntro:     "<p>Hvala na narudžbi! Zaprimili smo sljedeće artikle:</p>",
		OrderTotal:     "<p><b>Ukupno: %s</b></p>",
		InvoiceSubject: "Račun %s",
		InvoiceBody:    "<p>Izdan je račun <b>%s</b> u iznosu od <b>%s</b>. Možete ga preuzeti u svom korisničkom računu.</p>",
		WelcomeSubject: "Dobrodošli u naš newsletter",
		WelcomeBody:    "<p>Hvala na prijavi! Očekujte novosti i posebne ponude.</p>",
		ResetSubject:   "Ponovno postavljanje lozinke",
		ResetBody:      "<p>Zatražili ste novu lozinku. Kliknite na poveznicu:</p><p><a href=\"%s\">%s</a></p>",
	},
	LanguageGerman: {
		VerifySubject:  "Bestätigen Sie Ihre E-Mail-Adresse",
		VerifyBody:     "<p>Willkommen! Klicken Sie auf den Link, um Ihr Konto zu bestätigen:</p><p><a href=\"%s\">%s</a></p>",
		OrderSubject:   "Bestellbestätigung #%d",
		OrderIntro:     "<p>Vielen Dank für Ihre Bestellung! Wir haben folgende Artikel erhalten:</p>",
		OrderTotal:     "<p><b>Gesamt: %s</b></p>",
		InvoiceSubject: "Rechnung %s",
		InvoiceBody:    "<p>Die Rechnung <b>%s</b> über <b>%s</b> wurde erstellt. Sie finden sie in Ihrem Konto.</p>",
		WelcomeSubject: "Willkommen zu unserem Newsletter",
		WelcomeBody:    "<p>Danke für Ihre Anmeldung! Freuen Sie sich auf Neuigkeiten und Angebote.</p>",
		ResetSubject:   "Passwort zurücksetzen",
		ResetBody:      "<p>Sie haben ein neues Passwort angefordert. Klicken Sie auf den Link:</p><p><a href=\"%s\">%s</a></p>",
	},
	LanguageEnglish: {
		VerifySubject:  "Confirm your email address",
		VerifyBody:     "<p>Welcome! Click the link to confirm your account:</p><p><a href=\"%s\">%s</a></p>",
		OrderSubject:   "Order confirmation #%d",
		OrderIntro:     "<p>Thank you for your order! We received the following items:</p>",
		OrderTotal:     "<p><b>Total: %s</b></p>",
		InvoiceSubject: "Invoice %s",
		InvoiceBody:    "<p>Invoice <b>%s</b> for <b>%s</b> has been issued. You can download it from your account.</p>",
		WelcomeSubject: "Welcome to our newsletter",
		WelcomeBody:    "<p>Thanks for subscribing! Expect news and special offers.</p>",
		ResetSubject:   "Password reset",
		ResetBody:      "<p>You requested a new password. Click the link:</p><p><a href=\"%s\">%s</a></p>",
	},
	LanguageItalian: {
		VerifySubject:  "Conferma il tuo indirizzo e-mail",
		VerifyBody:     "<p>Benvenuto! Clicca sul link per confermare il tuo account:</p><p><a href=\"%s\">%s</a></p>",
		OrderSubject:   "Conferma dell'ordine #%d",
		OrderIntro:     "<p>Grazie per il tuo ordine! Abbiamo ricevuto i seguenti articoli:</p>",
		OrderTotal:     "<p><b>Totale: %s</b></p>",
		InvoiceSubject: "Fattura %s",
		InvoiceBody:    "<p>È stata emessa la fattura <b>%s</b> per <b>%s</b>. Puoi scaricarla dal tuo account.</p>",
		WelcomeSubject: "Benvenuto nella nostra newsletter",
		WelcomeBody:    "<p>Grazie per l'iscrizione! Riceverai novità e offerte speciali.</p>",
		ResetSubject:   "Reimposta la password",
		ResetBody:      "<p>Hai richiesto una nuova password. Clicca sul link:</p><p><a href=\"%s\">%s</a></p>",
	},
	LanguageSlovenian: {
		VerifySubject:  "Potrdite svoj e-poštni naslov",
		VerifyBody:     "<p>Dobrodošli! Kliknite povezavo za potrditev računa:</p><p><a href=\"%s\">%s</a></p>",
		OrderSubject:   "Potrditev naročila #%d",
		OrderIntro:     "<p>Hvala za naročilo! Prejeli smo naslednje izdelke:</p>",
		OrderTotal:     "<p><b>Skupaj: %s</b></p>",
		InvoiceSubject: "Račun %s",
		InvoiceBody:    "<p>Izdan je bil račun <b>%s</b> v znesku <b>%s</b>. Najdete ga v svojem računu.</p>",
		WelcomeSubject: "Dobrodošli v našem e-novičniku",
		WelcomeBody:    "<p>Hvala za prijavo! Pričakujte novice in posebne ponudbe.</p>",
		ResetSubject:   "Ponastavitev gesla",
		ResetBody:      "<p>Zahtevali ste novo geslo. Kliknite povezavo:</p><p><a href=\"%s\">%s</a></p>",
	},
}

func textsFor(language string) emailTexts {
	return emailCatalog[normalizeLanguage(language)]
}

// SendVerification sends the account verification link.
func (s *EmailService) SendVerification(toEmail, toName, language, token string) error {
	texts := textsFor(language)
	link := fmt.Sprintf("%s/verify?token=%s", s.baseURL, token)
	return s.send(toEmail, toName, texts.VerifySubject, fmt.Sprintf(texts.VerifyBody, link, link))
}

// NotifyNewOrder sends the order confirmation with an item breakdown.
func (s *EmailService) NotifyNewOrder(order *models.Order, user *models.User) error {
	to := order.ShippingEmail
	if to == "" {
		to = user.Email
	}
	if to == "" {
		return nil
	}

	texts := textsFor(order.Language)

	var body strings.Builder
	body.WriteString(texts.OrderIntro)
	body.WriteString("<ul>")
	for _, line := range order.Lines {
		name := line.ProductName
		if v := variantText(line); v != "" {
			name = fmt.Sprintf("%s (%s)", name, v)
		}
		body.WriteString(fmt.Sprintf("<li>%d x %s - %s</li>",
			line.Quantity, name, FormatMoney(line.UnitPrice*float64(line.Quantity))))
	}
	body.WriteString("</ul>")
	body.WriteString(fmt.Sprintf(texts.OrderTotal, FormatMoney(order.Total)))

	subject := fmt.Sprintf(texts.OrderSubject, order.Number)
	return s.send(to, order.ShippingName, subject, body.String())
}

// NotifyInvoiceCreated tells the customer an invoice was issued.
func (s *EmailService) NotifyInvoiceCreated(invoice *models.Invoice, user *models.User) error {
	to := invoice.CustomerEmail
	if to == "" {
		to = user.Email
	}
	if to == "" {
		return nil
	}

	texts := textsFor(invoice.Language)
	subject := fmt.Sprintf(texts.InvoiceSubject, invoice.InvoiceNumber)
	body := fmt.Sprintf(texts.InvoiceBody, invoice.InvoiceNumber, FormatMoney(invoice.Total))
	return s.send(to, invoice.CustomerName, subject, body)
}

// SendNewsletterWelcome greets a new subscriber.
func (s *EmailService) SendNewsletterWelcome(toEmail, language string) error {
	texts := textsFor(language)
	return s.send(toEmail, "", texts.WelcomeSubject, texts.WelcomeBody)
}

// SendPasswordReset sends the reset link.
func (s *EmailService) SendPasswordReset(toEmail, toName, language, token string) error {
	texts := textsFor(language)
	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	return s.send(toEmail, toName, texts.ResetSubject, fmt.Sprintf(texts.ResetBody, link, link))
}
