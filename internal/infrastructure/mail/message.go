package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"github.com/rafabene/sample-app/internal/domain/entities"
)

// Tipos de email, usados também como label de métricas
const (
	KindAccountActivation = "account_activation"
	KindPasswordReset     = "password_reset"
)

// Message é um email pronto para envio; serializável para a fila
type Message struct {
	Kind     string `json:"kind"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
	Attempts int    `json:"attempts,omitempty"` // entregas que já falharam
}

// Sender entrega mensagens já compostas
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	activationHTML = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h1>Sample App</h1>
  <p>Hi {{.Name}},</p>
  <p>Welcome to the Sample App! Click on the link below to activate your account:</p>
  <p><a href="{{.Link}}">Activate</a></p>
</body>
</html>`))

	resetHTML = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h1>Password reset</h1>
  <p>To reset your password click the link below:</p>
  <p><a href="{{.Link}}">Reset password</a></p>
  <p>This link will expire in two hours.</p>
  <p>If you did not request your password to be reset, please ignore this email and your password will stay as it is.</p>
</body>
</html>`))
)

// Composer monta os emails de conta com links para o frontend
type Composer struct {
	appURL string
}

// NewComposer cria um Composer; appURL é a URL pública do frontend
func NewComposer(appURL string) *Composer {
	return &Composer{appURL: appURL}
}

// AccountActivation monta o email com o link de ativação
func (c *Composer) AccountActivation(user *entities.User, token string) (Message, error) {
	link := c.link("account_activations", token, user.Email.String())
	text := fmt.Sprintf("Hi %s,\n\nWelcome to the Sample App! Click on the link below to activate your account:\n\n%s\n", user.Name, link)
	return c.compose(KindAccountActivation, user, "Account activation", activationHTML, link, text)
}

// PasswordReset monta o email com o link de redefinição de senha
func (c *Composer) PasswordReset(user *entities.User, token string) (Message, error) {
	link := c.link("password_resets", token, user.Email.String())
	text := fmt.Sprintf("To reset your password click the link below:\n\n%s\n\nThis link will expire in two hours.\n", link)
	return c.compose(KindPasswordReset, user, "Password reset", resetHTML, link, text)
}

func (c *Composer) link(resource, token, email string) string {
	return fmt.Sprintf("%s/%s/%s/edit?email=%s", c.appURL, resource, url.PathEscape(token), url.QueryEscape(email))
}

func (c *Composer) compose(kind string, user *entities.User, subject string, tmpl *template.Template, link, text string) (Message, error) {
	var body bytes.Buffer
	data := struct {
		Name string
		Link string
	}{Name: user.Name, Link: link}

	if err := tmpl.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render %s email: %w", kind, err)
	}

	return Message{
		Kind:     kind,
		To:       user.Email.String(),
		Subject:  subject,
		HTMLBody: body.String(),
		TextBody: text,
	}, nil
}
