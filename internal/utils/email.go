package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

// SendWelcomeEmail envoie le mail de bienvenue après création de compte.
// Appelé en best-effort (goroutine) : un échec SMTP ne bloque jamais la création.
func SendWelcomeEmail(to, username string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("⚠️ SMTP non configuré, mail de bienvenue ignoré")
		return nil
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}

	msg := mail.NewMsg()
	if err := msg.From("noreply@fakestore.local"); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Bienvenue sur la boutique")
	msg.SetBodyString(mail.TypeTextHTML, welcomeHTML(username))

	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi du mail de bienvenue à", to)
	return client.DialAndSend(msg)
}

func welcomeHTML(username string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Bienvenue, %s !</h2>
		<p>Votre compte a bien été créé. Bonnes emplettes 🛒</p>
	</div>
</body>
</html>`, username)
}
