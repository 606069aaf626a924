/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type SendEmailConfig struct {
	From           string
	To             string
	Types          []string
	DryRun         bool
	SendgridAPIKey string
	SMTPUsername   string
	SMTPPassword   string
}

var emailCmd = &cobra.Command{
	Use:   "email <address> <analysis_name...>",
	Short: "Sends an email report",
	Long: `Emails listening statistics to the specified address.
  <analysis_name> is one or more of: top-artists, top-tracks, moods, genres.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		config := SendEmailConfig{
			From:           viper.GetString("from"),
			To:             args[0],
			Types:          args[1:],
			DryRun:         viper.GetBool("dryRun"),
			SendgridAPIKey: viper.GetString("sendgrid_api_key"),
			SMTPUsername:   viper.GetString("smtp_username"),
			SMTPPassword:   viper.GetString("smtp_password"),
		}
		err := sendEmail(cmd.Context(), config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))
}

func sendEmail(ctx context.Context, config SendEmailConfig) error {
	actions := make([]Analyser, 0)
	for _, actionName := range config.Types {
		action, err := getActionFromName(actionName)
		if err != nil {
			return fmt.Errorf("Invalid analysis_name: %s", actionName)
		}
		actions = append(actions, action)
	}

	subject, out, err := generateEmailContent(ctx, config, actions)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, out)
		return nil
	}

	if config.SendgridAPIKey != "" {
		return sendViaSendgrid(config, subject, out)
	}
	return sendViaSMTP(config, subject, out)
}

func sendViaSendgrid(config SendEmailConfig, subject, body string) error {
	from := mail.NewEmail("soundlens", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(config.SendgridAPIKey)
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	return nil
}

func sendViaSMTP(config SendEmailConfig, subject, body string) error {
	if config.SMTPUsername == "" || config.SMTPPassword == "" {
		return fmt.Errorf("smtp_username and smtp_password must be set in order to send emails")
	}

	msg := "From: soundlens <" + config.From + ">\r\n" +
		"To: " + config.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body

	auth := smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, "smtp.gmail.com")
	if err := smtp.SendMail("smtp.gmail.com:587", auth, config.From, []string{config.To}, []byte(msg)); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	return nil
}

func generateEmailContent(ctx context.Context, config SendEmailConfig, actions []Analyser) (subject string, body string, err error) {
	client, err := newCatalogClient()
	if err != nil {
		return "", "", err
	}

	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	for _, action := range actions {
		out += "\t\t<div>\n"
		out += fmt.Sprintf("<h2>%s:</h2>\n", action.GetName())

		analysis, err := action.GetResults(ctx, client)
		if err != nil {
			return "", "", fmt.Errorf("getting results for %s: %w", action.GetName(), err)
		}

		if len(analysis.results) <= 1 {
			out += "<div>No results found.</div>\n"
		} else {
			out += "<table>\n<thead>\n<tr>\n"
			for _, header := range analysis.results[0] {
				out += fmt.Sprintf("<th>%s</th>", header)
			}
			out += "</tr>\n</thead>\n<tbody>\n"

			for _, row := range analysis.results[1:] {
				out += "<tr>\n"
				for _, column := range row {
					out += fmt.Sprintf("<td>%s</td>\n", column)
				}
				out += "</tr>\n"
			}
			out += "</tbody>\n</table>\n"
		}
		out += fmt.Sprintf("<div>%s</div>\n\t\t</div>\n", analysis.summary)
	}
	out += `
  </body>
</html>
`

	subject = fmt.Sprintf("Listening report for %s", time.Now().Format("2006-01-02"))
	return subject, out, nil
}
