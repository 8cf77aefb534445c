package notifier

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/internwatch/internal/model"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// Ensure TwilioNotifier implements model.Notifier.
var _ model.Notifier = (*TwilioNotifier)(nil)

// TwilioNotifier sends SMS alerts through the Twilio Messages API, one
// message per body chunk per recipient.
type TwilioNotifier struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	to         []string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTwilioNotifier returns a notifier that texts every number in to.
func NewTwilioNotifier(accountSID, authToken, from string, to []string, httpClient *http.Client, logger *slog.Logger) *TwilioNotifier {
	return &TwilioNotifier{
		baseURL:    defaultTwilioBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Notify formats the records into SMS bodies and sends them to each
// recipient. Returns an error only if ALL recipients fail. Individual
// failures are logged.
func (n *TwilioNotifier) Notify(records []model.Record) error {
	if len(records) == 0 {
		return nil
	}

	messages := BuildMessages(records)

	failures := 0
	for i, recipient := range n.to {
		if i > 0 {
			time.Sleep(500 * time.Millisecond)
		}

		if err := n.sendAll(recipient, messages); err != nil {
			n.logger.Error("sms notification failed", "to", recipient, "error", err)
			failures++
		}
	}

	if failures == len(n.to) {
		return fmt.Errorf("all %d sms recipients failed", failures)
	}
	n.logger.Info("sms notifications complete",
		"records", len(records),
		"messages", len(messages),
		"sent", len(n.to)-failures,
		"failed", failures,
	)
	return nil
}

func (n *TwilioNotifier) sendAll(recipient string, messages []string) error {
	for _, body := range messages {
		if err := n.sendMessage(recipient, body); err != nil {
			return err
		}
	}
	return nil
}

func (n *TwilioNotifier) sendMessage(recipient, body string) error {
	form := url.Values{
		"From": {n.from},
		"To":   {recipient},
		"Body": {body},
	}

	resp, err := n.post(form)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		n.logger.Warn("twilio rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp, err = n.post(form)
		if err != nil {
			return fmt.Errorf("retry: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}

func (n *TwilioNotifier) post(form url.Values) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.baseURL, n.accountSID)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(n.accountSID, n.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post to twilio: %w", err)
	}
	return resp, nil
}
