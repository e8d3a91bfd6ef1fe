package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/zeroprod/newsletter/types"
)

// ServerTokenHeader carries the provider credential on every request.
const ServerTokenHeader = "X-Postmark-Server-Token"

const sendEmailPath = "/email"

// Mailer sends a single message to a single recipient.
//
// *Client is the production implementation.
type Mailer interface {
	SendEmail(
		ctx context.Context,
		recipient types.SubscriberEmail,
		subject, htmlBody, textBody string,
	) error
}

// Client sends email through a Postmark compatible HTTP API.
//
// A Client holds no mutable state after NewClient returns, so one instance
// may be shared by any number of goroutines.
type Client struct {
	httpClient *http.Client
	endpoint   string
	sender     types.SubscriberEmail
	token      types.Secret
}

// NewClient returns a Client that posts to baseUrl's /email endpoint.
//
// timeout bounds every request issued through the Client, from dialing the
// connection through reading the response body. It cannot be changed per
// call.
func NewClient(
	baseUrl string,
	sender types.SubscriberEmail,
	token types.Secret,
	timeout time.Duration,
) (*Client, error) {
	base, err := url.Parse(baseUrl)

	if err != nil {
		return nil, fmt.Errorf("invalid email API base URL %q: %w", baseUrl, err)
	} else if !base.IsAbs() || base.Host == "" {
		const errFmt = "email API base URL must be absolute: %q"
		return nil, fmt.Errorf(errFmt, baseUrl)
	} else if timeout <= 0 {
		const errFmt = "email API timeout must be positive, got: %s"
		return nil, fmt.Errorf(errFmt, timeout)
	}

	endpoint := base.ResolveReference(&url.URL{Path: sendEmailPath})
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint.String(),
		sender:     sender,
		token:      token,
	}, nil
}

func (c *Client) Sender() types.SubscriberEmail {
	return c.sender
}

func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendEmail makes a single attempt to deliver one message to recipient.
//
// A nil return means the provider completed the HTTP exchange. The response
// status isn't inspected. Any transport failure, including exceeding the
// Client's timeout, returns a *DeliveryError.
func (c *Client) SendEmail(
	ctx context.Context,
	recipient types.SubscriberEmail,
	subject, htmlBody, textBody string,
) error {
	body, err := json.Marshal(&sendEmailRequest{
		From:     c.sender.String(),
		To:       recipient.String(),
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return &DeliveryError{Recipient: recipient.String(), Err: err}
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return &DeliveryError{Recipient: recipient.String(), Err: err}
	}
	req.Header.Set(ServerTokenHeader, c.token.Expose())
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return newDeliveryError(recipient, err)
	}
	defer res.Body.Close()

	// Draining the body lets the Transport reuse the connection.
	if _, err = io.Copy(io.Discard, res.Body); err != nil {
		return newDeliveryError(recipient, err)
	}
	return nil
}

func newDeliveryError(recipient types.SubscriberEmail, err error) error {
	return &DeliveryError{
		Recipient: recipient.String(), Timeout: isTimeout(err), Err: err,
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())
}
