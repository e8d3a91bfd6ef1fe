//go:build small_tests || all_tests

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/zeroprod/newsletter/ops"
	"github.com/zeroprod/newsletter/testdata"
	"github.com/zeroprod/newsletter/testdoubles"
	tu "github.com/zeroprod/newsletter/testutils"
	"github.com/zeroprod/newsletter/types"
	"gotest.tools/assert"
)

type handlerFixture struct {
	agent   *testdoubles.Agent
	handler http.Handler
	logs    *tu.Logs
}

func newHandlerFixture() *handlerFixture {
	agent := testdoubles.NewAgent()
	logs, logger := tu.NewLogs()
	return &handlerFixture{agent, NewHandler(agent, logger), logs}
}

func (f *handlerFixture) postForm(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(
		http.MethodPost, SubscriptionsPath, strings.NewReader(body),
	)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func subscribeForm(name, email string) string {
	return url.Values{"name": {name}, "email": {email}}.Encode()
}

func TestHealthCheck(t *testing.T) {
	f := newHandlerFixture()
	req := httptest.NewRequest(http.MethodGet, HealthCheckPath, nil)
	rec := httptest.NewRecorder()

	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", rec.Body.String())
}

func TestSubscribe(t *testing.T) {
	t.Run("Returns200ForValidForm", func(t *testing.T) {
		f := newHandlerFixture()

		rec := f.postForm("name=le%20guin&email=ursula_le_guin%40gmail.com")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "", rec.Body.String())
		assert.Equal(t, 1, f.agent.CallCount())
		call := f.agent.Calls[0]
		assert.Equal(t, testdata.TestEmail, call.Email.String())
		assert.Equal(t, testdata.TestName, call.Name.String())
	})

	t.Run("Returns400ForMissingOrInvalidFields", func(t *testing.T) {
		cases := []struct {
			body        string
			description string
		}{
			{"name=le%20guin", "missing the email"},
			{"email=ursula_le_guin%40gmail.com", "missing the name"},
			{"", "missing both name and email"},
			{subscribeForm("", testdata.TestEmail), "empty name"},
			{subscribeForm("   ", testdata.TestEmail), "whitespace name"},
			{subscribeForm(testdata.TestName, ""), "empty email"},
			{subscribeForm(testdata.TestName, "definitely-not-an-email"), "invalid email"},
			{subscribeForm("Ursula <script>", testdata.TestEmail), "forbidden characters"},
			{subscribeForm(strings.Repeat("a", 257), testdata.TestEmail), "name too long"},
		}

		for _, tc := range cases {
			f := newHandlerFixture()

			rec := f.postForm(tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, tc.description)
			assert.Equal(t, "", rec.Body.String(), tc.description)
			assert.Equal(t, 0, f.agent.CallCount(), tc.description)
		}
	})

	t.Run("Returns400IfNotFormEncoded", func(t *testing.T) {
		f := newHandlerFixture()
		body := `{"name": "le guin", "email": "ursula_le_guin@gmail.com"}`
		req := httptest.NewRequest(
			http.MethodPost, SubscriptionsPath, strings.NewReader(body),
		)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		f.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, f.agent.CallCount())
	})

	t.Run("Returns400IfBodyTooLarge", func(t *testing.T) {
		f := newHandlerFixture()
		name := strings.Repeat("a", maxFormBytes)

		rec := f.postForm(subscribeForm(name, testdata.TestEmail))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.logs.AssertContains(t, "Failed to parse subscription form")
	})

	t.Run("Returns500IfPersistenceFails", func(t *testing.T) {
		f := newHandlerFixture()
		f.agent.Error = ops.ErrPersistence

		rec := f.postForm(subscribeForm(testdata.TestName, testdata.TestEmail))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "", rec.Body.String())
		f.logs.AssertDoesNotContain(t, "Unexpected subscription failure")
	})

	t.Run("Returns500OnUnexpectedAgentError", func(t *testing.T) {
		f := newHandlerFixture()
		f.agent.Error = errors.New("agent is confused")

		rec := f.postForm(subscribeForm(testdata.TestName, testdata.TestEmail))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		f.logs.AssertContains(t, "Unexpected subscription failure")
		f.logs.AssertContains(t, "agent is confused")
	})

	t.Run("Returns404ForUnknownPath", func(t *testing.T) {
		f := newHandlerFixture()
		req := httptest.NewRequest(http.MethodGet, "/subscribe", nil)
		rec := httptest.NewRecorder()

		f.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Returns405ForGetSubscriptions", func(t *testing.T) {
		f := newHandlerFixture()
		req := httptest.NewRequest(http.MethodGet, SubscriptionsPath, nil)
		rec := httptest.NewRecorder()

		f.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestParseSubscribeForm(t *testing.T) {
	t.Run("Succeeds", func(t *testing.T) {
		form := url.Values{
			"name": {testdata.TestName}, "email": {testdata.TestEmail},
		}

		req, problems := parseSubscribeForm(form)

		assert.Equal(t, 0, len(problems))
		assert.Equal(t, testdata.TestName, req.Name.String())
		assert.Equal(t, testdata.TestEmail, req.Email.String())
	})

	t.Run("ReportsEveryProblem", func(t *testing.T) {
		req, problems := parseSubscribeForm(url.Values{"name": {"{x}"}})

		assert.Assert(t, req == nil)
		assert.DeepEqual(t, []string{"invalid name", "missing email"}, problems)
	})
}

type panickingAgent struct{}

func (panickingAgent) Subscribe(
	context.Context, types.SubscriberEmail, types.SubscriberName,
) error {
	panic("something went horribly wrong")
}

func TestMiddleware(t *testing.T) {
	t.Run("LogsEachRequestWithRequestId", func(t *testing.T) {
		f := newHandlerFixture()
		req := httptest.NewRequest(http.MethodGet, HealthCheckPath, nil)
		req.Header.Set("X-Request-Id", "test-request-id")

		f.handler.ServeHTTP(httptest.NewRecorder(), req)

		f.logs.AssertContains(t, `"request_id":"test-request-id"`)
		f.logs.AssertContains(t, `"method":"GET"`)
		f.logs.AssertContains(t, `"path":"/health_check"`)
		f.logs.AssertContains(t, `"status":200`)
		f.logs.AssertContains(t, "Request completed")
	})

	t.Run("DoesNotLogSubmittedValues", func(t *testing.T) {
		f := newHandlerFixture()

		f.postForm(subscribeForm("le guin", "not-an-email-but-private"))

		f.logs.AssertContains(t, `"problems":["invalid email"]`)
		f.logs.AssertDoesNotContain(t, "not-an-email-but-private")
	})

	t.Run("RecoversFromPanics", func(t *testing.T) {
		logs, logger := tu.NewLogs()
		handler := NewHandler(panickingAgent{}, logger)
		req := httptest.NewRequest(
			http.MethodPost,
			SubscriptionsPath,
			strings.NewReader(subscribeForm(testdata.TestName, testdata.TestEmail)),
		)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		logs.AssertContains(t, `"status":500`)
	})
}
