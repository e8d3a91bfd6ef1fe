package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/zeroprod/newsletter/ops"
	"github.com/zeroprod/newsletter/types"
)

// maxFormBytes caps the size of a subscription form body.
const maxFormBytes = 16 * 1024

type intakeHandler struct {
	agent ops.SubscriptionAgent
}

type subscribeRequest struct {
	Email types.SubscriberEmail
	Name  types.SubscriberName
}

// parseSubscribeForm validates both fields and describes every problem it
// finds without repeating the submitted values, which may be addresses.
func parseSubscribeForm(form url.Values) (*subscribeRequest, []string) {
	req := &subscribeRequest{}
	problems := make([]string, 0, 2)
	field := func(name string) (string, bool) {
		if values, ok := form[name]; ok && len(values) != 0 {
			return values[0], true
		}
		problems = append(problems, "missing "+name)
		return "", false
	}

	if rawName, ok := field("name"); ok {
		var err error
		if req.Name, err = types.ParseSubscriberName(rawName); err != nil {
			problems = append(problems, "invalid name")
		}
	}
	if rawEmail, ok := field("email"); ok {
		var err error
		if req.Email, err = types.ParseSubscriberEmail(rawEmail); err != nil {
			problems = append(problems, "invalid email")
		}
	}

	if len(problems) != 0 {
		return nil, problems
	}
	return req, nil
}

func (h *intakeHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if err := r.ParseForm(); err != nil {
		log.Info().Err(err).Msg("Failed to parse subscription form")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	req, problems := parseSubscribeForm(r.PostForm)
	if len(problems) != 0 {
		log.Info().Strs("problems", problems).Msg("Rejected subscription")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.agent.Subscribe(r.Context(), req.Email, req.Name); err != nil {
		// The agent already logged the details of persistence failures.
		if !errors.Is(err, ops.ErrPersistence) {
			log.Error().Err(err).Msg("Unexpected subscription failure")
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
