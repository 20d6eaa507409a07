package http

import (
	"net/http"

	"replydesk/internal/domain/message"
)

// testScenarios are canned employer messages exercising each pipeline path:
// a routine invitation, a keyword-flagged negotiation, a technical probe and
// a polite decline.
var testScenarios = map[string]message.Inbound{
	"interview_invitation": {
		Sender: "hr@acme.example",
		Text:   "Hi! We reviewed your profile and would love to invite you to an interview next week. Would Tuesday at 14:00 work for you?",
	},
	"salary_negotiation": {
		Sender: "recruiter@acme.example",
		Text:   "Before we proceed, could you share your salary expectations for this role?",
	},
	"technical_question": {
		Sender: "cto@acme.example",
		Text:   "Quick question before the interview: how would you design a rate limiter for a distributed API gateway?",
	},
	"offer_decline": {
		Sender: "candidate-support@acme.example",
		Text:   "Thank you for your time. Unfortunately we decided to move forward with another candidate for this position.",
	},
}

type scenarioRequest struct {
	Scenario string `json:"scenario"`
}

type scenarioResponse struct {
	Scenario string          `json:"scenario"`
	Message  message.Inbound `json:"input"`
	Outcome  message.Outcome `json:"outcome"`
}

// RunScenario processes one named canned message through the real pipeline.
// Without a scenario name it lists the available ones.
//
//	POST /api/v1/test
func (h *Handlers) RunScenario(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[scenarioRequest](w, r, maxMessageBody)
	if !ok {
		return
	}

	if req.Scenario == "" {
		names := make([]string, 0, len(testScenarios))
		for name := range testScenarios {
			names = append(names, name)
		}
		writeJSON(w, http.StatusOK, map[string]any{"scenarios": names})
		return
	}

	msg, found := testScenarios[req.Scenario]
	if !found {
		writeError(w, http.StatusBadRequest, "unknown scenario: "+req.Scenario)
		return
	}

	outcome, err := h.Dispatch.Process(r.Context(), msg)
	if err != nil {
		writeDomainError(w, err, "scenario could not be processed")
		return
	}

	writeJSON(w, http.StatusOK, scenarioResponse{
		Scenario: req.Scenario,
		Message:  msg,
		Outcome:  outcome,
	})
}
