package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/core/ports/driving"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// maxMailBodyLen caps how much mail text is sent to the model.
const maxMailBodyLen = 12000

// calendarMarker separates the summary section from the extracted-events
// JSON in the model's response.
const calendarMarker = "[CALENDAR_JSON]"

// summaryMarker opens the summary section in the model's response.
const summaryMarker = "[SUMMARY]"

// AssistantService produces mail summaries and candidate calendar events.
// It is stateless plumbing: clean the body, prompt the model, split the
// response.
type AssistantService struct {
	llm        driven.LLMService
	normaliser driven.MailNormaliser
}

// NewAssistantService creates an assistant service. llm may be nil, in which
// case Summarise reports domain.ErrLLMUnavailable.
func NewAssistantService(llm driven.LLMService, normaliser driven.MailNormaliser) *AssistantService {
	return &AssistantService{
		llm:        llm,
		normaliser: normaliser,
	}
}

// Summarise implements driving.AssistantService.
func (s *AssistantService) Summarise(ctx context.Context, rawBody string) (*domain.MailSummary, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(rawBody) == "" {
		return nil, domain.ErrInvalidInput
	}

	body := rawBody
	if s.normaliser != nil {
		body = s.normaliser.Clean(body)
	}
	if len(body) > maxMailBodyLen {
		body = body[:maxMailBodyLen]
	}

	response, err := s.llm.Generate(ctx, buildAssistantPrompt(body), driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}

	return splitAssistantResponse(response), nil
}

// buildAssistantPrompt asks for a summary and strict-JSON event extraction
// in two marked sections.
func buildAssistantPrompt(body string) string {
	var b strings.Builder
	b.WriteString(`You are a precise email assistant performing two tasks.

--- TASK 1: SUMMARY ---
Summarise the email below in one short paragraph of clear, concise sentences.
Only extract actionable or informational meaning, highlight deadlines or
required actions explicitly, do not repeat information, and do not
hallucinate. If nothing meaningful exists, output exactly: "No action required."

--- TASK 2: EVENT DETECTION ---
You are a precise calendar event extractor. If an event specifies a time
range (e.g., "6 AM to 4 PM"), extract BOTH startTime and endTime.

Calendar-worthy events include meetings, calls, interviews, appointments,
classes, lectures, workshops, exams, submissions with a due date, deadlines,
and anything the user must DO on a specific date. They do not include
promotional emails, announcements with no required action, recurring weekly
schedules or office hours, or vague references like "soon" without a date.

Time interpretation rules:
- If a specific time is explicitly mentioned, use it
- If the email mentions "EOD" or "end of day", interpret the time as 23:59
- If no time is mentioned, set "startTime" and "endTime" to null
- Do NOT guess or infer times other than the EOD rule above

Decision rules:
- A CLEAR date is REQUIRED (YYYY-MM-DD must be derivable)
- IF MULTIPLE EVENTS EXIST, EXTRACT ALL OF THEM
- Do NOT infer or guess missing dates or times
- Do NOT hallucinate titles, dates, or descriptions

--- OUTPUT FORMAT ---
You must provide the output in two distinct sections.

[SUMMARY]
<Provide the summary for Task 1 here>

[CALENDAR_JSON]
<Provide STRICT JSON ONLY for Task 2: { "hasEvent": boolean, "events": [ { "title": string, "date": "YYYY-MM-DD", "startTime": "HH:MM or null", "endTime": "HH:MM or null", "description": string } ] }>

EMAIL:
`)
	b.WriteString(body)
	return b.String()
}

// splitAssistantResponse splits the model output on the calendar marker and
// parses the JSON half. A missing or malformed JSON section degrades to a
// summary with no events; it never fails the call.
func splitAssistantResponse(response string) *domain.MailSummary {
	summaryPart, jsonPart, found := strings.Cut(response, calendarMarker)

	summary := strings.TrimSpace(strings.Replace(summaryPart, summaryMarker, "", 1))
	result := &domain.MailSummary{Summary: summary}
	if !found {
		return result
	}

	var parsed struct {
		HasEvent bool `json:"hasEvent"`
		Events   []struct {
			Title       string  `json:"title"`
			Date        string  `json:"date"`
			StartTime   *string `json:"startTime"`
			EndTime     *string `json:"endTime"`
			Description string  `json:"description"`
		} `json:"events"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(jsonPart)), &parsed); err != nil {
		logger.Debug("discarding malformed calendar JSON: %v", err)
		return result
	}

	for _, e := range parsed.Events {
		event := domain.EventDetails{
			Title:       e.Title,
			Date:        e.Date,
			Description: e.Description,
		}
		if e.StartTime != nil {
			event.StartTime = *e.StartTime
		}
		if e.EndTime != nil {
			event.EndTime = *e.EndTime
		}
		// Only events with a derivable calendar date are usable downstream.
		if !event.HasValidDate() {
			continue
		}
		result.Events = append(result.Events, event)
	}
	result.HasEvent = parsed.HasEvent && len(result.Events) > 0
	return result
}

// stripCodeFences removes markdown code fences some models wrap JSON in.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
