package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// resultWait bounds how long schedule_event waits for its broadcast
// outcome; a consent flow the user walks away from should not hang the
// assistant forever.
const resultWait = 5 * time.Minute

// ScheduleEventInput is the input schema for the schedule_event tool.
type ScheduleEventInput struct {
	CardID      string `json:"cardId,omitempty" jsonschema:"stable identifier for this event; reuse it to update instead of duplicate"`
	Title       string `json:"title" jsonschema:"the event title"`
	Date        string `json:"date" jsonschema:"event date in YYYY-MM-DD form"`
	StartTime   string `json:"startTime,omitempty" jsonschema:"optional HH:MM start time; omit for an all-day event"`
	EndTime     string `json:"endTime,omitempty" jsonschema:"optional HH:MM end time; defaults to one hour after start"`
	Description string `json:"description,omitempty" jsonschema:"optional free-text description"`
	EventID     string `json:"eventId,omitempty" jsonschema:"remote event id to update directly"`
}

// ScheduleEventOutput is the output schema for the schedule_event tool.
type ScheduleEventOutput struct {
	CardID  string `json:"cardId"`
	Status  string `json:"status"`
	EventID string `json:"eventId,omitempty"`
	Message string `json:"message,omitempty"`
}

// SummariseMailInput is the input schema for the summarise_mail tool.
type SummariseMailInput struct {
	Body string `json:"body" jsonschema:"the raw mail body text"`
}

// SummariseMailOutput is the output schema for the summarise_mail tool.
type SummariseMailOutput struct {
	Summary  string                `json:"summary"`
	HasEvent bool                  `json:"hasEvent"`
	Events   []domain.EventDetails `json:"events,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "schedule_event",
		Description: "Create or update a Google Calendar event; may prompt the user for consent in their browser",
	}, s.handleScheduleEvent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarise_mail",
		Description: "Summarise a mail body and extract any calendar-worthy events from it",
	}, s.handleSummariseMail)
}

// handleScheduleEvent handles the schedule_event tool invocation.
func (s *Server) handleScheduleEvent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScheduleEventInput,
) (*mcp.CallToolResult, ScheduleEventOutput, error) {
	req := domain.SyncRequest{
		CardID:  input.CardID,
		EventID: input.EventID,
		Event: domain.EventDetails{
			Title:       input.Title,
			Date:        input.Date,
			StartTime:   input.StartTime,
			EndTime:     input.EndTime,
			Description: input.Description,
		},
	}
	if req.CardID == "" {
		req.CardID = uuid.New().String()
	}

	if s.ports.Results == nil {
		if err := s.ports.Sync.Submit(ctx, req); err != nil {
			return nil, ScheduleEventOutput{}, err
		}
		return nil, ScheduleEventOutput{CardID: req.CardID, Status: "accepted"}, nil
	}

	resultCh, cancel := s.ports.Results.Await(req.CardID)
	defer cancel()

	if err := s.ports.Sync.Submit(ctx, req); err != nil {
		return nil, ScheduleEventOutput{}, err
	}

	select {
	case result := <-resultCh:
		return nil, ScheduleEventOutput{
			CardID:  result.CardID,
			Status:  string(result.Status),
			EventID: result.EventID,
			Message: result.Message,
		}, nil
	case <-time.After(resultWait):
		return nil, ScheduleEventOutput{CardID: req.CardID, Status: "accepted",
			Message: "still waiting for user consent; the event will sync once granted"}, nil
	case <-ctx.Done():
		return nil, ScheduleEventOutput{}, ctx.Err()
	}
}

// handleSummariseMail handles the summarise_mail tool invocation.
func (s *Server) handleSummariseMail(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummariseMailInput,
) (*mcp.CallToolResult, SummariseMailOutput, error) {
	if s.ports.Assistant == nil {
		return nil, SummariseMailOutput{}, domain.ErrLLMUnavailable
	}

	summary, err := s.ports.Assistant.Summarise(ctx, input.Body)
	if err != nil {
		return nil, SummariseMailOutput{}, err
	}

	return nil, SummariseMailOutput{
		Summary:  summary.Summary,
		HasEvent: summary.HasEvent,
		Events:   summary.Events,
	}, nil
}
