package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

var (
	eventCard        string
	eventTitle       string
	eventDate        string
	eventStart       string
	eventEnd         string
	eventDescription string
	eventRemoteID    string
	eventWait        time.Duration
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Submit calendar events",
}

var eventAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or update one calendar event",
	Long: `Add submits a single event and waits for its broadcast outcome.

Reusing the same --card id updates the previously created remote event
instead of creating a duplicate. If no valid token is cached this
triggers the interactive consent flow in your browser.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := domain.SyncRequest{
			CardID:  eventCard,
			EventID: eventRemoteID,
			Event: domain.EventDetails{
				Title:       eventTitle,
				Date:        eventDate,
				StartTime:   eventStart,
				EndTime:     eventEnd,
				Description: eventDescription,
			},
		}
		if req.CardID == "" {
			req.CardID = uuid.New().String()
		}

		resultCh, cancel := results.Await(req.CardID)
		defer cancel()

		if err := syncService.Submit(cmd.Context(), req); err != nil {
			return err
		}

		cmd.Printf("Submitted card %s\n", req.CardID)

		select {
		case result := <-resultCh:
			if result.Status == domain.SyncSuccess {
				cmd.Printf("Synced: event %s\n", result.EventID)
				return nil
			}
			return fmt.Errorf("sync failed: %s", result.Message)
		case <-time.After(eventWait):
			return fmt.Errorf("timed out after %s waiting for the sync result", eventWait)
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	},
}

func init() {
	eventAddCmd.Flags().StringVar(&eventCard, "card", "", "stable card id (generated when omitted)")
	eventAddCmd.Flags().StringVar(&eventTitle, "title", "", "event title")
	eventAddCmd.Flags().StringVar(&eventDate, "date", "", "event date (YYYY-MM-DD)")
	eventAddCmd.Flags().StringVar(&eventStart, "start", "", "start time (HH:MM); omit for all-day")
	eventAddCmd.Flags().StringVar(&eventEnd, "end", "", "end time (HH:MM); defaults to start plus one hour")
	eventAddCmd.Flags().StringVar(&eventDescription, "description", "", "event description")
	eventAddCmd.Flags().StringVar(&eventRemoteID, "event-id", "", "remote event id to update directly")
	eventAddCmd.Flags().DurationVar(&eventWait, "wait", 5*time.Minute, "how long to wait for the outcome")
	_ = eventAddCmd.MarkFlagRequired("title")
	_ = eventAddCmd.MarkFlagRequired("date")

	eventCmd.AddCommand(eventAddCmd)
	rootCmd.AddCommand(eventCmd)
}
