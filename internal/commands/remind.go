package commands

import (
	"fmt"
	"time"

	"north_staffing_backend/internal/services"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one shift reminder sweep and exit",
	Long:  "Notify every confirmed assignment whose shift starts within REMINDER_WINDOW. Suitable for cron.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg, false)
		if err != nil {
			return err
		}
		defer store.Close()

		reminders := services.NewReminderService(store, newNotifier(cfg), cfg.ReminderWindow)
		summary, err := reminders.SendShiftReminders(cmd.Context(), time.Now())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Window %s - %s: %d scanned, %d sent, %d failed\n",
			summary.WindowStart.Format(time.RFC3339), summary.WindowEnd.Format(time.RFC3339),
			summary.Scanned, summary.Sent, summary.Failed)
		if summary.Failed > 0 {
			return fmt.Errorf("%d reminders could not be delivered", summary.Failed)
		}
		return nil
	},
}
