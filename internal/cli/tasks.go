package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// taskJSON mirrors the server's task view for display.
type taskJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Importance  string  `json:"importance"`
	Deadline    *string `json:"deadline"`
	Completed   bool    `json:"completed"`
	SnoozeCount int     `json:"snooze_count"`
	Score       float64 `json:"priority_score"`
	Stage       string  `json:"escalation_stage"`
	MicroSteps  []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	} `json:"micro_steps"`
}

func printTask(t taskJSON) {
	marker := " "
	if t.Completed {
		marker = "x"
	}
	fmt.Printf("[%s] %s  %s\n", marker, t.ID, t.Title)
	fmt.Printf("    stage=%s score=%.0f importance=%s", t.Stage, t.Score, t.Importance)
	if t.Deadline != nil {
		fmt.Printf(" deadline=%s", *t.Deadline)
	}
	if t.SnoozeCount > 0 {
		fmt.Printf(" snoozes=%d", t.SnoozeCount)
	}
	fmt.Println()
}

// --- add command ---

var (
	addImportance  string
	addDeadline    string
	addDescription string
	addTags        []string
	addSteps       []string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Track a new critical task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addImportance, "importance", "i", "", "Importance: critical, high, medium, low (default high)")
	addCmd.Flags().StringVarP(&addDeadline, "deadline", "d", "", "Deadline as RFC 3339 timestamp")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Longer description")
	addCmd.Flags().StringArrayVarP(&addTags, "tag", "t", nil, "Tag (repeatable)")
	addCmd.Flags().StringArrayVar(&addSteps, "step", nil, "Custom micro-step (repeatable; replaces the default checklist)")

	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include completed tasks")
	listCmd.Flags().StringVarP(&listStage, "stage", "s", "", "Filter by escalation stage")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of tasks")

	snoozeCmd.Flags().StringVarP(&snoozeUntil, "until", "u", "", "When to resurface: RFC 3339 timestamp or duration like 4h")
	snoozeCmd.Flags().StringVarP(&snoozeReason, "reason", "r", "", "Why the task is being deferred")
	snoozeCmd.MarkFlagRequired("until")
}

func runAdd(cmd *cobra.Command, args []string) error {
	payload, _ := json.Marshal(map[string]any{
		"title":       strings.Join(args, " "),
		"description": addDescription,
		"importance":  addImportance,
		"deadline":    addDeadline,
		"tags":        addTags,
		"steps":       addSteps,
	})

	data, err := NewClient().Post("/api/tasks", payload)
	if err != nil {
		return err
	}

	var t taskJSON
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	printTask(t)
	for _, s := range t.MicroSteps {
		fmt.Printf("    step %s  %s\n", s.ID, s.Description)
	}
	return nil
}

// --- list command ---

var (
	listAll   bool
	listStage string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked tasks by priority",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	q := url.Values{}
	if listAll {
		q.Set("include_completed", "true")
	}
	if listStage != "" {
		q.Set("stage", listStage)
	}
	if listLimit > 0 {
		q.Set("limit", strconv.Itoa(listLimit))
	}

	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	data, err := NewClient().Get(path)
	if err != nil {
		return err
	}

	var resp struct {
		Count int        `json:"count"`
		Tasks []taskJSON `json:"tasks"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.Count == 0 {
		fmt.Println("Nothing tracked. Add a task with: neverforget add")
		return nil
	}
	for _, t := range resp.Tasks {
		printTask(t)
	}
	return nil
}

// --- done command ---

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := NewClient().Post("/api/tasks/"+args[0]+"/complete", nil)
		if err != nil {
			return err
		}
		var t taskJSON
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		fmt.Printf("completed: %s\n", t.Title)
		return nil
	},
}

// --- snooze command ---

var (
	snoozeUntil  string
	snoozeReason string
)

var snoozeCmd = &cobra.Command{
	Use:   "snooze [task-id]",
	Short: "Defer a task until later",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnooze,
}

func runSnooze(cmd *cobra.Command, args []string) error {
	until := snoozeUntil
	// Accept a relative duration as a convenience; the server only takes
	// absolute timestamps.
	if d, err := time.ParseDuration(until); err == nil {
		until = time.Now().Add(d).Format(time.RFC3339)
	}

	payload, _ := json.Marshal(map[string]string{
		"until":  until,
		"reason": snoozeReason,
	})
	data, err := NewClient().Post("/api/tasks/"+args[0]+"/snooze", payload)
	if err != nil {
		return err
	}

	var t taskJSON
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	fmt.Printf("snoozed until %s (%d snoozes so far)\n", until, t.SnoozeCount)
	if t.SnoozeCount >= 3 {
		fmt.Println("note: repeated snoozing raises this task's urgency")
	}
	return nil
}

// --- note command ---

var noteCmd = &cobra.Command{
	Use:   "note [task-id] [text]",
	Short: "Attach a note to a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, _ := json.Marshal(map[string]string{
			"text": strings.Join(args[1:], " "),
		})
		if _, err := NewClient().Post("/api/tasks/"+args[0]+"/notes", payload); err != nil {
			return err
		}
		fmt.Println("note added")
		return nil
	},
}

// --- stats command ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := NewClient().Get("/api/stats")
		if err != nil {
			return err
		}

		var st struct {
			Total     int            `json:"total"`
			Active    int            `json:"active"`
			Completed int            `json:"completed"`
			Overdue   int            `json:"overdue"`
			Snoozed   int            `json:"snoozed"`
			ByStage   map[string]int `json:"by_stage"`
		}
		if err := json.Unmarshal(data, &st); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}

		fmt.Printf("total=%d active=%d completed=%d overdue=%d snoozed=%d\n",
			st.Total, st.Active, st.Completed, st.Overdue, st.Snoozed)
		for _, stage := range []string{"emergency", "critical", "urgent", "attention", "normal"} {
			if n := st.ByStage[stage]; n > 0 {
				fmt.Printf("  %-10s %d\n", stage, n)
			}
		}
		return nil
	},
}
