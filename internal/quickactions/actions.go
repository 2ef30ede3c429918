// Package quickactions maintains the catalog of predefined agent
// shortcuts a user can trigger from the chat UI without typing a prompt.
package quickactions

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action is one predefined shortcut. Command is the full instruction text
// sent to the agent when the action fires.
type Action struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Command     string `yaml:"command"`
	Icon        string `yaml:"icon"`
	Category    string `yaml:"category"`
	Priority    int    `yaml:"priority"`
}

// Label returns the button text for the action.
func (a Action) Label() string {
	if a.Icon == "" {
		return a.Name
	}
	return a.Icon + " " + a.Name
}

// Manager holds the action catalog and answers suggestion queries.
type Manager struct {
	actions map[string]Action
	logger  *slog.Logger
}

// NewManager creates a Manager with the built-in catalog. When catalogPath
// is non-empty the YAML file at that path replaces the built-ins.
func NewManager(log *slog.Logger, catalogPath string) (*Manager, error) {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		actions: defaultActions(),
		logger:  log.With(slog.String("service", "quickactions")),
	}
	if strings.TrimSpace(catalogPath) != "" {
		loaded, err := loadCatalog(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("load action catalog: %w", err)
		}
		m.actions = loaded
		m.logger.Info("loaded quick action catalog",
			slog.String("path", catalogPath),
			slog.Int("actions", len(loaded)),
		)
	}
	return m, nil
}

// Get returns the action with the given id.
func (m *Manager) Get(id string) (Action, bool) {
	action, ok := m.actions[id]
	return action, ok
}

// Suggestions returns up to limit actions sorted by descending priority.
func (m *Manager) Suggestions(limit int) []Action {
	out := make([]Action, 0, len(m.actions))
	for _, action := range m.actions {
		out = append(out, action)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func loadCatalog(path string) (map[string]Action, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []Action
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	actions := make(map[string]Action, len(list))
	for _, action := range list {
		if strings.TrimSpace(action.ID) == "" {
			return nil, fmt.Errorf("action id is required")
		}
		if strings.TrimSpace(action.Command) == "" {
			return nil, fmt.Errorf("action %s: command is required", action.ID)
		}
		if _, dup := actions[action.ID]; dup {
			return nil, fmt.Errorf("duplicate action id: %s", action.ID)
		}
		actions[action.ID] = action
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return actions, nil
}

// defaultActions is the built-in shortcut set. Commands are direct agent
// instructions; keep them free of shell syntax, the bot does not run a
// shell.
func defaultActions() map[string]Action {
	list := []Action{
		{
			ID:          "pending_tasks",
			Name:        "Pending Tasks",
			Description: "Show pending tasks from memory",
			Command:     "List my pending tasks from your task memory. Read only the task notes, be concise.",
			Icon:        "📋",
			Category:    "tasks",
			Priority:    10,
		},
		{
			ID:          "quick_note",
			Name:        "Quick Note",
			Description: "Capture a quick note to the inbox",
			Command:     "Ask me what I want to remember, then save it as a timestamped markdown note in the inbox directory.",
			Icon:        "💡",
			Category:    "capture",
			Priority:    9,
		},
		{
			ID:          "reminders",
			Name:        "Reminders",
			Description: "Check upcoming reminders",
			Command:     "Check my notes for reminders or scheduled items and list them briefly.",
			Icon:        "🔔",
			Category:    "schedule",
			Priority:    8,
		},
		{
			ID:          "recent_learnings",
			Name:        "Recent Learnings",
			Description: "Review recently captured learnings",
			Command:     "Read the three most recent learning notes and summarize them briefly.",
			Icon:        "📚",
			Category:    "review",
			Priority:    7,
		},
		{
			ID:          "search_memory",
			Name:        "Search Memory",
			Description: "Search the knowledge base",
			Command:     "Ask me what to search for, then search my notes for matching content.",
			Icon:        "🔍",
			Category:    "recall",
			Priority:    6,
		},
		{
			ID:          "work_summary",
			Name:        "Work Summary",
			Description: "Summarize current active work",
			Command:     "Read the most recent work log and summarize where it stands.",
			Icon:        "📊",
			Category:    "context",
			Priority:    5,
		},
	}
	actions := make(map[string]Action, len(list))
	for _, action := range list {
		actions[action.ID] = action
	}
	return actions
}
