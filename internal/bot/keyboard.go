package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/snapstage/snapstage/internal/quickactions"
)

// Button labels shown on the persistent reply keyboard.
const (
	btnActions = "⚡ Actions"
	btnStatus  = "📊 Status"
	btnMenu    = "📋 Menu"
)

const callbackActionPrefix = "quick_action:"

// buttonCommands maps reply keyboard labels to their slash command
// equivalents.
var buttonCommands = map[string]string{
	btnActions: "/actions",
	btnStatus:  "/status",
	btnMenu:    "/menu",
}

// commandForButton returns the slash command for a keyboard button label,
// or "" when the text is not a known button.
func commandForButton(text string) string {
	return buttonCommands[strings.TrimSpace(text)]
}

// mainKeyboard is the persistent bottom keyboard.
func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnActions),
			tgbotapi.NewKeyboardButton(btnStatus),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMenu),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

// actionsKeyboard lays out quick actions as an inline keyboard with the
// given number of columns. Tapping a button fires a
// "quick_action:<id>" callback.
func actionsKeyboard(actions []quickactions.Action, columns int) tgbotapi.InlineKeyboardMarkup {
	if columns <= 0 {
		columns = 2
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(actions)+columns-1)/columns)
	row := make([]tgbotapi.InlineKeyboardButton, 0, columns)
	for _, action := range actions {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(action.Label(), callbackActionPrefix+action.ID))
		if len(row) == columns {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, columns)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// parseActionCallback extracts the action id from callback data.
func parseActionCallback(data string) (string, bool) {
	if !strings.HasPrefix(data, callbackActionPrefix) {
		return "", false
	}
	id := strings.TrimSpace(strings.TrimPrefix(data, callbackActionPrefix))
	if id == "" {
		return "", false
	}
	return id, true
}
