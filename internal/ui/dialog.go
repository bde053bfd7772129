package ui

import (
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// ShowErrorDialog shows a modal error box. It is used for failures the user
// must see even when notifications are off, like an unusable config on start.
func ShowErrorDialog(title, message string) {
	if err := zenity.Error(message, zenity.Title(title), zenity.ErrorIcon); err != nil {
		log.Warn().Err(err).Str("title", title).Msg("Error dialog could not be shown")
	}
}
