package handlers

// Action types for logging and user updates
const (
	ActionCommandStart     = "command_start"
	ActionCommandHelp      = "command_help"
	ActionCommandNewReport = "command_newreport"
	ActionCommandCancel    = "command_cancel"
	ActionCommandLink      = "command_link"
	ActionWizardCallback   = "wizard_callback"
)
