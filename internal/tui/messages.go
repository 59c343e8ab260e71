package tui

// Stats polling.

type statsTickMsg struct{}

// Shell command lifecycle.

type commandDoneMsg struct {
	line   string
	output string
	quit   bool
}

// Notification message.

type clearNotificationMsg struct {
	version int
}
