package subscriber

// Skill handles commands for one voice-command domain, e.g. chromecast
// playback control.
type Skill interface {
	// HandleCommand executes a command for the named room. data carries
	// command-specific parameters from the Alexa skill's Lambda function.
	HandleCommand(room, command string, data map[string]any) error
}

// Notification is the decoded inner message published to the topic by the
// Alexa skill's Lambda function.
type Notification struct {
	Command     string         `json:"command"`
	HandlerName string         `json:"handler_name,omitempty"`
	Room        string         `json:"room,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}
