package messaging

type ChangeTopic string

const (
	// GlobalPrefix is the exchange prefix shared by every country.
	GlobalPrefix = "global"

	SearchPerformed ChangeTopic = "search"
	SessionStarted  ChangeTopic = "session"
)
