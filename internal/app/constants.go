package app

const (
	Name            = "fynetip"
	AppID           = "com.skobkin.fynetip"
	SourceURL       = "https://git.skobk.in/skobkin/fynetip"
	ConfigFilename  = "config.json"
	LogFilename     = "app.log"
	JournalFilename = "journal.db"
)
