package proto

// Commands understood by the server's control endpoint.
const (
	CmdStats         = "stats"
	CmdPhasedRestart = "phased-restart"
	CmdHalt          = "halt"
)

// AckOK is the acknowledgement line a lifecycle command must produce.
const AckOK = "OK"
